package dto

import (
	"time"

	"github.com/kunal96k/tts-mock-test/internal/domain/entity"
	"github.com/kunal96k/tts-mock-test/internal/handler/helper"
	"github.com/kunal96k/tts-mock-test/internal/service"
	"github.com/kunal96k/tts-mock-test/internal/service/examengine"
)

// QuestionResponse представляет вопрос сессии без правильного ответа
type QuestionResponse struct {
	ID         uint                    `json:"id"`
	Text       string                  `json:"text"`
	Options    []helper.QuestionOption `json:"options"`
	Points     int                     `json:"points"`
	Difficulty entity.Difficulty       `json:"difficulty"`
}

// TestSessionResponse представляет собранный тест
type TestSessionResponse struct {
	SessionID       string             `json:"session_id"`
	TestID          uint               `json:"test_id"`
	TestName        string             `json:"test_name"`
	BankID          uint               `json:"bank_id"`
	DurationMinutes int                `json:"duration_minutes"`
	TabSwitchLimit  int                `json:"tab_switch_limit"`
	TotalMarks      int                `json:"total_marks"`
	Questions       []QuestionResponse `json:"questions"`
	StartedAt       time.Time          `json:"started_at"`
}

// BlueprintResponse представляет определение теста
type BlueprintResponse struct {
	ID                uint      `json:"id"`
	SubjectID         uint      `json:"subject_id"`
	SubjectName       string    `json:"subject_name,omitempty"`
	Type              string    `json:"type"`
	Name              string    `json:"name"`
	QuestionCount     int       `json:"question_count"`
	DurationMinutes   int       `json:"duration_minutes"`
	PassingPercentage int       `json:"passing_percentage"`
	MarksPerQuestion  int       `json:"marks_per_question"`
	TabSwitchLimit    int       `json:"tab_switch_limit"`
	TotalMarks        int       `json:"total_marks"`
	EasyCount         *int      `json:"easy_count,omitempty"`
	MediumCount       *int      `json:"medium_count,omitempty"`
	HardCount         *int      `json:"hard_count,omitempty"`
	Active            bool      `json:"active"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// AttemptResponse представляет сохраненную попытку
type AttemptResponse struct {
	ID              uint      `json:"id"`
	Reference       string    `json:"reference"`
	StudentID       uint      `json:"student_id"`
	TestID          uint      `json:"test_id"`
	BankID          uint      `json:"bank_id"`
	TotalQuestions  int       `json:"total_questions"`
	CorrectAnswers  int       `json:"correct_answers"`
	WrongAnswers    int       `json:"wrong_answers"`
	Unanswered      int       `json:"unanswered"`
	TotalMarks      int       `json:"total_marks"`
	ObtainedMarks   int       `json:"obtained_marks"`
	ScorePercentage float64   `json:"score_percentage"`
	Grade           string    `json:"grade"`
	Status          string    `json:"status"`
	TimeTaken       string    `json:"time_taken"`
	TabSwitches     int       `json:"tab_switches"`
	AttemptedBy     string    `json:"attempted_by"`
	Remarks         string    `json:"remarks,omitempty"`
	SubmittedAt     time.Time `json:"submitted_at"`
}

// SubmitResponse - итог сдачи: попытка и разбор ответов
type SubmitResponse struct {
	Attempt       *AttemptResponse         `json:"attempt"`
	PassThreshold float64                  `json:"pass_threshold"`
	Review        []examengine.ReviewEntry `json:"review"`
}

// NewTestSessionResponse создает DTO сессии
func NewTestSessionResponse(s *service.TestSession) *TestSessionResponse {
	questions := make([]QuestionResponse, len(s.Questions))
	for i, q := range s.Questions {
		questions[i] = QuestionResponse{
			ID:         q.ID,
			Text:       q.Text,
			Options:    helper.ConvertOptionsToObjects(q),
			Points:     q.Points,
			Difficulty: q.Difficulty,
		}
	}
	return &TestSessionResponse{
		SessionID:       s.SessionID,
		TestID:          s.TestID,
		TestName:        s.TestName,
		BankID:          s.BankID,
		DurationMinutes: s.DurationMinutes,
		TabSwitchLimit:  s.TabSwitchLimit,
		TotalMarks:      s.TotalMarks,
		Questions:       questions,
		StartedAt:       s.StartedAt,
	}
}

// NewBlueprintResponse создает DTO определения теста
func NewBlueprintResponse(b *entity.TestBlueprint) *BlueprintResponse {
	resp := &BlueprintResponse{
		ID:                b.ID,
		SubjectID:         b.SubjectID,
		Type:              string(b.Type),
		Name:              b.Name,
		QuestionCount:     b.QuestionCount,
		DurationMinutes:   b.DurationMinutes,
		PassingPercentage: b.PassingPercentage,
		MarksPerQuestion:  b.MarksPerQuestion,
		TabSwitchLimit:    b.TabSwitchLimit,
		TotalMarks:        b.TotalMarks,
		EasyCount:         b.EasyCount,
		MediumCount:       b.MediumCount,
		HardCount:         b.HardCount,
		Active:            b.Active,
		CreatedAt:         b.CreatedAt,
		UpdatedAt:         b.UpdatedAt,
	}
	if b.Subject != nil {
		resp.SubjectName = b.Subject.Name
	}
	return resp
}

// NewListBlueprintResponse создает список DTO определений
func NewListBlueprintResponse(blueprints []entity.TestBlueprint) []*BlueprintResponse {
	result := make([]*BlueprintResponse, len(blueprints))
	for i := range blueprints {
		result[i] = NewBlueprintResponse(&blueprints[i])
	}
	return result
}

// NewAttemptResponse создает DTO попытки
func NewAttemptResponse(a *entity.TestAttempt) *AttemptResponse {
	return &AttemptResponse{
		ID:              a.ID,
		Reference:       a.Reference,
		StudentID:       a.StudentID,
		TestID:          a.TestID,
		BankID:          a.BankID,
		TotalQuestions:  a.TotalQuestions,
		CorrectAnswers:  a.CorrectAnswers,
		WrongAnswers:    a.WrongAnswers,
		Unanswered:      a.UnansweredCount,
		TotalMarks:      a.TotalMarks,
		ObtainedMarks:   a.ObtainedMarks,
		ScorePercentage: helper.Round2(a.ScorePercentage),
		Grade:           a.Grade,
		Status:          a.Status(),
		TimeTaken:       a.FormattedTime(),
		TabSwitches:     a.TabSwitches,
		AttemptedBy:     a.AttemptedBy,
		Remarks:         a.Remarks,
		SubmittedAt:     a.CreatedAt,
	}
}

// NewListAttemptResponse создает список DTO попыток
func NewListAttemptResponse(attempts []entity.TestAttempt) []*AttemptResponse {
	result := make([]*AttemptResponse, len(attempts))
	for i := range attempts {
		result[i] = NewAttemptResponse(&attempts[i])
	}
	return result
}

// NewSubmitResponse создает DTO итога сдачи
func NewSubmitResponse(r *service.SubmissionResult) *SubmitResponse {
	return &SubmitResponse{
		Attempt:       NewAttemptResponse(r.Attempt),
		PassThreshold: r.Result.PassThreshold,
		Review:        r.Result.Review,
	}
}
