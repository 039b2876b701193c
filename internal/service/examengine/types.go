package examengine

import (
	"github.com/kunal96k/tts-mock-test/internal/domain/entity"
	"github.com/kunal96k/tts-mock-test/internal/domain/repository"
)

// Режимы определения порога сдачи
const (
	PassModeFixed     = "fixed"
	PassModeBlueprint = "blueprint"
)

// DefaultPassThreshold - фиксированный порог сдачи в процентах
const DefaultPassThreshold = 35.0

// Config содержит настройки движка тестирования
type Config struct {
	// PassMode: "fixed" - всегда PassThreshold, "blueprint" - процент сдачи из определения теста
	PassMode string
	// PassThreshold: порог сдачи для режима "fixed"
	PassThreshold float64
}

// DefaultConfig возвращает конфигурацию по умолчанию
func DefaultConfig() *Config {
	return &Config{
		PassMode:      PassModeFixed,
		PassThreshold: DefaultPassThreshold,
	}
}

// PassThresholdFor возвращает порог сдачи для определения теста с учетом режима
func (c *Config) PassThresholdFor(blueprint *entity.TestBlueprint) float64 {
	if c.PassMode == PassModeBlueprint && blueprint != nil && blueprint.PassingPercentage > 0 {
		return float64(blueprint.PassingPercentage)
	}
	if c.PassThreshold <= 0 {
		return DefaultPassThreshold
	}
	return c.PassThreshold
}

// Dependencies содержит зависимости движка
type Dependencies struct {
	QuestionRepo repository.QuestionRepository
	AttemptRepo  repository.TestAttemptRepository
}

// QuestionView - представление вопроса для студента.
// Не содержит правильного ответа и пояснения.
type QuestionView struct {
	ID         uint              `json:"id"`
	Text       string            `json:"text"`
	OptionA    string            `json:"option_a"`
	OptionB    string            `json:"option_b"`
	OptionC    string            `json:"option_c"`
	OptionD    string            `json:"option_d"`
	Points     int               `json:"points"`
	Difficulty entity.Difficulty `json:"difficulty"`
}

// NewQuestionView строит представление вопроса без ответа
func NewQuestionView(q *entity.Question) QuestionView {
	return QuestionView{
		ID:         q.ID,
		Text:       q.Text,
		OptionA:    q.OptionA,
		OptionB:    q.OptionB,
		OptionC:    q.OptionC,
		OptionD:    q.OptionD,
		Points:     q.Points,
		Difficulty: q.Difficulty,
	}
}

// SubmittedAnswer - ответ студента. SelectedAnswer == nil означает, что вопрос пропущен.
type SubmittedAnswer struct {
	QuestionID     uint    `json:"question_id"`
	SelectedAnswer *string `json:"selected_answer"`
}

// ReviewStatus - итог проверки одного ответа
type ReviewStatus string

// Статусы проверки
const (
	ReviewCorrect    ReviewStatus = "CORRECT"
	ReviewIncorrect  ReviewStatus = "INCORRECT"
	ReviewUnanswered ReviewStatus = "UNANSWERED"
)

// ReviewEntry - разбор одного ответа после проверки
type ReviewEntry struct {
	QuestionID      uint         `json:"question_id"`
	QuestionText    string       `json:"question_text"`
	SubmittedAnswer *string      `json:"submitted_answer"`
	CorrectAnswer   string       `json:"correct_answer"`
	Status          ReviewStatus `json:"status"`
	Explanation     string       `json:"explanation"`
	Points          int          `json:"points"`
}

// GradingResult - итог проверки всей сдачи
type GradingResult struct {
	CorrectAnswers  int           `json:"correct_answers"`
	WrongAnswers    int           `json:"wrong_answers"`
	Unanswered      int           `json:"unanswered"`
	TotalMarks      int           `json:"total_marks"`
	ObtainedMarks   int           `json:"obtained_marks"`
	ScorePercentage float64       `json:"score_percentage"`
	Grade           string        `json:"grade"`
	Passed          bool          `json:"passed"`
	PassThreshold   float64       `json:"pass_threshold"`
	Review          []ReviewEntry `json:"review"`
}

// AttemptSubmission - метаданные сессии, которые сохраняются вместе с результатом
type AttemptSubmission struct {
	StudentID        uint
	TestID           uint
	BankID           uint
	TimeTakenSeconds int
	TabSwitches      int
	Remarks          string
	Answers          []SubmittedAnswer
}
