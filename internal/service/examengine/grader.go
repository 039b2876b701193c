package examengine

import (
	"errors"
	"fmt"
	"log"

	apperrors "github.com/kunal96k/tts-mock-test/internal/pkg/errors"
)

// gradeScale - нижние границы оценок (включительно), по убыванию
var gradeScale = []struct {
	min   float64
	grade string
}{
	{90, "A+"},
	{80, "A"},
	{70, "B"},
	{60, "C"},
	{50, "D"},
	{35, "E"},
}

// GradeFor возвращает буквенную оценку для процента
func GradeFor(percentage float64) string {
	for _, step := range gradeScale {
		if percentage >= step.min {
			return step.grade
		}
	}
	return "F"
}

// AnswerGrader проверяет ответы по данным из хранилища вопросов
type AnswerGrader struct {
	config *Config
	deps   *Dependencies
}

// NewAnswerGrader создает новый грейдер
func NewAnswerGrader(config *Config, deps *Dependencies) *AnswerGrader {
	if config == nil {
		config = DefaultConfig()
	}
	return &AnswerGrader{
		config: config,
		deps:   deps,
	}
}

// Grade проверяет ответы с порогом сдачи из конфигурации
func (g *AnswerGrader) Grade(answers []SubmittedAnswer) (*GradingResult, error) {
	return g.GradeWithThreshold(answers, g.config.PassThresholdFor(nil))
}

// GradeWithThreshold проверяет ответы с явным порогом сдачи.
// Неизвестный ID вопроса прерывает проверку целиком: частичный результат не возвращается.
func (g *AnswerGrader) GradeWithThreshold(answers []SubmittedAnswer, passThreshold float64) (*GradingResult, error) {
	result := &GradingResult{
		PassThreshold: passThreshold,
		Review:        make([]ReviewEntry, 0, len(answers)),
	}

	for _, answer := range answers {
		question, err := g.deps.QuestionRepo.GetByID(answer.QuestionID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, &apperrors.QuestionNotFoundError{QuestionID: answer.QuestionID}
			}
			return nil, fmt.Errorf("load question #%d: %w", answer.QuestionID, err)
		}

		result.TotalMarks += question.Points

		entry := ReviewEntry{
			QuestionID:      question.ID,
			QuestionText:    question.Text,
			SubmittedAnswer: answer.SelectedAnswer,
			CorrectAnswer:   question.CorrectAnswer,
			Explanation:     question.Explanation,
			Points:          question.Points,
		}

		switch {
		case question.IsCorrect(answer.SelectedAnswer):
			entry.Status = ReviewCorrect
			result.CorrectAnswers++
			result.ObtainedMarks += question.Points
		case answer.SelectedAnswer == nil:
			entry.Status = ReviewUnanswered
			result.Unanswered++
		default:
			entry.Status = ReviewIncorrect
			result.WrongAnswers++
		}

		result.Review = append(result.Review, entry)
	}

	if result.TotalMarks > 0 {
		result.ScorePercentage = float64(result.ObtainedMarks) / float64(result.TotalMarks) * 100
	}
	result.Grade = GradeFor(result.ScorePercentage)
	result.Passed = result.ScorePercentage >= passThreshold

	log.Printf("[AnswerGrader] Проверено %d ответов: %d/%d баллов (%.2f%%), оценка %s",
		len(answers), result.ObtainedMarks, result.TotalMarks, result.ScorePercentage, result.Grade)

	return result, nil
}
