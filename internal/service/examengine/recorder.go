package examengine

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/kunal96k/tts-mock-test/internal/domain/entity"
	apperrors "github.com/kunal96k/tts-mock-test/internal/pkg/errors"
)

// AttemptRecorder сохраняет результат сдачи как неизменяемую попытку
type AttemptRecorder struct {
	deps *Dependencies
	now  func() time.Time
}

// NewAttemptRecorder создает новый рекордер попыток
func NewAttemptRecorder(deps *Dependencies) *AttemptRecorder {
	return &AttemptRecorder{
		deps: deps,
		now:  time.Now,
	}
}

// Record выполняет ровно одну вставку попытки.
// Количество вопросов берется из числа присланных ответов, а не из определения теста.
// Ошибка записи возвращается вызывающему как ErrPersistence.
func (r *AttemptRecorder) Record(submission AttemptSubmission, result *GradingResult, actingUser string) (*entity.TestAttempt, error) {
	if result == nil {
		return nil, fmt.Errorf("%w: grading result is required", apperrors.ErrValidation)
	}
	if submission.TimeTakenSeconds < 0 || submission.TabSwitches < 0 {
		return nil, fmt.Errorf("%w: time taken and tab switches must be non-negative", apperrors.ErrValidation)
	}

	answersJSON, err := json.Marshal(submission.Answers)
	if err != nil {
		return nil, fmt.Errorf("encode submitted answers: %w", err)
	}

	attempt := &entity.TestAttempt{
		Reference:        uuid.NewString(),
		StudentID:        submission.StudentID,
		TestID:           submission.TestID,
		BankID:           submission.BankID,
		TotalQuestions:   len(submission.Answers),
		CorrectAnswers:   result.CorrectAnswers,
		WrongAnswers:     result.WrongAnswers,
		UnansweredCount:  result.Unanswered,
		TotalMarks:       result.TotalMarks,
		ObtainedMarks:    result.ObtainedMarks,
		ScorePercentage:  result.ScorePercentage,
		Grade:            result.Grade,
		Passed:           result.Passed,
		TimeTakenSeconds: submission.TimeTakenSeconds,
		TabSwitches:      submission.TabSwitches,
		AttemptedBy:      actingUser,
		Remarks:          submission.Remarks,
		SubmittedAnswers: datatypes.JSON(answersJSON),
		CreatedAt:        r.now(),
	}

	if err := r.deps.AttemptRepo.Create(attempt); err != nil {
		log.Printf("[AttemptRecorder] CRITICAL: не удалось сохранить попытку студента #%d по тесту #%d: %v",
			submission.StudentID, submission.TestID, err)
		return nil, fmt.Errorf("%w: save attempt: %w", apperrors.ErrPersistence, err)
	}

	log.Printf("[AttemptRecorder] Попытка %s сохранена (студент #%d, тест #%d, %.2f%%, %s)",
		attempt.Reference, attempt.StudentID, attempt.TestID, attempt.ScorePercentage, attempt.Status())
	return attempt, nil
}
