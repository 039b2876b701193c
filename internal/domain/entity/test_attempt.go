package entity

import (
	"fmt"
	"time"

	"gorm.io/datatypes"
)

// Статусы попытки
const (
	AttemptStatusPassed = "PASSED"
	AttemptStatusFailed = "FAILED"
)

// TestAttempt - неизменяемая запись о завершенной попытке прохождения теста.
// Создается один раз при сдаче и больше не изменяется.
type TestAttempt struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	Reference         string         `gorm:"size:36;not null;uniqueIndex" json:"reference"`
	StudentID         uint           `gorm:"not null;index" json:"student_id"`
	TestID            uint           `gorm:"not null;index" json:"test_id"`
	BankID            uint           `gorm:"not null" json:"bank_id"`
	TotalQuestions    int            `gorm:"not null" json:"total_questions"`
	CorrectAnswers    int            `gorm:"not null" json:"correct_answers"`
	WrongAnswers      int            `gorm:"not null" json:"wrong_answers"`
	UnansweredCount   int            `gorm:"not null" json:"unanswered_count"`
	TotalMarks        int            `gorm:"not null" json:"total_marks"`
	ObtainedMarks     int            `gorm:"not null" json:"obtained_marks"`
	ScorePercentage   float64        `gorm:"not null" json:"score_percentage"`
	Grade             string         `gorm:"size:2;not null" json:"grade"`
	Passed            bool           `gorm:"not null" json:"passed"`
	TimeTakenSeconds  int            `gorm:"not null" json:"time_taken_seconds"`
	TabSwitches       int            `gorm:"not null;default:0" json:"tab_switches"`
	AttemptedBy       string         `gorm:"size:100;not null" json:"attempted_by"`
	Remarks           string         `gorm:"type:text;not null;default:''" json:"remarks"`
	SubmittedAnswers  datatypes.JSON `gorm:"type:jsonb" json:"submitted_answers,omitempty"`
	CreatedAt         time.Time      `gorm:"not null" json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (TestAttempt) TableName() string {
	return "test_attempts"
}

// FormattedTime возвращает затраченное время в формате MM:SS
func (a *TestAttempt) FormattedTime() string {
	seconds := a.TimeTakenSeconds
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// Status возвращает PASSED или FAILED
func (a *TestAttempt) Status() string {
	if a.Passed {
		return AttemptStatusPassed
	}
	return AttemptStatusFailed
}
