package handler

import (
	"github.com/kunal96k/tts-mock-test/internal/domain/entity"
	"github.com/kunal96k/tts-mock-test/internal/service"
)

// TestRunner - операции сессий тестов и попыток, нужные обработчикам
type TestRunner interface {
	StartTest(studentID, testID uint) (*service.TestSession, error)
	SubmitTest(studentID uint, username string, sub service.Submission) (*service.SubmissionResult, error)
	ListStudentAttempts(studentID uint, limit, offset int) ([]entity.TestAttempt, error)
	GetAttempt(attemptID, requesterID uint, isAdmin bool) (*entity.TestAttempt, error)
	GetAttemptByReference(reference string, requesterID uint, isAdmin bool) (*entity.TestAttempt, error)
	GetQuestionBankStats(bankID uint) (*entity.BankStats, error)
	ValidateTestConfiguration(bankID uint, total, easy, medium, hard int) (*service.ConfigValidation, error)
	ListTestAttempts(testID uint) (*entity.TestBlueprint, []entity.TestAttempt, error)
}

// BlueprintManager - администрирование определений тестов
type BlueprintManager interface {
	Create(input service.BlueprintInput) (*entity.TestBlueprint, error)
	Update(id uint, input service.BlueprintInput) (*entity.TestBlueprint, error)
	ToggleActive(id uint) (*entity.TestBlueprint, error)
	Delete(id uint) error
	GetByID(id uint) (*entity.TestBlueprint, error)
	List(filter service.BlueprintFilter) ([]entity.TestBlueprint, error)
	Counts() (*service.BlueprintCounts, error)
}

// BankManager - администрирование банков вопросов
type BankManager interface {
	DeleteBank(bankID uint) error
	SetQuestionActive(questionID uint, active bool) error
	RecountAll() (*service.RecountReport, error)
}
