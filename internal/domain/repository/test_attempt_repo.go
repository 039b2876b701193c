package repository

import (
	"github.com/kunal96k/tts-mock-test/internal/domain/entity"
)

// TestAttemptRepository - хранилище попыток только на запись и чтение.
// Методов изменения и удаления нет: попытка неизменяема после создания.
type TestAttemptRepository interface {
	Create(attempt *entity.TestAttempt) error
	GetByID(id uint) (*entity.TestAttempt, error)
	GetByReference(reference string) (*entity.TestAttempt, error)
	ListByStudent(studentID uint, limit, offset int) ([]entity.TestAttempt, error)
	ListByTest(testID uint) ([]entity.TestAttempt, error)
}
