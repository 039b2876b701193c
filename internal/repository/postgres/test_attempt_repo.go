package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/kunal96k/tts-mock-test/internal/domain/entity"
	apperrors "github.com/kunal96k/tts-mock-test/internal/pkg/errors"
)

// TestAttemptRepo реализует repository.TestAttemptRepository
type TestAttemptRepo struct {
	db *gorm.DB
}

// NewTestAttemptRepo создает новый репозиторий попыток
func NewTestAttemptRepo(db *gorm.DB) *TestAttemptRepo {
	return &TestAttemptRepo{db: db}
}

// Create вставляет попытку. Единственная операция записи в этом репозитории.
func (r *TestAttemptRepo) Create(attempt *entity.TestAttempt) error {
	return r.db.Create(attempt).Error
}

// GetByID возвращает попытку по ID
func (r *TestAttemptRepo) GetByID(id uint) (*entity.TestAttempt, error) {
	var attempt entity.TestAttempt
	err := r.db.First(&attempt, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &attempt, nil
}

// GetByReference возвращает попытку по публичному идентификатору
func (r *TestAttemptRepo) GetByReference(reference string) (*entity.TestAttempt, error) {
	var attempt entity.TestAttempt
	err := r.db.Where("reference = ?", reference).First(&attempt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &attempt, nil
}

// ListByStudent возвращает попытки студента с пагинацией, новые первыми
func (r *TestAttemptRepo) ListByStudent(studentID uint, limit, offset int) ([]entity.TestAttempt, error) {
	var attempts []entity.TestAttempt
	err := r.db.Where("student_id = ?", studentID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&attempts).Error
	return attempts, err
}

// ListByTest возвращает все попытки теста для экспорта
func (r *TestAttemptRepo) ListByTest(testID uint) ([]entity.TestAttempt, error) {
	var attempts []entity.TestAttempt
	err := r.db.Where("test_id = ?", testID).
		Order("created_at ASC, id ASC").
		Find(&attempts).Error
	return attempts, err
}
