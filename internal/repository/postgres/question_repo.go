package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/kunal96k/tts-mock-test/internal/domain/entity"
	apperrors "github.com/kunal96k/tts-mock-test/internal/pkg/errors"
)

// QuestionRepo реализует repository.QuestionRepository
type QuestionRepo struct {
	db *gorm.DB
}

// NewQuestionRepo создает новый репозиторий вопросов
func NewQuestionRepo(db *gorm.DB) *QuestionRepo {
	return &QuestionRepo{db: db}
}

// GetByID возвращает вопрос по ID (включая неактивные: грейдер проверяет уже выданные вопросы)
func (r *QuestionRepo) GetByID(id uint) (*entity.Question, error) {
	var question entity.Question
	err := r.db.First(&question, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &question, nil
}

// GetActiveByBank возвращает все активные вопросы банка
func (r *QuestionRepo) GetActiveByBank(bankID uint) ([]entity.Question, error) {
	var questions []entity.Question
	err := r.db.Where("bank_id = ? AND active = ?", bankID, true).
		Order("id").
		Find(&questions).Error
	if err != nil {
		return nil, err
	}
	return questions, nil
}

// GetActiveByBankAndDifficulty возвращает активные вопросы банка заданной сложности
func (r *QuestionRepo) GetActiveByBankAndDifficulty(bankID uint, difficulty entity.Difficulty) ([]entity.Question, error) {
	var questions []entity.Question
	err := r.db.Where("bank_id = ? AND difficulty = ? AND active = ?", bankID, difficulty, true).
		Order("id").
		Find(&questions).Error
	if err != nil {
		return nil, err
	}
	return questions, nil
}

// CountActiveByBank возвращает количество активных вопросов банка
func (r *QuestionRepo) CountActiveByBank(bankID uint) (int64, error) {
	var count int64
	err := r.db.Model(&entity.Question{}).
		Where("bank_id = ? AND active = ?", bankID, true).
		Count(&count).Error
	return count, err
}

// CountActiveByBankAndDifficulty возвращает количество активных вопросов банка заданной сложности
func (r *QuestionRepo) CountActiveByBankAndDifficulty(bankID uint, difficulty entity.Difficulty) (int64, error) {
	var count int64
	err := r.db.Model(&entity.Question{}).
		Where("bank_id = ? AND difficulty = ? AND active = ?", bankID, difficulty, true).
		Count(&count).Error
	return count, err
}

// SetActive меняет флаг активности вопроса (мягкое удаление)
func (r *QuestionRepo) SetActive(id uint, active bool) error {
	result := r.db.Model(&entity.Question{}).Where("id = ?", id).Update("active", active)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
