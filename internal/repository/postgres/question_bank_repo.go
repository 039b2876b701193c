package postgres

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/kunal96k/tts-mock-test/internal/domain/entity"
	apperrors "github.com/kunal96k/tts-mock-test/internal/pkg/errors"
)

// QuestionBankRepo реализует repository.QuestionBankRepository
type QuestionBankRepo struct {
	db *gorm.DB
}

// NewQuestionBankRepo создает новый репозиторий банков вопросов
func NewQuestionBankRepo(db *gorm.DB) *QuestionBankRepo {
	return &QuestionBankRepo{db: db}
}

// GetByID возвращает банк по ID
func (r *QuestionBankRepo) GetByID(id uint) (*entity.QuestionBank, error) {
	var bank entity.QuestionBank
	err := r.db.First(&bank, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &bank, nil
}

// GetFirstActiveBySubject возвращает первый по ID активный банк предмета
func (r *QuestionBankRepo) GetFirstActiveBySubject(subjectID uint) (*entity.QuestionBank, error) {
	var bank entity.QuestionBank
	err := r.db.Where("subject_id = ? AND active = ?", subjectID, true).
		Order("id ASC").
		First(&bank).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &bank, nil
}

// List возвращает все банки
func (r *QuestionBankRepo) List() ([]entity.QuestionBank, error) {
	var banks []entity.QuestionBank
	err := r.db.Order("id").Find(&banks).Error
	return banks, err
}

// DeleteWithQuestions удаляет вопросы банка и сам банк атомарно
func (r *QuestionBankRepo) DeleteWithQuestions(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var bank entity.QuestionBank
		if err := tx.Select("id").First(&bank, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrNotFound
			}
			return err
		}

		if err := tx.Where("bank_id = ?", id).Delete(&entity.Question{}).Error; err != nil {
			return fmt.Errorf("delete questions of bank #%d: %w", id, err)
		}

		if err := tx.Delete(&entity.QuestionBank{}, id).Error; err != nil {
			return fmt.Errorf("delete bank #%d: %w", id, err)
		}
		return nil
	})
}

// RecountQuestions пересчитывает total_questions банка по активным вопросам
func (r *QuestionBankRepo) RecountQuestions(bankID uint) (int64, error) {
	var count int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entity.Question{}).
			Where("bank_id = ? AND active = ?", bankID, true).
			Count(&count).Error; err != nil {
			return err
		}
		result := tx.Model(&entity.QuestionBank{}).Where("id = ?", bankID).Update("total_questions", count)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return apperrors.ErrNotFound
		}
		return nil
	})
	return count, err
}
