package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/kunal96k/tts-mock-test/internal/domain/entity"
	apperrors "github.com/kunal96k/tts-mock-test/internal/pkg/errors"
)

// SubjectRepo реализует repository.SubjectRepository
type SubjectRepo struct {
	db *gorm.DB
}

// NewSubjectRepo создает новый репозиторий предметов
func NewSubjectRepo(db *gorm.DB) *SubjectRepo {
	return &SubjectRepo{db: db}
}

// GetByID возвращает предмет по ID
func (r *SubjectRepo) GetByID(id uint) (*entity.Subject, error) {
	var subject entity.Subject
	err := r.db.First(&subject, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &subject, nil
}

// GetByName возвращает предмет по имени
func (r *SubjectRepo) GetByName(name string) (*entity.Subject, error) {
	var subject entity.Subject
	err := r.db.Where("name = ?", name).First(&subject).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &subject, nil
}

// List возвращает все предметы
func (r *SubjectRepo) List() ([]entity.Subject, error) {
	var subjects []entity.Subject
	err := r.db.Order("id").Find(&subjects).Error
	return subjects, err
}

// RecountQuestions пересчитывает total_questions предмета по активным вопросам активных банков
func (r *SubjectRepo) RecountQuestions(subjectID uint) (int64, error) {
	var count int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entity.Question{}).
			Joins("JOIN question_banks ON question_banks.id = questions.bank_id").
			Where("question_banks.subject_id = ? AND question_banks.active = ? AND questions.active = ?", subjectID, true, true).
			Count(&count).Error; err != nil {
			return err
		}
		result := tx.Model(&entity.Subject{}).Where("id = ?", subjectID).Update("total_questions", count)
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
