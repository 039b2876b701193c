package postgres

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/kunal96k/tts-mock-test/internal/domain/entity"
	apperrors "github.com/kunal96k/tts-mock-test/internal/pkg/errors"
)

// TestBlueprintRepo реализует repository.TestBlueprintRepository
type TestBlueprintRepo struct {
	db *gorm.DB
}

// NewTestBlueprintRepo создает новый репозиторий определений тестов
func NewTestBlueprintRepo(db *gorm.DB) *TestBlueprintRepo {
	return &TestBlueprintRepo{db: db}
}

// Create сохраняет новое определение теста
func (r *TestBlueprintRepo) Create(blueprint *entity.TestBlueprint) error {
	if err := r.db.Omit("Subject").Create(blueprint).Error; err != nil {
		if isUniqueViolation(err) {
			return &apperrors.DuplicateNameError{Name: blueprint.Name}
		}
		return fmt.Errorf("create test blueprint: %w", err)
	}
	return nil
}

// Update сохраняет изменения определения теста
func (r *TestBlueprintRepo) Update(blueprint *entity.TestBlueprint) error {
	if err := r.db.Omit("Subject", "CreatedAt").Save(blueprint).Error; err != nil {
		if isUniqueViolation(err) {
			return &apperrors.DuplicateNameError{Name: blueprint.Name}
		}
		return fmt.Errorf("update test blueprint #%d: %w", blueprint.ID, err)
	}
	return nil
}

// GetByID возвращает определение теста вместе с предметом
func (r *TestBlueprintRepo) GetByID(id uint) (*entity.TestBlueprint, error) {
	var blueprint entity.TestBlueprint
	err := r.db.Preload("Subject").First(&blueprint, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &blueprint, nil
}

// GetByName возвращает определение теста по имени
func (r *TestBlueprintRepo) GetByName(name string) (*entity.TestBlueprint, error) {
	var blueprint entity.TestBlueprint
	err := r.db.Preload("Subject").Where("name = ?", name).First(&blueprint).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &blueprint, nil
}

// ExistsByName проверяет, занято ли имя другим определением
func (r *TestBlueprintRepo) ExistsByName(name string, excludeID uint) (bool, error) {
	var count int64
	query := r.db.Model(&entity.TestBlueprint{}).Where("name = ?", name)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// List возвращает все определения, новые первыми
func (r *TestBlueprintRepo) List() ([]entity.TestBlueprint, error) {
	return r.find(r.db)
}

// ListActive возвращает активные определения
func (r *TestBlueprintRepo) ListActive() ([]entity.TestBlueprint, error) {
	return r.find(r.db.Where("active = ?", true))
}

// ListByType возвращает определения заданного типа
func (r *TestBlueprintRepo) ListByType(testType entity.TestType) ([]entity.TestBlueprint, error) {
	return r.find(r.db.Where("type = ?", testType))
}

// ListBySubject возвращает определения предмета
func (r *TestBlueprintRepo) ListBySubject(subjectID uint) ([]entity.TestBlueprint, error) {
	return r.find(r.db.Where("subject_id = ?", subjectID))
}

func (r *TestBlueprintRepo) find(query *gorm.DB) ([]entity.TestBlueprint, error) {
	var blueprints []entity.TestBlueprint
	err := query.Preload("Subject").Order("created_at DESC, id DESC").Find(&blueprints).Error
	if err != nil {
		return nil, err
	}
	return blueprints, nil
}

// Delete удаляет определение теста. Попытки ссылаются на тест только по ID и не затрагиваются.
func (r *TestBlueprintRepo) Delete(id uint) error {
	result := r.db.Delete(&entity.TestBlueprint{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// CountAll возвращает общее количество определений
func (r *TestBlueprintRepo) CountAll() (int64, error) {
	var count int64
	err := r.db.Model(&entity.TestBlueprint{}).Count(&count).Error
	return count, err
}

// CountActive возвращает количество активных определений
func (r *TestBlueprintRepo) CountActive() (int64, error) {
	var count int64
	err := r.db.Model(&entity.TestBlueprint{}).Where("active = ?", true).Count(&count).Error
	return count, err
}
