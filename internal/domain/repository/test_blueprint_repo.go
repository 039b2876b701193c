package repository

import (
	"github.com/kunal96k/tts-mock-test/internal/domain/entity"
)

// TestBlueprintRepository определяет методы для работы с определениями тестов
type TestBlueprintRepository interface {
	Create(blueprint *entity.TestBlueprint) error
	Update(blueprint *entity.TestBlueprint) error
	GetByID(id uint) (*entity.TestBlueprint, error)
	GetByName(name string) (*entity.TestBlueprint, error)
	// ExistsByName проверяет имя, исключая запись excludeID (0 - не исключать)
	ExistsByName(name string, excludeID uint) (bool, error)
	List() ([]entity.TestBlueprint, error)
	ListActive() ([]entity.TestBlueprint, error)
	ListByType(testType entity.TestType) ([]entity.TestBlueprint, error)
	ListBySubject(subjectID uint) ([]entity.TestBlueprint, error)
	Delete(id uint) error
	CountAll() (int64, error)
	CountActive() (int64, error)
}
