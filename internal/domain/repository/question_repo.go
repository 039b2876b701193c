package repository

import (
	"github.com/kunal96k/tts-mock-test/internal/domain/entity"
)

// QuestionRepository определяет методы чтения вопросов банка
type QuestionRepository interface {
	GetByID(id uint) (*entity.Question, error)
	GetActiveByBank(bankID uint) ([]entity.Question, error)
	GetActiveByBankAndDifficulty(bankID uint, difficulty entity.Difficulty) ([]entity.Question, error)
	CountActiveByBank(bankID uint) (int64, error)
	CountActiveByBankAndDifficulty(bankID uint, difficulty entity.Difficulty) (int64, error)

	// SetActive выполняет мягкое удаление или восстановление вопроса
	SetActive(id uint, active bool) error
}
