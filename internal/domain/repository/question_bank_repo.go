package repository

import (
	"github.com/kunal96k/tts-mock-test/internal/domain/entity"
)

// QuestionBankRepository определяет методы для работы с банками вопросов
type QuestionBankRepository interface {
	GetByID(id uint) (*entity.QuestionBank, error)
	// GetFirstActiveBySubject возвращает активный банк предмета с наименьшим ID
	GetFirstActiveBySubject(subjectID uint) (*entity.QuestionBank, error)
	List() ([]entity.QuestionBank, error)
	// DeleteWithQuestions удаляет банк вместе со всеми его вопросами в одной транзакции
	DeleteWithQuestions(id uint) error
	// RecountQuestions пересчитывает денормализованный счетчик активных вопросов банка
	RecountQuestions(bankID uint) (int64, error)
}

// SubjectRepository определяет методы для работы с предметами
type SubjectRepository interface {
	GetByID(id uint) (*entity.Subject, error)
	GetByName(name string) (*entity.Subject, error)
	List() ([]entity.Subject, error)
	// RecountQuestions пересчитывает счетчик активных вопросов по всем активным банкам предмета
	RecountQuestions(subjectID uint) (int64, error)
}
