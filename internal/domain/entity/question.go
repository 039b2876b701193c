package entity

import (
	"strings"
	"time"
)

// Difficulty - уровень сложности вопроса
type Difficulty string

// Константы уровней сложности
const (
	DifficultyEasy   Difficulty = "EASY"
	DifficultyMedium Difficulty = "MEDIUM"
	DifficultyHard   Difficulty = "HARD"
)

// AllDifficulties возвращает уровни в порядке возрастания сложности
func AllDifficulties() []Difficulty {
	return []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}
}

// IsValid проверяет, что уровень сложности известен
func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Буквы вариантов ответа
const (
	OptionA = "A"
	OptionB = "B"
	OptionC = "C"
	OptionD = "D"
)

// Question представляет вопрос с четырьмя вариантами ответа
type Question struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	BankID        uint       `gorm:"not null;index" json:"bank_id"`
	Text          string     `gorm:"type:text;not null" json:"text"`
	OptionA       string     `gorm:"size:500;not null" json:"option_a"`
	OptionB       string     `gorm:"size:500;not null" json:"option_b"`
	OptionC       string     `gorm:"size:500;not null" json:"option_c"`
	OptionD       string     `gorm:"size:500;not null" json:"option_d"`
	CorrectAnswer string     `gorm:"size:1;not null" json:"-"` // Скрыто от клиента
	Explanation   string     `gorm:"type:text;not null;default:''" json:"-"`
	Points        int        `gorm:"not null;default:1" json:"points"`
	Difficulty    Difficulty `gorm:"size:10;not null;index" json:"difficulty"`
	Active        bool       `gorm:"not null;default:true;index" json:"active"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Question) TableName() string {
	return "questions"
}

// IsCorrect проверяет ответ без учета регистра. nil означает отсутствие ответа.
func (q *Question) IsCorrect(selected *string) bool {
	if selected == nil {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(*selected), q.CorrectAnswer)
}

// HasValidCorrectAnswer проверяет, что правильный ответ - одна из букв A-D
func (q *Question) HasValidCorrectAnswer() bool {
	return IsValidOptionLetter(q.CorrectAnswer)
}

// IsValidOptionLetter проверяет букву варианта ответа
func IsValidOptionLetter(letter string) bool {
	switch strings.ToUpper(letter) {
	case OptionA, OptionB, OptionC, OptionD:
		return true
	}
	return false
}
