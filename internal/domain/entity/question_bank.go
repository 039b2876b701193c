package entity

import (
	"time"
)

// Subject представляет учебный предмет
type Subject struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Name           string    `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Description    string    `gorm:"size:500;not null;default:''" json:"description"`
	TotalQuestions int       `gorm:"not null;default:0" json:"total_questions"`
	Active         bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Subject) TableName() string {
	return "subjects"
}

// QuestionBank - набор вопросов по предмету. Банк владеет своими вопросами.
type QuestionBank struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	SubjectID      uint       `gorm:"not null;index" json:"subject_id"`
	Name           string     `gorm:"size:200;not null" json:"name"`
	TotalQuestions int        `gorm:"not null;default:0" json:"total_questions"`
	Active         bool       `gorm:"not null;default:true" json:"active"`
	Questions      []Question `gorm:"foreignKey:BankID;constraint:OnDelete:CASCADE" json:"questions,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (QuestionBank) TableName() string {
	return "question_banks"
}

// BankStats - количество активных вопросов банка по уровням сложности
type BankStats struct {
	BankID uint  `json:"bank_id"`
	Total  int64 `json:"total"`
	Easy   int64 `json:"easy"`
	Medium int64 `json:"medium"`
	Hard   int64 `json:"hard"`
}

// ForDifficulty возвращает количество вопросов заданного уровня
func (s BankStats) ForDifficulty(d Difficulty) int64 {
	switch d {
	case DifficultyEasy:
		return s.Easy
	case DifficultyMedium:
		return s.Medium
	case DifficultyHard:
		return s.Hard
	}
	return 0
}
