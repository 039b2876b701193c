package entity

import (
	"fmt"
	"time"
)

// TestType - тип теста
type TestType string

// Константы типов теста
const (
	TestTypeMock  TestType = "MOCK"
	TestTypeFinal TestType = "FINAL"
)

// IsValid проверяет тип теста
func (t TestType) IsValid() bool {
	return t == TestTypeMock || t == TestTypeFinal
}

// DisplaySuffix возвращает суффикс для имени теста
func (t TestType) DisplaySuffix() string {
	if t == TestTypeFinal {
		return "Final Test"
	}
	return "Mock Test"
}

// TestBlueprint - определение теста, по которому собирается сессия
type TestBlueprint struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	SubjectID         uint      `gorm:"not null;index" json:"subject_id"`
	Subject           *Subject  `gorm:"foreignKey:SubjectID" json:"subject,omitempty"`
	Type              TestType  `gorm:"size:10;not null;index" json:"type"`
	Name              string    `gorm:"size:200;not null;uniqueIndex" json:"name"`
	QuestionCount     int       `gorm:"not null" json:"question_count"`
	DurationMinutes   int       `gorm:"not null" json:"duration_minutes"`
	PassingPercentage int       `gorm:"not null" json:"passing_percentage"`
	MarksPerQuestion  int       `gorm:"not null;default:1" json:"marks_per_question"`
	TabSwitchLimit    int       `gorm:"not null;default:0" json:"tab_switch_limit"`
	TotalMarks        int       `gorm:"not null" json:"total_marks"`
	EasyCount         *int      `json:"easy_count,omitempty"`
	MediumCount       *int      `json:"medium_count,omitempty"`
	HardCount         *int      `json:"hard_count,omitempty"`
	Active            bool      `gorm:"not null;default:true;index" json:"active"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (TestBlueprint) TableName() string {
	return "test_blueprints"
}

// BlueprintName формирует отображаемое имя теста по предмету и типу
func BlueprintName(subjectName string, testType TestType) string {
	return fmt.Sprintf("%s %s", subjectName, testType.DisplaySuffix())
}

// RecalculateTotalMarks пересчитывает общий балл из количества вопросов и баллов за вопрос
func (b *TestBlueprint) RecalculateTotalMarks() {
	b.TotalMarks = b.QuestionCount * b.MarksPerQuestion
}

// IsStratified возвращает true, если заданы все три количества по сложности
func (b *TestBlueprint) IsStratified() bool {
	return b.EasyCount != nil && b.MediumCount != nil && b.HardCount != nil
}
