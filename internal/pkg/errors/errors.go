package errors

import (
	"errors"
	"fmt"
)

// Общие ошибки приложения
var (
	// ErrNotFound используется, когда запись или ресурс не найдены.
	ErrNotFound = errors.New("record not found")

	// ErrUnauthorized используется для ошибок авторизации (неверный токен, нет прав).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden используется, когда у пользователя недостаточно прав для действия.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation используется для ошибок валидации входных данных.
	ErrValidation = errors.New("validation failed")

	// ErrConflict используется для конфликтов состояния (например, дублирующееся имя теста).
	ErrConflict = errors.New("resource state conflict")

	// ErrInsufficientQuestions используется, когда в банке меньше активных вопросов, чем требуется.
	ErrInsufficientQuestions = errors.New("insufficient questions")

	// ErrPersistence используется, когда запись в хранилище не удалась.
	ErrPersistence = errors.New("persistence failure")
)

// InsufficientQuestionsError сообщает, сколько вопросов запрошено и сколько доступно.
type InsufficientQuestionsError struct {
	BankID    uint
	Required  int
	Available int
}

func (e *InsufficientQuestionsError) Error() string {
	if e.Available == 0 {
		return fmt.Sprintf("question bank #%d has no active questions (required %d, available 0)", e.BankID, e.Required)
	}
	return fmt.Sprintf("not enough questions in bank #%d: required %d, available %d", e.BankID, e.Required, e.Available)
}

// Is позволяет сравнивать через errors.Is(err, ErrInsufficientQuestions)
func (e *InsufficientQuestionsError) Is(target error) bool {
	return target == ErrInsufficientQuestions
}

// QuestionNotFoundError возвращается грейдером для неизвестного ID вопроса.
type QuestionNotFoundError struct {
	QuestionID uint
}

func (e *QuestionNotFoundError) Error() string {
	return fmt.Sprintf("question #%d not found", e.QuestionID)
}

// Is позволяет обрабатывать ошибку как обычный ErrNotFound
func (e *QuestionNotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// DuplicateNameError возвращается, когда сгенерированное имя теста уже занято.
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("test with name %q already exists", e.Name)
}

// Is сводит ошибку к ErrConflict
func (e *DuplicateNameError) Is(target error) bool {
	return target == ErrConflict
}
