package examengine

import (
	"github.com/stretchr/testify/mock"

	"github.com/kunal96k/tts-mock-test/internal/domain/entity"
)

// ============================================================================
// Моки репозиториев
// ============================================================================

// MockQuestionRepo реализует repository.QuestionRepository
type MockQuestionRepo struct {
	mock.Mock
}

func (m *MockQuestionRepo) GetByID(id uint) (*entity.Question, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Question), args.Error(1)
}

func (m *MockQuestionRepo) GetActiveByBank(bankID uint) ([]entity.Question, error) {
	args := m.Called(bankID)
	if rf, ok := args.Get(0).(func(uint) []entity.Question); ok {
		return rf(bankID), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Question), args.Error(1)
}

func (m *MockQuestionRepo) GetActiveByBankAndDifficulty(bankID uint, difficulty entity.Difficulty) ([]entity.Question, error) {
	args := m.Called(bankID, difficulty)
	if rf, ok := args.Get(0).(func(uint, entity.Difficulty) []entity.Question); ok {
		return rf(bankID, difficulty), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Question), args.Error(1)
}

func (m *MockQuestionRepo) CountActiveByBank(bankID uint) (int64, error) {
	args := m.Called(bankID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockQuestionRepo) CountActiveByBankAndDifficulty(bankID uint, difficulty entity.Difficulty) (int64, error) {
	args := m.Called(bankID, difficulty)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockQuestionRepo) SetActive(id uint, active bool) error {
	args := m.Called(id, active)
	return args.Error(0)
}

// MockAttemptRepo реализует repository.TestAttemptRepository
type MockAttemptRepo struct {
	mock.Mock
}

func (m *MockAttemptRepo) Create(attempt *entity.TestAttempt) error {
	args := m.Called(attempt)
	return args.Error(0)
}

func (m *MockAttemptRepo) GetByID(id uint) (*entity.TestAttempt, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.TestAttempt), args.Error(1)
}

func (m *MockAttemptRepo) GetByReference(reference string) (*entity.TestAttempt, error) {
	args := m.Called(reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.TestAttempt), args.Error(1)
}

func (m *MockAttemptRepo) ListByStudent(studentID uint, limit, offset int) ([]entity.TestAttempt, error) {
	args := m.Called(studentID, limit, offset)
	return args.Get(0).([]entity.TestAttempt), args.Error(1)
}

func (m *MockAttemptRepo) ListByTest(testID uint) ([]entity.TestAttempt, error) {
	args := m.Called(testID)
	return args.Get(0).([]entity.TestAttempt), args.Error(1)
}

// makeQuestions создает n активных вопросов банка с ID начиная с firstID
func makeQuestions(bankID uint, firstID uint, n int, difficulty entity.Difficulty) []entity.Question {
	questions := make([]entity.Question, 0, n)
	for i := 0; i < n; i++ {
		id := firstID + uint(i)
		questions = append(questions, entity.Question{
			ID:            id,
			BankID:        bankID,
			Text:          "Question text",
			OptionA:       "first option",
			OptionB:       "second option",
			OptionC:       "third option",
			OptionD:       "fourth option",
			CorrectAnswer: "C",
			Explanation:   "because of the third law",
			Points:        1,
			Difficulty:    difficulty,
			Active:        true,
		})
	}
	return questions
}

func strPtr(s string) *string { return &s }
