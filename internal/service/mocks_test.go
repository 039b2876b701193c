package service

import (
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/kunal96k/tts-mock-test/internal/domain/entity"
)

// ============================================================================
// Моки репозиториев для сервисов
// ============================================================================

// MockBlueprintRepo реализует repository.TestBlueprintRepository
type MockBlueprintRepo struct {
	mock.Mock
}

func (m *MockBlueprintRepo) Create(blueprint *entity.TestBlueprint) error {
	args := m.Called(blueprint)
	return args.Error(0)
}

func (m *MockBlueprintRepo) Update(blueprint *entity.TestBlueprint) error {
	args := m.Called(blueprint)
	return args.Error(0)
}

func (m *MockBlueprintRepo) GetByID(id uint) (*entity.TestBlueprint, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.TestBlueprint), args.Error(1)
}

func (m *MockBlueprintRepo) GetByName(name string) (*entity.TestBlueprint, error) {
	args := m.Called(name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.TestBlueprint), args.Error(1)
}

func (m *MockBlueprintRepo) ExistsByName(name string, excludeID uint) (bool, error) {
	args := m.Called(name, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockBlueprintRepo) List() ([]entity.TestBlueprint, error) {
	args := m.Called()
	return args.Get(0).([]entity.TestBlueprint), args.Error(1)
}

func (m *MockBlueprintRepo) ListActive() ([]entity.TestBlueprint, error) {
	args := m.Called()
	return args.Get(0).([]entity.TestBlueprint), args.Error(1)
}

func (m *MockBlueprintRepo) ListByType(testType entity.TestType) ([]entity.TestBlueprint, error) {
	args := m.Called(testType)
	return args.Get(0).([]entity.TestBlueprint), args.Error(1)
}

func (m *MockBlueprintRepo) ListBySubject(subjectID uint) ([]entity.TestBlueprint, error) {
	args := m.Called(subjectID)
	return args.Get(0).([]entity.TestBlueprint), args.Error(1)
}

func (m *MockBlueprintRepo) Delete(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockBlueprintRepo) CountAll() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBlueprintRepo) CountActive() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

// MockSubjectRepo реализует repository.SubjectRepository
type MockSubjectRepo struct {
	mock.Mock
}

func (m *MockSubjectRepo) GetByID(id uint) (*entity.Subject, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Subject), args.Error(1)
}

func (m *MockSubjectRepo) GetByName(name string) (*entity.Subject, error) {
	args := m.Called(name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Subject), args.Error(1)
}

func (m *MockSubjectRepo) List() ([]entity.Subject, error) {
	args := m.Called()
	return args.Get(0).([]entity.Subject), args.Error(1)
}

func (m *MockSubjectRepo) RecountQuestions(subjectID uint) (int64, error) {
	args := m.Called(subjectID)
	return args.Get(0).(int64), args.Error(1)
}

// MockBankRepo реализует repository.QuestionBankRepository
type MockBankRepo struct {
	mock.Mock
}

func (m *MockBankRepo) GetByID(id uint) (*entity.QuestionBank, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.QuestionBank), args.Error(1)
}

func (m *MockBankRepo) GetFirstActiveBySubject(subjectID uint) (*entity.QuestionBank, error) {
	args := m.Called(subjectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.QuestionBank), args.Error(1)
}

func (m *MockBankRepo) List() ([]entity.QuestionBank, error) {
	args := m.Called()
	return args.Get(0).([]entity.QuestionBank), args.Error(1)
}

func (m *MockBankRepo) DeleteWithQuestions(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockBankRepo) RecountQuestions(bankID uint) (int64, error) {
	args := m.Called(bankID)
	return args.Get(0).(int64), args.Error(1)
}

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
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Question), args.Error(1)
}

func (m *MockQuestionRepo) GetActiveByBankAndDifficulty(bankID uint, difficulty entity.Difficulty) ([]entity.Question, error) {
	args := m.Called(bankID, difficulty)
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

// MockCacheRepo реализует repository.CacheRepository
type MockCacheRepo struct {
	mock.Mock
}

func (m *MockCacheRepo) Delete(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

func (m *MockCacheRepo) SetJSON(key string, value interface{}, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *MockCacheRepo) GetJSON(key string, dest interface{}) error {
	args := m.Called(key, dest)
	return args.Error(0)
}

func (m *MockCacheRepo) SetNX(key string, value interface{}, expiration time.Duration) (bool, error) {
	args := m.Called(key, value, expiration)
	return args.Bool(0), args.Error(1)
}

func intPtr(n int) *int { return &n }

func strPtr(s string) *string { return &s }
