package service

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kunal96k/tts-mock-test/internal/domain/entity"
	apperrors "github.com/kunal96k/tts-mock-test/internal/pkg/errors"
	"github.com/kunal96k/tts-mock-test/internal/service/examengine"
)

type testServiceMocks struct {
	blueprints *MockBlueprintRepo
	banks      *MockBankRepo
	questions  *MockQuestionRepo
	attempts   *MockAttemptRepo
	cache      *MockCacheRepo
}

func newTestServiceWithMocks(config *examengine.Config) (*TestService, *testServiceMocks) {
	m := &testServiceMocks{
		blueprints: new(MockBlueprintRepo),
		banks:      new(MockBankRepo),
		questions:  new(MockQuestionRepo),
		attempts:   new(MockAttemptRepo),
		cache:      new(MockCacheRepo),
	}
	svc := NewTestService(m.blueprints, m.banks, m.questions, m.attempts, m.cache, config, time.Minute)
	return svc, m
}

func bankQuestions(bankID, firstID uint, n int, difficulty entity.Difficulty) []entity.Question {
	questions := make([]entity.Question, n)
	for i := 0; i < n; i++ {
		questions[i] = entity.Question{
			ID:            firstID + uint(i),
			BankID:        bankID,
			Text:          "Question",
			OptionA:       "a",
			OptionB:       "b",
			OptionC:       "c",
			OptionD:       "d",
			CorrectAnswer: "B",
			Points:        1,
			Difficulty:    difficulty,
			Active:        true,
		}
	}
	return questions
}

// ============================================================================
// Статистика банка
// ============================================================================

func TestTestService_GetQuestionBankStats_CacheMissComputesAndStores(t *testing.T) {
	// Arrange
	svc, m := newTestServiceWithMocks(nil)
	m.cache.On("GetJSON", "bank:7:stats", mock.Anything).Return(apperrors.ErrNotFound)
	m.banks.On("GetByID", uint(7)).Return(&entity.QuestionBank{ID: 7, Active: true}, nil)
	m.questions.On("CountActiveByBank", uint(7)).Return(int64(30), nil)
	m.questions.On("CountActiveByBankAndDifficulty", uint(7), entity.DifficultyEasy).Return(int64(12), nil)
	m.questions.On("CountActiveByBankAndDifficulty", uint(7), entity.DifficultyMedium).Return(int64(10), nil)
	m.questions.On("CountActiveByBankAndDifficulty", uint(7), entity.DifficultyHard).Return(int64(8), nil)
	m.cache.On("SetJSON", "bank:7:stats", mock.Anything, time.Minute).Return(nil)

	// Act
	stats, err := svc.GetQuestionBankStats(7)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(30), stats.Total)
	assert.Equal(t, int64(12), stats.Easy)
	assert.Equal(t, int64(10), stats.Medium)
	assert.Equal(t, int64(8), stats.Hard)
	m.cache.AssertExpectations(t)
}

func TestTestService_GetQuestionBankStats_CacheHit(t *testing.T) {
	svc, m := newTestServiceWithMocks(nil)
	m.cache.On("GetJSON", "bank:7:stats", mock.Anything).
		Run(func(args mock.Arguments) {
			dest := args.Get(1).(*entity.BankStats)
			*dest = entity.BankStats{BankID: 7, Total: 3, Easy: 1, Medium: 1, Hard: 1}
		}).
		Return(nil)

	stats, err := svc.GetQuestionBankStats(7)

	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Total)
	m.banks.AssertNotCalled(t, "GetByID", mock.Anything)
	m.questions.AssertNotCalled(t, "CountActiveByBank", mock.Anything)
}

func TestTestService_GetQuestionBankStats_CacheFailureDoesNotBreak(t *testing.T) {
	svc, m := newTestServiceWithMocks(nil)
	m.cache.On("GetJSON", mock.Anything, mock.Anything).Return(errors.New("redis down"))
	m.banks.On("GetByID", uint(1)).Return(&entity.QuestionBank{ID: 1}, nil)
	m.questions.On("CountActiveByBank", uint(1)).Return(int64(2), nil)
	m.questions.On("CountActiveByBankAndDifficulty", uint(1), mock.Anything).Return(int64(0), nil)
	m.cache.On("SetJSON", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("redis down"))

	stats, err := svc.GetQuestionBankStats(1)

	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Total)
}

func TestTestService_GetQuestionBankStats_UnknownBank(t *testing.T) {
	svc, m := newTestServiceWithMocks(nil)
	m.cache.On("GetJSON", mock.Anything, mock.Anything).Return(apperrors.ErrNotFound)
	m.banks.On("GetByID", uint(99)).Return(nil, apperrors.ErrNotFound)

	_, err := svc.GetQuestionBankStats(99)

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestTestService_ValidateTestConfiguration(t *testing.T) {
	stats := entity.BankStats{BankID: 4, Total: 20, Easy: 10, Medium: 6, Hard: 4}

	tests := []struct {
		name                      string
		total, easy, medium, hard int
		wantValid                 bool
		wantMessages              int
	}{
		{"все хватает", 20, 10, 6, 4, true, 0},
		{"без уровней", 15, 0, 0, 0, true, 0},
		{"мало сложных", 20, 10, 5, 5, false, 1},
		{"мало всего", 25, 0, 0, 0, false, 1},
		{"сумма не совпадает", 10, 2, 2, 2, false, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newTestServiceWithMocks(nil)
			m.cache.On("GetJSON", "bank:4:stats", mock.Anything).
				Run(func(args mock.Arguments) { *args.Get(1).(*entity.BankStats) = stats }).
				Return(nil)

			result, err := svc.ValidateTestConfiguration(4, tt.total, tt.easy, tt.medium, tt.hard)

			require.NoError(t, err)
			assert.Equal(t, tt.wantValid, result.Valid)
			assert.Len(t, result.Messages, tt.wantMessages)
		})
	}
}

// ============================================================================
// Запуск теста
// ============================================================================

func TestTestService_StartTest_FlatSelection(t *testing.T) {
	// Arrange
	svc, m := newTestServiceWithMocks(nil)
	m.blueprints.On("GetByID", uint(3)).Return(&entity.TestBlueprint{
		ID: 3, SubjectID: 2, Name: "Physics Mock Test", QuestionCount: 5,
		DurationMinutes: 30, TotalMarks: 5, Active: true,
	}, nil)
	m.banks.On("GetFirstActiveBySubject", uint(2)).Return(&entity.QuestionBank{ID: 11, SubjectID: 2, Active: true}, nil)
	m.questions.On("GetActiveByBank", uint(11)).Return(bankQuestions(11, 100, 12, entity.DifficultyMedium), nil)
	var stored examSession
	m.cache.On("SetJSON", mock.AnythingOfType("string"), mock.Anything, 90*time.Minute).
		Run(func(args mock.Arguments) {
			stored = args.Get(1).(examSession)
		}).
		Return(nil)

	// Act
	session, err := svc.StartTest(42, 3)

	// Assert
	require.NoError(t, err)
	assert.NotEmpty(t, session.SessionID)
	assert.Equal(t, uint(11), session.BankID)
	assert.Len(t, session.Questions, 5)
	assert.False(t, session.Stratified)
	m.cache.AssertCalled(t, "SetJSON", "exam:session:"+session.SessionID, mock.Anything, 90*time.Minute)
	assert.Equal(t, examSession{StudentID: 42, TestID: 3, BankID: 11, StartedAt: session.StartedAt}, stored)
	m.questions.AssertNotCalled(t, "GetActiveByBankAndDifficulty", mock.Anything, mock.Anything)
}

func TestTestService_StartTest_SessionStoreFailureDoesNotBreak(t *testing.T) {
	svc, m := newTestServiceWithMocks(nil)
	m.blueprints.On("GetByID", uint(3)).Return(&entity.TestBlueprint{ID: 3, SubjectID: 2, QuestionCount: 2, Active: true}, nil)
	m.banks.On("GetFirstActiveBySubject", uint(2)).Return(&entity.QuestionBank{ID: 11}, nil)
	m.questions.On("GetActiveByBank", uint(11)).Return(bankQuestions(11, 1, 2, entity.DifficultyEasy), nil)
	m.cache.On("SetJSON", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("redis down"))

	session, err := svc.StartTest(42, 3)

	require.NoError(t, err)
	assert.Len(t, session.Questions, 2)
}

func TestTestService_StartTest_StratifiedSelection(t *testing.T) {
	svc, m := newTestServiceWithMocks(nil)
	m.blueprints.On("GetByID", uint(3)).Return(&entity.TestBlueprint{
		ID: 3, SubjectID: 2, QuestionCount: 6, Active: true,
		EasyCount: intPtr(3), MediumCount: intPtr(2), HardCount: intPtr(1),
	}, nil)
	m.banks.On("GetFirstActiveBySubject", uint(2)).Return(&entity.QuestionBank{ID: 11}, nil)
	m.questions.On("GetActiveByBankAndDifficulty", uint(11), entity.DifficultyEasy).Return(bankQuestions(11, 1, 5, entity.DifficultyEasy), nil)
	m.questions.On("GetActiveByBankAndDifficulty", uint(11), entity.DifficultyMedium).Return(bankQuestions(11, 100, 5, entity.DifficultyMedium), nil)
	m.questions.On("GetActiveByBankAndDifficulty", uint(11), entity.DifficultyHard).Return(bankQuestions(11, 200, 5, entity.DifficultyHard), nil)
	m.cache.On("SetJSON", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	session, err := svc.StartTest(42, 3)

	require.NoError(t, err)
	assert.True(t, session.Stratified)
	require.Len(t, session.Questions, 6)

	perTier := map[entity.Difficulty]int{}
	for _, q := range session.Questions {
		perTier[q.Difficulty]++
	}
	assert.Equal(t, 3, perTier[entity.DifficultyEasy])
	assert.Equal(t, 2, perTier[entity.DifficultyMedium])
	assert.Equal(t, 1, perTier[entity.DifficultyHard])
}

func TestTestService_StartTest_InactiveBlueprint(t *testing.T) {
	svc, m := newTestServiceWithMocks(nil)
	m.blueprints.On("GetByID", uint(3)).Return(&entity.TestBlueprint{ID: 3, Active: false}, nil)

	_, err := svc.StartTest(42, 3)

	assert.ErrorIs(t, err, apperrors.ErrConflict)
	m.banks.AssertNotCalled(t, "GetFirstActiveBySubject", mock.Anything)
	m.cache.AssertNotCalled(t, "SetJSON", mock.Anything, mock.Anything, mock.Anything)
}

func TestTestService_StartTest_InsufficientQuestions(t *testing.T) {
	svc, m := newTestServiceWithMocks(nil)
	m.blueprints.On("GetByID", uint(3)).Return(&entity.TestBlueprint{ID: 3, SubjectID: 2, QuestionCount: 40, Active: true}, nil)
	m.banks.On("GetFirstActiveBySubject", uint(2)).Return(&entity.QuestionBank{ID: 11}, nil)
	m.questions.On("GetActiveByBank", uint(11)).Return(bankQuestions(11, 1, 25, entity.DifficultyEasy), nil)

	_, err := svc.StartTest(42, 3)

	var insufficient *apperrors.InsufficientQuestionsError
	require.True(t, errors.As(err, &insufficient))
	assert.Equal(t, 40, insufficient.Required)
	assert.Equal(t, 25, insufficient.Available)
}

// ============================================================================
// Сдача теста
// ============================================================================

func setupSubmit(m *testServiceMocks, blueprint *entity.TestBlueprint) {
	m.blueprints.On("GetByID", blueprint.ID).Return(blueprint, nil)
	for _, q := range bankQuestions(11, 1, 3, entity.DifficultyEasy) {
		q := q
		m.questions.On("GetByID", q.ID).Return(&q, nil)
	}
}

// startedSession имитирует сессию, сохраненную при запуске теста
func startedSession(m *testServiceMocks, sessionID string, record examSession) {
	m.cache.On("GetJSON", "exam:session:"+sessionID, mock.AnythingOfType("*service.examSession")).
		Run(func(args mock.Arguments) {
			*args.Get(1).(*examSession) = record
		}).
		Return(nil)
}

func TestTestService_SubmitTest_GradesAndRecords(t *testing.T) {
	// Arrange
	svc, m := newTestServiceWithMocks(nil)
	setupSubmit(m, &entity.TestBlueprint{ID: 3, PassingPercentage: 80, Active: true})
	startedSession(m, "s-1", examSession{StudentID: 42, TestID: 3, BankID: 11})
	m.cache.On("SetNX", "exam:session:s-1:submitted", uint(42), 24*time.Hour).Return(true, nil)
	m.attempts.On("Create", mock.AnythingOfType("*entity.TestAttempt")).Return(nil)

	sub := Submission{
		SessionID:        "s-1",
		TestID:           3,
		BankID:           99,
		TimeTakenSeconds: 125,
		TabSwitches:      1,
		Answers: []examengine.SubmittedAnswer{
			{QuestionID: 1, SelectedAnswer: strPtr("B")},
			{QuestionID: 2, SelectedAnswer: strPtr("b")},
			{QuestionID: 3, SelectedAnswer: nil},
		},
	}

	// Act
	res, err := svc.SubmitTest(42, "student42", sub)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 2, res.Result.CorrectAnswers)
	assert.Equal(t, 1, res.Result.Unanswered)
	assert.InDelta(t, 66.67, res.Result.ScorePercentage, 0.01)
	assert.True(t, res.Result.Passed, "В режиме fixed порог 35, а не 80 из определения")
	assert.Equal(t, uint(42), res.Attempt.StudentID)
	assert.Equal(t, "student42", res.Attempt.AttemptedBy)
	assert.Equal(t, 3, res.Attempt.TotalQuestions)
	assert.Equal(t, uint(11), res.Attempt.BankID, "Банк берется из сессии, а не из запроса")
	m.cache.AssertNotCalled(t, "Delete", mock.Anything)
}

func TestTestService_SubmitTest_BlueprintPassMode(t *testing.T) {
	svc, m := newTestServiceWithMocks(&examengine.Config{PassMode: examengine.PassModeBlueprint, PassThreshold: 35})
	setupSubmit(m, &entity.TestBlueprint{ID: 3, PassingPercentage: 80, Active: true})
	startedSession(m, "s-5", examSession{StudentID: 42, TestID: 3, BankID: 11})
	m.cache.On("SetNX", "exam:session:s-5:submitted", mock.Anything, mock.Anything).Return(true, nil)
	m.attempts.On("Create", mock.Anything).Return(nil)

	sub := Submission{
		SessionID: "s-5",
		TestID:    3,
		Answers: []examengine.SubmittedAnswer{
			{QuestionID: 1, SelectedAnswer: strPtr("B")},
			{QuestionID: 2, SelectedAnswer: strPtr("B")},
			{QuestionID: 3, SelectedAnswer: strPtr("A")},
		},
	}

	res, err := svc.SubmitTest(42, "student42", sub)

	require.NoError(t, err)
	assert.False(t, res.Result.Passed, "66.67 ниже порога 80")
	assert.Equal(t, 80.0, res.Result.PassThreshold)
}

func TestTestService_SubmitTest_SessionAlreadySubmitted(t *testing.T) {
	svc, m := newTestServiceWithMocks(nil)
	m.blueprints.On("GetByID", uint(3)).Return(&entity.TestBlueprint{ID: 3}, nil)
	startedSession(m, "s-1", examSession{StudentID: 42, TestID: 3, BankID: 11})
	m.cache.On("SetNX", "exam:session:s-1:submitted", mock.Anything, mock.Anything).Return(false, nil)

	_, err := svc.SubmitTest(42, "student42", Submission{SessionID: "s-1", TestID: 3})

	assert.ErrorIs(t, err, apperrors.ErrConflict)
	m.attempts.AssertNotCalled(t, "Create", mock.Anything)
}

func TestTestService_SubmitTest_PersistenceFailureReleasesSession(t *testing.T) {
	// Arrange
	svc, m := newTestServiceWithMocks(nil)
	setupSubmit(m, &entity.TestBlueprint{ID: 3})
	startedSession(m, "s-2", examSession{StudentID: 42, TestID: 3, BankID: 11})
	m.cache.On("SetNX", "exam:session:s-2:submitted", mock.Anything, mock.Anything).Return(true, nil)
	m.cache.On("Delete", "exam:session:s-2:submitted").Return(nil)
	m.attempts.On("Create", mock.Anything).Return(errors.New("connection reset"))

	sub := Submission{
		SessionID: "s-2",
		TestID:    3,
		Answers:   []examengine.SubmittedAnswer{{QuestionID: 1, SelectedAnswer: strPtr("B")}},
	}

	// Act
	res, err := svc.SubmitTest(42, "student42", sub)

	// Assert
	assert.Nil(t, res, "Результат не отдается без записанной попытки")
	assert.ErrorIs(t, err, apperrors.ErrPersistence)
	m.cache.AssertCalled(t, "Delete", "exam:session:s-2:submitted")
}

func TestTestService_SubmitTest_UnknownQuestionAborts(t *testing.T) {
	svc, m := newTestServiceWithMocks(nil)
	setupSubmit(m, &entity.TestBlueprint{ID: 3})
	m.questions.On("GetByID", uint(999)).Return(nil, apperrors.ErrNotFound)
	startedSession(m, "s-3", examSession{StudentID: 42, TestID: 3, BankID: 11})
	m.cache.On("SetNX", mock.Anything, mock.Anything, mock.Anything).Return(true, nil)
	m.cache.On("Delete", mock.Anything).Return(nil)

	sub := Submission{
		SessionID: "s-3",
		TestID:    3,
		Answers: []examengine.SubmittedAnswer{
			{QuestionID: 1, SelectedAnswer: strPtr("B")},
			{QuestionID: 999, SelectedAnswer: strPtr("A")},
		},
	}

	_, err := svc.SubmitTest(42, "student42", sub)

	var notFound *apperrors.QuestionNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, uint(999), notFound.QuestionID)
	m.attempts.AssertNotCalled(t, "Create", mock.Anything)
	m.cache.AssertCalled(t, "Delete", "exam:session:s-3:submitted")
}

func TestTestService_SubmitTest_RedisUnavailableFailsOpen(t *testing.T) {
	svc, m := newTestServiceWithMocks(nil)
	setupSubmit(m, &entity.TestBlueprint{ID: 3})
	m.cache.On("GetJSON", mock.Anything, mock.Anything).Return(errors.New("redis down"))
	m.cache.On("SetNX", mock.Anything, mock.Anything, mock.Anything).Return(false, errors.New("redis down"))
	m.attempts.On("Create", mock.Anything).Return(nil)

	sub := Submission{
		SessionID: "s-4",
		TestID:    3,
		BankID:    11,
		Answers:   []examengine.SubmittedAnswer{{QuestionID: 1, SelectedAnswer: strPtr("B")}},
	}

	res, err := svc.SubmitTest(42, "student42", sub)

	require.NoError(t, err)
	assert.Equal(t, 1, res.Result.CorrectAnswers)
	assert.Equal(t, uint(11), res.Attempt.BankID)
}

func TestTestService_SubmitTest_SessionChecks(t *testing.T) {
	tests := []struct {
		name      string
		sessionID string
		stored    *examSession
		wantErr   error
	}{
		{"без сессии", "", nil, apperrors.ErrValidation},
		{"неизвестная сессия", "forged", nil, apperrors.ErrNotFound},
		{"чужая сессия", "s-6", &examSession{StudentID: 7, TestID: 3, BankID: 11}, apperrors.ErrForbidden},
		{"сессия другого теста", "s-6", &examSession{StudentID: 42, TestID: 4, BankID: 11}, apperrors.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newTestServiceWithMocks(nil)
			setupSubmit(m, &entity.TestBlueprint{ID: 3})
			if tt.stored != nil {
				startedSession(m, tt.sessionID, *tt.stored)
			} else {
				m.cache.On("GetJSON", mock.Anything, mock.Anything).Return(apperrors.ErrNotFound)
			}

			res, err := svc.SubmitTest(42, "student42", Submission{
				SessionID: tt.sessionID,
				TestID:    3,
				BankID:    11,
				Answers:   []examengine.SubmittedAnswer{{QuestionID: 1, SelectedAnswer: strPtr("B")}},
			})

			assert.Nil(t, res)
			assert.ErrorIs(t, err, tt.wantErr)
			m.cache.AssertNotCalled(t, "SetNX", mock.Anything, mock.Anything, mock.Anything)
			m.attempts.AssertNotCalled(t, "Create", mock.Anything)
		})
	}
}

// ============================================================================
// История попыток
// ============================================================================

func TestTestService_ListStudentAttempts_LimitDefaults(t *testing.T) {
	tests := []struct {
		name          string
		limit, offset int
		wantLimit     int
		wantOffset    int
	}{
		{"без лимита", 0, 0, 20, 0},
		{"слишком большой лимит", 500, 10, 20, 10},
		{"отрицательное смещение", 5, -3, 5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newTestServiceWithMocks(nil)
			m.attempts.On("ListByStudent", uint(42), tt.wantLimit, tt.wantOffset).Return([]entity.TestAttempt{}, nil)

			_, err := svc.ListStudentAttempts(42, tt.limit, tt.offset)

			require.NoError(t, err)
			m.attempts.AssertExpectations(t)
		})
	}
}

func TestTestService_GetAttempt_Ownership(t *testing.T) {
	svc, m := newTestServiceWithMocks(nil)
	m.attempts.On("GetByID", uint(8)).Return(&entity.TestAttempt{ID: 8, StudentID: 42}, nil)

	attempt, err := svc.GetAttempt(8, 42, false)
	require.NoError(t, err)
	assert.Equal(t, uint(8), attempt.ID)

	_, err = svc.GetAttempt(8, 7, false)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = svc.GetAttempt(8, 7, true)
	assert.NoError(t, err, "Администратор видит любые попытки")
}

func TestTestService_GetAttemptByReference_Malformed(t *testing.T) {
	svc, m := newTestServiceWithMocks(nil)

	_, err := svc.GetAttemptByReference("not-a-uuid", 1, false)

	assert.ErrorIs(t, err, apperrors.ErrValidation)
	m.attempts.AssertNotCalled(t, "GetByReference", mock.Anything)
}

func TestTestService_GetAttemptByReference_Ownership(t *testing.T) {
	ref := "6f1c2d9e-1111-4a4a-9b9b-000000000001"
	svc, m := newTestServiceWithMocks(nil)
	m.attempts.On("GetByReference", ref).Return(&entity.TestAttempt{ID: 5, Reference: ref, StudentID: 42}, nil)

	attempt, err := svc.GetAttemptByReference(ref, 42, false)
	require.NoError(t, err)
	assert.Equal(t, uint(5), attempt.ID)

	_, err = svc.GetAttemptByReference(ref, 7, false)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = svc.GetAttemptByReference(ref, 7, true)
	assert.NoError(t, err)
}

func TestTestService_ListTestAttempts(t *testing.T) {
	svc, m := newTestServiceWithMocks(nil)
	m.blueprints.On("GetByID", uint(3)).Return(&entity.TestBlueprint{ID: 3, Name: "Physics Mock Test"}, nil)
	m.attempts.On("ListByTest", uint(3)).Return([]entity.TestAttempt{{ID: 1}, {ID: 2}}, nil)

	blueprint, attempts, err := svc.ListTestAttempts(3)

	require.NoError(t, err)
	assert.Equal(t, "Physics Mock Test", blueprint.Name)
	assert.Len(t, attempts, 2)
}
