package service

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/kunal96k/tts-mock-test/internal/domain/entity"
	"github.com/kunal96k/tts-mock-test/internal/domain/repository"
	apperrors "github.com/kunal96k/tts-mock-test/internal/pkg/errors"
	"github.com/kunal96k/tts-mock-test/internal/service/examengine"
)

const (
	defaultStatsTTL = 5 * time.Minute
	// submittedSessionTTL - сколько хранится отметка о сданной сессии
	submittedSessionTTL = 24 * time.Hour
	// sessionGrace - запас времени на сдачу после окончания теста
	sessionGrace = time.Hour
)

// bankStatsKey - ключ кеша статистики банка
func bankStatsKey(bankID uint) string {
	return fmt.Sprintf("bank:%d:stats", bankID)
}

func sessionKey(sessionID string) string {
	return fmt.Sprintf("exam:session:%s", sessionID)
}

func submittedSessionKey(sessionID string) string {
	return fmt.Sprintf("exam:session:%s:submitted", sessionID)
}

// TestService собирает тесты, принимает сдачи и отдает историю попыток
type TestService struct {
	blueprintRepo repository.TestBlueprintRepository
	bankRepo      repository.QuestionBankRepository
	questionRepo  repository.QuestionRepository
	attemptRepo   repository.TestAttemptRepository
	cacheRepo     repository.CacheRepository

	selector *examengine.QuestionSelector
	grader   *examengine.AnswerGrader
	recorder *examengine.AttemptRecorder
	config   *examengine.Config

	statsTTL time.Duration
}

// NewTestService создает новый сервис тестирования
func NewTestService(
	blueprintRepo repository.TestBlueprintRepository,
	bankRepo repository.QuestionBankRepository,
	questionRepo repository.QuestionRepository,
	attemptRepo repository.TestAttemptRepository,
	cacheRepo repository.CacheRepository,
	config *examengine.Config,
	statsTTL time.Duration,
) *TestService {
	if config == nil {
		config = examengine.DefaultConfig()
	}
	if statsTTL <= 0 {
		statsTTL = defaultStatsTTL
	}
	deps := &examengine.Dependencies{
		QuestionRepo: questionRepo,
		AttemptRepo:  attemptRepo,
	}
	return &TestService{
		blueprintRepo: blueprintRepo,
		bankRepo:      bankRepo,
		questionRepo:  questionRepo,
		attemptRepo:   attemptRepo,
		cacheRepo:     cacheRepo,
		selector:      examengine.NewQuestionSelector(deps),
		grader:        examengine.NewAnswerGrader(config, deps),
		recorder:      examengine.NewAttemptRecorder(deps),
		config:        config,
		statsTTL:      statsTTL,
	}
}

// GetQuestionBankStats возвращает количество активных вопросов банка по уровням.
// Результат кешируется; ошибки кеша не мешают ответу.
func (s *TestService) GetQuestionBankStats(bankID uint) (*entity.BankStats, error) {
	key := bankStatsKey(bankID)

	var cached entity.BankStats
	err := s.cacheRepo.GetJSON(key, &cached)
	if err == nil {
		return &cached, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		log.Printf("[TestService] Ошибка чтения кеша %s: %v", key, err)
	}

	if _, err := s.bankRepo.GetByID(bankID); err != nil {
		return nil, fmt.Errorf("question bank #%d: %w", bankID, err)
	}

	stats := &entity.BankStats{BankID: bankID}
	if stats.Total, err = s.questionRepo.CountActiveByBank(bankID); err != nil {
		return nil, err
	}
	if stats.Easy, err = s.questionRepo.CountActiveByBankAndDifficulty(bankID, entity.DifficultyEasy); err != nil {
		return nil, err
	}
	if stats.Medium, err = s.questionRepo.CountActiveByBankAndDifficulty(bankID, entity.DifficultyMedium); err != nil {
		return nil, err
	}
	if stats.Hard, err = s.questionRepo.CountActiveByBankAndDifficulty(bankID, entity.DifficultyHard); err != nil {
		return nil, err
	}

	if err := s.cacheRepo.SetJSON(key, stats, s.statsTTL); err != nil {
		log.Printf("[TestService] Ошибка записи кеша %s: %v", key, err)
	}
	return stats, nil
}

// ConfigValidation - результат проверки конфигурации теста против банка
type ConfigValidation struct {
	Valid    bool             `json:"valid"`
	Messages []string         `json:"messages"`
	Stats    entity.BankStats `json:"stats"`
}

// ValidateTestConfiguration сравнивает запрошенные количества с доступными в банке
func (s *TestService) ValidateTestConfiguration(bankID uint, total, easy, medium, hard int) (*ConfigValidation, error) {
	stats, err := s.GetQuestionBankStats(bankID)
	if err != nil {
		return nil, err
	}

	result := &ConfigValidation{Valid: true, Messages: []string{}, Stats: *stats}
	check := func(label string, requested int, available int64) {
		if int64(requested) > available {
			result.Valid = false
			result.Messages = append(result.Messages,
				fmt.Sprintf("Not enough %s questions: requested %d, available %d", label, requested, available))
		}
	}

	check("total", total, stats.Total)
	check("easy", easy, stats.Easy)
	check("medium", medium, stats.Medium)
	check("hard", hard, stats.Hard)

	if easy+medium+hard > 0 && easy+medium+hard != total {
		result.Valid = false
		result.Messages = append(result.Messages,
			fmt.Sprintf("Tier counts sum to %d but total is %d", easy+medium+hard, total))
	}
	return result, nil
}

// TestSession - собранный тест, который отдается студенту
type TestSession struct {
	SessionID       string                    `json:"session_id"`
	TestID          uint                      `json:"test_id"`
	TestName        string                    `json:"test_name"`
	BankID          uint                      `json:"bank_id"`
	DurationMinutes int                       `json:"duration_minutes"`
	TabSwitchLimit  int                       `json:"tab_switch_limit"`
	TotalMarks      int                       `json:"total_marks"`
	Stratified      bool                      `json:"stratified"`
	Questions       []examengine.QuestionView `json:"questions"`
	StartedAt       time.Time                 `json:"started_at"`
}

// examSession - выданная студенту сессия, хранится в Redis до сдачи
type examSession struct {
	StudentID uint      `json:"student_id"`
	TestID    uint      `json:"test_id"`
	BankID    uint      `json:"bank_id"`
	StartedAt time.Time `json:"started_at"`
}

func sessionTTL(blueprint *entity.TestBlueprint) time.Duration {
	return time.Duration(blueprint.DurationMinutes)*time.Minute + sessionGrace
}

// StartTest собирает вопросы для активного теста из первого активного банка предмета.
// Стратифицированный режим используется, если заданы все три количества по сложности.
// Сессия запоминается в Redis, сдача принимается только по ней.
func (s *TestService) StartTest(studentID, testID uint) (*TestSession, error) {
	blueprint, err := s.blueprintRepo.GetByID(testID)
	if err != nil {
		return nil, fmt.Errorf("test #%d: %w", testID, err)
	}
	if !blueprint.Active {
		return nil, fmt.Errorf("%w: test #%d is not active", apperrors.ErrConflict, testID)
	}

	bank, err := s.bankRepo.GetFirstActiveBySubject(blueprint.SubjectID)
	if err != nil {
		return nil, fmt.Errorf("active question bank for subject #%d: %w", blueprint.SubjectID, err)
	}

	var questions []examengine.QuestionView
	if blueprint.IsStratified() {
		questions, err = s.selector.SelectStratified(bank.ID, *blueprint.EasyCount, *blueprint.MediumCount, *blueprint.HardCount)
	} else {
		questions, err = s.selector.SelectRandom(bank.ID, blueprint.QuestionCount)
	}
	if err != nil {
		return nil, err
	}

	session := &TestSession{
		SessionID:       uuid.NewString(),
		TestID:          blueprint.ID,
		TestName:        blueprint.Name,
		BankID:          bank.ID,
		DurationMinutes: blueprint.DurationMinutes,
		TabSwitchLimit:  blueprint.TabSwitchLimit,
		TotalMarks:      blueprint.TotalMarks,
		Stratified:      blueprint.IsStratified(),
		Questions:       questions,
		StartedAt:       time.Now(),
	}

	record := examSession{
		StudentID: studentID,
		TestID:    blueprint.ID,
		BankID:    bank.ID,
		StartedAt: session.StartedAt,
	}
	if err := s.cacheRepo.SetJSON(sessionKey(session.SessionID), record, sessionTTL(blueprint)); err != nil {
		log.Printf("[TestService] Не удалось сохранить сессию %s: %v", session.SessionID, err)
	}

	return session, nil
}

// resolveSession проверяет, что сессия выдана этому студенту на этот тест.
// Возвращает банк сессии. При недоступном Redis доверяет банку из запроса.
func (s *TestService) resolveSession(studentID uint, sub Submission) (uint, error) {
	var record examSession
	err := s.cacheRepo.GetJSON(sessionKey(sub.SessionID), &record)
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return 0, fmt.Errorf("%w: exam session %s not found or expired", apperrors.ErrNotFound, sub.SessionID)
	case err != nil:
		log.Printf("[TestService] Redis недоступен для проверки сессии %s: %v", sub.SessionID, err)
		return sub.BankID, nil
	}

	if record.StudentID != studentID {
		return 0, fmt.Errorf("%w: session %s belongs to another student", apperrors.ErrForbidden, sub.SessionID)
	}
	if record.TestID != sub.TestID {
		return 0, fmt.Errorf("%w: session %s was started for test #%d", apperrors.ErrValidation, sub.SessionID, record.TestID)
	}
	return record.BankID, nil
}

// Submission - сдача теста студентом
type Submission struct {
	SessionID        string
	TestID           uint
	// BankID из запроса используется, только если сессию не удалось проверить
	BankID           uint
	TimeTakenSeconds int
	TabSwitches      int
	Remarks          string
	Answers          []examengine.SubmittedAnswer
}

// SubmissionResult - результат сдачи, возвращается только после записи попытки
type SubmissionResult struct {
	Attempt *entity.TestAttempt
	Result  *examengine.GradingResult
}

// SubmitTest проверяет ответы и сохраняет попытку.
// Результат возвращается только если попытка записана.
func (s *TestService) SubmitTest(studentID uint, username string, sub Submission) (*SubmissionResult, error) {
	if sub.SessionID == "" {
		return nil, fmt.Errorf("%w: session_id is required", apperrors.ErrValidation)
	}

	blueprint, err := s.blueprintRepo.GetByID(sub.TestID)
	if err != nil {
		return nil, fmt.Errorf("test #%d: %w", sub.TestID, err)
	}

	bankID, err := s.resolveSession(studentID, sub)
	if err != nil {
		return nil, err
	}

	guardKey := submittedSessionKey(sub.SessionID)
	first, err := s.cacheRepo.SetNX(guardKey, studentID, submittedSessionTTL)
	if err != nil {
		log.Printf("[TestService] Redis недоступен для отметки сессии %s: %v", sub.SessionID, err)
		guardKey = ""
	} else if !first {
		return nil, fmt.Errorf("%w: session %s already submitted", apperrors.ErrConflict, sub.SessionID)
	}

	release := func() {
		if guardKey == "" {
			return
		}
		if err := s.cacheRepo.Delete(guardKey); err != nil {
			log.Printf("[TestService] Не удалось снять отметку сессии %s: %v", sub.SessionID, err)
		}
	}

	result, err := s.grader.GradeWithThreshold(sub.Answers, s.config.PassThresholdFor(blueprint))
	if err != nil {
		release()
		return nil, err
	}

	attempt, err := s.recorder.Record(examengine.AttemptSubmission{
		StudentID:        studentID,
		TestID:           blueprint.ID,
		BankID:           bankID,
		TimeTakenSeconds: sub.TimeTakenSeconds,
		TabSwitches:      sub.TabSwitches,
		Remarks:          sub.Remarks,
		Answers:          sub.Answers,
	}, result, username)
	if err != nil {
		release()
		return nil, err
	}

	return &SubmissionResult{Attempt: attempt, Result: result}, nil
}

// ListStudentAttempts возвращает попытки студента
func (s *TestService) ListStudentAttempts(studentID uint, limit, offset int) ([]entity.TestAttempt, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.attemptRepo.ListByStudent(studentID, limit, offset)
}

// GetAttempt возвращает попытку. Студент видит только свои попытки.
func (s *TestService) GetAttempt(attemptID, requesterID uint, isAdmin bool) (*entity.TestAttempt, error) {
	attempt, err := s.attemptRepo.GetByID(attemptID)
	if err != nil {
		return nil, fmt.Errorf("attempt #%d: %w", attemptID, err)
	}
	if !isAdmin && attempt.StudentID != requesterID {
		return nil, fmt.Errorf("%w: attempt #%d belongs to another student", apperrors.ErrForbidden, attemptID)
	}
	return attempt, nil
}

// GetAttemptByReference возвращает попытку по публичному идентификатору
func (s *TestService) GetAttemptByReference(reference string, requesterID uint, isAdmin bool) (*entity.TestAttempt, error) {
	if _, err := uuid.Parse(reference); err != nil {
		return nil, fmt.Errorf("%w: malformed attempt reference", apperrors.ErrValidation)
	}
	attempt, err := s.attemptRepo.GetByReference(reference)
	if err != nil {
		return nil, fmt.Errorf("attempt %s: %w", reference, err)
	}
	if !isAdmin && attempt.StudentID != requesterID {
		return nil, fmt.Errorf("%w: attempt belongs to another student", apperrors.ErrForbidden)
	}
	return attempt, nil
}

// ListTestAttempts возвращает все попытки теста
func (s *TestService) ListTestAttempts(testID uint) (*entity.TestBlueprint, []entity.TestAttempt, error) {
	blueprint, err := s.blueprintRepo.GetByID(testID)
	if err != nil {
		return nil, nil, fmt.Errorf("test #%d: %w", testID, err)
	}
	attempts, err := s.attemptRepo.ListByTest(testID)
	if err != nil {
		return nil, nil, err
	}
	return blueprint, attempts, nil
}
