package service

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/kunal96k/tts-mock-test/internal/domain/entity"
	"github.com/kunal96k/tts-mock-test/internal/domain/repository"
	apperrors "github.com/kunal96k/tts-mock-test/internal/pkg/errors"
)

// BlueprintInput - данные для создания или изменения определения теста.
// TotalMarks игнорируется: общий балл всегда пересчитывается.
type BlueprintInput struct {
	SubjectName       string `json:"subject_name" validate:"required,max=100"`
	Type              string `json:"type" validate:"required,oneof=MOCK FINAL"`
	QuestionCount     int    `json:"question_count" validate:"min=1,max=500"`
	DurationMinutes   int    `json:"duration_minutes" validate:"min=5,max=300"`
	PassingPercentage int    `json:"passing_percentage" validate:"min=1,max=100"`
	MarksPerQuestion  int    `json:"marks_per_question" validate:"min=1,max=10"`
	TabSwitchLimit    int    `json:"tab_switch_limit" validate:"min=0,max=50"`
	TotalMarks        int    `json:"total_marks"`
	EasyCount         *int   `json:"easy_count" validate:"omitempty,min=0,max=500"`
	MediumCount       *int   `json:"medium_count" validate:"omitempty,min=0,max=500"`
	HardCount         *int   `json:"hard_count" validate:"omitempty,min=0,max=500"`
	Active            *bool  `json:"active"`
}

// BlueprintService управляет определениями тестов
type BlueprintService struct {
	blueprintRepo repository.TestBlueprintRepository
	subjectRepo   repository.SubjectRepository
	validate      *validator.Validate
}

// NewBlueprintService создает новый сервис определений тестов
func NewBlueprintService(
	blueprintRepo repository.TestBlueprintRepository,
	subjectRepo repository.SubjectRepository,
) *BlueprintService {
	return &BlueprintService{
		blueprintRepo: blueprintRepo,
		subjectRepo:   subjectRepo,
		validate:      validator.New(),
	}
}

// Create проверяет входные данные и создает определение теста.
// Имя формируется из предмета и типа; совпадение имени - DuplicateNameError.
func (s *BlueprintService) Create(input BlueprintInput) (*entity.TestBlueprint, error) {
	subject, err := s.checkInput(input)
	if err != nil {
		return nil, err
	}

	blueprint := &entity.TestBlueprint{Active: true}
	if input.Active != nil {
		blueprint.Active = *input.Active
	}
	applyInput(blueprint, subject, input)

	if err := s.ensureNameAvailable(blueprint.Name, 0); err != nil {
		return nil, err
	}

	if err := s.blueprintRepo.Create(blueprint); err != nil {
		return nil, err
	}
	blueprint.Subject = subject

	log.Printf("[BlueprintService] Создан тест #%d %q (%d вопросов, %d баллов)",
		blueprint.ID, blueprint.Name, blueprint.QuestionCount, blueprint.TotalMarks)
	return blueprint, nil
}

// Update заново проверяет данные, пересчитывает имя и общий балл
func (s *BlueprintService) Update(id uint, input BlueprintInput) (*entity.TestBlueprint, error) {
	blueprint, err := s.blueprintRepo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("test blueprint #%d: %w", id, err)
	}

	subject, err := s.checkInput(input)
	if err != nil {
		return nil, err
	}

	applyInput(blueprint, subject, input)
	if input.Active != nil {
		blueprint.Active = *input.Active
	}

	if err := s.ensureNameAvailable(blueprint.Name, blueprint.ID); err != nil {
		return nil, err
	}

	blueprint.Subject = nil
	if err := s.blueprintRepo.Update(blueprint); err != nil {
		return nil, err
	}
	blueprint.Subject = subject

	log.Printf("[BlueprintService] Обновлен тест #%d %q", blueprint.ID, blueprint.Name)
	return blueprint, nil
}

// ToggleActive переключает флаг активности
func (s *BlueprintService) ToggleActive(id uint) (*entity.TestBlueprint, error) {
	blueprint, err := s.blueprintRepo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("test blueprint #%d: %w", id, err)
	}

	blueprint.Active = !blueprint.Active
	subject := blueprint.Subject
	blueprint.Subject = nil
	if err := s.blueprintRepo.Update(blueprint); err != nil {
		return nil, err
	}
	blueprint.Subject = subject
	return blueprint, nil
}

// Delete удаляет определение теста
func (s *BlueprintService) Delete(id uint) error {
	if err := s.blueprintRepo.Delete(id); err != nil {
		return fmt.Errorf("delete test blueprint #%d: %w", id, err)
	}
	log.Printf("[BlueprintService] Удален тест #%d", id)
	return nil
}

// GetByID возвращает определение теста
func (s *BlueprintService) GetByID(id uint) (*entity.TestBlueprint, error) {
	return s.blueprintRepo.GetByID(id)
}

// GetByName возвращает определение теста по имени
func (s *BlueprintService) GetByName(name string) (*entity.TestBlueprint, error) {
	return s.blueprintRepo.GetByName(name)
}

// BlueprintFilter - фильтр списка определений
type BlueprintFilter struct {
	Type       string
	SubjectID  uint
	ActiveOnly bool
}

// List возвращает определения по фильтру. Приоритет: тип, предмет, активность.
func (s *BlueprintService) List(filter BlueprintFilter) ([]entity.TestBlueprint, error) {
	switch {
	case filter.Type != "":
		testType := entity.TestType(strings.ToUpper(filter.Type))
		if !testType.IsValid() {
			return nil, fmt.Errorf("%w: unknown test type %q", apperrors.ErrValidation, filter.Type)
		}
		return s.blueprintRepo.ListByType(testType)
	case filter.SubjectID != 0:
		return s.blueprintRepo.ListBySubject(filter.SubjectID)
	case filter.ActiveOnly:
		return s.blueprintRepo.ListActive()
	default:
		return s.blueprintRepo.List()
	}
}

// BlueprintCounts - количество определений
type BlueprintCounts struct {
	Total  int64 `json:"total"`
	Active int64 `json:"active"`
}

// Counts возвращает общее и активное количество определений
func (s *BlueprintService) Counts() (*BlueprintCounts, error) {
	total, err := s.blueprintRepo.CountAll()
	if err != nil {
		return nil, err
	}
	active, err := s.blueprintRepo.CountActive()
	if err != nil {
		return nil, err
	}
	return &BlueprintCounts{Total: total, Active: active}, nil
}

// checkInput валидирует поля и находит предмет. Ничего не записывает.
func (s *BlueprintService) checkInput(input BlueprintInput) (*entity.Subject, error) {
	input.SubjectName = strings.TrimSpace(input.SubjectName)
	input.Type = strings.ToUpper(strings.TrimSpace(input.Type))

	if err := s.validate.Struct(input); err != nil {
		return nil, validationError(err)
	}

	tiers := []*int{input.EasyCount, input.MediumCount, input.HardCount}
	set := 0
	sum := 0
	for _, c := range tiers {
		if c != nil {
			set++
			sum += *c
		}
	}
	if set != 0 && set != len(tiers) {
		return nil, fmt.Errorf("%w: easy_count, medium_count and hard_count must be set together", apperrors.ErrValidation)
	}
	if set == len(tiers) && sum != input.QuestionCount {
		return nil, fmt.Errorf("%w: tier counts sum to %d, question_count is %d", apperrors.ErrValidation, sum, input.QuestionCount)
	}

	subject, err := s.subjectRepo.GetByName(input.SubjectName)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("subject %q: %w", input.SubjectName, apperrors.ErrNotFound)
		}
		return nil, err
	}
	return subject, nil
}

func (s *BlueprintService) ensureNameAvailable(name string, excludeID uint) error {
	exists, err := s.blueprintRepo.ExistsByName(name, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return &apperrors.DuplicateNameError{Name: name}
	}
	return nil
}

func applyInput(blueprint *entity.TestBlueprint, subject *entity.Subject, input BlueprintInput) {
	testType := entity.TestType(strings.ToUpper(strings.TrimSpace(input.Type)))

	blueprint.SubjectID = subject.ID
	blueprint.Type = testType
	blueprint.Name = entity.BlueprintName(subject.Name, testType)
	blueprint.QuestionCount = input.QuestionCount
	blueprint.DurationMinutes = input.DurationMinutes
	blueprint.PassingPercentage = input.PassingPercentage
	blueprint.MarksPerQuestion = input.MarksPerQuestion
	blueprint.TabSwitchLimit = input.TabSwitchLimit
	blueprint.EasyCount = input.EasyCount
	blueprint.MediumCount = input.MediumCount
	blueprint.HardCount = input.HardCount
	blueprint.RecalculateTotalMarks()
}

// validationError переводит ошибки validator в ErrValidation с перечнем полей
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s: %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			parts = append(parts, fmt.Sprintf("%s: %s", fe.Field(), fe.Tag()))
		}
	}
	return fmt.Errorf("%w: %s", apperrors.ErrValidation, strings.Join(parts, "; "))
}
