package examengine

import (
	"fmt"
	"log"
	"math/rand"

	"github.com/kunal96k/tts-mock-test/internal/domain/entity"
	apperrors "github.com/kunal96k/tts-mock-test/internal/pkg/errors"
)

// QuestionSelector собирает случайный набор вопросов из банка
type QuestionSelector struct {
	deps    *Dependencies
	shuffle func(n int, swap func(i, j int))
}

// NewQuestionSelector создает новый селектор вопросов
func NewQuestionSelector(deps *Dependencies) *QuestionSelector {
	return &QuestionSelector{
		deps:    deps,
		shuffle: rand.Shuffle,
	}
}

// SelectRandom возвращает count случайных активных вопросов банка.
// Если активных вопросов нет или их меньше count, возвращает InsufficientQuestionsError.
func (s *QuestionSelector) SelectRandom(bankID uint, count int) ([]QuestionView, error) {
	if count <= 0 {
		return nil, fmt.Errorf("%w: question count must be positive, got %d", apperrors.ErrValidation, count)
	}

	questions, err := s.deps.QuestionRepo.GetActiveByBank(bankID)
	if err != nil {
		return nil, fmt.Errorf("load questions of bank #%d: %w", bankID, err)
	}

	if len(questions) == 0 || len(questions) < count {
		return nil, &apperrors.InsufficientQuestionsError{
			BankID:    bankID,
			Required:  count,
			Available: len(questions),
		}
	}

	s.shuffleQuestions(questions)

	log.Printf("[QuestionSelector] Банк #%d: выбрано %d из %d вопросов", bankID, count, len(questions))
	return toViews(questions[:count]), nil
}

// SelectStratified набирает вопросы отдельно по каждому уровню сложности.
// Уровень с count <= 0 пропускается. Нехватка вопросов уровня ошибкой не считается:
// берется столько, сколько есть. Итоговый список перемешивается.
func (s *QuestionSelector) SelectStratified(bankID uint, easy, medium, hard int) ([]QuestionView, error) {
	requested := []struct {
		difficulty entity.Difficulty
		count      int
	}{
		{entity.DifficultyEasy, easy},
		{entity.DifficultyMedium, medium},
		{entity.DifficultyHard, hard},
	}

	var selected []entity.Question
	for _, tier := range requested {
		if tier.count <= 0 {
			continue
		}

		pool, err := s.deps.QuestionRepo.GetActiveByBankAndDifficulty(bankID, tier.difficulty)
		if err != nil {
			return nil, fmt.Errorf("load %s questions of bank #%d: %w", tier.difficulty, bankID, err)
		}

		s.shuffleQuestions(pool)

		take := tier.count
		if take > len(pool) {
			log.Printf("[QuestionSelector] Банк #%d: запрошено %d вопросов уровня %s, доступно %d",
				bankID, tier.count, tier.difficulty, len(pool))
			take = len(pool)
		}
		selected = append(selected, pool[:take]...)
	}

	s.shuffleQuestions(selected)

	return toViews(selected), nil
}

func (s *QuestionSelector) shuffleQuestions(questions []entity.Question) {
	s.shuffle(len(questions), func(i, j int) {
		questions[i], questions[j] = questions[j], questions[i]
	})
}

func toViews(questions []entity.Question) []QuestionView {
	views := make([]QuestionView, 0, len(questions))
	for i := range questions {
		views = append(views, NewQuestionView(&questions[i]))
	}
	return views
}
