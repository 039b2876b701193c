package service

import (
	"fmt"
	"log"

	"github.com/kunal96k/tts-mock-test/internal/domain/repository"
)

// QuestionBankService выполняет изменения банков вопросов и пересчет счетчиков
type QuestionBankService struct {
	bankRepo     repository.QuestionBankRepository
	subjectRepo  repository.SubjectRepository
	questionRepo repository.QuestionRepository
	cacheRepo    repository.CacheRepository
}

// NewQuestionBankService создает новый сервис банков вопросов
func NewQuestionBankService(
	bankRepo repository.QuestionBankRepository,
	subjectRepo repository.SubjectRepository,
	questionRepo repository.QuestionRepository,
	cacheRepo repository.CacheRepository,
) *QuestionBankService {
	return &QuestionBankService{
		bankRepo:     bankRepo,
		subjectRepo:  subjectRepo,
		questionRepo: questionRepo,
		cacheRepo:    cacheRepo,
	}
}

// DeleteBank удаляет банк вместе с вопросами и пересчитывает счетчик предмета
func (s *QuestionBankService) DeleteBank(bankID uint) error {
	bank, err := s.bankRepo.GetByID(bankID)
	if err != nil {
		return fmt.Errorf("question bank #%d: %w", bankID, err)
	}

	if err := s.bankRepo.DeleteWithQuestions(bankID); err != nil {
		return fmt.Errorf("delete question bank #%d: %w", bankID, err)
	}
	s.invalidateStats(bankID)

	if _, err := s.subjectRepo.RecountQuestions(bank.SubjectID); err != nil {
		return fmt.Errorf("recount subject #%d after bank deletion: %w", bank.SubjectID, err)
	}

	log.Printf("[QuestionBankService] Банк #%d удален вместе с вопросами", bankID)
	return nil
}

// SetQuestionActive скрывает или возвращает вопрос и пересчитывает счетчики банка и предмета
func (s *QuestionBankService) SetQuestionActive(questionID uint, active bool) error {
	question, err := s.questionRepo.GetByID(questionID)
	if err != nil {
		return fmt.Errorf("question #%d: %w", questionID, err)
	}

	if err := s.questionRepo.SetActive(questionID, active); err != nil {
		return fmt.Errorf("set question #%d active=%t: %w", questionID, active, err)
	}
	s.invalidateStats(question.BankID)

	return s.recountBank(question.BankID)
}

// RecountReport - итог полного пересчета счетчиков
type RecountReport struct {
	Banks    int `json:"banks"`
	Subjects int `json:"subjects"`
}

// RecountAll пересчитывает денормализованные счетчики всех банков и предметов
func (s *QuestionBankService) RecountAll() (*RecountReport, error) {
	banks, err := s.bankRepo.List()
	if err != nil {
		return nil, fmt.Errorf("list question banks: %w", err)
	}

	report := &RecountReport{}
	for _, bank := range banks {
		if _, err := s.bankRepo.RecountQuestions(bank.ID); err != nil {
			return report, fmt.Errorf("recount bank #%d: %w", bank.ID, err)
		}
		s.invalidateStats(bank.ID)
		report.Banks++
	}

	subjects, err := s.subjectRepo.List()
	if err != nil {
		return report, fmt.Errorf("list subjects: %w", err)
	}
	for _, subject := range subjects {
		if _, err := s.subjectRepo.RecountQuestions(subject.ID); err != nil {
			return report, fmt.Errorf("recount subject #%d: %w", subject.ID, err)
		}
		report.Subjects++
	}

	log.Printf("[QuestionBankService] Пересчитаны счетчики: %d банков, %d предметов", report.Banks, report.Subjects)
	return report, nil
}

func (s *QuestionBankService) recountBank(bankID uint) error {
	if _, err := s.bankRepo.RecountQuestions(bankID); err != nil {
		return fmt.Errorf("recount bank #%d: %w", bankID, err)
	}
	bank, err := s.bankRepo.GetByID(bankID)
	if err != nil {
		return fmt.Errorf("question bank #%d: %w", bankID, err)
	}
	if _, err := s.subjectRepo.RecountQuestions(bank.SubjectID); err != nil {
		return fmt.Errorf("recount subject #%d: %w", bank.SubjectID, err)
	}
	return nil
}

func (s *QuestionBankService) invalidateStats(bankID uint) {
	if err := s.cacheRepo.Delete(bankStatsKey(bankID)); err != nil {
		log.Printf("[QuestionBankService] Не удалось сбросить кеш статистики банка #%d: %v", bankID, err)
	}
}
