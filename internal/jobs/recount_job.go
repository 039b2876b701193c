package jobs

import (
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"github.com/kunal96k/tts-mock-test/internal/service"
)

// DefaultRecountSchedule используется, если расписание не задано
const DefaultRecountSchedule = "@every 30m"

// Recounter пересчитывает денормализованные счетчики вопросов
type Recounter interface {
	RecountAll() (*service.RecountReport, error)
}

// Scheduler запускает периодическую сверку счетчиков банков и предметов
type Scheduler struct {
	cron      *cron.Cron
	recounter Recounter
	schedule  string
}

// NewScheduler создает планировщик. Запуски, которые не успели завершиться, пропускаются.
func NewScheduler(recounter Recounter, schedule string) (*Scheduler, error) {
	if schedule == "" {
		schedule = DefaultRecountSchedule
	}

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	s := &Scheduler{cron: c, recounter: recounter, schedule: schedule}

	if _, err := c.AddFunc(schedule, s.RunOnce); err != nil {
		return nil, fmt.Errorf("invalid recount schedule %q: %w", schedule, err)
	}
	return s, nil
}

// RunOnce выполняет один пересчет и логирует итог
func (s *Scheduler) RunOnce() {
	report, err := s.recounter.RecountAll()
	if err != nil {
		log.Printf("[RecountJob] Ошибка пересчета счетчиков: %v", err)
		return
	}
	log.Printf("[RecountJob] Сверка завершена: %d банков, %d предметов", report.Banks, report.Subjects)
}

// Start запускает планировщик в фоне
func (s *Scheduler) Start() {
	log.Printf("[RecountJob] started schedule=%q", s.schedule)
	s.cron.Start()
}

// Stop останавливает планировщик и ждет завершения текущего запуска
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("[RecountJob] stopped")
}
