package main

import (
	"fmt"
	"log"
	"os"

	"github.com/go-redis/redis/v8"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/kunal96k/tts-mock-test/internal/config"
	"github.com/kunal96k/tts-mock-test/internal/repository/postgres"
	redisrepo "github.com/kunal96k/tts-mock-test/internal/repository/redis"
	"github.com/kunal96k/tts-mock-test/internal/service"
	"github.com/kunal96k/tts-mock-test/internal/service/examengine"
	"github.com/kunal96k/tts-mock-test/pkg/database"
)

// app содержит подключения и сервисы, общие для всех команд
type app struct {
	cfg   *config.Config
	db    *gorm.DB
	redis redis.UniversalClient

	tests      *service.TestService
	blueprints *service.BlueprintService
	banks      *service.QuestionBankService
}

// loadConfig читает .env и файл конфигурации по флагам команды
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	envFile, _ := cmd.Flags().GetString("env-file")
	config.LoadEnvFile(envFile)

	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path = config.DefaultConfigPath
	}
	return config.Load(path)
}

// newApp поднимает PostgreSQL, Redis и собирает сервисы
func newApp(cfg *config.Config) (*app, error) {
	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString(), cfg.Database.LogLevel)
	if err != nil {
		return nil, err
	}
	log.Println("Connected to PostgreSQL")

	redisClient, err := database.NewUniversalRedisClient(cfg.Redis)
	if err != nil {
		closeDB(db)
		return nil, err
	}
	log.Printf("Connected to Redis (mode: %s)", cfg.Redis.Mode)

	cacheRepo, err := redisrepo.NewCacheRepo(redisClient)
	if err != nil {
		redisClient.Close()
		closeDB(db)
		return nil, fmt.Errorf("create cache repo: %w", err)
	}

	questionRepo := postgres.NewQuestionRepo(db)
	bankRepo := postgres.NewQuestionBankRepo(db)
	subjectRepo := postgres.NewSubjectRepo(db)
	blueprintRepo := postgres.NewTestBlueprintRepo(db)
	attemptRepo := postgres.NewTestAttemptRepo(db)

	engineConfig := &examengine.Config{
		PassMode:      cfg.Grading.PassMode,
		PassThreshold: cfg.Grading.PassThreshold,
	}

	return &app{
		cfg:   cfg,
		db:    db,
		redis: redisClient,
		tests: service.NewTestService(blueprintRepo, bankRepo, questionRepo, attemptRepo, cacheRepo,
			engineConfig, cfg.Selection.StatsCacheTTL()),
		blueprints: service.NewBlueprintService(blueprintRepo, subjectRepo),
		banks:      service.NewQuestionBankService(bankRepo, subjectRepo, questionRepo, cacheRepo),
	}, nil
}

// Close закрывает подключения
func (a *app) Close() {
	if err := a.redis.Close(); err != nil {
		log.Printf("Error closing Redis: %v", err)
	}
	closeDB(a.db)
}

func closeDB(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Printf("Error closing PostgreSQL: %v", err)
	}
}
