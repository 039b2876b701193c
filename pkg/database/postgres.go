package database

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	migrateV4 "github.com/golang-migrate/migrate/v4"
	migratePostgres "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DefaultMigrationsSource - папка миграций относительно рабочего каталога
const DefaultMigrationsSource = "file://migrations"

// GormLogLevel переводит уровень из конфигурации в уровень логгера gorm
func GormLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

// NewPostgresDB создает новое подключение к PostgreSQL
func NewPostgresDB(dsn, logLevel string) (*gorm.DB, error) {
	db, err := gorm.Open(gormPostgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(GormLogLevel(logLevel)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

// Migrator управляет SQL-миграциями схемы
type Migrator struct {
	m *migrateV4.Migrate
}

// NewMigrator создает мигратор поверх открытого соединения
func NewMigrator(sqlDB *sql.DB, source string) (*Migrator, error) {
	if source == "" {
		source = DefaultMigrationsSource
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("не удалось проверить подключение к БД перед миграцией: %w", err)
	}

	driver, err := migratePostgres.WithInstance(sqlDB, &migratePostgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("не удалось создать драйвер postgres для migrate: %w", err)
	}

	m, err := migrateV4.NewWithDatabaseInstance(source, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("не удалось создать экземпляр migrate: %w", err)
	}
	return &Migrator{m: m}, nil
}

// OpenMigrator открывает отдельное соединение через lib/pq. Используется командой migrate,
// чтобы не поднимать gorm ради миграций.
func OpenMigrator(dsn, source string) (*Migrator, *sql.DB, error) {
	sqlDB, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	m, err := NewMigrator(sqlDB, source)
	if err != nil {
		sqlDB.Close()
		return nil, nil, err
	}
	return m, sqlDB, nil
}

// Up применяет все новые миграции
func (mg *Migrator) Up() error {
	log.Println("Применяем миграции 'up'...")
	err := mg.m.Up()
	if errors.Is(err, migrateV4.ErrNoChange) {
		log.Println("Изменений в миграциях не найдено, база данных уже актуальна.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("ошибка применения миграций 'up': %w", err)
	}
	log.Println("Миграции успешно применены.")
	return nil
}

// Down откатывает одну последнюю миграцию
func (mg *Migrator) Down() error {
	log.Println("Откатываем последнюю миграцию...")
	err := mg.m.Steps(-1)
	if errors.Is(err, migrateV4.ErrNoChange) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("ошибка отката миграции: %w", err)
	}
	return nil
}

// Force выставляет версию схемы и снимает флаг dirty после упавшей миграции
func (mg *Migrator) Force(version int) error {
	log.Printf("Принудительно выставляем версию миграций %d...", version)
	if err := mg.m.Force(version); err != nil {
		return fmt.Errorf("ошибка force %d: %w", version, err)
	}
	return nil
}

// Version возвращает текущую версию схемы
func (mg *Migrator) Version() (uint, bool, error) {
	version, dirty, err := mg.m.Version()
	if errors.Is(err, migrateV4.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}

// MigrateDB применяет SQL-миграции из папки 'migrations' при старте сервера
func MigrateDB(db *gorm.DB) error {
	log.Println("Запуск применения миграций базы данных...")

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("не удалось получить *sql.DB из *gorm.DB: %w", err)
	}

	m, err := NewMigrator(sqlDB, DefaultMigrationsSource)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil {
		return err
	}

	log.Println("Миграции базы данных завершены.")
	return nil
}
