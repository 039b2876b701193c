package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultConfigPath используется, если CONFIG_PATH не задан
const DefaultConfigPath = "config/config.yaml"

// Config хранит все настройки приложения
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Grading   GradingConfig   `mapstructure:"grading"`
	Selection SelectionConfig `mapstructure:"selection"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Jobs      JobsConfig      `mapstructure:"jobs"`
}

// ServerConfig содержит настройки HTTP сервера
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	ReadTimeout    int      `mapstructure:"read_timeout"`
	WriteTimeout   int      `mapstructure:"write_timeout"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	TrustedProxies []string `mapstructure:"trusted_proxies"`
}

// DatabaseConfig содержит настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
	// LogLevel: уровень логгера gorm ("silent", "error", "warn", "info")
	LogLevel string `mapstructure:"log_level"`
}

// RedisConfig содержит унифицированные настройки подключения к Redis.
// Поддерживает режимы: single, sentinel, cluster
type RedisConfig struct {
	// Mode: режим работы Redis ("single", "sentinel", "cluster"). По умолчанию "single".
	Mode string `mapstructure:"mode"`

	// Addrs: список адресов Redis (хост:порт).
	// Для 'single', если не пуст, используется первый адрес из списка.
	Addrs []string `mapstructure:"addrs"`

	// Addr: адрес для режима 'single', если Addrs пустой.
	Addr string `mapstructure:"addr"`

	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`

	// MasterName: имя мастер-сервера (только для режима "sentinel")
	MasterName string `mapstructure:"master_name"`

	MaxRetries      int `mapstructure:"max_retries"`
	MinRetryBackoff int `mapstructure:"min_retry_backoff"`
	MaxRetryBackoff int `mapstructure:"max_retry_backoff"`
}

// AuthConfig содержит настройки проверки токенов
type AuthConfig struct {
	JWTSecret     string `mapstructure:"jwt_secret"`
	Issuer        string `mapstructure:"issuer"`
	TokenTTLHours int    `mapstructure:"token_ttl_hours"`
}

// GradingConfig содержит настройки оценивания
type GradingConfig struct {
	// PassMode: "fixed" или "blueprint"
	PassMode      string  `mapstructure:"pass_mode"`
	PassThreshold float64 `mapstructure:"pass_threshold"`
}

// SelectionConfig содержит настройки подбора вопросов
type SelectionConfig struct {
	StatsCacheTTLSeconds int `mapstructure:"stats_cache_ttl_seconds"`
}

// StatsCacheTTL возвращает время жизни кеша статистики банка
func (s SelectionConfig) StatsCacheTTL() time.Duration {
	return time.Duration(s.StatsCacheTTLSeconds) * time.Second
}

// RateLimitConfig содержит лимиты запросов
type RateLimitConfig struct {
	SubmitMax           int `mapstructure:"submit_max"`
	SubmitWindowSeconds int `mapstructure:"submit_window_seconds"`
}

// SubmitWindow возвращает окно лимита на сдачу тестов
func (r RateLimitConfig) SubmitWindow() time.Duration {
	return time.Duration(r.SubmitWindowSeconds) * time.Second
}

// JobsConfig содержит расписание фоновых задач
type JobsConfig struct {
	RecountCron string `mapstructure:"recount_cron"`
}

// PostgresConnectionString формирует строку подключения к PostgreSQL
func (d *DatabaseConfig) PostgresConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// PostgresURL формирует URL подключения для golang-migrate
func (d *DatabaseConfig) PostgresURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// LoadEnvFile загружает .env, если он есть
func LoadEnvFile(path string) {
	if err := godotenv.Load(path); err != nil {
		log.Printf("Предупреждение: файл %s не загружен: %v", path, err)
	}
}

// Load загружает конфигурацию из файла и переменных окружения
func Load(configPath string) (*Config, error) {
	vip := viper.New()

	// 1. Значения по умолчанию
	vip.SetDefault("server.port", "8080")
	vip.SetDefault("server.read_timeout", 15)
	vip.SetDefault("server.write_timeout", 30)
	vip.SetDefault("database.port", "5432")
	vip.SetDefault("database.sslmode", "disable")
	vip.SetDefault("database.log_level", "warn")
	vip.SetDefault("redis.mode", "single")
	vip.SetDefault("auth.token_ttl_hours", 24)
	vip.SetDefault("grading.pass_mode", "fixed")
	vip.SetDefault("grading.pass_threshold", 35.0)
	vip.SetDefault("selection.stats_cache_ttl_seconds", 300)
	vip.SetDefault("rate_limit.submit_max", 5)
	vip.SetDefault("rate_limit.submit_window_seconds", 60)
	vip.SetDefault("jobs.recount_cron", "@every 30m")

	// 2. Привязываем переменные окружения явно
	vip.BindEnv("server.port", "SERVER_PORT")
	vip.BindEnv("server.allowed_origins", "SERVER_ALLOWED_ORIGINS")

	vip.BindEnv("database.host", "DATABASE_HOST")
	vip.BindEnv("database.port", "DATABASE_PORT")
	vip.BindEnv("database.user", "DATABASE_USER")
	vip.BindEnv("database.password", "DATABASE_PASSWORD")
	vip.BindEnv("database.dbname", "DATABASE_DBNAME")
	vip.BindEnv("database.sslmode", "DATABASE_SSLMODE")

	vip.BindEnv("redis.mode", "REDIS_MODE")
	vip.BindEnv("redis.addrs", "REDIS_ADDRS")
	vip.BindEnv("redis.addr", "REDIS_ADDR")
	vip.BindEnv("redis.password", "REDIS_PASSWORD")
	vip.BindEnv("redis.db", "REDIS_DB")
	vip.BindEnv("redis.master_name", "REDIS_MASTER_NAME")

	vip.BindEnv("auth.jwt_secret", "AUTH_JWT_SECRET")
	vip.BindEnv("auth.issuer", "AUTH_ISSUER")

	vip.BindEnv("grading.pass_mode", "GRADING_PASS_MODE")
	vip.BindEnv("grading.pass_threshold", "GRADING_PASS_THRESHOLD")

	vip.BindEnv("jobs.recount_cron", "JOBS_RECOUNT_CRON")

	// 3. Файл конфигурации необязателен: все ключи можно задать через env
	if configPath != "" {
		vip.SetConfigFile(configPath)
		if err := vip.ReadInConfig(); err != nil {
			if _, statErr := os.Stat(configPath); os.IsNotExist(statErr) {
				log.Printf("Файл конфигурации '%s' не найден, используются переменные окружения/умолчания.", configPath)
			} else {
				return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
			}
		}
	}

	var cfg Config
	if err := vip.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if os.Getenv("GIN_MODE") != "release" {
		log.Printf("--- Загруженные значения конфигурации ---")
		log.Printf("Database Host: %s", cfg.Database.Host)
		log.Printf("Database Name: %s", cfg.Database.DBName)
		log.Printf("Redis Mode: %s", cfg.Redis.Mode)
		log.Printf("Auth Issuer: %s", cfg.Auth.Issuer)
		log.Printf("JWT Secret Set: %t", cfg.Auth.JWTSecret != "")
		log.Printf("Grading: mode=%s threshold=%.2f", cfg.Grading.PassMode, cfg.Grading.PassThreshold)
		log.Printf("Recount Cron: %s", cfg.Jobs.RecountCron)
		log.Printf("Server Port: %s", cfg.Server.Port)
		log.Printf("-----------------------------------------")
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate проверяет обязательные параметры
func (c *Config) validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT secret is required in config (check AUTH_JWT_SECRET env var)")
	}
	if c.Database.Host == "" || c.Database.DBName == "" || c.Database.User == "" {
		return fmt.Errorf("database configuration (host, dbname, user) is incomplete in config (check DATABASE_HOST, DATABASE_DBNAME, DATABASE_USER env vars)")
	}
	switch c.Grading.PassMode {
	case "fixed", "blueprint":
	default:
		return fmt.Errorf("grading.pass_mode must be \"fixed\" or \"blueprint\", got %q", c.Grading.PassMode)
	}
	if c.Grading.PassThreshold <= 0 || c.Grading.PassThreshold > 100 {
		return fmt.Errorf("grading.pass_threshold must be in (0, 100], got %.2f", c.Grading.PassThreshold)
	}
	if os.Getenv("GIN_MODE") == "release" && c.Database.Password == "" {
		return fmt.Errorf("database password is required in production mode (check DATABASE_PASSWORD env var)")
	}
	return nil
}
