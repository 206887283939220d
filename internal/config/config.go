package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database  DatabaseConfig
	JWT       JWTConfig
	App       AppConfig
	AutoClock AutoClockConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT verification configuration
type JWTConfig struct {
	Secret string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
}

// AutoClockConfig tunes the recurring auto-clocking cycles. The hours
// gate when within the day each cycle actually runs; the tick interval
// is how often the scheduler checks.
type AutoClockConfig struct {
	ProactiveHour int
	ReactiveHour  int
	TickInterval  time.Duration
	WorkerLimit   int
}

func Load() (*Config, error) {
	// A missing .env file is fine in deployed environments where the
	// variables come from the process environment.
	_ = godotenv.Load()

	config := &Config{}

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "timetrack"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	config.JWT = JWTConfig{
		Secret: getEnv("JWT_SECRET_KEY", ""),
	}

	proactiveHour, err := strconv.Atoi(getEnv("AUTOCLOCK_PROACTIVE_HOUR", "6"))
	if err != nil {
		return nil, fmt.Errorf("invalid AUTOCLOCK_PROACTIVE_HOUR: %w", err)
	}
	reactiveHour, err := strconv.Atoi(getEnv("AUTOCLOCK_REACTIVE_HOUR", "22"))
	if err != nil {
		return nil, fmt.Errorf("invalid AUTOCLOCK_REACTIVE_HOUR: %w", err)
	}
	tickInterval, err := time.ParseDuration(getEnv("AUTOCLOCK_TICK_INTERVAL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid AUTOCLOCK_TICK_INTERVAL: %w", err)
	}
	workerLimit, err := strconv.Atoi(getEnv("AUTOCLOCK_WORKER_LIMIT", "8"))
	if err != nil {
		return nil, fmt.Errorf("invalid AUTOCLOCK_WORKER_LIMIT: %w", err)
	}

	config.AutoClock = AutoClockConfig{
		ProactiveHour: proactiveHour,
		ReactiveHour:  reactiveHour,
		TickInterval:  tickInterval,
		WorkerLimit:   workerLimit,
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.AutoClock.ProactiveHour < 0 || c.AutoClock.ProactiveHour > 23 {
		return fmt.Errorf("AUTOCLOCK_PROACTIVE_HOUR must be in [0, 23]")
	}
	if c.AutoClock.ReactiveHour < 0 || c.AutoClock.ReactiveHour > 23 {
		return fmt.Errorf("AUTOCLOCK_REACTIVE_HOUR must be in [0, 23]")
	}
	if c.AutoClock.WorkerLimit < 1 {
		return fmt.Errorf("AUTOCLOCK_WORKER_LIMIT must be positive")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
