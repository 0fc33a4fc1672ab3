package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	App      AppConfig
	Device   DeviceConfig
	Poll     PollConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// AppConfig holds application configuration
type AppConfig struct {
	Env      string
	LogLevel string
}

// DeviceConfig holds per-connection protocol client settings
type DeviceConfig struct {
	DialTimeout    time.Duration
	CommandTimeout time.Duration
}

// PollConfig holds the device polling and day-close job settings
type PollConfig struct {
	Interval     time.Duration
	PageSize     int
	DayCloseHour int // local hour at which open attendances are closed out
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded, using process environment", "error", err)
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "attendance_bridge"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	config.App = AppConfig{
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	dialTimeout, err := time.ParseDuration(getEnv("DEVICE_DIAL_TIMEOUT", "5s"))
	if err != nil {
		return nil, fmt.Errorf("invalid DEVICE_DIAL_TIMEOUT: %w", err)
	}
	commandTimeout, err := time.ParseDuration(getEnv("DEVICE_COMMAND_TIMEOUT", "2s"))
	if err != nil {
		return nil, fmt.Errorf("invalid DEVICE_COMMAND_TIMEOUT: %w", err)
	}
	config.Device = DeviceConfig{
		DialTimeout:    dialTimeout,
		CommandTimeout: commandTimeout,
	}

	pollInterval, err := time.ParseDuration(getEnv("POLL_INTERVAL", "1m"))
	if err != nil {
		return nil, fmt.Errorf("invalid POLL_INTERVAL: %w", err)
	}
	pageSize, err := strconv.Atoi(getEnv("POLL_PAGE_SIZE", "25"))
	if err != nil {
		return nil, fmt.Errorf("invalid POLL_PAGE_SIZE: %w", err)
	}
	dayCloseHour, err := strconv.Atoi(getEnv("DAY_CLOSE_HOUR", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid DAY_CLOSE_HOUR: %w", err)
	}
	config.Poll = PollConfig{
		Interval:     pollInterval,
		PageSize:     pageSize,
		DayCloseHour: dayCloseHour,
	}

	// Validate required fields
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
	if c.Poll.PageSize < 1 || c.Poll.PageSize > 25 {
		return fmt.Errorf("POLL_PAGE_SIZE must be between 1 and 25")
	}
	if c.Poll.DayCloseHour < 0 || c.Poll.DayCloseHour > 23 {
		return fmt.Errorf("DAY_CLOSE_HOUR must be between 0 and 23")
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
