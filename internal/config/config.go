package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"yatube/internal/db"
)

// Config holds all application configuration
type Config struct {
	// Server
	Port          string
	SiteURL       string
	SessionSecret string

	// Database
	DatabaseDriver string
	DatabaseURL    string

	// Content
	MediaRoot     string
	IndexCacheTTL time.Duration
	PageSize      int

	// Logging
	LogLevel string
}

// Load reads configuration from environment variables and validates it.
func Load() (*Config, error) {
	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		SiteURL:        getEnv("SITE_URL", ""),
		SessionSecret:  os.Getenv("SESSION_SECRET"),
		DatabaseDriver: getEnv("DATABASE_DRIVER", db.DriverPostgres),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		MediaRoot:      getEnv("MEDIA_ROOT", "./media"),
		IndexCacheTTL:  getEnvDuration("INDEX_CACHE_TTL", 20*time.Second),
		PageSize:       getEnvInt("PAGE_SIZE", 10),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}

	if cfg.SiteURL == "" {
		cfg.SiteURL = "http://localhost:" + cfg.Port
	}
	if cfg.DatabaseURL == "" && cfg.DatabaseDriver == db.DriverSQLite {
		cfg.DatabaseURL = "yatube.db"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.DatabaseDriver {
	case db.DriverPostgres, db.DriverSQLite:
	default:
		return fmt.Errorf("DATABASE_DRIVER must be %q or %q, got %q", db.DriverPostgres, db.DriverSQLite, c.DatabaseDriver)
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("PAGE_SIZE must be positive, got %d", c.PageSize)
	}
	if c.IndexCacheTTL < 0 {
		return fmt.Errorf("INDEX_CACHE_TTL must not be negative, got %s", c.IndexCacheTTL)
	}
	if c.SessionSecret == "" {
		return fmt.Errorf("SESSION_SECRET is required")
	}
	return nil
}

func (c *Config) Addr() string {
	return ":" + c.Port
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
