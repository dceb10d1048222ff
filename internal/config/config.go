// Package config manages application configuration
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds all application configuration
type Config struct {
	// Server settings
	Port        string
	Environment string // "development" or "production"
	CORSOrigins []string

	// Database
	DatabaseURL string

	// Security
	SecretKey string // For JWT signing

	// Session settings
	SessionDuration time.Duration

	// Import limits
	MaxUploadBytes int64

	// Backups
	BackupDir      string
	BackupSchedule string // cron spec, empty disables

	// Prices
	MarketDataProvider string

	LogLevel logrus.Level
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file in the working directory is applied first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:               getEnv("FOLIO_PORT", "8080"),
		Environment:        getEnv("FOLIO_ENV", "development"),
		CORSOrigins:        getListEnv("FOLIO_CORS_ORIGINS", []string{"http://localhost:3000"}),
		DatabaseURL:        getEnv("FOLIO_DATABASE_URL", "folio.db"),
		SecretKey:          getEnv("FOLIO_SECRET_KEY", "dev-secret-key-change-in-production"),
		SessionDuration:    getDurationEnv("FOLIO_SESSION_DURATION", 24*time.Hour),
		MaxUploadBytes:     getInt64Env("FOLIO_MAX_UPLOAD_BYTES", 10<<20),
		BackupDir:          getEnv("FOLIO_BACKUP_DIR", "backups"),
		BackupSchedule:     os.Getenv("FOLIO_BACKUP_SCHEDULE"),
		MarketDataProvider: getEnv("FOLIO_MARKETDATA_PROVIDER", "none"),
		LogLevel:           getLevelEnv("FOLIO_LOG_LEVEL", logrus.InfoLevel),
	}
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// NewLogger builds the application logger. Production logs are JSON.
func (c *Config) NewLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(c.LogLevel)
	if c.IsProduction() {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt64Env(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getListEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getLevelEnv(key string, defaultValue logrus.Level) logrus.Level {
	if value := os.Getenv(key); value != "" {
		if level, err := logrus.ParseLevel(value); err == nil {
			return level
		}
	}
	return defaultValue
}
