package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	Port string
	Env  string

	// Store backend selection: DatabaseURL wins, then RedisURL,
	// then SQLite at SQLitePath.
	DatabaseURL string
	RedisURL    string
	SQLitePath  string

	// External prediction service
	PredictionURL     string
	PredictionTimeout time.Duration
}

// Load reads configuration from environment variables.
// In development, it loads from .env file if present.
// In production, it panics on missing required variables.
func Load() *Config {
	// Load .env file if it exists (for development)
	_ = godotenv.Load()

	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		Env:               getEnv("ENV", "development"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		RedisURL:          os.Getenv("REDIS_URL"),
		SQLitePath:        getEnv("SQLITE_PATH", "./data/fincast.db"),
		PredictionURL:     os.Getenv("PREDICTION_API_URL"),
		PredictionTimeout: 30 * time.Second,
	}

	if v := os.Getenv("PREDICTION_TIMEOUT_SECONDS"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			cfg.PredictionTimeout = time.Duration(secs) * time.Second
		}
	}

	// In production, require an explicit store backend
	if cfg.Env == "production" {
		if cfg.DatabaseURL == "" && cfg.RedisURL == "" {
			panic("DATABASE_URL or REDIS_URL is required in production")
		}
	}

	return cfg
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
