package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the full service configuration, read from the environment once
// at startup.
type Config struct {
	// HTTP server
	Port string

	// ML artifacts: local directory or gs://bucket/prefix
	AssetsLocation string

	// Language model
	GeminiAPIKey string
	GeminiModel  string
	LLMTimeout   time.Duration

	// Audit history
	AuditBufferSize int
	BQProject       string
	BQDataset       string

	// Logging
	LogLevel string
}

// Load reads .env (when present) and the environment.
func Load() *Config {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	return &Config{
		Port:           getEnv("PORT", "8080"),
		AssetsLocation: getEnv("ML_ASSETS", "./ml_assets"),

		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		LLMTimeout:   getEnvDuration("LLM_TIMEOUT", 30*time.Second),

		AuditBufferSize: getEnvInt("AUDIT_BUFFER_SIZE", 100),
		BQProject:       getEnv("BQ_PROJECT", ""),
		BQDataset:       getEnv("BQ_DATASET", "ledgerlens"),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// Validate returns an error describing every invalid setting at once.
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.AssetsLocation == "" {
		errors = append(errors, "ML_ASSETS cannot be empty")
	}

	if c.LLMTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid LLM timeout %v: must be at least 1 second", c.LLMTimeout))
	} else if c.LLMTimeout > 5*time.Minute {
		errors = append(errors, fmt.Sprintf("invalid LLM timeout %v: must be at most 5 minutes", c.LLMTimeout))
	}

	if c.AuditBufferSize < 1 {
		errors = append(errors, fmt.Sprintf("invalid audit buffer size %d: must be at least 1", c.AuditBufferSize))
	}

	if c.BQProject != "" && c.BQDataset == "" {
		errors = append(errors, "BQ_DATASET cannot be empty when BQ_PROJECT is set")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
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
