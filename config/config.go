// Package config provides configuration for the intake service.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the intake service configuration.
type Config struct {
	// Server settings
	HTTPPort int

	// Database; empty keeps everything in process memory.
	DatabaseURL string

	// Completion service
	LLMURL         string
	LLMAPIKey      string
	LLMModel       string
	LLMTimeout     time.Duration
	LLMTemperature float64
	LLMMaxTokens   int

	// Conversation context forwarded to the completion service.
	HistoryWindow int

	// Intake limits
	MaxMessageLength int
}

// Load loads configuration from environment variables.
func Load() *Config {
	cfg := &Config{
		HTTPPort:         getEnvInt("HTTP_PORT", 8080),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		LLMURL:           getEnv("LLM_URL", "https://api.openai.com"),
		LLMAPIKey:        getEnv("LLM_API_KEY", ""),
		LLMModel:         getEnv("LLM_MODEL", "gpt-4o"),
		LLMTimeout:       time.Duration(getEnvInt("LLM_TIMEOUT_MS", 30000)) * time.Millisecond,
		LLMTemperature:   getEnvFloat("LLM_TEMPERATURE", 0.7),
		LLMMaxTokens:     getEnvInt("LLM_MAX_TOKENS", 1000),
		HistoryWindow:    getEnvInt("HISTORY_WINDOW", 6),
		MaxMessageLength: getEnvInt("MAX_MESSAGE_LENGTH", 4000),
	}
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if floatVal, err := strconv.ParseFloat(val, 64); err == nil {
			return floatVal
		}
	}
	return defaultVal
}
