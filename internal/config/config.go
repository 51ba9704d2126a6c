package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/benvon/smart-task-parser/internal/models"
	"github.com/benvon/smart-task-parser/internal/parser/llm"
)

// Config holds application configuration
type Config struct {
	OpenAIKey        string
	AIModel          string
	AIBaseURL        string
	DefaultMethod    models.Method
	LLMMode          llm.Mode
	NamesFile        string
	Location         *time.Location
	DebugMode        bool
	BatchConcurrency int
	LLMCacheSize     int
	LLMCacheTTL      time.Duration
	LLMTimeout       time.Duration
	OTELEnabled      bool
	OTELEndpoint     string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		OpenAIKey:        getEnv("OPENAI_API_KEY", ""),
		AIModel:          getEnv("AI_MODEL", llm.DefaultOpenAIModel),
		AIBaseURL:        getEnv("AI_BASE_URL", ""),
		NamesFile:        getEnv("PARSER_NAMES_FILE", ""),
		DebugMode:        getEnvBool("PARSER_DEBUG_MODE", false),
		BatchConcurrency: getEnvInt("PARSER_BATCH_CONCURRENCY", 4),
		LLMCacheSize:     getEnvInt("LLM_CACHE_SIZE", llm.DefaultCacheSize),
		LLMCacheTTL:      getEnvDuration("LLM_CACHE_TTL", llm.DefaultCacheTTL),
		LLMTimeout:       getEnvDuration("LLM_TIMEOUT", llm.DefaultTimeout),
		OTELEnabled:      getEnvBool("OTEL_ENABLED", false),
		OTELEndpoint:     getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
	}

	method, err := models.ParseMethod(getEnv("PARSER_DEFAULT_METHOD", string(models.MethodRuleBased)))
	if err != nil {
		return nil, fmt.Errorf("PARSER_DEFAULT_METHOD: %w", err)
	}
	cfg.DefaultMethod = method

	mode, err := llm.ParseMode(getEnv("PARSER_LLM_MODE", string(llm.ModeMulti)))
	if err != nil {
		return nil, fmt.Errorf("PARSER_LLM_MODE: %w", err)
	}
	cfg.LLMMode = mode

	loc, err := time.LoadLocation(getEnv("PARSER_TIMEZONE", "Local"))
	if err != nil {
		return nil, fmt.Errorf("PARSER_TIMEZONE: %w", err)
	}
	cfg.Location = loc

	if cfg.BatchConcurrency < 1 {
		return nil, fmt.Errorf("PARSER_BATCH_CONCURRENCY must be at least 1, got %d", cfg.BatchConcurrency)
	}
	if cfg.LLMCacheSize < 0 {
		return nil, fmt.Errorf("LLM_CACHE_SIZE must not be negative, got %d", cfg.LLMCacheSize)
	}

	return cfg, nil
}

// Now returns the current time in the configured location
func (c *Config) Now() time.Time {
	if c.Location == nil {
		return time.Now()
	}
	return time.Now().In(c.Location)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
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
