package config

import (
	"fmt"
	"os"
	"strconv"

	"samvad/internal/logger"
)

type Config struct {
	// OpenAI Configuration
	OpenAIAPIKey      string
	OpenAIModel       string
	OpenAITemperature float32

	// Google Cloud Configuration
	GoogleCloudProject    string
	GoogleCloudLocation   string
	OCRBackend            string
	DocumentAIProcessorID string

	// Pipeline Configuration
	TargetLanguage     string
	TranslateMode      string
	MaxChunkChars      int
	RenderScale        float64
	LineGapThresholdPx int
	SkipFailedPages    bool
	LanguageHint       string

	// Persistence Configuration
	MongoURI      string
	MongoDatabase string

	// HTTP Configuration
	HTTPAddr   string
	Production bool

	// Logging Configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

func Load() (*Config, error) {
	config := &Config{
		OpenAIAPIKey:          getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:           getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAITemperature:     getFloatEnv("OPENAI_TEMPERATURE", 0.1),
		GoogleCloudProject:    getEnv("GOOGLE_CLOUD_PROJECT", ""),
		GoogleCloudLocation:   getEnv("GOOGLE_CLOUD_LOCATION", "us"),
		OCRBackend:            getEnv("OCR_BACKEND", "vision"),
		DocumentAIProcessorID: getEnv("DOCUMENT_AI_PROCESSOR_ID", ""),
		TargetLanguage:        getEnv("TARGET_LANGUAGE", "en"),
		TranslateMode:         getEnv("TRANSLATE_MODE", "two-stage"),
		MaxChunkChars:         getIntEnv("MAX_CHUNK_CHARS", 1500),
		RenderScale:           getFloat64Env("RENDER_SCALE", 1.5),
		LineGapThresholdPx:    getIntEnv("LINE_GAP_THRESHOLD_PX", 10),
		SkipFailedPages:       getBoolEnv("SKIP_FAILED_PAGES", true),
		LanguageHint:          getEnv("OCR_LANGUAGE_HINT", ""),
		MongoURI:              getEnv("MONGO_URI", ""),
		MongoDatabase:         getEnv("MONGO_DATABASE", "samvad"),
		HTTPAddr:              getEnv("HTTP_ADDR", ":8080"),
		Production:            getBoolEnv("PRODUCTION", false),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
		LogFormat:             getEnv("LOG_FORMAT", "console"),
		LogTimeFormat:         getEnv("LOG_TIME_FORMAT", "2006-01-02T15:04:05Z07:00"),
		LogOutput:             getEnv("LOG_OUTPUT", "stdout"),
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func (c *Config) validate() error {
	if c.OpenAIAPIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}
	if c.OCRBackend != "vision" && c.OCRBackend != "documentai" {
		return fmt.Errorf("OCR_BACKEND must be 'vision' or 'documentai', got %q", c.OCRBackend)
	}
	if c.OCRBackend == "documentai" && c.DocumentAIProcessorID == "" {
		return fmt.Errorf("DOCUMENT_AI_PROCESSOR_ID is required when OCR_BACKEND=documentai")
	}
	if c.TranslateMode != "two-stage" && c.TranslateMode != "llm-only" {
		return fmt.Errorf("TRANSLATE_MODE must be 'two-stage' or 'llm-only', got %q", c.TranslateMode)
	}
	if c.MaxChunkChars <= 0 {
		return fmt.Errorf("MAX_CHUNK_CHARS must be positive, got %d", c.MaxChunkChars)
	}
	if c.RenderScale < 1.0 {
		return fmt.Errorf("RENDER_SCALE must be >= 1.0, got %g", c.RenderScale)
	}
	return nil
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(parsed)
		}
	}
	return defaultValue
}

func getFloat64Env(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
