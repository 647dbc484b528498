package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	// OpenAI Assistants
	OpenAIAPIKey      string
	OpenAIBaseURL     string
	OpenAIAssistantID string

	// Google generative image APIs
	GoogleAPIKey    string
	GoogleBaseURL   string
	ImagenModel     string
	GeminiEditModel string

	// Supabase
	SupabaseURL            string
	SupabasePublishableKey string
	SupabaseJWTSecret      string
	SupabaseImageBucket    string
	SupabaseCSVBucket      string

	// Bulk processing
	DefaultBatchSize int
	MaxCSVRows       int
	RunPollAttempts  int
	RunPollInterval  time.Duration
	ChunkDelay       time.Duration

	// Database
	DatabaseURL string

	// Server
	Port        string
	Environment string
	BaseURL     string
}

func Load() (*Config, error) {
	cfg := &Config{
		OpenAIAPIKey:      getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:     getEnv("OPENAI_API_BASE_URL", "https://api.openai.com/v1"),
		OpenAIAssistantID: getEnv("OPENAI_ASSISTANT_ID", ""),

		GoogleAPIKey:    getEnv("GOOGLE_API_KEY", ""),
		GoogleBaseURL:   getEnv("GOOGLE_API_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		ImagenModel:     getEnv("IMAGEN_MODEL", "imagen-3.0-generate-002"),
		GeminiEditModel: getEnv("GEMINI_EDIT_MODEL", "gemini-2.0-flash-exp"),

		SupabaseURL:            getEnv("SUPABASE_URL", ""),
		SupabasePublishableKey: getEnv("SUPABASE_PUBLISHABLE_KEY", ""),
		SupabaseJWTSecret:      getEnv("SUPABASE_JWT_SECRET", ""),
		SupabaseImageBucket:    getEnv("SUPABASE_IMAGE_BUCKET", "generated-images"),
		SupabaseCSVBucket:      getEnv("SUPABASE_CSV_BUCKET", "csv-uploads"),

		DefaultBatchSize: getEnvInt("BULK_BATCH_SIZE", 3),
		MaxCSVRows:       getEnvInt("BULK_MAX_ROWS", 50),
		RunPollAttempts:  getEnvInt("RUN_POLL_ATTEMPTS", 60),
		RunPollInterval:  getEnvDuration("RUN_POLL_INTERVAL", time.Second),
		ChunkDelay:       getEnvDuration("CHUNK_DELAY", 2*time.Second),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		BaseURL:     getEnv("BASE_URL", "http://localhost:8080"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.OpenAIAPIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}
	if c.OpenAIAssistantID == "" {
		return fmt.Errorf("OPENAI_ASSISTANT_ID is required")
	}
	if c.GoogleAPIKey == "" {
		return fmt.Errorf("GOOGLE_API_KEY is required")
	}
	if c.SupabaseURL == "" {
		return fmt.Errorf("SUPABASE_URL is required")
	}
	if c.SupabasePublishableKey == "" {
		return fmt.Errorf("SUPABASE_PUBLISHABLE_KEY is required")
	}
	if c.SupabaseJWTSecret == "" {
		return fmt.Errorf("SUPABASE_JWT_SECRET is required")
	}
	if c.DefaultBatchSize < 1 {
		return fmt.Errorf("BULK_BATCH_SIZE must be positive")
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
