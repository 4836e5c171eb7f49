package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration for a content run.
type Config struct {
	Environment string
	LogLevel    string

	// Text generation
	GeminiAPIKey string
	GeminiModel  string

	// Image generation
	OpenAIImageAPIKey string
	OpenAIBaseURL     string
	ImageModel        string
	ImageSize         string

	// Object storage
	S3BucketName       string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	AWSRegion          string

	// Basehub CMS
	BasehubAPIURL           string
	BasehubToken            string
	BasehubCollectionID     string
	BasehubAuthorID         string
	BasehubImageComponentID string

	// Content
	OutputDir  string
	TopicCount int
	SiteURL    string
	BrandName  string

	// Run report persistence, disabled when empty
	ReportDatabaseURL string
}

// LoadDotenv loads variables from the given .env files (default ".env") into the process
// environment. Variables already set are not overridden.
func LoadDotenv(files ...string) error {
	if err := godotenv.Load(files...); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading .env: %w", err)
	}
	return nil
}

// Load builds a validated Config from the environment.
func Load() (*Config, error) {
	cfg := FromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromEnv builds a Config from the current environment without validating it.
func FromEnv() *Config {
	return &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.5-pro"),

		OpenAIImageAPIKey: getEnv("OPENAI_IMAGE_API_KEY", ""),
		OpenAIBaseURL:     getEnv("OPENAI_BASE_URL", ""),
		ImageModel:        getEnv("IMAGE_MODEL", "dall-e-3"),
		ImageSize:         getEnv("IMAGE_SIZE", "1024x1024"),

		S3BucketName:       getEnv("S3_BUCKET_NAME", ""),
		AWSAccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSRegion:          getEnv("AWS_REGION", "us-east-1"),

		BasehubAPIURL:           getEnv("BASEHUB_API_URL", "https://api.basehub.com/graphql"),
		BasehubToken:            getEnv("BASEHUB_TOKEN", ""),
		BasehubCollectionID:     getEnv("BASEHUB_POSTS_COLLECTION_ID", "dKrosxXlaGpnZCrAbHxlX"),
		BasehubAuthorID:         getEnv("BASEHUB_AUTHOR_ID", "PCMhesaHZ237t05iG8ms6"),
		BasehubImageComponentID: getEnv("BASEHUB_IMAGE_COMPONENT_ID", "AAzuzbz0jSbfwGJYvtMu3"),

		OutputDir:  getEnv("OUTPUT_DIR", "seo_automator/generated_content"),
		TopicCount: getEnvInt("TOPIC_COUNT", 100),
		SiteURL:    strings.TrimRight(getEnv("SITE_URL", "https://www.agentweb.pro"), "/"),
		BrandName:  getEnv("BRAND_NAME", "AgentWeb"),

		ReportDatabaseURL: getEnv("REPORT_DATABASE_URL", ""),
	}
}

// Validate checks the settings the run cannot start without.
func (c *Config) Validate() error {
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is not set")
	}
	if c.TopicCount <= 0 {
		return fmt.Errorf("TOPIC_COUNT must be positive, got %d", c.TopicCount)
	}
	if c.OutputDir == "" {
		return fmt.Errorf("OUTPUT_DIR must not be empty")
	}
	return nil
}

// ImagesEnabled reports whether image generation has credentials.
func (c *Config) ImagesEnabled() bool {
	return c.OpenAIImageAPIKey != ""
}

// StorageEnabled reports whether uploads to S3 are fully configured.
func (c *Config) StorageEnabled() bool {
	return c.S3BucketName != "" && c.AWSAccessKeyID != "" && c.AWSSecretAccessKey != ""
}

// PublishEnabled reports whether a Basehub token is present.
func (c *Config) PublishEnabled() bool {
	return c.BasehubToken != ""
}

// IsProduction returns true when running with production logging.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return strings.Trim(value, "\"")
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
