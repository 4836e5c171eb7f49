package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("TOPIC_COUNT", "")
	t.Setenv("OUTPUT_DIR", "")
	t.Setenv("AWS_REGION", "")
	t.Setenv("SITE_URL", "")

	cfg := FromEnv()

	assert.Equal(t, "gemini-2.5-pro", cfg.GeminiModel)
	assert.Equal(t, "dall-e-3", cfg.ImageModel)
	assert.Equal(t, "1024x1024", cfg.ImageSize)
	assert.Equal(t, "us-east-1", cfg.AWSRegion)
	assert.Equal(t, "https://api.basehub.com/graphql", cfg.BasehubAPIURL)
	assert.Equal(t, "seo_automator/generated_content", cfg.OutputDir)
	assert.Equal(t, 100, cfg.TopicCount)
	assert.Equal(t, "https://www.agentweb.pro", cfg.SiteURL)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", `"quoted-key"`)
	t.Setenv("TOPIC_COUNT", "7")
	t.Setenv("SITE_URL", "https://example.com/")

	cfg := FromEnv()

	assert.Equal(t, "quoted-key", cfg.GeminiAPIKey)
	assert.Equal(t, 7, cfg.TopicCount)
	assert.Equal(t, "https://example.com", cfg.SiteURL)
}

func TestFromEnv_InvalidIntFallsBack(t *testing.T) {
	t.Setenv("TOPIC_COUNT", "lots")

	assert.Equal(t, 100, FromEnv().TopicCount)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "missing gemini key", mutate: func(c *Config) { c.GeminiAPIKey = "" }, wantErr: "GEMINI_API_KEY"},
		{name: "zero topics", mutate: func(c *Config) { c.TopicCount = 0 }, wantErr: "TOPIC_COUNT"},
		{name: "empty output dir", mutate: func(c *Config) { c.OutputDir = "" }, wantErr: "OUTPUT_DIR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{GeminiAPIKey: "k", TopicCount: 1, OutputDir: "out"}
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestEnabledFlags(t *testing.T) {
	cfg := &Config{}
	assert.False(t, cfg.ImagesEnabled())
	assert.False(t, cfg.StorageEnabled())
	assert.False(t, cfg.PublishEnabled())

	cfg.OpenAIImageAPIKey = "sk"
	cfg.S3BucketName = "bucket"
	cfg.AWSAccessKeyID = "id"
	assert.True(t, cfg.ImagesEnabled())
	assert.False(t, cfg.StorageEnabled(), "secret still missing")

	cfg.AWSSecretAccessKey = "secret"
	cfg.BasehubToken = "token"
	assert.True(t, cfg.StorageEnabled())
	assert.True(t, cfg.PublishEnabled())
}

func TestLoadDotenv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("SEO_AUTOMATOR_TEST_VAR=from-file\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("SEO_AUTOMATOR_TEST_VAR") })

	require.NoError(t, LoadDotenv(path))
	assert.Equal(t, "from-file", os.Getenv("SEO_AUTOMATOR_TEST_VAR"))
}

func TestLoadDotenv_MissingFileIsNotAnError(t *testing.T) {
	assert.NoError(t, LoadDotenv(filepath.Join(t.TempDir(), "missing.env")))
}

func TestLoad_RequiresGeminiKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	cfg, err := Load()
	assert.Nil(t, cfg)
	assert.Error(t, err)
}
