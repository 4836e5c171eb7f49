// Package media generates article images and hosts them in object storage.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// ErrNotConfigured is returned when a required credential for the pipeline is missing.
var ErrNotConfigured = errors.New("image pipeline not configured")

const maxImageBytes = 20 << 20

// ImageGenerator returns a provider-hosted, short-lived URL for a generated image.
type ImageGenerator interface {
	GenerateURL(ctx context.Context, prompt string) (string, error)
}

// OpenAIImages requests images from the OpenAI images endpoint.
type OpenAIImages struct {
	client *openai.Client
	model  string
	size   string
	log    *zap.Logger
}

// NewOpenAIImages creates an image generator. baseURL may be empty to use the public API.
func NewOpenAIImages(apiKey, baseURL, model, size string, httpClient *http.Client, log *zap.Logger) *OpenAIImages {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if httpClient != nil {
		cfg.HTTPClient = httpClient
	}
	return &OpenAIImages{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		size:   size,
		log:    log.With(zap.String("component", "openai-images"), zap.String("model", model)),
	}
}

func (o *OpenAIImages) GenerateURL(ctx context.Context, prompt string) (string, error) {
	o.log.Info("requesting image", zap.String("prompt", truncate(prompt, 70)))

	resp, err := o.client.CreateImage(ctx, openai.ImageRequest{
		Model:          o.model,
		Prompt:         prompt,
		N:              1,
		Size:           o.size,
		ResponseFormat: openai.CreateImageResponseFormatURL,
	})
	if err != nil {
		return "", fmt.Errorf("image generation request failed: %w", err)
	}
	if len(resp.Data) == 0 || resp.Data[0].URL == "" {
		return "", errors.New("image generation response has no image URL")
	}

	o.log.Info("image generated", zap.String("source_url", resp.Data[0].URL))
	return resp.Data[0].URL, nil
}

// Download fetches the bytes behind url.
func Download(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create download request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("image download failed with status %d: %s", resp.StatusCode, string(body))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("error reading image body: %w", err)
	}
	if len(data) > maxImageBytes {
		return nil, fmt.Errorf("image exceeds %d bytes", maxImageBytes)
	}
	if len(data) == 0 {
		return nil, errors.New("downloaded image is empty")
	}
	return data, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
