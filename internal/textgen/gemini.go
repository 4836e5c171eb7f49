package textgen

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// GeminiClient generates text with a single Gemini model.
type GeminiClient struct {
	client *genai.Client
	model  *genai.GenerativeModel
	name   string
	log    *zap.Logger
}

// NewGeminiClient creates a client for modelName. An empty apiKey is a fatal setup error.
func NewGeminiClient(ctx context.Context, apiKey, modelName string, log *zap.Logger) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, errors.New("GEMINI_API_KEY is not set")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		model:  client.GenerativeModel(modelName),
		name:   modelName,
		log:    log.With(zap.String("component", "gemini"), zap.String("model", modelName)),
	}, nil
}

// Generate sends prompt to the model and returns the text of the first candidate.
func (g *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	g.log.Debug("generating content", zap.Int("prompt_chars", len(prompt)))

	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		g.log.Error("gemini request failed", zap.Error(err))
		return "", fmt.Errorf("gemini generate content: %w", err)
	}

	text := responseText(resp)
	if strings.TrimSpace(text) == "" {
		g.log.Warn("gemini returned no text", zap.String("reason", finishReason(resp)))
		return "", ErrEmptyResponse
	}

	g.log.Debug("content generated", zap.Int("response_chars", len(text)))
	return text, nil
}

// Close releases the underlying connection.
func (g *GeminiClient) Close() error {
	return g.client.Close()
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	candidate := resp.Candidates[0]
	if candidate == nil || candidate.Content == nil {
		return ""
	}

	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	return b.String()
}

func finishReason(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return "nil response"
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockReasonUnspecified {
		return "prompt blocked: " + resp.PromptFeedback.BlockReason.String()
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return "no candidates"
	}
	return resp.Candidates[0].FinishReason.String()
}
