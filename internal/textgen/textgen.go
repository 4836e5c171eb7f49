// Package textgen turns prompts into raw model output.
package textgen

import (
	"context"
	"errors"
)

// ErrEmptyResponse is returned when the provider answers without any text, for
// example when the candidate was blocked by a safety filter.
var ErrEmptyResponse = errors.New("model returned no text")

// Generator produces a completion for a prompt. One call is one outbound request;
// implementations do not retry.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
