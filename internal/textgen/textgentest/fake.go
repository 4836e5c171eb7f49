// Package textgentest provides a scripted textgen.Generator for tests.
package textgentest

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Rule answers prompts containing Match.
type Rule struct {
	Match    string
	Response string
	Err      error
}

// Fake answers with the first rule whose Match is contained in the prompt.
// Unmatched prompts fail.
type Fake struct {
	mu      sync.Mutex
	rules   []Rule
	prompts []string
}

func New(rules ...Rule) *Fake {
	return &Fake{rules: rules}
}

func (f *Fake) Generate(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)

	for _, r := range f.rules {
		if strings.Contains(prompt, r.Match) {
			return r.Response, r.Err
		}
	}
	return "", fmt.Errorf("textgentest: no rule for prompt %.60q", prompt)
}

// Prompts returns every prompt received so far.
func (f *Fake) Prompts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.prompts...)
}

// PromptsContaining returns the received prompts that contain s.
func (f *Fake) PromptsContaining(s string) []string {
	var out []string
	for _, p := range f.Prompts() {
		if strings.Contains(p, s) {
			out = append(out, p)
		}
	}
	return out
}
