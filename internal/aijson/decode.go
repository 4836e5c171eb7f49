// Package aijson recovers JSON objects from free-form model output.
//
// Models asked for "ONLY a valid JSON object" still wrap it in markdown fences or
// surround it with prose often enough that every caller needs the same recovery steps.
// Decode applies them in a fixed order and reports which one succeeded.
package aijson

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

// ErrNoJSON is returned when none of the recovery tiers yields valid JSON.
var ErrNoJSON = errors.New("no JSON object found in response")

// Tier identifies the recovery step that produced the decoded value.
type Tier int

const (
	TierNone Tier = iota
	// TierRaw: the trimmed response was valid JSON as-is.
	TierRaw
	// TierFenced: the content of a ``` or ```json fenced block was valid JSON.
	TierFenced
	// TierBraces: the substring from the first '{' to the last '}' was valid JSON.
	TierBraces
)

func (t Tier) String() string {
	switch t {
	case TierRaw:
		return "raw"
	case TierFenced:
		return "fenced"
	case TierBraces:
		return "braces"
	default:
		return "none"
	}
}

var fenced = regexp.MustCompile("(?s)```(?:json)?(.*)```")

// Decode unmarshals the first JSON candidate in raw into v and reports the tier that
// produced it.
func Decode(raw string, v any) (Tier, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return TierNone, ErrNoJSON
	}

	if json.Valid([]byte(trimmed)) {
		if err := json.Unmarshal([]byte(trimmed), v); err == nil {
			return TierRaw, nil
		}
	}

	if block, ok := FencedBlock(trimmed); ok && json.Valid([]byte(block)) {
		if err := json.Unmarshal([]byte(block), v); err == nil {
			return TierFenced, nil
		}
	}

	if obj, ok := braces(trimmed); ok && json.Valid([]byte(obj)) {
		if err := json.Unmarshal([]byte(obj), v); err == nil {
			return TierBraces, nil
		}
	}

	return TierNone, ErrNoJSON
}

// FencedBlock returns the trimmed text between the first and the last triple-backtick
// fence, dropping an optional json language tag.
func FencedBlock(s string) (string, bool) {
	m := fenced.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

func braces(s string) (string, bool) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}
