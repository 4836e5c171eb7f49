package aijson

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type titles struct {
	Titles []string `json:"titles"`
}

func TestDecode_Tiers(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantTier Tier
		want     []string
	}{
		{
			name:     "raw object",
			raw:      `{"titles": ["a", "b"]}`,
			wantTier: TierRaw,
			want:     []string{"a", "b"},
		},
		{
			name:     "raw object with surrounding whitespace",
			raw:      "\n\n  {\"titles\": [\"a\"]}  \n",
			wantTier: TierRaw,
			want:     []string{"a"},
		},
		{
			name:     "json fenced block",
			raw:      "```json\n{\"titles\": [\"a\", \"b\"]}\n```",
			wantTier: TierFenced,
			want:     []string{"a", "b"},
		},
		{
			name:     "untagged fenced block",
			raw:      "```\n{\"titles\": [\"c\"]}\n```",
			wantTier: TierFenced,
			want:     []string{"c"},
		},
		{
			name:     "fenced block with prose around it",
			raw:      "Sure! Here you go:\n```json\n{\"titles\": [\"d\"]}\n```\nEnjoy.",
			wantTier: TierFenced,
			want:     []string{"d"},
		},
		{
			name:     "object embedded in prose",
			raw:      `Here is the JSON you asked for: {"titles": ["e"]} Let me know!`,
			wantTier: TierBraces,
			want:     []string{"e"},
		},
		{
			name:     "fenced block with trailing garbage inside",
			raw:      "```json\n{\"titles\": [\"f\"]}\n// note\n```",
			wantTier: TierBraces,
			want:     []string{"f"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got titles
			tier, err := Decode(tt.raw, &got)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTier, tier)
			assert.Equal(t, tt.want, got.Titles)
		})
	}
}

func TestDecode_Failures(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"Just some prose about marketing.",
		"```json\nnot json at all\n```",
		"{ broken",
		"} backwards {",
		`{"titles": ["unterminated"}`,
	}

	for _, raw := range inputs {
		var got titles
		tier, err := Decode(raw, &got)
		assert.ErrorIs(t, err, ErrNoJSON, "input %q", raw)
		assert.Equal(t, TierNone, tier)
		assert.Nil(t, got.Titles)
	}
}

func TestDecode_TypeMismatchFallsThrough(t *testing.T) {
	var got titles
	_, err := Decode(`{"titles": "not an array"}`, &got)
	assert.ErrorIs(t, err, ErrNoJSON)
}

func TestFencedBlock(t *testing.T) {
	block, ok := FencedBlock("```json\n{\"a\":1}\n```")
	require.True(t, ok)
	assert.Equal(t, `{"a":1}`, block)

	_, ok = FencedBlock("no fences here")
	assert.False(t, ok)
}

func TestTierString(t *testing.T) {
	assert.Equal(t, "raw", TierRaw.String())
	assert.Equal(t, "fenced", TierFenced.String())
	assert.Equal(t, "braces", TierBraces.String())
	assert.Equal(t, "none", TierNone.String())
}
