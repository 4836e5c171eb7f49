package content

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"seo-automator/internal/aijson"
)

const (
	fallbackDescriptionWords = 30
	imageExtractWords        = 100
)

// ParseTopics decodes a {"titles": [...]} payload. Anything that does not decode
// yields an empty list. Blank titles are dropped; the count is not checked.
func ParseTopics(raw string) []string {
	var payload struct {
		Titles []string `json:"titles"`
	}
	if _, err := aijson.Decode(raw, &payload); err != nil {
		return []string{}
	}

	titles := make([]string, 0, len(payload.Titles))
	for _, t := range payload.Titles {
		if t = strings.TrimSpace(t); t != "" {
			titles = append(titles, t)
		}
	}
	return titles
}

// ParseArticle extracts the description and body from model output. When the output
// does not decode or either field is empty, the whole response becomes the body and the
// description is built from its first words. The body is never empty for non-empty input.
func ParseArticle(raw string) (description, body string, tier aijson.Tier) {
	var payload struct {
		Description string `json:"description"`
		ArticleBody string `json:"article_body"`
	}
	tier, err := aijson.Decode(raw, &payload)
	if err == nil && strings.TrimSpace(payload.Description) != "" && strings.TrimSpace(payload.ArticleBody) != "" {
		return payload.Description, payload.ArticleBody, tier
	}
	return firstWords(raw, fallbackDescriptionWords) + "...", raw, aijson.TierNone
}

// Extract returns the first n words of body with inline HTML flattened to text.
func Extract(body string, n int) string {
	return firstWords(plainText(body), n)
}

func firstWords(s string, n int) string {
	words := strings.Fields(s)
	if len(words) > n {
		words = words[:n]
	}
	return strings.Join(words, " ")
}

// plainText drops markup the model sometimes mixes into markdown bodies.
func plainText(body string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return body
	}
	doc.Find("script, style").Remove()
	return doc.Text()
}
