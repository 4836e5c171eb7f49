// Package slug derives URL-safe identifiers from article titles.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	separators = regexp.MustCompile(`[\s_]+`)
	disallowed = regexp.MustCompile(`[^a-z0-9-]`)
)

// Make lowercases title, turns whitespace and underscores into hyphens and drops every
// other character outside [a-z0-9-]. Accented letters are folded to their base letter
// first. Distinct titles may produce the same slug.
func Make(title string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), title)
	if err != nil {
		folded = title
	}

	s := strings.ToLower(folded)
	s = separators.ReplaceAllString(s, "-")
	s = disallowed.ReplaceAllString(s, "")
	return strings.Trim(s, "-")
}
