package content

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"
)

//go:embed prompts/*.tmpl
var promptFS embed.FS

//go:embed prompts/business_context.txt
var BusinessContext string

var prompts = template.Must(template.ParseFS(promptFS, "prompts/*.tmpl"))

const (
	articleMinWords = 1500
	pillarMinWords  = 2500
)

type promptData struct {
	Brand           string
	SiteURL         string
	CTA             string
	Title           string
	Count           int
	BusinessContext string
	MinWords        int
	Pillar          bool
	Links           []Link
	Extract         string
}

func render(name string, data promptData) (string, error) {
	var buf bytes.Buffer
	if err := prompts.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("rendering %s: %w", name, err)
	}
	return buf.String(), nil
}
