package content

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"seo-automator/internal/slug"
)

// Archive writes the local markdown copy of each generated page.
type Archive struct {
	dir   string
	brand Brand
}

func NewArchive(dir string, brand Brand) *Archive {
	return &Archive{dir: dir, brand: brand}
}

// PathFor returns the file a page of kind with slug s is written to. Pillar pages get a
// prefix so they never overwrite an article with the same slug.
func (a *Archive) PathFor(kind Kind, s string) string {
	name := s + ".md"
	if kind == KindPillar {
		name = "pillar_" + name
	}
	return filepath.Join(a.dir, name)
}

// Write stores article as markdown and appends its JSON-LD block. An existing file
// with the same name is replaced.
func (a *Archive) Write(article *Article, published time.Time) (string, error) {
	path := a.PathFor(article.Kind, article.Slug)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	if err := os.WriteFile(path, []byte(renderMarkdown(article)), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}

	if err := a.appendStructuredData(path, article, published); err != nil {
		return path, err
	}
	return path, nil
}

func renderMarkdown(article *Article) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", article.Title)
	fmt.Fprintf(&b, "**Description:** %s\n\n", article.Description)
	if article.ImageURL != "" {
		fmt.Fprintf(&b, "![Generated Image](%s)\n\n", article.ImageURL)
	}
	b.WriteString(article.Body)
	return b.String()
}

type organization struct {
	Type string       `json:"@type"`
	Name string       `json:"name"`
	Logo *imageObject `json:"logo,omitempty"`
}

type imageObject struct {
	Type string `json:"@type"`
	URL  string `json:"url"`
}

type webPage struct {
	Type string `json:"@type"`
	ID   string `json:"@id"`
}

// structuredData is a schema.org Article.
type structuredData struct {
	Context          string       `json:"@context"`
	Type             string       `json:"@type"`
	Headline         string       `json:"headline"`
	Description      string       `json:"description"`
	Image            *string      `json:"image"`
	Author           organization `json:"author"`
	Publisher        organization `json:"publisher"`
	DatePublished    string       `json:"datePublished"`
	MainEntityOfPage webPage      `json:"mainEntityOfPage"`
}

func (a *Archive) structuredData(article *Article, published time.Time) structuredData {
	var image *string
	if article.ImageURL != "" {
		u := article.ImageURL
		image = &u
	}
	return structuredData{
		Context:     "https://schema.org",
		Type:        "Article",
		Headline:    article.Title,
		Description: article.Description,
		Image:       image,
		Author:      organization{Type: "Organization", Name: a.brand.Name},
		Publisher: organization{
			Type: "Organization",
			Name: a.brand.Name,
			Logo: &imageObject{Type: "ImageObject", URL: a.brand.LogoURL()},
		},
		DatePublished:    published.Format(time.RFC3339),
		MainEntityOfPage: webPage{Type: "WebPage", ID: a.brand.PostURL(slug.Make(article.Title))},
	}
}

// StructuredDataBlock renders the <script> tag appended to every page.
func (a *Archive) StructuredDataBlock(article *Article, published time.Time) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(a.structuredData(article, published)); err != nil {
		return "", fmt.Errorf("encoding structured data: %w", err)
	}
	return "\n\n<script type=\"application/ld+json\">\n" + strings.TrimRight(buf.String(), "\n") + "\n</script>", nil
}

func (a *Archive) appendStructuredData(path string, article *Article, published time.Time) error {
	block, err := a.StructuredDataBlock(article, published)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening %s for structured data: %w", path, err)
	}
	defer f.Close()

	if _, err := f.WriteString(block); err != nil {
		return fmt.Errorf("appending structured data to %s: %w", path, err)
	}
	return nil
}
