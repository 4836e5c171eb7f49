package content

import (
	"seo-automator/internal/aijson"
)

// Kind distinguishes regular articles from pillar pages.
type Kind string

const (
	KindArticle Kind = "article"
	KindPillar  Kind = "pillar"
)

// Link is the part of a generated article kept around for pillar interlinking.
type Link struct {
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

// Article is a generated article or pillar page.
type Article struct {
	Kind          Kind
	Title         string
	Description   string
	Body          string
	ImageURL      string
	ImageFilename string
	Slug          string
	// Path of the local markdown copy.
	Path string
	// Tier records how the model output was decoded; TierNone means the plain-text fallback was used.
	Tier  aijson.Tier
	Links []Link
}

// HasImage reports whether both image fields are present.
func (a *Article) HasImage() bool {
	return a.ImageURL != "" && a.ImageFilename != ""
}

// Link returns the {title, slug} pair used by pillar pages.
func (a *Article) Link() Link {
	return Link{Title: a.Title, Slug: a.Slug}
}

// DefaultPillarTitles are the hub pages built over the generated articles, in order.
var DefaultPillarTitles = []string{
	"The Founder's Complete Guide to Go-To-Market Strategy",
	"AI-Powered Marketing: The Ultimate Playbook for Startups",
	"From Zero to Hero: A Founder's Guide to Building a Powerful Personal Brand",
	"The Scrappy Startup's Guide to SEO and Content Marketing",
	"The Art of the Weekly Marketing Sprint: A System for Consistent Growth",
}
