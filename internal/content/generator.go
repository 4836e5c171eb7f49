package content

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"seo-automator/internal/aijson"
	"seo-automator/internal/media"
	"seo-automator/internal/slug"
	"seo-automator/internal/textgen"
)

// ImageSource turns an image prompt into a hosted image. A nil image with a nil error
// means there was nothing to generate.
type ImageSource interface {
	Create(ctx context.Context, prompt string) (*media.Image, error)
}

// Generator produces topics, articles and pillar pages and keeps a local copy of every page.
type Generator struct {
	text    textgen.Generator
	images  ImageSource
	archive *Archive
	brand   Brand
	log     *zap.Logger
	now     func() time.Time
}

// Option customises a Generator.
type Option func(*Generator)

// WithClock overrides the time source used for datePublished.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// NewGenerator wires the generator. images may be nil, in which case pages are written
// without images.
func NewGenerator(text textgen.Generator, images ImageSource, archive *Archive, brand Brand, log *zap.Logger, opts ...Option) *Generator {
	g := &Generator{
		text:    text,
		images:  images,
		archive: archive,
		brand:   brand,
		log:     log.With(zap.String("component", "content")),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Topics asks the model for n blog titles. Generation or decoding failures are logged and
// produce an empty list.
func (g *Generator) Topics(ctx context.Context, businessContext string, n int) []string {
	g.log.Info("generating blog topics", zap.Int("count", n))

	prompt, err := render("topics.tmpl", promptData{
		Brand:           g.brand.Name,
		Count:           n,
		BusinessContext: strings.TrimSpace(businessContext),
	})
	if err != nil {
		g.log.Error("failed to build topic prompt", zap.Error(err))
		return []string{}
	}

	raw, err := g.text.Generate(ctx, prompt)
	if err != nil {
		g.log.Error("failed to generate blog topics", zap.Error(err))
		return []string{}
	}

	titles := ParseTopics(raw)
	if len(titles) == 0 {
		g.log.Error("failed to parse topics from model output", zap.String("raw", raw))
		return titles
	}
	if len(titles) != n {
		g.log.Warn("model returned a different number of topics", zap.Int("requested", n), zap.Int("received", len(titles)))
	}
	return titles
}

// Article generates one article for title, attaches an image when possible and writes
// the local copy.
func (g *Generator) Article(ctx context.Context, title string) (*Article, error) {
	prompt, err := render("article.tmpl", promptData{
		Brand:    g.brand.Name,
		SiteURL:  g.brand.SiteURL,
		CTA:      g.brand.CTA(),
		Title:    title,
		MinWords: articleMinWords,
	})
	if err != nil {
		return nil, err
	}
	return g.produce(ctx, KindArticle, title, prompt, nil)
}

// Pillar generates a hub page for title that must link to every entry in links.
func (g *Generator) Pillar(ctx context.Context, title string, links []Link) (*Article, error) {
	prompt, err := render("article.tmpl", promptData{
		Brand:    g.brand.Name,
		SiteURL:  g.brand.SiteURL,
		CTA:      g.brand.CTA(),
		Title:    title,
		MinWords: pillarMinWords,
		Pillar:   true,
		Links:    links,
	})
	if err != nil {
		return nil, err
	}
	return g.produce(ctx, KindPillar, title, prompt, links)
}

func (g *Generator) produce(ctx context.Context, kind Kind, title, prompt string, links []Link) (*Article, error) {
	log := g.log.With(zap.String("kind", string(kind)), zap.String("title", title))
	log.Info("generating content")

	raw, err := g.text.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generating %s: %w", kind, err)
	}
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("generating %s: %w", kind, textgen.ErrEmptyResponse)
	}

	description, body, tier := ParseArticle(raw)
	if tier == aijson.TierNone {
		log.Warn("model output is not the expected JSON, using it as the body", zap.Int("raw_chars", len(raw)))
	}

	article := &Article{
		Kind:        kind,
		Title:       title,
		Description: description,
		Body:        body,
		Slug:        slug.Make(title),
		Tier:        tier,
		Links:       links,
	}

	g.attachImage(ctx, article, log)

	path, err := g.archive.Write(article, g.now())
	if err != nil {
		return nil, fmt.Errorf("saving %s: %w", kind, err)
	}
	article.Path = path

	log.Info("content saved", zap.String("path", path), zap.Bool("image", article.ImageURL != ""))
	return article, nil
}

// attachImage never fails the article; every error is logged and the page goes out
// without an image.
func (g *Generator) attachImage(ctx context.Context, article *Article, log *zap.Logger) {
	if g.images == nil {
		return
	}

	prompt, err := render("image.tmpl", promptData{
		Brand:   g.brand.Name,
		Title:   article.Title,
		Extract: Extract(article.Body, imageExtractWords),
	})
	if err != nil {
		log.Warn("failed to build image prompt", zap.Error(err))
		return
	}

	imagePrompt, err := g.text.Generate(ctx, prompt)
	if err != nil {
		log.Warn("failed to generate image prompt", zap.Error(err))
		return
	}

	img, err := g.images.Create(ctx, strings.TrimSpace(imagePrompt))
	switch {
	case errors.Is(err, media.ErrNotConfigured):
		log.Warn("image pipeline is not configured, skipping image", zap.Error(err))
		return
	case err != nil:
		log.Warn("image pipeline failed, continuing without image", zap.Error(err))
		return
	case img == nil:
		return
	}

	article.ImageURL = img.PublicURL
	article.ImageFilename = img.Filename
}
