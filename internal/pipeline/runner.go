// Package pipeline drives a content batch: topics, articles, then pillar pages.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"seo-automator/internal/content"
	"seo-automator/internal/publish"
	"seo-automator/internal/slug"
)

// ErrNoTopics halts a run when the model produced no usable titles.
var ErrNoTopics = errors.New("no blog topics were generated")

const day = 24 * time.Hour

// ContentGenerator produces the pages of a batch.
type ContentGenerator interface {
	Topics(ctx context.Context, businessContext string, n int) []string
	Article(ctx context.Context, title string) (*content.Article, error)
	Pillar(ctx context.Context, title string, links []content.Link) (*content.Article, error)
}

// Publisher sends one post to the CMS.
type Publisher interface {
	Publish(ctx context.Context, post publish.Post) error
}

// ReportSink receives the finished report of a run.
type ReportSink interface {
	Save(ctx context.Context, report *Report) error
}

// Options control the size and shape of a batch.
type Options struct {
	BusinessContext string
	TopicCount      int
	PillarTitles    []string
	SkipPillars     bool
}

// Runner executes batches sequentially. It is not safe for concurrent use.
type Runner struct {
	gen   ContentGenerator
	pub   Publisher
	sinks []ReportSink
	opts  Options
	log   *zap.Logger
	now   func() time.Time
	newID func() string
}

func NewRunner(gen ContentGenerator, pub Publisher, opts Options, log *zap.Logger, sinks ...ReportSink) *Runner {
	return &Runner{
		gen:   gen,
		pub:   pub,
		sinks: sinks,
		opts:  opts,
		log:   log.With(zap.String("component", "pipeline")),
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Run generates the topics, then every article, then the pillar pages. Item failures are
// recorded in the report and never stop the batch; only an empty topic list is fatal.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	start := r.now()
	report := &Report{
		RunID:           r.newID(),
		StartedAt:       start,
		TopicsRequested: r.opts.TopicCount,
	}
	log := r.log.With(zap.String("run_id", report.RunID))

	titles := r.gen.Topics(ctx, r.opts.BusinessContext, r.opts.TopicCount)
	report.TopicsReceived = len(titles)
	if len(titles) == 0 {
		report.FinishedAt = r.now()
		return report, ErrNoTopics
	}
	log.Info("starting article generation", zap.Int("topics", len(titles)))

	var links []content.Link
	for i, title := range titles {
		if err := ctx.Err(); err != nil {
			log.Warn("run cancelled, stopping article generation", zap.Int("processed", i), zap.Error(err))
			break
		}

		log.Info("generating article", zap.Int("n", i+1), zap.Int("of", len(titles)), zap.String("title", title))
		item := r.process(ctx, content.KindArticle, i, title, start.Add(-time.Duration(i)*day), nil, true)
		report.Add(item)
		if item.Produced() {
			links = append(links, content.Link{Title: item.Title, Slug: item.Slug})
		}
	}
	log.Info("article generation complete", zap.Int("articles", len(links)))

	if !r.opts.SkipPillars && ctx.Err() == nil {
		r.runPillars(ctx, report, links, start, len(titles))
	}

	report.FinishedAt = r.now()
	r.finish(ctx, report)
	return report, nil
}

func (r *Runner) runPillars(ctx context.Context, report *Report, links []content.Link, start time.Time, offset int) {
	chunks := ChunkLinks(links, len(r.opts.PillarTitles))
	if len(chunks) == 0 {
		r.log.Warn("not enough articles to build pillar pages",
			zap.Int("articles", len(links)), zap.Int("pillars", len(r.opts.PillarTitles)))
		return
	}

	r.log.Info("generating pillar pages", zap.Int("pillars", len(r.opts.PillarTitles)), zap.Int("chunk_size", len(chunks[0])))
	for i, title := range r.opts.PillarTitles {
		if i >= len(chunks) {
			break
		}
		if err := ctx.Err(); err != nil {
			r.log.Warn("run cancelled, stopping pillar generation", zap.Error(err))
			return
		}
		publishAt := start.Add(-time.Duration(offset+i) * day)
		report.Add(r.process(ctx, content.KindPillar, i, title, publishAt, chunks[i], true))
	}
}

// Article runs a single item outside of a batch.
func (r *Runner) Article(ctx context.Context, title string, publishAt time.Time, publishPost bool) ItemResult {
	return r.process(ctx, content.KindArticle, 0, title, publishAt, nil, publishPost)
}

// process turns one title into an ItemResult. It never panics.
func (r *Runner) process(ctx context.Context, kind content.Kind, index int, title string, publishAt time.Time, links []content.Link, publishPost bool) (item ItemResult) {
	item = ItemResult{
		Kind:        kind,
		Index:       index,
		Title:       title,
		Slug:        slug.Make(title),
		PublishedAt: publishAt,
		LinkedSlugs: linkSlugs(links),
	}
	log := r.log.With(zap.String("kind", string(kind)), zap.String("title", title))

	defer func() {
		if p := recover(); p != nil {
			item.Status = StatusSkipped
			item.Reason = fmt.Sprintf("unexpected error: %v", p)
			log.Error("item panicked, skipping", zap.Any("panic", p))
		}
	}()

	var (
		article *content.Article
		err     error
	)
	if kind == content.KindPillar {
		article, err = r.gen.Pillar(ctx, title, links)
	} else {
		article, err = r.gen.Article(ctx, title)
	}
	if err != nil {
		log.Warn("failed to generate, skipping", zap.Error(err))
		item.Status = StatusSkipped
		item.Reason = err.Error()
		return item
	}
	if article == nil || strings.TrimSpace(article.Body) == "" {
		log.Warn("generated content is empty, skipping")
		item.Status = StatusSkipped
		item.Reason = "empty content"
		return item
	}

	item.Title = article.Title
	item.Slug = article.Slug
	item.Path = article.Path
	item.HasImage = article.HasImage()

	if !publishPost {
		item.Status = StatusGenerated
		return item
	}

	err = r.pub.Publish(ctx, publish.Post{
		Title:         article.Title,
		Description:   article.Description,
		Body:          article.Body,
		ImageURL:      article.ImageURL,
		ImageFilename: article.ImageFilename,
		PublishedAt:   publishAt,
	})
	if err != nil {
		log.Error("failed to publish", zap.Error(err))
		item.Status = StatusPublishFailed
		item.Reason = err.Error()
		return item
	}

	item.Status = StatusPublished
	return item
}

// finish hands the report to the sinks. They get a context that survives cancellation
// so an interrupted run is still recorded.
func (r *Runner) finish(ctx context.Context, report *Report) {
	ctx = context.WithoutCancel(ctx)
	for _, sink := range r.sinks {
		if err := sink.Save(ctx, report); err != nil {
			r.log.Error("failed to save run report", zap.String("run_id", report.RunID), zap.Error(err))
		}
	}

	r.log.Info("run complete",
		zap.String("run_id", report.RunID),
		zap.Duration("elapsed", report.FinishedAt.Sub(report.StartedAt)),
		zap.Int("topics", report.TopicsReceived),
		zap.Int("published", report.Count("", StatusPublished)),
		zap.Int("publish_failed", report.Count("", StatusPublishFailed)),
		zap.Int("skipped", report.Count("", StatusSkipped)),
		zap.Int("pillars_published", report.Count(content.KindPillar, StatusPublished)),
	)
	for _, item := range report.Failed() {
		r.log.Warn("item not published",
			zap.String("kind", string(item.Kind)),
			zap.String("title", item.Title),
			zap.String("status", string(item.Status)),
			zap.String("reason", item.Reason))
	}
}

func linkSlugs(links []content.Link) []string {
	if len(links) == 0 {
		return nil
	}
	out := make([]string, len(links))
	for i, l := range links {
		out[i] = l.Slug
	}
	return out
}
