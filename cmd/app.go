package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"

	"seo-automator/internal/config"
	"seo-automator/internal/content"
	"seo-automator/internal/media"
	"seo-automator/internal/pipeline"
	"seo-automator/internal/publish"
	"seo-automator/internal/store"
	"seo-automator/internal/textgen"
)

const httpTimeout = 2 * time.Minute

// app holds the components shared by the generating commands.
type app struct {
	text      *textgen.GeminiClient
	generator *content.Generator
	publisher *publish.BasehubClient
	reports   *store.PostgresStore
}

// newApp wires the clients from c. Only a missing Gemini key is fatal; images, uploads,
// publishing and report storage degrade when their settings are absent.
func newApp(ctx context.Context, c *config.Config, log *zap.Logger) (*app, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	text, err := textgen.NewGeminiClient(ctx, c.GeminiAPIKey, c.GeminiModel, log)
	if err != nil {
		return nil, err
	}

	httpClient := &http.Client{Timeout: httpTimeout}
	brand := content.DefaultBrand(c.BrandName, c.SiteURL)

	a := &app{text: text}
	a.generator = content.NewGenerator(
		text,
		newImagePipeline(ctx, c, httpClient, log),
		content.NewArchive(c.OutputDir, brand),
		brand,
		log,
	)

	if !c.PublishEnabled() {
		log.Warn("BASEHUB_TOKEN is not set, posts will not be published")
	}
	a.publisher = publish.NewBasehubClient(publish.Settings{
		APIURL:           c.BasehubAPIURL,
		Token:            c.BasehubToken,
		CollectionID:     c.BasehubCollectionID,
		AuthorID:         c.BasehubAuthorID,
		ImageComponentID: c.BasehubImageComponentID,
	}, httpClient, log)

	if c.ReportDatabaseURL != "" {
		a.reports = openReportStore(ctx, c.ReportDatabaseURL, log)
	}

	return a, nil
}

// openReportStore returns nil when the database cannot be reached or migrated; run
// reports are then only logged.
func openReportStore(ctx context.Context, dsn string, log *zap.Logger) *store.PostgresStore {
	reports, err := store.Open(dsn, log)
	if err != nil {
		log.Error("report database unavailable, run reports will only be logged", zap.Error(err))
		return nil
	}
	if err := reports.Migrate(ctx); err != nil {
		log.Error("report database unavailable, run reports will only be logged", zap.Error(err))
		_ = reports.Close()
		return nil
	}
	return reports
}

// newImagePipeline always returns a pipeline; missing settings surface per page as
// media.ErrNotConfigured.
func newImagePipeline(ctx context.Context, c *config.Config, httpClient *http.Client, log *zap.Logger) *media.Pipeline {
	var (
		images  media.ImageGenerator
		objects media.ObjectStore
	)

	if c.ImagesEnabled() {
		images = media.NewOpenAIImages(c.OpenAIImageAPIKey, c.OpenAIBaseURL, c.ImageModel, c.ImageSize, httpClient, log)
	} else {
		log.Warn("OPENAI_IMAGE_API_KEY is not set, pages will have no images")
	}

	if c.StorageEnabled() {
		s3Store, err := media.NewS3Store(ctx, c.S3BucketName, c.AWSRegion, c.AWSAccessKeyID, c.AWSSecretAccessKey)
		if err != nil {
			log.Error("failed to initialise S3 client", zap.Error(err))
		} else {
			objects = s3Store
		}
	} else {
		log.Warn("S3 credentials are incomplete, images will not be uploaded")
	}

	return media.NewPipeline(images, objects, httpClient, log)
}

func (a *app) runner(opts pipeline.Options, log *zap.Logger) *pipeline.Runner {
	var sinks []pipeline.ReportSink
	if a.reports != nil {
		sinks = append(sinks, a.reports)
	}
	return pipeline.NewRunner(a.generator, a.publisher, opts, log, sinks...)
}

func (a *app) Close() error {
	var errs []error
	if a.text != nil {
		errs = append(errs, a.text.Close())
	}
	if a.reports != nil {
		errs = append(errs, a.reports.Close())
	}
	return errors.Join(errs...)
}

// businessContext returns the contents of path, or the built-in website copy when path
// is empty.
func businessContext(path string) (string, error) {
	if path == "" {
		return content.BusinessContext, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading business context: %w", err)
	}
	return string(raw), nil
}
