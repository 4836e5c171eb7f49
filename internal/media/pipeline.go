package media

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const imageContentType = "image/png"

// Image is one generated picture and where it ended up.
type Image struct {
	// SourceURL is the provider-hosted URL; it expires shortly after generation.
	SourceURL string
	Bytes     []byte
	ObjectKey string
	PublicURL string
	Filename  string
}

// Pipeline generates an image, downloads it and re-hosts it in object storage.
type Pipeline struct {
	images ImageGenerator
	store  ObjectStore
	http   *http.Client
	log    *zap.Logger
	now    func() time.Time
	newID  func() string
}

// NewPipeline wires the pipeline. images or store may be nil when their credentials are
// missing; Create then reports ErrNotConfigured.
func NewPipeline(images ImageGenerator, store ObjectStore, httpClient *http.Client, log *zap.Logger) *Pipeline {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Pipeline{
		images: images,
		store:  store,
		http:   httpClient,
		log:    log.With(zap.String("component", "image-pipeline")),
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// ObjectKey builds the task-scoped storage key for filename.
func ObjectKey(at time.Time, filename string) string {
	return fmt.Sprintf("tasks/%d/attachments/%s", at.UnixMilli(), filename)
}

// Create runs the full pipeline for prompt. An empty prompt is a no-op returning nil.
func (p *Pipeline) Create(ctx context.Context, prompt string) (*Image, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		p.log.Warn("no prompt provided for image generation, skipping")
		return nil, nil
	}
	if p.images == nil {
		return nil, fmt.Errorf("%w: OPENAI_IMAGE_API_KEY is not set", ErrNotConfigured)
	}
	if p.store == nil {
		return nil, fmt.Errorf("%w: S3 bucket credentials are not set", ErrNotConfigured)
	}

	sourceURL, err := p.images.GenerateURL(ctx, prompt)
	if err != nil {
		return nil, err
	}

	data, err := Download(ctx, p.http, sourceURL)
	if err != nil {
		return nil, err
	}

	filename := p.newID() + ".png"
	key := ObjectKey(p.now(), filename)
	publicURL, err := p.store.Put(ctx, key, data, imageContentType)
	if err != nil {
		return nil, err
	}

	p.log.Info("image uploaded", zap.String("key", key), zap.String("url", publicURL))
	return &Image{
		SourceURL: sourceURL,
		Bytes:     data,
		ObjectKey: key,
		PublicURL: publicURL,
		Filename:  filename,
	}, nil
}
