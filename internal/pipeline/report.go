package pipeline

import (
	"time"

	"seo-automator/internal/content"
)

// Status is the outcome of one batch item.
type Status string

const (
	// StatusPublished: generated, written locally and accepted by the CMS.
	StatusPublished Status = "published"
	// StatusPublishFailed: generated and written locally, the CMS call failed.
	StatusPublishFailed Status = "publish_failed"
	// StatusGenerated: generated and written locally, publishing was not requested.
	StatusGenerated Status = "generated"
	// StatusSkipped: nothing usable was produced.
	StatusSkipped Status = "skipped"
)

// ItemResult records what happened to one article or pillar page.
type ItemResult struct {
	Kind        content.Kind `json:"kind"`
	Index       int          `json:"index"`
	Title       string       `json:"title"`
	Slug        string       `json:"slug"`
	Path        string       `json:"path,omitempty"`
	Status      Status       `json:"status"`
	Reason      string       `json:"reason,omitempty"`
	PublishedAt time.Time    `json:"published_at"`
	HasImage    bool         `json:"has_image"`
	LinkedSlugs []string     `json:"linked_slugs,omitempty"`
}

// Produced reports whether the item has content on disk.
func (r ItemResult) Produced() bool {
	return r.Status != StatusSkipped
}

// Report aggregates the results of one run.
type Report struct {
	RunID           string       `json:"run_id"`
	StartedAt       time.Time    `json:"started_at"`
	FinishedAt      time.Time    `json:"finished_at"`
	TopicsRequested int          `json:"topics_requested"`
	TopicsReceived  int          `json:"topics_received"`
	Items           []ItemResult `json:"items"`
}

func (r *Report) Add(item ItemResult) {
	r.Items = append(r.Items, item)
}

// Count returns the number of items of kind with status. An empty kind matches all kinds.
func (r *Report) Count(kind content.Kind, status Status) int {
	n := 0
	for _, item := range r.Items {
		if (kind == "" || item.Kind == kind) && item.Status == status {
			n++
		}
	}
	return n
}

// Failed returns the items that were skipped or could not be published.
func (r *Report) Failed() []ItemResult {
	var out []ItemResult
	for _, item := range r.Items {
		if item.Status == StatusSkipped || item.Status == StatusPublishFailed {
			out = append(out, item)
		}
	}
	return out
}
