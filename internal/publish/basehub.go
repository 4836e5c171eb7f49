// Package publish submits generated posts to the Basehub CMS.
package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// ErrNotConfigured is returned when no API token is available.
var ErrNotConfigured = errors.New("basehub token is not set")

const createPostMutation = `mutation CreateBlogPost($data: String!) {
  transaction(data: $data)
}`

// Post is the content of one blog post.
type Post struct {
	Title         string
	Description   string
	Body          string
	ImageURL      string
	ImageFilename string
	PublishedAt   time.Time
}

// Settings identify where in Basehub posts are created.
type Settings struct {
	APIURL           string
	Token            string
	CollectionID     string
	AuthorID         string
	ImageComponentID string
}

// BasehubClient creates blog posts through the Basehub GraphQL transaction mutation.
type BasehubClient struct {
	settings Settings
	http     *http.Client
	log      *zap.Logger
}

func NewBasehubClient(settings Settings, httpClient *http.Client, log *zap.Logger) *BasehubClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &BasehubClient{
		settings: settings,
		http:     httpClient,
		log:      log.With(zap.String("component", "basehub")),
	}
}

// Field is a typed Basehub value.
type Field struct {
	Type            string `json:"type"`
	MainComponentID string `json:"mainComponentId,omitempty"`
	Value           any    `json:"value"`
}

// Transaction is the payload serialized into the mutation's data variable.
type Transaction struct {
	Type     string          `json:"type"`
	ParentID string          `json:"parentId"`
	Data     TransactionData `json:"data"`
}

type TransactionData struct {
	Title string           `json:"title"`
	Type  string           `json:"type"`
	Value map[string]Field `json:"value"`
}

type richText struct {
	Format string `json:"format"`
	Value  string `json:"value"`
}

type media struct {
	URL      string `json:"url"`
	FileName string `json:"fileName"`
}

// BuildTransaction maps post to a create transaction. The image block is only included
// when both the URL and the filename are set.
func (c *BasehubClient) BuildTransaction(post Post) Transaction {
	value := map[string]Field{
		"description": {Type: "text", Value: post.Description},
		"publishedAt": {Type: "date", Value: post.PublishedAt.Format(time.RFC3339)},
		"body":        {Type: "rich-text", Value: richText{Format: "markdown", Value: post.Body}},
		"authors":     {Type: "reference", Value: []string{c.settings.AuthorID}},
	}

	if post.ImageURL != "" && post.ImageFilename != "" {
		value["image"] = Field{
			Type:            "instance",
			MainComponentID: c.settings.ImageComponentID,
			Value: map[string]Field{
				"light": {Type: "media", Value: media{URL: post.ImageURL, FileName: post.ImageFilename}},
			},
		}
	}

	return Transaction{
		Type:     "create",
		ParentID: c.settings.CollectionID,
		Data: TransactionData{
			Title: post.Title,
			Type:  "instance",
			Value: value,
		},
	}
}

type graphQLRequest struct {
	Query     string            `json:"query"`
	Variables map[string]string `json:"variables"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// Publish sends one create transaction. It does not retry and does not verify that the
// post exists afterwards.
func (c *BasehubClient) Publish(ctx context.Context, post Post) error {
	if c.settings.Token == "" {
		return ErrNotConfigured
	}

	tx, err := json.Marshal(c.BuildTransaction(post))
	if err != nil {
		return fmt.Errorf("encoding transaction: %w", err)
	}

	body, err := json.Marshal(graphQLRequest{
		Query:     createPostMutation,
		Variables: map[string]string{"data": string(tx)},
	})
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.settings.APIURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.settings.Token)
	req.Header.Set("Content-Type", "application/json")

	c.log.Info("publishing post", zap.String("title", post.Title), zap.Time("published_at", post.PublishedAt))

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to publish to basehub: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return fmt.Errorf("reading basehub response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("basehub returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var gqlResp graphQLResponse
	if err := json.Unmarshal(respBody, &gqlResp); err == nil && len(gqlResp.Errors) > 0 {
		c.log.Warn("basehub reported errors", zap.String("title", post.Title), zap.String("error", gqlResp.Errors[0].Message))
	}

	c.log.Info("post published", zap.String("title", post.Title), zap.Int("status", resp.StatusCode))
	return nil
}
