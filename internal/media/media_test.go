package media

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\nfake-image")

type fakeS3 struct {
	inputs []*s3.PutObjectInput
	bodies [][]byte
	err    error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	body, _ := io.ReadAll(in.Body)
	f.inputs = append(f.inputs, in)
	f.bodies = append(f.bodies, body)
	return &s3.PutObjectOutput{}, nil
}

// newImageServer serves both the images endpoint and the generated file.
func newImageServer(t *testing.T, generateStatus, downloadStatus int) (*httptest.Server, *map[string]any) {
	t.Helper()
	return newImageServerWithBody(t, generateStatus, downloadStatus, pngBytes)
}

func newImageServerWithBody(t *testing.T, generateStatus, downloadStatus int, image []byte) (*httptest.Server, *map[string]any) {
	t.Helper()
	var captured map[string]any

	mux := http.NewServeMux()
	var srv *httptest.Server
	mux.HandleFunc("/v1/images/generations", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		if generateStatus != http.StatusOK {
			w.WriteHeader(generateStatus)
			_, _ = w.Write([]byte(`{"error":{"message":"content policy violation","type":"invalid_request_error"}}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"created": 1, "data": [{"url": "` + srv.URL + `/files/generated.png"}]}`))
	})
	mux.HandleFunc("/files/generated.png", func(w http.ResponseWriter, r *http.Request) {
		if downloadStatus != http.StatusOK {
			w.WriteHeader(downloadStatus)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(image)
	})

	srv = httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &captured
}

func newTestPipeline(srv *httptest.Server, store ObjectStore) *Pipeline {
	images := NewOpenAIImages("sk-test", srv.URL+"/v1", "dall-e-3", "1024x1024", srv.Client(), zap.NewNop())
	p := NewPipeline(images, store, srv.Client(), zap.NewNop())
	p.now = func() time.Time { return time.UnixMilli(1720000000123) }
	p.newID = func() string { return "0b5e7a4c-1111-4222-8333-444455556666" }
	return p
}

func TestPipeline_Create(t *testing.T) {
	srv, captured := newImageServer(t, http.StatusOK, http.StatusOK)
	s3Client := &fakeS3{}
	p := newTestPipeline(srv, NewS3StoreWithClient(s3Client, "blog-assets", "eu-west-1"))

	img, err := p.Create(context.Background(), "  abstract growth chart  ")
	require.NoError(t, err)
	require.NotNil(t, img)

	assert.Equal(t, "dall-e-3", (*captured)["model"])
	assert.Equal(t, "abstract growth chart", (*captured)["prompt"])
	assert.EqualValues(t, 1, (*captured)["n"])
	assert.Equal(t, "1024x1024", (*captured)["size"])

	assert.Equal(t, srv.URL+"/files/generated.png", img.SourceURL)
	assert.Equal(t, pngBytes, img.Bytes)
	assert.Equal(t, "0b5e7a4c-1111-4222-8333-444455556666.png", img.Filename)
	assert.Equal(t, "tasks/1720000000123/attachments/0b5e7a4c-1111-4222-8333-444455556666.png", img.ObjectKey)
	assert.Equal(t, "https://blog-assets.s3.eu-west-1.amazonaws.com/"+img.ObjectKey, img.PublicURL)

	require.Len(t, s3Client.inputs, 1)
	assert.Equal(t, "blog-assets", *s3Client.inputs[0].Bucket)
	assert.Equal(t, img.ObjectKey, *s3Client.inputs[0].Key)
	assert.Equal(t, "image/png", *s3Client.inputs[0].ContentType)
	assert.Equal(t, pngBytes, s3Client.bodies[0])
}

func TestPipeline_EmptyPromptIsNoop(t *testing.T) {
	p := NewPipeline(nil, nil, nil, zap.NewNop())

	img, err := p.Create(context.Background(), "   ")
	assert.NoError(t, err)
	assert.Nil(t, img)
}

func TestPipeline_NotConfigured(t *testing.T) {
	srv, _ := newImageServer(t, http.StatusOK, http.StatusOK)

	_, err := NewPipeline(nil, &S3Store{}, nil, zap.NewNop()).Create(context.Background(), "prompt")
	assert.ErrorIs(t, err, ErrNotConfigured)

	images := NewOpenAIImages("sk-test", srv.URL+"/v1", "dall-e-3", "1024x1024", srv.Client(), zap.NewNop())
	_, err = NewPipeline(images, nil, nil, zap.NewNop()).Create(context.Background(), "prompt")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestPipeline_Failures(t *testing.T) {
	tests := []struct {
		name           string
		generateStatus int
		downloadStatus int
		image          []byte
		s3Err          error
	}{
		{name: "generation rejected", generateStatus: http.StatusBadRequest, downloadStatus: http.StatusOK},
		{name: "generation server error", generateStatus: http.StatusInternalServerError, downloadStatus: http.StatusOK},
		{name: "download expired", generateStatus: http.StatusOK, downloadStatus: http.StatusForbidden},
		{name: "upload failed", generateStatus: http.StatusOK, downloadStatus: http.StatusOK, s3Err: errors.New("access denied")},
		{name: "image too large", generateStatus: http.StatusOK, downloadStatus: http.StatusOK, image: make([]byte, maxImageBytes+1000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			image := tt.image
			if image == nil {
				image = pngBytes
			}
			srv, _ := newImageServerWithBody(t, tt.generateStatus, tt.downloadStatus, image)
			s3Client := &fakeS3{err: tt.s3Err}
			p := newTestPipeline(srv, NewS3StoreWithClient(s3Client, "b", "us-east-1"))

			img, err := p.Create(context.Background(), "prompt")
			assert.Error(t, err)
			assert.Nil(t, img)
			assert.Empty(t, s3Client.bodies, "nothing is uploaded")
		})
	}
}

func TestDownload_SizeLimit(t *testing.T) {
	serve := func(size int) *httptest.Server {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write(make([]byte, size))
		}))
		t.Cleanup(srv.Close)
		return srv
	}

	atLimit := serve(maxImageBytes)
	data, err := Download(context.Background(), atLimit.Client(), atLimit.URL)
	require.NoError(t, err)
	assert.Len(t, data, maxImageBytes)

	overLimit := serve(maxImageBytes + 1)
	data, err = Download(context.Background(), overLimit.Client(), overLimit.URL)
	assert.ErrorContains(t, err, "exceeds")
	assert.Nil(t, data)
}

func TestNewS3Store_RequiresCredentials(t *testing.T) {
	_, err := NewS3Store(context.Background(), "bucket", "us-east-1", "", "")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestObjectKey(t *testing.T) {
	key := ObjectKey(time.UnixMilli(42), "abc.png")
	assert.Equal(t, "tasks/42/attachments/abc.png", key)
	assert.Regexp(t, regexp.MustCompile(`^tasks/\d+/attachments/[^/]+\.png$`), key)
}

func TestPublicURL(t *testing.T) {
	assert.Equal(t, "https://b.s3.us-east-1.amazonaws.com/tasks/1/attachments/x.png", PublicURL("b", "us-east-1", "tasks/1/attachments/x.png"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abc...", truncate("abcdef", 3))
}
