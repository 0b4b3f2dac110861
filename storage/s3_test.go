package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBucket serves a minimal path-style S3 API from memory
type fakeBucket struct {
	mu       sync.Mutex
	objects  map[string]string
	requests []string
}

func (b *fakeBucket) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.requests = append(b.requests, r.Method+" "+r.URL.Path)

	switch r.Method {
	case http.MethodPut:
		data, _ := io.ReadAll(r.Body)
		b.objects[r.URL.Path] = string(data)
	case http.MethodGet:
		data, ok := b.objects[r.URL.Path]
		if !ok {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>missing</Message></Error>`)
			return
		}
		_, _ = io.WriteString(w, data)
	case http.MethodDelete:
		delete(b.objects, r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}
}

func newTestS3Storage(t *testing.T) (*S3Storage, *fakeBucket) {
	t.Helper()
	bucket := &fakeBucket{objects: map[string]string{}}
	srv := httptest.NewServer(bucket)
	t.Cleanup(srv.Close)

	client := s3.New(s3.Options{
		Region:       "us-east-1",
		BaseEndpoint: aws.String(srv.URL),
		UsePathStyle: true,
		Credentials:  credentials.NewStaticCredentialsProvider("key", "secret", ""),
	})
	return &S3Storage{client: client, bucket: "exports"}, bucket
}

func TestS3Storage(t *testing.T) {
	ctx := context.Background()
	s, bucket := newTestS3Storage(t)

	location, err := s.Upload(ctx, "../u1/report.pdf", "application/pdf", strings.NewReader("%PDF-1.3"))
	require.NoError(t, err)
	assert.Equal(t, "s3://exports/u1/report.pdf", location)

	rc, err := s.Download(ctx, "../../u1/report.pdf")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "%PDF-1.3", string(data))

	require.NoError(t, s.Delete(ctx, "/u1/./report.pdf"))

	_, err = s.Download(ctx, "u1/report.pdf")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Error(t, s.Delete(ctx, "../"))
	_, err = s.Download(ctx, "")
	assert.Error(t, err)

	for _, req := range bucket.requests {
		assert.True(t, strings.HasSuffix(req, " /exports/u1/report.pdf"), req)
	}
}
