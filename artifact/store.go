package artifact

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ObjectStore durably stores named blobs and resolves their public URLs.
type ObjectStore interface {
	Put(ctx context.Context, name string, data []byte) error
	URL(name string) string
}

// DefaultStorageHost is the default durable storage host.
const DefaultStorageHost = "s3.amazonaws.com"

// S3Store stores objects in an S3-compatible bucket over plain HTTP.
// The bucket must allow unauthenticated PUTs or sit behind a signing proxy.
type S3Store struct {
	Bucket string
	Host   string
	// Endpoint switches to path-style addressing (endpoint/bucket/name),
	// the form S3-compatible services use. Empty selects virtual-host
	// addressing against Host.
	Endpoint string
	client   *http.Client
}

// NewS3Store creates a store for the given bucket. An empty host selects
// the default storage host.
func NewS3Store(bucket, host string) *S3Store {
	if host == "" {
		host = DefaultStorageHost
	}
	return &S3Store{
		Bucket: bucket,
		Host:   host,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// NewS3StoreWithClient creates a store using the supplied HTTP client.
func NewS3StoreWithClient(bucket, host string, client *http.Client) *S3Store {
	store := NewS3Store(bucket, host)
	store.client = client
	return store
}

// Put uploads the object to the bucket under the given name.
func (s *S3Store) Put(ctx context.Context, name string, data []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, s.URL(name), bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "image/png")
	req.ContentLength = int64(len(data))

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("upload http %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// URL resolves the stable public URL of an object by template substitution.
func (s *S3Store) URL(name string) string {
	if s.Endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", s.Endpoint, s.Bucket, name)
	}
	return fmt.Sprintf("https://%s.%s/%s", s.Bucket, s.Host, name)
}
