// Package supabase downloads uploaded files from Supabase Storage.
package supabase

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	storage_go "github.com/supabase-community/storage-go"

	"github.com/custodia-labs/docley/internal/core/domain"
	"github.com/custodia-labs/docley/internal/core/ports/driven"
)

// Ensure Storage implements the interface.
var _ driven.FileStorage = (*Storage)(nil)

// DefaultTimeout bounds a single download.
const DefaultTimeout = 60 * time.Second

// maxDownloadBytes caps a download; larger uploads are rejected by the app.
const maxDownloadBytes = 64 << 20

// Config holds the Supabase project settings.
type Config struct {
	// URL is the project URL, e.g. https://abc.supabase.co.
	URL string

	// ServiceKey is the service-role key.
	ServiceKey string

	// Bucket holds the uploads.
	Bucket string

	// Timeout bounds a single download. Zero means DefaultTimeout.
	Timeout time.Duration
}

// Storage fetches objects through the Storage API client.
type Storage struct {
	client  *storage_go.Client
	bucket  string
	timeout time.Duration
}

// New creates a Supabase storage client.
func New(cfg Config) (*Storage, error) {
	if cfg.URL == "" || cfg.ServiceKey == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("supabase url, service key and bucket are required: %w", domain.ErrInvalidInput)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	endpoint := strings.TrimRight(cfg.URL, "/") + "/storage/v1"
	client := storage_go.NewClient(endpoint, cfg.ServiceKey, map[string]string{"apikey": cfg.ServiceKey})

	return &Storage{
		client:  client,
		bucket:  cfg.Bucket,
		timeout: cfg.Timeout,
	}, nil
}

type downloadResult struct {
	data []byte
	err  error
}

// Download fetches the object stored under path.
//
// The storage client takes no context, so the request runs on its own
// goroutine and Download returns as soon as ctx is done or the timeout
// passes.
func (s *Storage) Download(ctx context.Context, path string) ([]byte, error) {
	path = strings.TrimPrefix(path, "/")
	if path == "" {
		return nil, fmt.Errorf("empty file path: %w", domain.ErrInvalidInput)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	done := make(chan downloadResult, 1)
	go func() {
		data, err := s.client.DownloadFile(s.bucket, escapePath(path))
		done <- downloadResult{data: data, err: err}
	}()

	var res downloadResult
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("download %s: %w", path, ctx.Err())
	case res = <-done:
	}

	if res.err != nil {
		if isNotFound(res.err) {
			return nil, fmt.Errorf("file %s: %w", path, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("download %s: %w", path, res.err)
	}
	if len(res.data) > maxDownloadBytes {
		return nil, fmt.Errorf("file %s exceeds %d bytes: %w", path, maxDownloadBytes, domain.ErrInvalidInput)
	}
	return res.data, nil
}

// escapePath escapes each segment; the client appends the path verbatim.
func escapePath(path string) string {
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return strings.Join(segments, "/")
}

// isNotFound reports whether err describes a missing object. Storage answers
// with 400 or 404 depending on version, always with a not-found message.
func isNotFound(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "not found") || strings.Contains(msg, "not_found")
}
