// Package cached provides an EmbeddingService decorator that memoises
// vectors in a bounded LRU cache with a time-to-live.
package cached

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/custodia-labs/docley/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Default cache sizing.
const (
	DefaultSize = 1024
	DefaultTTL  = 15 * time.Minute
)

type entry struct {
	vector  []float32
	expires time.Time
}

// EmbeddingService caches the results of an inner EmbeddingService.
// Only successful embeddings are cached. Expired entries are refreshed
// on the next lookup.
type EmbeddingService struct {
	inner driven.EmbeddingService
	cache *lru.Cache[string, entry]
	ttl   time.Duration
	clock driven.Clock
}

// New wraps inner with a cache of size entries, each valid for ttl.
// A nil clock uses the system clock.
func New(inner driven.EmbeddingService, size int, ttl time.Duration, clock driven.Clock) (*EmbeddingService, error) {
	if size <= 0 {
		size = DefaultSize
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if clock == nil {
		clock = driven.SystemClock{}
	}

	cache, err := lru.New[string, entry](size)
	if err != nil {
		return nil, fmt.Errorf("creating embedding cache: %w", err)
	}

	return &EmbeddingService{
		inner: inner,
		cache: cache,
		ttl:   ttl,
		clock: clock,
	}, nil
}

// Embed returns the cached vector for text or computes and caches it.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	key := cacheKey(s.inner.ModelName(), text)
	now := s.clock.Now()

	if e, ok := s.cache.Get(key); ok {
		if now.Before(e.expires) {
			return copyVector(e.vector), nil
		}
		s.cache.Remove(key)
	}

	vec, err := s.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	s.cache.Add(key, entry{vector: copyVector(vec), expires: now.Add(s.ttl)})
	return vec, nil
}

// Len returns the number of cached entries, including expired ones.
func (s *EmbeddingService) Len() int {
	return s.cache.Len()
}

// Dimensions returns the inner service's vector size.
func (s *EmbeddingService) Dimensions() int { return s.inner.Dimensions() }

// ModelName returns the inner service's model name.
func (s *EmbeddingService) ModelName() string { return s.inner.ModelName() }

// Ping bypasses the cache.
func (s *EmbeddingService) Ping(ctx context.Context) error { return s.inner.Ping(ctx) }

// Close purges the cache and closes the inner service.
func (s *EmbeddingService) Close() error {
	s.cache.Purge()
	return s.inner.Close()
}

func cacheKey(model, text string) string {
	sum := sha256.Sum256([]byte(model + "\x00" + text))
	return hex.EncodeToString(sum[:])
}

func copyVector(v []float32) []float32 {
	if v == nil {
		return nil
	}
	return append([]float32(nil), v...)
}
