// Package ratelimit provides an EmbeddingService decorator that throttles
// requests with a token bucket and backs off after quota errors.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/docley/internal/core/domain"
	"github.com/custodia-labs/docley/internal/core/ports/driven"
	"github.com/custodia-labs/docley/internal/logger"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Config holds rate limiting configuration.
type Config struct {
	// RequestsPerSecond is the sustained rate limit.
	RequestsPerSecond float64
	// BurstSize is the maximum burst size.
	BurstSize int
	// Backoff is how long to reject requests after a quota error.
	Backoff time.Duration
}

// DefaultConfig is conservative for the Gemini free tier.
var DefaultConfig = Config{RequestsPerSecond: 10, BurstSize: 20, Backoff: 60 * time.Second}

// EmbeddingService rate limits calls to an inner EmbeddingService.
//
// After the inner service reports domain.ErrRateLimited, calls fail fast
// with domain.ErrRateLimited until the backoff window has passed, so
// ingestion degrades to unembedded chunks instead of stalling.
type EmbeddingService struct {
	inner   driven.EmbeddingService
	limiter *rate.Limiter
	backoff time.Duration
	clock   driven.Clock

	mu      sync.Mutex
	retryAt time.Time
}

// New wraps inner with the given limits. A nil clock uses the system clock.
func New(inner driven.EmbeddingService, cfg Config, clock driven.Clock) *EmbeddingService {
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = DefaultConfig.RequestsPerSecond
	}
	if cfg.BurstSize <= 0 {
		cfg.BurstSize = DefaultConfig.BurstSize
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = DefaultConfig.Backoff
	}
	if clock == nil {
		clock = driven.SystemClock{}
	}

	return &EmbeddingService{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.BurstSize),
		backoff: cfg.Backoff,
		clock:   clock,
	}
}

// Embed waits for a token and calls the inner service.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	if retryAt, backingOff := s.backingOff(); backingOff {
		return nil, fmt.Errorf("embedding quota backoff until %s: %w",
			retryAt.Format(time.RFC3339), domain.ErrRateLimited)
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("waiting for rate limiter: %w", err)
	}

	vec, err := s.inner.Embed(ctx, text)
	if errors.Is(err, domain.ErrRateLimited) {
		s.recordRateLimitError()
	}
	return vec, err
}

// backingOff reports whether a backoff window is active.
func (s *EmbeddingService) backingOff() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.retryAt, s.clock.Now().Before(s.retryAt)
}

// recordRateLimitError starts a backoff window.
func (s *EmbeddingService) recordRateLimitError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.retryAt = s.clock.Now().Add(s.backoff)
	logger.Warn("embedding quota exhausted, backing off for %s", s.backoff)
}

// Dimensions returns the inner service's vector size.
func (s *EmbeddingService) Dimensions() int { return s.inner.Dimensions() }

// ModelName returns the inner service's model name.
func (s *EmbeddingService) ModelName() string { return s.inner.ModelName() }

// Ping bypasses the limiter.
func (s *EmbeddingService) Ping(ctx context.Context) error { return s.inner.Ping(ctx) }

// Close closes the inner service.
func (s *EmbeddingService) Close() error { return s.inner.Close() }
