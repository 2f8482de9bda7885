// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/docley/internal/adapters/driven/embedding/cached"
	embedgemini "github.com/custodia-labs/docley/internal/adapters/driven/embedding/gemini"
	"github.com/custodia-labs/docley/internal/adapters/driven/embedding/ratelimit"
	llmgemini "github.com/custodia-labs/docley/internal/adapters/driven/llm/gemini"
	"github.com/custodia-labs/docley/internal/core/domain"
	"github.com/custodia-labs/docley/internal/core/ports/driven"
	"github.com/custodia-labs/docley/internal/logger"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// InitResult contains the result of AI service initialisation.
type InitResult struct {
	EmbeddingService driven.EmbeddingService // Nil when unconfigured or unreachable.
	LLMService       driven.LLMService       // Nil when unconfigured.
	Warnings         []string                // Non-fatal issues that caused fallback.
}

// Close releases all resources held by InitResult.
func (r *InitResult) Close() {
	if r.EmbeddingService != nil {
		r.EmbeddingService.Close()
	}
	if r.LLMService != nil {
		r.LLMService.Close()
	}
}

// Init creates the embedding and generation services from settings.
// Missing configuration or an unreachable embedding backend is not an
// error: the affected service is nil and a warning is recorded.
func Init(ctx context.Context, settings *domain.GeminiSettings, validate bool) *InitResult {
	result := &InitResult{}
	if settings == nil || !settings.IsConfigured() {
		result.Warnings = append(result.Warnings,
			"GEMINI_API_KEY not set: chunks are stored without embeddings and transforms are disabled")
		return result
	}

	var (
		embedder driven.EmbeddingService
		err      error
	)
	if validate {
		embedder, err = CreateAndValidateEmbeddingService(ctx, settings, nil)
	} else {
		embedder, err = CreateEmbeddingService(ctx, settings, nil)
	}
	if err != nil {
		result.Warnings = append(result.Warnings, err.Error())
	} else {
		result.EmbeddingService = embedder
	}

	llm, err := CreateLLMService(ctx, settings)
	if err != nil {
		result.Warnings = append(result.Warnings, err.Error())
	} else {
		result.LLMService = llm
	}

	for _, w := range result.Warnings {
		logger.Warn("%s", w)
	}
	return result
}

// CreateEmbeddingService creates the Gemini embedding service wrapped in
// the rate limiter and, when CacheSize > 0, the cache.
// Returns nil if Gemini is not configured. A nil clock uses the system clock.
func CreateEmbeddingService(
	ctx context.Context,
	settings *domain.GeminiSettings,
	clock driven.Clock,
) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	base, err := embedgemini.NewEmbeddingService(ctx, embedgemini.Config{
		APIKey: settings.APIKey,
		Model:  settings.EmbeddingModel,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	}

	return Decorate(base, settings, clock)
}

// Decorate wraps an embedding service with rate limiting and caching.
// The cache sits outside the limiter so cache hits cost no tokens.
func Decorate(
	svc driven.EmbeddingService,
	settings *domain.GeminiSettings,
	clock driven.Clock,
) (driven.EmbeddingService, error) {
	var wrapped driven.EmbeddingService = ratelimit.New(svc, ratelimit.Config{
		RequestsPerSecond: settings.RequestsPerSecond,
		BurstSize:         settings.Burst,
	}, clock)

	if settings.CacheSize > 0 {
		c, err := cached.New(wrapped, settings.CacheSize,
			time.Duration(settings.CacheTTLSeconds)*time.Second, clock)
		if err != nil {
			wrapped.Close()
			return nil, err
		}
		wrapped = c
	}
	return wrapped, nil
}

// CreateAndValidateEmbeddingService creates an embedding service and validates connectivity.
func CreateAndValidateEmbeddingService(
	ctx context.Context,
	settings *domain.GeminiSettings,
	clock driven.Clock,
) (driven.EmbeddingService, error) {
	svc, err := CreateEmbeddingService(ctx, settings, clock)
	if err != nil || svc == nil {
		return svc, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := svc.Ping(pingCtx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w)", domain.ErrEmbeddingUnavailable, err)
	}
	return svc, nil
}

// CreateLLMService creates the Gemini generation service.
// Returns nil if Gemini is not configured.
func CreateLLMService(ctx context.Context, settings *domain.GeminiSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	svc, err := llmgemini.NewLLMService(ctx, llmgemini.Config{
		APIKey:      settings.APIKey,
		Model:       settings.GenerationModel,
		Temperature: settings.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrLLMUnavailable, err)
	}
	return svc, nil
}
