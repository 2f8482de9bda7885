package services

import (
	"context"

	"github.com/custodia-labs/docley/internal/core/ports/driven"
	"github.com/custodia-labs/docley/internal/logger"
)

// embedOrNil embeds text, returning nil when no embedding service is
// configured or the call fails. Failures are logged, never returned.
func embedOrNil(ctx context.Context, svc driven.EmbeddingService, text string) []float32 {
	if svc == nil {
		return nil
	}

	vec, err := svc.Embed(ctx, text)
	if err != nil {
		logger.Warn("embedding failed (%s): %v", svc.ModelName(), err)
		return nil
	}
	if len(vec) == 0 {
		return nil
	}
	return vec
}
