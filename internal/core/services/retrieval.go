package services

import (
	"context"
	"sort"

	"github.com/custodia-labs/docley/internal/core/domain"
	"github.com/custodia-labs/docley/internal/core/ports/driven"
	"github.com/custodia-labs/docley/internal/core/ports/driving"
	"github.com/custodia-labs/docley/internal/logger"
)

// Ensure RetrievalService implements the interface.
var _ driving.RetrievalService = (*RetrievalService)(nil)

// RetrievalService finds the chunks of a document most similar to a query.
type RetrievalService struct {
	chunks       driven.ChunkStore
	embedder     driven.EmbeddingService // Optional: nil disables retrieval
	threshold    float64
	defaultLimit int
}

// RetrievalOption configures the retrieval service.
type RetrievalOption func(*RetrievalService)

// WithThreshold sets the exclusive minimum similarity.
func WithThreshold(t float64) RetrievalOption {
	return func(s *RetrievalService) {
		s.threshold = t
	}
}

// WithDefaultLimit sets the limit used when callers pass zero.
func WithDefaultLimit(n int) RetrievalOption {
	return func(s *RetrievalService) {
		if n > 0 {
			s.defaultLimit = n
		}
	}
}

// NewRetrievalService creates a new retrieval service.
func NewRetrievalService(
	chunks driven.ChunkStore,
	embedder driven.EmbeddingService,
	opts ...RetrievalOption,
) *RetrievalService {
	s := &RetrievalService{
		chunks:       chunks,
		embedder:     embedder,
		threshold:    domain.DefaultMatchThreshold,
		defaultLimit: domain.DefaultMatchLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetRelevantChunks returns the content of up to limit chunks of a document,
// most similar first. A limit of zero or less uses the default limit.
// Missing embeddings and store errors yield an empty, non-nil slice.
func (s *RetrievalService) GetRelevantChunks(ctx context.Context, documentID, query string, limit int) []string {
	if limit <= 0 {
		limit = s.defaultLimit
	}

	vec := embedOrNil(ctx, s.embedder, query)
	if vec == nil {
		logger.Debug("retrieve %s: no query embedding, skipping", documentID)
		return []string{}
	}

	matches, err := s.chunks.MatchChunks(ctx, domain.MatchQuery{
		DocumentID: documentID,
		Embedding:  vec,
		Threshold:  s.threshold,
		Limit:      limit,
	})
	if err != nil {
		logger.Warn("retrieve %s: matching chunks: %v", documentID, err)
		return []string{}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}

	contents := make([]string, len(matches))
	for i, m := range matches {
		contents[i] = m.Content
	}
	logger.Debug("retrieve %s: %d chunks above %.2f", documentID, len(contents), s.threshold)
	return contents
}
