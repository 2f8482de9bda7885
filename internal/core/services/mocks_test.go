package services

import (
	"context"
	"errors"
	"math"
	"sync"

	"github.com/custodia-labs/docley/internal/core/domain"
	"github.com/custodia-labs/docley/internal/core/ports/driven"
	"github.com/custodia-labs/docley/internal/core/ports/driving"
	"github.com/custodia-labs/docley/internal/extractors"
	"github.com/custodia-labs/docley/internal/postprocessors/chunker"
)

// --- Mock implementations ---

// mockEmbedder implements driven.EmbeddingService with canned vectors.
// Texts without a canned vector embed to fallback, or fail when err is set.
type mockEmbedder struct {
	mu       sync.Mutex
	vectors  map[string][]float32
	fallback []float32
	err      error
	calls    int
}

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if v, ok := m.vectors[text]; ok {
		return v, nil
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.fallback, nil
}

func (m *mockEmbedder) Dimensions() int              { return 2 }
func (m *mockEmbedder) ModelName() string            { return "mock-embedding" }
func (m *mockEmbedder) Ping(_ context.Context) error { return nil }
func (m *mockEmbedder) Close() error                 { return nil }

// unitVector returns a 2-d vector whose cosine similarity to (1, 0) is score.
func unitVector(score float64) []float32 {
	return []float32{float32(score), float32(math.Sqrt(1 - score*score))}
}

// mockFiles implements driven.FileStorage over a map.
type mockFiles struct {
	files map[string][]byte
	err   error
}

func (m *mockFiles) Download(_ context.Context, path string) ([]byte, error) {
	if m.err != nil {
		return nil, m.err
	}
	data, ok := m.files[path]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return data, nil
}

// mockLLM implements driven.LLMService and records the last prompt.
type mockLLM struct {
	mu         sync.Mutex
	response   string
	err        error
	lastPrompt string
}

func (m *mockLLM) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastPrompt = prompt
	return m.response, m.err
}

func (m *mockLLM) ModelName() string { return "mock-llm" }
func (m *mockLLM) Close() error      { return nil }

// mockPrompts implements driven.PromptStore over a map.
type mockPrompts struct {
	prompts map[string]string
}

func (m *mockPrompts) Load(name string) (string, error) {
	p, ok := m.prompts[name]
	if !ok {
		return "", errors.New("prompt not found: " + name)
	}
	return p, nil
}

func (m *mockPrompts) Reload() {}

// panicChunker implements driven.Chunker and panics on Split.
type panicChunker struct{}

func (panicChunker) Split(string) []string { panic("chunker exploded") }
func (panicChunker) MaxChars() int         { return 1 }

// failingChunkStore wraps a ChunkStore and fails inserts after n successes.
type failingChunkStore struct {
	driven.ChunkStore
	allowInserts int
	matchErr     error
}

func (f *failingChunkStore) InsertChunk(ctx context.Context, c *domain.Chunk) error {
	if f.allowInserts <= 0 {
		return errors.New("disk full")
	}
	f.allowInserts--
	return f.ChunkStore.InsertChunk(ctx, c)
}

func (f *failingChunkStore) MatchChunks(ctx context.Context, q domain.MatchQuery) ([]domain.ScoredChunk, error) {
	if f.matchErr != nil {
		return nil, f.matchErr
	}
	return f.ChunkStore.MatchChunks(ctx, q)
}

// staticMatchStore returns canned matches regardless of the query.
type staticMatchStore struct {
	driven.ChunkStore
	matches []domain.ScoredChunk
}

func (s *staticMatchStore) MatchChunks(_ context.Context, _ domain.MatchQuery) ([]domain.ScoredChunk, error) {
	return append([]domain.ScoredChunk(nil), s.matches...), nil
}

// mockIngestion implements driving.IngestionService with a hook per call.
type mockIngestion struct {
	fn func(ctx context.Context, id string) driving.IngestionResult
}

func (m *mockIngestion) ProcessDocument(ctx context.Context, id string) driving.IngestionResult {
	return m.fn(ctx, id)
}

// mockRetrieval implements driving.RetrievalService.
type mockRetrieval struct {
	chunks    []string
	lastQuery string
	lastLimit int
}

func (m *mockRetrieval) GetRelevantChunks(_ context.Context, _ string, query string, limit int) []string {
	m.lastQuery = query
	m.lastLimit = limit
	return m.chunks
}

// defaultExtractors returns the production extractor registry.
func defaultExtractors() driven.ExtractorRegistry {
	return extractors.DefaultRegistry()
}

// defaultChunker returns the production chunker.
func defaultChunker() driven.Chunker {
	return chunker.New()
}
