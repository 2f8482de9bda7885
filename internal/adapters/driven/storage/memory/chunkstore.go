package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/custodia-labs/docley/internal/adapters/driven/storage/similarity"
	"github.com/custodia-labs/docley/internal/core/domain"
	"github.com/custodia-labs/docley/internal/core/ports/driven"
)

// Ensure ChunkStore implements the interface.
var _ driven.ChunkStore = (*ChunkStore)(nil)

// ChunkStore is an in-memory implementation of driven.ChunkStore.
// Similarity search is a brute-force cosine scan over the document's chunks.
type ChunkStore struct {
	mu     sync.RWMutex
	chunks map[string]map[int]domain.Chunk // document ID -> index -> chunk
}

// NewChunkStore creates a new in-memory chunk store.
func NewChunkStore() *ChunkStore {
	return &ChunkStore{
		chunks: make(map[string]map[int]domain.Chunk),
	}
}

// DeleteChunks removes every chunk of a document.
func (s *ChunkStore) DeleteChunks(_ context.Context, documentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.chunks, documentID)
	return nil
}

// InsertChunk stores a chunk, assigning an ID if it has none.
// Inserting a second chunk at an occupied index is an error.
func (s *ChunkStore) InsertChunk(_ context.Context, chunk *domain.Chunk) error {
	if chunk == nil || chunk.DocumentID == "" || chunk.Index < 0 {
		return domain.ErrInvalidInput
	}
	if chunk.ID == "" {
		chunk.ID = uuid.New().String()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	byIndex, ok := s.chunks[chunk.DocumentID]
	if !ok {
		byIndex = make(map[int]domain.Chunk)
		s.chunks[chunk.DocumentID] = byIndex
	}
	if _, exists := byIndex[chunk.Index]; exists {
		return fmt.Errorf("chunk %d of document %s already exists: %w", chunk.Index, chunk.DocumentID, domain.ErrInvalidInput)
	}

	stored := *chunk
	if chunk.Embedding != nil {
		stored.Embedding = append([]float32(nil), chunk.Embedding...)
	}
	byIndex[chunk.Index] = stored
	return nil
}

// ListChunks returns a document's chunks ordered by index.
func (s *ChunkStore) ListChunks(_ context.Context, documentID string) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sorted(documentID), nil
}

// MatchChunks ranks the document's chunks against the query embedding.
func (s *ChunkStore) MatchChunks(_ context.Context, q domain.MatchQuery) ([]domain.ScoredChunk, error) {
	s.mu.RLock()
	chunks := s.sorted(q.DocumentID)
	s.mu.RUnlock()
	return similarity.Rank(chunks, q), nil
}

// Count returns the total number of stored chunks across all documents.
func (s *ChunkStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, byIndex := range s.chunks {
		n += len(byIndex)
	}
	return n
}

// sorted returns a copy of the document's chunks ordered by index.
// Callers must hold at least a read lock.
func (s *ChunkStore) sorted(documentID string) []domain.Chunk {
	byIndex := s.chunks[documentID]
	chunks := make([]domain.Chunk, 0, len(byIndex))
	for _, c := range byIndex {
		chunks = append(chunks, c)
	}
	sort.Slice(chunks, func(i, j int) bool { return chunks[i].Index < chunks[j].Index })
	return chunks
}
