package driven

import (
	"context"

	"github.com/custodia-labs/docley/internal/core/domain"
)

// DocumentStore persists the document fields the pipeline reads and writes.
// Documents are owned by the wider application; the pipeline never deletes them.
type DocumentStore interface {
	// SaveDocument creates or replaces a document.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// GetDocument retrieves a document by ID.
	// Returns domain.ErrNotFound if it does not exist.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// UpdateStatus sets the ingestion status of a document.
	UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus) error

	// MarkReady sets status ready and stores the plain-text preview in one write.
	MarkReady(ctx context.Context, id string, preview string) error

	// ListByFilePath returns documents whose FileSource path equals path.
	ListByFilePath(ctx context.Context, path string) ([]domain.Document, error)
}

// ChunkStore persists chunks and answers similarity queries.
// Individual writes are atomic; there is no multi-row transaction.
type ChunkStore interface {
	// DeleteChunks removes every chunk of a document.
	DeleteChunks(ctx context.Context, documentID string) error

	// InsertChunk stores one chunk. Chunk.ID is assigned if empty.
	InsertChunk(ctx context.Context, chunk *domain.Chunk) error

	// ListChunks returns a document's chunks ordered by index.
	ListChunks(ctx context.Context, documentID string) ([]domain.Chunk, error)

	// MatchChunks returns up to q.Limit chunks of q.DocumentID whose similarity
	// to q.Embedding is strictly greater than q.Threshold, most similar first.
	// Chunks without embeddings never match.
	MatchChunks(ctx context.Context, q domain.MatchQuery) ([]domain.ScoredChunk, error)
}

// FileStorage downloads uploaded files by their opaque storage path.
type FileStorage interface {
	// Download returns the file contents.
	// Returns domain.ErrNotFound if no file exists at path.
	Download(ctx context.Context, path string) ([]byte, error)
}
