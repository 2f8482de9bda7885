package driving

import (
	"context"

	"github.com/custodia-labs/docley/internal/core/domain"
)

// CreateDocumentRequest describes a new document.
// Exactly one of HTML, Content or FilePath must be set.
type CreateDocumentRequest struct {
	Title    string
	HTML     string
	Content  string
	FilePath string
}

// DocumentService manages documents for the API and CLI.
type DocumentService interface {
	// Create stores a new draft document and returns it.
	Create(ctx context.Context, req CreateDocumentRequest) (*domain.Document, error)

	// Get retrieves a document by ID.
	Get(ctx context.Context, documentID string) (*domain.Document, error)

	// Chunks returns the stored chunks of a document ordered by index.
	Chunks(ctx context.Context, documentID string) ([]domain.Chunk, error)
}
