package driving

import (
	"context"

	"github.com/custodia-labs/docley/internal/core/domain"
)

// IngestionResult summarises one ingestion run.
type IngestionResult struct {
	// DocumentID is the ingested document.
	DocumentID string

	// Status is the status the run left the document in.
	// Empty if the run aborted before reading the document.
	Status domain.DocumentStatus

	// Chunks is the number of chunk rows written.
	Chunks int

	// Embedded is the number of chunks stored with an embedding.
	Embedded int
}

// IngestionService runs the ingestion pipeline for a document.
type IngestionService interface {
	// ProcessDocument extracts, chunks, embeds and stores a document,
	// recording the outcome in the document's status. It never returns
	// an error: failures are logged and reflected in the status.
	ProcessDocument(ctx context.Context, documentID string) IngestionResult
}

// IngestionDispatcher runs ingestion detached from the caller.
type IngestionDispatcher interface {
	// Submit queues a document for ingestion and returns immediately.
	// Returns domain.ErrQueueFull or domain.ErrDispatcherClosed when the
	// work cannot be accepted.
	Submit(documentID string) error

	// Pending returns the IDs of documents queued or being ingested.
	Pending() []string
}
