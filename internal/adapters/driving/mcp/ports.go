package mcp

import (
	"github.com/custodia-labs/docley/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Retrieval finds relevant chunks.
	Retrieval driving.RetrievalService

	// Dispatcher queues background ingestion runs.
	Dispatcher driving.IngestionDispatcher

	// Ingestion runs ingestion inline when a caller asks to wait.
	Ingestion driving.IngestionService

	// Transform rewrites text.
	Transform driving.TransformService

	// Documents reads documents and their chunks.
	Documents driving.DocumentService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Retrieval == nil {
		return ErrMissingRetrievalService
	}
	// The remaining services are optional; their tools report
	// ErrServiceUnavailable when called without them.
	return nil
}
