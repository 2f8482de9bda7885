package mcp

import (
	"context"

	"github.com/custodia-labs/docley/internal/core/domain"
	"github.com/custodia-labs/docley/internal/core/ports/driving"
)

// mockRetrievalService is a mock implementation of driving.RetrievalService.
type mockRetrievalService struct {
	chunks    []string
	lastLimit int
}

func (m *mockRetrievalService) GetRelevantChunks(_ context.Context, _, _ string, limit int) []string {
	m.lastLimit = limit
	return m.chunks
}

// mockDispatcher is a mock implementation of driving.IngestionDispatcher.
type mockDispatcher struct {
	submitted []string
	err       error
}

func (m *mockDispatcher) Submit(id string) error {
	if m.err != nil {
		return m.err
	}
	m.submitted = append(m.submitted, id)
	return nil
}

func (m *mockDispatcher) Pending() []string {
	return m.submitted
}

// mockIngestionService is a mock implementation of driving.IngestionService.
type mockIngestionService struct {
	result driving.IngestionResult
	calls  []string
}

func (m *mockIngestionService) ProcessDocument(_ context.Context, id string) driving.IngestionResult {
	m.calls = append(m.calls, id)
	res := m.result
	res.DocumentID = id
	return res
}

// mockTransformService is a mock implementation of driving.TransformService.
type mockTransformService struct {
	result *driving.TransformResult
	err    error
}

func (m *mockTransformService) Transform(_ context.Context, _ driving.TransformRequest) (*driving.TransformResult, error) {
	return m.result, m.err
}

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	document *domain.Document
	chunks   []domain.Chunk
	err      error
}

func (m *mockDocumentService) Create(_ context.Context, _ driving.CreateDocumentRequest) (*domain.Document, error) {
	return m.document, m.err
}

func (m *mockDocumentService) Get(_ context.Context, _ string) (*domain.Document, error) {
	return m.document, m.err
}

func (m *mockDocumentService) Chunks(_ context.Context, _ string) ([]domain.Chunk, error) {
	return m.chunks, m.err
}
