package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docley/internal/core/domain"
)

func TestExtractDocumentID(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{
			name:     "valid document URI",
			uri:      "docley://documents/doc-456",
			expected: "doc-456",
		},
		{
			name:     "invalid prefix",
			uri:      "file://documents/doc-456",
			expected: "",
		},
		{
			name:     "empty URI",
			uri:      "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := extractDocumentID(tt.uri)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestExtractChunksDocumentID(t *testing.T) {
	assert.Equal(t, "doc-1", extractChunksDocumentID("docley://documents/doc-1/chunks"))
	assert.Equal(t, "", extractChunksDocumentID("docley://documents/doc-1"))
	assert.Equal(t, "", extractChunksDocumentID("docley://sources/doc-1/chunks"))
}

// Helper to create a ReadResourceRequest with the given URI.
func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestServer_handleDocumentResource(t *testing.T) {
	ctx := context.Background()

	t.Run("nil document service returns not found", func(t *testing.T) {
		server, err := NewServer(&Ports{Retrieval: &mockRetrievalService{}})
		require.NoError(t, err)

		_, err = server.handleDocumentResource(ctx, makeReadResourceRequest("docley://documents/doc-1"))

		require.Error(t, err)
	})

	t.Run("returns status and preview", func(t *testing.T) {
		docs := &mockDocumentService{document: &domain.Document{
			ID:      "doc-1",
			Title:   "Essay",
			Status:  domain.StatusReady,
			Preview: "Paragraph one text.",
		}}
		server, err := NewServer(&Ports{Retrieval: &mockRetrievalService{}, Documents: docs})
		require.NoError(t, err)

		result, err := server.handleDocumentResource(ctx, makeReadResourceRequest("docley://documents/doc-1"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Contains(t, result.Contents[0].Text, `"status": "ready"`)
		assert.Contains(t, result.Contents[0].Text, "Paragraph one text.")
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)
	})

	t.Run("returns error on get failure", func(t *testing.T) {
		docs := &mockDocumentService{err: errors.New("boom")}
		server, err := NewServer(&Ports{Retrieval: &mockRetrievalService{}, Documents: docs})
		require.NoError(t, err)

		_, err = server.handleDocumentResource(ctx, makeReadResourceRequest("docley://documents/doc-1"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "getting document")
	})
}

func TestServer_handleChunksResource(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid URI returns not found", func(t *testing.T) {
		server, err := NewServer(&Ports{Retrieval: &mockRetrievalService{}, Documents: &mockDocumentService{}})
		require.NoError(t, err)

		_, err = server.handleChunksResource(ctx, makeReadResourceRequest("docley://documents/doc-1"))

		require.Error(t, err)
	})

	t.Run("returns chunks without embeddings", func(t *testing.T) {
		docs := &mockDocumentService{chunks: []domain.Chunk{
			{Index: 0, Content: "one", Embedding: []float32{0.5}},
			{Index: 1, Content: "two"},
		}}
		server, err := NewServer(&Ports{Retrieval: &mockRetrievalService{}, Documents: docs})
		require.NoError(t, err)

		result, err := server.handleChunksResource(ctx, makeReadResourceRequest("docley://documents/doc-1/chunks"))

		require.NoError(t, err)
		text := result.Contents[0].Text
		assert.Contains(t, text, `"content": "one"`)
		assert.Contains(t, text, `"has_embedding": true`)
		assert.NotContains(t, text, "0.5")
	})
}
