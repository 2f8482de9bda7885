package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docley/internal/core/domain"
	"github.com/custodia-labs/docley/internal/core/ports/driving"
)

func TestServer_handleProcess(t *testing.T) {
	ctx := context.Background()

	t.Run("queues on the dispatcher", func(t *testing.T) {
		dispatcher := &mockDispatcher{}
		ingestion := &mockIngestionService{}
		server, err := NewServer(&Ports{Retrieval: &mockRetrievalService{}, Dispatcher: dispatcher, Ingestion: ingestion})
		require.NoError(t, err)

		_, output, err := server.handleProcess(ctx, nil, ProcessInput{DocumentID: "doc-1"})

		require.NoError(t, err)
		assert.Equal(t, "queued", output.Status)
		assert.Equal(t, []string{"doc-1"}, dispatcher.submitted)
		assert.Empty(t, ingestion.calls)
	})

	t.Run("wait runs inline", func(t *testing.T) {
		dispatcher := &mockDispatcher{}
		ingestion := &mockIngestionService{result: driving.IngestionResult{Status: domain.StatusReady, Chunks: 3, Embedded: 2}}
		server, err := NewServer(&Ports{Retrieval: &mockRetrievalService{}, Dispatcher: dispatcher, Ingestion: ingestion})
		require.NoError(t, err)

		_, output, err := server.handleProcess(ctx, nil, ProcessInput{DocumentID: "doc-1", Wait: true})

		require.NoError(t, err)
		assert.Equal(t, ProcessOutput{DocumentID: "doc-1", Status: "ready", Chunks: 3, Embedded: 2}, output)
		assert.Empty(t, dispatcher.submitted)
	})

	t.Run("queue full is returned", func(t *testing.T) {
		dispatcher := &mockDispatcher{err: domain.ErrQueueFull}
		server, err := NewServer(&Ports{Retrieval: &mockRetrievalService{}, Dispatcher: dispatcher})
		require.NoError(t, err)

		_, _, err = server.handleProcess(ctx, nil, ProcessInput{DocumentID: "doc-1"})

		assert.ErrorIs(t, err, domain.ErrQueueFull)
	})

	t.Run("missing id", func(t *testing.T) {
		server, err := NewServer(&Ports{Retrieval: &mockRetrievalService{}, Dispatcher: &mockDispatcher{}})
		require.NoError(t, err)

		_, _, err = server.handleProcess(ctx, nil, ProcessInput{DocumentID: "  "})

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("no ingestion configured", func(t *testing.T) {
		server, err := NewServer(&Ports{Retrieval: &mockRetrievalService{}})
		require.NoError(t, err)

		_, _, err = server.handleProcess(ctx, nil, ProcessInput{DocumentID: "doc-1"})

		assert.ErrorIs(t, err, ErrServiceUnavailable)
	})
}

func TestServer_handleRelevant(t *testing.T) {
	ctx := context.Background()

	t.Run("returns chunks", func(t *testing.T) {
		retrieval := &mockRetrievalService{chunks: []string{"a", "b"}}
		server, err := NewServer(&Ports{Retrieval: retrieval})
		require.NoError(t, err)

		_, output, err := server.handleRelevant(ctx, nil, RelevantInput{DocumentID: "doc-1", Query: "inflation", Limit: 2})

		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, output.Chunks)
		assert.Equal(t, 2, output.Count)
		assert.Equal(t, 2, retrieval.lastLimit)
	})

	t.Run("empty result is not nil", func(t *testing.T) {
		server, err := NewServer(&Ports{Retrieval: &mockRetrievalService{}})
		require.NoError(t, err)

		_, output, err := server.handleRelevant(ctx, nil, RelevantInput{DocumentID: "doc-1", Query: "x"})

		require.NoError(t, err)
		assert.NotNil(t, output.Chunks)
		assert.Equal(t, 0, output.Count)
	})

	t.Run("requires query", func(t *testing.T) {
		server, err := NewServer(&Ports{Retrieval: &mockRetrievalService{}})
		require.NoError(t, err)

		_, _, err = server.handleRelevant(ctx, nil, RelevantInput{DocumentID: "doc-1"})

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestServer_handleTransform(t *testing.T) {
	ctx := context.Background()

	t.Run("returns rewrite", func(t *testing.T) {
		transform := &mockTransformService{result: &driving.TransformResult{Text: "Rewritten."}}
		server, err := NewServer(&Ports{Retrieval: &mockRetrievalService{}, Transform: transform})
		require.NoError(t, err)

		_, output, err := server.handleTransform(ctx, nil, TransformInput{Text: "x"})

		require.NoError(t, err)
		assert.Equal(t, "Rewritten.", output.Text)
		assert.Equal(t, []string{}, output.Context)
	})

	t.Run("returns error on failure", func(t *testing.T) {
		transform := &mockTransformService{err: errors.New("generation failed")}
		server, err := NewServer(&Ports{Retrieval: &mockRetrievalService{}, Transform: transform})
		require.NoError(t, err)

		_, _, err = server.handleTransform(ctx, nil, TransformInput{Text: "x"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "generation failed")
	})

	t.Run("not configured", func(t *testing.T) {
		server, err := NewServer(&Ports{Retrieval: &mockRetrievalService{}})
		require.NoError(t, err)

		_, _, err = server.handleTransform(ctx, nil, TransformInput{Text: "x"})

		assert.ErrorIs(t, err, ErrServiceUnavailable)
	})
}
