package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedSource indicates a document source the pipeline cannot read.
	ErrUnsupportedSource = errors.New("unsupported document source")

	// ErrLLMUnavailable indicates the generation service is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	// Retrieval degrades to returning no context without embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrRateLimited indicates the upstream API quota was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// ErrQueueFull indicates the ingestion queue cannot accept more work.
	ErrQueueFull = errors.New("ingestion queue full")

	// ErrDispatcherClosed indicates the ingestion dispatcher has shut down.
	ErrDispatcherClosed = errors.New("ingestion dispatcher closed")
)
