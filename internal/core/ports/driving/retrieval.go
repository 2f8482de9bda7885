package driving

import "context"

// RetrievalService finds stored chunks relevant to a query.
type RetrievalService interface {
	// GetRelevantChunks returns the content of up to limit chunks of a document
	// ranked by similarity to query. It never fails: a missing embedding
	// backend or a store error yields an empty result.
	GetRelevantChunks(ctx context.Context, documentID, query string, limit int) []string
}
