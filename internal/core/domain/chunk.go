package domain

// Chunk is a bounded-size slice of a document's extracted text.
// Chunks have no identity outside their document.
type Chunk struct {
	// ID is the store-assigned identifier for the chunk.
	ID string

	// DocumentID links to the owning Document.
	DocumentID string

	// Index is the zero-based position within the document's chunk sequence.
	Index int

	// Content is the plain-text segment.
	Content string

	// Embedding is the vector representation, or nil when no embedding
	// backend was available at ingestion time.
	Embedding []float32
}

// HasEmbedding returns true if the chunk carries a vector.
func (c Chunk) HasEmbedding() bool {
	return len(c.Embedding) > 0
}

// ScoredChunk is a chunk returned from a similarity search.
type ScoredChunk struct {
	Chunk

	// Similarity is the cosine similarity to the query (higher is closer).
	Similarity float64
}

// DefaultMatchThreshold is the minimum similarity a chunk must exceed
// to be considered relevant to a query.
const DefaultMatchThreshold = 0.3

// DefaultMatchLimit is the number of chunks retrieved when the caller
// does not specify a limit.
const DefaultMatchLimit = 5

// MatchQuery describes a similarity search scoped to one document.
type MatchQuery struct {
	// DocumentID restricts the search to a single document.
	DocumentID string

	// Embedding is the query vector.
	Embedding []float32

	// Threshold is the exclusive lower bound on similarity.
	Threshold float64

	// Limit is the maximum number of results.
	Limit int
}
