// Package similarity ranks chunks against a query vector for stores
// without native vector search.
package similarity

import (
	"math"
	"sort"

	"github.com/custodia-labs/docley/internal/core/domain"
)

// Cosine returns the cosine similarity of a and b.
// Returns 0 for vectors of different length or zero magnitude.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Rank scores chunks against q.Embedding and returns those whose similarity
// is strictly greater than q.Threshold, most similar first, at most q.Limit.
// Chunks without embeddings and chunks of other documents are skipped.
// Ties keep chunk index order.
func Rank(chunks []domain.Chunk, q domain.MatchQuery) []domain.ScoredChunk {
	scored := make([]domain.ScoredChunk, 0, len(chunks))
	for _, c := range chunks {
		if c.DocumentID != q.DocumentID || !c.HasEmbedding() {
			continue
		}
		sim := Cosine(q.Embedding, c.Embedding)
		if sim > q.Threshold {
			scored = append(scored, domain.ScoredChunk{Chunk: c, Similarity: sim})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Similarity != scored[j].Similarity {
			return scored[i].Similarity > scored[j].Similarity
		}
		return scored[i].Index < scored[j].Index
	})

	if q.Limit > 0 && len(scored) > q.Limit {
		scored = scored[:q.Limit]
	}
	return scored
}
