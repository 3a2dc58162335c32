// Package vectormath ranks chunks by cosine similarity for stores that keep
// embeddings outside a vector engine.
package vectormath

import (
	"math"
	"sort"

	"github.com/mhsabu/Neugrove/internal/core/domain"
	"github.com/mhsabu/Neugrove/internal/core/ports/driven"
)

// Cosine returns the cosine similarity of a and b.
// Vectors of different length or zero norm have similarity 0.
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// TopK returns the k chunks most similar to embedding, best first.
// Ties keep the input order.
func TopK(chunks []domain.Chunk, embedding []float32, k int) []driven.VectorHit {
	if k <= 0 || len(chunks) == 0 {
		return []driven.VectorHit{}
	}
	hits := make([]driven.VectorHit, 0, len(chunks))
	for i := range chunks {
		hits = append(hits, driven.VectorHit{
			Chunk:      chunks[i],
			Similarity: Cosine(embedding, chunks[i].Embedding),
		})
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Similarity > hits[j].Similarity
	})
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits
}

// SortByPosition orders chunks of one source by position.
func SortByPosition(chunks []domain.Chunk) {
	sort.SliceStable(chunks, func(i, j int) bool {
		return chunks[i].Position < chunks[j].Position
	})
}
