package driven

import (
	"context"

	"github.com/mhsabu/Neugrove/internal/core/domain"
)

// VectorStore hands out the vector collection of a project.
type VectorStore interface {
	// Collection returns the collection owned by the project.
	// It does not touch the backend until an operation runs.
	Collection(project *domain.Project) VectorCollection

	// Close releases resources.
	Close() error
}

// VectorCollection holds the chunks of one project.
type VectorCollection interface {
	// Reset deletes every chunk.
	Reset(ctx context.Context) error

	// Add inserts or replaces chunks. Every chunk must carry an embedding.
	Add(ctx context.Context, chunks []domain.Chunk) error

	// Query returns up to k chunks nearest to the embedding,
	// ordered by descending similarity.
	Query(ctx context.Context, embedding []float32, k int) ([]VectorHit, error)

	// Get returns one chunk or domain.ErrNotFound.
	Get(ctx context.Context, id string) (*domain.Chunk, error)

	// BySource returns every chunk tagged with source, in position order.
	BySource(ctx context.Context, source string) ([]domain.Chunk, error)

	// DeleteSource removes every chunk tagged with source and reports how many.
	DeleteSource(ctx context.Context, source string) (int, error)
}

// VectorHit represents a similarity search result.
type VectorHit struct {
	Chunk domain.Chunk

	// Similarity is the cosine similarity score.
	Similarity float64
}
