package driving

import (
	"context"

	"github.com/mhsabu/Neugrove/internal/core/domain"
)

// ResetResult identifies the project whose vectors were cleared.
type ResetResult struct {
	UID  string `json:"uid"`
	Name string `json:"name"`
}

// EmbeddingsService reads and resets a project's vector index.
// Every operation rejects non-rag projects with domain.ErrNotRAGProject.
type EmbeddingsService interface {
	// Reset clears all vectors of the project.
	Reset(ctx context.Context, uid string) (*ResetResult, error)

	// Find runs a similarity search for query.Text, a source lookup for
	// query.Source, or returns an empty result when neither is set.
	Find(ctx context.Context, uid string, query domain.FindQuery) ([]domain.EmbeddingHit, error)

	// Get returns one chunk by id.
	Get(ctx context.Context, uid, chunkID string) (*domain.Chunk, error)
}
