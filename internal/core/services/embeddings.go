package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/mhsabu/Neugrove/internal/core/domain"
	"github.com/mhsabu/Neugrove/internal/core/ports/driven"
	"github.com/mhsabu/Neugrove/internal/core/ports/driving"
	"github.com/mhsabu/Neugrove/internal/logger"
	"github.com/mhsabu/Neugrove/internal/metrics"
)

// Ensure EmbeddingsService implements the interface.
var _ driving.EmbeddingsService = (*EmbeddingsService)(nil)

// EmbeddingsService searches and resets project vector collections.
type EmbeddingsService struct {
	resolver driving.ProjectResolver
	embedder driven.EmbeddingService
	metrics  *metrics.Metrics
}

// NewEmbeddingsService creates an embeddings service.
// The embedder may be nil; similarity searches then fail with
// domain.ErrEmbeddingUnavailable while source lookups keep working.
func NewEmbeddingsService(resolver driving.ProjectResolver, embedder driven.EmbeddingService, m *metrics.Metrics) *EmbeddingsService {
	return &EmbeddingsService{resolver: resolver, embedder: embedder, metrics: m}
}

// ragProject resolves uid and rejects projects without embeddings.
func (s *EmbeddingsService) ragProject(ctx context.Context, uid string) (*driving.ProjectContext, error) {
	pc, err := s.resolver.Resolve(ctx, uid)
	if err != nil {
		return nil, err
	}
	if !pc.Project.IsRAG() {
		return nil, domain.ErrNotRAGProject
	}
	return pc, nil
}

// Reset clears the project's vectors.
func (s *EmbeddingsService) Reset(ctx context.Context, uid string) (*driving.ResetResult, error) {
	pc, err := s.ragProject(ctx, uid)
	if err != nil {
		if !errors.Is(err, domain.ErrInvalidState) {
			logger.ErrorStack(err, "reset embeddings for %s", uid)
		}
		return nil, err
	}

	if err := pc.Vectors.Reset(ctx); err != nil {
		logger.ErrorStack(err, "reset embeddings for %s", uid)
		return nil, wrapInternal("resetting embeddings", err)
	}

	logger.Info("Reset embeddings of project %s", uid)
	return &driving.ResetResult{UID: pc.Project.UID, Name: pc.Project.Name}, nil
}

// Find runs a similarity search when text is set, otherwise a source lookup.
func (s *EmbeddingsService) Find(ctx context.Context, uid string, query domain.FindQuery) ([]domain.EmbeddingHit, error) {
	pc, err := s.ragProject(ctx, uid)
	if err != nil {
		return nil, err
	}

	text := strings.TrimSpace(query.Text)
	switch {
	case text != "":
		return s.similar(ctx, pc, text, query)
	case query.Source != "":
		return s.bySource(ctx, pc, query.Source)
	default:
		return []domain.EmbeddingHit{}, nil
	}
}

func (s *EmbeddingsService) similar(
	ctx context.Context, pc *driving.ProjectContext, text string, query domain.FindQuery,
) ([]domain.EmbeddingHit, error) {
	if s.embedder == nil {
		return nil, fmt.Errorf("%w: no embedding model configured", domain.ErrEmbeddingUnavailable)
	}

	start := time.Now()
	defer func() { s.metrics.ObserveSearch(time.Since(start)) }()

	k := query.ResolveK(pc.Project)
	threshold := query.ResolveThreshold(pc.Project)
	logger.Debug("Search project=%s k=%d threshold=%.3f", pc.Project.UID, k, threshold)

	embedding, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, wrapInternal("embedding query", err)
	}

	hits, err := pc.Vectors.Query(ctx, embedding, k)
	if err != nil {
		return nil, wrapInternal("querying vectors", err)
	}

	results := make([]domain.EmbeddingHit, 0, len(hits))
	for _, hit := range hits {
		// Hits below the cutoff are dropped; equal scores are kept.
		if hit.Similarity < threshold {
			continue
		}
		score := hit.Similarity
		results = append(results, domain.EmbeddingHit{
			ID:     hit.Chunk.ID,
			Source: hit.Chunk.Source,
			Score:  &score,
		})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return *results[i].Score > *results[j].Score
	})

	logger.Debug("Search returned %d of %d hits", len(results), len(hits))
	return results, nil
}

func (s *EmbeddingsService) bySource(ctx context.Context, pc *driving.ProjectContext, source string) ([]domain.EmbeddingHit, error) {
	chunks, err := pc.Vectors.BySource(ctx, source)
	if err != nil {
		return nil, wrapInternal("loading source chunks", err)
	}
	results := make([]domain.EmbeddingHit, 0, len(chunks))
	for i := range chunks {
		results = append(results, domain.EmbeddingHit{
			ID:     chunks[i].ID,
			Source: chunks[i].Source,
			Text:   chunks[i].Text,
		})
	}
	return results, nil
}

// Get returns one chunk of a rag project.
func (s *EmbeddingsService) Get(ctx context.Context, uid, chunkID string) (*domain.Chunk, error) {
	pc, err := s.ragProject(ctx, uid)
	if err != nil {
		return nil, err
	}
	chunk, err := pc.Vectors.Get(ctx, chunkID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: embedding %s not found", domain.ErrNotFound, chunkID)
		}
		return nil, wrapInternal("loading embedding", err)
	}
	return chunk, nil
}
