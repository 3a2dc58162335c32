package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mhsabu/Neugrove/internal/core/domain"
	"github.com/mhsabu/Neugrove/internal/core/ports/driven"
)

// Metadata keys set on every stored chunk. Option metadata cannot override them.
const (
	metaSource   = "source"
	metaPosition = "position"
	metaIngestID = "ingest_id"
	metaKeywords = "keywords"
)

// chunkNamespace seeds deterministic chunk ids.
var chunkNamespace = uuid.MustParse("6f9c3b1e-3a57-4c1b-9d7e-2f0c8a4b5e61")

// chunkID is stable for a source and position, so re-ingesting replaces chunks.
func chunkID(scope, source string, position int) string {
	return uuid.NewSHA1(chunkNamespace, fmt.Appendf(nil, "%s\x00%s\x00%d", scope, source, position)).String()
}

// embedParts embeds every part and checks the result count.
func embedParts(ctx context.Context, embedder driven.EmbeddingService, parts []string) ([][]float32, error) {
	if embedder == nil {
		return nil, fmt.Errorf("%w: no embedding model configured", domain.ErrEmbeddingUnavailable)
	}
	embeddings, err := embedder.EmbedBatch(ctx, parts)
	if err != nil {
		return nil, wrapInternal("embedding chunks", err)
	}
	if len(embeddings) != len(parts) {
		return nil, fmt.Errorf("%w: got %d embeddings for %d chunks",
			domain.ErrEmbeddingUnavailable, len(embeddings), len(parts))
	}
	return embeddings, nil
}

// buildChunks tags parts with source and copies base metadata into each.
func buildChunks(scope, source string, parts []string, embeddings [][]float32, base map[string]any) []domain.Chunk {
	chunks := make([]domain.Chunk, len(parts))
	for i, text := range parts {
		meta := make(map[string]any, len(base)+2)
		for k, v := range base {
			meta[k] = v
		}
		meta[metaSource] = source
		meta[metaPosition] = i
		chunks[i] = domain.Chunk{
			ID:        chunkID(scope, source, i),
			Source:    source,
			Text:      text,
			Position:  i,
			Metadata:  meta,
			Embedding: embeddings[i],
		}
	}
	return chunks
}

// replaceSource swaps every chunk of source for chunks.
func replaceSource(ctx context.Context, coll driven.VectorCollection, source string, chunks []domain.Chunk) error {
	if _, err := coll.DeleteSource(ctx, source); err != nil {
		return wrapInternal("clearing previous chunks", err)
	}
	if err := coll.Add(ctx, chunks); err != nil {
		return wrapInternal("storing chunks", err)
	}
	return nil
}
