package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"

	"github.com/mhsabu/Neugrove/internal/core/domain"
	"github.com/mhsabu/Neugrove/internal/core/ports/driven"
)

type vectorStore struct {
	db DB
}

var _ driven.VectorStore = (*vectorStore)(nil)

// Collection returns the chunks of one project.
func (s *vectorStore) Collection(project *domain.Project) driven.VectorCollection {
	return &collection{db: s.db, projectUID: project.UID}
}

// Close is a no-op; the owning Store closes the pool.
func (s *vectorStore) Close() error {
	return nil
}

type collection struct {
	db         DB
	projectUID string
}

var _ driven.VectorCollection = (*collection)(nil)

// Reset deletes every chunk of the project.
func (c *collection) Reset(ctx context.Context) error {
	if _, err := c.db.Exec(ctx, `DELETE FROM chunks WHERE project_uid = $1`, c.projectUID); err != nil {
		return fmt.Errorf("%w: resetting chunks: %v", domain.ErrVectorIndexUnavailable, err)
	}
	return nil
}

// Add upserts chunks in one batch transaction.
func (c *collection) Add(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for i := range chunks {
		if len(chunks[i].Embedding) == 0 {
			return fmt.Errorf("%w: chunk %s has no embedding", domain.ErrInvalidInput, chunks[i].ID)
		}
		metadata, err := json.Marshal(nonNil(chunks[i].Metadata))
		if err != nil {
			return fmt.Errorf("%w: marshalling chunk metadata: %v", domain.ErrInvalidInput, err)
		}
		batch.Queue(`
			INSERT INTO chunks (project_uid, id, source, text, position, metadata, embedding)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (project_uid, id) DO UPDATE SET
				source = EXCLUDED.source, text = EXCLUDED.text, position = EXCLUDED.position,
				metadata = EXCLUDED.metadata, embedding = EXCLUDED.embedding`,
			c.projectUID, chunks[i].ID, chunks[i].Source, chunks[i].Text, chunks[i].Position,
			metadata, pgvector.NewVector(chunks[i].Embedding))
	}

	return withTx(ctx, c.db, func(tx pgx.Tx) error {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("inserting chunks: %w", err)
		}
		return nil
	})
}

// Query orders chunks by cosine distance to embedding.
func (c *collection) Query(ctx context.Context, embedding []float32, k int) ([]driven.VectorHit, error) {
	if k <= 0 {
		return []driven.VectorHit{}, nil
	}
	rows, err := c.db.Query(ctx, `
		SELECT id, source, text, position, metadata, 1 - (embedding <=> $2) AS similarity
		FROM chunks WHERE project_uid = $1
		ORDER BY embedding <=> $2
		LIMIT $3`, c.projectUID, pgvector.NewVector(embedding), k)
	if err != nil {
		return nil, fmt.Errorf("%w: querying chunks: %v", domain.ErrVectorIndexUnavailable, err)
	}
	defer rows.Close()

	hits := make([]driven.VectorHit, 0, k)
	for rows.Next() {
		var hit driven.VectorHit
		var metadata []byte
		if err := rows.Scan(&hit.Chunk.ID, &hit.Chunk.Source, &hit.Chunk.Text, &hit.Chunk.Position,
			&metadata, &hit.Similarity); err != nil {
			return nil, fmt.Errorf("scanning hit: %w", err)
		}
		if err := decodeMetadata(metadata, &hit.Chunk); err != nil {
			return nil, err
		}
		hits = append(hits, hit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating hits: %w", err)
	}
	return hits, nil
}

// Get retrieves a chunk by id.
func (c *collection) Get(ctx context.Context, id string) (*domain.Chunk, error) {
	row := c.db.QueryRow(ctx, `
		SELECT id, source, text, position, metadata, embedding
		FROM chunks WHERE project_uid = $1 AND id = $2`, c.projectUID, id)
	chunk, err := scanChunk(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return chunk, err
}

// BySource returns every chunk tagged with source in position order.
func (c *collection) BySource(ctx context.Context, source string) ([]domain.Chunk, error) {
	rows, err := c.db.Query(ctx, `
		SELECT id, source, text, position, metadata, embedding
		FROM chunks WHERE project_uid = $1 AND source = $2
		ORDER BY position`, c.projectUID, source)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	chunks := make([]domain.Chunk, 0)
	for rows.Next() {
		chunk, err := scanChunk(rows)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, *chunk)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}
	return chunks, nil
}

// DeleteSource removes every chunk tagged with source.
func (c *collection) DeleteSource(ctx context.Context, source string) (int, error) {
	tag, err := c.db.Exec(ctx, `DELETE FROM chunks WHERE project_uid = $1 AND source = $2`, c.projectUID, source)
	if err != nil {
		return 0, fmt.Errorf("deleting chunks: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func scanChunk(row pgx.Row) (*domain.Chunk, error) {
	var chunk domain.Chunk
	var metadata []byte
	var embedding pgvector.Vector
	if err := row.Scan(&chunk.ID, &chunk.Source, &chunk.Text, &chunk.Position, &metadata, &embedding); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning chunk: %w", err)
	}
	if err := decodeMetadata(metadata, &chunk); err != nil {
		return nil, err
	}
	chunk.Embedding = embedding.Slice()
	return &chunk, nil
}

func decodeMetadata(raw []byte, chunk *domain.Chunk) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	if err := json.Unmarshal(raw, &chunk.Metadata); err != nil {
		return fmt.Errorf("unmarshaling chunk metadata: %w", err)
	}
	return nil
}

func nonNil(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}
