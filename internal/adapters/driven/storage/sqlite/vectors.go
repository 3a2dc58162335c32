package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/mhsabu/Neugrove/internal/adapters/driven/storage/vectormath"
	"github.com/mhsabu/Neugrove/internal/core/domain"
	"github.com/mhsabu/Neugrove/internal/core/ports/driven"
)

// vectorStore implements driven.VectorStore on the chunks table.
type vectorStore struct {
	store *Store
}

var _ driven.VectorStore = (*vectorStore)(nil)

// Collection returns the chunks of one project.
func (s *vectorStore) Collection(project *domain.Project) driven.VectorCollection {
	return &collection{store: s.store, projectUID: project.UID}
}

// Close is a no-op; the owning Store closes the database.
func (s *vectorStore) Close() error {
	return nil
}

// collection implements driven.VectorCollection.
type collection struct {
	store      *Store
	projectUID string
}

var _ driven.VectorCollection = (*collection)(nil)

// Reset deletes every chunk of the project.
func (c *collection) Reset(ctx context.Context) error {
	if _, err := c.store.db.ExecContext(ctx, "DELETE FROM chunks WHERE project_uid = ?", c.projectUID); err != nil {
		return fmt.Errorf("resetting chunks: %w", err)
	}
	return nil
}

// Add inserts or replaces chunks in one transaction.
func (c *collection) Add(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	for i := range chunks {
		if len(chunks[i].Embedding) == 0 {
			return fmt.Errorf("%w: chunk %s has no embedding", domain.ErrInvalidInput, chunks[i].ID)
		}
	}

	return c.store.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO chunks (project_uid, id, source, text, position, metadata, embedding)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(project_uid, id) DO UPDATE SET
				source = excluded.source,
				text = excluded.text,
				position = excluded.position,
				metadata = excluded.metadata,
				embedding = excluded.embedding
		`)
		if err != nil {
			return fmt.Errorf("preparing statement: %w", err)
		}
		defer stmt.Close()

		for _, chunk := range chunks {
			metadataJSON, err := marshalMetadata(chunk.Metadata)
			if err != nil {
				return err
			}
			if _, err := stmt.ExecContext(ctx, c.projectUID, chunk.ID, chunk.Source, chunk.Text,
				chunk.Position, metadataJSON, float32SliceToBytes(chunk.Embedding)); err != nil {
				return fmt.Errorf("inserting chunk: %w", err)
			}
		}
		return nil
	})
}

// Query ranks every chunk of the project against embedding.
func (c *collection) Query(ctx context.Context, embedding []float32, k int) ([]driven.VectorHit, error) {
	chunks, err := c.selectChunks(ctx, "WHERE project_uid = ?", c.projectUID)
	if err != nil {
		return nil, err
	}
	return vectormath.TopK(chunks, embedding, k), nil
}

// Get retrieves a chunk by id.
func (c *collection) Get(ctx context.Context, id string) (*domain.Chunk, error) {
	chunks, err := c.selectChunks(ctx, "WHERE project_uid = ? AND id = ?", c.projectUID, id)
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return nil, domain.ErrNotFound
	}
	return &chunks[0], nil
}

// BySource returns every chunk tagged with source.
func (c *collection) BySource(ctx context.Context, source string) ([]domain.Chunk, error) {
	return c.selectChunks(ctx, "WHERE project_uid = ? AND source = ? ORDER BY position", c.projectUID, source)
}

// DeleteSource removes every chunk tagged with source.
func (c *collection) DeleteSource(ctx context.Context, source string) (int, error) {
	res, err := c.store.db.ExecContext(ctx,
		"DELETE FROM chunks WHERE project_uid = ? AND source = ?", c.projectUID, source)
	if err != nil {
		return 0, fmt.Errorf("deleting chunks: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reading affected rows: %w", err)
	}
	return int(n), nil
}

func (c *collection) selectChunks(ctx context.Context, where string, args ...any) ([]domain.Chunk, error) {
	rows, err := c.store.db.QueryContext(ctx,
		"SELECT id, source, text, position, metadata, embedding FROM chunks "+where, args...)
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

// scanChunk scans a chunk from rows.
func scanChunk(rows *sql.Rows) (*domain.Chunk, error) {
	var chunk domain.Chunk
	var metadataJSON string
	var embedding []byte

	if err := rows.Scan(&chunk.ID, &chunk.Source, &chunk.Text, &chunk.Position,
		&metadataJSON, &embedding); err != nil {
		return nil, fmt.Errorf("scanning chunk: %w", err)
	}

	if metadataJSON != "" && metadataJSON != jsonNull {
		if err := json.Unmarshal([]byte(metadataJSON), &chunk.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshaling chunk metadata: %w", err)
		}
	}
	chunk.Embedding = bytesToFloat32Slice(embedding)
	return &chunk, nil
}

// jsonNull is the JSON representation of null.
const jsonNull = "null"

func marshalMetadata(metadata map[string]any) (string, error) {
	if metadata == nil {
		return "{}", nil
	}
	b, err := json.Marshal(metadata)
	if err != nil {
		return "", fmt.Errorf("%w: marshalling chunk metadata: %v", domain.ErrInvalidInput, err)
	}
	return string(b), nil
}
