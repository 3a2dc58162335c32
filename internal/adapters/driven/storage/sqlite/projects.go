package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mhsabu/Neugrove/internal/core/domain"
	"github.com/mhsabu/Neugrove/internal/core/ports/driven"
)

// projectStore implements driven.ProjectStore.
type projectStore struct {
	store *Store
}

var _ driven.ProjectStore = (*projectStore)(nil)

// GetByUID retrieves a project by its public uid.
func (s *projectStore) GetByUID(ctx context.Context, uid string) (*domain.Project, error) {
	return scanProject(s.store.db.QueryRowContext(ctx, `
		SELECT id, uid, name, type, k, score, created_at
		FROM projects WHERE uid = ?
	`, uid))
}

// GetByID retrieves a project by its internal id.
func (s *projectStore) GetByID(ctx context.Context, id int64) (*domain.Project, error) {
	return scanProject(s.store.db.QueryRowContext(ctx, `
		SELECT id, uid, name, type, k, score, created_at
		FROM projects WHERE id = ?
	`, id))
}

func scanProject(row *sql.Row) (*domain.Project, error) {
	var p domain.Project
	if err := row.Scan(&p.ID, &p.UID, &p.Name, &p.Type, &p.K, &p.Score, &p.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning project: %w", err)
	}
	return &p, nil
}

// Save stores or updates a project keyed by uid.
func (s *projectStore) Save(ctx context.Context, project domain.Project) (*domain.Project, error) {
	if project.CreatedAt.IsZero() {
		project.CreatedAt = time.Now().UTC()
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO projects (uid, name, type, k, score, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(uid) DO UPDATE SET
			name = excluded.name,
			type = excluded.type,
			k = excluded.k,
			score = excluded.score
	`, project.UID, project.Name, project.Type, project.K, project.Score, project.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("saving project: %w", err)
	}
	return s.GetByUID(ctx, project.UID)
}
