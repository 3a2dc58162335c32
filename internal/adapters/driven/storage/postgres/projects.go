package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mhsabu/Neugrove/internal/core/domain"
	"github.com/mhsabu/Neugrove/internal/core/ports/driven"
)

type projectStore struct {
	db DB
}

var _ driven.ProjectStore = (*projectStore)(nil)

// GetByUID retrieves a project by its public uid.
func (s *projectStore) GetByUID(ctx context.Context, uid string) (*domain.Project, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, uid, name, type, k, score, created_at
		FROM projects WHERE uid = $1`, uid)
	return scanProject(row)
}

// GetByID retrieves a project by its internal id.
func (s *projectStore) GetByID(ctx context.Context, id int64) (*domain.Project, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, uid, name, type, k, score, created_at
		FROM projects WHERE id = $1`, id)
	return scanProject(row)
}

// Save upserts a project keyed by uid.
func (s *projectStore) Save(ctx context.Context, project domain.Project) (*domain.Project, error) {
	row := s.db.QueryRow(ctx, `
		INSERT INTO projects (uid, name, type, k, score)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (uid) DO UPDATE SET
			name = EXCLUDED.name, type = EXCLUDED.type, k = EXCLUDED.k, score = EXCLUDED.score
		RETURNING id, uid, name, type, k, score, created_at`,
		project.UID, project.Name, string(project.Type), project.K, project.Score)
	p, err := scanProject(row)
	if err != nil {
		return nil, fmt.Errorf("saving project: %w", err)
	}
	return p, nil
}

func scanProject(row pgx.Row) (*domain.Project, error) {
	var p domain.Project
	var typ string
	if err := row.Scan(&p.ID, &p.UID, &p.Name, &typ, &p.K, &p.Score, &p.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning project: %w", err)
	}
	p.Type = domain.ProjectType(typ)
	return &p, nil
}
