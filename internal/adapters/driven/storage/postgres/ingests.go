package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/mhsabu/Neugrove/internal/core/domain"
	"github.com/mhsabu/Neugrove/internal/core/ports/driven"
)

type ingestStore struct {
	db DB
}

var _ driven.IngestStore = (*ingestStore)(nil)

const selectIngest = `
	SELECT i.id, i.user_id, i.project_id, i.file_id, i.url, i.status, i.number_of_pages,
		i.extra_data, i.error, i.created_at, i.updated_at,
		f.id, f.user_id, f.project_uid, f.file_path, f.file_name, f.content_type, f.size, f.created_at
	FROM ingests i LEFT JOIN files f ON f.id = i.file_id`

// CreateFile stores file metadata and sets its id.
func (s *ingestStore) CreateFile(ctx context.Context, file *domain.File) error {
	err := s.db.QueryRow(ctx, `
		INSERT INTO files (user_id, project_uid, file_path, file_name, content_type, size)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`,
		file.UserID, file.ProjectUID, file.FilePath, file.FileName, file.ContentType, file.Size,
	).Scan(&file.ID, &file.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting file: %w", err)
	}
	return nil
}

// Create stores a new ingest record.
func (s *ingestStore) Create(ctx context.Context, ingest *domain.Ingest) error {
	if ingest.Status == "" {
		ingest.Status = domain.IngestCreated
	}
	extra, err := json.Marshal(ingest.ExtraData)
	if err != nil {
		return fmt.Errorf("marshalling extra data: %w", err)
	}

	err = s.db.QueryRow(ctx, `
		INSERT INTO ingests (user_id, project_id, file_id, url, status, number_of_pages, extra_data, error)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`,
		ingest.UserID, ingest.ProjectID, ingest.FileID, ingest.URL, string(ingest.Status),
		ingest.NumberOfPages, extra, ingest.Error,
	).Scan(&ingest.ID, &ingest.CreatedAt, &ingest.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: inserting ingest: %v", domain.ErrNotFound, err)
		}
		return fmt.Errorf("inserting ingest: %w", err)
	}
	return nil
}

// Get retrieves an ingest with its file.
func (s *ingestStore) Get(ctx context.Context, id int64) (*domain.Ingest, error) {
	row := s.db.QueryRow(ctx, selectIngest+` WHERE i.id = $1`, id)
	ingest, err := scanIngest(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return ingest, err
}

// List returns one page of a project's ingests ordered by id. Search is a
// literal substring: % and _ match themselves.
func (s *ingestStore) List(ctx context.Context, query domain.IngestQuery) ([]domain.Ingest, error) {
	var after int64
	if query.AfterID != nil {
		after = *query.AfterID
	}
	var limit any
	if query.Limit > 0 {
		limit = query.Limit
	}

	rows, err := s.db.Query(ctx, selectIngest+`
		WHERE i.project_id = $1 AND i.id > $2
			AND ($3 = '' OR strpos(lower(COALESCE(f.file_name, i.url)), lower($3)) > 0)
		ORDER BY i.id
		LIMIT $4`, query.ProjectID, after, query.Search, limit)
	if err != nil {
		return nil, fmt.Errorf("querying ingests: %w", err)
	}
	defer rows.Close()

	results := make([]domain.Ingest, 0)
	for rows.Next() {
		ingest, err := scanIngest(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *ingest)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating ingests: %w", err)
	}
	return results, nil
}

// UpdateStatus records a status change.
func (s *ingestStore) UpdateStatus(
	ctx context.Context, id int64, status domain.IngestStatus, numberOfPages int, errMsg string,
) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE ingests SET status = $1, number_of_pages = $2, error = $3, updated_at = now()
		WHERE id = $4`, string(status), numberOfPages, errMsg, id)
	if err != nil {
		return fmt.Errorf("updating ingest: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes the ingest and its file metadata in one transaction.
func (s *ingestStore) Delete(ctx context.Context, id int64) error {
	return withTx(ctx, s.db, func(tx pgx.Tx) error {
		var fileID *int64
		err := tx.QueryRow(ctx, `DELETE FROM ingests WHERE id = $1 RETURNING file_id`, id).Scan(&fileID)
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("deleting ingest: %w", err)
		}
		if fileID != nil {
			if _, err := tx.Exec(ctx, `DELETE FROM files WHERE id = $1`, *fileID); err != nil {
				return fmt.Errorf("deleting file: %w", err)
			}
		}
		return nil
	})
}

func scanIngest(row pgx.Row) (*domain.Ingest, error) {
	var (
		ingest   domain.Ingest
		status   string
		extra    []byte
		fID      *int64
		fUserID  *int64
		fUID     *string
		fPath    *string
		fName    *string
		fType    *string
		fSize    *int64
		fCreated *time.Time
	)
	if err := row.Scan(&ingest.ID, &ingest.UserID, &ingest.ProjectID, &ingest.FileID, &ingest.URL,
		&status, &ingest.NumberOfPages, &extra, &ingest.Error, &ingest.CreatedAt, &ingest.UpdatedAt,
		&fID, &fUserID, &fUID, &fPath, &fName, &fType, &fSize, &fCreated); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning ingest: %w", err)
	}
	ingest.Status = domain.IngestStatus(status)
	if len(extra) > 0 {
		if err := json.Unmarshal(extra, &ingest.ExtraData); err != nil {
			return nil, fmt.Errorf("unmarshaling extra data: %w", err)
		}
	}
	if fID != nil {
		ingest.File = &domain.File{
			ID:          *fID,
			UserID:      deref(fUserID),
			ProjectUID:  deref(fUID),
			FilePath:    deref(fPath),
			FileName:    deref(fName),
			ContentType: deref(fType),
			Size:        deref(fSize),
			CreatedAt:   deref(fCreated),
		}
	}
	return &ingest, nil
}

func deref[T any](v *T) T {
	var zero T
	if v == nil {
		return zero
	}
	return *v
}
