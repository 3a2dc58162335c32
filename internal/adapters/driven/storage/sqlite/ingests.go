package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mhsabu/Neugrove/internal/core/domain"
	"github.com/mhsabu/Neugrove/internal/core/ports/driven"
)

// ingestStore implements driven.IngestStore.
type ingestStore struct {
	store *Store
}

var _ driven.IngestStore = (*ingestStore)(nil)

const ingestColumns = `
	i.id, i.user_id, i.project_id, i.file_id, i.url, i.status, i.number_of_pages,
	i.extra_data, i.error, i.created_at, i.updated_at,
	f.id, f.user_id, f.project_uid, f.file_path, f.file_name, f.content_type, f.size, f.created_at`

// CreateFile stores file metadata and sets its id.
func (s *ingestStore) CreateFile(ctx context.Context, file *domain.File) error {
	if file.CreatedAt.IsZero() {
		file.CreatedAt = time.Now().UTC()
	}
	res, err := s.store.db.ExecContext(ctx, `
		INSERT INTO files (user_id, project_uid, file_path, file_name, content_type, size, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, file.UserID, file.ProjectUID, file.FilePath, file.FileName, file.ContentType, file.Size, file.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting file: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading file id: %w", err)
	}
	file.ID = id
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
	now := time.Now().UTC()

	res, err := s.store.db.ExecContext(ctx, `
		INSERT INTO ingests (user_id, project_id, file_id, url, status, number_of_pages,
			extra_data, error, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, ingest.UserID, ingest.ProjectID, nullInt64(ingest.FileID), ingest.URL, ingest.Status,
		ingest.NumberOfPages, string(extra), ingest.Error, now, now)
	if err != nil {
		if strings.Contains(err.Error(), "FOREIGN KEY") {
			return fmt.Errorf("%w: inserting ingest: %v", domain.ErrNotFound, err)
		}
		return fmt.Errorf("inserting ingest: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading ingest id: %w", err)
	}
	ingest.ID = id
	ingest.CreatedAt = now
	ingest.UpdatedAt = now
	return nil
}

// Get retrieves an ingest with its file.
func (s *ingestStore) Get(ctx context.Context, id int64) (*domain.Ingest, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT `+ingestColumns+`
		FROM ingests i LEFT JOIN files f ON f.id = i.file_id
		WHERE i.id = ?
	`, id)
	if err != nil {
		return nil, fmt.Errorf("querying ingest: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("querying ingest: %w", err)
		}
		return nil, domain.ErrNotFound
	}
	return scanIngest(rows)
}

// List returns one page of a project's ingests ordered by id.
func (s *ingestStore) List(ctx context.Context, query domain.IngestQuery) ([]domain.Ingest, error) {
	var after int64
	if query.AfterID != nil {
		after = *query.AfterID
	}
	limit := query.Limit
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT `+ingestColumns+`
		FROM ingests i LEFT JOIN files f ON f.id = i.file_id
		WHERE i.project_id = ? AND i.id > ?
			AND (? = '' OR instr(lower(COALESCE(f.file_name, i.url)), ?) > 0)
		ORDER BY i.id
		LIMIT ?
	`, query.ProjectID, after, query.Search, strings.ToLower(query.Search), limit)
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
	res, err := s.store.db.ExecContext(ctx, `
		UPDATE ingests SET status = ?, number_of_pages = ?, error = ?, updated_at = ?
		WHERE id = ?
	`, status, numberOfPages, errMsg, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("updating ingest: %w", err)
	}
	return requireAffected(res)
}

// Delete removes the ingest and its file metadata in one transaction.
func (s *ingestStore) Delete(ctx context.Context, id int64) error {
	return s.store.withTx(ctx, func(tx *sql.Tx) error {
		var fileID sql.NullInt64
		err := tx.QueryRowContext(ctx, "SELECT file_id FROM ingests WHERE id = ?", id).Scan(&fileID)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("loading ingest: %w", err)
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM ingests WHERE id = ?", id); err != nil {
			return fmt.Errorf("deleting ingest: %w", err)
		}
		if fileID.Valid {
			if _, err := tx.ExecContext(ctx, "DELETE FROM files WHERE id = ?", fileID.Int64); err != nil {
				return fmt.Errorf("deleting file: %w", err)
			}
		}
		return nil
	})
}

func scanIngest(rows *sql.Rows) (*domain.Ingest, error) {
	var (
		ingest    domain.Ingest
		fileID    sql.NullInt64
		extraJSON string
		fID       sql.NullInt64
		fUserID   sql.NullInt64
		fUID      sql.NullString
		fPath     sql.NullString
		fName     sql.NullString
		fType     sql.NullString
		fSize     sql.NullInt64
		fCreated  sql.NullTime
	)
	if err := rows.Scan(&ingest.ID, &ingest.UserID, &ingest.ProjectID, &fileID, &ingest.URL,
		&ingest.Status, &ingest.NumberOfPages, &extraJSON, &ingest.Error,
		&ingest.CreatedAt, &ingest.UpdatedAt,
		&fID, &fUserID, &fUID, &fPath, &fName, &fType, &fSize, &fCreated); err != nil {
		return nil, fmt.Errorf("scanning ingest: %w", err)
	}

	if err := json.Unmarshal([]byte(extraJSON), &ingest.ExtraData); err != nil {
		return nil, fmt.Errorf("unmarshaling extra data: %w", err)
	}
	if fileID.Valid {
		id := fileID.Int64
		ingest.FileID = &id
	}
	if fID.Valid {
		ingest.File = &domain.File{
			ID:          fID.Int64,
			UserID:      fUserID.Int64,
			ProjectUID:  fUID.String,
			FilePath:    fPath.String,
			FileName:    fName.String,
			ContentType: fType.String,
			Size:        fSize.Int64,
		}
		if fCreated.Valid {
			ingest.File.CreatedAt = fCreated.Time
		}
	}
	return &ingest, nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
