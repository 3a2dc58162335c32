package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhsabu/Neugrove/internal/core/domain"
)

// newTestStore creates a Store backed by pgxmock.
func newTestStore(t *testing.T) (*Store, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return New(mock), mock
}

var projectCols = []string{"id", "uid", "name", "type", "k", "score", "created_at"}

func TestNew_WithoutPool(t *testing.T) {
	store, _ := newTestStore(t)
	assert.Nil(t, store.Pool())
	assert.NoError(t, store.Close())
}

func TestProjectStore_GetByUID(t *testing.T) {
	store, mock := newTestStore(t)
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectQuery(`SELECT (.+) FROM projects WHERE uid = \$1`).
		WithArgs("p1").
		WillReturnRows(pgxmock.NewRows(projectCols).AddRow(int64(3), "p1", "Docs", "rag", 4, 0.5, created))

	p, err := store.ProjectStore().GetByUID(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), p.ID)
	assert.Equal(t, domain.ProjectTypeRAG, p.Type)
	assert.Equal(t, 4, p.K)
	assert.InDelta(t, 0.5, p.Score, 1e-9)
	assert.Equal(t, created, p.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectStore_GetByUID_NotFound(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectQuery(`SELECT (.+) FROM projects`).WillReturnError(pgx.ErrNoRows)

	_, err := store.ProjectStore().GetByUID(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectStore_GetByID(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectQuery(`SELECT (.+) FROM projects WHERE id = \$1`).
		WithArgs(int64(3)).
		WillReturnRows(pgxmock.NewRows(projectCols).AddRow(int64(3), "p1", "Docs", "rag", 0, 0.0, time.Now()))

	p, err := store.ProjectStore().GetByID(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "p1", p.UID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectStore_Save(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectQuery(`INSERT INTO projects (.+) ON CONFLICT \(uid\) DO UPDATE`).
		WithArgs("p1", "Docs", "rag", 0, 0.0).
		WillReturnRows(pgxmock.NewRows(projectCols).AddRow(int64(1), "p1", "Docs", "rag", 0, 0.0, time.Now()))

	p, err := store.ProjectStore().Save(context.Background(), domain.Project{UID: "p1", Name: "Docs", Type: domain.ProjectTypeRAG})
	require.NoError(t, err)
	assert.Equal(t, int64(1), p.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIngestStore_CreateFile(t *testing.T) {
	store, mock := newTestStore(t)
	created := time.Now().UTC()

	mock.ExpectQuery(`INSERT INTO files`).
		WithArgs(int64(7), "p1", "uploads/p1/a.txt", "a.txt", "text/plain", int64(5)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(11), created))

	file := &domain.File{UserID: 7, ProjectUID: "p1", FilePath: "uploads/p1/a.txt", FileName: "a.txt", ContentType: "text/plain", Size: 5}
	require.NoError(t, store.IngestStore().CreateFile(context.Background(), file))
	assert.Equal(t, int64(11), file.ID)
	assert.Equal(t, created, file.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIngestStore_Create_ForeignKeyViolation(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectQuery(`INSERT INTO ingests`).WillReturnError(&pgconn.PgError{Code: "23503"})

	err := store.IngestStore().Create(context.Background(), &domain.Ingest{ProjectID: 99, URL: "https://x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIngestStore_UpdateStatus(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		wantErr  error
	}{
		{"updated", 1, nil},
		{"missing", 0, domain.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, mock := newTestStore(t)
			mock.ExpectExec(`UPDATE ingests SET status`).
				WithArgs("done", 3, "", int64(5)).
				WillReturnResult(pgxmock.NewResult("UPDATE", tt.affected))

			err := store.IngestStore().UpdateStatus(context.Background(), 5, domain.IngestDone, 3, "")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestIngestStore_ListSearchIsLiteral(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectQuery(`strpos\(lower\(COALESCE\(f\.file_name, i\.url\)\), lower\(\$3\)\) > 0`).
		WithArgs(int64(3), int64(0), "50%_off", 10).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "user_id", "project_id", "file_id", "url", "status", "number_of_pages",
			"extra_data", "error", "created_at", "updated_at",
			"f_id", "f_user_id", "f_project_uid", "f_file_path", "f_file_name", "f_content_type", "f_size", "f_created_at",
		}))

	results, err := store.IngestStore().List(context.Background(), domain.IngestQuery{ProjectID: 3, Limit: 10, Search: "50%_off"})
	require.NoError(t, err)
	assert.Empty(t, results)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIngestStore_Delete_NotFoundRollsBack(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`DELETE FROM ingests WHERE id = \$1 RETURNING file_id`).
		WithArgs(int64(5)).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	err := store.IngestStore().Delete(context.Background(), 5)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIsForeignKeyViolation(t *testing.T) {
	assert.True(t, isForeignKeyViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isForeignKeyViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isForeignKeyViolation(pgx.ErrNoRows))
}
