package sqlite

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhsabu/Neugrove/internal/core/domain"
)

func createFileIngest(t *testing.T, store *Store, project *domain.Project, name string) *domain.Ingest {
	t.Helper()
	ctx := context.Background()
	ingests := store.IngestStore()

	file := &domain.File{
		UserID:      7,
		ProjectUID:  project.UID,
		FilePath:    domain.FileKey(project.UID, "abc-"+name),
		FileName:    name,
		ContentType: "text/plain",
		Size:        11,
	}
	require.NoError(t, ingests.CreateFile(ctx, file))

	ingest := &domain.Ingest{
		UserID:    7,
		ProjectID: project.ID,
		FileID:    &file.ID,
		ExtraData: domain.IngestOptions{}.Normalize(),
	}
	require.NoError(t, ingests.Create(ctx, ingest))
	return ingest
}

func TestIngestStore_CreateAndGet(t *testing.T) {
	store := setupTestStore(t)
	project := createTestProject(t, store, "p1")
	ctx := context.Background()

	ingest := createFileIngest(t, store, project, "notes.txt")
	assert.NotZero(t, ingest.ID)
	assert.Equal(t, domain.IngestCreated, ingest.Status)

	got, err := store.IngestStore().Get(ctx, ingest.ID)
	require.NoError(t, err)
	require.NotNil(t, got.File)
	assert.Equal(t, "notes.txt", got.File.FileName)
	assert.Equal(t, "abc-notes.txt", got.Source())
	assert.Equal(t, domain.DefaultIngestSplitter, got.ExtraData.Splitter)
	assert.Equal(t, domain.DefaultIngestChunks, got.ExtraData.Chunks)
	assert.False(t, got.CreatedAt.IsZero())

	_, err = store.IngestStore().Get(ctx, 9999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIngestStore_CreateURLIngest(t *testing.T) {
	store := setupTestStore(t)
	project := createTestProject(t, store, "p1")
	ctx := context.Background()

	ingest := &domain.Ingest{ProjectID: project.ID, URL: "https://example.com/page"}
	require.NoError(t, store.IngestStore().Create(ctx, ingest))

	got, err := store.IngestStore().Get(ctx, ingest.ID)
	require.NoError(t, err)
	assert.Nil(t, got.File)
	assert.Nil(t, got.FileID)
	assert.Equal(t, fmt.Sprintf("%d-page", ingest.ID), got.Source())
	assert.Equal(t, domain.JobExtractURL, got.JobKind())
}

func TestIngestStore_CreateUnknownProject(t *testing.T) {
	store := setupTestStore(t)

	err := store.IngestStore().Create(context.Background(), &domain.Ingest{ProjectID: 404, URL: "https://x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIngestStore_List(t *testing.T) {
	store := setupTestStore(t)
	p1 := createTestProject(t, store, "p1")
	p2 := createTestProject(t, store, "p2")
	ctx := context.Background()

	a := createFileIngest(t, store, p1, "alpha.txt")
	createFileIngest(t, store, p2, "other.txt")
	b := createFileIngest(t, store, p1, "beta.txt")
	u := &domain.Ingest{ProjectID: p1.ID, URL: "https://example.com/ALPHA"}
	require.NoError(t, store.IngestStore().Create(ctx, u))

	tests := []struct {
		name  string
		query domain.IngestQuery
		want  []int64
	}{
		{"project only", domain.IngestQuery{ProjectID: p1.ID, Limit: 10}, []int64{a.ID, b.ID, u.ID}},
		{"limit", domain.IngestQuery{ProjectID: p1.ID, Limit: 1}, []int64{a.ID}},
		{"cursor", domain.IngestQuery{ProjectID: p1.ID, Limit: 10, AfterID: &a.ID}, []int64{b.ID, u.ID}},
		{"search", domain.IngestQuery{ProjectID: p1.ID, Limit: 10, Search: "Alpha"}, []int64{a.ID, u.ID}},
		{"empty", domain.IngestQuery{ProjectID: p1.ID, Limit: 10, AfterID: &u.ID}, []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := store.IngestStore().List(ctx, tt.query)
			require.NoError(t, err)
			ids := make([]int64, 0, len(results))
			for _, r := range results {
				ids = append(ids, r.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestIngestStore_UpdateStatus(t *testing.T) {
	store := setupTestStore(t)
	project := createTestProject(t, store, "p1")
	ctx := context.Background()
	ingest := createFileIngest(t, store, project, "a.txt")

	require.NoError(t, store.IngestStore().UpdateStatus(ctx, ingest.ID, domain.IngestDone, 12, ""))
	got, err := store.IngestStore().Get(ctx, ingest.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.IngestDone, got.Status)
	assert.Equal(t, 12, got.NumberOfPages)

	err = store.IngestStore().UpdateStatus(ctx, 9999, domain.IngestDone, 1, "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIngestStore_Delete(t *testing.T) {
	store := setupTestStore(t)
	project := createTestProject(t, store, "p1")
	ctx := context.Background()
	ingest := createFileIngest(t, store, project, "a.txt")

	require.NoError(t, store.IngestStore().Delete(ctx, ingest.ID))

	_, err := store.IngestStore().Get(ctx, ingest.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	var files int
	require.NoError(t, store.db.QueryRow("SELECT COUNT(*) FROM files").Scan(&files))
	assert.Equal(t, 0, files)

	assert.ErrorIs(t, store.IngestStore().Delete(ctx, ingest.ID), domain.ErrNotFound)
}
