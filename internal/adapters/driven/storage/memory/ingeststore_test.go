package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhsabu/Neugrove/internal/core/domain"
)

func createFileIngest(t *testing.T, store *IngestStore, projectID int64, name string) *domain.Ingest {
	t.Helper()
	ctx := context.Background()
	file := &domain.File{FileName: name, FilePath: "uploads/p1/x-" + name}
	require.NoError(t, store.CreateFile(ctx, file))
	ingest := &domain.Ingest{ProjectID: projectID, FileID: &file.ID}
	require.NoError(t, store.Create(ctx, ingest))
	return ingest
}

func TestIngestStore_CreateAndGet(t *testing.T) {
	store := NewIngestStore()
	ctx := context.Background()

	ingest := createFileIngest(t, store, 1, "notes.txt")
	assert.Equal(t, int64(1), ingest.ID)
	assert.Equal(t, domain.IngestCreated, ingest.Status)

	got, err := store.Get(ctx, ingest.ID)
	require.NoError(t, err)
	require.NotNil(t, got.File)
	assert.Equal(t, "notes.txt", got.File.FileName)
	assert.Equal(t, "x-notes.txt", got.Source())
}

func TestIngestStore_CreateUnknownFile(t *testing.T) {
	store := NewIngestStore()
	missing := int64(42)

	err := store.Create(context.Background(), &domain.Ingest{ProjectID: 1, FileID: &missing})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIngestStore_List(t *testing.T) {
	store := NewIngestStore()
	ctx := context.Background()

	createFileIngest(t, store, 1, "alpha.txt")
	createFileIngest(t, store, 2, "other.txt")
	createFileIngest(t, store, 1, "beta.pdf")
	require.NoError(t, store.Create(ctx, &domain.Ingest{ProjectID: 1, URL: "https://example.com/Alpha"}))

	tests := []struct {
		name  string
		query domain.IngestQuery
		want  []int64
	}{
		{"all of project", domain.IngestQuery{ProjectID: 1, Limit: 10}, []int64{1, 3, 4}},
		{"limit", domain.IngestQuery{ProjectID: 1, Limit: 2}, []int64{1, 3}},
		{"after cursor", domain.IngestQuery{ProjectID: 1, Limit: 10, AfterID: ptr(int64(1))}, []int64{3, 4}},
		{"search case insensitive", domain.IngestQuery{ProjectID: 1, Limit: 10, Search: "ALPHA"}, []int64{1, 4}},
		{"no match", domain.IngestQuery{ProjectID: 1, Limit: 10, Search: "zzz"}, []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := store.List(ctx, tt.query)
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
	store := NewIngestStore()
	ctx := context.Background()
	ingest := createFileIngest(t, store, 1, "a.txt")

	require.NoError(t, store.UpdateStatus(ctx, ingest.ID, domain.IngestFailed, 0, "boom"))
	got, err := store.Get(ctx, ingest.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.IngestFailed, got.Status)
	assert.Equal(t, "boom", got.Error)

	assert.ErrorIs(t, store.UpdateStatus(ctx, 99, domain.IngestDone, 1, ""), domain.ErrNotFound)
}

func TestIngestStore_Delete(t *testing.T) {
	store := NewIngestStore()
	ctx := context.Background()
	ingest := createFileIngest(t, store, 1, "a.txt")

	require.NoError(t, store.Delete(ctx, ingest.ID))
	_, err := store.Get(ctx, ingest.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, store.files)

	assert.ErrorIs(t, store.Delete(ctx, ingest.ID), domain.ErrNotFound)
}

func ptr[T any](v T) *T {
	return &v
}
