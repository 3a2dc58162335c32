package local

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhsabu/Neugrove/internal/core/domain"
)

func TestStore_PutGetDelete(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()
	key := "uploads/p1/abc-notes.txt"

	require.NoError(t, store.Put(ctx, key, strings.NewReader("hello"), 5, "text/plain"))
	_, err = os.Stat(filepath.Join(store.Root(), "uploads", "p1", "abc-notes.txt"))
	require.NoError(t, err)

	rc, err := store.Get(ctx, key)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	require.NoError(t, store.Delete(ctx, key))
	_, err = store.Get(ctx, key)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Deleting twice is fine.
	assert.NoError(t, store.Delete(ctx, key))
}

func TestStore_RejectsTraversal(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	for _, key := range []string{"", "/", "../escape.txt", "uploads/../../etc/passwd"} {
		t.Run(key, func(t *testing.T) {
			err := store.Put(ctx, key, strings.NewReader("x"), 1, "")
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestStore_PutCancelled(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = store.Put(ctx, "a.txt", strings.NewReader("data"), 4, "")
	assert.ErrorIs(t, err, context.Canceled)
	_, err = store.Get(context.Background(), "a.txt")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestNew_RequiresDir(t *testing.T) {
	_, err := New("")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
