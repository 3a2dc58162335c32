package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhsabu/Neugrove/internal/core/domain"
)

func TestLocker_Exclusive(t *testing.T) {
	l := New()
	ctx := context.Background()

	unlock, err := l.Lock(ctx, "ingest:1", time.Minute)
	require.NoError(t, err)

	_, err = l.Lock(ctx, "ingest:1", time.Minute)
	assert.ErrorIs(t, err, domain.ErrLockHeld)

	other, err := l.Lock(ctx, "ingest:2", time.Minute)
	require.NoError(t, err)
	require.NoError(t, other(ctx))

	require.NoError(t, unlock(ctx))
	again, err := l.Lock(ctx, "ingest:1", time.Minute)
	require.NoError(t, err)
	require.NoError(t, again(ctx))
}

func TestLocker_Expiry(t *testing.T) {
	l := New()
	now := time.Now()
	l.now = func() time.Time { return now }
	ctx := context.Background()

	stale, err := l.Lock(ctx, "k", time.Second)
	require.NoError(t, err)

	now = now.Add(2 * time.Second)
	fresh, err := l.Lock(ctx, "k", time.Second)
	require.NoError(t, err)

	// The stale owner must not release the new lease.
	require.NoError(t, stale(ctx))
	_, err = l.Lock(ctx, "k", time.Second)
	assert.ErrorIs(t, err, domain.ErrLockHeld)
	require.NoError(t, fresh(ctx))
}
