package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhsabu/Neugrove/internal/core/domain"
)

func newTestLocker(t *testing.T) (*Locker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return New(rdb, "test:lock:"), mr
}

func TestLocker_Exclusive(t *testing.T) {
	l, mr := newTestLocker(t)
	ctx := context.Background()

	unlock, err := l.Lock(ctx, "ingest:1", time.Minute)
	require.NoError(t, err)
	assert.True(t, mr.Exists("test:lock:ingest:1"))

	_, err = l.Lock(ctx, "ingest:1", time.Minute)
	assert.ErrorIs(t, err, domain.ErrLockHeld)

	require.NoError(t, unlock(ctx))
	assert.False(t, mr.Exists("test:lock:ingest:1"))

	again, err := l.Lock(ctx, "ingest:1", time.Minute)
	require.NoError(t, err)
	require.NoError(t, again(ctx))
}

func TestLocker_Expiry(t *testing.T) {
	l, mr := newTestLocker(t)
	ctx := context.Background()

	_, err := l.Lock(ctx, "ingest:2", time.Second)
	require.NoError(t, err)

	mr.FastForward(2 * time.Second)

	unlock, err := l.Lock(ctx, "ingest:2", time.Second)
	require.NoError(t, err)
	require.NoError(t, unlock(ctx))
}
