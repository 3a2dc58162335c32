// Package redis provides a distributed Locker using redsync.
// Multiple worker processes use it so one ingest is processed at a time.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redsync/redsync/v4"
	redsyncredis "github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"

	"github.com/mhsabu/Neugrove/internal/core/domain"
	"github.com/mhsabu/Neugrove/internal/core/ports/driven"
)

// DefaultPrefix namespaces lock keys.
const DefaultPrefix = "neugrove:lock:"

// Ensure Locker implements the interface.
var _ driven.Locker = (*Locker)(nil)

// Locker wraps redsync mutexes.
type Locker struct {
	rs     *redsync.Redsync
	prefix string
}

// New creates a distributed lock manager backed by Redis.
func New(rdb redis.UniversalClient, prefix string) *Locker {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Locker{rs: redsync.New(redsyncredis.NewPool(rdb)), prefix: prefix}
}

// Lock tries once to acquire key; a held key returns domain.ErrLockHeld.
func (l *Locker) Lock(ctx context.Context, key string, ttl time.Duration) (driven.Unlock, error) {
	mutex := l.rs.NewMutex(
		l.prefix+key,
		redsync.WithExpiry(ttl),
		redsync.WithTries(1), // don't retry, the caller skips held keys
	)

	if err := mutex.LockContext(ctx); err != nil {
		var redisErr *redsync.RedisError
		if errors.As(err, &redisErr) {
			return nil, fmt.Errorf("acquiring lock %s: %w", key, err)
		}
		return nil, domain.ErrLockHeld
	}

	return func(ctx context.Context) error {
		if _, err := mutex.UnlockContext(ctx); err != nil {
			return fmt.Errorf("releasing lock %s: %w", key, err)
		}
		return nil
	}, nil
}
