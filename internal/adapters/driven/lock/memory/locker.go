// Package memory provides a process-local Locker.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mhsabu/Neugrove/internal/core/domain"
	"github.com/mhsabu/Neugrove/internal/core/ports/driven"
)

// Ensure Locker implements the interface.
var _ driven.Locker = (*Locker)(nil)

type lease struct {
	token   string
	expires time.Time
}

// Locker grants leases that expire after their ttl.
type Locker struct {
	mu     sync.Mutex
	leases map[string]lease
	now    func() time.Time
}

// New creates an empty locker.
func New() *Locker {
	return &Locker{leases: make(map[string]lease), now: time.Now}
}

// Lock acquires key or returns domain.ErrLockHeld.
func (l *Locker) Lock(_ context.Context, key string, ttl time.Duration) (driven.Unlock, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if held, ok := l.leases[key]; ok && now.Before(held.expires) {
		return nil, domain.ErrLockHeld
	}
	token := uuid.NewString()
	l.leases[key] = lease{token: token, expires: now.Add(ttl)}

	return func(context.Context) error {
		l.mu.Lock()
		defer l.mu.Unlock()
		// Only the owner may release; an expired lease may be re-granted.
		if current, ok := l.leases[key]; ok && current.token == token {
			delete(l.leases, key)
		}
		return nil
	}, nil
}
