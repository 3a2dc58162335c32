// Package secrets resolves connector credentials from external secret stores.
//
// Stores register a factory under a name ("env", "vault", "aws") and are
// built from the [secrets] config table.
package secrets

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/mhsabu/Neugrove/internal/core/domain"
	"github.com/mhsabu/Neugrove/internal/core/ports/driven"
)

// Factory creates a SecretStore from string settings.
type Factory func(ctx context.Context, cfg map[string]string) (driven.SecretStore, error)

var (
	factoryMu sync.RWMutex
	factories = make(map[string]Factory)
)

// Register adds a secret store factory.
func Register(name string, f Factory) {
	factoryMu.Lock()
	factories[name] = f
	factoryMu.Unlock()
}

// New creates a SecretStore by name from registered factories.
func New(ctx context.Context, name string, cfg map[string]string) (driven.SecretStore, error) {
	factoryMu.RLock()
	f, ok := factories[name]
	factoryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: unknown secret store %q", domain.ErrUnsupportedType, name)
	}
	return f(ctx, cfg)
}

// Names returns all registered secret store names.
func Names() []string {
	factoryMu.RLock()
	defer factoryMu.RUnlock()
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type cachedEntry struct {
	value     string
	expiresAt time.Time
}

// Cached wraps a SecretStore with a per-process TTL cache.
type Cached struct {
	inner driven.SecretStore
	ttl   time.Duration
	now   func() time.Time

	mu    sync.RWMutex
	cache map[string]cachedEntry
}

// Ensure Cached implements the interface.
var _ driven.SecretStore = (*Cached)(nil)

// DefaultTTL bounds how long a resolved secret is reused.
const DefaultTTL = 5 * time.Minute

// NewCached wraps store with a TTL cache.
func NewCached(store driven.SecretStore, ttl time.Duration) *Cached {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cached{
		inner: store,
		ttl:   ttl,
		now:   time.Now,
		cache: make(map[string]cachedEntry),
	}
}

// Name returns the wrapped store's name.
func (c *Cached) Name() string { return c.inner.Name() }

// TTL returns the cache lifetime of a secret.
func (c *Cached) TTL() time.Duration { return c.ttl }

// Get returns a cached value or fetches it again once expired.
func (c *Cached) Get(ctx context.Context, path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("%w: secret path cannot be empty", domain.ErrInvalidInput)
	}

	c.mu.RLock()
	entry, ok := c.cache[path]
	c.mu.RUnlock()

	if ok && c.now().Before(entry.expiresAt) {
		return entry.value, nil
	}

	val, err := c.inner.Get(ctx, path)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	c.cache[path] = cachedEntry{value: val, expiresAt: c.now().Add(c.ttl)}
	c.mu.Unlock()

	return val, nil
}

// Health checks the wrapped store.
func (c *Cached) Health(ctx context.Context) error {
	return c.inner.Health(ctx)
}
