// Package splitters provides the text splitters used to chunk ingests.
package splitters

import (
	"fmt"
	"sort"
	"sync"

	"github.com/mhsabu/Neugrove/internal/core/domain"
	"github.com/mhsabu/Neugrove/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.SplitterRegistry = (*Registry)(nil)

// BuilderFunc creates a Splitter from generic config.
// Config is a map of splitter-specific settings parsed from user config.
type BuilderFunc func(cfg map[string]any) (driven.Splitter, error)

// Registry maps splitter names to built splitters.
type Registry struct {
	mu        sync.Mutex
	builders  map[string]BuilderFunc
	splitters map[string]driven.Splitter
}

// NewRegistry creates an empty splitter registry.
func NewRegistry() *Registry {
	return &Registry{
		builders:  make(map[string]BuilderFunc),
		splitters: make(map[string]driven.Splitter),
	}
}

// Register adds a splitter builder to the registry.
// Name should be unique and match the splitter's Name() return value.
func (r *Registry) Register(name string, builder BuilderFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.builders[name] = builder
	delete(r.splitters, name)
}

// Build creates a splitter by name with the given config.
func (r *Registry) Build(name string, cfg map[string]any) (driven.Splitter, error) {
	r.mu.Lock()
	builder, ok := r.builders[name]
	r.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: unknown splitter: %s", domain.ErrUnsupportedType, name)
	}
	return builder(cfg)
}

// Get returns the splitter built with default config, building it once.
func (r *Registry) Get(name string) (driven.Splitter, error) {
	r.mu.Lock()
	s, ok := r.splitters[name]
	r.mu.Unlock()
	if ok {
		return s, nil
	}
	s, err := r.Build(name, nil)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.splitters[name] = s
	r.mu.Unlock()
	return s, nil
}

// Has returns true if a splitter with the given name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.builders[name]
	return ok
}

// Names returns all registered splitter names in sorted order.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.builders))
	for name := range r.builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
