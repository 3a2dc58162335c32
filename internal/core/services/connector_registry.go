package services

import (
	"fmt"
	"sort"
	"sync"

	"github.com/mhsabu/Neugrove/internal/core/domain"
	"github.com/mhsabu/Neugrove/internal/core/ports/driven"
	"github.com/mhsabu/Neugrove/internal/core/ports/driving"
)

// Ensure ConnectorRegistry implements the interface.
var _ driving.ConnectorRegistry = (*ConnectorRegistry)(nil)

// ConnectorRegistry maps source types to connectors.
type ConnectorRegistry struct {
	mu         sync.RWMutex
	connectors map[domain.SourceType]driven.Connector
}

// NewConnectorRegistry creates a registry holding connectors.
func NewConnectorRegistry(connectors ...driven.Connector) *ConnectorRegistry {
	r := &ConnectorRegistry{connectors: make(map[domain.SourceType]driven.Connector)}
	for _, c := range connectors {
		r.Register(c)
	}
	return r
}

// Register adds or replaces the connector for its source type.
func (r *ConnectorRegistry) Register(connector driven.Connector) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.connectors[connector.Type()] = connector
}

// Get returns the connector for source.
func (r *ConnectorRegistry) Get(source domain.SourceType) (driven.Connector, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.connectors[source]
	if !ok {
		return nil, fmt.Errorf("%w: unknown source %q", domain.ErrUnsupportedType, source)
	}
	return c, nil
}

// List returns the registered source types in sorted order.
func (r *ConnectorRegistry) List() []domain.SourceType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]domain.SourceType, 0, len(r.connectors))
	for t := range r.connectors {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}
