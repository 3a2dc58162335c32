package memory

import (
	"context"
	"sync"

	"github.com/mhsabu/Neugrove/internal/adapters/driven/storage/vectormath"
	"github.com/mhsabu/Neugrove/internal/core/domain"
	"github.com/mhsabu/Neugrove/internal/core/ports/driven"
)

// Ensure VectorStore implements the interface.
var _ driven.VectorStore = (*VectorStore)(nil)

// VectorStore keeps one brute-force collection per project uid.
type VectorStore struct {
	mu          sync.Mutex
	collections map[string]*Collection
}

// NewVectorStore creates a new in-memory vector store.
func NewVectorStore() *VectorStore {
	return &VectorStore{
		collections: make(map[string]*Collection),
	}
}

// Collection returns the collection of the project, creating it on first use.
func (s *VectorStore) Collection(project *domain.Project) driven.VectorCollection {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.collections[project.UID]
	if !ok {
		c = newCollection()
		s.collections[project.UID] = c
	}
	return c
}

// Close is a no-op for the in-memory store.
func (s *VectorStore) Close() error {
	return nil
}

// Ensure Collection implements the interface.
var _ driven.VectorCollection = (*Collection)(nil)

// Collection holds chunks in insertion order.
type Collection struct {
	mu     sync.RWMutex
	chunks []domain.Chunk
	index  map[string]int
}

func newCollection() *Collection {
	return &Collection{index: make(map[string]int)}
}

// Reset deletes every chunk.
func (c *Collection) Reset(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.chunks = nil
	c.index = make(map[string]int)
	return nil
}

// Add inserts chunks, replacing existing ones with the same id.
func (c *Collection) Add(_ context.Context, chunks []domain.Chunk) error {
	for i := range chunks {
		if len(chunks[i].Embedding) == 0 {
			return domain.ErrInvalidInput
		}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, chunk := range chunks {
		if i, ok := c.index[chunk.ID]; ok {
			c.chunks[i] = chunk
			continue
		}
		c.index[chunk.ID] = len(c.chunks)
		c.chunks = append(c.chunks, chunk)
	}
	return nil
}

// Query returns the k chunks nearest to embedding.
func (c *Collection) Query(_ context.Context, embedding []float32, k int) ([]driven.VectorHit, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return vectormath.TopK(c.chunks, embedding, k), nil
}

// Get retrieves a chunk by id.
func (c *Collection) Get(_ context.Context, id string) (*domain.Chunk, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i, ok := c.index[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	chunk := c.chunks[i]
	return &chunk, nil
}

// BySource returns every chunk tagged with source, in position order.
func (c *Collection) BySource(_ context.Context, source string) ([]domain.Chunk, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.Chunk, 0)
	for _, chunk := range c.chunks {
		if chunk.Source == source {
			out = append(out, chunk)
		}
	}
	vectormath.SortByPosition(out)
	return out, nil
}

// DeleteSource removes every chunk tagged with source.
func (c *Collection) DeleteSource(_ context.Context, source string) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	kept := c.chunks[:0]
	removed := 0
	for _, chunk := range c.chunks {
		if chunk.Source == source {
			removed++
			continue
		}
		kept = append(kept, chunk)
	}
	c.chunks = kept
	c.index = make(map[string]int, len(kept))
	for i, chunk := range kept {
		c.index[chunk.ID] = i
	}
	return removed, nil
}

// Len returns the number of stored chunks.
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.chunks)
}
