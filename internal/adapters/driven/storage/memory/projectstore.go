package memory

import (
	"context"
	"sync"
	"time"

	"github.com/mhsabu/Neugrove/internal/core/domain"
	"github.com/mhsabu/Neugrove/internal/core/ports/driven"
)

// Ensure ProjectStore implements the interface.
var _ driven.ProjectStore = (*ProjectStore)(nil)

// ProjectStore is an in-memory implementation of driven.ProjectStore.
type ProjectStore struct {
	mu       sync.RWMutex
	projects map[string]domain.Project
	nextID   int64
}

// NewProjectStore creates a new in-memory project store.
func NewProjectStore() *ProjectStore {
	return &ProjectStore{
		projects: make(map[string]domain.Project),
	}
}

// GetByUID retrieves a project by its public uid.
func (s *ProjectStore) GetByUID(_ context.Context, uid string) (*domain.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.projects[uid]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

// GetByID retrieves a project by its internal id.
func (s *ProjectStore) GetByID(_ context.Context, id int64) (*domain.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.projects {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, domain.ErrNotFound
}

// Save creates or updates a project keyed by uid.
func (s *ProjectStore) Save(_ context.Context, project domain.Project) (*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.projects[project.UID]; ok {
		project.ID = existing.ID
		project.CreatedAt = existing.CreatedAt
	} else {
		s.nextID++
		project.ID = s.nextID
		if project.CreatedAt.IsZero() {
			project.CreatedAt = time.Now().UTC()
		}
	}
	s.projects[project.UID] = project
	return &project, nil
}
