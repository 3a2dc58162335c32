package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mhsabu/Neugrove/internal/core/domain"
	"github.com/mhsabu/Neugrove/internal/core/ports/driven"
)

// Ensure IngestStore implements the interface.
var _ driven.IngestStore = (*IngestStore)(nil)

// IngestStore is an in-memory implementation of driven.IngestStore.
type IngestStore struct {
	mu         sync.RWMutex
	ingests    map[int64]domain.Ingest
	files      map[int64]domain.File
	nextIngest int64
	nextFile   int64
}

// NewIngestStore creates a new in-memory ingest store.
func NewIngestStore() *IngestStore {
	return &IngestStore{
		ingests: make(map[int64]domain.Ingest),
		files:   make(map[int64]domain.File),
	}
}

// CreateFile stores file metadata and assigns its id.
func (s *IngestStore) CreateFile(_ context.Context, file *domain.File) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextFile++
	file.ID = s.nextFile
	if file.CreatedAt.IsZero() {
		file.CreatedAt = time.Now().UTC()
	}
	s.files[file.ID] = *file
	return nil
}

// Create stores a new ingest and assigns its id.
func (s *IngestStore) Create(_ context.Context, ingest *domain.Ingest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ingest.FileID != nil {
		if _, ok := s.files[*ingest.FileID]; !ok {
			return domain.ErrNotFound
		}
	}
	s.nextIngest++
	ingest.ID = s.nextIngest
	now := time.Now().UTC()
	ingest.CreatedAt = now
	ingest.UpdatedAt = now
	if ingest.Status == "" {
		ingest.Status = domain.IngestCreated
	}
	stored := *ingest
	stored.File = nil
	s.ingests[ingest.ID] = stored
	return nil
}

// Get retrieves an ingest with its file.
func (s *IngestStore) Get(_ context.Context, id int64) (*domain.Ingest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ingest, ok := s.ingests[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	s.attachFile(&ingest)
	return &ingest, nil
}

// List returns one page of a project's ingests ordered by id.
func (s *IngestStore) List(_ context.Context, query domain.IngestQuery) ([]domain.Ingest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	search := strings.ToLower(query.Search)
	results := make([]domain.Ingest, 0)
	for _, ingest := range s.ingests {
		if ingest.ProjectID != query.ProjectID {
			continue
		}
		if query.AfterID != nil && ingest.ID <= *query.AfterID {
			continue
		}
		s.attachFile(&ingest)
		if search != "" && !strings.Contains(strings.ToLower(ingest.Name()), search) {
			continue
		}
		results = append(results, ingest)
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].ID < results[j].ID
	})
	if query.Limit > 0 && len(results) > query.Limit {
		results = results[:query.Limit]
	}
	return results, nil
}

// UpdateStatus records the new status of an ingest.
func (s *IngestStore) UpdateStatus(
	_ context.Context, id int64, status domain.IngestStatus, numberOfPages int, errMsg string,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ingest, ok := s.ingests[id]
	if !ok {
		return domain.ErrNotFound
	}
	ingest.Status = status
	ingest.NumberOfPages = numberOfPages
	ingest.Error = errMsg
	ingest.UpdatedAt = time.Now().UTC()
	s.ingests[id] = ingest
	return nil
}

// Delete removes an ingest and its file metadata.
func (s *IngestStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ingest, ok := s.ingests[id]
	if !ok {
		return domain.ErrNotFound
	}
	delete(s.ingests, id)
	if ingest.FileID != nil {
		delete(s.files, *ingest.FileID)
	}
	return nil
}

// attachFile must be called with the lock held.
func (s *IngestStore) attachFile(ingest *domain.Ingest) {
	if ingest.FileID == nil {
		return
	}
	if f, ok := s.files[*ingest.FileID]; ok {
		ingest.File = &f
	}
}
