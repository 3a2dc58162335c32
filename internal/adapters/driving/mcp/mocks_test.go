package mcp

import (
	"context"

	"github.com/mhsabu/Neugrove/internal/core/domain"
	"github.com/mhsabu/Neugrove/internal/core/ports/driving"
)

// mockEmbeddingsService is a mock implementation of driving.EmbeddingsService.
type mockEmbeddingsService struct {
	hits      []domain.EmbeddingHit
	chunk     *domain.Chunk
	lastUID   string
	lastQuery domain.FindQuery
	err       error
}

func (m *mockEmbeddingsService) Reset(_ context.Context, uid string) (*driving.ResetResult, error) {
	return &driving.ResetResult{UID: uid}, m.err
}

func (m *mockEmbeddingsService) Find(_ context.Context, uid string, q domain.FindQuery) ([]domain.EmbeddingHit, error) {
	m.lastUID = uid
	m.lastQuery = q
	return m.hits, m.err
}

func (m *mockEmbeddingsService) Get(_ context.Context, _, _ string) (*domain.Chunk, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.chunk, nil
}

// mockIngestService implements the read side of driving.IngestService.
// Unused methods panic through the nil embedded interface.
type mockIngestService struct {
	driving.IngestService

	status domain.IngestStatus
	page   *domain.IngestPage
	err    error
}

func (m *mockIngestService) Status(_ context.Context, _ string, _ int64) (domain.IngestStatus, error) {
	return m.status, m.err
}

func (m *mockIngestService) List(_ context.Context, _ string, _ driving.ListQuery) (*domain.IngestPage, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.page == nil {
		return &domain.IngestPage{}, nil
	}
	return m.page, nil
}

func validPorts() *Ports {
	return &Ports{Embeddings: &mockEmbeddingsService{}, Ingests: &mockIngestService{}}
}
