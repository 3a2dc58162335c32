package httpapi

import (
	"context"
	"io"
	"sync"

	"github.com/mhsabu/Neugrove/internal/core/domain"
	"github.com/mhsabu/Neugrove/internal/core/ports/driving"
)

type mockEmbeddings struct {
	mu        sync.Mutex
	lastQuery domain.FindQuery
	hits      []domain.EmbeddingHit
	chunk     *domain.Chunk
	err       error
}

func (m *mockEmbeddings) Reset(_ context.Context, uid string) (*driving.ResetResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &driving.ResetResult{UID: uid, Name: "Docs"}, nil
}

func (m *mockEmbeddings) Find(_ context.Context, _ string, query domain.FindQuery) ([]domain.EmbeddingHit, error) {
	m.mu.Lock()
	m.lastQuery = query
	m.mu.Unlock()
	return m.hits, m.err
}

func (m *mockEmbeddings) Get(_ context.Context, _, chunkID string) (*domain.Chunk, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.chunk == nil || m.chunk.ID != chunkID {
		return nil, domain.ErrNotFound
	}
	return m.chunk, nil
}

type mockIngests struct {
	mu         sync.Mutex
	principal  domain.Principal
	text       driving.TextIngest
	url        driving.URLIngest
	uploadName string
	uploadBody string
	opts       domain.IngestOptions
	list       driving.ListQuery
	deleted    []int64
	err        error
}

func (m *mockIngests) receipt(msg string) (*driving.IngestReceipt, error) {
	if m.err != nil {
		return nil, m.err
	}
	zero := 0
	return &driving.IngestReceipt{ID: 42, Chunks: &zero, Message: msg}, nil
}

func (m *mockIngests) IngestText(_ context.Context, p domain.Principal, _ string, req driving.TextIngest) (*driving.IngestReceipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.principal = p
	m.text = req
	return m.receipt(driving.MessageProcessing)
}

func (m *mockIngests) IngestFile(_ context.Context, p domain.Principal, _ string, up driving.Upload, opts domain.IngestOptions) (*driving.IngestReceipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	body, err := io.ReadAll(up.Body)
	if err != nil {
		return nil, err
	}
	m.principal = p
	m.uploadName = up.Name
	m.uploadBody = string(body)
	m.opts = opts
	return m.receipt(driving.MessageProcessing)
}

func (m *mockIngests) IngestURL(_ context.Context, p domain.Principal, _ string, req driving.URLIngest) (*driving.IngestReceipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.principal = p
	m.url = req
	return m.receipt(driving.MessageProcessing)
}

func (m *mockIngests) Status(_ context.Context, _ string, id int64) (domain.IngestStatus, error) {
	if m.err != nil {
		return "", m.err
	}
	if id != 42 {
		return "", domain.ErrNotFound
	}
	return domain.IngestProcessing, nil
}

func (m *mockIngests) List(_ context.Context, _ string, query driving.ListQuery) (*domain.IngestPage, error) {
	m.mu.Lock()
	m.list = query
	m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return &domain.IngestPage{}, nil
}

func (m *mockIngests) SourceChunks(_ context.Context, _ string, _ int64) (*domain.SourceChunks, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &domain.SourceChunks{IDs: []string{"c1", "c2"}, Documents: []string{"a", "b"}}, nil
}

func (m *mockIngests) Delete(_ context.Context, _ string, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.deleted = append(m.deleted, id)
	return nil
}

type mockSources struct {
	mu     sync.Mutex
	source domain.SourceType
	req    domain.SourceRequest
	err    error
}

func (m *mockSources) Ingest(_ context.Context, _ domain.Principal, _ string, source domain.SourceType, req domain.SourceRequest) (*domain.SourceIngestResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.source = source
	m.req = req
	if m.err != nil {
		return nil, m.err
	}
	return &domain.SourceIngestResult{Source: source, Credential: req.Credential.Path, Documents: 1, IDs: []string{"doc"}}, nil
}

type mockProcessor struct {
	ids []int64
}

func (m *mockProcessor) Process(_ context.Context, id int64) (string, error) {
	m.ids = append(m.ids, id)
	return "Ingest processed", nil
}
