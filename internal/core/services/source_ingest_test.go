package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhsabu/Neugrove/internal/core/domain"
)

// fakeConnector returns fixed documents and records the credential it saw.
type fakeConnector struct {
	source domain.SourceType
	docs   []domain.Document
	err    error
	cred   domain.Credential
	params map[string]string
}

func (c *fakeConnector) Type() domain.SourceType { return c.source }

func (c *fakeConnector) Fetch(_ context.Context, cred domain.Credential, params map[string]string) ([]domain.Document, error) {
	c.cred = cred
	c.params = params
	if c.err != nil {
		return nil, c.err
	}
	out := make([]domain.Document, len(c.docs))
	copy(out, c.docs)
	return out, nil
}

func newSourceService(env *testEnv, connectors ...*fakeConnector) *SourceIngestService {
	registry := NewConnectorRegistry()
	for _, c := range connectors {
		registry.Register(c)
	}
	creds := NewCredentialResolver(&mockSecretStore{vals: map[string]string{
		"neugrove/projects/rag1/notion":   "secret_n",
		"neugrove/projects/agent1/notion": "secret_a",
	}}, "", 0)
	return NewSourceIngestService(registry, creds, env.resolver, env.splitters, env.embedder)
}

func notionConnector() *fakeConnector {
	return &fakeConnector{
		source: domain.SourceNotion,
		docs: []domain.Document{
			{ID: "blk-1", Text: "Roadmap. Ship search.", Metadata: map[string]any{"page_id": "page-1", "title": "Roadmap"}},
			{ID: "blk-2", Text: "Hiring plan.", Metadata: map[string]any{"page_id": "page-2"}},
		},
	}
}

func TestSourceIngestService_AttachOnly(t *testing.T) {
	env := newTestEnv(t)
	conn := notionConnector()
	svc := newSourceService(env, conn)

	res, err := svc.Ingest(context.Background(), moderator, "rag1", domain.SourceNotion, domain.SourceRequest{
		Credential: domain.CredentialRef{Path: "neugrove/projects/rag1/notion"},
		Params:     map[string]string{"page_ids": "page-1,page-2"},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.SourceNotion, res.Source)
	assert.Equal(t, "neugrove/projects/rag1/notion", res.Credential)
	assert.Equal(t, 2, res.Documents)
	assert.Equal(t, []string{"page-1", "page-2"}, res.IDs)
	assert.Zero(t, res.Indexed)

	assert.Equal(t, "secret_n", conn.cred.Token)
	assert.Equal(t, "page-1,page-2", conn.params["page_ids"])
	assert.Zero(t, env.collection(env.rag).Len())
}

func TestSourceIngestService_Index(t *testing.T) {
	env := newTestEnv(t)
	svc := newSourceService(env, notionConnector())
	ctx := context.Background()

	req := domain.SourceRequest{Credential: domain.CredentialRef{Path: "neugrove/projects/rag1/notion"}, Index: true}
	res, err := svc.Ingest(ctx, moderator, "rag1", domain.SourceNotion, req)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Indexed)

	chunks, err := env.vectors.Collection(env.rag).BySource(ctx, "page-1")
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "notion", chunks[0].Metadata["source_type"])
	assert.Equal(t, "Roadmap", chunks[0].Metadata["title"])

	// Indexing again replaces the chunks of each document.
	_, err = svc.Ingest(ctx, moderator, "rag1", domain.SourceNotion, req)
	require.NoError(t, err)
	assert.Equal(t, 2, env.collection(env.rag).Len())
}

func TestSourceIngestService_Errors(t *testing.T) {
	env := newTestEnv(t)
	failing := &fakeConnector{source: domain.SourceSlack, err: domain.ErrAuthInvalid}
	svc := newSourceService(env, notionConnector(), failing)
	ctx := context.Background()
	ref := domain.CredentialRef{Path: "neugrove/projects/rag1/notion"}

	tests := []struct {
		name   string
		uid    string
		source domain.SourceType
		req    domain.SourceRequest
		want   error
	}{
		{"unknown source", "rag1", "dropbox", domain.SourceRequest{Credential: ref}, domain.ErrUnsupportedType},
		{"foreign credential", "rag1", domain.SourceNotion,
			domain.SourceRequest{Credential: domain.CredentialRef{Path: "neugrove/projects/agent1/notion"}}, domain.ErrPermissionDenied},
		{"connector auth failure", "rag1", domain.SourceSlack, domain.SourceRequest{Credential: ref}, domain.ErrAuthInvalid},
		{"index into non-rag project", "agent1", domain.SourceNotion,
			domain.SourceRequest{Credential: domain.CredentialRef{Path: "neugrove/projects/agent1/notion"}, Index: true}, domain.ErrNotRAGProject},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Ingest(ctx, moderator, tt.uid, tt.source, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestConnectorRegistry(t *testing.T) {
	r := NewConnectorRegistry(&fakeConnector{source: domain.SourceSlack}, &fakeConnector{source: domain.SourceGitHub})
	r.Register(&fakeConnector{source: domain.SourceDiscord})

	assert.Equal(t, []domain.SourceType{domain.SourceDiscord, domain.SourceGitHub, domain.SourceSlack}, r.List())

	c, err := r.Get(domain.SourceGitHub)
	require.NoError(t, err)
	assert.Equal(t, domain.SourceGitHub, c.Type())

	_, err = r.Get(domain.SourceNotion)
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}
