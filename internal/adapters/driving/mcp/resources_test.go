package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhsabu/Neugrove/internal/core/domain"
)

func TestSplitProjectURI(t *testing.T) {
	tests := []struct {
		name string
		uri  string
		uid  string
		rest string
	}{
		{"ingests", "neugrove://projects/rag1/ingests", "rag1", "ingests"},
		{"chunk", "neugrove://projects/rag1/chunks/c-1", "rag1", "chunks/c-1"},
		{"project only", "neugrove://projects/rag1", "", ""},
		{"wrong scheme", "file://projects/rag1/ingests", "", ""},
		{"empty", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uid, rest := splitProjectURI(tt.uri)
			assert.Equal(t, tt.uid, uid)
			assert.Equal(t, tt.rest, rest)
		})
	}
}

// Helper to create a ReadResourceRequest with the given URI.
func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestServer_handleIngestsResource(t *testing.T) {
	ctx := context.Background()

	t.Run("lists ingests", func(t *testing.T) {
		ingests := &mockIngestService{page: &domain.IngestPage{Results: []domain.Ingest{
			{ID: 1, URL: "https://example.com/a", Status: domain.IngestDone},
			{ID: 2, File: &domain.File{FileName: "b.pdf"}, Status: domain.IngestFailed, Error: "no text"},
		}}}
		server, err := NewServer(&Ports{Embeddings: &mockEmbeddingsService{}, Ingests: ingests})
		require.NoError(t, err)

		result, err := server.handleIngestsResource(ctx, makeReadResourceRequest("neugrove://projects/rag1/ingests"))
		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Contains(t, result.Contents[0].Text, "https://example.com/a")
		assert.Contains(t, result.Contents[0].Text, "b.pdf")
		assert.Contains(t, result.Contents[0].Text, `"error": "no text"`)
	})

	t.Run("empty list", func(t *testing.T) {
		server, err := NewServer(validPorts())
		require.NoError(t, err)

		result, err := server.handleIngestsResource(ctx, makeReadResourceRequest("neugrove://projects/rag1/ingests"))
		require.NoError(t, err)
		assert.Equal(t, "[]", result.Contents[0].Text)
	})

	t.Run("invalid URI", func(t *testing.T) {
		server, err := NewServer(validPorts())
		require.NoError(t, err)

		_, err = server.handleIngestsResource(ctx, makeReadResourceRequest("neugrove://invalid"))
		require.Error(t, err)
	})

	t.Run("list failure", func(t *testing.T) {
		server, err := NewServer(&Ports{
			Embeddings: &mockEmbeddingsService{},
			Ingests:    &mockIngestService{err: errors.New("database error")},
		})
		require.NoError(t, err)

		_, err = server.handleIngestsResource(ctx, makeReadResourceRequest("neugrove://projects/rag1/ingests"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "listing ingests")
	})
}

func TestServer_handleChunkResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns chunk text", func(t *testing.T) {
		embeddings := &mockEmbeddingsService{chunk: &domain.Chunk{ID: "c-1", Text: "chunk body"}}
		server, err := NewServer(&Ports{Embeddings: embeddings, Ingests: &mockIngestService{}})
		require.NoError(t, err)

		result, err := server.handleChunkResource(ctx, makeReadResourceRequest("neugrove://projects/rag1/chunks/c-1"))
		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "chunk body", result.Contents[0].Text)
		assert.Equal(t, "text/plain", result.Contents[0].MIMEType)
	})

	t.Run("invalid URI", func(t *testing.T) {
		server, err := NewServer(validPorts())
		require.NoError(t, err)

		_, err = server.handleChunkResource(ctx, makeReadResourceRequest("neugrove://projects/rag1/chunks/"))
		require.Error(t, err)
	})

	t.Run("lookup failure", func(t *testing.T) {
		embeddings := &mockEmbeddingsService{err: domain.ErrNotFound}
		server, err := NewServer(&Ports{Embeddings: embeddings, Ingests: &mockIngestService{}})
		require.NoError(t, err)

		_, err = server.handleChunkResource(ctx, makeReadResourceRequest("neugrove://projects/rag1/chunks/c-9"))
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.Contains(t, err.Error(), "getting chunk")
	})
	t.Run("caller without a project role", func(t *testing.T) {
		embeddings := &mockEmbeddingsService{chunk: &domain.Chunk{ID: "c-1", Text: "chunk body"}}
		server := newServer(&Ports{Embeddings: embeddings, Ingests: &mockIngestService{}}, &domain.Principal{Role: domain.RoleMember})

		_, err := server.handleChunkResource(ctx, makeReadResourceRequest("neugrove://projects/rag1/chunks/c-1"))
		assert.ErrorIs(t, err, domain.ErrPermissionDenied)
	})
}
