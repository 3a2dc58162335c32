package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mhsabu/Neugrove/internal/core/domain"
)

// SearchInput is the input schema for the search_embeddings tool.
type SearchInput struct {
	ProjectUID string   `json:"project_uid" jsonschema:"uid of the rag project to search"`
	Text       string   `json:"text,omitempty" jsonschema:"text to run a similarity search for"`
	Source     string   `json:"source,omitempty" jsonschema:"return every chunk of this source instead of searching"`
	K          *int     `json:"k,omitempty" jsonschema:"maximum number of hits (defaults to the project setting)"`
	Score      *float64 `json:"score,omitempty" jsonschema:"minimum similarity between 0 and 1"`
}

// SearchOutput is the output schema for the search_embeddings tool.
type SearchOutput struct {
	Embeddings []domain.EmbeddingHit `json:"embeddings"`
	Count      int                   `json:"count"`
}

// StatusInput is the input schema for the ingest_status tool.
type StatusInput struct {
	ProjectUID string `json:"project_uid" jsonschema:"uid of the project that owns the ingest"`
	IngestID   int64  `json:"ingest_id" jsonschema:"id returned when the ingest was accepted"`
}

// StatusOutput is the output schema for the ingest_status tool.
type StatusOutput struct {
	IngestID int64               `json:"ingest_id"`
	Status   domain.IngestStatus `json:"status"`
	Terminal bool                `json:"terminal"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_embeddings",
		Description: "Search the vector index of a RAG project",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ingest_status",
		Description: "Report the processing status of an ingest",
	}, s.handleIngestStatus)
}

func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	if input.ProjectUID == "" {
		return nil, SearchOutput{}, fmt.Errorf("%w: project_uid is required", domain.ErrInvalidInput)
	}
	if err := s.authorize(input.ProjectUID); err != nil {
		return nil, SearchOutput{}, err
	}

	hits, err := s.ports.Embeddings.Find(ctx, input.ProjectUID, domain.FindQuery{
		Text:   input.Text,
		Source: input.Source,
		K:      input.K,
		Score:  input.Score,
	})
	if err != nil {
		return nil, SearchOutput{}, err
	}
	if hits == nil {
		hits = []domain.EmbeddingHit{}
	}

	return nil, SearchOutput{Embeddings: hits, Count: len(hits)}, nil
}

func (s *Server) handleIngestStatus(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input StatusInput,
) (*mcp.CallToolResult, StatusOutput, error) {
	if input.ProjectUID == "" || input.IngestID <= 0 {
		return nil, StatusOutput{}, fmt.Errorf("%w: project_uid and ingest_id are required", domain.ErrInvalidInput)
	}
	if err := s.authorize(input.ProjectUID); err != nil {
		return nil, StatusOutput{}, err
	}

	status, err := s.ports.Ingests.Status(ctx, input.ProjectUID, input.IngestID)
	if err != nil {
		return nil, StatusOutput{}, err
	}

	return nil, StatusOutput{IngestID: input.IngestID, Status: status, Terminal: status.IsTerminal()}, nil
}
