package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mhsabu/Neugrove/internal/core/ports/driving"
)

const (
	// uriScheme is the custom URI scheme for gateway resources.
	uriScheme = "neugrove://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "projects/{projectUid}/ingests",
		Name:        "project-ingests",
		Description: "Most recent ingests of a project",
		MIMEType:    "application/json",
	}, s.handleIngestsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "projects/{projectUid}/chunks/{chunkId}",
		Name:        "chunk-content",
		Description: "Text of a stored chunk",
		MIMEType:    "text/plain",
	}, s.handleChunkResource)
}

// handleIngestsResource returns the first page of a project's ingests.
func (s *Server) handleIngestsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	uid, rest := splitProjectURI(req.Params.URI)
	if uid == "" || rest != "ingests" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err := s.authorize(uid); err != nil {
		return nil, err
	}

	page, err := s.ports.Ingests.List(ctx, uid, driving.ListQuery{})
	if err != nil {
		return nil, fmt.Errorf("listing ingests: %w", err)
	}

	type ingestInfo struct {
		ID     int64  `json:"id"`
		Name   string `json:"name"`
		Status string `json:"status"`
		Error  string `json:"error,omitempty"`
	}

	infos := make([]ingestInfo, len(page.Results))
	for i := range page.Results {
		ing := &page.Results[i]
		infos[i] = ingestInfo{
			ID:     ing.ID,
			Name:   ing.Name(),
			Status: string(ing.Status),
			Error:  ing.Error,
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling ingests: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleChunkResource returns the text of a single chunk.
func (s *Server) handleChunkResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	uid, rest := splitProjectURI(req.Params.URI)
	chunkID, ok := strings.CutPrefix(rest, "chunks/")
	if uid == "" || !ok || chunkID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err := s.authorize(uid); err != nil {
		return nil, err
	}

	chunk, err := s.ports.Embeddings.Get(ctx, uid, chunkID)
	if err != nil {
		return nil, fmt.Errorf("getting chunk: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     chunk.Text,
		}},
	}, nil
}

// splitProjectURI splits neugrove://projects/{uid}/{rest} into uid and rest.
func splitProjectURI(uri string) (uid, rest string) {
	const prefix = uriScheme + "projects/"

	tail, ok := strings.CutPrefix(uri, prefix)
	if !ok {
		return "", ""
	}
	uid, rest, ok = strings.Cut(tail, "/")
	if !ok {
		return "", ""
	}
	return uid, rest
}
