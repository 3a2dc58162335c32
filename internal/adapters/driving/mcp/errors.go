// Package mcp provides an MCP (Model Context Protocol) server adapter for the gateway.
// It lets AI assistants search project embeddings and follow ingest progress.
package mcp

import "errors"

// ErrMissingEmbeddingsService is returned when the embeddings service is not provided.
var ErrMissingEmbeddingsService = errors.New("mcp: embeddings service is required")

// ErrMissingIngestService is returned when the ingest service is not provided.
var ErrMissingIngestService = errors.New("mcp: ingest service is required")
