package mcp

import (
	"github.com/mhsabu/Neugrove/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
type Ports struct {
	// Embeddings runs searches and chunk lookups.
	Embeddings driving.EmbeddingsService

	// Ingests reports ingest status and listings.
	Ingests driving.IngestService

	// Auth validates bearer tokens on HTTP. Optional; stdio never uses it.
	Auth TokenValidator
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Embeddings == nil {
		return ErrMissingEmbeddingsService
	}
	if p.Ingests == nil {
		return ErrMissingIngestService
	}
	return nil
}
