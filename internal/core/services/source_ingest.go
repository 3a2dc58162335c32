package services

import (
	"context"
	"fmt"

	"github.com/mhsabu/Neugrove/internal/core/domain"
	"github.com/mhsabu/Neugrove/internal/core/ports/driven"
	"github.com/mhsabu/Neugrove/internal/core/ports/driving"
	"github.com/mhsabu/Neugrove/internal/logger"
)

// Ensure SourceIngestService implements the interface.
var _ driving.SourceIngestService = (*SourceIngestService)(nil)

// SourceIngestService fetches connector documents into a project.
type SourceIngestService struct {
	connectors  driving.ConnectorRegistry
	credentials driving.CredentialResolver
	resolver    driving.ProjectResolver
	splitters   driven.SplitterRegistry
	embedder    driven.EmbeddingService
}

// NewSourceIngestService creates a source ingest service. splitters and
// embedder are only needed for indexing requests.
func NewSourceIngestService(
	connectors driving.ConnectorRegistry,
	credentials driving.CredentialResolver,
	resolver driving.ProjectResolver,
	splitters driven.SplitterRegistry,
	embedder driven.EmbeddingService,
) *SourceIngestService {
	return &SourceIngestService{
		connectors:  connectors,
		credentials: credentials,
		resolver:    resolver,
		splitters:   splitters,
		embedder:    embedder,
	}
}

// Ingest fetches documents from source and attaches them to the project.
// With req.Index set the documents are also chunked into the vector index.
func (s *SourceIngestService) Ingest(
	ctx context.Context, principal domain.Principal, uid string,
	source domain.SourceType, req domain.SourceRequest,
) (*domain.SourceIngestResult, error) {
	connector, err := s.connectors.Get(source)
	if err != nil {
		return nil, err
	}

	cred, err := s.credentials.Resolve(ctx, uid, req.Credential)
	if err != nil {
		return nil, err
	}

	docs, err := connector.Fetch(ctx, cred, req.Params)
	if err != nil {
		return nil, wrapInternal(fmt.Sprintf("fetching from %s", source), err)
	}
	source.AssignIDs(docs)

	pc, err := s.resolver.Resolve(ctx, uid, docs...)
	if err != nil {
		return nil, err
	}

	result := &domain.SourceIngestResult{
		Source:     source,
		Credential: req.Credential.Path,
		Documents:  len(pc.Documents),
		IDs:        make([]string, 0, len(pc.Documents)),
	}
	for i := range pc.Documents {
		result.IDs = append(result.IDs, pc.Documents[i].ID)
	}

	if req.Index {
		if !pc.Project.IsRAG() {
			return nil, domain.ErrNotRAGProject
		}
		result.Indexed, err = s.index(ctx, pc, source)
		if err != nil {
			return nil, err
		}
	}

	logger.Info("User %d pulled %d %s documents into project %s (%d chunks indexed)",
		principal.UserID, result.Documents, source, uid, result.Indexed)
	return result, nil
}

// index splits each document with the default splitter and stores its
// chunks under the document id.
func (s *SourceIngestService) index(ctx context.Context, pc *driving.ProjectContext, source domain.SourceType) (int, error) {
	if s.splitters == nil {
		return 0, fmt.Errorf("%w: no splitters configured", domain.ErrInternal)
	}
	splitter, err := s.splitters.Get(domain.DefaultIngestSplitter)
	if err != nil {
		return 0, err
	}

	total := 0
	for i := range pc.Documents {
		doc := &pc.Documents[i]
		parts := splitter.Split(doc.Text, domain.DefaultIngestChunks)
		if len(parts) == 0 || doc.ID == "" {
			continue
		}
		embeddings, err := embedParts(ctx, s.embedder, parts)
		if err != nil {
			return total, err
		}

		base := make(map[string]any, len(doc.Metadata)+1)
		for k, v := range doc.Metadata {
			base[k] = v
		}
		base["source_type"] = string(source)

		chunks := buildChunks(string(source), doc.ID, parts, embeddings, base)
		if err := replaceSource(ctx, pc.Vectors, doc.ID, chunks); err != nil {
			return total, err
		}
		total += len(chunks)
	}
	return total, nil
}
