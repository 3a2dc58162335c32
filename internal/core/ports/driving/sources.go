package driving

import (
	"context"

	"github.com/mhsabu/Neugrove/internal/core/domain"
	"github.com/mhsabu/Neugrove/internal/core/ports/driven"
)

// SourceIngestService pulls documents from third-party sources into a project.
type SourceIngestService interface {
	Ingest(ctx context.Context, principal domain.Principal, uid string,
		source domain.SourceType, req domain.SourceRequest) (*domain.SourceIngestResult, error)
}

// ConnectorRegistry maps source types to connectors.
type ConnectorRegistry interface {
	// Get returns the connector or domain.ErrUnsupportedType.
	Get(source domain.SourceType) (driven.Connector, error)

	// Register adds or replaces a connector.
	Register(connector driven.Connector)

	// List returns the registered source types in sorted order.
	List() []domain.SourceType
}

// CredentialResolver turns credential refs into short-lived credentials.
type CredentialResolver interface {
	// Resolve returns domain.ErrPermissionDenied for refs outside the
	// project's scope.
	Resolve(ctx context.Context, projectUID string, ref domain.CredentialRef) (domain.Credential, error)
}
