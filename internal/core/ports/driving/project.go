package driving

import (
	"context"

	"github.com/mhsabu/Neugrove/internal/core/domain"
	"github.com/mhsabu/Neugrove/internal/core/ports/driven"
)

// ProjectContext is a resolved project bound to its vector collection.
type ProjectContext struct {
	Project *domain.Project
	Vectors driven.VectorCollection
	// Documents holds documents attached while building the context.
	Documents []domain.Document
}

// ProjectResolver maps a public project uid to its configuration.
type ProjectResolver interface {
	// Resolve returns domain.ErrNotFound for unknown projects. Any documents
	// passed are attached to the returned context.
	Resolve(ctx context.Context, uid string, docs ...domain.Document) (*ProjectContext, error)
}

// ProjectService manages projects from operator tooling.
type ProjectService interface {
	Save(ctx context.Context, project domain.Project) (*domain.Project, error)
	Get(ctx context.Context, uid string) (*domain.Project, error)
}
