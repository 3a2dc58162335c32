package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mhsabu/Neugrove/internal/core/domain"
	"github.com/mhsabu/Neugrove/internal/core/ports/driven"
	"github.com/mhsabu/Neugrove/internal/core/ports/driving"
)

// Ensure ProjectResolver implements the interface.
var _ driving.ProjectResolver = (*ProjectResolver)(nil)

// ProjectResolver binds projects to their vector collections.
type ProjectResolver struct {
	projects driven.ProjectStore
	vectors  driven.VectorStore
}

// NewProjectResolver creates a resolver.
func NewProjectResolver(projects driven.ProjectStore, vectors driven.VectorStore) *ProjectResolver {
	return &ProjectResolver{projects: projects, vectors: vectors}
}

// Resolve looks the project up by uid. Store failures other than a missing
// project are internal errors, not "not found".
func (r *ProjectResolver) Resolve(ctx context.Context, uid string, docs ...domain.Document) (*driving.ProjectContext, error) {
	project, err := r.projects.GetByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: project not found", domain.ErrNotFound)
		}
		return nil, wrapInternal("resolving project "+uid, err)
	}

	pc := &driving.ProjectContext{
		Project: project,
		Vectors: r.vectors.Collection(project),
	}
	if len(docs) > 0 {
		pc.Documents = append([]domain.Document(nil), docs...)
	}
	return pc, nil
}

// Ensure ProjectService implements the interface.
var _ driving.ProjectService = (*ProjectService)(nil)

// ProjectService manages project configuration for operators.
type ProjectService struct {
	projects driven.ProjectStore
}

// NewProjectService creates a project service.
func NewProjectService(projects driven.ProjectStore) *ProjectService {
	return &ProjectService{projects: projects}
}

// Save validates and upserts a project. An empty type means rag.
func (s *ProjectService) Save(ctx context.Context, project domain.Project) (*domain.Project, error) {
	project.UID = strings.TrimSpace(project.UID)
	if project.UID == "" {
		return nil, fmt.Errorf("%w: project uid is required", domain.ErrInvalidInput)
	}
	if project.Name == "" {
		project.Name = project.UID
	}
	if project.Type == "" {
		project.Type = domain.ProjectTypeRAG
	}
	if !project.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown project type %q", domain.ErrInvalidInput, project.Type)
	}
	if project.K < 0 {
		return nil, fmt.Errorf("%w: k must not be negative", domain.ErrInvalidInput)
	}
	if project.Score < 0 || project.Score > 1 {
		return nil, fmt.Errorf("%w: score must be between 0 and 1", domain.ErrInvalidInput)
	}

	saved, err := s.projects.Save(ctx, project)
	if err != nil {
		return nil, wrapInternal("saving project", err)
	}
	return saved, nil
}

// Get returns a project by uid.
func (s *ProjectService) Get(ctx context.Context, uid string) (*domain.Project, error) {
	project, err := s.projects.GetByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: project not found", domain.ErrNotFound)
		}
		return nil, wrapInternal("loading project", err)
	}
	return project, nil
}
