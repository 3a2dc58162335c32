package driven

import (
	"context"

	"github.com/mhsabu/Neugrove/internal/core/domain"
)

// ProjectStore persists projects.
type ProjectStore interface {
	// GetByUID returns the project with the public uid or domain.ErrNotFound.
	GetByUID(ctx context.Context, uid string) (*domain.Project, error)

	// GetByID returns the project with the internal id or domain.ErrNotFound.
	GetByID(ctx context.Context, id int64) (*domain.Project, error)

	// Save creates or updates a project keyed by uid and returns it with its id set.
	Save(ctx context.Context, project domain.Project) (*domain.Project, error)
}

// IngestStore persists ingest records and uploaded file metadata.
type IngestStore interface {
	// CreateFile stores file metadata and sets its id.
	CreateFile(ctx context.Context, file *domain.File) error

	// Create stores a new ingest record and sets its id and timestamps.
	Create(ctx context.Context, ingest *domain.Ingest) error

	// Get returns an ingest with its file or domain.ErrNotFound.
	Get(ctx context.Context, id int64) (*domain.Ingest, error)

	// List returns records of one project with id greater than the cursor,
	// in ascending id order.
	List(ctx context.Context, query domain.IngestQuery) ([]domain.Ingest, error)

	// UpdateStatus records a status change with the chunk count and error text.
	UpdateStatus(ctx context.Context, id int64, status domain.IngestStatus, numberOfPages int, errMsg string) error

	// Delete removes the record and its file metadata in one transaction.
	// Returns domain.ErrNotFound when nothing was deleted.
	Delete(ctx context.Context, id int64) error
}
