package driving

import (
	"context"
	"io"

	"github.com/mhsabu/Neugrove/internal/core/domain"
)

// Messages returned by ingest operations.
const (
	MessageProcessing    = "We are processing your file"
	MessageIngestDeleted = "Ingest deleted successfully"
)

// Upload is a file received from a client.
type Upload struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// TextIngest is raw text to ingest as a file.
type TextIngest struct {
	Text     string `json:"text"`
	Chunks   int    `json:"chunks"`
	Splitter string `json:"splitter"`
}

// URLIngest is a URL to ingest.
type URLIngest struct {
	URL      string `json:"url"`
	Chunks   int    `json:"chunks"`
	Splitter string `json:"splitter"`
}

// IngestReceipt acknowledges an accepted ingest. Chunks is the chunk count
// known when the record was created, zero until the job finishes.
type IngestReceipt struct {
	ID      int64  `json:"id"`
	Chunks  *int   `json:"chunks,omitempty"`
	Message string `json:"message"`
}

// IngestService accepts ingests, reports on them and removes them.
// Acceptance never waits for extraction: work is published to the job queue.
type IngestService interface {
	IngestText(ctx context.Context, principal domain.Principal, uid string, req TextIngest) (*IngestReceipt, error)
	IngestFile(ctx context.Context, principal domain.Principal, uid string, upload Upload, opts domain.IngestOptions) (*IngestReceipt, error)
	IngestURL(ctx context.Context, principal domain.Principal, uid string, req URLIngest) (*IngestReceipt, error)

	// Status returns the status of an ingest owned by the project.
	Status(ctx context.Context, uid string, ingestID int64) (domain.IngestStatus, error)

	// List returns a page of the project's ingests after the cursor.
	List(ctx context.Context, uid string, query ListQuery) (*domain.IngestPage, error)

	// SourceChunks returns the chunks stored for an ingest.
	SourceChunks(ctx context.Context, uid string, ingestID int64) (*domain.SourceChunks, error)

	// Delete removes an ingest and its vectors after checking ownership.
	Delete(ctx context.Context, uid string, ingestID int64) error
}

// ListQuery is a listing request before project resolution.
type ListQuery struct {
	Limit int
	After *int64
	Q     string
}

// IngestProcessor runs the extraction pipeline for one ingest.
type IngestProcessor interface {
	// Process extracts, splits, embeds and stores the ingest and returns a
	// summary message.
	Process(ctx context.Context, ingestID int64) (string, error)
}
