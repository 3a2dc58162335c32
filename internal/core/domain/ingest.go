package domain

import (
	"encoding/json"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"
)

// Ingest defaults applied when a request leaves a field empty.
const (
	DefaultIngestOptions  = "{}"
	DefaultIngestChunks   = 256
	DefaultIngestSplitter = "sentence"

	// MaxIngestChunks bounds the chunk size a request may ask for.
	MaxIngestChunks = 8192
)

// IngestStatus is the lifecycle state of an ingest record.
type IngestStatus string

const (
	IngestCreated    IngestStatus = "created"
	IngestProcessing IngestStatus = "processing"
	IngestDone       IngestStatus = "done"
	IngestFailed     IngestStatus = "failed"
)

var ingestTransitions = map[IngestStatus][]IngestStatus{
	IngestCreated:    {IngestProcessing},
	IngestProcessing: {IngestDone, IngestFailed},
	IngestFailed:     {IngestProcessing},
}

// CanTransition reports whether s may move to next.
// Records never skip processing on their way to a terminal state.
func (s IngestStatus) CanTransition(next IngestStatus) bool {
	for _, allowed := range ingestTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the background job has finished with the record.
func (s IngestStatus) IsTerminal() bool {
	return s == IngestDone || s == IngestFailed
}

// IngestOptions are the extraction settings stored with an ingest record.
type IngestOptions struct {
	// Options is a raw JSON object with extra metadata for the chunks.
	Options  string `json:"options"`
	Chunks   int    `json:"chunks"`
	Splitter string `json:"splitter"`
}

// Normalize fills defaults for unset fields.
func (o IngestOptions) Normalize() IngestOptions {
	if strings.TrimSpace(o.Options) == "" {
		o.Options = DefaultIngestOptions
	}
	if o.Chunks <= 0 {
		o.Chunks = DefaultIngestChunks
	}
	if o.Splitter == "" {
		o.Splitter = DefaultIngestSplitter
	}
	return o
}

// ExtraOptions is the decoded form of IngestOptions.Options.
type ExtraOptions struct {
	Metadata map[string]any `json:"metadata,omitempty"`
	Keywords []string       `json:"keywords,omitempty"`
}

// ParsedOptions decodes the JSON options string.
func (o IngestOptions) ParsedOptions() (ExtraOptions, error) {
	var extra ExtraOptions
	raw := strings.TrimSpace(o.Options)
	if raw == "" {
		return extra, nil
	}
	if err := json.Unmarshal([]byte(raw), &extra); err != nil {
		return extra, fmt.Errorf("%w: options must be a JSON object: %v", ErrInvalidInput, err)
	}
	return extra, nil
}

// File is an uploaded file kept in object storage.
type File struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	ProjectUID  string    `json:"project_uid"`
	FilePath    string    `json:"file_path"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
}

// FileKey builds the object storage key for a stored file name.
func FileKey(projectUID, storedName string) string {
	return path.Join("uploads", projectUID, storedName)
}

// Ingest is one ingestion request and its progress.
type Ingest struct {
	ID            int64         `json:"id"`
	UserID        int64         `json:"user_id"`
	ProjectID     int64         `json:"project_id"`
	FileID        *int64        `json:"file_id,omitempty"`
	File          *File         `json:"file,omitempty"`
	URL           string        `json:"url,omitempty"`
	Status        IngestStatus  `json:"status"`
	NumberOfPages int           `json:"number_of_pages"`
	ExtraData     IngestOptions `json:"extra_data"`
	Error         string        `json:"error,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// Source returns the tag its chunks carry in the vector index: the last
// segment of the stored file path, or "<id>-<last url segment>" for URL
// ingests so that ingests of the same URL keep separate chunks.
func (i *Ingest) Source() string {
	if i.File != nil && i.File.FilePath != "" {
		return path.Base(i.File.FilePath)
	}
	if i.URL == "" {
		return ""
	}
	return fmt.Sprintf("%d-%s", i.ID, urlSegment(i.URL))
}

// urlSegment returns the last non-empty path segment of raw, or its host.
func urlSegment(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "url"
	}
	if seg := path.Base(strings.TrimRight(u.Path, "/")); seg != "." && seg != "/" && seg != "" {
		return seg
	}
	if u.Host != "" {
		return u.Host
	}
	return "url"
}

// BelongsTo reports whether the ingest is owned by the project.
func (i *Ingest) BelongsTo(projectID int64) bool {
	return i.ProjectID == projectID
}

// JobKind returns the background job that processes this ingest.
func (i *Ingest) JobKind() JobKind {
	if i.FileID != nil || i.File != nil {
		return JobExtractFile
	}
	return JobExtractURL
}

// Name returns a human readable label used for listing filters.
func (i *Ingest) Name() string {
	if i.File != nil {
		return i.File.FileName
	}
	return i.URL
}

// IngestQuery selects a page of ingest records.
type IngestQuery struct {
	ProjectID int64
	Limit     int
	// AfterID is the cursor: only records with a greater id are returned.
	AfterID *int64
	// Search is a case-insensitive substring of the file name or URL.
	Search string
}

// IngestPage is one page of a listing. After is nil when the page is empty.
type IngestPage struct {
	After   *int64   `json:"after"`
	Results []Ingest `json:"results"`
}

// Listing limits.
const (
	DefaultListLimit = 10
	MaxListLimit     = 100
)

// ClampLimit applies the default and maximum page sizes.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}
