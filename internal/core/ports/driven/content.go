package driven

import (
	"context"

	"github.com/mhsabu/Neugrove/internal/core/domain"
)

// TextExtractor turns file bytes into plain text.
type TextExtractor interface {
	// Name identifies the extractor.
	Name() string

	// Supports reports whether the extractor handles the content.
	// contentType may be empty; name is the file name.
	Supports(contentType, name string) bool

	// Extract returns the text content.
	Extract(ctx context.Context, name string, data []byte) (string, error)
}

// ExtractorRegistry selects the extractor for a file.
type ExtractorRegistry interface {
	// Extract runs the first extractor that supports the file.
	// Returns domain.ErrUnsupportedType when none does.
	Extract(ctx context.Context, name, contentType string, data []byte) (string, error)
}

// Splitter cuts text into chunks of roughly chunkSize tokens.
type Splitter interface {
	Name() string
	Split(text string, chunkSize int) []string
}

// SplitterRegistry looks splitters up by name.
type SplitterRegistry interface {
	// Get returns the splitter or domain.ErrUnsupportedType.
	Get(name string) (Splitter, error)
	Has(name string) bool
}

// FetchedContent is the body of a fetched URL.
type FetchedContent struct {
	Data        []byte
	ContentType string
	// Name is the last path segment of the URL, used for extractor selection.
	Name string
}

// URLFetcher downloads URL ingests.
type URLFetcher interface {
	Fetch(ctx context.Context, url string) (*FetchedContent, error)
}

// Connector fetches documents from a third-party source.
// Each source type (drive, notion, slack, discord, github) implements this interface.
type Connector interface {
	// Type returns the source type served by the connector.
	Type() domain.SourceType

	// Fetch returns the documents selected by params using the credential.
	// Missing or malformed params return domain.ErrConnectorValidation.
	Fetch(ctx context.Context, cred domain.Credential, params map[string]string) ([]domain.Document, error)
}

// SecretStore resolves secret paths to values.
type SecretStore interface {
	Name() string
	Get(ctx context.Context, path string) (string, error)
	Health(ctx context.Context) error
}
