package extractors

import (
	"context"
	"fmt"
	"mime"
	"strings"

	"github.com/mhsabu/Neugrove/internal/core/domain"
	"github.com/mhsabu/Neugrove/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.ExtractorRegistry = (*Registry)(nil)

// Registry selects the first registered extractor that supports a file.
type Registry struct {
	extractors []driven.TextExtractor
}

// NewRegistry creates a registry with the given extractors in priority order.
func NewRegistry(extractors ...driven.TextExtractor) *Registry {
	return &Registry{extractors: extractors}
}

// Register appends an extractor with the lowest priority.
func (r *Registry) Register(e driven.TextExtractor) {
	r.extractors = append(r.extractors, e)
}

// Extract converts data to text using the extractor for its type.
func (r *Registry) Extract(ctx context.Context, name, contentType string, data []byte) (string, error) {
	ct := NormalizeContentType(contentType)
	for _, e := range r.extractors {
		if e.Supports(ct, name) {
			text, err := e.Extract(ctx, name, data)
			if err != nil {
				return "", fmt.Errorf("extract %s with %s: %w", name, e.Name(), err)
			}
			return text, nil
		}
	}
	return "", fmt.Errorf("%w: no extractor for %q (%s)", domain.ErrUnsupportedType, name, contentType)
}

// Names returns the registered extractor names in priority order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.extractors))
	for i, e := range r.extractors {
		names[i] = e.Name()
	}
	return names
}

// NormalizeContentType drops parameters such as charset and lowercases the type.
func NormalizeContentType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	}
	return mt
}
