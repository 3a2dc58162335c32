// Package plaintext extracts text from plain text and source files.
package plaintext

import (
	"context"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/mhsabu/Neugrove/internal/core/domain"
	"github.com/mhsabu/Neugrove/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.TextExtractor = (*Extractor)(nil)

var supportedTypes = map[string]bool{
	"text/plain":         true,
	"text/markdown":      true,
	"text/x-markdown":    true,
	"text/csv":           true,
	"text/yaml":          true,
	"text/toml":          true,
	"application/json":   true,
	"application/xml":    true,
	"application/x-yaml": true,
}

var supportedExtensions = map[string]bool{
	".txt": true, ".md": true, ".markdown": true, ".csv": true, ".json": true,
	".yaml": true, ".yml": true, ".toml": true, ".xml": true, ".rst": true,
	".go": true, ".py": true, ".js": true, ".ts": true, ".java": true,
	".rs": true, ".rb": true, ".sh": true, ".sql": true, ".c": true, ".h": true,
}

// Extractor handles plain text content.
type Extractor struct{}

// New creates a new plaintext extractor.
func New() *Extractor {
	return &Extractor{}
}

// Name returns the extractor name.
func (e *Extractor) Name() string {
	return "plaintext"
}

// Supports reports whether the content type or file extension is text.
func (e *Extractor) Supports(contentType, name string) bool {
	if supportedTypes[contentType] || strings.HasPrefix(contentType, "text/") {
		return true
	}
	return supportedExtensions[strings.ToLower(filepath.Ext(name))]
}

// Extract returns data as text. Invalid UTF-8 is rejected.
func (e *Extractor) Extract(_ context.Context, _ string, data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", domain.ErrInvalidInput
	}
	text := strings.TrimPrefix(string(data), "\ufeff")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.TrimSpace(text), nil
}
