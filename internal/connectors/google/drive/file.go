package drive

import (
	"context"
	"fmt"
	"io"
	"strings"

	"google.golang.org/api/drive/v3"

	"github.com/mhsabu/Neugrove/internal/connectors/google"
	"github.com/mhsabu/Neugrove/internal/core/domain"
)

// Google Docs MIME types that can be exported.
const (
	MimeTypeGoogleDoc    = "application/vnd.google-apps.document"
	MimeTypeGoogleSheet  = "application/vnd.google-apps.spreadsheet"
	MimeTypeGoogleSlides = "application/vnd.google-apps.presentation"
	MimeTypeFolder       = "application/vnd.google-apps.folder"
)

// Export formats for Google Workspace files.
const (
	ExportMimeText = "text/plain"
	ExportMimeCSV  = "text/csv"
)

// MaxExportSize is the maximum size for exported content (5MB).
const MaxExportSize = 5 * 1024 * 1024

// exportFormats maps Workspace types to their text export.
var exportFormats = map[string]string{
	MimeTypeGoogleDoc:    ExportMimeText,
	MimeTypeGoogleSheet:  ExportMimeCSV,
	MimeTypeGoogleSlides: ExportMimeText,
}

// fileToDocument converts a Drive file to a Document.
// It returns nil for files without text content.
func fileToDocument(ctx context.Context, svc *drive.Service, limiter *google.RateLimiter, file *drive.File) (*domain.Document, error) {
	if file.MimeType == MimeTypeFolder || file.Trashed {
		return nil, nil
	}

	content, err := fetchFileContent(ctx, svc, limiter, file)
	if err != nil || strings.TrimSpace(content) == "" {
		return nil, err
	}

	return &domain.Document{
		ID:   file.Name,
		Text: content,
		Metadata: map[string]any{
			"file_id":       file.Id,
			"file_name":     file.Name,
			"mime_type":     file.MimeType,
			"web_link":      file.WebViewLink,
			"modified_time": file.ModifiedTime,
		},
	}, nil
}

// fetchFileContent exports Workspace files and downloads text files.
// Binary or oversized files yield "".
func fetchFileContent(ctx context.Context, svc *drive.Service, limiter *google.RateLimiter, file *drive.File) (string, error) {
	if err := limiter.Wait(ctx); err != nil {
		return "", err
	}

	if exportMime, ok := exportFormats[file.MimeType]; ok {
		resp, err := svc.Files.Export(file.Id, exportMime).Context(ctx).Download()
		if err != nil {
			return "", fmt.Errorf("export %s: %w", file.Name, google.WrapError(err))
		}
		defer resp.Body.Close()
		return readLimited(resp.Body)
	}

	if !isTextFile(file.MimeType) || file.Size > MaxExportSize {
		return "", nil
	}

	resp, err := svc.Files.Get(file.Id).Context(ctx).Download()
	if err != nil {
		return "", fmt.Errorf("download %s: %w", file.Name, google.WrapError(err))
	}
	defer resp.Body.Close()
	return readLimited(resp.Body)
}

func readLimited(r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxExportSize))
	if err != nil {
		return "", fmt.Errorf("read file content: %w", err)
	}
	return string(data), nil
}

var textTypes = map[string]bool{
	"application/json":       true,
	"application/xml":        true,
	"application/javascript": true,
	"application/x-yaml":     true,
	"application/x-sh":       true,
	"application/sql":        true,
}

// isTextFile checks if a MIME type is likely text content.
func isTextFile(mimeType string) bool {
	return strings.HasPrefix(mimeType, "text/") || textTypes[mimeType]
}
