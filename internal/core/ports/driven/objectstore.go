package driven

import (
	"context"
	"io"
)

// ObjectStore keeps uploaded file bytes under slash separated keys.
type ObjectStore interface {
	// Put writes the object, replacing any existing one.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error

	// Get opens the object or returns domain.ErrNotFound.
	// The caller must close the reader.
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the object. Missing objects are not an error.
	Delete(ctx context.Context, key string) error
}
