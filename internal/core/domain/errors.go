package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors. Every error returned by a
// service wraps exactly one of these kinds so transports can map it.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidState indicates the entity exists but cannot serve the request
	// in its current state (wrong project type, illegal status transition).
	ErrInvalidState = errors.New("invalid state")

	// ErrPermissionDenied indicates the caller may not touch the entity.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrInternal indicates an unexpected infrastructure failure.
	// The wrapped detail is logged, never returned to clients.
	ErrInternal = errors.New("internal error")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown connector, splitter or content type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrUnauthenticated indicates the request carried no usable identity.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured
	// or did not answer.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrVectorIndexUnavailable indicates the vector index is not reachable.
	ErrVectorIndexUnavailable = errors.New("vector index unavailable")

	// ErrLockHeld indicates another worker already owns the lock.
	ErrLockHeld = errors.New("lock held")

	// Connector Errors.

	// ErrAuthInvalid indicates the authentication credentials are invalid.
	ErrAuthInvalid = errors.New("authentication invalid")

	// ErrConnectorValidation indicates connector parameters are missing or wrong.
	ErrConnectorValidation = errors.New("connector validation failed")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)

// ErrNotRAGProject is returned for embeddings operations on non-rag projects.
var ErrNotRAGProject = fmt.Errorf("%w: Only available for RAG projects.", ErrInvalidState)

// PublicError carries a message that transports may show to clients even
// when its kind is ErrInternal.
type PublicError struct {
	Kind    error
	Message string
}

// NewPublicError wraps kind with a client-facing message.
func NewPublicError(kind error, message string) *PublicError {
	return &PublicError{Kind: kind, Message: message}
}

func (e *PublicError) Error() string { return e.Kind.Error() + ": " + e.Message }

func (e *PublicError) Unwrap() error { return e.Kind }

// Kind returns the domain error kind wrapped by err, or ErrInternal when err
// carries no known kind. A nil error has no kind.
func Kind(err error) error {
	if err == nil {
		return nil
	}
	for _, kind := range kinds {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return ErrInternal
}

var kinds = []error{
	ErrNotFound,
	ErrInvalidState,
	ErrPermissionDenied,
	ErrInvalidInput,
	ErrUnsupportedType,
	ErrUnauthenticated,
	ErrAuthInvalid,
	ErrConnectorValidation,
	ErrRateLimited,
	ErrEmbeddingUnavailable,
	ErrVectorIndexUnavailable,
	ErrLockHeld,
	ErrInternal,
}
