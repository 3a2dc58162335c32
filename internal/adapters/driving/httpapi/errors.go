package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/mhsabu/Neugrove/internal/core/domain"
	"github.com/mhsabu/Neugrove/internal/logger"
)

const internalDetail = "Internal server error"

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// StatusFor maps a domain error kind to an HTTP status.
func StatusFor(err error) int {
	switch domain.Kind(err) {
	case domain.ErrInvalidState, domain.ErrInvalidInput, domain.ErrUnsupportedType, domain.ErrConnectorValidation:
		return http.StatusBadRequest
	case domain.ErrUnauthenticated, domain.ErrAuthInvalid:
		return http.StatusUnauthorized
	case domain.ErrPermissionDenied:
		return http.StatusForbidden
	case domain.ErrNotFound:
		return http.StatusNotFound
	case domain.ErrLockHeld:
		return http.StatusConflict
	case domain.ErrRateLimited:
		return http.StatusTooManyRequests
	case domain.ErrEmbeddingUnavailable, domain.ErrVectorIndexUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Detail returns the client-facing message for err. Internal errors never
// leak their cause unless they carry a domain.PublicError message.
func Detail(err error) string {
	var pub *domain.PublicError
	if errors.As(err, &pub) {
		return pub.Message
	}
	kind := domain.Kind(err)
	if kind == domain.ErrInternal {
		return internalDetail
	}
	msg := err.Error()
	if trimmed, ok := strings.CutPrefix(msg, kind.Error()+": "); ok && trimmed != "" {
		return trimmed
	}
	return msg
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error("%s %s [%s]: %v", r.Method, r.URL.Path, chiMiddleware.GetReqID(r.Context()), err)
	} else {
		logger.Debug("%s %s: %v", r.Method, r.URL.Path, err)
	}
	writeJSON(w, status, ErrorResponse{Detail: Detail(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return invalidInput("request body is required")
		}
		return invalidInput("malformed JSON body: %v", err)
	}
	return nil
}

func invalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{domain.ErrInvalidInput}, args...)...)
}
