package github

import (
	"errors"
	"fmt"
	"net/http"

	gh "github.com/google/go-github/v80/github"

	"github.com/mhsabu/Neugrove/internal/core/domain"
)

// APIError represents a GitHub API error response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("github: API error %d: %s", e.StatusCode, e.Message)
}

// wrapError converts go-github errors to domain errors.
func wrapError(err error, operation string) error {
	if err == nil {
		return nil
	}

	var rateLimitErr *gh.RateLimitError
	if errors.As(err, &rateLimitErr) {
		return fmt.Errorf("%w: github: %s: resets at %s", domain.ErrRateLimited, operation, rateLimitErr.Rate.Reset.Time)
	}
	var abuseErr *gh.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return fmt.Errorf("%w: github: %s: secondary rate limit", domain.ErrRateLimited, operation)
	}

	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		apiErr := &APIError{StatusCode: ghErr.Response.StatusCode, Message: ghErr.Message}
		switch apiErr.StatusCode {
		case http.StatusUnauthorized:
			return fmt.Errorf("%w: %s: %w", domain.ErrAuthInvalid, operation, apiErr)
		case http.StatusForbidden:
			return fmt.Errorf("%w: %s: %w", domain.ErrPermissionDenied, operation, apiErr)
		case http.StatusNotFound:
			return fmt.Errorf("%w: %s: %w", domain.ErrNotFound, operation, apiErr)
		case http.StatusTooManyRequests:
			return fmt.Errorf("%w: %s: %w", domain.ErrRateLimited, operation, apiErr)
		}
		return fmt.Errorf("%s: %w", operation, apiErr)
	}

	return fmt.Errorf("github: %s: %w", operation, err)
}
