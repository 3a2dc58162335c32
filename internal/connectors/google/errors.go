package google

import (
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/googleapi"

	"github.com/mhsabu/Neugrove/internal/core/domain"
)

// WrapError converts a Google API error to the matching domain error.
// Errors that are not Google API errors are returned unchanged.
func WrapError(err error) error {
	if err == nil {
		return nil
	}

	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return err
	}

	switch gerr.Code {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: google: %s", domain.ErrAuthInvalid, gerr.Message)
	case http.StatusForbidden:
		if isQuotaError(gerr) {
			return fmt.Errorf("%w: google: %s", domain.ErrRateLimited, gerr.Message)
		}
		return fmt.Errorf("%w: google: %s", domain.ErrPermissionDenied, gerr.Message)
	case http.StatusNotFound:
		return fmt.Errorf("%w: google: %s", domain.ErrNotFound, gerr.Message)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: google: %s", domain.ErrRateLimited, gerr.Message)
	default:
		return err
	}
}

// isQuotaError reports whether a 403 is Drive's rate limit response.
func isQuotaError(gerr *googleapi.Error) bool {
	for _, item := range gerr.Errors {
		switch item.Reason {
		case "rateLimitExceeded", "userRateLimitExceeded":
			return true
		}
	}
	return false
}
