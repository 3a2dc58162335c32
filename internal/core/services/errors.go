package services

import (
	"errors"
	"fmt"

	"github.com/mhsabu/Neugrove/internal/core/domain"
)

// wrapInternal adds op to err and marks it internal unless it already
// carries a domain kind.
func wrapInternal(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrInternal) || domain.Kind(err) != domain.ErrInternal {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%w: %s: %w", domain.ErrInternal, op, err)
}
