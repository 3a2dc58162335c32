package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mhsabu/Neugrove/internal/core/domain"
	"github.com/mhsabu/Neugrove/internal/core/ports/driven"
	"github.com/mhsabu/Neugrove/internal/core/ports/driving"
)

// Ensure CredentialResolver implements the interface.
var _ driving.CredentialResolver = (*CredentialResolver)(nil)

// Credential defaults.
const (
	DefaultSecretPrefix  = "neugrove/projects"
	DefaultCredentialTTL = 5 * time.Minute
)

// CredentialResolver resolves project scoped refs through a secret store.
type CredentialResolver struct {
	store  driven.SecretStore
	prefix string
	ttl    time.Duration
	now    func() time.Time
}

// NewCredentialResolver creates a resolver. Refs must live under
// prefix/<project uid>/.
func NewCredentialResolver(store driven.SecretStore, prefix string, ttl time.Duration) *CredentialResolver {
	if prefix == "" {
		prefix = DefaultSecretPrefix
	}
	if ttl <= 0 {
		ttl = DefaultCredentialTTL
	}
	return &CredentialResolver{store: store, prefix: prefix, ttl: ttl, now: time.Now}
}

// Resolve returns a credential that expires after the resolver's ttl.
func (r *CredentialResolver) Resolve(ctx context.Context, projectUID string, ref domain.CredentialRef) (domain.Credential, error) {
	if ref.Path == "" {
		return domain.Credential{}, fmt.Errorf("%w: credential path is required", domain.ErrInvalidInput)
	}
	if !ref.ScopedTo(r.prefix, projectUID) {
		return domain.Credential{}, fmt.Errorf("%w: credential %q is outside project %s", domain.ErrPermissionDenied, ref.Path, projectUID)
	}
	if r.store == nil {
		return domain.Credential{}, fmt.Errorf("%w: no secret store configured", domain.ErrInternal)
	}

	token, err := r.store.Get(ctx, ref.Path)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Credential{}, fmt.Errorf("%w: credential %q not found", domain.ErrNotFound, ref.Path)
		}
		return domain.Credential{}, wrapInternal("resolving credential", err)
	}

	return domain.Credential{
		Ref:       ref,
		Token:     token,
		ExpiresAt: r.now().Add(r.ttl),
	}, nil
}
