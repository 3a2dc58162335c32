package domain

import (
	"strings"
	"time"
)

// CredentialRef points at a secret in the configured secret store.
type CredentialRef struct {
	Path string `json:"path"`
}

// ScopedTo reports whether the ref lives under prefix/projectUID/.
func (r CredentialRef) ScopedTo(prefix, projectUID string) bool {
	if r.Path == "" || projectUID == "" || strings.Contains(r.Path, "..") {
		return false
	}
	scope := strings.Trim(prefix, "/") + "/" + projectUID + "/"
	return strings.HasPrefix(strings.TrimPrefix(r.Path, "/"), strings.TrimPrefix(scope, "/"))
}

// Credential is a resolved secret. It expires so long-lived copies
// are never kept around.
type Credential struct {
	Ref       CredentialRef
	Token     string
	ExpiresAt time.Time
}

// Expired reports whether the credential must be resolved again.
func (c Credential) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}
