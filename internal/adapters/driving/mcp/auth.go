package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/mhsabu/Neugrove/internal/core/domain"
)

// minRole is the project role required by every tool and resource.
const minRole = domain.RoleModerator

var errForbidden = fmt.Errorf("%w: Not enough permissions", domain.ErrPermissionDenied)

// TokenValidator resolves a bearer token to the caller it identifies.
type TokenValidator interface {
	Validate(token string) (domain.Principal, error)
}

type principalKey struct{}

// requireToken rejects requests without a valid bearer token and stores the
// caller in the request context.
func requireToken(auth TokenValidator, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeUnauthorized(w, "Not authenticated")
			return
		}
		principal, err := auth.Validate(token)
		if err != nil {
			writeUnauthorized(w, "Could not validate credentials")
			return
		}
		ctx := context.WithValue(r.Context(), principalKey{}, principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func principalFrom(ctx context.Context) (domain.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(domain.Principal)
	return p, ok
}

// authorize checks the session caller against a project. Stdio sessions
// have no caller and are trusted.
func (s *Server) authorize(projectUID string) error {
	if s.principal == nil {
		return nil
	}
	if !s.principal.RoleFor(projectUID).AtLeast(minRole) {
		return errForbidden
	}
	return nil
}

func bearerToken(r *http.Request) string {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func writeUnauthorized(w http.ResponseWriter, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}
