package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"

	"github.com/mhsabu/Neugrove/internal/core/domain"
)

type contextKey string

const principalKey contextKey = "principal"

var (
	errMissingToken = fmt.Errorf("%w: Not authenticated", domain.ErrUnauthenticated)
	errBadToken     = fmt.Errorf("%w: Could not validate credentials", domain.ErrUnauthenticated)
	errForbidden    = fmt.Errorf("%w: Not enough permissions", domain.ErrPermissionDenied)
)

// Claims are the JWT claims the gateway understands.
type Claims struct {
	UserID   string            `json:"sub"`
	Role     string            `json:"role,omitempty"`
	Projects map[string]string `json:"projects,omitempty"`
	jwt.RegisteredClaims
}

// Principal converts the claims to the caller identity.
func (c *Claims) Principal() (domain.Principal, error) {
	id, err := strconv.ParseInt(c.UserID, 10, 64)
	if err != nil || id <= 0 {
		return domain.Principal{}, errBadToken
	}
	p := domain.Principal{UserID: id, Role: domain.Role(c.Role)}
	if len(c.Projects) > 0 {
		p.ProjectRoles = make(map[string]domain.Role, len(c.Projects))
		for uid, role := range c.Projects {
			p.ProjectRoles[uid] = domain.Role(role)
		}
	}
	return p, nil
}

// Authenticator validates HS256 bearer tokens signed with a shared secret.
type Authenticator struct {
	secret []byte
	issuer string
}

// NewAuthenticator creates an authenticator. An empty issuer is not checked.
func NewAuthenticator(secret, issuer string) *Authenticator {
	return &Authenticator{secret: []byte(secret), issuer: issuer}
}

// Validate parses a token and returns the caller it identifies.
func (a *Authenticator) Validate(tokenStr string) (domain.Principal, error) {
	if len(a.secret) == 0 {
		return domain.Principal{}, errBadToken
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if a.issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(*jwt.Token) (any, error) {
		return a.secret, nil
	}, opts...)
	if err != nil {
		return domain.Principal{}, fmt.Errorf("%w: %v", errBadToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return domain.Principal{}, errBadToken
	}
	return claims.Principal()
}

// Sign issues a token for claims. Used by operator tooling and tests.
func (a *Authenticator) Sign(claims Claims) (string, error) {
	if len(a.secret) == 0 {
		return "", errors.New("jwt secret is not configured")
	}
	if claims.Issuer == "" {
		claims.Issuer = a.issuer
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

// Middleware rejects requests without a valid bearer token and stores the
// caller in the request context.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr := bearerToken(r)
		if tokenStr == "" {
			writeError(w, r, errMissingToken)
			return
		}

		principal, err := a.Validate(tokenStr)
		if err != nil {
			writeError(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
	})
}

// RequireRole rejects callers whose role for the {p_uid} project is below min.
func RequireRole(min domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := PrincipalFrom(r.Context())
			if !ok {
				writeError(w, r, errMissingToken)
				return
			}
			if !principal.RoleFor(chi.URLParam(r, "p_uid")).AtLeast(min) {
				writeError(w, r, errForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WithPrincipal stores the caller in ctx.
func WithPrincipal(ctx context.Context, p domain.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFrom returns the caller stored by the auth middleware.
func PrincipalFrom(ctx context.Context) (domain.Principal, bool) {
	p, ok := ctx.Value(principalKey).(domain.Principal)
	return p, ok
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
