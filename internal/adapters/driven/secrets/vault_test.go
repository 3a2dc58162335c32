package secrets

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhsabu/Neugrove/internal/core/domain"
)

func newVaultServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-token", r.Header.Get("X-Vault-Token"))
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/v1/secret/data/neugrove/projects/p1/notion":
			_, _ = w.Write([]byte(`{"data":{"data":{"value":"secret_abc"},"metadata":{"version":1}}}`))
		case "/v1/secret/data/neugrove/projects/p1/single":
			_, _ = w.Write([]byte(`{"data":{"data":{"token":"only"},"metadata":{"version":1}}}`))
		case "/v1/secret/data/neugrove/projects/p1/multi":
			_, _ = w.Write([]byte(`{"data":{"data":{"a":"1","b":"2"},"metadata":{"version":1}}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"errors":[]}`))
		}
	}))
}

func TestVault_Get(t *testing.T) {
	srv := newVaultServer(t)
	defer srv.Close()

	v, err := NewVault(srv.URL, "test-token", "")
	require.NoError(t, err)
	assert.Equal(t, "vault", v.Name())
	ctx := context.Background()

	got, err := v.Get(ctx, "neugrove/projects/p1/notion")
	require.NoError(t, err)
	assert.Equal(t, "secret_abc", got)

	got, err = v.Get(ctx, "neugrove/projects/p1/single")
	require.NoError(t, err)
	assert.Equal(t, "only", got)

	_, err = v.Get(ctx, "neugrove/projects/p1/multi")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = v.Get(ctx, "neugrove/projects/p1/missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
