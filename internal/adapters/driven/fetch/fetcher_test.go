package fetch

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhsabu/Neugrove/internal/core/domain"
)

func TestFetcher_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/docs/guide.html":
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte("<p>hello</p>"))
		case "/big":
			_, _ = w.Write([]byte(strings.Repeat("x", 64)))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := New(0, WithMaxBytes(32))

	got, err := f.Fetch(t.Context(), srv.URL+"/docs/guide.html")
	require.NoError(t, err)
	assert.Equal(t, "<p>hello</p>", string(got.Data))
	assert.Equal(t, "text/html; charset=utf-8", got.ContentType)
	assert.Equal(t, "guide.html", got.Name)

	_, err = f.Fetch(t.Context(), srv.URL+"/missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")

	_, err = f.Fetch(t.Context(), srv.URL+"/big")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestFetcher_RejectsNonHTTP(t *testing.T) {
	f := New(0)
	for _, raw := range []string{"", "ftp://example.com/a", "file:///etc/passwd", "not a url"} {
		_, err := f.Fetch(t.Context(), raw)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, raw)
	}
}

func TestNameOf(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"https://example.com/a/b.pdf", "b.pdf"},
		{"https://example.com/a/b/", "b"},
		{"https://example.com", "example.com"},
	}
	for _, tt := range tests {
		u, err := url.Parse(tt.raw)
		require.NoError(t, err)
		assert.Equal(t, tt.want, nameOf(u))
	}
}
