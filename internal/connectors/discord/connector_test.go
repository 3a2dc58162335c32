package discord

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhsabu/Neugrove/internal/core/domain"
)

// rewriteTransport sends every request to the test server.
type rewriteTransport struct {
	target *url.URL
}

func (t rewriteTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	r = r.Clone(r.Context())
	r.URL.Scheme = t.target.Scheme
	r.URL.Host = t.target.Host
	return http.DefaultTransport.RoundTrip(r)
}

// fakeDiscord serves channel c1 with 150 messages, ids 1..150.
func fakeDiscord(t *testing.T) *http.Client {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/{version}/channels/{id}/messages", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Header.Get("Authorization") != "Bot bot-ok" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"401: Unauthorized","code":0}`))
			return
		}
		if r.PathValue("id") != "c1" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"Unknown Channel","code":10003}`))
			return
		}

		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		top := 150
		if before := r.URL.Query().Get("before"); before != "" {
			top, _ = strconv.Atoi(before)
			top--
		}
		var out []map[string]any
		for id := top; id > 0 && len(out) < limit; id-- {
			out = append(out, map[string]any{
				"id":         strconv.Itoa(id),
				"channel_id": "c1",
				"content":    fmt.Sprintf("msg %d", id),
				"author":     map[string]any{"id": "u1", "username": "ada"},
			})
		}
		_ = json.NewEncoder(w).Encode(out)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	target, err := url.Parse(srv.URL)
	require.NoError(t, err)
	return &http.Client{Transport: rewriteTransport{target: target}}
}

func TestConnector_Fetch(t *testing.T) {
	c := New(fakeDiscord(t))

	tests := []struct {
		name  string
		limit string
		want  int
		first string
		last  string
	}{
		{"default limit", "", 100, "ada: msg 51", "ada: msg 150"},
		{"two pages", "120", 120, "ada: msg 31", "ada: msg 150"},
		{"whole channel", "500", 150, "ada: msg 1", "ada: msg 150"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			docs, err := c.Fetch(context.Background(), domain.Credential{Token: "bot-ok"},
				map[string]string{"channel_ids": "c1", "limit": tt.limit})
			require.NoError(t, err)
			require.Len(t, docs, 1)
			assert.Equal(t, "c1", docs[0].ID)
			assert.Equal(t, "c1", docs[0].Metadata["channel_id"])
			assert.Equal(t, tt.want, docs[0].Metadata["messages"])

			lines := strings.Split(docs[0].Text, "\n")
			assert.Equal(t, tt.first, lines[0])
			assert.Equal(t, tt.last, lines[len(lines)-1])
		})
	}
}

func TestConnector_FetchErrors(t *testing.T) {
	c := New(fakeDiscord(t))

	tests := []struct {
		name   string
		token  string
		params map[string]string
		want   error
	}{
		{"missing channels", "bot-ok", map[string]string{}, domain.ErrConnectorValidation},
		{"bad limit", "bot-ok", map[string]string{"channel_ids": "c1", "limit": "5000"}, domain.ErrConnectorValidation},
		{"empty token", "", map[string]string{"channel_ids": "c1"}, domain.ErrAuthInvalid},
		{"bad token", "bot-bad", map[string]string{"channel_ids": "c1"}, domain.ErrAuthInvalid},
		{"unknown channel", "bot-ok", map[string]string{"channel_ids": "c9"}, domain.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Fetch(context.Background(), domain.Credential{Token: tt.token}, tt.params)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
