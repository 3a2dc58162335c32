package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhsabu/Neugrove/internal/core/domain"
)

type mockSecretStore struct {
	vals map[string]string
	err  error
}

func (m *mockSecretStore) Name() string { return "mock" }
func (m *mockSecretStore) Get(_ context.Context, path string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	v, ok := m.vals[path]
	if !ok {
		return "", fmt.Errorf("%w: %s", domain.ErrNotFound, path)
	}
	return v, nil
}
func (m *mockSecretStore) Health(context.Context) error { return nil }

func TestCredentialResolver_Resolve(t *testing.T) {
	store := &mockSecretStore{vals: map[string]string{
		"neugrove/projects/rag1/slack": "xoxb-1",
		"neugrove/projects/rag2/slack": "xoxb-2",
	}}
	r := NewCredentialResolver(store, "", time.Minute)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }
	ctx := context.Background()

	cred, err := r.Resolve(ctx, "rag1", domain.CredentialRef{Path: "neugrove/projects/rag1/slack"})
	require.NoError(t, err)
	assert.Equal(t, "xoxb-1", cred.Token)
	assert.Equal(t, now.Add(time.Minute), cred.ExpiresAt)
	assert.False(t, cred.Expired(now))
	assert.True(t, cred.Expired(now.Add(time.Minute)))

	tests := []struct {
		name string
		ref  string
		want error
	}{
		{"empty", "", domain.ErrInvalidInput},
		{"other project", "neugrove/projects/rag2/slack", domain.ErrPermissionDenied},
		{"traversal", "neugrove/projects/rag1/../rag2/slack", domain.ErrPermissionDenied},
		{"outside prefix", "other/rag1/slack", domain.ErrPermissionDenied},
		{"missing", "neugrove/projects/rag1/notion", domain.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Resolve(ctx, "rag1", domain.CredentialRef{Path: tt.ref})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCredentialResolver_StoreFailureIsInternal(t *testing.T) {
	r := NewCredentialResolver(&mockSecretStore{err: errors.New("vault sealed")}, "", 0)

	_, err := r.Resolve(context.Background(), "rag1", domain.CredentialRef{Path: "neugrove/projects/rag1/x"})
	assert.ErrorIs(t, err, domain.ErrInternal)

	_, err = NewCredentialResolver(nil, "", 0).Resolve(context.Background(), "rag1", domain.CredentialRef{Path: "neugrove/projects/rag1/x"})
	assert.ErrorIs(t, err, domain.ErrInternal)
}
