package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrInvalidState", ErrInvalidState},
		{"ErrPermissionDenied", ErrPermissionDenied},
		{"ErrInternal", ErrInternal},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrUnsupportedType", ErrUnsupportedType},
		{"ErrEmbeddingUnavailable", ErrEmbeddingUnavailable},
		{"ErrVectorIndexUnavailable", ErrVectorIndexUnavailable},
		{"ErrLockHeld", ErrLockHeld},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestErrNotRAGProject(t *testing.T) {
	assert.True(t, errors.Is(ErrNotRAGProject, ErrInvalidState))
	assert.Contains(t, ErrNotRAGProject.Error(), "Only available for RAG projects.")
}

func TestKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"nil", nil, nil},
		{"not found", fmt.Errorf("project: %w", ErrNotFound), ErrNotFound},
		{"not rag", ErrNotRAGProject, ErrInvalidState},
		{"permission", fmt.Errorf("ref: %w", ErrPermissionDenied), ErrPermissionDenied},
		{"unknown", errors.New("boom"), ErrInternal},
		{"internal", fmt.Errorf("%w: db down", ErrInternal), ErrInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Kind(tt.err))
		})
	}
}

func TestPublicError(t *testing.T) {
	err := fmt.Errorf("deleting: %w", NewPublicError(ErrInternal, "something went wrong"))

	assert.Equal(t, ErrInternal, Kind(err))
	var pub *PublicError
	require.True(t, errors.As(err, &pub))
	assert.Equal(t, "something went wrong", pub.Message)
	assert.Equal(t, "deleting: internal error: something went wrong", err.Error())
}
