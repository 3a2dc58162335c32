package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestFindQuery_ResolveK(t *testing.T) {
	tests := []struct {
		name    string
		query   FindQuery
		project *Project
		want    int
	}{
		{"request wins", FindQuery{K: intPtr(5)}, &Project{K: 3}, 5},
		{"project default", FindQuery{}, &Project{K: 3}, 3},
		{"fallback", FindQuery{}, &Project{}, DefaultTopK},
		{"zero request falls through", FindQuery{K: intPtr(0)}, &Project{K: 4}, 4},
		{"nil project", FindQuery{}, nil, DefaultTopK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.query.ResolveK(tt.project))
		})
	}
}

func TestFindQuery_ResolveThreshold(t *testing.T) {
	tests := []struct {
		name    string
		query   FindQuery
		project *Project
		want    float64
	}{
		{"request wins", FindQuery{Score: floatPtr(0.5)}, &Project{Score: 0.7}, 0.5},
		{"explicit zero kept", FindQuery{Score: floatPtr(0)}, &Project{Score: 0.7}, 0},
		{"project default", FindQuery{}, &Project{Score: 0.7}, 0.7},
		{"fallback", FindQuery{}, &Project{}, DefaultThreshold},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.query.ResolveThreshold(tt.project))
		})
	}
}
