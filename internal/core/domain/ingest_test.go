package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIngestStatus_CanTransition(t *testing.T) {
	tests := []struct {
		from, to IngestStatus
		want     bool
	}{
		{IngestCreated, IngestProcessing, true},
		{IngestCreated, IngestDone, false},
		{IngestCreated, IngestFailed, false},
		{IngestProcessing, IngestDone, true},
		{IngestProcessing, IngestFailed, true},
		{IngestDone, IngestProcessing, false},
		{IngestFailed, IngestProcessing, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransition(tt.to))
		})
	}
}

func TestIngestStatus_IsTerminal(t *testing.T) {
	assert.True(t, IngestDone.IsTerminal())
	assert.True(t, IngestFailed.IsTerminal())
	assert.False(t, IngestProcessing.IsTerminal())
}

func TestIngestOptions_Normalize(t *testing.T) {
	got := IngestOptions{}.Normalize()
	assert.Equal(t, IngestOptions{Options: "{}", Chunks: 256, Splitter: "sentence"}, got)

	kept := IngestOptions{Options: `{"a":1}`, Chunks: 64, Splitter: "token"}.Normalize()
	assert.Equal(t, 64, kept.Chunks)
	assert.Equal(t, "token", kept.Splitter)
}

func TestIngestOptions_ParsedOptions(t *testing.T) {
	extra, err := IngestOptions{Options: `{"metadata":{"team":"docs"},"keywords":["a","b"]}`}.ParsedOptions()
	require.NoError(t, err)
	assert.Equal(t, "docs", extra.Metadata["team"])
	assert.Equal(t, []string{"a", "b"}, extra.Keywords)

	_, err = IngestOptions{Options: `{not json`}.ParsedOptions()
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestIngest_Source(t *testing.T) {
	file := &Ingest{File: &File{FilePath: "uploads/proj1/report.pdf"}}
	assert.Equal(t, "report.pdf", file.Source())

	tests := []struct {
		name string
		in   Ingest
		want string
	}{
		{"last segment", Ingest{ID: 7, URL: "https://example.com/docs/page"}, "7-page"},
		{"trailing slash", Ingest{ID: 8, URL: "https://example.com/docs/"}, "8-docs"},
		{"host only", Ingest{ID: 9, URL: "https://example.com"}, "9-example.com"},
		{"no url", Ingest{ID: 10}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Source())
		})
	}
}

func TestIngest_SourceDiffersPerURLIngest(t *testing.T) {
	first := &Ingest{ID: 1, URL: "https://example.com/page"}
	second := &Ingest{ID: 2, URL: "https://example.com/page"}
	assert.NotEqual(t, first.Source(), second.Source())
}

func TestIngest_JobKind(t *testing.T) {
	id := int64(3)
	assert.Equal(t, JobExtractFile, (&Ingest{FileID: &id}).JobKind())
	assert.Equal(t, JobExtractURL, (&Ingest{URL: "https://example.com"}).JobKind())
}

func TestFileKey(t *testing.T) {
	assert.Equal(t, "uploads/proj1/report.pdf", FileKey("proj1", "report.pdf"))
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, DefaultListLimit, ClampLimit(0))
	assert.Equal(t, 25, ClampLimit(25))
	assert.Equal(t, MaxListLimit, ClampLimit(1000))
}
