package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhsabu/Neugrove/internal/core/domain"
	"github.com/mhsabu/Neugrove/internal/core/ports/driven"
	"github.com/mhsabu/Neugrove/internal/core/ports/driving"
)

func TestProcessor_TextIngestEndToEnd(t *testing.T) {
	env := newTestEnv(t)
	svc := env.ingestService()
	ctx := context.Background()

	receipt, err := svc.IngestText(ctx, moderator, "rag1", driving.TextIngest{
		Text:     "The cat sat. The dog ran off. A bird flew.",
		Chunks:   7,
		Splitter: "sentence",
	})
	require.NoError(t, err)

	msg, err := env.processor().Process(ctx, receipt.ID)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("Ingest %d processed into 2 chunks", receipt.ID), msg)

	ingest, err := env.ingests.Get(ctx, receipt.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.IngestDone, ingest.Status)
	assert.Equal(t, 2, ingest.NumberOfPages)
	assert.Empty(t, ingest.Error)

	chunks, err := svc.SourceChunks(ctx, "rag1", receipt.ID)
	require.NoError(t, err)
	require.Len(t, chunks.IDs, 2)
	assert.Equal(t, []string{"The cat sat. The dog ran off.", "A bird flew."}, chunks.Documents)
	assert.Equal(t, ingest.Source(), chunks.Metadatas[0]["source"])
	assert.Equal(t, receipt.ID, chunks.Metadatas[0]["ingest_id"])
	assert.Equal(t, 1, chunks.Metadatas[1]["position"])

	status, err := svc.Status(ctx, "rag1", receipt.ID)
	require.NoError(t, err)
	assert.True(t, status.IsTerminal())
}

func TestProcessor_OptionMetadata(t *testing.T) {
	env := newTestEnv(t)
	svc := env.ingestService()
	ctx := context.Background()

	receipt, err := svc.IngestFile(ctx, moderator, "rag1", driving.Upload{
		Name: "notes.md", ContentType: "text/markdown", Body: strings.NewReader("# Notes\n\nShip it."),
	}, domain.IngestOptions{Options: `{"metadata":{"team":"infra","source":"spoofed"},"keywords":["ops"]}`})
	require.NoError(t, err)

	_, err = env.processor().Process(ctx, receipt.ID)
	require.NoError(t, err)

	ingest, err := env.ingests.Get(ctx, receipt.ID)
	require.NoError(t, err)
	chunks, err := env.vectors.Collection(env.rag).BySource(ctx, ingest.Source())
	require.NoError(t, err)
	require.NotEmpty(t, chunks)
	assert.Equal(t, "infra", chunks[0].Metadata["team"])
	assert.Equal(t, ingest.Source(), chunks[0].Metadata["source"])
	assert.Equal(t, []string{"ops"}, chunks[0].Metadata["keywords"])
	assert.Equal(t, "notes.md", chunks[0].Metadata["file_name"])
}

func TestProcessor_URLIngest(t *testing.T) {
	env := newTestEnv(t)
	env.fetcher.content = &driven.FetchedContent{
		Data:        []byte("<html><head><title>Guide</title></head><body><p>Read the manual.</p></body></html>"),
		ContentType: "text/html",
		Name:        "guide.html",
	}
	svc := env.ingestService()
	ctx := context.Background()

	receipt, err := svc.IngestURL(ctx, moderator, "rag1", driving.URLIngest{URL: "https://example.com/guide.html"})
	require.NoError(t, err)

	_, err = env.processor().Process(ctx, receipt.ID)
	require.NoError(t, err)

	chunks, err := env.vectors.Collection(env.rag).BySource(ctx, fmt.Sprintf("%d-guide.html", receipt.ID))
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Contains(t, chunks[0].Text, "Read the manual.")
}

func TestProcessor_ReprocessIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	svc := env.ingestService()
	ctx := context.Background()

	receipt, err := svc.IngestText(ctx, moderator, "rag1", driving.TextIngest{Text: "One. Two. Three."})
	require.NoError(t, err)
	p := env.processor()

	_, err = p.Process(ctx, receipt.ID)
	require.NoError(t, err)
	first := env.collection(env.rag).Len()

	// A finished ingest is not processed again.
	_, err = p.Process(ctx, receipt.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	// A failed ingest may be retried and replaces its chunks.
	require.NoError(t, env.ingests.UpdateStatus(ctx, receipt.ID, domain.IngestFailed, 0, "boom"))
	_, err = p.Process(ctx, receipt.ID)
	require.NoError(t, err)
	assert.Equal(t, first, env.collection(env.rag).Len())
}

func TestProcessor_FailureIsRecorded(t *testing.T) {
	env := newTestEnv(t)
	env.embedder.err = errors.New("model offline")
	svc := env.ingestService()
	ctx := context.Background()

	receipt, err := svc.IngestText(ctx, moderator, "rag1", driving.TextIngest{Text: "hello world"})
	require.NoError(t, err)

	_, err = env.processor().Process(ctx, receipt.ID)
	require.Error(t, err)

	ingest, err := env.ingests.Get(ctx, receipt.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.IngestFailed, ingest.Status)
	assert.Contains(t, ingest.Error, "model offline")
	assert.Zero(t, env.collection(env.rag).Len())
}

func TestProcessor_UnsupportedFile(t *testing.T) {
	env := newTestEnv(t)
	svc := env.ingestService()
	ctx := context.Background()

	receipt, err := svc.IngestFile(ctx, moderator, "rag1", driving.Upload{
		Name: "photo.png", ContentType: "image/png", Body: strings.NewReader("\x89PNG"),
	}, domain.IngestOptions{})
	require.NoError(t, err)

	_, err = env.processor().Process(ctx, receipt.ID)
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)

	ingest, err := env.ingests.Get(ctx, receipt.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.IngestFailed, ingest.Status)
}

func TestProcessor_LockHeld(t *testing.T) {
	env := newTestEnv(t)
	svc := env.ingestService()
	ctx := context.Background()

	receipt, err := svc.IngestText(ctx, moderator, "rag1", driving.TextIngest{Text: "hello"})
	require.NoError(t, err)

	unlock, err := env.locker.Lock(ctx, fmt.Sprintf("ingest:%d", receipt.ID), time.Minute)
	require.NoError(t, err)
	defer func() { _ = unlock(ctx) }()

	_, err = env.processor().Process(ctx, receipt.ID)
	assert.ErrorIs(t, err, domain.ErrLockHeld)

	ingest, err := env.ingests.Get(ctx, receipt.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.IngestCreated, ingest.Status)
}

func TestProcessor_NotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.processor().Process(context.Background(), 42)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// panicSplitter fails the way an arithmetic bug in a splitter would.
type panicSplitter struct{}

func (panicSplitter) Name() string               { return "panic" }
func (panicSplitter) Split(string, int) []string { panic("integer divide by zero") }

func TestProcessor_PanicMarksIngestFailed(t *testing.T) {
	env := newTestEnv(t)
	env.splitters.Register("panic", func(map[string]any) (driven.Splitter, error) { return panicSplitter{}, nil })
	svc := env.ingestService()
	ctx := context.Background()

	receipt, err := svc.IngestText(ctx, moderator, "rag1", driving.TextIngest{Text: "hello world", Splitter: "panic"})
	require.NoError(t, err)

	w := NewWorker(&fakeQueue{}, env.processor(), 1, nil)
	assert.True(t, w.Handle(ctx, domain.NewJob(domain.JobExtractFile, receipt.ID)))

	ingest, err := env.ingests.Get(ctx, receipt.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.IngestFailed, ingest.Status)
	assert.Contains(t, ingest.Error, "panicked")
}

func TestProcessor_TakesOverStaleProcessing(t *testing.T) {
	env := newTestEnv(t)
	svc := env.ingestService()
	ctx := context.Background()

	receipt, err := svc.IngestText(ctx, moderator, "rag1", driving.TextIngest{Text: "One. Two."})
	require.NoError(t, err)
	// The first worker died after claiming the record.
	require.NoError(t, env.ingests.UpdateStatus(ctx, receipt.ID, domain.IngestProcessing, 0, ""))

	w := NewWorker(&fakeQueue{}, env.processor(), 1, nil)
	assert.True(t, w.Handle(ctx, domain.NewJob(domain.JobExtractFile, receipt.ID)))

	ingest, err := env.ingests.Get(ctx, receipt.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.IngestDone, ingest.Status)
	assert.Positive(t, ingest.NumberOfPages)
}

func TestProcessor_StaleProcessingStillNeedsTheLock(t *testing.T) {
	env := newTestEnv(t)
	svc := env.ingestService()
	ctx := context.Background()

	receipt, err := svc.IngestText(ctx, moderator, "rag1", driving.TextIngest{Text: "hello"})
	require.NoError(t, err)
	require.NoError(t, env.ingests.UpdateStatus(ctx, receipt.ID, domain.IngestProcessing, 0, ""))

	unlock, err := env.locker.Lock(ctx, fmt.Sprintf("ingest:%d", receipt.ID), time.Minute)
	require.NoError(t, err)
	defer func() { _ = unlock(ctx) }()

	_, err = env.processor().Process(ctx, receipt.ID)
	assert.ErrorIs(t, err, domain.ErrLockHeld)
}

func TestProcessor_URLIngestsOfSameURLKeepTheirChunks(t *testing.T) {
	env := newTestEnv(t)
	env.fetcher.content = &driven.FetchedContent{Data: []byte("Same page."), ContentType: "text/plain", Name: "page"}
	svc := env.ingestService()
	ctx := context.Background()
	p := env.processor()

	var ids []int64
	for range 2 {
		receipt, err := svc.IngestURL(ctx, moderator, "rag1", driving.URLIngest{URL: "https://example.com/page"})
		require.NoError(t, err)
		_, err = p.Process(ctx, receipt.ID)
		require.NoError(t, err)
		ids = append(ids, receipt.ID)
	}

	require.NoError(t, svc.Delete(ctx, "rag1", ids[1]))

	chunks, err := svc.SourceChunks(ctx, "rag1", ids[0])
	require.NoError(t, err)
	assert.Len(t, chunks.IDs, 1)
	assert.Equal(t, fmt.Sprintf("%d-page", ids[0]), chunks.Metadatas[0]["source"])
}
