package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/mhsabu/Neugrove/internal/core/domain"
	"github.com/mhsabu/Neugrove/internal/core/ports/driven"
	"github.com/mhsabu/Neugrove/internal/core/ports/driving"
	"github.com/mhsabu/Neugrove/internal/logger"
)

// Ensure Processor implements the interface.
var _ driving.IngestProcessor = (*Processor)(nil)

// DefaultLockTTL bounds how long one worker may own an ingest.
const DefaultLockTTL = 10 * time.Minute

// ProcessorDeps are the collaborators of the extraction pipeline.
type ProcessorDeps struct {
	Projects   driven.ProjectStore
	Ingests    driven.IngestStore
	Vectors    driven.VectorStore
	Objects    driven.ObjectStore
	Fetcher    driven.URLFetcher
	Extractors driven.ExtractorRegistry
	Splitters  driven.SplitterRegistry
	Embedder   driven.EmbeddingService
	Locker     driven.Locker
}

// Processor runs ingests through extract, split, embed and store.
type Processor struct {
	deps    ProcessorDeps
	lockTTL time.Duration
}

// NewProcessor creates a pipeline. A zero lockTTL uses DefaultLockTTL.
func NewProcessor(deps ProcessorDeps, lockTTL time.Duration) *Processor {
	if lockTTL <= 0 {
		lockTTL = DefaultLockTTL
	}
	return &Processor{deps: deps, lockTTL: lockTTL}
}

// Process runs the pipeline for one ingest and records the outcome on it.
func (p *Processor) Process(ctx context.Context, ingestID int64) (string, error) {
	unlock, err := p.deps.Locker.Lock(ctx, fmt.Sprintf("ingest:%d", ingestID), p.lockTTL)
	if err != nil {
		if errors.Is(err, domain.ErrLockHeld) {
			return "", fmt.Errorf("ingest %d: %w", ingestID, err)
		}
		return "", wrapInternal("locking ingest", err)
	}
	defer func() {
		if err := unlock(context.WithoutCancel(ctx)); err != nil {
			logger.Warn("release lock of ingest %d: %v", ingestID, err)
		}
	}()

	ingest, err := p.deps.Ingests.Get(ctx, ingestID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", fmt.Errorf("%w: ingest %d not found", domain.ErrNotFound, ingestID)
		}
		return "", wrapInternal("loading ingest", err)
	}
	// A record already in processing was claimed by a worker that died
	// before finishing; holding the lock makes taking it over safe.
	if ingest.Status != domain.IngestProcessing && !ingest.Status.CanTransition(domain.IngestProcessing) {
		return "", fmt.Errorf("%w: ingest %d is %s", domain.ErrInvalidState, ingestID, ingest.Status)
	}

	if ingest.Status == domain.IngestProcessing {
		logger.Warn("ingest %d was left in processing, taking it over", ingestID)
	} else if err := p.deps.Ingests.UpdateStatus(ctx, ingestID, domain.IngestProcessing, 0, ""); err != nil {
		return "", wrapInternal("marking ingest processing", err)
	}
	logger.Section(fmt.Sprintf("Ingest %d", ingestID))

	n, err := p.safeRun(ctx, ingest)
	if err != nil {
		logger.Error("ingest %d failed: %v", ingestID, err)
		if updErr := p.deps.Ingests.UpdateStatus(context.WithoutCancel(ctx), ingestID, domain.IngestFailed, 0, err.Error()); updErr != nil {
			logger.Error("mark ingest %d failed: %v", ingestID, updErr)
		}
		return "", err
	}

	if err := p.deps.Ingests.UpdateStatus(ctx, ingestID, domain.IngestDone, n, ""); err != nil {
		return "", wrapInternal("marking ingest done", err)
	}
	msg := fmt.Sprintf("Ingest %d processed into %d chunks", ingestID, n)
	logger.Info("%s", msg)
	return msg, nil
}

// safeRun turns a panic in the pipeline into an error so the ingest is
// recorded as failed instead of staying in processing.
func (p *Processor) safeRun(ctx context.Context, ingest *domain.Ingest) (n int, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.ErrorStack(fmt.Errorf("%v", r), "panic processing ingest %d", ingest.ID)
			n, err = 0, fmt.Errorf("%w: processing ingest %d panicked: %v", domain.ErrInternal, ingest.ID, r)
		}
	}()
	return p.run(ctx, ingest)
}

func (p *Processor) run(ctx context.Context, ingest *domain.Ingest) (int, error) {
	project, err := p.deps.Projects.GetByID(ctx, ingest.ProjectID)
	if err != nil {
		return 0, wrapInternal("loading project", err)
	}

	data, name, contentType, err := p.load(ctx, ingest)
	if err != nil {
		return 0, err
	}
	logger.Debug("Loaded %d bytes from %s (%s)", len(data), name, contentType)

	text, err := p.deps.Extractors.Extract(ctx, name, contentType, data)
	if err != nil {
		return 0, err
	}

	opts := ingest.ExtraData.Normalize()
	extra, err := opts.ParsedOptions()
	if err != nil {
		return 0, err
	}
	splitter, err := p.deps.Splitters.Get(opts.Splitter)
	if err != nil {
		return 0, err
	}

	parts := splitter.Split(text, opts.Chunks)
	if len(parts) == 0 {
		return 0, fmt.Errorf("%w: no text extracted from %s", domain.ErrInvalidInput, name)
	}
	logger.Debug("Split into %d chunks with %s/%d", len(parts), opts.Splitter, opts.Chunks)

	embeddings, err := embedParts(ctx, p.deps.Embedder, parts)
	if err != nil {
		return 0, err
	}

	base := make(map[string]any, len(extra.Metadata)+3)
	for k, v := range extra.Metadata {
		base[k] = v
	}
	if len(extra.Keywords) > 0 {
		base[metaKeywords] = extra.Keywords
	}
	base[metaIngestID] = ingest.ID
	base["file_name"] = name

	source := ingest.Source()
	chunks := buildChunks(fmt.Sprint(ingest.ID), source, parts, embeddings, base)
	if err := replaceSource(ctx, p.deps.Vectors.Collection(project), source, chunks); err != nil {
		return 0, err
	}
	return len(chunks), nil
}

// load returns the ingest bytes with the name and type used to pick an extractor.
func (p *Processor) load(ctx context.Context, ingest *domain.Ingest) ([]byte, string, string, error) {
	switch {
	case ingest.File != nil:
		rc, err := p.deps.Objects.Get(ctx, ingest.File.FilePath)
		if err != nil {
			return nil, "", "", wrapInternal("opening "+ingest.File.FilePath, err)
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, "", "", wrapInternal("reading "+ingest.File.FilePath, err)
		}
		return data, ingest.File.FileName, ingest.File.ContentType, nil

	case ingest.URL != "":
		if p.deps.Fetcher == nil {
			return nil, "", "", fmt.Errorf("%w: url ingests are disabled", domain.ErrInvalidState)
		}
		fetched, err := p.deps.Fetcher.Fetch(ctx, ingest.URL)
		if err != nil {
			return nil, "", "", wrapInternal("fetching url", err)
		}
		return fetched.Data, fetched.Name, fetched.ContentType, nil
	}
	return nil, "", "", fmt.Errorf("%w: ingest %d has neither file nor url", domain.ErrInvalidState, ingest.ID)
}
