package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/mhsabu/Neugrove/internal/core/domain"
	"github.com/mhsabu/Neugrove/internal/core/ports/driven"
	"github.com/mhsabu/Neugrove/internal/core/ports/driving"
	"github.com/mhsabu/Neugrove/internal/logger"
	"github.com/mhsabu/Neugrove/internal/metrics"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// DefaultMaxUploadBytes caps uploads when no limit is configured.
const DefaultMaxUploadBytes = 50 << 20

var (
	errIngestNotFound = fmt.Errorf("%w: ingest not found", domain.ErrNotFound)
	errDeleteFailed   = domain.NewPublicError(domain.ErrInternal, "something went wrong deleting the ingest")
)

// IngestService accepts ingests and publishes their jobs.
type IngestService struct {
	resolver  driving.ProjectResolver
	ingests   driven.IngestStore
	objects   driven.ObjectStore
	queue     driven.JobQueue
	splitters driven.SplitterRegistry
	metrics   *metrics.Metrics
	maxUpload int64
}

// IngestOption configures an IngestService.
type IngestOption func(*IngestService)

// WithMaxUploadBytes caps the size of uploads and text ingests.
func WithMaxUploadBytes(n int64) IngestOption {
	return func(s *IngestService) {
		if n > 0 {
			s.maxUpload = n
		}
	}
}

// WithIngestMetrics counts accepted ingests.
func WithIngestMetrics(m *metrics.Metrics) IngestOption {
	return func(s *IngestService) { s.metrics = m }
}

// NewIngestService creates an ingest service.
func NewIngestService(
	resolver driving.ProjectResolver,
	ingests driven.IngestStore,
	objects driven.ObjectStore,
	queue driven.JobQueue,
	splitters driven.SplitterRegistry,
	opts ...IngestOption,
) *IngestService {
	s := &IngestService{
		resolver:  resolver,
		ingests:   ingests,
		objects:   objects,
		queue:     queue,
		splitters: splitters,
		maxUpload: DefaultMaxUploadBytes,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IngestText stores text as a .txt upload.
func (s *IngestService) IngestText(
	ctx context.Context, principal domain.Principal, uid string, req driving.TextIngest,
) (*driving.IngestReceipt, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, fmt.Errorf("%w: text is required", domain.ErrInvalidInput)
	}
	upload := driving.Upload{
		Name:        uuid.NewString() + ".txt",
		ContentType: "text/plain",
		Size:        int64(len(req.Text)),
		Body:        strings.NewReader(req.Text),
	}
	opts := domain.IngestOptions{Options: domain.DefaultIngestOptions, Chunks: req.Chunks, Splitter: req.Splitter}
	return s.upload(ctx, principal, uid, upload, opts, "text")
}

// IngestFile stores an uploaded file.
func (s *IngestService) IngestFile(
	ctx context.Context, principal domain.Principal, uid string, upload driving.Upload, opts domain.IngestOptions,
) (*driving.IngestReceipt, error) {
	return s.upload(ctx, principal, uid, upload, opts, "file")
}

func (s *IngestService) upload(
	ctx context.Context, principal domain.Principal, uid string,
	upload driving.Upload, opts domain.IngestOptions, kind string,
) (*driving.IngestReceipt, error) {
	if upload.Body == nil || strings.TrimSpace(upload.Name) == "" {
		return nil, fmt.Errorf("%w: file is required", domain.ErrInvalidInput)
	}
	opts, err := s.validateOptions(opts)
	if err != nil {
		return nil, err
	}
	if upload.Size > s.maxUpload {
		return nil, fmt.Errorf("%w: file exceeds %d bytes", domain.ErrInvalidInput, s.maxUpload)
	}

	pc, err := s.resolver.Resolve(ctx, uid)
	if err != nil {
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(upload.Body, s.maxUpload+1))
	if err != nil {
		return nil, wrapInternal("reading upload", err)
	}
	if int64(len(data)) > s.maxUpload {
		return nil, fmt.Errorf("%w: file exceeds %d bytes", domain.ErrInvalidInput, s.maxUpload)
	}

	key := domain.FileKey(uid, uuid.NewString()+"-"+sanitizeFileName(upload.Name))
	if err := s.objects.Put(ctx, key, bytes.NewReader(data), int64(len(data)), upload.ContentType); err != nil {
		return nil, wrapInternal("storing upload", err)
	}

	file := &domain.File{
		UserID:      principal.UserID,
		ProjectUID:  uid,
		FilePath:    key,
		FileName:    upload.Name,
		ContentType: upload.ContentType,
		Size:        int64(len(data)),
	}
	if err := s.ingests.CreateFile(ctx, file); err != nil {
		s.discardObject(ctx, key)
		return nil, wrapInternal("saving file", err)
	}

	ingest := &domain.Ingest{
		UserID:    principal.UserID,
		ProjectID: pc.Project.ID,
		FileID:    &file.ID,
		File:      file,
		Status:    domain.IngestCreated,
		ExtraData: opts,
	}
	if err := s.create(ctx, ingest, domain.JobExtractFile); err != nil {
		s.discardObject(ctx, key)
		return nil, err
	}

	s.metrics.IngestCreated(kind)
	logger.Info("Accepted %s ingest %d for project %s (%s)", kind, ingest.ID, uid, upload.Name)

	chunks := ingest.NumberOfPages
	return &driving.IngestReceipt{ID: ingest.ID, Chunks: &chunks, Message: driving.MessageProcessing}, nil
}

// IngestURL records a URL ingest and publishes its job.
func (s *IngestService) IngestURL(
	ctx context.Context, principal domain.Principal, uid string, req driving.URLIngest,
) (*driving.IngestReceipt, error) {
	rawURL := strings.TrimSpace(req.URL)
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: url must be an absolute http(s) url", domain.ErrInvalidInput)
	}
	opts, err := s.validateOptions(domain.IngestOptions{
		Options:  domain.DefaultIngestOptions,
		Chunks:   req.Chunks,
		Splitter: req.Splitter,
	})
	if err != nil {
		return nil, err
	}

	pc, err := s.resolver.Resolve(ctx, uid)
	if err != nil {
		return nil, err
	}

	ingest := &domain.Ingest{
		UserID:    principal.UserID,
		ProjectID: pc.Project.ID,
		URL:       rawURL,
		Status:    domain.IngestCreated,
		ExtraData: opts,
	}
	if err := s.create(ctx, ingest, domain.JobExtractURL); err != nil {
		return nil, err
	}

	s.metrics.IngestCreated("url")
	logger.Info("Accepted url ingest %d for project %s (%s)", ingest.ID, uid, rawURL)
	return &driving.IngestReceipt{ID: ingest.ID, Message: driving.MessageProcessing}, nil
}

// create stores the record and publishes its job. A record whose job could
// not be published is removed again so nothing waits for a job that never runs.
func (s *IngestService) create(ctx context.Context, ingest *domain.Ingest, kind domain.JobKind) error {
	if err := s.ingests.Create(ctx, ingest); err != nil {
		return wrapInternal("creating ingest", err)
	}
	if err := s.queue.Publish(ctx, domain.NewJob(kind, ingest.ID)); err != nil {
		logger.Error("publish %s for ingest %d: %v", kind, ingest.ID, err)
		if delErr := s.ingests.Delete(context.WithoutCancel(ctx), ingest.ID); delErr != nil {
			logger.Error("rollback ingest %d: %v", ingest.ID, delErr)
		}
		return fmt.Errorf("%w: publishing ingest job: %w", domain.ErrInternal, err)
	}
	return nil
}

func (s *IngestService) validateOptions(opts domain.IngestOptions) (domain.IngestOptions, error) {
	opts = opts.Normalize()
	if opts.Chunks > domain.MaxIngestChunks {
		return opts, fmt.Errorf("%w: chunks must be at most %d", domain.ErrInvalidInput, domain.MaxIngestChunks)
	}
	if _, err := opts.ParsedOptions(); err != nil {
		return opts, err
	}
	if s.splitters != nil && !s.splitters.Has(opts.Splitter) {
		return opts, fmt.Errorf("%w: unknown splitter %q", domain.ErrUnsupportedType, opts.Splitter)
	}
	return opts, nil
}

func (s *IngestService) discardObject(ctx context.Context, key string) {
	if err := s.objects.Delete(context.WithoutCancel(ctx), key); err != nil {
		logger.Warn("discard object %s: %v", key, err)
	}
}

// owned returns the ingest when it belongs to the project.
func (s *IngestService) owned(ctx context.Context, pc *driving.ProjectContext, ingestID int64) (*domain.Ingest, error) {
	ingest, err := s.ingests.Get(ctx, ingestID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, errIngestNotFound
		}
		return nil, wrapInternal("loading ingest", err)
	}
	if !ingest.BelongsTo(pc.Project.ID) {
		return nil, errIngestNotFound
	}
	return ingest, nil
}

// Status returns the status of one of the project's ingests.
func (s *IngestService) Status(ctx context.Context, uid string, ingestID int64) (domain.IngestStatus, error) {
	pc, err := s.resolver.Resolve(ctx, uid)
	if err != nil {
		return "", err
	}
	ingest, err := s.owned(ctx, pc, ingestID)
	if err != nil {
		return "", err
	}
	return ingest.Status, nil
}

// List returns the page of ingests after the cursor.
func (s *IngestService) List(ctx context.Context, uid string, query driving.ListQuery) (*domain.IngestPage, error) {
	pc, err := s.resolver.Resolve(ctx, uid)
	if err != nil {
		return nil, err
	}

	results, err := s.ingests.List(ctx, domain.IngestQuery{
		ProjectID: pc.Project.ID,
		Limit:     domain.ClampLimit(query.Limit),
		AfterID:   query.After,
		Search:    strings.TrimSpace(query.Q),
	})
	if err != nil {
		return nil, wrapInternal("listing ingests", err)
	}

	page := &domain.IngestPage{Results: results}
	if page.Results == nil {
		page.Results = []domain.Ingest{}
	}
	if n := len(page.Results); n > 0 {
		last := page.Results[n-1].ID
		page.After = &last
	}
	return page, nil
}

// SourceChunks returns the chunks stored for an ingest.
func (s *IngestService) SourceChunks(ctx context.Context, uid string, ingestID int64) (*domain.SourceChunks, error) {
	pc, err := s.resolver.Resolve(ctx, uid)
	if err != nil {
		return nil, err
	}
	ingest, err := s.owned(ctx, pc, ingestID)
	if err != nil {
		return nil, err
	}

	chunks, err := pc.Vectors.BySource(ctx, ingest.Source())
	if err != nil {
		return nil, wrapInternal("loading source chunks", err)
	}
	out := domain.NewSourceChunks(chunks)
	return &out, nil
}

// Delete removes the ingest's vectors, then the record, then the stored file.
// Ownership is checked before anything is touched.
func (s *IngestService) Delete(ctx context.Context, uid string, ingestID int64) error {
	pc, err := s.resolver.Resolve(ctx, uid)
	if err != nil {
		return err
	}
	ingest, err := s.owned(ctx, pc, ingestID)
	if err != nil {
		return err
	}

	source := ingest.Source()
	removed, err := pc.Vectors.DeleteSource(ctx, source)
	if err != nil {
		logger.Error("delete vectors of ingest %d (source %s): %v", ingestID, source, err)
		return errDeleteFailed
	}
	if err := s.ingests.Delete(ctx, ingestID); err != nil {
		logger.Error("delete ingest %d: %v", ingestID, err)
		return errDeleteFailed
	}
	if ingest.File != nil && ingest.File.FilePath != "" {
		s.discardObject(ctx, ingest.File.FilePath)
	}

	logger.Info("Deleted ingest %d of project %s (%d vectors)", ingestID, uid, removed)
	return nil
}

// sanitizeFileName keeps the base name with a safe character set.
func sanitizeFileName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	out := strings.Trim(b.String(), "._")
	if out == "" {
		return "upload"
	}
	if len(out) > 100 {
		out = out[len(out)-100:]
	}
	return out
}
