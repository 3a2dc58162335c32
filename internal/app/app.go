// Package app assembles the gateway from its configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/mhsabu/Neugrove/internal/adapters/driven/embedding/openai"
	"github.com/mhsabu/Neugrove/internal/adapters/driven/fetch"
	lockmemory "github.com/mhsabu/Neugrove/internal/adapters/driven/lock/memory"
	lockredis "github.com/mhsabu/Neugrove/internal/adapters/driven/lock/redis"
	"github.com/mhsabu/Neugrove/internal/adapters/driven/objectstore/local"
	"github.com/mhsabu/Neugrove/internal/adapters/driven/objectstore/s3"
	queuememory "github.com/mhsabu/Neugrove/internal/adapters/driven/queue/memory"
	queueredis "github.com/mhsabu/Neugrove/internal/adapters/driven/queue/redis"
	"github.com/mhsabu/Neugrove/internal/adapters/driven/queue/sqs"
	"github.com/mhsabu/Neugrove/internal/adapters/driven/secrets"
	"github.com/mhsabu/Neugrove/internal/adapters/driven/storage/memory"
	"github.com/mhsabu/Neugrove/internal/adapters/driven/storage/postgres"
	"github.com/mhsabu/Neugrove/internal/adapters/driven/storage/sqlite"
	"github.com/mhsabu/Neugrove/internal/config"
	"github.com/mhsabu/Neugrove/internal/connectors"
	"github.com/mhsabu/Neugrove/internal/core/domain"
	"github.com/mhsabu/Neugrove/internal/core/ports/driven"
	"github.com/mhsabu/Neugrove/internal/core/services"
	"github.com/mhsabu/Neugrove/internal/extractors"
	"github.com/mhsabu/Neugrove/internal/logger"
	"github.com/mhsabu/Neugrove/internal/metrics"
	"github.com/mhsabu/Neugrove/internal/splitters"
)

// App holds every adapter and service built from one configuration.
type App struct {
	Config  *config.Config
	Metrics *metrics.Metrics

	Projects driven.ProjectStore
	Ingests  driven.IngestStore
	Vectors  driven.VectorStore
	Objects  driven.ObjectStore
	Queue    driven.JobQueue
	Locker   driven.Locker
	Embedder driven.EmbeddingService

	ProjectService *services.ProjectService
	Embeddings     *services.EmbeddingsService
	IngestService  *services.IngestService
	Sources        *services.SourceIngestService
	Processor      *services.Processor

	// Postgres is set when the postgres driver is selected.
	Postgres *postgres.Store

	closers []func() error
}

// New builds the application. Close releases everything New opened, also
// when New fails halfway.
func New(ctx context.Context, cfg *config.Config) (a *App, err error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a = &App{Config: cfg, Metrics: metrics.New()}
	defer func() {
		if err != nil {
			_ = a.Close()
			a = nil
		}
	}()

	if err := a.openStorage(ctx); err != nil {
		return nil, fmt.Errorf("opening %s storage: %w", cfg.Database.Driver, err)
	}
	if err := a.openObjects(ctx); err != nil {
		return nil, fmt.Errorf("opening %s object store: %w", cfg.Storage.Backend, err)
	}
	if err := a.openQueue(ctx); err != nil {
		return nil, fmt.Errorf("opening %s queue: %w", cfg.Queue.Backend, err)
	}
	if err := a.openLocker(ctx); err != nil {
		return nil, fmt.Errorf("opening %s lock: %w", cfg.Lock.Backend, err)
	}
	a.Embedder = newEmbedder(cfg.Embedding)

	store, err := secrets.New(ctx, cfg.Secrets.Backend, cfg.Secrets.Options)
	if err != nil {
		return nil, fmt.Errorf("opening %s secret store: %w", cfg.Secrets.Backend, err)
	}
	credentials := services.NewCredentialResolver(
		secrets.NewCached(store, cfg.Secrets.TTL.Std()), cfg.Secrets.Prefix, cfg.Secrets.TTL.Std())

	splitterRegistry := splitters.NewDefaultRegistry()
	resolver := services.NewProjectResolver(a.Projects, a.Vectors)

	a.ProjectService = services.NewProjectService(a.Projects)
	a.Embeddings = services.NewEmbeddingsService(resolver, a.Embedder, a.Metrics)
	a.IngestService = services.NewIngestService(resolver, a.Ingests, a.Objects, a.Queue, splitterRegistry,
		services.WithMaxUploadBytes(cfg.Ingest.MaxUploadBytes),
		services.WithIngestMetrics(a.Metrics),
	)
	a.Sources = services.NewSourceIngestService(
		services.NewConnectorRegistry(connectors.Default(connectors.Endpoints{
			GitHub: cfg.Connectors.GitHubURL,
			Slack:  cfg.Connectors.SlackURL,
			Drive:  cfg.Connectors.DriveURL,
		})...),
		credentials, resolver, splitterRegistry, a.Embedder,
	)
	a.Processor = services.NewProcessor(services.ProcessorDeps{
		Projects:   a.Projects,
		Ingests:    a.Ingests,
		Vectors:    a.Vectors,
		Objects:    a.Objects,
		Fetcher:    fetch.New(cfg.Ingest.URLTimeout.Std(), fetch.WithMaxBytes(cfg.Ingest.MaxURLBytes)),
		Extractors: extractors.NewDefaultRegistry(),
		Splitters:  splitterRegistry,
		Embedder:   a.Embedder,
		Locker:     a.Locker,
	}, cfg.Lock.TTL.Std())

	return a, nil
}

// NewWorker creates queue consumers over the application's queue. A
// non-positive concurrency uses worker.concurrency.
func (a *App) NewWorker(concurrency int) *services.Worker {
	if concurrency <= 0 {
		concurrency = a.Config.Worker.Concurrency
	}
	return services.NewWorker(a.Queue, a.Processor, concurrency, a.Metrics)
}

// Migrate applies the schema of the configured database.
func (a *App) Migrate(ctx context.Context) error {
	switch {
	case a.Postgres != nil:
		return postgres.RunMigrations(ctx, a.Postgres.Pool())
	default:
		// memory needs no schema and sqlite migrates when it opens.
		logger.Info("%s storage needs no migration step", a.Config.Database.Driver)
		return nil
	}
}

// Close releases resources in reverse order of creation.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) onClose(fn func() error) {
	a.closers = append(a.closers, fn)
}

func (a *App) openStorage(ctx context.Context) error {
	switch strings.ToLower(a.Config.Database.Driver) {
	case "memory":
		a.Projects = memory.NewProjectStore()
		a.Ingests = memory.NewIngestStore()
		a.Vectors = memory.NewVectorStore()
	case "sqlite":
		store, err := sqlite.NewStore(a.Config.Database.DataDir)
		if err != nil {
			return err
		}
		a.onClose(store.Close)
		a.Projects, a.Ingests, a.Vectors = store.ProjectStore(), store.IngestStore(), store.VectorStore()
		logger.Debug("sqlite database at %s", store.Path())
	case "postgres":
		store, err := postgres.Connect(ctx, a.Config.Database.DSN)
		if err != nil {
			return err
		}
		a.onClose(store.Close)
		a.Postgres = store
		a.Projects, a.Ingests, a.Vectors = store.ProjectStore(), store.IngestStore(), store.VectorStore()
	default:
		return fmt.Errorf("%w: database driver %q", domain.ErrUnsupportedType, a.Config.Database.Driver)
	}
	return nil
}

func (a *App) openObjects(ctx context.Context) error {
	cfg := a.Config.Storage
	switch strings.ToLower(cfg.Backend) {
	case "local":
		store, err := local.New(cfg.Root)
		if err != nil {
			return err
		}
		a.Objects = store
	case "s3":
		store, err := s3.New(ctx, s3.Config{
			Bucket:    cfg.Bucket,
			Prefix:    cfg.Prefix,
			Region:    cfg.Region,
			Endpoint:  cfg.Endpoint,
			PathStyle: cfg.PathStyle,
		})
		if err != nil {
			return err
		}
		a.Objects = store
	default:
		return fmt.Errorf("%w: storage backend %q", domain.ErrUnsupportedType, cfg.Backend)
	}
	return nil
}

func (a *App) openQueue(ctx context.Context) error {
	cfg := a.Config.Queue
	var (
		q   driven.JobQueue
		err error
	)
	switch strings.ToLower(cfg.Backend) {
	case "memory":
		q = queuememory.New(cfg.Capacity)
	case "redis":
		q, err = queueredis.Dial(ctx, cfg.RedisURL, cfg.Key)
	case "sqs":
		q, err = sqs.New(ctx, cfg.QueueURL, cfg.Region, cfg.VisibilityTimeout)
	default:
		err = fmt.Errorf("%w: queue backend %q", domain.ErrUnsupportedType, cfg.Backend)
	}
	if err != nil {
		return err
	}
	a.Queue = q
	a.onClose(q.Close)
	return nil
}

func (a *App) openLocker(ctx context.Context) error {
	cfg := a.Config.Lock
	switch strings.ToLower(cfg.Backend) {
	case "memory":
		a.Locker = lockmemory.New()
	case "redis":
		opts, err := redis.ParseURL(a.Config.LockRedisURL())
		if err != nil {
			return fmt.Errorf("parsing redis url: %w", err)
		}
		rdb := redis.NewClient(opts)
		a.onClose(rdb.Close)
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("pinging redis: %w", err)
		}
		a.Locker = lockredis.New(rdb, cfg.Prefix)
	default:
		return fmt.Errorf("%w: lock backend %q", domain.ErrUnsupportedType, cfg.Backend)
	}
	return nil
}

// newEmbedder builds the embedding client. A misconfigured endpoint does not
// stop the gateway: operations that need embeddings fail with
// domain.ErrEmbeddingUnavailable instead.
func newEmbedder(cfg config.EmbeddingConfig) driven.EmbeddingService {
	svc, err := openai.NewEmbeddingService(openai.Config{
		APIKey:     cfg.APIKey,
		BaseURL:    cfg.BaseURL,
		Model:      cfg.Model,
		Timeout:    cfg.Timeout.Std(),
		Dimensions: cfg.Dimensions,
		BatchSize:  cfg.BatchSize,
	})
	if err != nil {
		logger.Warn("embeddings disabled: %v", err)
		return unavailableEmbedder{cause: err}
	}
	return svc
}

type unavailableEmbedder struct {
	cause error
}

func (e unavailableEmbedder) Embed(context.Context, string) ([]float32, error) {
	return nil, e.err()
}

func (e unavailableEmbedder) EmbedBatch(context.Context, []string) ([][]float32, error) {
	return nil, e.err()
}

func (e unavailableEmbedder) Dimensions() int { return 0 }

func (e unavailableEmbedder) ModelName() string { return "" }

func (e unavailableEmbedder) err() error {
	if errors.Is(e.cause, domain.ErrEmbeddingUnavailable) {
		return e.cause
	}
	return fmt.Errorf("%w: %v", domain.ErrEmbeddingUnavailable, e.cause)
}
