// Package httpapi exposes the gateway's driving ports over HTTP.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/mhsabu/Neugrove/internal/core/domain"
	"github.com/mhsabu/Neugrove/internal/core/ports/driving"
	"github.com/mhsabu/Neugrove/internal/logger"
	"github.com/mhsabu/Neugrove/internal/metrics"
)

// Config configures the HTTP server.
type Config struct {
	Addr            string
	JWTSecret       string
	Issuer          string
	DebugRoutes     bool
	MaxUploadBytes  int64
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Services are the driving ports served by the router.
// Processor is only needed when debug routes are enabled.
type Services struct {
	Embeddings driving.EmbeddingsService
	Ingests    driving.IngestService
	Sources    driving.SourceIngestService
	Processor  driving.IngestProcessor
	Metrics    *metrics.Metrics
}

// Server is the HTTP gateway.
type Server struct {
	cfg      Config
	services Services
	auth     *Authenticator
	router   chi.Router
}

// NewServer builds the router for the given services.
func NewServer(cfg Config, services Services) *Server {
	s := &Server{
		cfg:      cfg,
		services: services,
		auth:     NewAuthenticator(cfg.JWTSecret, cfg.Issuer),
	}
	s.router = s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(accessLog(s.services.Metrics))

	r.Get("/health", s.handleHealth)
	if s.services.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.services.Metrics.Handler())
	}
	if s.cfg.DebugRoutes && s.services.Processor != nil {
		r.Get("/test_ingest/{ingest_id}", s.handleTestIngest)
	}

	r.Route("/projects/{p_uid}/embeddings", func(r chi.Router) {
		r.Use(s.auth.Middleware)

		r.With(RequireRole(domain.RoleAdmin)).Post("/reset", s.handleReset)

		r.Group(func(r chi.Router) {
			r.Use(RequireRole(domain.RoleModerator))

			r.Get("/", s.handleList)
			r.Post("/search", s.handleSearch)
			r.Get("/id/{id}", s.handleGetChunk)

			r.Post("/ingest/text", s.handleIngestText)
			r.Post("/ingest/upload", s.handleIngestUpload)
			r.Post("/ingest/url", s.handleIngestURL)
			r.Get("/ingest/{ingest_id}/status", s.handleIngestStatus)

			r.Post("/ingest/sources/{source}", s.handleSourceIngest)
			for _, alias := range sourceAliases {
				r.Post("/ingest/"+alias, s.sourceAlias(alias))
			}

			r.Get("/{ingest_id}", s.handleSourceChunks)
			r.Delete("/{ingest_id}", s.handleDeleteIngest)
		})
	})

	return r
}

// ListenAndServe serves until ctx is cancelled, then drains in-flight
// requests for up to ShutdownTimeout.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP gateway listening on %s", s.cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()
	logger.Info("shutting down HTTP gateway")
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
