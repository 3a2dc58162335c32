package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mhsabu/Neugrove/internal/core/domain"
	"github.com/mhsabu/Neugrove/internal/logger"
)

// Version is the MCP server version.
const Version = "0.1.0"

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 10 * time.Second
)

const instructions = `Neugrove indexes documents per project. Use search_embeddings with a
project_uid and either text (similarity search) or source (chunks of one
ingested document). Use ingest_status to follow an ingest until it is done
or failed. Stored chunks are readable as neugrove://projects/{uid}/chunks/{id}.`

// Server exposes gateway search and ingest status to MCP clients.
type Server struct {
	ports  *Ports
	server *mcp.Server

	// principal is the caller of an HTTP session; nil over stdio.
	principal *domain.Principal
}

// NewServer creates a new MCP server with the given ports.
func NewServer(ports *Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}
	return newServer(ports, nil), nil
}

func newServer(ports *Ports, principal *domain.Principal) *Server {
	s := &Server{
		ports: ports,
		server: mcp.NewServer(
			&mcp.Implementation{Name: "neugrove", Version: Version},
			&mcp.ServerOptions{Instructions: instructions},
		),
		principal: principal,
	}

	s.registerTools()
	s.registerResources()

	return s
}

// Run serves over stdio until ctx is cancelled or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// Handler returns the streamable HTTP handler of the server. With an
// Auth validator every request needs a bearer token, and each session
// is bound to the caller that opened it.
func (s *Server) Handler() http.Handler {
	if s.ports.Auth == nil {
		return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
			return s.server
		}, nil)
	}

	handler := mcp.NewStreamableHTTPHandler(func(r *http.Request) *mcp.Server {
		principal, ok := principalFrom(r.Context())
		if !ok {
			return nil
		}
		return newServer(s.ports, &principal).server
	}, nil)
	return requireToken(s.ports.Auth, handler)
}

// RunHTTP serves Handler on addr until ctx is cancelled.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("mcp shutdown: %v", err)
		}
	}()

	logger.Info("MCP server listening on %s", addr)
	if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving mcp: %w", err)
	}
	return nil
}
