package cli

import (
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mhsabu/Neugrove/internal/adapters/driving/httpapi"
	"github.com/mhsabu/Neugrove/internal/app"
)

var (
	serveAddr    string
	serveWorkers int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP gateway",
	Long: `Start the HTTP gateway.

Ingest requests are published to the configured queue. Run 'neugrove worker'
separately, or pass --workers to consume the queue in this process. The
memory queue only reaches workers of the same process.

Examples:
  neugrove serve
  neugrove serve --addr :9000 --workers 4`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default server.addr)")
	serveCmd.Flags().IntVar(&serveWorkers, "workers", 0, "queue consumers to run in-process (0 = none)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	a, err := loadApp(ctx)
	if err != nil {
		return err
	}
	defer closeApp(a)

	server := newHTTPServer(a, serveAddr)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return server.ListenAndServe(ctx) })
	if serveWorkers > 0 {
		worker := a.NewWorker(serveWorkers)
		g.Go(func() error { return worker.Run(ctx) })
	}
	return g.Wait()
}

func newHTTPServer(a *app.App, addr string) *httpapi.Server {
	cfg := a.Config
	if addr == "" {
		addr = cfg.Server.Addr
	}
	return httpapi.NewServer(httpapi.Config{
		Addr:            addr,
		JWTSecret:       cfg.Auth.JWTSecret,
		Issuer:          cfg.Auth.Issuer,
		DebugRoutes:     cfg.Server.DebugRoutes,
		MaxUploadBytes:  cfg.Ingest.MaxUploadBytes,
		ReadTimeout:     cfg.Server.ReadTimeout.Std(),
		WriteTimeout:    cfg.Server.WriteTimeout.Std(),
		ShutdownTimeout: cfg.Server.ShutdownTimeout.Std(),
	}, httpapi.Services{
		Embeddings: a.Embeddings,
		Ingests:    a.IngestService,
		Sources:    a.Sources,
		Processor:  a.Processor,
		Metrics:    a.Metrics,
	})
}
