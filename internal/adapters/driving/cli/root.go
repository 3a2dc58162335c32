// Package cli implements the neugrove command line.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mhsabu/Neugrove/internal/app"
	"github.com/mhsabu/Neugrove/internal/config"
	"github.com/mhsabu/Neugrove/internal/logger"
)

// version is overwritten at build time with -ldflags "-X".
var version = "dev"

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "neugrove",
	Short: "RAG ingestion and search gateway",
	Long: `Neugrove accepts documents, URLs and third-party sources, turns them
into embeddings in a per-project vector index and serves similarity search
over HTTP and MCP.

Configuration is read from neugrove.toml, $NEUGROVE_CONFIG or --config.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to the configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command. ctx is cancelled on shutdown signals.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// loadConfig reads the configuration selected by the persistent flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// loadApp builds the application from the configuration. Callers must
// Close the result.
func loadApp(ctx context.Context) (*app.App, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	a, err := app.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("starting neugrove: %w", err)
	}
	return a, nil
}

func closeApp(a *app.App) {
	if err := a.Close(); err != nil {
		logger.Warn("closing: %v", err)
	}
}
