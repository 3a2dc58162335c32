package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mhsabu/Neugrove/internal/adapters/driving/httpapi"
	"github.com/mhsabu/Neugrove/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server for AI assistant integration.

By default, the server communicates over stdio using JSON-RPC. Use --port
to serve streamable HTTP instead, or --http to listen on mcp.addr. HTTP
requests need the same bearer tokens as the REST API, and every tool and
resource requires the moderator role on the project it reads.

Tools:
  search_embeddings  similarity search or source lookup in a rag project
  ingest_status      processing status of an ingest

Examples:
  # Stdio mode (default)
  neugrove mcp serve

  # HTTP mode
  neugrove mcp serve --port 8001

Assistant configuration:
  {
    "mcpServers": {
      "neugrove": {
        "command": "/path/to/neugrove",
        "args": ["mcp", "serve", "--config", "/etc/neugrove.toml"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpServeCmd.Flags().Bool("http", false, "serve HTTP on mcp.addr")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}
	useHTTP, err := cmd.Flags().GetBool("http")
	if err != nil {
		return fmt.Errorf("getting http flag: %w", err)
	}

	a, err := loadApp(cmd.Context())
	if err != nil {
		return err
	}
	defer closeApp(a)

	server, err := mcp.NewServer(&mcp.Ports{
		Embeddings: a.Embeddings,
		Ingests:    a.IngestService,
		Auth:       httpapi.NewAuthenticator(a.Config.Auth.JWTSecret, a.Config.Auth.Issuer),
	})
	if err != nil {
		return err
	}

	switch {
	case port > 0:
		return server.RunHTTP(cmd.Context(), fmt.Sprintf(":%d", port))
	case useHTTP:
		return server.RunHTTP(cmd.Context(), a.Config.MCP.Addr)
	default:
		return server.Run(cmd.Context())
	}
}
