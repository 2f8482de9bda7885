package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docley/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so writing assistants can ingest
documents, fetch relevant chunks and rewrite text.

By default, the server communicates over stdio using JSON-RPC.

Use --port to start an HTTP server instead, which enables:
  - Testing with MCP Inspector web UI
  - Remote access via HTTP

Examples:
  # Stdio mode (default)
  docley mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  docley mcp serve --port 8080

Client configuration:
  {
    "mcpServers": {
      "docley": {
        "command": "/path/to/docley",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	settings, err := loadSettings()
	if err != nil {
		return err
	}

	app, err := newApp(cmd.Context(), settings, appOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	app.Dispatcher.Start(cmd.Context())
	defer app.Dispatcher.Stop()

	ports := &mcp.Ports{
		Retrieval:  app.Retrieval,
		Dispatcher: app.Dispatcher,
		Ingestion:  app.Ingestion,
		Transform:  app.Transform,
		Documents:  app.Documents,
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
