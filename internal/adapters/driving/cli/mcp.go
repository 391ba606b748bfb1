package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/jira-export/internal/adapters/driven/storage/filesystem"
	"github.com/custodia-labs/jira-export/internal/adapters/driving/mcp"
	"github.com/custodia-labs/jira-export/internal/core/services"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can fetch
Jira issues as Markdown.

Tools:
  issue_markdown   - render one issue by key
  search_markdown  - render every issue matching a JQL query
  test_connection  - check the configured credentials

Documents previously exported to the configured output directory are
available as jira-export://documents resources.

By default, the server communicates over stdio using JSON-RPC.
Use --port to start an HTTP server instead.

Examples:
  # Stdio mode (default)
  jira-export mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  jira-export mcp serve --port 8080`,
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

	processor, _, err := newProcessor(settings, services.ProcessorOptions{
		IncludeComments:    settings.Export.IncludeComments,
		IncludeAttachments: settings.Export.IncludeAttachments,
	})
	if err != nil {
		return err
	}

	server, err := mcp.NewServer(&mcp.Ports{
		Processor: processor,
		Documents: filesystem.NewDocumentStore(settings.Export.OutputDir),
	})
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
