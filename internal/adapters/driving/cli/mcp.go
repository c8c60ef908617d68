package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/enginedesk/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start a Model Context Protocol server that lets AI assistants list the
registered engines and read settings.

By default the server communicates over stdio. Use --port to serve HTTP
instead.

Examples:
  enginedesk mcp serve
  enginedesk mcp serve --port 8080`,
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

	server, err := mcp.NewServer(&mcp.Ports{
		Engines:  engineService,
		Settings: settingsService,
	})
	if err != nil {
		return err
	}

	if port > 0 {
		ln, err := mcp.Listen(fmt.Sprintf("127.0.0.1:%d", port))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://%s\n", ln.Addr())
		return server.RunHTTP(cmd.Context(), ln)
	}

	return server.Run(cmd.Context())
}
