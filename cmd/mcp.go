package cmd

import (
	"github.com/seamosgenios/panel/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp [data-path...]",
	Short: "Start the panel MCP server",
	Long: `Launch an MCP server on stdio so AI agents can query students, rankings, alerts
and the summary. Every tool call reloads the attendance data with its own filters.`,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, storeManager)
	},
}
