package cmd

import (
	"github.com/spf13/cobra"

	"github.com/davidkimai/recursive-distill/internal/mcp"
	"github.com/davidkimai/recursive-distill/internal/runstore"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Distill MCP server",
	Long:  `Launch an MCP server that allows AI agents to run coherence analysis via standard tools.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Stdio carries the protocol, so setup must stay quiet.
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, runstore.Manager)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
