package cmd

import (
	"github.com/huangsam/digger/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Digger MCP server",
	Long:  `Launch an MCP server over stdio that lets AI agents query OpenDigger metrics and datasets via standard tools.`,
	Args:  cobra.NoArgs,
	// Tool handlers suppress the command headers so stdio only carries the protocol
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, cacheManager)
	},
}
