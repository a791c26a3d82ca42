package cmd

import (
	"github.com/huangsam/digger/core"
	"github.com/huangsam/digger/internal/contract"
	"github.com/spf13/cobra"
)

// metricsCmd lists the OpenDigger metrics digger knows about.
var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "List the OpenDigger metrics and the categories they apply to",
	Long: `Show every metric name accepted by --metric, its label and whether it applies
to repositories, developers or both.

Nothing is fetched - this is purely informational.

Examples:
  digger metrics
  digger metrics --output json`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteMetrics(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot display metrics", err)
		}
	},
}
