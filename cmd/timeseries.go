package cmd

import (
	"github.com/huangsam/digger/core"
	"github.com/huangsam/digger/internal/contract"
	"github.com/spf13/cobra"
)

// timeseriesCmd prints a metric for several entities aligned to shared periods.
var timeseriesCmd = &cobra.Command{
	Use:   "timeseries <name>...",
	Short: "Show an OpenDigger metric over time for repositories or developers",
	Long: `Fetch one OpenDigger metric for every name and align the values to the union
of their periods. Periods without a positive value are left empty.

Names are owner/repo for repositories or a login for developers. They may be
given as separate arguments or comma-separated.

Examples:
  # Monthly OpenRank of two repositories
  digger timeseries kubernetes/kubernetes,apache/spark

  # Yearly stars since 2020 as CSV
  digger timeseries vuejs/core --metric stars --unit year --from 2020 --output csv

  # Developer activity by quarter
  digger timeseries alice bob --category developer --metric activity --unit quarter`,
	Args:    cobra.MinimumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteTimeseries(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot build timeseries", err)
		}
	},
}
