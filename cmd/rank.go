package cmd

import (
	"github.com/huangsam/digger/core"
	"github.com/huangsam/digger/internal/contract"
	"github.com/spf13/cobra"
)

// rankCmd ranks entities against each other in every period.
var rankCmd = &cobra.Command{
	Use:   "rank <name>...",
	Short: "Rank repositories or developers against each other in every period",
	Long: `Rank every name by one OpenDigger metric in each period. An entity is ranked
from its first active period on; periods where it has no positive value stay empty.

Equal values keep input order by default (--ties stable). Use --ties dense to
let them share a rank.

Examples:
  # Yearly OpenRank ranking
  digger rank kubernetes/kubernetes apache/spark pytorch/pytorch --unit year

  # Export the ranking to a spreadsheet
  digger rank vuejs/core facebook/react --output xlsx --output-file rank.xlsx`,
	Args:    cobra.MinimumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteRank(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot rank entities", err)
		}
	},
}

// raceCmd prints one leaderboard per period.
var raceCmd = &cobra.Command{
	Use:   "race <name>...",
	Short: "Build a per-period leaderboard of an OpenDigger metric",
	Long: `Build the data behind a line race: for every period, the active entities sorted
by value, keeping at most --limit of them.

Examples:
  # Top 3 repositories by quarterly activity
  digger race a/x b/y c/z d/w --metric activity --unit quarter --limit 3`,
	Args:    cobra.MinimumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteRace(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot build race", err)
		}
	},
}
