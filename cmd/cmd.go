// Package cmd defines the command-line interface for digger.
package cmd

import (
	"github.com/huangsam/digger/internal/contract"
	"github.com/huangsam/digger/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(timeseriesCmd)
	rootCmd.AddCommand(rankCmd)
	rootCmd.AddCommand(raceCmd)
	rootCmd.AddCommand(graphCmd)
	rootCmd.AddCommand(landscapeCmd)
	rootCmd.AddCommand(crawlCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)
	cacheCmd.AddCommand(cachePruneCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("base-url", contract.DefaultBaseURL, "OpenDigger base URL")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of results to display")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet or xlsx")
	rootCmd.PersistentFlags().StringP("output-file", "o", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent fetches")
	rootCmd.PersistentFlags().String("timeout", "", "Per-request timeout (e.g. 30s)")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("cache-ttl", "", "How long cached responses stay fresh (e.g. 24h)")
	rootCmd.PersistentFlags().Int("memo-size", contract.DefaultMemoSize, "Number of responses kept in memory")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level: debug or info or warn or error")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")

	// Metric and dataset flags are shared by several commands, so they live on the root
	rootCmd.PersistentFlags().String("category", string(schema.RepositoryCategory), "Entity category: repository or developer")
	rootCmd.PersistentFlags().StringP("metric", "m", string(schema.OpenRankMetric), "OpenDigger metric name (see 'digger metrics')")
	rootCmd.PersistentFlags().StringP("unit", "u", string(schema.MonthUnit), "Time unit: year or quarter or month")
	rootCmd.PersistentFlags().String("from", "", "First period to include (e.g. 2021, 2021Q1, 2021-01)")
	rootCmd.PersistentFlags().String("to", "", "Last period to include")
	rootCmd.PersistentFlags().String("ties", string(schema.TieStable), "Tie policy for equal values: stable or dense")
	rootCmd.PersistentFlags().StringP("source", "s", "", "Dataset URL or local path")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of fetchCmd to Viper
	fetchCmd.Flags().String("format", string(schema.JSONFormat), "Dataset format: json or csv")
	if err := viper.BindPFlags(fetchCmd.Flags()); err != nil {
		contract.LogFatal("Error binding fetch flags", err)
	}

	// Bind all flags of graphCmd to Viper
	graphCmd.Flags().String("node-size", "", "Symbol size range as 'min,max' (default 15,100)")
	graphCmd.Flags().String("highlight", "", "Comma-separated node ids to highlight")
	if err := viper.BindPFlags(graphCmd.Flags()); err != nil {
		contract.LogFatal("Error binding graph flags", err)
	}

	// Bind all flags of landscapeCmd to Viper
	landscapeCmd.Flags().String("search", "", "Case-insensitive search over name, description and classification")
	landscapeCmd.Flags().String("classification", "", "Only include projects of this category")
	if err := viper.BindPFlags(landscapeCmd.Flags()); err != nil {
		contract.LogFatal("Error binding landscape flags", err)
	}

	// Bind all flags of crawlCmd to Viper
	crawlCmd.Flags().String("org", "", "GitHub organization to list")
	crawlCmd.Flags().String("github-token", "", "GitHub token (prefer DIGGER_GITHUB_TOKEN)")
	if err := viper.BindPFlags(crawlCmd.Flags()); err != nil {
		contract.LogFatal("Error binding crawl flags", err)
	}
}
