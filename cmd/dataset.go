package cmd

import (
	"github.com/huangsam/digger/core"
	"github.com/huangsam/digger/internal/contract"
	"github.com/spf13/cobra"
)

// fetchCmd prints a decoded dataset.
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch and decode a JSON or CSV dataset",
	Long: `Fetch a dataset from a URL or a local path and print it decoded.
CSV datasets become header-keyed records; JSON is printed as is.

Examples:
  digger fetch --source https://oss.open-digger.cn/github/vuejs/core/openrank.json
  digger fetch --source landscape.csv --format csv --output xlsx --output-file landscape.xlsx`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteFetch(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot fetch dataset", err)
		}
	},
}

// graphCmd shapes a collaboration graph dataset.
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Shape a collaboration graph dataset into nodes and edges",
	Long: `Load a graph dataset ({"nodes": [[id, weight], ...], "edges": [[source, target, weight], ...]})
and scale node weights into symbol sizes. Edges with a non-positive weight are dropped.

Examples:
  digger graph --source https://oss.open-digger.cn/github/vuejs/core/repo_network.json
  digger graph --source graph.json --node-size 10,60 --highlight vuejs/core --output json`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteGraph(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot shape graph", err)
		}
	},
}

// landscapeCmd loads and filters a landscape CSV.
var landscapeCmd = &cobra.Command{
	Use:   "landscape",
	Short: "Rank the projects of a landscape CSV by OpenRank",
	Long: `Load a landscape CSV (repo_id, repo_name, classification, stars, forks, language,
created_at, description, openrank), coerce every field and rank the projects by OpenRank.

Examples:
  digger landscape --source landscape.csv
  digger landscape --source landscape.csv --classification "Inference Engine" --search llm
  digger landscape --source landscape.csv --output parquet --output-file landscape.parquet`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteLandscape(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot build landscape", err)
		}
	},
}

// crawlCmd lists an organization's repositories as landscape records.
var crawlCmd = &cobra.Command{
	Use:   "crawl",
	Short: "List a GitHub organization's public repositories as landscape records",
	Long: `List every public repository of a GitHub organization and print it in the
landscape CSV layout, ready to be classified and fed back into 'digger landscape'.

Set DIGGER_GITHUB_TOKEN (or put it in .env) to raise the API rate limit.

Examples:
  digger crawl --org kubernetes --output csv --output-file kubernetes.csv`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteCrawl(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot crawl organization", err)
		}
	},
}
