// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/digger/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

var (
	unitEnum     = mcp.Enum("year", "quarter", "month")
	categoryEnum = mcp.Enum("repository", "developer")
)

// metricOptions are the parameters shared by every metric tool.
func metricOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("names", mcp.Description("Comma-separated repositories (owner/repo) or developer logins."), mcp.Required()),
		mcp.WithString("category", mcp.Description("Entity category. Defaults to 'repository'."), categoryEnum),
		mcp.WithString("metric", mcp.Description("OpenDigger metric name (openrank, activity, stars, ...). Defaults to 'openrank'.")),
		mcp.WithString("unit", mcp.Description("Time unit of the periods. Defaults to 'month'."), unitEnum),
		mcp.WithString("from", mcp.Description("First period to include, e.g. '2021', '2021Q1' or '2021-01'.")),
		mcp.WithString("to", mcp.Description("Last period to include.")),
	}
}

// NewMCPServer initializes and configures the Digger MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Digger OpenDigger Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: get_metric_timeseries ---
	s.AddTool(mcp.NewTool("get_metric_timeseries", append([]mcp.ToolOption{
		mcp.WithDescription("Fetch an OpenDigger metric for several entities as line series aligned to shared periods."),
	}, metricOptions()...)...), h.handleGetTimeseries)

	// --- 2. Tool: get_rankings ---
	s.AddTool(mcp.NewTool("get_rankings", append([]mcp.ToolOption{
		mcp.WithDescription("Rank entities against each other in every period of an OpenDigger metric."),
		mcp.WithString("ties", mcp.Description("Tie policy: 'stable' gives distinct ranks, 'dense' shares them."), mcp.Enum("stable", "dense")),
	}, metricOptions()...)...), h.handleGetRankings)

	// --- 3. Tool: get_race ---
	s.AddTool(mcp.NewTool("get_race", append([]mcp.ToolOption{
		mcp.WithDescription("Build a per-period leaderboard of an OpenDigger metric."),
		mcp.WithNumber("limit", mcp.Description("Maximum entries per period.")),
	}, metricOptions()...)...), h.handleGetRace)

	// --- 4. Tool: get_graph ---
	s.AddTool(mcp.NewTool("get_graph",
		mcp.WithDescription("Shape a collaboration graph dataset into display-ready nodes and edges."),
		mcp.WithString("source", mcp.Description("URL or local path of the graph JSON dataset."), mcp.Required()),
		mcp.WithString("highlight", mcp.Description("Comma-separated node ids to highlight.")),
		mcp.WithString("node_size", mcp.Description("Symbol size range as 'min,max'. Defaults to '15,100'.")),
	), h.handleGetGraph)

	// --- 5. Tool: get_landscape ---
	s.AddTool(mcp.NewTool("get_landscape",
		mcp.WithDescription("Load a landscape CSV dataset and return projects ranked by OpenRank."),
		mcp.WithString("source", mcp.Description("URL or local path of the landscape CSV. Defaults to the configured source.")),
		mcp.WithString("search", mcp.Description("Case-insensitive search over name, description and classification.")),
		mcp.WithString("classification", mcp.Description("Only include projects of this category.")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of projects returned.")),
	), h.handleGetLandscape)

	// --- 6. Tool: list_metrics ---
	s.AddTool(mcp.NewTool("list_metrics",
		mcp.WithDescription("List the OpenDigger metrics and the categories they apply to."),
	), h.handleListMetrics)

	return s
}

// StartMCPServer starts the Digger MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
