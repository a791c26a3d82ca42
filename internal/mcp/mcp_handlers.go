package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/huangsam/digger/core"
	"github.com/huangsam/digger/internal/contract"
	"github.com/huangsam/digger/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.CacheManager
}

// metricConfig clones the base config with the metric parameters of request applied.
func (h *toolHandler) metricConfig(request mcp.CallToolRequest) (*contract.Config, error) {
	cfg := h.baseCfg.Clone()
	err := contract.RevalidateMetric(cfg, contract.MetricOverrides{
		Names:    []string{request.GetString("names", "")},
		Category: request.GetString("category", ""),
		Metric:   request.GetString("metric", ""),
		Unit:     request.GetString("unit", ""),
		From:     request.GetString("from", ""),
		To:       request.GetString("to", ""),
		Ties:     request.GetString("ties", ""),
	})
	return cfg, err
}

// jsonResult renders v as an indented JSON text result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetTimeseries(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.metricConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid metric parameters: %v", err)), nil
	}

	result, err := core.GetTimeseriesResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("timeseries failed: %v", err)), nil
	}
	return jsonResult(result)
}

func (h *toolHandler) handleGetRankings(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.metricConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid metric parameters: %v", err)), nil
	}

	result, err := core.GetRankResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("ranking failed: %v", err)), nil
	}
	return jsonResult(result)
}

func (h *toolHandler) handleGetRace(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.metricConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid metric parameters: %v", err)), nil
	}
	if l := request.GetInt("limit", 0); l > 0 {
		cfg.ResultLimit = min(l, contract.MaxResultLimit)
	}

	result, err := core.GetRaceResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("race failed: %v", err)), nil
	}
	return jsonResult(result)
}

func (h *toolHandler) handleGetGraph(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	cfg.Source = strings.TrimSpace(request.GetString("source", ""))
	if cfg.Source == "" {
		return mcp.NewToolResultError("source is required"), nil
	}
	cfg.Format = schema.JSONFormat
	if hl := request.GetString("highlight", ""); hl != "" {
		cfg.Highlight = contract.SplitList(hl)
	}
	if ns := request.GetString("node_size", ""); ns != "" {
		size, err := contract.ParseSizeRange(ns)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid node_size: %v", err)), nil
		}
		cfg.NodeSize = size
	}

	graph, err := core.GetGraphResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("graph failed: %v", err)), nil
	}
	return jsonResult(graph)
}

func (h *toolHandler) handleGetLandscape(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if src := strings.TrimSpace(request.GetString("source", "")); src != "" {
		cfg.Source = src
	}
	if cfg.Source == "" {
		return mcp.NewToolResultError("source is required"), nil
	}
	cfg.Format = schema.CSVFormat
	cfg.Filter = schema.LandscapeFilter{
		Search:   strings.TrimSpace(request.GetString("search", "")),
		Category: strings.TrimSpace(request.GetString("classification", "")),
	}
	if l := request.GetInt("limit", 0); l > 0 {
		cfg.ResultLimit = min(l, contract.MaxResultLimit)
	}

	result, err := core.GetLandscapeResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("landscape failed: %v", err)), nil
	}
	return jsonResult(result)
}

func (h *toolHandler) handleListMetrics(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(schema.BuildMetricsRenderModel(h.baseCfg.BaseURL))
}
