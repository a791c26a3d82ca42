// Package core has the metric loading and shaping logic behind every command.
package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/huangsam/digger/core/algo"
	"github.com/huangsam/digger/internal/contract"
	"github.com/huangsam/digger/internal/fetch"
	"github.com/huangsam/digger/internal/ghcrawl"
	"github.com/huangsam/digger/internal/outwriter"
	"github.com/huangsam/digger/schema"
)

// ErrNoSource is returned when a dataset command has no --source.
var ErrNoSource = errors.New("--source is required")

// ExecutorFunc defines the function signature for executing commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error

// loadGroup fetches cfg.Metric for every name and returns the requested
// time unit restricted to the configured span.
func loadGroup(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) ([]string, []schema.EntityMetrics, error) {
	if !shouldSuppressHeader(ctx) {
		outwriter.LogMetricHeader(os.Stderr, cfg)
	}
	loader := NewLoader(newFetcher(cfg, mgr), cfg.BaseURL, cfg.Workers)
	list, err := loader.FetchAll(ctx, cfg.Names, cfg.Metric)
	if err != nil {
		return nil, nil, err
	}
	group := GroupByTimeUnit(list)[cfg.TimeUnit]
	return FilterPeriods(group.Periods, cfg.Span), group.List, nil
}

// GetTimeseriesResults builds the aligned line series for cfg.Names.
func GetTimeseriesResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (schema.TimeSeriesResult, error) {
	periods, list, err := loadGroup(ctx, cfg, mgr)
	if err != nil {
		return schema.TimeSeriesResult{}, err
	}
	return schema.TimeSeriesResult{
		Metric: cfg.Metric,
		Unit:   cfg.TimeUnit,
		Span:   cfg.Span,
		Period: periods,
		Series: LineSeries(periods, list, cfg.Precision),
	}, nil
}

// GetRaceResults builds one leaderboard frame per period, each holding at
// most cfg.ResultLimit entries.
func GetRaceResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (schema.RaceResult, error) {
	periods, list, err := loadGroup(ctx, cfg, mgr)
	if err != nil {
		return schema.RaceResult{}, err
	}
	frames := make([]schema.RaceFrame, 0, len(periods))
	for _, period := range periods {
		entries := algo.RankPeriod(period, list, cfg.TiePolicy)
		if cfg.ResultLimit > 0 && len(entries) > cfg.ResultLimit {
			entries = entries[:cfg.ResultLimit]
		}
		for i := range entries {
			entries[i].Value = roundTo(entries[i].Value, cfg.Precision)
		}
		frames = append(frames, schema.RaceFrame{Period: period, Entries: entries})
	}
	return schema.RaceResult{Metric: cfg.Metric, Unit: cfg.TimeUnit, Span: cfg.Span, Frames: frames}, nil
}

// GetRankResults builds the per-period rank series for cfg.Names.
func GetRankResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (schema.RankResult, error) {
	periods, list, err := loadGroup(ctx, cfg, mgr)
	if err != nil {
		return schema.RankResult{}, err
	}
	return schema.RankResult{
		Metric: cfg.Metric,
		Unit:   cfg.TimeUnit,
		Span:   cfg.Span,
		Period: periods,
		Series: algo.RankSeries(periods, list, cfg.TiePolicy),
	}, nil
}

// GetGraphResults loads a graph dataset and shapes it for display.
func GetGraphResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (schema.Graph, error) {
	if cfg.Source == "" {
		return schema.Graph{}, ErrNoSource
	}
	if !shouldSuppressHeader(ctx) {
		outwriter.LogDatasetHeader(os.Stderr, "graph", cfg.Source)
	}
	decoded, err := fetch.Fetch(ctx, newFetcher(cfg, mgr), cfg.Source, schema.JSONFormat)
	if err != nil {
		return schema.Graph{}, err
	}
	raw, err := ParseRawGraph(decoded)
	if err != nil {
		return schema.Graph{}, fmt.Errorf("%s: %w", cfg.Source, err)
	}
	g := ShapeGraph(raw, cfg.NodeSize)
	Highlight(&g, cfg.Highlight)
	return g, nil
}

// GetLandscapeResults loads a landscape CSV and applies cfg.Filter.
func GetLandscapeResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (schema.LandscapeResult, error) {
	if cfg.Source == "" {
		return schema.LandscapeResult{}, ErrNoSource
	}
	if !shouldSuppressHeader(ctx) {
		outwriter.LogDatasetHeader(os.Stderr, "landscape", cfg.Source)
	}
	records, err := fetch.FetchCSV(ctx, newFetcher(cfg, mgr), cfg.Source)
	if err != nil {
		return schema.LandscapeResult{}, err
	}
	return BuildLandscape(LoadProjects(records), cfg.Filter, cfg.ResultLimit), nil
}

// BuildLandscape filters and ranks projects, keeping at most limit of them.
// Categories and groups describe the whole unfiltered list.
func BuildLandscape(projects []schema.Project, filter schema.LandscapeFilter, limit int) schema.LandscapeResult {
	filtered := FilterProjects(projects, filter)
	total := len(filtered)
	if limit > 0 && len(filtered) > limit {
		filtered = filtered[:limit]
	}
	categories := AvailableCategories(projects)
	return schema.LandscapeResult{
		Filter:     filter,
		Total:      total,
		Projects:   schema.EnrichProjects(filtered),
		Categories: categories,
		Groups:     CategoriesByGroup(categories),
	}
}

// GetFetchResults fetches and decodes cfg.Source in cfg.Format.
func GetFetchResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (any, error) {
	if cfg.Source == "" {
		return nil, ErrNoSource
	}
	return fetch.Fetch(ctx, newFetcher(cfg, mgr), cfg.Source, cfg.Format)
}

// ExecuteTimeseries runs the timeseries command and prints its results.
func ExecuteTimeseries(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	result, err := GetTimeseriesResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.PrintTimeseriesResults(result, cfg, time.Since(start))
}

// ExecuteRace runs the race command and prints its results.
func ExecuteRace(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	result, err := GetRaceResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.PrintRaceResults(result, cfg, time.Since(start))
}

// ExecuteRank runs the rank command and prints its results.
func ExecuteRank(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	result, err := GetRankResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.PrintRankResults(result, cfg, time.Since(start))
}

// ExecuteGraph runs the graph command and prints its results.
func ExecuteGraph(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	result, err := GetGraphResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.PrintGraphResults(result, cfg, time.Since(start))
}

// ExecuteLandscape runs the landscape command and prints its results.
func ExecuteLandscape(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	result, err := GetLandscapeResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.PrintLandscapeResults(result, cfg, time.Since(start))
}

// ExecuteFetch runs the fetch command and prints the decoded dataset.
func ExecuteFetch(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	result, err := GetFetchResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.PrintFetchResults(result, cfg)
}

// ExecuteCrawl lists an organization's repositories as landscape records.
// The crawl talks to GitHub directly and is never cached.
func ExecuteCrawl(ctx context.Context, cfg *contract.Config, _ contract.CacheManager) error {
	if !shouldSuppressHeader(ctx) {
		outwriter.LogDatasetHeader(os.Stderr, "crawl", cfg.Org)
	}
	crawler := ghcrawl.NewCrawler(ghcrawl.NewGitHubClient(ctx, cfg.GitHubToken))
	records, err := crawler.CrawlOrg(ctx, cfg.Org)
	if err != nil {
		return err
	}
	return outwriter.PrintRecords(records, schema.LandscapeColumns, cfg)
}

// ExecuteMetrics prints the metric catalogue.
func ExecuteMetrics(_ context.Context, cfg *contract.Config, _ contract.CacheManager) error {
	return outwriter.PrintMetricsDefinitions(schema.BuildMetricsRenderModel(cfg.BaseURL), cfg)
}
