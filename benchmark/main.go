// Package main benchmarks the digger CLI against the live OpenDigger API.
// Each command runs several times without a cache, then several times with
// the SQLite cache, treating the first cached run as cold and averaging the rest as warm.
// Results are written as CSV for performance analysis and documentation.
//
// Prerequisites:
// - digger binary installed and available in PATH
// - network access to the OpenDigger base URL
//
// Usage: go run benchmark/main.go [base-url]
package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (no-cache average, cold run and average of warm runs).
type BenchmarkResult struct {
	Group       string
	Command     string
	NoCacheTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	BaseURL     string
	Timeout     time.Duration
	Workers     int
	NoCacheRuns int
	CacheRuns   int
	Groups      map[string][]string // Name groups keyed by label
	GroupOrder  []string
	Commands    [][]string // Subcommand plus its extra flags
}

func main() {
	baseURL := "https://oss.open-digger.cn"
	if len(os.Args) == 2 {
		baseURL = os.Args[1]
	} else if len(os.Args) > 2 {
		fmt.Printf("Usage: %s [base-url]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		BaseURL:     baseURL,
		Timeout:     2 * time.Minute,
		Workers:     8,
		NoCacheRuns: 3,
		CacheRuns:   4,
		Groups: map[string][]string{
			"small": {"vuejs/core", "facebook/react"},
			"large": {
				"kubernetes/kubernetes", "apache/spark", "pytorch/pytorch", "tensorflow/tensorflow",
				"golang/go", "rust-lang/rust", "nodejs/node", "microsoft/vscode",
				"apache/flink", "ClickHouse/ClickHouse",
			},
		},
		GroupOrder: []string{"small", "large"},
		Commands: [][]string{
			{"timeseries", "--unit", "month"},
			{"rank", "--unit", "quarter"},
			{"race", "--unit", "year", "--limit", "5"},
		},
	}

	if _, err := exec.LookPath("digger"); err != nil {
		fmt.Printf("Prerequisites check failed: digger binary not found in PATH\n")
		os.Exit(1)
	}

	fmt.Printf("Clearing cache...\n")
	if output, err := exec.Command("digger", "cache", "clear").CombinedOutput(); err != nil {
		fmt.Printf("Warning: failed to clear cache: %v\nOutput: %s\n", err, string(output))
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results, config)
}

// runBenchmarks executes every command for every name group.
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d groups, %v timeout, %d workers, no-cache: %d runs, cache: %d runs\n",
		len(config.Groups), config.Timeout, config.Workers, config.NoCacheRuns, config.CacheRuns)

	for _, group := range config.GroupOrder {
		names := strings.Join(config.Groups[group], ",")
		for _, command := range config.Commands {
			args := append([]string{command[0], names, "--base-url", config.BaseURL,
				"--workers", fmt.Sprint(config.Workers)}, command[1:]...)
			results = append(results, runBenchmarkSuite(config, group, command[0], args))
		}
	}
	return results
}

// runBenchmarkSuite runs both no-cache and cache benchmarks for a command.
func runBenchmarkSuite(config BenchmarkConfig, group, command string, args []string) BenchmarkResult {
	fmt.Printf("Running %s on %s\n", command, group)

	runPhase := func(cacheBackend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, args, cacheBackend, numRuns)
		if len(times) == 0 {
			return cold, "TIMEOUT"
		}
		var sum float64
		for _, t := range times {
			sum += t
		}
		return cold, fmt.Sprintf("%.3fs", sum/float64(len(times)))
	}

	// Every no-cache run is a cold run, so the average covers all of them
	_, noCacheAvg := runPhase("none", config.NoCacheRuns+1, "No-cache")
	coldTime, warmAvg := runPhase("sqlite", config.CacheRuns, "Cache")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}
	fmt.Printf("  No-cache average: %s, Cold time: %s, Warm average: %s\n", noCacheAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Group:       group,
		Command:     command,
		NoCacheTime: noCacheAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// runBenchmark executes a digger command numRuns times and returns the first
// successful time and the times of the runs after it.
func runBenchmark(config BenchmarkConfig, args []string, cacheBackend string, numRuns int) (coldTime float64, warmTimes []float64) {
	args = append(args, "--cache-backend", cacheBackend, "--output", "json")

	var times []float64
	for range numRuns {
		ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
		start := time.Now()
		err := exec.CommandContext(ctx, "digger", args...).Run()
		elapsed := time.Since(start).Seconds()
		cancel()
		if err == nil {
			times = append(times, elapsed)
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return coldTime, warmTimes
}

// saveResults writes benchmark results to a timestamped CSV file.
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/digger_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"group", "cmd", "no_cache_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, result := range results {
		if err := writer.Write([]string{result.Group, result.Command, result.NoCacheTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results grouped by command.
func printSummary(results []BenchmarkResult, config BenchmarkConfig) {
	fmt.Printf("Benchmark complete\n")
	for _, command := range config.Commands {
		fmt.Printf("%s:\n", command[0])
		for _, result := range results {
			if result.Command == command[0] {
				fmt.Printf("  %-6s: No-cache: %s, Cold: %s, Warm: %s\n", result.Group, result.NoCacheTime, result.ColdTime, result.WarmTime)
			}
		}
	}
}
