package outwriter

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/digger/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func timeseriesFixture() schema.TimeSeriesResult {
	return schema.TimeSeriesResult{
		Metric: schema.OpenRankMetric,
		Unit:   schema.YearUnit,
		Period: []string{"2020", "2021", "2022"},
		Series: []schema.LineSeries{
			{Name: "a/x", Values: []*float64{ptr(1.5), nil, ptr(3.25)}},
			{Name: "b/y", Values: []*float64{nil, ptr(2.0), ptr(4.0)}},
		},
	}
}

func rankFixture() schema.RankResult {
	return schema.RankResult{
		Metric: schema.StarsMetric,
		Unit:   schema.YearUnit,
		Period: []string{"2020", "2021"},
		Series: []schema.RankedSeries{
			{Name: "a/x", Ranks: []*int{ptr(1), ptr(2)}, FirstActiveIndex: 0},
			{Name: "b/y", Ranks: []*int{nil, ptr(1)}, FirstActiveIndex: 1},
		},
	}
}

func raceFixture() schema.RaceResult {
	return schema.RaceResult{
		Metric: schema.OpenRankMetric,
		Unit:   schema.YearUnit,
		Frames: []schema.RaceFrame{
			{Period: "2020", Entries: []schema.PeriodRank{{Name: "a/x", Value: 1.5, Rank: 1}}},
			{Period: "2021", Entries: []schema.PeriodRank{
				{Name: "b/y", Value: 2, Rank: 1},
				{Name: "a/x", Value: 1, Rank: 2},
			}},
		},
	}
}

func graphFixture() schema.Graph {
	return schema.Graph{
		Nodes: []schema.GraphNode{
			{ID: "a/x", Name: "a/x", Value: 1, SymbolSize: 15},
			{ID: "b/y", Name: "b/y", Value: 9, SymbolSize: 100, Highlighted: true},
		},
		Edges: []schema.GraphEdge{{Source: "a/x", Target: "b/y", Value: 2}},
	}
}

func landscapeFixture() schema.LandscapeResult {
	return schema.LandscapeResult{
		Total: 3,
		Projects: schema.EnrichProjects([]schema.Project{
			{ID: "1", RepoName: "a/x", Classification: "MLOps", Stars: 12500, Forks: 999, OpenRank: 42.126,
				Language: "Go", CreatedAt: "2021/03/04", Size: 130, Tags: []string{"AI", "ML"}},
			{ID: "2", RepoName: "b/y", Classification: "Pre-train", Stars: 10, Forks: 1, OpenRank: 1,
				Language: "Python", Size: 101, Tags: []string{}},
		}),
		Categories: []string{"MLOps", "Pre-train"},
		Groups: []schema.CategoryGroup{
			{Name: "Training", Categories: []string{"Pre-train"}},
			{Name: "AI Infrastructure", Categories: []string{"MLOps"}},
		},
	}
}

func readCSV(t *testing.T, s string) [][]string {
	t.Helper()
	rows, err := csv.NewReader(strings.NewReader(s)).ReadAll()
	require.NoError(t, err)
	return rows
}

func csvOf(t *testing.T, write func(*csv.Writer) error) [][]string {
	t.Helper()
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	require.NoError(t, write(w))
	w.Flush()
	require.NoError(t, w.Error())
	return readCSV(t, buf.String())
}

func TestWriteTimeseriesTable(t *testing.T) {
	cfg := textConfig()
	_, fmtOptional := createFormatters(cfg.Precision)

	var buf bytes.Buffer
	require.NoError(t, writeTimeseriesTable(&buf, timeseriesFixture(), cfg, fmtOptional, 100*time.Millisecond))

	output := buf.String()
	assert.Contains(t, output, "a/x")
	assert.Contains(t, output, "1.50")
	assert.Contains(t, output, "3.25")
	assert.Contains(t, output, " - ")
	assert.Contains(t, output, "for 2 entities in 100ms with 4 workers")
	assert.NotContains(t, output, "Showing the last")
}

func TestWriteTimeseriesTableNarrow(t *testing.T) {
	cfg := textConfig()
	cfg.Width = 50 // room for a single period column
	_, fmtOptional := createFormatters(cfg.Precision)

	var buf bytes.Buffer
	require.NoError(t, writeTimeseriesTable(&buf, timeseriesFixture(), cfg, fmtOptional, time.Second))

	output := buf.String()
	assert.Contains(t, output, "Showing the last 1 of 3 periods")
	assert.Contains(t, output, "3.25")
	assert.NotContains(t, output, "1.50")
}

func TestWriteTimeseriesTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	_, fmtOptional := createFormatters(2)
	result := schema.TimeSeriesResult{Metric: schema.StarsMetric, Unit: schema.MonthUnit}
	require.NoError(t, writeTimeseriesTable(&buf, result, textConfig(), fmtOptional, 0))
	assert.Equal(t, "No stars data for the selected month range\n", buf.String())
}

func TestWriteCSVResultsForTimeseries(t *testing.T) {
	_, fmtOptional := createFormatters(2)
	rows := csvOf(t, func(w *csv.Writer) error {
		return writeCSVResultsForTimeseries(w, timeseriesFixture(), fmtOptional)
	})
	assert.Equal(t, [][]string{
		{"name", "2020", "2021", "2022"},
		{"a/x", "1.50", "", "3.25"},
		{"b/y", "", "2.00", "4.00"},
	}, rows)
}

func TestPrintTimeseriesResultsFiles(t *testing.T) {
	dir := t.TempDir()

	t.Run("xlsx", func(t *testing.T) {
		cfg := textConfig()
		cfg.Output = schema.XLSXOut
		cfg.OutputFile = filepath.Join(dir, "ts.xlsx")
		require.NoError(t, PrintTimeseriesResults(timeseriesFixture(), cfg, 0))

		f, err := excelize.OpenFile(cfg.OutputFile)
		require.NoError(t, err)
		defer func() { _ = f.Close() }()
		rows, err := f.GetRows("Timeseries")
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, []string{"name", "2020", "2021", "2022"}, rows[0])
		assert.Equal(t, "a/x", rows[1][0])
		assert.Equal(t, "1.5", rows[1][1])
	})

	t.Run("parquet", func(t *testing.T) {
		cfg := textConfig()
		cfg.Output = schema.ParquetOut
		cfg.OutputFile = filepath.Join(dir, "ts.parquet")
		require.NoError(t, PrintTimeseriesResults(timeseriesFixture(), cfg, 0))

		info, err := os.Stat(cfg.OutputFile)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	})

	t.Run("csv", func(t *testing.T) {
		cfg := textConfig()
		cfg.Output = schema.CSVOut
		cfg.OutputFile = filepath.Join(dir, "ts.csv")
		require.NoError(t, PrintTimeseriesResults(timeseriesFixture(), cfg, 0))

		body, err := os.ReadFile(cfg.OutputFile)
		require.NoError(t, err)
		assert.Len(t, readCSV(t, string(body)), 3)
	})
}

func TestRaceWriters(t *testing.T) {
	fmtFloat, _ := createFormatters(2)

	rows := csvOf(t, func(w *csv.Writer) error {
		return writeCSVResultsForRace(w, raceFixture(), fmtFloat)
	})
	assert.Equal(t, [][]string{
		{"period", "rank", "name", "value"},
		{"2020", "1", "a/x", "1.50"},
		{"2021", "1", "b/y", "2.00"},
		{"2021", "2", "a/x", "1.00"},
	}, rows)

	var buf bytes.Buffer
	require.NoError(t, writeRaceTable(&buf, raceFixture(), textConfig(), fmtFloat, time.Second))
	assert.Contains(t, buf.String(), "2nd")
	assert.Contains(t, buf.String(), "Built 2 year frames")

	s := raceSheet(raceFixture())
	assert.Len(t, s.rows, 3)
	assert.Equal(t, []any{"2021", 2, "a/x", 1.0}, s.rows[2])
}

func TestRankWriters(t *testing.T) {
	rows := csvOf(t, func(w *csv.Writer) error {
		return writeCSVResultsForRank(w, rankFixture())
	})
	assert.Equal(t, [][]string{
		{"name", "first_active", "2020", "2021"},
		{"a/x", "2020", "1", "2"},
		{"b/y", "2021", "", "1"},
	}, rows)

	var buf bytes.Buffer
	require.NoError(t, writeRankTable(&buf, rankFixture(), textConfig(), time.Second))
	output := buf.String()
	assert.Contains(t, output, "1st")
	assert.Contains(t, output, "2nd")
	assert.Contains(t, output, "Ranked 2 entities by")

	s := rankSheet(rankFixture())
	assert.Equal(t, []any{"b/y", "2021", nil, 1}, s.rows[1])
}

func TestFirstActivePeriod(t *testing.T) {
	periods := []string{"2020", "2021"}
	assert.Equal(t, "2021", firstActivePeriod(periods, schema.RankedSeries{FirstActiveIndex: 1}))
	assert.Equal(t, "", firstActivePeriod(periods, schema.RankedSeries{FirstActiveIndex: -1}))
	assert.Equal(t, "", firstActivePeriod(periods, schema.RankedSeries{FirstActiveIndex: 2}))
}

func TestGraphWriters(t *testing.T) {
	fmtFloat, _ := createFormatters(1)

	rows := csvOf(t, func(w *csv.Writer) error {
		return writeCSVResultsForGraph(w, graphFixture(), fmtFloat)
	})
	assert.Equal(t, [][]string{
		{"kind", "id", "source", "target", "value", "symbol_size"},
		{"node", "a/x", "", "", "1.0", "15.0"},
		{"node", "b/y", "", "", "9.0", "100.0"},
		{"edge", "", "a/x", "b/y", "2.0", ""},
	}, rows)

	cfg := textConfig()
	cfg.ResultLimit = 1
	var buf bytes.Buffer
	require.NoError(t, writeGraphTable(&buf, graphFixture(), cfg, fmtFloat, time.Second))
	output := buf.String()
	assert.Contains(t, output, "* b/y", "heaviest node first and marked")
	assert.NotContains(t, output, "a/x", "limited to one node")
	assert.Contains(t, output, "Shaped 2 nodes and 1 edges")

	sheets := graphSheets(graphFixture())
	require.Len(t, sheets, 2)
	assert.Equal(t, "Nodes", sheets[0].name)
	assert.Len(t, sheets[0].rows, 2)
	assert.Equal(t, []any{"a/x", "b/y", 2.0}, sheets[1].rows[0])
}

func TestLandscapeWriters(t *testing.T) {
	fmtFloat, _ := createFormatters(2)

	rows := csvOf(t, func(w *csv.Writer) error {
		return writeCSVResultsForLandscape(w, landscapeFixture(), fmtFloat)
	})
	require.Len(t, rows, 3)
	assert.Equal(t, landscapeCSVHeader, rows[0])
	assert.Equal(t, []string{"1", "1", "a/x", "MLOps", "12500", "999", "42.13", "Go", "2021/03/04", "130", "AI|ML"}, rows[1])
	assert.Equal(t, "", rows[2][10])

	var buf bytes.Buffer
	require.NoError(t, writeLandscapeTable(&buf, landscapeFixture(), textConfig(), fmtFloat, time.Second))
	output := buf.String()
	assert.Contains(t, output, "12.5K")
	assert.Contains(t, output, "Mar 04, 2021")
	assert.Contains(t, output, "Unknown")
	assert.Contains(t, output, "Showing 2 of 3 projects across 2 categories")

	sheets := landscapeSheets(landscapeFixture())
	require.Len(t, sheets, 2)
	assert.Len(t, sheets[0].rows, 2)
	assert.Equal(t, [][]any{{"Training", "Pre-train"}, {"AI Infrastructure", "MLOps"}}, sheets[1].rows)
}

func TestPrintLandscapeResultsXLSX(t *testing.T) {
	cfg := textConfig()
	cfg.Output = schema.XLSXOut
	cfg.OutputFile = filepath.Join(t.TempDir(), "landscape.xlsx")
	require.NoError(t, PrintLandscapeResults(landscapeFixture(), cfg, 0))

	f, err := excelize.OpenFile(cfg.OutputFile)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	assert.Equal(t, []string{"Projects", "Categories"}, f.GetSheetList())

	rows, err := f.GetRows("Projects")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "a/x", rows[1][2])
}

func TestRecordColumns(t *testing.T) {
	records := []schema.Record{
		{"zeta": "1", "repo_name": "a/x", "repo_id": "1"},
		{"alpha": "2", "repo_id": "2"},
	}
	assert.Equal(t, []string{"repo_id", "repo_name", "alpha", "zeta"}, RecordColumns(records, schema.LandscapeColumns))
	assert.Empty(t, RecordColumns(nil, schema.LandscapeColumns))
}

func TestRecordWriters(t *testing.T) {
	records := []schema.Record{
		{"repo_id": "1", "repo_name": "a/x", "description": strings.Repeat("d", 60)},
		{"repo_id": "2", "repo_name": "b/y"},
	}
	columns := []string{"repo_id", "repo_name", "description"}

	rows := csvOf(t, func(w *csv.Writer) error {
		return writeCSVRecords(w, records, columns)
	})
	assert.Equal(t, []string{"2", "b/y", ""}, rows[2])
	assert.Len(t, rows[1][2], 60)

	cfg := textConfig()
	cfg.ResultLimit = 1
	var buf bytes.Buffer
	require.NoError(t, writeRecordsTable(&buf, records, columns, cfg))
	output := buf.String()
	assert.Contains(t, output, strings.Repeat("d", maxCellWidth-3)+"...")
	assert.NotContains(t, output, "b/y")
	assert.Contains(t, output, "Showing 1 of 2 records")

	s := recordsSheet(records, columns)
	assert.Equal(t, []any{"2", "b/y", ""}, s.rows[1])
}

func TestPrintFetchResultsJSON(t *testing.T) {
	cfg := textConfig()
	cfg.OutputFile = filepath.Join(t.TempDir(), "dataset.txt")
	require.NoError(t, PrintFetchResults(map[string]any{"nodes": []any{}}, cfg))

	body, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	assert.JSONEq(t, `{"nodes": []}`, string(body))
}

func TestPrintFetchResultsRecordsCSV(t *testing.T) {
	cfg := textConfig()
	cfg.Output = schema.CSVOut
	cfg.OutputFile = filepath.Join(t.TempDir(), "dataset.csv")
	records := []schema.Record{{"repo_name": "a/x", "repo_id": "1", "extra": "e"}}
	require.NoError(t, PrintFetchResults(records, cfg))

	body, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"repo_id", "repo_name", "extra"}, {"1", "a/x", "e"}}, readCSV(t, string(body)))
}

func TestMetricsDefinitions(t *testing.T) {
	model := schema.BuildMetricsRenderModel("https://example.com")

	var buf bytes.Buffer
	require.NoError(t, printMetricsText(&buf, model))
	output := buf.String()
	assert.Contains(t, output, "OpenDigger Metrics")
	assert.Contains(t, output, "https://example.com/github/{name}/{metric}.json")
	assert.Contains(t, output, "repository,developer")

	rows := csvOf(t, func(w *csv.Writer) error {
		return writeCSVMetrics(w, model)
	})
	assert.Equal(t, []string{"metric", "label", "categories"}, rows[0])
	assert.Len(t, rows, len(schema.RepositoryMetrics)+1)

	cfg := textConfig()
	cfg.Output = schema.ParquetOut
	require.Error(t, PrintMetricsDefinitions(model, cfg))
}
