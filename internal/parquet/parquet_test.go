package parquet

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/digger/schema"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// readAll reads every row of a Parquet file back into T.
func readAll[T any](t *testing.T, path string) []T {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err, "Should be able to open output file")
	defer file.Close()

	reader := parquet.NewGenericReader[T](file)
	defer reader.Close()

	rows := make([]T, reader.NumRows())
	n, err := reader.Read(rows)
	if err != nil && err != io.EOF {
		require.NoError(t, err, "Should be able to read data")
	}
	return rows[:n]
}

func floatPtr(v float64) *float64 { return &v }

func intPtr(v int) *int { return &v }

func TestStructTags(t *testing.T) {
	tests := []struct {
		name    string
		model   any
		columns []string
	}{
		{"MetricPoint", new(MetricPoint), []string{"entity", "metric", "unit", "period", "value", "rank"}},
		{"ProjectRow", new(ProjectRow), []string{"rank", "repo_id", "repo_name", "classification", "stars", "forks", "openrank", "language", "created_at", "size", "tags"}},
		{"GraphElement", new(GraphElement), []string{"kind", "id", "source", "target", "value", "symbol_size"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := parquet.SchemaOf(tt.model)
			require.NotNil(t, s)
			for _, colName := range tt.columns {
				_, ok := s.Lookup(colName)
				assert.True(t, ok, "Column %s should exist in schema", colName)
			}
		})
	}
}

func TestWriteTimeseries(t *testing.T) {
	result := schema.TimeSeriesResult{
		Metric: schema.OpenRankMetric,
		Unit:   schema.YearUnit,
		Period: []string{"2021", "2022"},
		Series: []schema.LineSeries{
			{Name: "a/x", Values: []*float64{floatPtr(1.5), nil}},
			{Name: "b/y", Values: []*float64{nil, floatPtr(2)}},
		},
	}
	points := ConvertTimeseries(result)
	require.Len(t, points, 4)

	outputPath := filepath.Join(t.TempDir(), "timeseries.parquet")
	require.NoError(t, WriteMetricPointsParquet(points, outputPath))

	got := readAll[MetricPoint](t, outputPath)
	require.Len(t, got, 4)
	assert.Equal(t, "a/x", got[0].Entity)
	assert.Equal(t, "openrank", got[0].Metric)
	assert.Equal(t, "2021", got[0].Period)
	require.NotNil(t, got[0].Value)
	assert.InDelta(t, 1.5, *got[0].Value, 1e-9)
	assert.Nil(t, got[1].Value)
	assert.Nil(t, got[0].Rank)
}

func TestConvertRank(t *testing.T) {
	result := schema.RankResult{
		Metric: schema.StarsMetric,
		Unit:   schema.MonthUnit,
		Period: []string{"2021-01", "2021-02"},
		Series: []schema.RankedSeries{{Name: "a/x", Ranks: []*int{nil, intPtr(2)}, FirstActiveIndex: 1}},
	}
	points := ConvertRank(result)
	require.Len(t, points, 2)
	assert.Nil(t, points[0].Rank)
	require.NotNil(t, points[1].Rank)
	assert.Equal(t, int32(2), *points[1].Rank)

	outputPath := filepath.Join(t.TempDir(), "rank.parquet")
	require.NoError(t, WriteMetricPointsParquet(points, outputPath))
	got := readAll[MetricPoint](t, outputPath)
	require.Len(t, got, 2)
	assert.Nil(t, got[0].Rank)
	assert.Equal(t, int32(2), *got[1].Rank)
}

func TestConvertRace(t *testing.T) {
	points := ConvertRace(schema.RaceResult{
		Metric: schema.OpenRankMetric,
		Unit:   schema.YearUnit,
		Frames: []schema.RaceFrame{
			{Period: "2021", Entries: []schema.PeriodRank{{Name: "b/y", Value: 7, Rank: 1}, {Name: "a/x", Value: 5, Rank: 2}}},
		},
	})
	require.Len(t, points, 2)
	assert.Equal(t, "b/y", points[0].Entity)
	assert.Equal(t, int32(1), *points[0].Rank)
	assert.InDelta(t, 5, *points[1].Value, 1e-9)
}

func TestWriteProjects(t *testing.T) {
	projects := schema.EnrichProjects([]schema.Project{
		{ID: "1", RepoName: "a/x", Classification: "MLOps", Stars: 10, OpenRank: 3.5, Size: 101, Tags: []string{"AI", "ML"}},
		{ID: "2", RepoName: "b/y", Classification: "Uncategorized"},
	})
	rows := ConvertProjects(projects)
	require.Len(t, rows, 2)
	assert.Equal(t, "AI|ML", rows[0].Tags)

	outputPath := filepath.Join(t.TempDir(), "projects.parquet")
	require.NoError(t, WriteProjectsParquet(rows, outputPath))

	got := readAll[ProjectRow](t, outputPath)
	require.Len(t, got, 2)
	assert.Equal(t, int32(1), got[0].Rank)
	assert.Equal(t, "a/x", got[0].RepoName)
	assert.InDelta(t, 3.5, got[0].OpenRank, 1e-9)
	assert.Equal(t, int32(2), got[1].Rank)
}

func TestWriteGraph(t *testing.T) {
	g := schema.Graph{
		Nodes: []schema.GraphNode{{ID: "a/x", Value: 1, SymbolSize: 15}},
		Edges: []schema.GraphEdge{{Source: "a/x", Target: "b/y", Value: 2}},
	}
	rows := ConvertGraph(g)
	require.Len(t, rows, 2)

	outputPath := filepath.Join(t.TempDir(), "graph.parquet")
	require.NoError(t, WriteGraphParquet(rows, outputPath))

	got := readAll[GraphElement](t, outputPath)
	require.Len(t, got, 2)
	assert.Equal(t, "node", got[0].Kind)
	assert.Equal(t, "a/x", *got[0].ID)
	assert.Nil(t, got[0].Source)
	assert.Equal(t, "edge", got[1].Kind)
	assert.Equal(t, "b/y", *got[1].Target)
	assert.Nil(t, got[1].SymbolSize)
}

func TestWriteEmptyData(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "empty.parquet")
	require.NoError(t, WriteMetricPointsParquet([]MetricPoint{}, outputPath), "Writing empty data should not produce error")

	info, err := os.Stat(outputPath)
	require.NoError(t, err, "Output file should exist")
	assert.Greater(t, info.Size(), int64(0), "Parquet footer should still be written")
	assert.Empty(t, readAll[MetricPoint](t, outputPath))
}

func TestWriteInvalidPath(t *testing.T) {
	err := WriteProjectsParquet(nil, filepath.Join(t.TempDir(), "missing", "dir", "out.parquet"))
	assert.Error(t, err)
}
