// Package parquet exports digger results to Parquet files using
// github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"strings"

	"github.com/huangsam/digger/schema"
	"github.com/parquet-go/parquet-go"
)

// MetricPoint is one entity's value or rank in one period.
type MetricPoint struct {
	// Entity is the repository (owner/repo) or developer login
	Entity string `parquet:"entity,snappy,dict"`

	// Metric is the OpenDigger metric name
	Metric string `parquet:"metric,snappy,dict"`

	// Unit is the time unit of Period (year, quarter, month)
	Unit string `parquet:"unit,snappy,dict"`

	// Period is the period key, e.g. 2021, 2021Q3 or 2021-07
	Period string `parquet:"period,snappy"`

	// Value is the metric value (nullable when absent or zero)
	Value *float64 `parquet:"value,optional,snappy"`

	// Rank is the 1-based rank within the period (nullable when inactive)
	Rank *int32 `parquet:"rank,optional,snappy"`
}

// ProjectRow is one landscape project.
type ProjectRow struct {
	Rank           int32   `parquet:"rank,snappy"`
	RepoID         string  `parquet:"repo_id,snappy"`
	RepoName       string  `parquet:"repo_name,snappy"`
	Classification string  `parquet:"classification,snappy,dict"`
	Stars          float64 `parquet:"stars,snappy"`
	Forks          float64 `parquet:"forks,snappy"`
	OpenRank       float64 `parquet:"openrank,snappy"`
	Language       string  `parquet:"language,snappy,dict"`
	CreatedAt      string  `parquet:"created_at,snappy"`
	Size           int32   `parquet:"size,snappy"`

	// Tags is the pipe-separated list of derived tags
	Tags string `parquet:"tags,snappy"`
}

// GraphElement is a node or an edge of a shaped graph.
// Nodes fill ID and SymbolSize; edges fill Source and Target.
type GraphElement struct {
	Kind       string   `parquet:"kind,snappy,dict"`
	ID         *string  `parquet:"id,optional,snappy"`
	Source     *string  `parquet:"source,optional,snappy"`
	Target     *string  `parquet:"target,optional,snappy"`
	Value      float64  `parquet:"value,snappy"`
	SymbolSize *float64 `parquet:"symbol_size,optional,snappy"`
}

// writeRows writes rows to a new Parquet file at outputPath.
func writeRows[T any](rows []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is derived from the struct tags of T
	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// WriteMetricPointsParquet writes metric points to a Parquet file.
func WriteMetricPointsParquet(data []MetricPoint, outputPath string) error {
	return writeRows(data, outputPath)
}

// WriteProjectsParquet writes landscape projects to a Parquet file.
func WriteProjectsParquet(data []ProjectRow, outputPath string) error {
	return writeRows(data, outputPath)
}

// WriteGraphParquet writes graph elements to a Parquet file.
func WriteGraphParquet(data []GraphElement, outputPath string) error {
	return writeRows(data, outputPath)
}

// ConvertTimeseries flattens a time series result into one point per entity and period.
func ConvertTimeseries(result schema.TimeSeriesResult) []MetricPoint {
	points := make([]MetricPoint, 0, len(result.Series)*len(result.Period))
	for _, s := range result.Series {
		for i, period := range result.Period {
			points = append(points, MetricPoint{
				Entity: s.Name,
				Metric: string(result.Metric),
				Unit:   string(result.Unit),
				Period: period,
				Value:  s.Values[i],
			})
		}
	}
	return points
}

// ConvertRank flattens a rank result into one point per entity and period.
func ConvertRank(result schema.RankResult) []MetricPoint {
	points := make([]MetricPoint, 0, len(result.Series)*len(result.Period))
	for _, s := range result.Series {
		for i, period := range result.Period {
			p := MetricPoint{
				Entity: s.Name,
				Metric: string(result.Metric),
				Unit:   string(result.Unit),
				Period: period,
			}
			if r := s.Ranks[i]; r != nil {
				rank := int32(*r)
				p.Rank = &rank
			}
			points = append(points, p)
		}
	}
	return points
}

// ConvertRace flattens race frames into one point per leaderboard entry.
func ConvertRace(result schema.RaceResult) []MetricPoint {
	var points []MetricPoint
	for _, frame := range result.Frames {
		for _, e := range frame.Entries {
			value := e.Value
			rank := int32(e.Rank)
			points = append(points, MetricPoint{
				Entity: e.Name,
				Metric: string(result.Metric),
				Unit:   string(result.Unit),
				Period: frame.Period,
				Value:  &value,
				Rank:   &rank,
			})
		}
	}
	return points
}

// ConvertProjects converts ranked landscape projects to Parquet rows.
func ConvertProjects(projects []schema.EnrichedProject) []ProjectRow {
	rows := make([]ProjectRow, len(projects))
	for i, p := range projects {
		rows[i] = ProjectRow{
			Rank:           int32(p.Rank),
			RepoID:         p.ID,
			RepoName:       p.RepoName,
			Classification: p.Classification,
			Stars:          p.Stars,
			Forks:          p.Forks,
			OpenRank:       p.OpenRank,
			Language:       p.Language,
			CreatedAt:      p.CreatedAt,
			Size:           int32(p.Size),
			Tags:           strings.Join(p.Tags, "|"),
		}
	}
	return rows
}

// ConvertGraph converts a shaped graph to Parquet rows, nodes first.
func ConvertGraph(g schema.Graph) []GraphElement {
	rows := make([]GraphElement, 0, len(g.Nodes)+len(g.Edges))
	for _, n := range g.Nodes {
		id, size := n.ID, n.SymbolSize
		rows = append(rows, GraphElement{Kind: "node", ID: &id, Value: n.Value, SymbolSize: &size})
	}
	for _, e := range g.Edges {
		source, target := e.Source, e.Target
		rows = append(rows, GraphElement{Kind: "edge", Source: &source, Target: &target, Value: e.Value})
	}
	return rows
}
