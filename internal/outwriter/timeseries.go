package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/digger/internal/contract"
	"github.com/huangsam/digger/internal/parquet"
	"github.com/huangsam/digger/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintTimeseriesResults outputs aligned line series, dispatching based on the output format configured.
func PrintTimeseriesResults(result schema.TimeSeriesResult, cfg *contract.Config, duration time.Duration) error {
	_, fmtOptional := createFormatters(cfg.Precision)
	return dispatch(cfg, formatWriters{
		kind: "timeseries",
		json: result,
		csv: func(w *csv.Writer) error {
			return writeCSVResultsForTimeseries(w, result, fmtOptional)
		},
		table: func(w io.Writer) error {
			return writeTimeseriesTable(w, result, cfg, fmtOptional, duration)
		},
		parquet: func(path string) error {
			return parquet.WriteMetricPointsParquet(parquet.ConvertTimeseries(result), path)
		},
		xlsx: []sheet{timeseriesSheet(result)},
	})
}

// writeCSVResultsForTimeseries writes one row per entity and one column per period.
func writeCSVResultsForTimeseries(w *csv.Writer, result schema.TimeSeriesResult, fmtOptional func(*float64) string) error {
	header := append([]string{"name"}, result.Period...)
	if err := w.Write(header); err != nil {
		return err
	}
	for _, s := range result.Series {
		row := make([]string, 0, len(s.Values)+1)
		row = append(row, s.Name)
		for _, v := range s.Values {
			row = append(row, fmtOptional(v))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// writeTimeseriesTable prints the most recent periods that fit the terminal.
func writeTimeseriesTable(w io.Writer, result schema.TimeSeriesResult, cfg *contract.Config, fmtOptional func(*float64) string, duration time.Duration) error {
	if len(result.Period) == 0 {
		_, err := fmt.Fprintf(w, "No %s data for the selected %s range\n", result.Metric, result.Unit)
		return err
	}

	start := max(len(result.Period)-maxPeriodColumns(cfg, 9), 0)
	periods := result.Period[start:]

	table := tablewriter.NewWriter(w)
	table.Header(append([]string{"Name"}, periods...))
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	nameWidth := getMaxNameWidth(cfg, len(periods)*12)
	var data [][]string
	for _, s := range result.Series {
		row := []string{contract.TruncateText(s.Name, nameWidth)}
		for _, v := range s.Values[start:] {
			cell := fmtOptional(v)
			if cell == "" {
				cell = emptyCell(cfg)
			}
			row = append(row, cell)
		}
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if start > 0 {
		if _, err := fmt.Fprintf(w, "Showing the last %d of %d periods\n", len(periods), len(result.Period)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "Loaded %s for %d entities in %v with %d workers. Cache backend: %s\n",
		result.Metric.Label(), len(result.Series), duration, cfg.Workers, cfg.CacheBackend)
	return err
}

// timeseriesSheet lays the series out like the CSV output.
func timeseriesSheet(result schema.TimeSeriesResult) sheet {
	s := sheet{name: "Timeseries", header: append([]string{"name"}, result.Period...)}
	for _, series := range result.Series {
		row := make([]any, 0, len(series.Values)+1)
		row = append(row, series.Name)
		for _, v := range series.Values {
			row = append(row, optionalCell(v))
		}
		s.rows = append(s.rows, row)
	}
	return s
}

// PrintRaceResults outputs one leaderboard per period, dispatching based on the output format configured.
func PrintRaceResults(result schema.RaceResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)
	return dispatch(cfg, formatWriters{
		kind: "race",
		json: result,
		csv: func(w *csv.Writer) error {
			return writeCSVResultsForRace(w, result, fmtFloat)
		},
		table: func(w io.Writer) error {
			return writeRaceTable(w, result, cfg, fmtFloat, duration)
		},
		parquet: func(path string) error {
			return parquet.WriteMetricPointsParquet(parquet.ConvertRace(result), path)
		},
		xlsx: []sheet{raceSheet(result)},
	})
}

// writeCSVResultsForRace writes one row per frame entry.
func writeCSVResultsForRace(w *csv.Writer, result schema.RaceResult, fmtFloat func(float64) string) error {
	if err := w.Write([]string{"period", "rank", "name", "value"}); err != nil {
		return err
	}
	for _, frame := range result.Frames {
		for _, e := range frame.Entries {
			if err := w.Write([]string{frame.Period, strconv.Itoa(e.Rank), e.Name, fmtFloat(e.Value)}); err != nil {
				return err
			}
		}
	}
	return nil
}

// writeRaceTable prints every frame as a block of rows.
func writeRaceTable(w io.Writer, result schema.RaceResult, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Period", "Rank", "Name", "Value"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	nameWidth := getMaxNameWidth(cfg, 35)
	var data [][]string
	for _, frame := range result.Frames {
		for _, e := range frame.Entries {
			data = append(data, []string{
				frame.Period,
				rankLabel(cfg, e.Rank),
				contract.TruncateText(e.Name, nameWidth),
				fmtFloat(e.Value),
			})
		}
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Built %d %s frames in %v with %d workers. Cache backend: %s\n",
		len(result.Frames), result.Unit, duration, cfg.Workers, cfg.CacheBackend)
	return err
}

func raceSheet(result schema.RaceResult) sheet {
	s := sheet{name: "Race", header: []string{"period", "rank", "name", "value"}}
	for _, frame := range result.Frames {
		for _, e := range frame.Entries {
			s.rows = append(s.rows, []any{frame.Period, e.Rank, e.Name, e.Value})
		}
	}
	return s
}
