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

// PrintRankResults outputs per-period ranks, dispatching based on the output format configured.
func PrintRankResults(result schema.RankResult, cfg *contract.Config, duration time.Duration) error {
	return dispatch(cfg, formatWriters{
		kind: "rank",
		json: result,
		csv: func(w *csv.Writer) error {
			return writeCSVResultsForRank(w, result)
		},
		table: func(w io.Writer) error {
			return writeRankTable(w, result, cfg, duration)
		},
		parquet: func(path string) error {
			return parquet.WriteMetricPointsParquet(parquet.ConvertRank(result), path)
		},
		xlsx: []sheet{rankSheet(result)},
	})
}

// writeCSVResultsForRank writes one row per entity with an empty cell for unranked periods.
func writeCSVResultsForRank(w *csv.Writer, result schema.RankResult) error {
	header := append([]string{"name", "first_active"}, result.Period...)
	if err := w.Write(header); err != nil {
		return err
	}
	for _, s := range result.Series {
		row := make([]string, 0, len(s.Ranks)+2)
		row = append(row, s.Name, firstActivePeriod(result.Period, s))
		for _, r := range s.Ranks {
			if r == nil {
				row = append(row, "")
				continue
			}
			row = append(row, strconv.Itoa(*r))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// firstActivePeriod names the period an entity first ranked in, or "" if it never did.
func firstActivePeriod(periods []string, s schema.RankedSeries) string {
	if s.FirstActiveIndex < 0 || s.FirstActiveIndex >= len(periods) {
		return ""
	}
	return periods[s.FirstActiveIndex]
}

func writeRankTable(w io.Writer, result schema.RankResult, cfg *contract.Config, duration time.Duration) error {
	if len(result.Period) == 0 {
		_, err := fmt.Fprintf(w, "No %s data to rank for the selected %s range\n", result.Metric, result.Unit)
		return err
	}

	start := max(len(result.Period)-maxPeriodColumns(cfg, 7), 0)
	periods := result.Period[start:]

	table := tablewriter.NewWriter(w)
	table.Header(append([]string{"Name"}, periods...))
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	nameWidth := getMaxNameWidth(cfg, len(periods)*10)
	var data [][]string
	for _, s := range result.Series {
		row := []string{contract.TruncateText(s.Name, nameWidth)}
		for _, r := range s.Ranks[start:] {
			if r == nil {
				row = append(row, emptyCell(cfg))
				continue
			}
			row = append(row, rankLabel(cfg, *r))
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
	_, err := fmt.Fprintf(w, "Ranked %d entities by %s in %v with %d workers. Cache backend: %s\n",
		len(result.Series), result.Metric.Label(), duration, cfg.Workers, cfg.CacheBackend)
	return err
}

func rankSheet(result schema.RankResult) sheet {
	s := sheet{name: "Rank", header: append([]string{"name", "first_active"}, result.Period...)}
	for _, series := range result.Series {
		row := make([]any, 0, len(series.Ranks)+2)
		row = append(row, series.Name, firstActivePeriod(result.Period, series))
		for _, r := range series.Ranks {
			row = append(row, optionalCell(r))
		}
		s.rows = append(s.rows, row)
	}
	return s
}
