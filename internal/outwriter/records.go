package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"slices"

	"github.com/huangsam/digger/internal/contract"
	"github.com/huangsam/digger/schema"
	"github.com/olekukonko/tablewriter"
)

// maxCellWidth bounds free-text cells such as descriptions in record tables.
const maxCellWidth = 40

// PrintFetchResults outputs a decoded dataset. CSV datasets are printed as
// records, anything else is printed as JSON.
func PrintFetchResults(result any, cfg *contract.Config) error {
	if records, ok := result.([]schema.Record); ok {
		return PrintRecords(records, RecordColumns(records, schema.LandscapeColumns), cfg)
	}
	return dispatch(cfg, formatWriters{
		kind: "dataset",
		json: result,
		table: func(w io.Writer) error {
			return writeJSON(w, result)
		},
	})
}

// PrintRecords outputs header-keyed records in the given column order.
func PrintRecords(records []schema.Record, columns []string, cfg *contract.Config) error {
	return dispatch(cfg, formatWriters{
		kind: "records",
		json: records,
		csv: func(w *csv.Writer) error {
			return writeCSVRecords(w, records, columns)
		},
		table: func(w io.Writer) error {
			return writeRecordsTable(w, records, columns, cfg)
		},
		xlsx: []sheet{recordsSheet(records, columns)},
	})
}

// RecordColumns orders the keys of records: preferred columns that occur
// first, then every other key sorted.
func RecordColumns(records []schema.Record, preferred []string) []string {
	seen := make(map[string]struct{})
	for _, r := range records {
		for k := range r {
			seen[k] = struct{}{}
		}
	}

	columns := make([]string, 0, len(seen))
	for _, c := range preferred {
		if _, ok := seen[c]; ok {
			columns = append(columns, c)
			delete(seen, c)
		}
	}
	rest := make([]string, 0, len(seen))
	for k := range seen {
		rest = append(rest, k)
	}
	slices.Sort(rest)
	return append(columns, rest...)
}

func writeCSVRecords(w *csv.Writer, records []schema.Record, columns []string) error {
	if err := w.Write(columns); err != nil {
		return err
	}
	for _, r := range records {
		row := make([]string, len(columns))
		for i, c := range columns {
			row[i] = r[c]
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// writeRecordsTable prints up to cfg.ResultLimit records.
func writeRecordsTable(w io.Writer, records []schema.Record, columns []string, cfg *contract.Config) error {
	shown := records
	if cfg.ResultLimit > 0 && len(shown) > cfg.ResultLimit {
		shown = shown[:cfg.ResultLimit]
	}

	table := tablewriter.NewWriter(w)
	table.Header(columns)

	var data [][]string
	for _, r := range shown {
		row := make([]string, len(columns))
		for i, c := range columns {
			row[i] = contract.TruncateText(r[c], maxCellWidth)
		}
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Showing %d of %d records\n", len(shown), len(records))
	return err
}

func recordsSheet(records []schema.Record, columns []string) sheet {
	s := sheet{name: "Records", header: columns}
	for _, r := range records {
		row := make([]any, len(columns))
		for i, c := range columns {
			row[i] = r[c]
		}
		s.rows = append(s.rows, row)
	}
	return s
}
