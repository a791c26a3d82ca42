// Package outwriter has output and writer logic.
package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/huangsam/digger/internal/contract"
	"github.com/huangsam/digger/schema"
)

// formatWriters holds the per-format writers of one result.
// A nil writer means the format is not supported for that result.
type formatWriters struct {
	kind    string // Used in success and error messages
	json    any
	csv     func(*csv.Writer) error
	table   func(io.Writer) error
	parquet func(path string) error
	xlsx    []sheet
}

// dispatch writes a result in the format configured by cfg.
func dispatch(cfg *contract.Config, fw formatWriters) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, fw.json)
		}, "Wrote JSON "+fw.kind); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if fw.csv == nil {
			return fmt.Errorf("csv output is not supported for %s", fw.kind)
		}
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			csvWriter := csv.NewWriter(w)
			if err := fw.csv(csvWriter); err != nil {
				return err
			}
			csvWriter.Flush()
			return csvWriter.Error()
		}, "Wrote CSV "+fw.kind); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if fw.parquet == nil {
			return fmt.Errorf("parquet output is not supported for %s", fw.kind)
		}
		if err := fw.parquet(cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
		fmt.Fprintf(os.Stderr, "💾 Wrote Parquet %s to %s\n", fw.kind, cfg.OutputFile)
	case schema.XLSXOut:
		if len(fw.xlsx) == 0 {
			return fmt.Errorf("xlsx output is not supported for %s", fw.kind)
		}
		if err := writeXLSX(cfg.OutputFile, fw.xlsx); err != nil {
			return fmt.Errorf("error writing XLSX output: %w", err)
		}
		fmt.Fprintf(os.Stderr, "💾 Wrote XLSX %s to %s\n", fw.kind, cfg.OutputFile)
	default:
		// Default to human-readable table
		if err := writeWithFile(cfg.OutputFile, fw.table, "Wrote table"); err != nil {
			return fmt.Errorf("error writing %s table output: %w", fw.kind, err)
		}
	}
	return nil
}

// writeWithFile handles the common pattern of opening a file, writing to it, and cleaning up.
// It accepts a writer function that takes an io.Writer and returns an error.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	// Only close if it's not stdout
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	}
	return nil
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// createFormatters creates the common formatter closures used across multiple output types.
func createFormatters(precision int) (fmtFloat func(float64) string, fmtOptional func(*float64) string) {
	fmtFloat = func(v float64) string {
		return fmt.Sprintf("%.*f", precision, v)
	}
	fmtOptional = func(v *float64) string {
		if v == nil {
			return ""
		}
		return fmtFloat(*v)
	}
	return fmtFloat, fmtOptional
}

// rankLabel returns the ordinal label of rank, coloured when enabled.
func rankLabel(cfg *contract.Config, rank int) string {
	label := schema.OrdinalLabel(rank)
	if cfg.UseColors {
		return contract.GetColorRank(rank, label)
	}
	return label
}

// emptyCell marks a missing value in text tables.
func emptyCell(cfg *contract.Config) string {
	if cfg.UseColors {
		return contract.MutedColor.Sprint("-")
	}
	return "-"
}
