package outwriter

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// sheet is one worksheet of an XLSX export.
type sheet struct {
	name   string
	header []string
	rows   [][]any
}

// writeXLSX saves sheets into a new workbook at path, in order.
func writeXLSX(path string, sheets []sheet) error {
	if path == "" {
		return fmt.Errorf("xlsx output requires an output file")
	}
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	for i, s := range sheets {
		if i == 0 {
			// Reuse the default sheet so the workbook has no empty first tab
			if err := f.SetSheetName(f.GetSheetName(0), s.name); err != nil {
				return fmt.Errorf("failed to name sheet %s: %w", s.name, err)
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", s.name, err)
		}
		if err := writeSheet(f, s); err != nil {
			return err
		}
	}
	f.SetActiveSheet(0)

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// writeSheet fills one worksheet, header first.
func writeSheet(f *excelize.File, s sheet) error {
	header := make([]any, len(s.header))
	for i, h := range s.header {
		header[i] = h
	}
	if err := f.SetSheetRow(s.name, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header of %s: %w", s.name, err)
	}
	for i, row := range s.rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(s.name, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d of %s: %w", i+1, s.name, err)
		}
	}
	return nil
}

// optionalCell converts a nil pointer into an empty cell.
func optionalCell[T any](v *T) any {
	if v == nil {
		return nil
	}
	return *v
}
