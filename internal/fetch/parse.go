package fetch

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/digger/schema"
)

// utf8BOM is stripped from the start of CSV bodies.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Parse decodes body in the given format.
func Parse(body []byte, format schema.DataFormat) (any, error) {
	switch format {
	case schema.JSONFormat:
		return ParseJSON(body)
	case schema.CSVFormat:
		return ParseCSV(body)
	default:
		return nil, fmt.Errorf("unsupported data format %q", format)
	}
}

// ParseJSON decodes body into a generic JSON value.
func ParseJSON(body []byte) (any, error) {
	var out any
	if err := DecodeJSON(body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DecodeJSON decodes body into v, reporting failures as a ParseError.
func DecodeJSON(body []byte, v any) error {
	if err := json.Unmarshal(body, v); err != nil {
		return &ParseError{Format: schema.JSONFormat, Err: err}
	}
	return nil
}

// ParseCSV parses body into records keyed by the header row.
// Quoted fields may contain delimiters and newlines. Rows shorter than the
// header are padded with empty strings and extra fields are dropped.
// Blank lines are skipped.
func ParseCSV(body []byte) ([]schema.Record, error) {
	body = bytes.TrimPrefix(body, utf8BOM)
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, &ParseError{Format: schema.CSVFormat, Err: errors.New("empty CSV")}
	}
	if trimmed[0] == '<' {
		return nil, &ParseError{Format: schema.CSVFormat, Err: errors.New("received HTML instead of CSV")}
	}

	reader := csv.NewReader(bytes.NewReader(body))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, &ParseError{Format: schema.CSVFormat, Err: fmt.Errorf("read header: %w", err)}
	}

	records := make([]schema.Record, 0)
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &ParseError{Format: schema.CSVFormat, Err: err}
		}
		record := make(schema.Record, len(header))
		for i, key := range header {
			if i < len(row) {
				record[key] = row[i]
			} else {
				record[key] = ""
			}
		}
		records = append(records, record)
	}
	return records, nil
}
