package outwriter

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/digger/internal/contract"
	"github.com/huangsam/digger/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func ptr[T any](v T) *T { return &v }

// textConfig is a plain text config with a fixed width.
func textConfig() *contract.Config {
	return &contract.Config{
		Output:       schema.TextOut,
		Precision:    2,
		Width:        200,
		Workers:      4,
		ResultLimit:  10,
		CacheBackend: schema.NoneBackend,
	}
}

func TestCreateFormatters(t *testing.T) {
	fmtFloat, fmtOptional := createFormatters(3)
	assert.Equal(t, "1.235", fmtFloat(1.23456))
	assert.Equal(t, "0.000", fmtFloat(0))
	assert.Equal(t, "", fmtOptional(nil))
	assert.Equal(t, "2.500", fmtOptional(ptr(2.5)))
}

func TestRankLabelAndEmptyCell(t *testing.T) {
	cfg := textConfig()
	assert.Equal(t, "1st", rankLabel(cfg, 1))
	assert.Equal(t, "22nd", rankLabel(cfg, 22))
	assert.Equal(t, "-", emptyCell(cfg))
}

func TestWidthHelpers(t *testing.T) {
	tests := []struct {
		name     string
		width    int
		reserved int
		want     int
	}{
		{"narrow clamps to minimum", 40, 30, 15},
		{"wide clamps to maximum", 300, 10, 70},
		{"in between", 100, 30, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &contract.Config{Width: tt.width}
			assert.Equal(t, tt.width, getTerminalWidth(cfg))
			assert.Equal(t, tt.want, getMaxNameWidth(cfg, tt.reserved))
		})
	}

	assert.Equal(t, 1, maxPeriodColumns(&contract.Config{Width: 10}, 9))
	assert.Equal(t, 14, maxPeriodColumns(&contract.Config{Width: 200}, 9))
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeJSON(&buf, map[string]int{"a": 1}))
	assert.Equal(t, "{\n  \"a\": 1\n}\n", buf.String())
}

func TestLogHeaders(t *testing.T) {
	cfg := &contract.Config{
		Names:    []string{"a/x", "b/y"},
		Category: schema.RepositoryCategory,
		Metric:   schema.OpenRankMetric,
		TimeUnit: schema.YearUnit,
	}

	var buf bytes.Buffer
	LogMetricHeader(&buf, cfg)
	assert.Contains(t, buf.String(), "a/x, b/y")
	assert.Contains(t, buf.String(), "all time")

	buf.Reset()
	cfg.Span = schema.TimeSpan{From: "2020"}
	LogMetricHeader(&buf, cfg)
	assert.Contains(t, buf.String(), "2020 → …")

	buf.Reset()
	LogDatasetHeader(&buf, "graph", "data/graph.json")
	assert.Equal(t, "📦 graph: data/graph.json\n", buf.String())
}

func TestDispatchUnsupportedFormats(t *testing.T) {
	fw := formatWriters{kind: "thing", json: 1}
	for _, mode := range []schema.OutputMode{schema.CSVOut, schema.ParquetOut, schema.XLSXOut} {
		t.Run(string(mode), func(t *testing.T) {
			cfg := textConfig()
			cfg.Output = mode
			err := dispatch(cfg, fw)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "not supported for thing")
		})
	}
}

func TestDispatchJSONToFile(t *testing.T) {
	cfg := textConfig()
	cfg.Output = schema.JSONOut
	cfg.OutputFile = filepath.Join(t.TempDir(), "out.json")

	require.NoError(t, dispatch(cfg, formatWriters{kind: "thing", json: []int{1, 2}}))

	body, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	var got []int
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, []int{1, 2}, got)
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.xlsx")
	sheets := []sheet{
		{name: "First", header: []string{"name", "value"}, rows: [][]any{{"a", 1.5}, {"b", 2}}},
		{name: "Second", header: []string{"only"}},
	}
	require.NoError(t, writeXLSX(path, sheets))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{"First", "Second"}, f.GetSheetList())
	rows, err := f.GetRows("First")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"name", "value"}, {"a", "1.5"}, {"b", "2"}}, rows)
}

func TestWriteXLSXRequiresPath(t *testing.T) {
	err := writeXLSX("", []sheet{{name: "S"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires an output file")
}

func TestOptionalCell(t *testing.T) {
	assert.Nil(t, optionalCell[float64](nil))
	assert.Equal(t, 3, optionalCell(ptr(3)))
}
