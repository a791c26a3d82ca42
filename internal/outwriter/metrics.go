package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/huangsam/digger/internal/contract"
	"github.com/huangsam/digger/schema"
)

// PrintMetricsDefinitions displays every OpenDigger metric and where it is fetched from.
// This is a static display that does not touch the network.
func PrintMetricsDefinitions(model schema.MetricsRenderModel, cfg *contract.Config) error {
	return dispatch(cfg, formatWriters{
		kind: "metrics",
		json: model,
		csv: func(w *csv.Writer) error {
			return writeCSVMetrics(w, model)
		},
		table: func(w io.Writer) error {
			return printMetricsText(w, model)
		},
	})
}

// printMetricsText displays metrics in human-readable text format.
func printMetricsText(w io.Writer, model schema.MetricsRenderModel) error {
	if _, err := fmt.Fprintf(w, "📊 %s\n%s\n\n", model.Title, strings.Repeat("=", len(model.Title)+3)); err != nil {
		return err
	}
	description := strings.ReplaceAll(model.Description, "{base}", model.BaseURL)
	if _, err := fmt.Fprintf(w, "%s\n\n", description); err != nil {
		return err
	}
	for _, m := range model.Metrics {
		if _, err := fmt.Fprintf(w, "%-26s %-28s %s\n", m.Name, m.Label, joinCategories(m.Categories)); err != nil {
			return err
		}
	}
	return nil
}

func writeCSVMetrics(w *csv.Writer, model schema.MetricsRenderModel) error {
	if err := w.Write([]string{"metric", "label", "categories"}); err != nil {
		return err
	}
	for _, m := range model.Metrics {
		if err := w.Write([]string{string(m.Name), m.Label, joinCategories(m.Categories)}); err != nil {
			return err
		}
	}
	return nil
}

func joinCategories(categories []schema.MetricCategory) string {
	parts := make([]string, len(categories))
	for i, c := range categories {
		parts[i] = string(c)
	}
	return strings.Join(parts, ",")
}
