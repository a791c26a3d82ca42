package outwriter

import (
	"fmt"
	"io"
	"strings"

	"github.com/huangsam/digger/internal/contract"
)

// LogMetricHeader prints a concise, 2-line header for a metric command.
func LogMetricHeader(w io.Writer, cfg *contract.Config) {
	// Line 1: what is fetched and for whom
	_, _ = fmt.Fprintf(w, "🔎 %s (%s) for %s\n", cfg.Metric.Label(), cfg.Category, strings.Join(cfg.Names, ", "))

	// Line 2: granularity and the period range
	span := "all time"
	if !cfg.Span.IsZero() {
		span = fmt.Sprintf("%s → %s", orOpen(cfg.Span.From), orOpen(cfg.Span.To))
	}
	_, _ = fmt.Fprintf(w, "📅 Unit: %s, Range: %s\n", cfg.TimeUnit, span)
}

// LogDatasetHeader prints a one-line header for a dataset command.
func LogDatasetHeader(w io.Writer, kind, source string) {
	_, _ = fmt.Fprintf(w, "📦 %s: %s\n", kind, source)
}

func orOpen(bound string) string {
	if bound == "" {
		return "…"
	}
	return bound
}
