package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/huangsam/digger/internal/contract"
	"github.com/huangsam/digger/internal/fetch"
	"github.com/huangsam/digger/internal/logger"
	"github.com/huangsam/digger/schema"
	"golang.org/x/sync/errgroup"
)

// ErrNoNames is returned when a metric command has no entities to load.
var ErrNoNames = errors.New("at least one repository or developer name is required")

// MetricURL returns the OpenDigger location of one entity's metric file.
func MetricURL(baseURL, name string, metric schema.MetricType) string {
	return fmt.Sprintf("%s/github/%s/%s.json", strings.TrimRight(baseURL, "/"), name, metric)
}

// Loader fetches OpenDigger metric files for many entities.
type Loader struct {
	fetcher contract.Fetcher
	baseURL string
	workers int
}

// NewLoader returns a Loader that issues at most workers requests at a time.
func NewLoader(f contract.Fetcher, baseURL string, workers int) *Loader {
	if baseURL == "" {
		baseURL = contract.DefaultBaseURL
	}
	if workers <= 0 {
		workers = contract.DefaultWorkers
	}
	return &Loader{fetcher: f, baseURL: baseURL, workers: workers}
}

// FetchMetric loads one entity's metric as a sparse period map.
// Values that are not numbers are dropped.
func (l *Loader) FetchMetric(ctx context.Context, name string, metric schema.MetricType) (schema.MetricData, error) {
	url := MetricURL(l.baseURL, name, metric)
	raw, err := fetch.FetchJSON[map[string]any](ctx, l.fetcher, url)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		if e, ok := l.fetcher.(contract.Evicter); ok {
			e.Evict(url)
		}
		return nil, &fetch.ParseError{URL: url, Format: schema.JSONFormat, Err: errors.New("expected a JSON object")}
	}

	data := make(schema.MetricData, len(raw))
	for key, value := range raw {
		if v, ok := value.(float64); ok {
			data[key] = v
		}
	}
	return data, nil
}

// FetchAll loads metric for every name in parallel.
// The result keeps the order of names, and any failure fails the whole call.
func (l *Loader) FetchAll(ctx context.Context, names []string, metric schema.MetricType) ([]schema.EntityMetrics, error) {
	if len(names) == 0 {
		return nil, ErrNoNames
	}
	results := make([]schema.EntityMetrics, len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.workers)
	for i, name := range names {
		g.Go(func() error {
			data, err := l.FetchMetric(gctx, name, metric)
			if err != nil {
				return fmt.Errorf("fetch %s for %s: %w", metric, name, err)
			}
			results[i] = schema.EntityMetrics{Name: name, Data: data}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	logger.WithFields(map[string]any{"metric": metric, "entities": len(names)}).Debug("metrics loaded")
	return results, nil
}
