package core

import (
	"math"
	"regexp"
	"slices"

	"github.com/huangsam/digger/schema"
)

// Period key patterns. Anything else, such as "2021-01-raw", is not a period.
var (
	yearKeyPattern    = regexp.MustCompile(`^\d{4}$`)
	quarterKeyPattern = regexp.MustCompile(`^\d{4}Q\d$`)
	monthKeyPattern   = regexp.MustCompile(`^\d{4}-\d{2}$`)
)

// ClassifyPeriodKey returns the time unit of key, or false if key is not a period.
func ClassifyPeriodKey(key string) (schema.TimeUnit, bool) {
	switch {
	case yearKeyPattern.MatchString(key):
		return schema.YearUnit, true
	case quarterKeyPattern.MatchString(key):
		return schema.QuarterUnit, true
	case monthKeyPattern.MatchString(key):
		return schema.MonthUnit, true
	default:
		return "", false
	}
}

// GroupByTimeUnit splits every entity's data by time unit.
// Each unit gets the sorted union of its period keys and one entry per input
// entity, in input order, even when the entity has no data for that unit.
func GroupByTimeUnit(list []schema.EntityMetrics) schema.GroupedData {
	periods := make(map[schema.TimeUnit]map[string]struct{}, len(schema.AllTimeUnits))
	grouped := make(schema.GroupedData, len(schema.AllTimeUnits))
	for _, unit := range schema.AllTimeUnits {
		periods[unit] = make(map[string]struct{})
		grouped[unit] = schema.TimeSeriesGroup{List: make([]schema.EntityMetrics, 0, len(list))}
	}

	for _, entity := range list {
		split := make(map[schema.TimeUnit]schema.MetricData, len(schema.AllTimeUnits))
		for _, unit := range schema.AllTimeUnits {
			split[unit] = schema.MetricData{}
		}
		for key, value := range entity.Data {
			unit, ok := ClassifyPeriodKey(key)
			if !ok {
				continue
			}
			periods[unit][key] = struct{}{}
			split[unit][key] = value
		}
		for _, unit := range schema.AllTimeUnits {
			group := grouped[unit]
			group.List = append(group.List, schema.EntityMetrics{Name: entity.Name, Data: split[unit]})
			grouped[unit] = group
		}
	}

	for _, unit := range schema.AllTimeUnits {
		keys := make([]string, 0, len(periods[unit]))
		for key := range periods[unit] {
			keys = append(keys, key)
		}
		slices.Sort(keys)
		group := grouped[unit]
		group.Periods = keys
		grouped[unit] = group
	}
	return grouped
}

// FilterPeriods keeps the keys inside span, preserving order.
func FilterPeriods(keys []string, span schema.TimeSpan) []string {
	if span.IsZero() {
		return slices.Clone(keys)
	}
	out := make([]string, 0, len(keys))
	for _, key := range keys {
		if span.Contains(key) {
			out = append(out, key)
		}
	}
	return out
}

// LineSeries aligns each entity's values to periods, rounded to decimals places.
// A missing, zero or NaN value becomes nil.
func LineSeries(periods []string, list []schema.EntityMetrics, decimals int) []schema.LineSeries {
	out := make([]schema.LineSeries, 0, len(list))
	for _, entity := range list {
		values := make([]*float64, len(periods))
		for i, period := range periods {
			v, ok := entity.Data[period]
			if !ok || v == 0 || math.IsNaN(v) {
				continue
			}
			rounded := roundTo(v, decimals)
			values[i] = &rounded
		}
		out = append(out, schema.LineSeries{Name: entity.Name, Values: values})
	}
	return out
}

// roundTo rounds v half away from zero to the given number of decimals.
func roundTo(v float64, decimals int) float64 {
	if decimals < 0 {
		return v
	}
	scale := math.Pow(10, float64(decimals))
	return math.Round(v*scale) / scale
}
