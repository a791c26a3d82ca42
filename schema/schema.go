// Package schema has configs, models and global variables for all parts of digger.
package schema

// MetricData maps a period key (YYYY, YYYYQn, YYYY-MM) to a numeric value.
// Keys are sparse: a missing key means no data for that period, not zero.
type MetricData map[string]float64

// EntityMetrics pairs an entity (owner/repo or developer login) with its metric data.
type EntityMetrics struct {
	Name string     `json:"name"`
	Data MetricData `json:"data"`
}

// Record is one row of a header-keyed CSV dataset.
type Record map[string]string

// Value returns the value at key and whether it is present and positive.
func (m MetricData) Value(key string) (float64, bool) {
	v, ok := m[key]
	if !ok || v <= 0 {
		return v, false
	}
	return v, true
}
