package schema

// MetricInfo describes one metric type for display purposes.
type MetricInfo struct {
	Name       MetricType       `json:"name"`
	Label      string           `json:"label"`
	Categories []MetricCategory `json:"categories"`
}

// MetricsRenderModel contains all data needed for displaying metric definitions.
type MetricsRenderModel struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	BaseURL     string       `json:"base_url"`
	Metrics     []MetricInfo `json:"metrics"`
}

// BuildMetricsRenderModel lists every metric with the categories it applies to.
func BuildMetricsRenderModel(baseURL string) MetricsRenderModel {
	metrics := make([]MetricInfo, 0, len(RepositoryMetrics))
	for _, m := range RepositoryMetrics {
		info := MetricInfo{Name: m, Label: m.Label(), Categories: []MetricCategory{RepositoryCategory}}
		for _, d := range DeveloperMetrics {
			if d == m {
				info.Categories = append(info.Categories, DeveloperCategory)
			}
		}
		metrics = append(metrics, info)
	}
	return MetricsRenderModel{
		Title:       "OpenDigger Metrics",
		Description: "Metrics are fetched from {base}/github/{name}/{metric}.json",
		BaseURL:     baseURL,
		Metrics:     metrics,
	}
}
