package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DataFormat represents the wire format of a fetched dataset.
	DataFormat string

	// DatabaseBackend represents the database backend for caching.
	DatabaseBackend string

	// MetricCategory represents the kind of entity a metric describes.
	MetricCategory string

	// MetricType represents an OpenDigger metric name.
	MetricType string

	// TimeUnit represents the granularity of a period key.
	TimeUnit string

	// TiePolicy controls how equal values are ranked.
	TiePolicy string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
	XLSXOut    OutputMode = "xlsx"
)

// All dataset formats supported.
const (
	JSONFormat DataFormat = "json" // default
	CSVFormat  DataFormat = "csv"
)

// All cache backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All metric categories. Organizations have no metrics yet.
const (
	OrganizationCategory MetricCategory = "organization"
	RepositoryCategory   MetricCategory = "repository" // default
	DeveloperCategory    MetricCategory = "developer"
)

// Repository metric types. OpenRank and Activity also apply to developers.
const (
	OpenRankMetric               MetricType = "openrank" // default
	ActivityMetric               MetricType = "activity"
	ParticipantsMetric           MetricType = "participants"
	ContributorsMetric           MetricType = "contributors"
	StarsMetric                  MetricType = "stars"
	TechnicalForkMetric          MetricType = "technical_fork"
	IssueNewMetric               MetricType = "issue_new"
	IssueClosedMetric            MetricType = "issue_closed"
	IssueCommentsMetric          MetricType = "issue_comments"
	ChangeRequestsMetric         MetricType = "change_requests"
	ChangeRequestsAcceptedMetric MetricType = "change_requests_accepted"
	ChangeRequestsReviewsMetric  MetricType = "change_requests_reviews"
	CodeChangeLinesAddMetric     MetricType = "code_change_lines_add"
	CodeChangeLinesRemoveMetric  MetricType = "code_change_lines_remove"
)

// All time units, in display order.
const (
	YearUnit    TimeUnit = "year"
	QuarterUnit TimeUnit = "quarter"
	MonthUnit   TimeUnit = "month" // default
)

// All tie policies.
const (
	TieStable TiePolicy = "stable" // default: equal values keep input order and get distinct ranks
	TieDense  TiePolicy = "dense"  // equal values share a rank, the next rank skips ahead
)

// AllTimeUnits lists every time unit in coarse-to-fine order.
var AllTimeUnits = []TimeUnit{YearUnit, QuarterUnit, MonthUnit}

// RepositoryMetrics lists the metrics available for repositories, in display order.
var RepositoryMetrics = []MetricType{
	OpenRankMetric,
	ActivityMetric,
	ParticipantsMetric,
	ContributorsMetric,
	StarsMetric,
	TechnicalForkMetric,
	IssueNewMetric,
	IssueClosedMetric,
	IssueCommentsMetric,
	ChangeRequestsMetric,
	ChangeRequestsAcceptedMetric,
	ChangeRequestsReviewsMetric,
	CodeChangeLinesAddMetric,
	CodeChangeLinesRemoveMetric,
}

// DeveloperMetrics lists the metrics available for developers.
var DeveloperMetrics = []MetricType{OpenRankMetric, ActivityMetric}

// metricLabels holds the display label of each metric.
var metricLabels = map[MetricType]string{
	OpenRankMetric:               "OpenRank",
	ActivityMetric:               "Activity",
	ParticipantsMetric:           "Participants",
	ContributorsMetric:           "Contributors",
	StarsMetric:                  "Stars",
	TechnicalForkMetric:          "Technical Fork",
	IssueNewMetric:               "Issue New",
	IssueClosedMetric:            "Issue Closed",
	IssueCommentsMetric:          "Issue Comments",
	ChangeRequestsMetric:         "Change Requests",
	ChangeRequestsAcceptedMetric: "Change Requests Accepted",
	ChangeRequestsReviewsMetric:  "Change Requests Reviews",
	CodeChangeLinesAddMetric:     "Code Change Lines Add",
	CodeChangeLinesRemoveMetric:  "Code Change Lines Remove",
}

// Label returns the display label for a metric, falling back to the raw name.
func (m MetricType) Label() string {
	if label, ok := metricLabels[m]; ok {
		return label
	}
	return string(m)
}

// MetricsFor returns the metrics valid for a category.
func MetricsFor(category MetricCategory) []MetricType {
	switch category {
	case RepositoryCategory:
		return RepositoryMetrics
	case DeveloperCategory:
		return DeveloperMetrics
	default:
		return nil
	}
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
	XLSXOut:    {},
}

// ValidDataFormats lists all valid dataset formats.
var ValidDataFormats = map[DataFormat]struct{}{
	JSONFormat: {},
	CSVFormat:  {},
}

// ValidDatabaseBackends lists all valid cache backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidMetricCategories lists the categories that have metrics.
var ValidMetricCategories = map[MetricCategory]struct{}{
	RepositoryCategory: {},
	DeveloperCategory:  {},
}

// ValidTimeUnits lists all valid time units.
var ValidTimeUnits = map[TimeUnit]struct{}{
	YearUnit:    {},
	QuarterUnit: {},
	MonthUnit:   {},
}

// ValidTiePolicies lists all valid tie policies.
var ValidTiePolicies = map[TiePolicy]struct{}{
	TieStable: {},
	TieDense:  {},
}
