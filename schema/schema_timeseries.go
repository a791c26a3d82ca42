package schema

// TimeSeriesGroup holds every period key of one time unit and, per entity,
// the metric data restricted to that unit.
type TimeSeriesGroup struct {
	Periods []string        `json:"periods"` // Union of period keys across entities, sorted
	List    []EntityMetrics `json:"list"`    // Same order as the input entities
}

// GroupedData maps each time unit to its series group.
type GroupedData map[TimeUnit]TimeSeriesGroup

// TimeSpan bounds period keys inclusively. An empty bound is open.
type TimeSpan struct {
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
}

// IsZero reports whether the span has no bounds.
func (s TimeSpan) IsZero() bool {
	return s.From == "" && s.To == ""
}

// Contains reports whether key falls inside the span.
func (s TimeSpan) Contains(key string) bool {
	if s.From != "" && key < s.From {
		return false
	}
	if s.To != "" && key > s.To {
		return false
	}
	return true
}

// LineSeries is one entity's values aligned to a period list.
// A nil value means the entity had no positive value for that period.
type LineSeries struct {
	Name   string     `json:"name"`
	Values []*float64 `json:"values"`
}

// RankedSeries is one entity's rank per period.
// Ranks before FirstActiveIndex are nil, as are ranks of inactive periods.
type RankedSeries struct {
	Name             string `json:"name"`
	Ranks            []*int `json:"ranks"`
	FirstActiveIndex int    `json:"first_active_index"`
}

// PeriodRank is the rank of a single entity within a single period.
type PeriodRank struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Rank  int     `json:"rank"`
}

// TimeSeriesResult is the output of the timeseries and race commands.
type TimeSeriesResult struct {
	Metric MetricType   `json:"metric"`
	Unit   TimeUnit     `json:"unit"`
	Span   TimeSpan     `json:"span"`
	Period []string     `json:"periods"`
	Series []LineSeries `json:"series"`
}

// RankResult is the output of the rank command.
type RankResult struct {
	Metric MetricType     `json:"metric"`
	Unit   TimeUnit       `json:"unit"`
	Span   TimeSpan       `json:"span"`
	Period []string       `json:"periods"`
	Series []RankedSeries `json:"series"`
}

// RaceFrame is the leaderboard of a single period in a line race.
type RaceFrame struct {
	Period  string       `json:"period"`
	Entries []PeriodRank `json:"entries"`
}

// RaceResult is the output of the race command: one frame per period.
type RaceResult struct {
	Metric MetricType  `json:"metric"`
	Unit   TimeUnit    `json:"unit"`
	Span   TimeSpan    `json:"span"`
	Frames []RaceFrame `json:"frames"`
}
