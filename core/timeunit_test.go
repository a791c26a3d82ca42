package core

import (
	"testing"

	"github.com/huangsam/digger/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyPeriodKey(t *testing.T) {
	tests := []struct {
		key  string
		unit schema.TimeUnit
		ok   bool
	}{
		{"2021", schema.YearUnit, true},
		{"2021Q3", schema.QuarterUnit, true},
		{"2021-07", schema.MonthUnit, true},
		{"2021-07-raw", "", false},
		{"2021q3", "", false},
		{"21", "", false},
		{"", "", false},
		{"20210", "", false},
		{"2021-7", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			unit, ok := ClassifyPeriodKey(tt.key)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.unit, unit)
		})
	}
}

func TestGroupByTimeUnit(t *testing.T) {
	list := []schema.EntityMetrics{
		{Name: "a/x", Data: schema.MetricData{"2020": 1, "2021": 2, "2021-02": 3, "2021-01": 4, "2021-01-raw": 9}},
		{Name: "b/y", Data: schema.MetricData{"2019": 5, "2021Q1": 6}},
	}
	grouped := GroupByTimeUnit(list)
	require.Len(t, grouped, 3)

	t.Run("periods are sorted unions", func(t *testing.T) {
		assert.Equal(t, []string{"2019", "2020", "2021"}, grouped[schema.YearUnit].Periods)
		assert.Equal(t, []string{"2021Q1"}, grouped[schema.QuarterUnit].Periods)
		assert.Equal(t, []string{"2021-01", "2021-02"}, grouped[schema.MonthUnit].Periods)
	})

	t.Run("entities keep input order", func(t *testing.T) {
		for _, unit := range schema.AllTimeUnits {
			group := grouped[unit]
			require.Len(t, group.List, 2)
			assert.Equal(t, "a/x", group.List[0].Name)
			assert.Equal(t, "b/y", group.List[1].Name)
		}
	})

	t.Run("data is restricted per unit", func(t *testing.T) {
		assert.Equal(t, schema.MetricData{"2020": 1, "2021": 2}, grouped[schema.YearUnit].List[0].Data)
		assert.Equal(t, schema.MetricData{"2021-02": 3, "2021-01": 4}, grouped[schema.MonthUnit].List[0].Data)
		assert.NotNil(t, grouped[schema.QuarterUnit].List[0].Data)
		assert.Empty(t, grouped[schema.QuarterUnit].List[0].Data)
		assert.Empty(t, grouped[schema.MonthUnit].List[1].Data)
	})

	t.Run("empty input", func(t *testing.T) {
		empty := GroupByTimeUnit(nil)
		for _, unit := range schema.AllTimeUnits {
			assert.Empty(t, empty[unit].Periods)
			assert.Empty(t, empty[unit].List)
		}
	})
}

func TestFilterPeriods(t *testing.T) {
	keys := []string{"2019", "2020", "2021", "2022"}
	assert.Equal(t, keys, FilterPeriods(keys, schema.TimeSpan{}))
	assert.Equal(t, []string{"2020", "2021"}, FilterPeriods(keys, schema.TimeSpan{From: "2020", To: "2021"}))
	assert.Equal(t, []string{"2021", "2022"}, FilterPeriods(keys, schema.TimeSpan{From: "2021"}))
	assert.Equal(t, []string{"2019"}, FilterPeriods(keys, schema.TimeSpan{To: "2019"}))
	assert.Empty(t, FilterPeriods(keys, schema.TimeSpan{From: "2023"}))
}

func TestLineSeries(t *testing.T) {
	list := []schema.EntityMetrics{
		{Name: "a/x", Data: schema.MetricData{"2020": 1.23456, "2021": 0, "2022": -2.5}},
		{Name: "b/y", Data: schema.MetricData{}},
	}
	got := LineSeries([]string{"2020", "2021", "2022", "2023"}, list, 2)
	require.Len(t, got, 2)

	values := got[0].Values
	require.Len(t, values, 4)
	require.NotNil(t, values[0])
	assert.InDelta(t, 1.23, *values[0], 1e-9)
	assert.Nil(t, values[1])
	require.NotNil(t, values[2])
	assert.InDelta(t, -2.5, *values[2], 1e-9)
	assert.Nil(t, values[3])

	assert.Equal(t, "b/y", got[1].Name)
	assert.Equal(t, []*float64{nil, nil, nil, nil}, got[1].Values)
}

func TestRoundTo(t *testing.T) {
	assert.InDelta(t, 1.24, roundTo(1.235001, 2), 1e-9)
	assert.InDelta(t, 3.0, roundTo(2.6, 0), 1e-9)
	assert.InDelta(t, 2.6, roundTo(2.6, -1), 1e-9)
}

func FuzzClassifyPeriodKey(f *testing.F) {
	for _, seed := range []string{"2021", "2021Q1", "2021-01", "2021-01-raw", "abcd"} {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, key string) {
		unit, ok := ClassifyPeriodKey(key)
		if !ok {
			assert.Empty(t, unit)
			return
		}
		_, valid := schema.ValidTimeUnits[unit]
		assert.True(t, valid)
		grouped := GroupByTimeUnit([]schema.EntityMetrics{{Name: "e", Data: schema.MetricData{key: 1}}})
		assert.Equal(t, []string{key}, grouped[unit].Periods)
	})
}
