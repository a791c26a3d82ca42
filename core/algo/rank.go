// Package algo has the pure ranking algorithms shared by the core commands.
package algo

import (
	"cmp"
	"slices"

	"github.com/huangsam/digger/schema"
)

// rankIndices ranks the entities active in one period.
// The result holds a 1-based rank per entity index, or 0 when inactive.
// Active means the value is present and positive. Entities are ordered by
// value descending with a stable sort, so equal values keep input order.
func rankIndices(period string, list []schema.EntityMetrics, policy schema.TiePolicy) []int {
	active := make([]int, 0, len(list))
	for i, entity := range list {
		if _, ok := entity.Data.Value(period); ok {
			active = append(active, i)
		}
	}
	slices.SortStableFunc(active, func(a, b int) int {
		return cmp.Compare(list[b].Data[period], list[a].Data[period])
	})

	ranks := make([]int, len(list))
	for pos, idx := range active {
		ranks[idx] = pos + 1
		if policy == schema.TieDense && pos > 0 {
			prev := active[pos-1]
			if list[prev].Data[period] == list[idx].Data[period] {
				ranks[idx] = ranks[prev]
			}
		}
	}
	return ranks
}

// RankPeriod returns the active entities of one period in rank order.
func RankPeriod(period string, list []schema.EntityMetrics, policy schema.TiePolicy) []schema.PeriodRank {
	ranks := rankIndices(period, list, policy)
	out := make([]schema.PeriodRank, 0, len(list))
	for i, entity := range list {
		if ranks[i] == 0 {
			continue
		}
		out = append(out, schema.PeriodRank{Name: entity.Name, Value: entity.Data[period], Rank: ranks[i]})
	}
	slices.SortStableFunc(out, func(a, b schema.PeriodRank) int {
		return cmp.Compare(a.Rank, b.Rank)
	})
	return out
}

// RankSeries derives one rank series per entity across all periods.
// Ranks before an entity's first active period are nil, and afterwards a
// period where it is inactive is also nil. Entities never active are left out.
func RankSeries(periods []string, list []schema.EntityMetrics, policy schema.TiePolicy) []schema.RankedSeries {
	byPeriod := make([][]int, len(periods))
	for p, period := range periods {
		byPeriod[p] = rankIndices(period, list, policy)
	}

	out := make([]schema.RankedSeries, 0, len(list))
	for i, entity := range list {
		first := -1
		for p := range periods {
			if byPeriod[p][i] > 0 {
				first = p
				break
			}
		}
		if first < 0 {
			continue
		}

		ranks := make([]*int, len(periods))
		for p := first; p < len(periods); p++ {
			if r := byPeriod[p][i]; r > 0 {
				ranks[p] = &r
			}
		}
		out = append(out, schema.RankedSeries{Name: entity.Name, Ranks: ranks, FirstActiveIndex: first})
	}
	return out
}

// RankProjects sorts projects by OpenRank in descending order, keeping input
// order for equal values, and returns the top 'limit' projects. A limit of
// zero or less returns every project.
func RankProjects(projects []schema.Project, limit int) []schema.Project {
	sorted := slices.Clone(projects)
	slices.SortStableFunc(sorted, func(a, b schema.Project) int {
		return cmp.Compare(b.OpenRank, a.OpenRank)
	})
	if limit > 0 && len(sorted) > limit {
		return sorted[:limit]
	}
	return sorted
}
