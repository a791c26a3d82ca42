package schema

import "strconv"

// EnrichedProject adds presentation data to a Project.
type EnrichedProject struct {
	Rank int `json:"rank"`
	Project
}

// EnrichProjects adds a 1-based rank to a list of projects.
func EnrichProjects(projects []Project) []EnrichedProject {
	output := make([]EnrichedProject, len(projects))
	for i, p := range projects {
		output[i] = EnrichedProject{Rank: i + 1, Project: p}
	}
	return output
}

// OrdinalLabel formats a rank as "1st", "2nd", "3rd", "4th", ...
// Ranks ending in 11, 12 or 13 always take "th".
func OrdinalLabel(rank int) string {
	suffix := "th"
	switch rank % 100 {
	case 11, 12, 13:
	default:
		switch rank % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return strconv.Itoa(rank) + suffix
}
