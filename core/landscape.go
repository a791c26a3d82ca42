package core

import (
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/huangsam/digger/core/algo"
	"github.com/huangsam/digger/internal/logger"
	"github.com/huangsam/digger/schema"
)

// Size weights for landscape cards. Each score saturates at its cap.
const (
	sizeBase       = 100
	sizeSpan       = 60
	starsCap       = 50000
	forksCap       = 10000
	openRankCap    = 300
	starsWeight    = 0.3
	forksWeight    = 0.2
	openRankWeight = 0.5
)

const defaultLanguageColor = "#777777"

var languageColors = map[string]string{
	"JavaScript":       "#f1e05a",
	"TypeScript":       "#2b7489",
	"Python":           "#3572A5",
	"Java":             "#b07219",
	"C":                "#555555",
	"C++":              "#f34b7d",
	"C#":               "#178600",
	"Go":               "#00ADD8",
	"Ruby":             "#701516",
	"PHP":              "#4F5D95",
	"Rust":             "#dea584",
	"Scala":            "#c22d40",
	"Swift":            "#ffac45",
	"Kotlin":           "#F18E33",
	"HTML":             "#e34c26",
	"CSS":              "#563d7c",
	"Shell":            "#89e051",
	"Jupyter":          "#DA5B0B",
	"Dockerfile":       "#384d54",
	"Jupyter Notebook": "#DA5B0B",
}

// CoerceNumber converts a loosely typed value to a float64.
// Strings may carry thousands separators and padding. Anything unparseable is 0.
func CoerceNumber(v any) float64 {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case bool:
		if x {
			f = 1
		}
	case string:
		s := strings.TrimSpace(strings.ReplaceAll(x, ",", ""))
		if s == "" {
			return 0
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// CoerceProject builds a Project from a landscape record. It never fails:
// missing or malformed fields take their defaults.
func CoerceProject(record schema.Record, index int) schema.Project {
	field := func(name string) string {
		return strings.TrimSpace(record[name])
	}

	id := field("repo_id")
	if id == "" {
		id = strconv.Itoa(index)
	}
	repoName := field("repo_name")
	classification := field("classification")
	if classification == "" {
		classification = schema.UncategorizedLabel
	}
	language := field("language")
	if language == "" {
		language = schema.UnknownLanguage
	}
	openRankRaw := field("openrank_25")
	if openRankRaw == "" {
		openRankRaw = field("openrank")
	}

	p := schema.Project{
		ID:             id,
		RepoName:       repoName,
		Classification: classification,
		Stars:          CoerceNumber(field("stars")),
		Forks:          CoerceNumber(field("forks")),
		OpenRank:       CoerceNumber(openRankRaw),
		Language:       language,
		CreatedAt:      field("created_at"),
		Description:    field("description"),
	}
	p.Size = ProjectSize(p.Stars, p.Forks, p.OpenRank)

	if repoName != "" {
		p.Owner = schema.OwnerOf(repoName)
		if parts := strings.Split(repoName, "/"); len(parts) > 1 {
			p.DisplayName = parts[1]
		}
		p.GitHubURL = githubBaseURL + repoName
	}
	p.Logo = "/img/logos/" + p.Owner + ".png"
	p.FallbackLogo = githubBaseURL + p.Owner + ".png"
	p.Tags = ExtractTags(p.Description)
	return p
}

// ProjectSize scores popularity onto a card size between 100 and 160.
func ProjectSize(stars, forks, openRank float64) int {
	score := math.Min(stars/starsCap, 1)*starsWeight +
		math.Min(forks/forksCap, 1)*forksWeight +
		math.Min(openRank/openRankCap, 1)*openRankWeight
	return int(math.Floor(sizeBase + score*sizeSpan + 0.5))
}

// ExtractTags returns up to MaxTags keywords found in description, case-insensitively.
func ExtractTags(description string) []string {
	tags := []string{}
	if description == "" {
		return tags
	}
	lower := strings.ToLower(description)
	for _, keyword := range schema.TagKeywords {
		if strings.Contains(lower, strings.ToLower(keyword)) {
			tags = append(tags, keyword)
			if len(tags) == schema.MaxTags {
				break
			}
		}
	}
	return tags
}

// LoadProjects coerces landscape records, skipping rows without repo_id or repo_name.
func LoadProjects(records []schema.Record) []schema.Project {
	projects := make([]schema.Project, 0, len(records))
	for i, record := range records {
		if strings.TrimSpace(record["repo_id"]) == "" || strings.TrimSpace(record["repo_name"]) == "" {
			logger.WithField("row", i+1).Warn("landscape record missing repo_id or repo_name, skipping")
			continue
		}
		projects = append(projects, CoerceProject(record, len(projects)))
	}
	return projects
}

// FilterProjects applies the view state and sorts by OpenRank, highest first.
func FilterProjects(projects []schema.Project, filter schema.LandscapeFilter) []schema.Project {
	term := strings.ToLower(strings.TrimSpace(filter.Search))
	out := make([]schema.Project, 0, len(projects))
	for _, p := range projects {
		if filter.Category != "" && p.Classification != filter.Category {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(p.RepoName), term) &&
			!strings.Contains(strings.ToLower(p.Description), term) &&
			!strings.Contains(strings.ToLower(p.Classification), term) {
			continue
		}
		out = append(out, p)
	}
	return algo.RankProjects(out, 0)
}

// categoryOrder is the flattened canonical category order.
func categoryOrder() map[string]int {
	order := make(map[string]int)
	for _, group := range schema.CategoryGroups {
		for _, category := range group.Categories {
			order[category] = len(order)
		}
	}
	return order
}

// AvailableCategories lists the distinct classifications of projects.
// Known categories come first in canonical order, the rest alphabetically.
func AvailableCategories(projects []schema.Project) []string {
	seen := make(map[string]struct{})
	var categories []string
	for _, p := range projects {
		if _, ok := seen[p.Classification]; ok {
			continue
		}
		seen[p.Classification] = struct{}{}
		categories = append(categories, p.Classification)
	}

	order := categoryOrder()
	slices.SortStableFunc(categories, func(a, b string) int {
		ia, okA := order[a]
		ib, okB := order[b]
		switch {
		case !okA && !okB:
			return strings.Compare(a, b)
		case !okA:
			return 1
		case !okB:
			return -1
		default:
			return ia - ib
		}
	})
	return categories
}

// CategoriesByGroup buckets categories under their canonical group.
// Unknown categories land in the "Other" group, which sorts last.
func CategoriesByGroup(categories []string) []schema.CategoryGroup {
	groupOf := make(map[string]string)
	for _, group := range schema.CategoryGroups {
		for _, category := range group.Categories {
			groupOf[category] = group.Name
		}
	}

	buckets := make(map[string][]string)
	for _, category := range categories {
		name, ok := groupOf[category]
		if !ok {
			name = schema.OtherGroup
		}
		buckets[name] = append(buckets[name], category)
	}

	var out []schema.CategoryGroup
	for _, group := range schema.CategoryGroups {
		if cats, ok := buckets[group.Name]; ok {
			out = append(out, schema.CategoryGroup{Name: group.Name, Categories: cats})
		}
	}
	if cats, ok := buckets[schema.OtherGroup]; ok {
		out = append(out, schema.CategoryGroup{Name: schema.OtherGroup, Categories: cats})
	}
	return out
}

// LanguageColor returns the display colour of a programming language.
func LanguageColor(language string) string {
	if c, ok := languageColors[language]; ok {
		return c
	}
	return defaultLanguageColor
}
