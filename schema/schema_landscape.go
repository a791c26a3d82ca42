package schema

// UncategorizedLabel is the classification of projects without one.
const UncategorizedLabel = "Uncategorized"

// UnknownLanguage is the language of projects without one.
const UnknownLanguage = "Unknown"

// OtherGroup collects categories that belong to no known group.
const OtherGroup = "Other"

// Project is a landscape project coerced from a CSV record.
type Project struct {
	ID             string   `json:"id"`
	RepoName       string   `json:"repo_name"`
	Classification string   `json:"classification"`
	Stars          float64  `json:"stars"`
	Forks          float64  `json:"forks"`
	OpenRank       float64  `json:"openrank"`
	Language       string   `json:"language"`
	CreatedAt      string   `json:"created_at"`
	Description    string   `json:"description"`
	Size           int      `json:"size"`
	Owner          string   `json:"owner"`
	DisplayName    string   `json:"display_name"`
	GitHubURL      string   `json:"github_url"`
	Logo           string   `json:"logo"`
	FallbackLogo   string   `json:"fallback_logo"`
	Tags           []string `json:"tags"`
}

// CategoryGroup is a named group of landscape categories.
type CategoryGroup struct {
	Name       string   `json:"name"`
	Categories []string `json:"categories"`
}

// LandscapeFilter is the view state applied to a project list.
type LandscapeFilter struct {
	Search   string `json:"search,omitempty"`
	Category string `json:"category,omitempty"`
}

// CategoryGroups is the canonical grouping of landscape categories, in display order.
var CategoryGroups = []CategoryGroup{
	{
		Name:       "Training",
		Categories: []string{"Pre-train", "Post-train", "AI Compiler", "AI Kernel Library"},
	},
	{
		Name: "AI Applications",
		Categories: []string{
			"Agent Framework - SDK",
			"Agent Framework - Workflow",
			"General Assistant",
			"Coding Assistant",
			"Client Inferface",
			"Tool use",
			"AI Search Engine",
		},
	},
	{
		Name: "AI Infrastructure",
		Categories: []string{
			"App Framework",
			"MLOps",
			"API Management",
			"Evaluation Platform",
			"Inference Engine",
			"Inference Deploy",
		},
	},
	{
		Name: "Data Infrastructure",
		Categories: []string{
			"Data Integration",
			"Distributed Processing",
			"Data Labeling",
			"Unstructured Data Governance - Catalog",
			"Unstructured Data Governance - Lake Format",
			"Vector Storage and Search",
		},
	},
}

// TagKeywords are matched against project descriptions to derive tags.
var TagKeywords = []string{
	"AI", "ML", "LLM", "GPT", "Agent", "Vector", "Neural", "Graph", "Semantic",
	"Transformer", "Inference", "RAG", "Embedding", "Search", "Vision", "Audio",
	"Multimodal", "Generative",
}

// MaxTags is the maximum number of tags derived per project.
const MaxTags = 5

// LandscapeColumns is the header of landscape CSV datasets.
var LandscapeColumns = []string{
	"repo_id", "repo_name", "classification", "stars", "forks", "language",
	"created_at", "description", "openrank",
}

// LandscapeResult is the output of the landscape command.
type LandscapeResult struct {
	Filter     LandscapeFilter   `json:"filter"`
	Total      int               `json:"total"`
	Projects   []EnrichedProject `json:"projects"`
	Categories []string          `json:"categories"`
	Groups     []CategoryGroup   `json:"groups"`
}
