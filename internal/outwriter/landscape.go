package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/digger/internal/contract"
	"github.com/huangsam/digger/internal/parquet"
	"github.com/huangsam/digger/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

var landscapeCSVHeader = []string{
	"rank", "repo_id", "repo_name", "classification", "stars", "forks",
	"openrank", "language", "created_at", "size", "tags",
}

// PrintLandscapeResults outputs a filtered landscape, dispatching based on the output format configured.
func PrintLandscapeResults(result schema.LandscapeResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)
	return dispatch(cfg, formatWriters{
		kind: "landscape",
		json: result,
		csv: func(w *csv.Writer) error {
			return writeCSVResultsForLandscape(w, result, fmtFloat)
		},
		table: func(w io.Writer) error {
			return writeLandscapeTable(w, result, cfg, fmtFloat, duration)
		},
		parquet: func(path string) error {
			return parquet.WriteProjectsParquet(parquet.ConvertProjects(result.Projects), path)
		},
		xlsx: landscapeSheets(result),
	})
}

func writeCSVResultsForLandscape(w *csv.Writer, result schema.LandscapeResult, fmtFloat func(float64) string) error {
	if err := w.Write(landscapeCSVHeader); err != nil {
		return err
	}
	for _, p := range result.Projects {
		row := []string{
			strconv.Itoa(p.Rank),
			p.ID,
			p.RepoName,
			p.Classification,
			strconv.FormatFloat(p.Stars, 'f', -1, 64),
			strconv.FormatFloat(p.Forks, 'f', -1, 64),
			fmtFloat(p.OpenRank),
			p.Language,
			p.CreatedAt,
			strconv.Itoa(p.Size),
			strings.Join(p.Tags, "|"),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// writeLandscapeTable prints the ranked projects with compact counts.
func writeLandscapeTable(w io.Writer, result schema.LandscapeResult, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rank", "Project", "Category", "Stars", "Forks", "OpenRank", "Language", "Created"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	nameWidth := getMaxNameWidth(cfg, 95)
	var data [][]string
	for _, p := range result.Projects {
		data = append(data, []string{
			rankLabel(cfg, p.Rank),
			contract.TruncateText(p.RepoName, nameWidth),
			contract.TruncateText(p.Classification, 24),
			schema.FormatCompact(p.Stars),
			schema.FormatCompact(p.Forks),
			fmtFloat(p.OpenRank),
			p.Language,
			schema.FormatCreatedDate(p.CreatedAt),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Showing %d of %d projects across %d categories in %v. Cache backend: %s\n",
		len(result.Projects), result.Total, len(result.Categories), duration, cfg.CacheBackend)
	return err
}

// landscapeSheets exports the projects and the category grouping.
func landscapeSheets(result schema.LandscapeResult) []sheet {
	projects := sheet{name: "Projects", header: landscapeCSVHeader}
	for _, p := range result.Projects {
		projects.rows = append(projects.rows, []any{
			p.Rank, p.ID, p.RepoName, p.Classification, p.Stars, p.Forks,
			p.OpenRank, p.Language, p.CreatedAt, p.Size, strings.Join(p.Tags, "|"),
		})
	}
	categories := sheet{name: "Categories", header: []string{"group", "category"}}
	for _, g := range result.Groups {
		for _, c := range g.Categories {
			categories.rows = append(categories.rows, []any{g.Name, c})
		}
	}
	return []sheet{projects, categories}
}
