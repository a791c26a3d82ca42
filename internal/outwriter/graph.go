package outwriter

import (
	"cmp"
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/huangsam/digger/internal/contract"
	"github.com/huangsam/digger/internal/parquet"
	"github.com/huangsam/digger/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintGraphResults outputs a shaped graph, dispatching based on the output format configured.
func PrintGraphResults(g schema.Graph, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)
	return dispatch(cfg, formatWriters{
		kind: "graph",
		json: g,
		csv: func(w *csv.Writer) error {
			return writeCSVResultsForGraph(w, g, fmtFloat)
		},
		table: func(w io.Writer) error {
			return writeGraphTable(w, g, cfg, fmtFloat, duration)
		},
		parquet: func(path string) error {
			return parquet.WriteGraphParquet(parquet.ConvertGraph(g), path)
		},
		xlsx: graphSheets(g),
	})
}

// writeCSVResultsForGraph writes nodes then edges, told apart by the kind column.
func writeCSVResultsForGraph(w *csv.Writer, g schema.Graph, fmtFloat func(float64) string) error {
	if err := w.Write([]string{"kind", "id", "source", "target", "value", "symbol_size"}); err != nil {
		return err
	}
	for _, n := range g.Nodes {
		if err := w.Write([]string{"node", n.ID, "", "", fmtFloat(n.Value), fmtFloat(n.SymbolSize)}); err != nil {
			return err
		}
	}
	for _, e := range g.Edges {
		if err := w.Write([]string{"edge", "", e.Source, e.Target, fmtFloat(e.Value), ""}); err != nil {
			return err
		}
	}
	return nil
}

// writeGraphTable prints the heaviest nodes with their degree.
func writeGraphTable(w io.Writer, g schema.Graph, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	degree := make(map[string]int, len(g.Nodes))
	for _, e := range g.Edges {
		degree[e.Source]++
		degree[e.Target]++
	}

	nodes := slices.Clone(g.Nodes)
	slices.SortStableFunc(nodes, func(a, b schema.GraphNode) int {
		return cmp.Compare(b.Value, a.Value)
	})
	if cfg.ResultLimit > 0 && len(nodes) > cfg.ResultLimit {
		nodes = nodes[:cfg.ResultLimit]
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rank", "Node", "Value", "Size", "Degree"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	nameWidth := getMaxNameWidth(cfg, 40)
	var data [][]string
	for i, n := range nodes {
		name := contract.TruncateText(n.Name, nameWidth)
		if n.Highlighted {
			name = "* " + name
			if cfg.UseColors {
				name = contract.HighlightColor.Sprint(name)
			}
		}
		data = append(data, []string{
			rankLabel(cfg, i+1),
			name,
			fmtFloat(n.Value),
			fmtFloat(n.SymbolSize),
			fmt.Sprint(degree[n.ID]),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Shaped %d nodes and %d edges in %v. Cache backend: %s\n",
		len(g.Nodes), len(g.Edges), duration, cfg.CacheBackend)
	return err
}

func graphSheets(g schema.Graph) []sheet {
	nodes := sheet{name: "Nodes", header: []string{"id", "name", "value", "symbol_size", "avatar", "url", "highlighted"}}
	for _, n := range g.Nodes {
		nodes.rows = append(nodes.rows, []any{n.ID, n.Name, n.Value, n.SymbolSize, n.Avatar, n.URL, n.Highlighted})
	}
	edges := sheet{name: "Edges", header: []string{"source", "target", "value"}}
	for _, e := range g.Edges {
		edges.rows = append(edges.rows, []any{e.Source, e.Target, e.Value})
	}
	return []sheet{nodes, edges}
}
