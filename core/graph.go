package core

import (
	"errors"
	"fmt"
	"math"

	"github.com/huangsam/digger/schema"
)

const (
	avatarBaseURL = "https://avatars.githubusercontent.com/"
	githubBaseURL = "https://github.com/"
)

// ErrNotGraph is returned when a dataset has no nodes array.
var ErrNotGraph = errors.New("dataset is not a graph")

// LinearMap maps val from domain onto rng, clamping to the range ends.
// A degenerate domain maps to the midpoint of rng.
func LinearMap(val float64, domain, rng [2]float64) float64 {
	d0, d1 := domain[0], domain[1]
	r0, r1 := rng[0], rng[1]
	subDomain := d1 - d0
	subRange := r1 - r0

	if subDomain == 0 {
		if subRange == 0 {
			return r0
		}
		return (r0 + r1) / 2
	}
	if subDomain > 0 {
		if val <= d0 {
			return r0
		}
		if val >= d1 {
			return r1
		}
	} else {
		if val >= d0 {
			return r0
		}
		if val <= d1 {
			return r1
		}
	}
	return (val-d0)/subDomain*subRange + r0
}

// ShapeGraph turns a raw dataset into display-ready nodes and edges.
// Node sizes scale linearly between the smallest and largest weight.
// Edges without a positive weight are dropped.
func ShapeGraph(raw schema.RawGraph, size schema.SizeRange) schema.Graph {
	domain := weightDomain(raw.Nodes)
	nodes := make([]schema.GraphNode, 0, len(raw.Nodes))
	for _, n := range raw.Nodes {
		nodes = append(nodes, schema.GraphNode{
			ID:         n.ID,
			Name:       schema.RepoNameOf(n.ID),
			Value:      n.Weight,
			SymbolSize: LinearMap(n.Weight, domain, size),
			Avatar:     avatarBaseURL + schema.OwnerOf(n.ID),
			URL:        githubBaseURL + n.ID,
		})
	}

	edges := make([]schema.GraphEdge, 0, len(raw.Edges))
	for _, e := range raw.Edges {
		if !(e.Weight > 0) {
			continue
		}
		edges = append(edges, schema.GraphEdge{Source: e.Source, Target: e.Target, Value: e.Weight})
	}
	return schema.Graph{Nodes: nodes, Edges: edges}
}

func weightDomain(nodes []schema.RawNode) [2]float64 {
	if len(nodes) == 0 {
		return [2]float64{}
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, n := range nodes {
		lo = math.Min(lo, n.Weight)
		hi = math.Max(hi, n.Weight)
	}
	return [2]float64{lo, hi}
}

// Highlight flags the nodes whose id is in ids and returns how many matched.
func Highlight(g *schema.Graph, ids []string) int {
	if len(ids) == 0 {
		return 0
	}
	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	matched := 0
	for i := range g.Nodes {
		if _, ok := wanted[g.Nodes[i].ID]; ok {
			g.Nodes[i].Highlighted = true
			matched++
		}
	}
	return matched
}

// ParseRawGraph reads a decoded JSON dataset of the form
// {"nodes": [[id, weight], ...], "edges": [[source, target, weight], ...]}.
// Malformed tuples are skipped and non-numeric weights become 0.
func ParseRawGraph(v any) (schema.RawGraph, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return schema.RawGraph{}, fmt.Errorf("%w: expected object, got %T", ErrNotGraph, v)
	}
	rawNodes, ok := obj["nodes"].([]any)
	if !ok {
		return schema.RawGraph{}, fmt.Errorf("%w: missing nodes array", ErrNotGraph)
	}

	var g schema.RawGraph
	g.Nodes = make([]schema.RawNode, 0, len(rawNodes))
	for _, item := range rawNodes {
		tuple, ok := item.([]any)
		if !ok || len(tuple) < 2 {
			continue
		}
		id, ok := tuple[0].(string)
		if !ok || id == "" {
			continue
		}
		g.Nodes = append(g.Nodes, schema.RawNode{ID: id, Weight: CoerceNumber(tuple[1])})
	}

	rawEdges, _ := obj["edges"].([]any)
	g.Edges = make([]schema.RawEdge, 0, len(rawEdges))
	for _, item := range rawEdges {
		tuple, ok := item.([]any)
		if !ok || len(tuple) < 3 {
			continue
		}
		source, okS := tuple[0].(string)
		target, okT := tuple[1].(string)
		if !okS || !okT {
			continue
		}
		g.Edges = append(g.Edges, schema.RawEdge{Source: source, Target: target, Weight: CoerceNumber(tuple[2])})
	}
	return g, nil
}
