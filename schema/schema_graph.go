package schema

// RawNode is an (id, weight) pair from a graph dataset.
type RawNode struct {
	ID     string  `json:"id"`
	Weight float64 `json:"weight"`
}

// RawEdge is a (source, target, weight) triple from a graph dataset.
type RawEdge struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Weight float64 `json:"weight"`
}

// RawGraph is a graph dataset before shaping.
type RawGraph struct {
	Nodes []RawNode `json:"nodes"`
	Edges []RawEdge `json:"edges"`
}

// GraphNode is a display-ready graph node.
type GraphNode struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Value       float64 `json:"value"`
	SymbolSize  float64 `json:"symbol_size"`
	Avatar      string  `json:"avatar"`
	URL         string  `json:"url"`
	Highlighted bool    `json:"highlighted,omitempty"`
}

// GraphEdge is a display-ready graph edge.
type GraphEdge struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Value  float64 `json:"value"`
}

// Graph is the shaped form of a RawGraph.
type Graph struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

// SizeRange bounds the symbol size of graph nodes.
type SizeRange [2]float64

// DefaultNodeSize is the symbol size range used when none is configured.
var DefaultNodeSize = SizeRange{15, 100}
