// Package graphio provides JSON and DOT import/export for the graph shapes
// spec.md §6 names as Input and Output: a graph of nodes/edges going in, a
// positioned graph (coordinates, polylines) coming out.
//
// Grounded on the teacher's pkg/graph/graph.go and types.go
// (MarshalGraph/ReadGraphFile/WriteGraphFile, the Graph/Node/Edge wire
// types, FromDAG/ToDAG conversion) for JSON, generalized from the
// teacher's string-ID dependency-graph shape (Row, Kind, Brittle,
// MasterID) to this engine's arena-handle dag.Graph (Width/Height,
// PrefRank, Points); and on pkg/render/nodelink/dot.go's DOT-text-building
// idiom for DOT.
package graphio

// Graph is the wire format for both an input graph and a positioned
// output graph: Nodes/Edges omit X/Y/Points on import and carry them on
// export once an Engine has run.
type Graph struct {
	Directed bool   `json:"directed"`
	Nodes    []Node `json:"nodes"`
	Edges    []Edge `json:"edges"`
}

// Node is the wire representation of a dag.Node. RankPin/RankClass encode
// dag.PrefRank: RankPin is "min" or "max" for a graph-wide pin, RankClass
// is a pointer so an explicit 0 class is distinguishable from "unset".
type Node struct {
	ID        string         `json:"id"`
	Width     float64        `json:"width,omitempty"`
	Height    float64        `json:"height,omitempty"`
	RankPin   string         `json:"rank_pin,omitempty"`
	RankClass *int           `json:"rank_class,omitempty"`
	Attrs     map[string]any `json:"attrs,omitempty"`

	// Set only on export, once a layout.Engine has run.
	X *float64 `json:"x,omitempty"`
	Y *float64 `json:"y,omitempty"`
}

// Edge is the wire representation of a dag.Edge.
type Edge struct {
	Source string         `json:"source"`
	Target string         `json:"target"`
	MinLen int            `json:"min_len,omitempty"`
	Width  float64        `json:"width,omitempty"`
	Height float64        `json:"height,omitempty"`
	Attrs  map[string]any `json:"attrs,omitempty"`

	// Set only on export: the dummy-chain-derived polyline points.
	Points []Point `json:"points,omitempty"`
}

// Point mirrors dag.Point for the wire format.
type Point struct {
	X, Y           float64
	UL, UR, DL, DR float64
}
