// Package dag provides the arena-based multigraph that underlies the
// layered layout pipeline.
//
// # Overview
//
// The layout engine mutates a single working graph heavily across ten
// pipeline stages: edges are reversed, dummy nodes are spliced into long
// edges and later collapsed away, nodes are assigned ranks and coordinates.
// Rather than a pointer graph (which makes edge reversal and node deletion
// awkward and invites reference cycles), Graph is an arena of node and edge
// records addressed by stable integer handles ([NodeID], [EdgeID]), with
// adjacency maintained as two parallel id→list maps.
//
// # Basic usage
//
//	g := dag.New()
//	a := g.AddNode(dag.Node{Width: 10, Height: 10})
//	b := g.AddNode(dag.Node{Width: 10, Height: 10})
//	e, _ := g.AddEdge(a, b, dag.Edge{MinLen: 1})
//
// Query structure with [Graph.Successors], [Graph.Predecessors],
// [Graph.OutEdges], [Graph.InEdges]. [Graph.Nodes] and [Graph.Edges] return
// insertion-ordered slices of live handles, which keeps rank assignment and
// spanning-tree construction reproducible across runs.
//
// # Related packages
//
// The transform subpackage implements the ten pipeline stages over a Graph.
// queue.go and components.go in this package implement the "consumed graph
// library" requirements of an ordered priority queue and connected
// components.
package dag

import (
	"errors"
	"math"
)

// NodeID is a stable handle identifying a node in a Graph's arena. IDs are
// never reused within a Graph's lifetime, even after RemoveNode.
type NodeID int64

// EdgeID is a stable handle identifying an edge in a Graph's arena. IDs are
// never reused within a Graph's lifetime, even after RemoveEdge.
type EdgeID int64

// InvalidNodeID is the zero value of NodeID; no node is ever assigned it.
const InvalidNodeID NodeID = 0

// InvalidEdgeID is the zero value of EdgeID; no edge is ever assigned it.
const InvalidEdgeID EdgeID = 0

var (
	// ErrUnknownNode is returned when an operation references a NodeID that
	// does not exist (or was removed) in the graph.
	ErrUnknownNode = errors.New("dag: unknown node")

	// ErrUnknownEdge is returned when an operation references an EdgeID that
	// does not exist (or was removed) in the graph.
	ErrUnknownEdge = errors.New("dag: unknown edge")
)

// PrefRankKind distinguishes the three forms a node's rank constraint can
// take: unconstrained, fixed to an explicit integer class, or pinned to the
// minimum/maximum rank of the whole graph.
type PrefRankKind int

const (
	// PrefRankNone means the node carries no rank constraint.
	PrefRankNone PrefRankKind = iota
	// PrefRankInteger ties the node's rank to every other node sharing the
	// same PrefRank.Value.
	PrefRankInteger
	// PrefRankMin constrains the node's rank to be <= every other node's rank.
	PrefRankMin
	// PrefRankMax constrains the node's rank to be >= every other node's rank.
	PrefRankMax
)

// PrefRank is a node's optional rank constraint: an integer class, or a
// pin to the graph-wide minimum/maximum rank.
type PrefRank struct {
	Kind  PrefRankKind
	Value int // meaningful only when Kind == PrefRankInteger
}

// DummyEdge records the original long edge a dummy node was spliced from,
// so Denormalize can reconstruct it without a live pointer into an edge
// that may already have been deleted from the working graph.
type DummyEdge struct {
	OriginalID EdgeID
	Source     NodeID
	Target     NodeID
	Attrs      map[string]any
}

// Node is the value attached to a node handle. The zero value is a valid,
// unconstrained, zero-sized node.
type Node struct {
	Width, Height float64

	Rank     int
	PrefRank PrefRank

	// Dummy is true for nodes inserted by Normalize; destroyed by Denormalize.
	Dummy bool
	// DummyEdge is populated only when Dummy is true.
	DummyEdge DummyEdge
	// Index marks the first (0) and last (1) dummy of a chain, the two
	// nodes whose coordinates become the edge's polyline endpoints. 2
	// marks the sole dummy of a chain where first and last coincide.
	// -1 means an interior dummy with no polyline contribution.
	Index int

	X, Y           float64
	UL, UR, DL, DR float64

	// Parent is the enclosing cluster, or InvalidNodeID if none.
	Parent NodeID

	Attrs map[string]any
}

// Point is a single control point written during Position/Denormalize.
type Point struct {
	X, Y           float64
	UL, UR, DL, DR float64
}

// Edge is the value attached to an edge handle.
type Edge struct {
	MinLen        int
	Width, Height float64

	Points []Point

	// Reversed is set by Acyclic when the edge was flipped to break a
	// cycle, and cleared by Unacyclic.
	Reversed bool

	// OriginalID carries the input edge identifier across normalization, so
	// source/target identity can be recovered at Emit even though the live
	// edge handle between two endpoints may be a freshly inserted chain
	// segment rather than the original edge.
	OriginalID EdgeID

	Attrs map[string]any
}

type edgeRecord struct {
	Edge
	id  EdgeID
	src NodeID
	dst NodeID
}

type nodeRecord struct {
	Node
	id NodeID
}

// Graph is a directed multigraph whose nodes and edges carry layout state.
// The zero value is not usable; use [New]. Graph is not safe for concurrent
// use - each pipeline invocation owns an independent Graph.
type Graph struct {
	nodes   map[NodeID]*nodeRecord
	edges   map[EdgeID]*edgeRecord
	nodeSeq []NodeID // insertion order of live nodes
	edgeSeq []EdgeID // insertion order of live edges

	out map[NodeID][]EdgeID // node -> outgoing edge ids, insertion order
	in  map[NodeID][]EdgeID // node -> incoming edge ids, insertion order

	nextNode NodeID
	nextEdge EdgeID

	directed bool
}

// New creates an empty Graph. The graph is directed by default; callers
// that loaded undirected input call SetDirected(false) before Build runs.
func New() *Graph {
	return &Graph{
		nodes:    make(map[NodeID]*nodeRecord),
		edges:    make(map[EdgeID]*edgeRecord),
		out:      make(map[NodeID][]EdgeID),
		in:       make(map[NodeID][]EdgeID),
		nextNode: InvalidNodeID + 1,
		nextEdge: InvalidEdgeID + 1,
		directed: true,
	}
}

// Directed reports whether g's input edges are directed (spec.md §4.1,
// §4.8). Build mirrors every edge when this is false; graphio's wire
// formats read and write this bit so it round-trips through JSON/DOT.
func (g *Graph) Directed() bool { return g.directed }

// SetDirected sets whether g's input edges are directed. It has no effect
// on edges already present; call it before Build runs.
func (g *Graph) SetDirected(directed bool) { g.directed = directed }

// AddNode inserts a new node and returns its handle.
func (g *Graph) AddNode(n Node) NodeID {
	id := g.nextNode
	g.nextNode++
	if n.Attrs == nil {
		n.Attrs = map[string]any{}
	}
	g.nodes[id] = &nodeRecord{Node: n, id: id}
	g.nodeSeq = append(g.nodeSeq, id)
	return id
}

// RemoveNode deletes a node and every edge incident to it.
func (g *Graph) RemoveNode(id NodeID) {
	if _, ok := g.nodes[id]; !ok {
		return
	}
	for _, eid := range append([]EdgeID{}, g.out[id]...) {
		g.RemoveEdge(eid)
	}
	for _, eid := range append([]EdgeID{}, g.in[id]...) {
		g.RemoveEdge(eid)
	}
	delete(g.nodes, id)
	delete(g.out, id)
	delete(g.in, id)
	g.nodeSeq = removeID(g.nodeSeq, id)
}

// AddEdge inserts a directed edge from src to dst and returns its handle.
// Multiple edges between the same pair are permitted. Returns ErrUnknownNode
// if either endpoint does not exist.
func (g *Graph) AddEdge(src, dst NodeID, e Edge) (EdgeID, error) {
	if _, ok := g.nodes[src]; !ok {
		return InvalidEdgeID, ErrUnknownNode
	}
	if _, ok := g.nodes[dst]; !ok {
		return InvalidEdgeID, ErrUnknownNode
	}
	if e.MinLen == 0 {
		e.MinLen = 1
	}
	if e.Attrs == nil {
		e.Attrs = map[string]any{}
	}
	id := g.nextEdge
	g.nextEdge++
	g.edges[id] = &edgeRecord{Edge: e, id: id, src: src, dst: dst}
	g.edgeSeq = append(g.edgeSeq, id)
	g.out[src] = append(g.out[src], id)
	g.in[dst] = append(g.in[dst], id)
	return id, nil
}

// RemoveEdge deletes an edge. No error if it does not exist.
func (g *Graph) RemoveEdge(id EdgeID) {
	rec, ok := g.edges[id]
	if !ok {
		return
	}
	delete(g.edges, id)
	g.out[rec.src] = removeID(g.out[rec.src], id)
	g.in[rec.dst] = removeID(g.in[rec.dst], id)
	g.edgeSeq = removeID(g.edgeSeq, id)
}

// ReverseEdge flips an edge's source and target in place, preserving its
// EdgeID. This is how Acyclic/Unacyclic flip orientation in constant time
// without reallocating the edge record.
func (g *Graph) ReverseEdge(id EdgeID) error {
	rec, ok := g.edges[id]
	if !ok {
		return ErrUnknownEdge
	}
	g.out[rec.src] = removeID(g.out[rec.src], id)
	g.in[rec.dst] = removeID(g.in[rec.dst], id)
	rec.src, rec.dst = rec.dst, rec.src
	g.out[rec.src] = append(g.out[rec.src], id)
	g.in[rec.dst] = append(g.in[rec.dst], id)
	return nil
}

// Node returns a copy of the node value and true, or the zero value and
// false if id does not exist.
func (g *Graph) Node(id NodeID) (Node, bool) {
	rec, ok := g.nodes[id]
	if !ok {
		return Node{}, false
	}
	return rec.Node, true
}

// SetNode overwrites a node's value.
func (g *Graph) SetNode(id NodeID, n Node) error {
	rec, ok := g.nodes[id]
	if !ok {
		return ErrUnknownNode
	}
	rec.Node = n
	return nil
}

// Edge returns a copy of the edge value and true, or the zero value and
// false if id does not exist.
func (g *Graph) Edge(id EdgeID) (Edge, bool) {
	rec, ok := g.edges[id]
	if !ok {
		return Edge{}, false
	}
	return rec.Edge, true
}

// SetEdge overwrites an edge's value.
func (g *Graph) SetEdge(id EdgeID, e Edge) error {
	rec, ok := g.edges[id]
	if !ok {
		return ErrUnknownEdge
	}
	rec.Edge = e
	return nil
}

// Endpoints returns the source and target of an edge.
func (g *Graph) Endpoints(id EdgeID) (src, dst NodeID, ok bool) {
	rec, found := g.edges[id]
	if !found {
		return InvalidNodeID, InvalidNodeID, false
	}
	return rec.src, rec.dst, true
}

// Nodes returns all live node handles in insertion order.
func (g *Graph) Nodes() []NodeID { return append([]NodeID(nil), g.nodeSeq...) }

// Edges returns all live edge handles in insertion order.
func (g *Graph) Edges() []EdgeID { return append([]EdgeID(nil), g.edgeSeq...) }

// NodeCount returns the number of live nodes.
func (g *Graph) NodeCount() int { return len(g.nodeSeq) }

// EdgeCount returns the number of live edges.
func (g *Graph) EdgeCount() int { return len(g.edgeSeq) }

// OutEdges returns the outgoing edge handles of a node in insertion order.
func (g *Graph) OutEdges(id NodeID) []EdgeID { return append([]EdgeID(nil), g.out[id]...) }

// InEdges returns the incoming edge handles of a node in insertion order.
func (g *Graph) InEdges(id NodeID) []EdgeID { return append([]EdgeID(nil), g.in[id]...) }

// OutDegree returns the number of outgoing edges of a node.
func (g *Graph) OutDegree(id NodeID) int { return len(g.out[id]) }

// InDegree returns the number of incoming edges of a node.
func (g *Graph) InDegree(id NodeID) int { return len(g.in[id]) }

// Successors returns the target node of every outgoing edge, in edge
// insertion order. A node with two parallel edges to the same target
// appears twice.
func (g *Graph) Successors(id NodeID) []NodeID {
	edges := g.out[id]
	out := make([]NodeID, len(edges))
	for i, eid := range edges {
		out[i] = g.edges[eid].dst
	}
	return out
}

// Predecessors returns the source node of every incoming edge, in edge
// insertion order.
func (g *Graph) Predecessors(id NodeID) []NodeID {
	edges := g.in[id]
	out := make([]NodeID, len(edges))
	for i, eid := range edges {
		out[i] = g.edges[eid].src
	}
	return out
}

// Sources returns nodes with no incoming edges.
func (g *Graph) Sources() []NodeID {
	var out []NodeID
	for _, id := range g.nodeSeq {
		if len(g.in[id]) == 0 {
			out = append(out, id)
		}
	}
	return out
}

// Sinks returns nodes with no outgoing edges.
func (g *Graph) Sinks() []NodeID {
	var out []NodeID
	for _, id := range g.nodeSeq {
		if len(g.out[id]) == 0 {
			out = append(out, id)
		}
	}
	return out
}

// MinRank returns the minimum rank across all live nodes, or 0 if empty.
func (g *Graph) MinRank() int {
	minRank := math.MaxInt
	for _, id := range g.nodeSeq {
		if r := g.nodes[id].Rank; r < minRank {
			minRank = r
		}
	}
	if minRank == math.MaxInt {
		return 0
	}
	return minRank
}

// MaxRank returns the maximum rank across all live nodes, or 0 if empty.
func (g *Graph) MaxRank() int {
	maxRank := math.MinInt
	for _, id := range g.nodeSeq {
		if r := g.nodes[id].Rank; r > maxRank {
			maxRank = r
		}
	}
	if maxRank == math.MinInt {
		return 0
	}
	return maxRank
}

func removeID[T comparable](s []T, v T) []T {
	for i, x := range s {
		if x == v {
			return append(s[:i], s[i+1:]...)
		}
	}
	return s
}
