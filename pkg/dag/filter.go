package dag

// NodeFilter reports whether a node should be included in a filtered view.
type NodeFilter func(id NodeID, n Node) bool

// FilterNodes returns the handles of every live node satisfying pred, in
// Nodes() order. This is the "filter-by-predicate view" required of the
// consumed graph library (spec.md §6) generalized from the teacher's
// fixed Sources/Sinks accessors to an arbitrary predicate.
func (g *Graph) FilterNodes(pred NodeFilter) []NodeID {
	var out []NodeID
	for _, id := range g.nodeSeq {
		if pred(id, g.nodes[id].Node) {
			out = append(out, id)
		}
	}
	return out
}

// EdgeFilter reports whether an edge should be included in a filtered view.
type EdgeFilter func(id EdgeID, e Edge) bool

// FilterEdges returns the handles of every live edge satisfying pred, in
// Edges() order.
func (g *Graph) FilterEdges(pred EdgeFilter) []EdgeID {
	var out []EdgeID
	for _, id := range g.edgeSeq {
		if pred(id, g.edges[id].Edge) {
			out = append(out, id)
		}
	}
	return out
}
