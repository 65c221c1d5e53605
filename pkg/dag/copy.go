package dag

// Copy returns a structural deep copy of the graph: every node and edge
// handle is preserved verbatim (same NodeID/EdgeID values, same insertion
// order), so callers can round-trip a Graph through Copy and compare
// against the original. Used by the Rank stage to snapshot W before
// rank-constraint reduction.
func (g *Graph) Copy() *Graph {
	out := &Graph{
		nodes:    make(map[NodeID]*nodeRecord, len(g.nodes)),
		edges:    make(map[EdgeID]*edgeRecord, len(g.edges)),
		nodeSeq:  append([]NodeID(nil), g.nodeSeq...),
		edgeSeq:  append([]EdgeID(nil), g.edgeSeq...),
		out:      make(map[NodeID][]EdgeID, len(g.out)),
		in:       make(map[NodeID][]EdgeID, len(g.in)),
		nextNode: g.nextNode,
		nextEdge: g.nextEdge,
		directed: g.directed,
	}
	for id, rec := range g.nodes {
		n := rec.Node
		n.Attrs = cloneAttrs(rec.Node.Attrs)
		n.DummyEdge.Attrs = cloneAttrs(rec.Node.DummyEdge.Attrs)
		out.nodes[id] = &nodeRecord{Node: n, id: id}
	}
	for id, rec := range g.edges {
		e := rec.Edge
		e.Attrs = cloneAttrs(rec.Edge.Attrs)
		e.Points = append([]Point(nil), rec.Edge.Points...)
		out.edges[id] = &edgeRecord{Edge: e, id: id, src: rec.src, dst: rec.dst}
	}
	for id, edges := range g.out {
		out.out[id] = append([]EdgeID(nil), edges...)
	}
	for id, edges := range g.in {
		out.in[id] = append([]EdgeID(nil), edges...)
	}
	return out
}

func cloneAttrs(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// StripRanks resets every node's Rank to 0, used to feed a positioned
// output graph back through the pipeline for the idempotence property.
func (g *Graph) StripRanks() {
	for _, rec := range g.nodes {
		rec.Rank = 0
	}
}
