package transform

import "github.com/sugilayout/sugilayout/pkg/dag"

// Denormalize collapses dummy chains back into polyline edges (spec.md
// §4.5), the structural inverse of Normalize. For every dummy node carrying
// an Index marker, it recreates the original edge (by OriginalID) if it
// does not already exist in the graph, then writes a Point into
// Points[0]/Points[1] according to the marker (IndexSole writes both).
// Every dummy node, marked or interior, is then deleted; deleting a dummy
// also removes its incident chain edges, since a dummy's only edges are
// the two links of its chain.
//
// After this stage runs, no node has Dummy = true and every normalized
// edge's Points is ordered source to target (reversed edges are corrected
// by the later Fixup stage, since during layout they ran target-to-source).
func Denormalize(g *dag.Graph) *StageResult {
	for _, id := range g.Nodes() {
		n, _ := g.Node(id)
		if !n.Dummy || n.Index == IndexNone {
			continue
		}
		de := n.DummyEdge

		eid, ok := findOriginalEdge(g, de.Source, de.Target, de.OriginalID)
		if !ok {
			eid, _ = g.AddEdge(de.Source, de.Target, dag.Edge{
				MinLen:     1,
				OriginalID: de.OriginalID,
				Attrs:      de.Attrs,
			})
		}
		e, _ := g.Edge(eid)
		if len(e.Points) < 2 {
			e.Points = make([]dag.Point, 2)
		}
		pt := dag.Point{X: n.X, Y: n.Y, UL: n.UL, UR: n.UR, DL: n.DL, DR: n.DR}
		switch n.Index {
		case IndexFirst:
			e.Points[0] = pt
		case IndexLast:
			e.Points[1] = pt
		case IndexSole:
			e.Points[0] = pt
			e.Points[1] = pt
		}
		_ = g.SetEdge(eid, e)
	}

	removed := 0
	for _, id := range g.Nodes() {
		n, _ := g.Node(id)
		if n.Dummy {
			g.RemoveNode(id)
			removed++
		}
	}

	return &StageResult{Stage: "denormalize", DummiesRemoved: removed}
}

func findOriginalEdge(g *dag.Graph, src, dst dag.NodeID, original dag.EdgeID) (dag.EdgeID, bool) {
	for _, eid := range g.OutEdges(src) {
		e, _ := g.Edge(eid)
		if e.OriginalID != original {
			continue
		}
		_, d, _ := g.Endpoints(eid)
		if d == dst {
			return eid, true
		}
	}
	return dag.InvalidEdgeID, false
}
