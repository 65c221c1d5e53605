package transform

import "github.com/sugilayout/sugilayout/pkg/dag"

// Unacyclic reverts every edge Acyclic flipped back to its original
// orientation and clears the Reversed flag (spec.md §4.7). It is the
// structural inverse of Acyclic, applied after Fixup has already reversed
// each such edge's polyline.
func Unacyclic(g *dag.Graph) *StageResult {
	restored := 0
	for _, eid := range g.Edges() {
		e, _ := g.Edge(eid)
		if !e.Reversed {
			continue
		}
		_ = g.ReverseEdge(eid)
		e.Reversed = false
		_ = g.SetEdge(eid, e)
		restored++
	}
	return &StageResult{Stage: "unacyclic", EdgesReversed: restored}
}
