package transform

import "github.com/sugilayout/sugilayout/pkg/dag"

// Fixup reverses the Points array of every edge whose Reversed flag is set
// (spec.md §4.6). During layout such an edge was oriented target->source
// internally, so its dummy-chain coordinates were written in that order;
// Fixup restores source-to-target order before Unacyclic flips the edge
// itself back.
func Fixup(g *dag.Graph) *StageResult {
	fixed := 0
	for _, eid := range g.Edges() {
		e, _ := g.Edge(eid)
		if !e.Reversed || len(e.Points) < 2 {
			continue
		}
		for i, j := 0, len(e.Points)-1; i < j; i, j = i+1, j-1 {
			e.Points[i], e.Points[j] = e.Points[j], e.Points[i]
		}
		_ = g.SetEdge(eid, e)
		fixed++
	}
	return &StageResult{Stage: "fixup", EdgesReversed: fixed}
}
