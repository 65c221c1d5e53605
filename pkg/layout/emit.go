package layout

import (
	"github.com/sugilayout/sugilayout/pkg/dag"
	"github.com/sugilayout/sugilayout/pkg/dag/transform"
)

// emit is stage 10 (spec.md §4.8): the final stage after Unacyclic
// restores original edge orientation. It re-attaches the self-loops
// Acyclic stripped out before ranking (a self-loop cannot participate in a
// layered drawing, so it never entered the pipeline proper) with a
// degenerate two-point polyline at the node's final position, exactly as
// acyclic.go's SelfLoop doc comment promises.
func emit(g *dag.Graph, selfLoops []transform.SelfLoop) *transform.StageResult {
	for _, sl := range selfLoops {
		n, ok := g.Node(sl.Node)
		if !ok {
			continue
		}
		e := sl.Edge
		pt := dag.Point{X: n.X, Y: n.Y, UL: n.UL, UR: n.UR, DL: n.DL, DR: n.DR}
		e.Points = []dag.Point{pt, pt}
		if _, err := g.AddEdge(sl.Node, sl.Node, e); err != nil {
			panic(err)
		}
	}
	return &transform.StageResult{Stage: "emit", MaxRank: g.MaxRank()}
}
