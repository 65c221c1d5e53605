package transform

import "github.com/sugilayout/sugilayout/pkg/dag"

// Build finalizes a freshly loaded graph into the working graph W expected
// by the rest of the pipeline (spec.md §4.1). The caller (typically
// pkg/graphio) has already populated g with nodes and edges; Build:
//
//   - stamps every edge's OriginalID with its own handle, so later stages
//     can always recover "the edge this came from" even after normalization
//     replaces it with a dummy chain;
//   - if directed is false, adds the mirror of every edge so traversal
//     works in both directions (Acyclic's cycle-breaking pass orients both
//     halves of the pair the same way, then its dedupMirrors pass removes
//     the now-redundant reverse copy);
//   - doubles every edge's MinLen, reserving vertical space for edge
//     labels. The caller is responsible for halving RankSep in the same
//     scope and restoring both on every exit path (pkg/layout.Engine.Run).
//
// Grounded on the teacher's dag.New/AddNode/AddEdge construction idiom
// (pkg/dag/dag.go), generalized from "build a fresh DAG" to "finalize an
// already-built one in place", since Build here only needs to add the
// bookkeeping the rest of the pipeline depends on.
func Build(g *dag.Graph, directed bool) *StageResult {
	for _, eid := range g.Edges() {
		e, _ := g.Edge(eid)
		e.OriginalID = eid
		e.Points = nil
		_ = g.SetEdge(eid, e)
	}

	if !directed {
		for _, eid := range g.Edges() {
			e, _ := g.Edge(eid)
			src, dst, _ := g.Endpoints(eid)
			mirror, _ := g.AddEdge(dst, src, dag.Edge{
				MinLen:     e.MinLen,
				Width:      e.Width,
				Height:     e.Height,
				OriginalID: eid,
				Attrs:      e.Attrs,
			})
			_ = mirror
		}
	}

	for _, eid := range g.Edges() {
		e, _ := g.Edge(eid)
		e.MinLen *= 2
		_ = g.SetEdge(eid, e)
	}

	return &StageResult{Stage: "build"}
}
