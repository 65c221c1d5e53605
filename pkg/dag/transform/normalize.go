package transform

import "github.com/sugilayout/sugilayout/pkg/dag"

// IndexNone marks an interior dummy that does not contribute a polyline
// point. IndexFirst/IndexLast mark the chain's endpoints; IndexSole marks
// the single dummy of a one-dummy chain, which is simultaneously first and
// last.
const (
	IndexNone  = -1
	IndexFirst = 0
	IndexLast  = 1
	IndexSole  = 2
)

// Normalize inserts dummy nodes so every edge spans exactly one rank
// (spec.md §4.4). For an edge (s,t) with rank(t)-rank(s) = span > 1, it
// inserts span-1 dummy nodes at the intervening ranks and replaces (s,t)
// with a chain s -> d1 -> ... -> d(span-1) -> t, then deletes the original
// edge. Dummy width/height copy the edge's label dimensions, so the chain
// carves out the space the label needs.
//
// Per §4.4, interior dummies exist only to reserve space: only the first
// and last dummy of a chain are tagged with an Index (IndexFirst/IndexLast,
// or IndexSole when the chain has exactly one dummy) and contribute a point
// to the edge's polyline; Denormalize skips interior dummies entirely.
//
// Grounded on the teacher's Subdivide/addSubdivider/idGen
// (pkg/dag/transform/subdivide.go): same "walk the edge, splice in a chain
// of synthetic nodes, track provenance back to the origin" shape,
// generalized from the teacher's string-ID idGen and row-based spans to
// the spec's exact one-rank-per-edge invariant and {source,target,attrs}
// carrying dummy nodes.
func Normalize(g *dag.Graph) *StageResult {
	added := 0
	for _, eid := range g.Edges() {
		e, _ := g.Edge(eid)
		src, dst, _ := g.Endpoints(eid)
		sn, _ := g.Node(src)
		dn, _ := g.Node(dst)

		span := dn.Rank - sn.Rank
		if span <= 1 {
			continue
		}
		k := span - 1

		dummyEdge := dag.DummyEdge{
			OriginalID: e.OriginalID,
			Source:     src,
			Target:     dst,
			Attrs:      e.Attrs,
		}

		prev := src
		for i := 1; i <= k; i++ {
			idx := IndexNone
			switch {
			case k == 1:
				idx = IndexSole
			case i == 1:
				idx = IndexFirst
			case i == k:
				idx = IndexLast
			}

			d := g.AddNode(dag.Node{
				Width:     e.Width,
				Height:    e.Height,
				Rank:      sn.Rank + i,
				Dummy:     true,
				DummyEdge: dummyEdge,
				Index:     idx,
			})
			if _, err := g.AddEdge(prev, d, dag.Edge{MinLen: 1}); err != nil {
				panic(err)
			}
			prev = d
			added++
		}
		if _, err := g.AddEdge(prev, dst, dag.Edge{MinLen: 1}); err != nil {
			panic(err)
		}
		g.RemoveEdge(eid)
	}

	return &StageResult{Stage: "normalize", DummiesAdded: added, MaxRank: g.MaxRank()}
}
