package dag

import "slices"

// CrossingWorkspace provides reusable buffers for crossing calculations to
// avoid repeated allocations. Create with [NewCrossingWorkspace] and reuse
// it across calls to [CountCrossingsIdx] when the order stage evaluates
// many candidate orderings during its sweep.
//
// The workspace is not safe for concurrent use.
type CrossingWorkspace struct {
	ft  []int
	pos []int
}

// NewCrossingWorkspace creates a workspace sized for ranks no wider than
// maxWidth nodes.
func NewCrossingWorkspace(maxWidth int) *CrossingWorkspace {
	return &CrossingWorkspace{
		ft:  make([]int, maxWidth+2),
		pos: make([]int, maxWidth+2),
	}
}

// CountCrossings returns the total crossings across every pair of adjacent
// ranks, given the current within-rank ordering. orders maps rank index to
// node handles in left-to-right order.
func (g *Graph) CountCrossings(orders map[int][]NodeID) int {
	ranks := make([]int, 0, len(orders))
	for r := range orders {
		ranks = append(ranks, r)
	}
	slices.Sort(ranks)

	total := 0
	for i := 0; i < len(ranks)-1; i++ {
		total += g.CountRankCrossings(orders[ranks[i]], orders[ranks[i+1]])
	}
	return total
}

// CountRankCrossings counts edge crossings between two adjacent ranks using
// a Fenwick tree (binary indexed tree) for O(E log V) performance, where E
// is the number of edges between the ranks and V is len(lower).
//
// Two edges (u1,v1) and (u2,v2) cross iff pos(u1) < pos(u2) and
// pos(v1) > pos(v2) - equivalently, counting inversions in the sequence of
// target positions when edges are sorted by source position.
func (g *Graph) CountRankCrossings(upper, lower []NodeID) int {
	if len(upper) == 0 || len(lower) == 0 {
		return 0
	}

	lowerPos := make(map[NodeID]int, len(lower))
	for i, id := range lower {
		lowerPos[id] = i
	}

	type edge struct{ upper, lower int }
	var edges []edge
	for i, id := range upper {
		for _, child := range g.Successors(id) {
			if pos, ok := lowerPos[child]; ok {
				edges = append(edges, edge{i, pos})
			}
		}
	}
	if len(edges) < 2 {
		return 0
	}

	slices.SortFunc(edges, func(a, b edge) int {
		if a.upper != b.upper {
			return a.upper - b.upper
		}
		return a.lower - b.lower
	})

	fenwick := make([]int, len(lower)+1)
	crossings, total := 0, 0
	for _, e := range edges {
		lessOrEqual := 0
		for q := e.lower + 1; q > 0; q -= q & (-q) {
			lessOrEqual += fenwick[q]
		}
		crossings += total - lessOrEqual

		total++
		for idx := e.lower + 1; idx < len(fenwick); idx += idx & (-idx) {
			fenwick[idx]++
		}
	}
	return crossings
}

// CountCrossingsIdx counts crossings using index-based edges and
// permutations, avoiding handle lookups, for use in hot optimization loops.
// edges[i] holds the lower-rank indices of every child of upper-rank node i.
// ws must be sized with maxWidth >= len(lowerPerm).
func CountCrossingsIdx(edges [][]int, upperPerm, lowerPerm []int, ws *CrossingWorkspace) int {
	if len(upperPerm) == 0 || len(lowerPerm) == 0 {
		return 0
	}

	for pos, origIdx := range lowerPerm {
		ws.pos[origIdx] = pos
	}

	limit := len(lowerPerm) + 1
	for i := 0; i < limit; i++ {
		ws.ft[i] = 0
	}

	crossings, total := 0, 0
	for _, upperIdx := range upperPerm {
		targets := edges[upperIdx]
		for _, targetIdx := range targets {
			targetPos := ws.pos[targetIdx]
			lessOrEqual := 0
			for q := targetPos + 1; q > 0; q -= q & (-q) {
				lessOrEqual += ws.ft[q]
			}
			crossings += total - lessOrEqual
		}
		for _, targetIdx := range targets {
			targetPos := ws.pos[targetIdx]
			total++
			for idx := targetPos + 1; idx < limit; idx += idx & (-idx) {
				ws.ft[idx]++
			}
		}
	}
	return crossings
}
