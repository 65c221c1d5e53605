package transform

import "github.com/sugilayout/sugilayout/pkg/dag"

// SelfLoop records an edge from a node to itself that Acyclic removed from
// the working set, since self-loops cannot participate in a layered
// drawing. Engine re-attaches these verbatim at Emit.
type SelfLoop struct {
	Node dag.NodeID
	Edge dag.Edge
}

// Acyclic mutates g so it is a DAG by reversing a feedback edge set
// (spec.md §4.2). It removes self-loops first (returned separately for
// re-attachment at Emit) and then reverses every edge running backward
// relative to a linear vertex ordering computed by the Eades-Lin-Smyth
// greedy heuristic. Reversed edges have their Reversed flag set so
// Unacyclic can restore orientation later.
//
// Grounded on the teacher's BreakCycles (pkg/dag/transform/cycles.go):
// same white/gray/black DFS shape is not used here directly, because
// spec.md §4.2 calls for reversing a feedback set rather than deleting it
// and specifically names Eades-Lin-Smyth as the heuristic of choice. The
// contract, per spec.md, is correctness (no cycles remain), not an optimal
// (minimum) feedback set.
func Acyclic(g *dag.Graph) ([]SelfLoop, *StageResult) {
	var loops []SelfLoop
	seenLoops := map[dag.EdgeID]bool{}
	for _, eid := range g.Edges() {
		src, dst, _ := g.Endpoints(eid)
		if src != dst {
			continue
		}
		e, _ := g.Edge(eid)
		key := e.OriginalID
		if key == dag.InvalidEdgeID {
			key = eid
		}
		if !seenLoops[key] {
			loops = append(loops, SelfLoop{Node: src, Edge: e})
			seenLoops[key] = true
		}
		g.RemoveEdge(eid)
	}

	order := eadesLinSmyth(g)
	pos := make(map[dag.NodeID]int, len(order))
	for i, id := range order {
		pos[id] = i
	}

	reversed := 0
	for _, eid := range g.Edges() {
		src, dst, _ := g.Endpoints(eid)
		if pos[src] > pos[dst] {
			_ = g.ReverseEdge(eid)
			e, _ := g.Edge(eid)
			e.Reversed = true
			_ = g.SetEdge(eid, e)
			reversed++
		}
	}

	deduped := dedupMirrors(g)

	return loops, &StageResult{Stage: "acyclic", EdgesReversed: reversed, EdgesDeduped: deduped}
}

// dedupMirrors removes the redundant reverse copy Build added for
// undirected input (spec.md §4.1, §4.8), now that the reversal loop above
// has oriented both halves of the pair the same way. Every edge Build
// stamps gets OriginalID set to its own handle except the mirror it adds
// for undirected input, whose OriginalID instead names the edge it
// mirrors - so any edge whose OriginalID points at a still-present,
// different edge is that mirror, now a literal duplicate once both run
// the same direction.
func dedupMirrors(g *dag.Graph) int {
	removed := 0
	for _, eid := range g.Edges() {
		e, _ := g.Edge(eid)
		if e.OriginalID == eid || e.OriginalID == dag.InvalidEdgeID {
			continue
		}
		if _, ok := g.Edge(e.OriginalID); ok {
			g.RemoveEdge(eid)
			removed++
		}
	}
	return removed
}

// eadesLinSmyth computes a linear vertex ordering whose backward edges form
// a small feedback set: repeatedly strip sinks to a right-growing sequence
// and sources to a left-growing sequence, and when neither exists, strip the
// node maximizing out-degree minus in-degree into the left sequence.
func eadesLinSmyth(g *dag.Graph) []dag.NodeID {
	nodes := g.Nodes()

	succs := make(map[dag.NodeID][]dag.NodeID, len(nodes))
	preds := make(map[dag.NodeID][]dag.NodeID, len(nodes))
	remaining := make(map[dag.NodeID]bool, len(nodes))
	for _, id := range nodes {
		succs[id] = g.Successors(id)
		preds[id] = g.Predecessors(id)
		remaining[id] = true
	}
	outDeg := make(map[dag.NodeID]int, len(nodes))
	inDeg := make(map[dag.NodeID]int, len(nodes))
	for _, id := range nodes {
		outDeg[id] = len(succs[id])
		inDeg[id] = len(preds[id])
	}

	remove := func(id dag.NodeID) {
		delete(remaining, id)
		for _, s := range succs[id] {
			if remaining[s] {
				inDeg[s]--
			}
		}
		for _, p := range preds[id] {
			if remaining[p] {
				outDeg[p]--
			}
		}
	}

	var left, right []dag.NodeID
	for len(remaining) > 0 {
		progressed := true
		for progressed {
			progressed = false
			for _, id := range nodes {
				if remaining[id] && outDeg[id] == 0 {
					right = append([]dag.NodeID{id}, right...)
					remove(id)
					progressed = true
				}
			}
			for _, id := range nodes {
				if remaining[id] && inDeg[id] == 0 {
					left = append(left, id)
					remove(id)
					progressed = true
				}
			}
		}
		if len(remaining) == 0 {
			break
		}
		var best dag.NodeID
		bestScore := -1 << 62
		for _, id := range nodes {
			if !remaining[id] {
				continue
			}
			if score := outDeg[id] - inDeg[id]; score > bestScore {
				best, bestScore = id, score
			}
		}
		left = append(left, best)
		remove(best)
	}

	return append(left, right...)
}
