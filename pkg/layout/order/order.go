// Package order implements the Order stage as a swappable external
// collaborator (spec.md §6): it assigns a left-to-right sequence to the
// nodes within each rank, attempting to minimize the number of edge
// crossings between adjacent ranks, without touching rank assignment or
// coordinates.
//
// Grounded on the teacher's pkg/render/tower/ordering.Orderer interface
// shape (OrderRows(g) map[int][]string) and pkg/core/render/tower/ordering's
// iterate-until-no-improvement sweep loop, generalized from tower rows to
// layout ranks and from string node IDs to dag.NodeID, and paired with
// dag.CountRankCrossings (the Fenwick-tree counter pkg/dag/crossings.go
// exposes) instead of the teacher's ad hoc row-pair counters.
package order

import "github.com/sugilayout/sugilayout/pkg/dag"

// Options configures an Orderer's sweep. MaxSweeps bounds the number of
// down+up passes attempted before giving up on further improvement;
// zero means the Orderer picks its own default.
type Options struct {
	MaxSweeps int
}

// Orderer computes a left-to-right sequence for the nodes within each
// rank of g, returning the resulting rank->order mapping for Position to
// consume. It never changes a node's Rank or writes to the graph itself -
// sequencing lives entirely in the returned map.
type Orderer interface {
	Order(g *dag.Graph, opts Options) (map[int][]dag.NodeID, error)
}

const defaultMaxSweeps = 24

func ranksOf(g *dag.Graph) map[int][]dag.NodeID {
	ranks := make(map[int][]dag.NodeID)
	for _, id := range g.Nodes() {
		n, _ := g.Node(id)
		ranks[n.Rank] = append(ranks[n.Rank], id)
	}
	return ranks
}

func cloneRanks(ranks map[int][]dag.NodeID) map[int][]dag.NodeID {
	out := make(map[int][]dag.NodeID, len(ranks))
	for r, ids := range ranks {
		out[r] = append([]dag.NodeID(nil), ids...)
	}
	return out
}
