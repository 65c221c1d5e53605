package order

import (
	"sort"

	"github.com/sugilayout/sugilayout/pkg/dag"
)

// MedianOrderer is the default Orderer: alternating down/up median-value
// sweeps followed by a transpose pass, stopping once a full down+up+
// transpose round fails to reduce total crossings (or MaxSweeps is
// reached). This is the classic Sugiyama-Tagawa-Toda heuristic, grounded
// on the teacher's ordering package naming the "optimal" ordering algorithm
// as the default and its iterate-until-no-improvement sweep shape.
type MedianOrderer struct{}

// NewMedianOrderer creates the default median-heuristic Orderer.
func NewMedianOrderer() Orderer { return &MedianOrderer{} }

// Order runs down-sweep, up-sweep and transpose passes until a full round
// no longer reduces total crossings or opts.MaxSweeps (or the package
// default) is reached, and returns the best ordering found.
func (o *MedianOrderer) Order(g *dag.Graph, opts Options) (map[int][]dag.NodeID, error) {
	maxSweeps := opts.MaxSweeps
	if maxSweeps <= 0 {
		maxSweeps = defaultMaxSweeps
	}

	ranks := ranksOf(g)
	if len(ranks) == 0 {
		return ranks, nil
	}
	minRank, maxRank := rankBounds(ranks)

	best := cloneRanks(ranks)
	bestCrossings := totalCrossings(g, best)

	for sweep := 0; sweep < maxSweeps; sweep++ {
		medianSweep(g, ranks, minRank, maxRank, true)
		transpose(g, ranks, minRank, maxRank)
		medianSweep(g, ranks, minRank, maxRank, false)
		transpose(g, ranks, minRank, maxRank)

		if c := totalCrossings(g, ranks); c < bestCrossings {
			bestCrossings = c
			best = cloneRanks(ranks)
		} else {
			break
		}
	}

	return best, nil
}

func rankBounds(ranks map[int][]dag.NodeID) (int, int) {
	first := true
	var minR, maxR int
	for r := range ranks {
		if first {
			minR, maxR, first = r, r, false
			continue
		}
		if r < minR {
			minR = r
		}
		if r > maxR {
			maxR = r
		}
	}
	return minR, maxR
}

func totalCrossings(g *dag.Graph, ranks map[int][]dag.NodeID) int {
	return g.CountCrossings(ranks)
}

// medianSweep walks ranks top-to-bottom (down=true) or bottom-to-top
// (down=false), reordering each rank by the median position its nodes'
// fixed-side neighbors occupy in the adjacent, already-ordered rank.
func medianSweep(g *dag.Graph, ranks map[int][]dag.NodeID, minRank, maxRank int, down bool) {
	if down {
		for r := minRank + 1; r <= maxRank; r++ {
			reorderByMedian(g, ranks, r, ranks[r-1], true)
		}
		return
	}
	for r := maxRank - 1; r >= minRank; r-- {
		reorderByMedian(g, ranks, r, ranks[r+1], false)
	}
}

func reorderByMedian(g *dag.Graph, ranks map[int][]dag.NodeID, r int, fixed []dag.NodeID, usePredecessors bool) {
	row := ranks[r]
	if len(row) == 0 || len(fixed) == 0 {
		return
	}
	fixedPos := make(map[dag.NodeID]int, len(fixed))
	for i, id := range fixed {
		fixedPos[id] = i
	}

	type scored struct {
		id      dag.NodeID
		median  float64
		hasNbrs bool
	}
	entries := make([]scored, len(row))
	for i, id := range row {
		var neighbors []dag.NodeID
		if usePredecessors {
			neighbors = g.Predecessors(id)
		} else {
			neighbors = g.Successors(id)
		}
		var positions []int
		for _, nb := range neighbors {
			if p, ok := fixedPos[nb]; ok {
				positions = append(positions, p)
			}
		}
		entries[i] = scored{id: id, median: medianValue(positions), hasNbrs: len(positions) > 0}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].hasNbrs {
			return false
		}
		if !entries[j].hasNbrs {
			return true
		}
		return entries[i].median < entries[j].median
	})

	for i, e := range entries {
		row[i] = e.id
	}
	ranks[r] = row
}

// medianValue returns the median of a set of integer positions, using the
// weighted-median rule for even-sized sets (Gansner et al.) so a node with
// neighbors clustered to one side is biased that way rather than centered.
func medianValue(positions []int) float64 {
	if len(positions) == 0 {
		return -1
	}
	sort.Ints(positions)
	m := len(positions) / 2
	if len(positions)%2 == 1 {
		return float64(positions[m])
	}
	if len(positions) == 2 {
		return (float64(positions[0]) + float64(positions[1])) / 2
	}
	left := positions[m-1] - positions[0]
	right := positions[len(positions)-1] - positions[m]
	if left+right == 0 {
		return (float64(positions[m-1]) + float64(positions[m])) / 2
	}
	return (float64(positions[m-1])*float64(right) + float64(positions[m])*float64(left)) / float64(left+right)
}

// transpose repeatedly swaps adjacent nodes within a rank when doing so
// strictly reduces the crossings between that rank and both its
// neighbors, until a full pass makes no further swap.
func transpose(g *dag.Graph, ranks map[int][]dag.NodeID, minRank, maxRank int) {
	improved := true
	for improved {
		improved = false
		for r := minRank; r <= maxRank; r++ {
			row := ranks[r]
			for i := 0; i+1 < len(row); i++ {
				if swapReducesCrossings(g, ranks, r, i, minRank, maxRank) {
					row[i], row[i+1] = row[i+1], row[i]
					improved = true
				}
			}
			ranks[r] = row
		}
	}
}

func swapReducesCrossings(g *dag.Graph, ranks map[int][]dag.NodeID, r, i, minRank, maxRank int) bool {
	before := localCrossings(g, ranks, r, minRank, maxRank)

	row := ranks[r]
	row[i], row[i+1] = row[i+1], row[i]
	after := localCrossings(g, ranks, r, minRank, maxRank)
	row[i], row[i+1] = row[i+1], row[i]

	return after < before
}

func localCrossings(g *dag.Graph, ranks map[int][]dag.NodeID, r, minRank, maxRank int) int {
	total := 0
	if r > minRank {
		total += g.CountRankCrossings(ranks[r-1], ranks[r])
	}
	if r < maxRank {
		total += g.CountRankCrossings(ranks[r], ranks[r+1])
	}
	return total
}
