// Package position implements the Position stage as a swappable external
// collaborator (spec.md §6): given a graph whose ranks are final and whose
// within-rank order Order has already fixed, it assigns X/Y coordinates to
// every node (dummy nodes included, since Denormalize later reads their
// X/Y to build edge polylines).
//
// Grounded on the teacher's pkg/render/tower/layout/width.go
// (ComputeWidths' per-row cumulative-offset distribution) and block.go
// (stacking rows top-down by accumulated height), generalized from
// "stacked tower blocks sized by frame width" to "laid-out ranks sized by
// node dimensions and separation config".
package position

import "github.com/sugilayout/sugilayout/pkg/dag"

// RankDir selects which screen axis increasing rank maps to.
type RankDir string

const (
	RankDirTB RankDir = "TB" // top-to-bottom: rank increases downward
	RankDirBT RankDir = "BT" // bottom-to-top: rank increases upward
	RankDirLR RankDir = "LR" // left-to-right: rank increases rightward
	RankDirRL RankDir = "RL" // right-to-left: rank increases leftward
)

// Options configures spacing and orientation for a Positioner.
type Options struct {
	NodeSep      float64 // minimum gap between adjacent non-dummy nodes
	EdgeSep      float64 // minimum gap around dummy (edge-label) nodes
	UniversalSep float64 // overrides NodeSep/EdgeSep uniformly when > 0
	RankSep      float64 // gap between successive ranks
	RankDir      RankDir
}

func (o Options) sepFor(dummy bool) float64 {
	if o.UniversalSep > 0 {
		return o.UniversalSep
	}
	if dummy {
		return o.EdgeSep
	}
	return o.NodeSep
}

// Positioner assigns X/Y coordinates to every node of g, given the
// left-to-right order Order computed for each rank.
type Positioner interface {
	Position(g *dag.Graph, ranks map[int][]dag.NodeID, opts Options) error
}

// OffsetPositioner is the default Positioner: within each rank, nodes are
// placed left to right by cumulative width plus separation; ranks are
// stacked by cumulative height plus RankSep; a down-sweep and up-sweep
// averaging pass then pulls each node toward the mean position of its
// neighbors in the adjacent rank, without violating the minimum
// separation established by the cumulative-offset pass.
type OffsetPositioner struct{}

// NewOffsetPositioner creates the default cumulative-offset Positioner.
func NewOffsetPositioner() Positioner { return &OffsetPositioner{} }

func (p *OffsetPositioner) Position(g *dag.Graph, ranks map[int][]dag.NodeID, opts Options) error {
	minRank, maxRank := rankBounds(ranks)
	if minRank > maxRank {
		return nil
	}

	assignPrimaryAxis(g, ranks, minRank, maxRank, opts)
	assignRankAxis(g, ranks, minRank, maxRank, opts)

	averageSweep(g, ranks, minRank, maxRank, true, opts)
	averageSweep(g, ranks, minRank, maxRank, false, opts)

	if opts.RankDir == RankDirBT || opts.RankDir == RankDirRL {
		flipRankAxis(g, ranks)
	}
	if opts.RankDir == RankDirLR || opts.RankDir == RankDirRL {
		transposeAxes(g)
	}

	return nil
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

// assignPrimaryAxis lays out each rank's nodes left to right along X by
// cumulative offset, centering each node on its own width.
func assignPrimaryAxis(g *dag.Graph, ranks map[int][]dag.NodeID, minRank, maxRank int, opts Options) {
	for r := minRank; r <= maxRank; r++ {
		x := 0.0
		row := ranks[r]
		for i, id := range row {
			n, _ := g.Node(id)
			if i > 0 {
				x += opts.sepFor(n.Dummy)
			}
			n.X = x + n.Width/2
			x += n.Width
			_ = g.SetNode(id, n)
		}
	}
}

// assignRankAxis stacks ranks top to bottom along Y by cumulative offset,
// using the tallest node in each rank to size that rank's band.
func assignRankAxis(g *dag.Graph, ranks map[int][]dag.NodeID, minRank, maxRank int, opts Options) {
	y := 0.0
	for r := minRank; r <= maxRank; r++ {
		row := ranks[r]
		maxHeight := 0.0
		for _, id := range row {
			n, _ := g.Node(id)
			if n.Height > maxHeight {
				maxHeight = n.Height
			}
		}
		for _, id := range row {
			n, _ := g.Node(id)
			n.Y = y + maxHeight/2
			_ = g.SetNode(id, n)
		}
		y += maxHeight + opts.RankSep
	}
}

// averageSweep pulls each node's X toward the mean X of its neighbors in
// the adjacent rank (predecessors when down, successors when up), then
// restores the minimum separation established by assignPrimaryAxis with a
// single left-to-right clamp pass.
func averageSweep(g *dag.Graph, ranks map[int][]dag.NodeID, minRank, maxRank int, down bool, opts Options) {
	order := make([]int, 0, maxRank-minRank+1)
	if down {
		for r := minRank + 1; r <= maxRank; r++ {
			order = append(order, r)
		}
	} else {
		for r := maxRank - 1; r >= minRank; r-- {
			order = append(order, r)
		}
	}

	for _, r := range order {
		row := ranks[r]
		for _, id := range row {
			n, _ := g.Node(id)
			var neighbors []dag.NodeID
			if down {
				neighbors = g.Predecessors(id)
			} else {
				neighbors = g.Successors(id)
			}
			if len(neighbors) == 0 {
				continue
			}
			sum := 0.0
			count := 0
			for _, nb := range neighbors {
				nn, ok := g.Node(nb)
				if !ok {
					continue
				}
				sum += nn.X
				count++
			}
			if count > 0 {
				n.X = sum / float64(count)
				_ = g.SetNode(id, n)
			}
		}
		enforceSeparation(g, row, opts)
	}
}

// enforceSeparation clamps a rank's X values left to right so no two
// adjacent nodes end up closer than their configured minimum separation
// after averageSweep pulled them toward neighbor means, the same
// NodeSep/EdgeSep/UniversalSep assignPrimaryAxis used to lay them out.
func enforceSeparation(g *dag.Graph, row []dag.NodeID, opts Options) {
	for i := 1; i < len(row); i++ {
		prev, _ := g.Node(row[i-1])
		curr, _ := g.Node(row[i])
		gap := opts.sepFor(curr.Dummy)
		minX := prev.X + prev.Width/2 + gap + curr.Width/2
		if curr.X < minX {
			curr.X = minX
			_ = g.SetNode(row[i], curr)
		}
	}
}

// transposeAxes swaps X and Y for every node, turning a top-to-bottom
// layout into a left-to-right one (or vice versa).
func transposeAxes(g *dag.Graph) {
	for _, id := range g.Nodes() {
		n, _ := g.Node(id)
		n.X, n.Y = n.Y, n.X
		_ = g.SetNode(id, n)
	}
}

// flipRankAxis mirrors the rank axis so the highest rank ends up at the
// smallest coordinate instead of the largest.
func flipRankAxis(g *dag.Graph, ranks map[int][]dag.NodeID) {
	minRank, maxRank := rankBounds(ranks)
	var maxCoord float64
	for _, id := range g.Nodes() {
		n, _ := g.Node(id)
		if n.Y > maxCoord {
			maxCoord = n.Y
		}
	}
	for r := minRank; r <= maxRank; r++ {
		for _, id := range ranks[r] {
			n, _ := g.Node(id)
			n.Y = maxCoord - n.Y
			_ = g.SetNode(id, n)
		}
	}
}
