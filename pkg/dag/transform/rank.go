package transform

import (
	"math"

	"github.com/sugilayout/sugilayout/pkg/dag"
	"github.com/sugilayout/sugilayout/pkg/layouterr"
)

// Rank assigns an integer rank to every node (spec.md §4.3). It runs in
// three phases: rank-constraint reduction collapses or constrains nodes
// carrying a PrefRank into compound nodes, an initial feasible ranking
// gives every node a minLen-respecting rank via a Kahn-style longest-path
// sweep, and (when useSimplex is set) network-simplex pivots tighten that
// ranking to reduce total edge length.
//
// Rank never mutates the caller's edge set: reduction happens on a scratch
// copy, and only the final Rank field is written back onto g's real nodes.
func Rank(g *dag.Graph, useSimplex bool) (*StageResult, error) {
	original := g.Nodes()

	work, compounds, err := reduce(g)
	if err != nil {
		return nil, err
	}

	if work != g {
		Acyclic(work)
	}

	pivots := 0
	for _, comp := range work.WeaklyConnectedComponents() {
		if err := initialRank(work, comp); err != nil {
			return nil, err
		}
	}
	if useSimplex {
		for _, comp := range work.WeaklyConnectedComponents() {
			n, err := networkSimplex(work, comp)
			if err != nil {
				return nil, err
			}
			pivots += n
		}
	}

	for _, comp := range work.WeaklyConnectedComponents() {
		normalizeComponentRanks(work, comp)
	}

	for _, cp := range compounds {
		cn, _ := work.Node(cp.node)
		for _, m := range cp.members {
			n, _ := g.Node(m)
			n.Rank = cn.Rank
			_ = g.SetNode(m, n)
		}
	}
	for _, id := range original {
		cn, _ := g.Node(id)
		if isCompoundMember(compounds, id) {
			continue
		}
		wn, ok := work.Node(id)
		if !ok {
			continue
		}
		cn.Rank = wn.Rank
		_ = g.SetNode(id, cn)
	}

	return &StageResult{Stage: "rank", CompoundsCreated: len(compounds), SimplexPivots: pivots, MaxRank: g.MaxRank()}, nil
}

type compoundClass struct {
	node    dag.NodeID
	members []dag.NodeID
}

func isCompoundMember(compounds []compoundClass, id dag.NodeID) bool {
	for _, c := range compounds {
		for _, m := range c.members {
			if m == id {
				return true
			}
		}
	}
	return false
}

// reduce builds the rank-constraint reduction described in spec.md §4.3.1
// on a scratch copy of g. Integer PrefRank classes are fully contracted
// into a single compound node (their members are removed from the scratch
// graph and reinstated after ranking via broadcast); min/max classes keep
// their members but redirect the edges responsible for the constraint
// through a virtual compound node.
func reduce(g *dag.Graph) (*dag.Graph, []compoundClass, error) {
	integerGroups := map[int][]dag.NodeID{}
	var minGroup, maxGroup []dag.NodeID

	for _, id := range g.Nodes() {
		n, _ := g.Node(id)
		switch n.PrefRank.Kind {
		case dag.PrefRankInteger:
			integerGroups[n.PrefRank.Value] = append(integerGroups[n.PrefRank.Value], id)
		case dag.PrefRankMin:
			minGroup = append(minGroup, id)
		case dag.PrefRankMax:
			maxGroup = append(maxGroup, id)
		}
	}
	if len(integerGroups) == 0 && len(minGroup) == 0 && len(maxGroup) == 0 {
		return g, nil, nil
	}

	work := g.Copy()
	var compounds []compoundClass

	for _, members := range integerGroups {
		set := toSet(members)
		compound := work.AddNode(dag.Node{})
		for _, m := range members {
			for _, eid := range work.InEdges(m) {
				src, _, _ := work.Endpoints(eid)
				if set[src] {
					work.RemoveEdge(eid)
					continue
				}
				e, _ := work.Edge(eid)
				if _, err := work.AddEdge(src, compound, dag.Edge{MinLen: e.MinLen}); err != nil {
					return nil, nil, layouterr.Wrap(layouterr.ErrCodeInvariantViolation, err, "rank: reduce integer class")
				}
				work.RemoveEdge(eid)
			}
			for _, eid := range work.OutEdges(m) {
				_, dst, _ := work.Endpoints(eid)
				if set[dst] {
					work.RemoveEdge(eid)
					continue
				}
				e, _ := work.Edge(eid)
				if _, err := work.AddEdge(compound, dst, dag.Edge{MinLen: e.MinLen}); err != nil {
					return nil, nil, layouterr.Wrap(layouterr.ErrCodeInvariantViolation, err, "rank: reduce integer class")
				}
				work.RemoveEdge(eid)
			}
			work.RemoveNode(m)
		}
		compounds = append(compounds, compoundClass{node: compound, members: members})
	}

	if len(minGroup) > 0 {
		set := toSet(minGroup)
		compound := work.AddNode(dag.Node{})
		for _, m := range minGroup {
			for _, eid := range work.InEdges(m) {
				e, _ := work.Edge(eid)
				src, _, _ := work.Endpoints(eid)
				if src == compound {
					continue
				}
				if _, err := work.AddEdge(compound, m, dag.Edge{MinLen: e.MinLen}); err != nil {
					return nil, nil, layouterr.Wrap(layouterr.ErrCodeInvariantViolation, err, "rank: reduce min class")
				}
				work.RemoveEdge(eid)
			}
		}
		for _, id := range work.Nodes() {
			if id == compound || set[id] {
				continue
			}
			eid, err := work.AddEdge(compound, id, dag.Edge{})
			if err != nil {
				return nil, nil, layouterr.Wrap(layouterr.ErrCodeInvariantViolation, err, "rank: reduce min class")
			}
			e, _ := work.Edge(eid)
			e.MinLen = 0
			_ = work.SetEdge(eid, e)
		}
	}

	if len(maxGroup) > 0 {
		set := toSet(maxGroup)
		compound := work.AddNode(dag.Node{})
		for _, m := range maxGroup {
			for _, eid := range work.OutEdges(m) {
				e, _ := work.Edge(eid)
				_, dst, _ := work.Endpoints(eid)
				if dst == compound {
					continue
				}
				if _, err := work.AddEdge(m, compound, dag.Edge{MinLen: e.MinLen}); err != nil {
					return nil, nil, layouterr.Wrap(layouterr.ErrCodeInvariantViolation, err, "rank: reduce max class")
				}
				work.RemoveEdge(eid)
			}
		}
		for _, id := range work.Nodes() {
			if id == compound || set[id] {
				continue
			}
			eid, err := work.AddEdge(id, compound, dag.Edge{})
			if err != nil {
				return nil, nil, layouterr.Wrap(layouterr.ErrCodeInvariantViolation, err, "rank: reduce max class")
			}
			e, _ := work.Edge(eid)
			e.MinLen = 0
			_ = work.SetEdge(eid, e)
		}
	}

	return work, compounds, nil
}

func toSet(ids []dag.NodeID) map[dag.NodeID]bool {
	m := make(map[dag.NodeID]bool, len(ids))
	for _, id := range ids {
		m[id] = true
	}
	return m
}

// initialRank performs the Kahn-style longest-path ranking of spec.md
// §4.3.2 over one weakly-connected component: nodes are popped from a
// decrease-key priority queue keyed by remaining in-degree, and each
// node's rank is the max over its incoming edges of source-rank+minLen.
func initialRank(g *dag.Graph, component []dag.NodeID) error {
	set := toSet(component)
	indeg := make(map[dag.NodeID]int, len(component))
	for _, id := range component {
		count := 0
		for _, eid := range g.InEdges(id) {
			src, _, _ := g.Endpoints(eid)
			if set[src] {
				count++
			}
		}
		indeg[id] = count
	}
	q := dag.NewRankQueue(indeg)

	for q.Len() > 0 {
		v, key, _ := q.ExtractMin()
		if key > 0 {
			return layouterr.New(layouterr.ErrCodeNotAcyclic, "rank: component is not acyclic")
		}
		rank := 0
		for _, eid := range g.InEdges(v) {
			src, _, _ := g.Endpoints(eid)
			if !set[src] {
				continue
			}
			u, _ := g.Node(src)
			e, _ := g.Edge(eid)
			if cand := u.Rank + e.MinLen; cand > rank {
				rank = cand
			}
		}
		n, _ := g.Node(v)
		n.Rank = rank
		_ = g.SetNode(v, n)

		for _, succ := range g.Successors(v) {
			if !set[succ] {
				continue
			}
			if cur, ok := q.Key(succ); ok {
				q.DecreaseKey(succ, cur-1)
			}
		}
	}
	return nil
}

func normalizeComponentRanks(g *dag.Graph, component []dag.NodeID) {
	min := math.MaxInt
	for _, id := range component {
		n, _ := g.Node(id)
		if n.Rank < min {
			min = n.Rank
		}
	}
	if min == 0 || min == math.MaxInt {
		return
	}
	for _, id := range component {
		n, _ := g.Node(id)
		n.Rank -= min
		_ = g.SetNode(id, n)
	}
}

// simplexEdge is one entry of the collapsed multigraph used by network
// simplex: parallel edges between the same ordered pair are merged into a
// single entry carrying the largest minLen among them.
type simplexEdge struct {
	u, v   dag.NodeID
	minLen int
}

func collapseEdges(g *dag.Graph, component []dag.NodeID) []*simplexEdge {
	set := toSet(component)
	type key struct{ u, v dag.NodeID }
	index := map[key]*simplexEdge{}
	var order []*simplexEdge
	for _, id := range component {
		for _, eid := range g.OutEdges(id) {
			src, dst, _ := g.Endpoints(eid)
			if !set[src] || !set[dst] {
				continue
			}
			e, _ := g.Edge(eid)
			k := key{src, dst}
			if se, ok := index[k]; ok {
				if e.MinLen > se.minLen {
					se.minLen = e.MinLen
				}
				continue
			}
			se := &simplexEdge{u: src, v: dst, minLen: e.MinLen}
			index[k] = se
			order = append(order, se)
		}
	}
	return order
}

// networkSimplex refines the feasible ranking of one weakly-connected
// component via tree pivots (spec.md §4.3.3), returning the pivot count.
func networkSimplex(g *dag.Graph, component []dag.NodeID) (int, error) {
	if len(component) < 2 {
		return 0, nil
	}
	edges := collapseEdges(g, component)
	if len(edges) == 0 {
		return 0, nil
	}

	rank := make(map[dag.NodeID]int, len(component))
	for _, id := range component {
		n, _ := g.Node(id)
		rank[id] = n.Rank
	}

	root := component[0]
	treeOrder, _, parentEdge, children, err := tightSpanningTree(component, edges, rank, root)
	if err != nil {
		return 0, err
	}

	cap := len(component) * (len(edges) + 1)
	pivots := 0
	for pivots < cap {
		low, lim := postorder(root, children)

		var leave *simplexEdge
		var leaveChild dag.NodeID
		var leaveAligned bool
		for _, child := range treeOrder {
			pe := parentEdge[child]
			s := subtreeSet(child, low, lim, component)
			cv := cutValue(edges, s)
			aligned := pe.u == parentOf(child, parentEdge) // tail outside, head inside
			if !aligned {
				// subtreeSet(child) is the tail component here, not the
				// head component cutValue assumes, so the true cut value
				// is the negation of what was just computed.
				cv = -cv
			}
			if cv < 0 {
				leave = pe
				leaveChild = child
				leaveAligned = aligned
				break
			}
		}
		if leave == nil {
			break
		}

		s := subtreeSet(leaveChild, low, lim, component)
		aligned := leaveAligned
		enter, slack := findEnterEdge(edges, s, aligned, rank)
		if enter == nil {
			return pivots, layouterr.New(layouterr.ErrCodeNoEnterEdge, "rank: no entering edge for pivot")
		}
		if slack == 0 {
			// The tree is rebuilt from ranks after every pivot, so an
			// exchange that moves no rank would rebuild this same tree.
			break
		}

		shift := slack
		if !aligned {
			shift = -slack
		}
		for id := range s {
			rank[id] += shift
		}

		newOrder, newParentEdge, newChildren, err := rebuildTree(component, edges, rank, root)
		if err != nil {
			return pivots, err
		}
		treeOrder, parentEdge, children = newOrder, newParentEdge, newChildren
		pivots++
	}
	if pivots >= cap {
		return pivots, layouterr.New(layouterr.ErrCodeSimplexDidNotConverge, "rank: simplex exceeded pivot budget")
	}

	for _, id := range component {
		n, _ := g.Node(id)
		n.Rank = rank[id]
		_ = g.SetNode(id, n)
	}
	return pivots, nil
}

func parentOf(child dag.NodeID, parentEdge map[dag.NodeID]*simplexEdge) dag.NodeID {
	pe := parentEdge[child]
	if pe.u == child {
		return pe.v
	}
	return pe.u
}

// tightSpanningTree grows a tree one node at a time, always attaching the
// non-tree node reachable via the globally minimum-slack crossing edge and
// setting that node's rank to make the edge tight (spec.md §4.3.3). The
// returned order lists nodes in the sequence they joined the tree, giving
// pivot selection a deterministic scan order.
func tightSpanningTree(component []dag.NodeID, edges []*simplexEdge, rank map[dag.NodeID]int, root dag.NodeID) ([]dag.NodeID, map[dag.NodeID]bool, map[dag.NodeID]*simplexEdge, map[dag.NodeID][]dag.NodeID, error) {
	inTree := map[dag.NodeID]bool{root: true}
	parentEdge := map[dag.NodeID]*simplexEdge{}
	children := map[dag.NodeID][]dag.NodeID{}
	order := []dag.NodeID{}

	for len(inTree) < len(component) {
		bestSlack := math.MaxInt
		var bestEdge *simplexEdge
		var bestNew, bestOld dag.NodeID
		for _, se := range edges {
			uin, vin := inTree[se.u], inTree[se.v]
			if uin == vin {
				continue
			}
			var newNode, oldNode dag.NodeID
			if uin {
				oldNode, newNode = se.u, se.v
			} else {
				oldNode, newNode = se.v, se.u
			}
			slack := rank[se.v] - rank[se.u] - se.minLen
			if slack < bestSlack {
				bestSlack = slack
				bestEdge = se
				bestNew = newNode
				bestOld = oldNode
			}
		}
		if bestEdge == nil {
			return nil, nil, nil, nil, layouterr.New(layouterr.ErrCodeInvariantViolation, "rank: component not connected by edges")
		}
		if bestEdge.u == bestNew {
			rank[bestNew] = rank[bestOld] - bestEdge.minLen
		} else {
			rank[bestNew] = rank[bestOld] + bestEdge.minLen
		}
		inTree[bestNew] = true
		parentEdge[bestNew] = bestEdge
		children[bestOld] = append(children[bestOld], bestNew)
		order = append(order, bestNew)
	}
	return order, inTree, parentEdge, children, nil
}

func rebuildTree(component []dag.NodeID, edges []*simplexEdge, rank map[dag.NodeID]int, root dag.NodeID) ([]dag.NodeID, map[dag.NodeID]*simplexEdge, map[dag.NodeID][]dag.NodeID, error) {
	order, _, parentEdge, children, err := tightSpanningTree(component, edges, rank, root)
	return order, parentEdge, children, err
}

type postFrame struct {
	node      dag.NodeID
	childIdx  int
}

// postorder computes low/lim labels for every node in the tree rooted at
// root via an explicit-stack DFS (spec.md §9): lim is the postorder
// completion number, low is the smallest lim within the node's subtree.
func postorder(root dag.NodeID, children map[dag.NodeID][]dag.NodeID) (map[dag.NodeID]int, map[dag.NodeID]int) {
	low := map[dag.NodeID]int{}
	lim := map[dag.NodeID]int{}
	counter := 1
	stack := []postFrame{{node: root}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		kids := children[top.node]
		if top.childIdx < len(kids) {
			child := kids[top.childIdx]
			top.childIdx++
			stack = append(stack, postFrame{node: child})
			continue
		}
		lim[top.node] = counter
		counter++
		l := lim[top.node]
		for _, c := range kids {
			if low[c] < l {
				l = low[c]
			}
		}
		low[top.node] = l
		stack = stack[:len(stack)-1]
	}
	return low, lim
}

func subtreeSet(root dag.NodeID, low, lim map[dag.NodeID]int, component []dag.NodeID) map[dag.NodeID]bool {
	lo, hi := low[root], lim[root]
	set := map[dag.NodeID]bool{}
	for _, id := range component {
		if l, ok := lim[id]; ok && lo <= l && l <= hi {
			set[id] = true
		}
	}
	return set
}

// cutValue sums the signed contribution of every graph edge crossing the
// cut induced by subtree s: +1 for an edge entering s from outside, -1 for
// an edge leaving s (spec.md §4.3.3). This recomputes the cut from scratch
// for every tree edge rather than using the incremental grandchild-sum
// formula; simpler, and fine at the scale this engine targets.
func cutValue(edges []*simplexEdge, s map[dag.NodeID]bool) int {
	cv := 0
	for _, se := range edges {
		uin, vin := s[se.u], s[se.v]
		if uin == vin {
			continue
		}
		if vin {
			cv++
		} else {
			cv--
		}
	}
	return cv
}

// findEnterEdge scans the edges crossing the cut in the direction opposite
// to the leaving tree edge (from its head side to its tail side; s is the
// head side when aligned) and returns the one with minimum slack.
func findEnterEdge(edges []*simplexEdge, s map[dag.NodeID]bool, aligned bool, rank map[dag.NodeID]int) (*simplexEdge, int) {
	var best *simplexEdge
	bestSlack := math.MaxInt
	for _, se := range edges {
		uin, vin := s[se.u], s[se.v]
		if uin == vin {
			continue
		}
		into := vin && !uin
		if into == aligned {
			continue
		}
		slack := rank[se.v] - rank[se.u] - se.minLen
		if slack < bestSlack {
			bestSlack = slack
			best = se
		}
	}
	return best, bestSlack
}
