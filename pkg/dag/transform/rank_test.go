package transform_test

import (
	"testing"

	"github.com/sugilayout/sugilayout/pkg/dag"
	"github.com/sugilayout/sugilayout/pkg/dag/transform"
)

func chain(t *testing.T, n int) (*dag.Graph, []dag.NodeID) {
	t.Helper()
	g := dag.New()
	ids := make([]dag.NodeID, n)
	for i := range ids {
		ids[i] = g.AddNode(dag.Node{Width: 10, Height: 10})
	}
	for i := 0; i < n-1; i++ {
		if _, err := g.AddEdge(ids[i], ids[i+1], dag.Edge{}); err != nil {
			t.Fatalf("AddEdge: %v", err)
		}
	}
	transform.Build(g, true)
	return g, ids
}

func TestRankChainIsMonotonic(t *testing.T) {
	g, ids := chain(t, 4)
	if _, err := transform.Rank(g, false); err != nil {
		t.Fatalf("Rank: %v", err)
	}
	prev := -1
	for _, id := range ids {
		n, _ := g.Node(id)
		if n.Rank <= prev {
			t.Fatalf("rank of %v = %d, want strictly greater than %d", id, n.Rank, prev)
		}
		prev = n.Rank
	}
	head, _ := g.Node(ids[0])
	if head.Rank != 0 {
		t.Errorf("head rank = %d, want 0", head.Rank)
	}
}

func TestRankRespectsMinLen(t *testing.T) {
	g, ids := chain(t, 3)
	for _, eid := range g.Edges() {
		e, _ := g.Edge(eid)
		e.MinLen = 4
		_ = g.SetEdge(eid, e)
	}
	if _, err := transform.Rank(g, false); err != nil {
		t.Fatalf("Rank: %v", err)
	}
	a, _ := g.Node(ids[0])
	b, _ := g.Node(ids[1])
	if b.Rank-a.Rank < 4 {
		t.Errorf("rank(b)-rank(a) = %d, want >= 4", b.Rank-a.Rank)
	}
}

func TestRankDiamondWithSimplex(t *testing.T) {
	g := dag.New()
	a := g.AddNode(dag.Node{})
	b := g.AddNode(dag.Node{})
	c := g.AddNode(dag.Node{})
	d := g.AddNode(dag.Node{})
	e := g.AddNode(dag.Node{})
	for _, pair := range [][2]dag.NodeID{{a, b}, {a, e}, {b, c}, {c, d}, {e, d}} {
		if _, err := g.AddEdge(pair[0], pair[1], dag.Edge{}); err != nil {
			t.Fatalf("AddEdge: %v", err)
		}
	}
	transform.Build(g, true)

	if _, err := transform.Rank(g, true); err != nil {
		t.Fatalf("Rank: %v", err)
	}
	for _, eid := range g.Edges() {
		s, dst, _ := g.Endpoints(eid)
		edge, _ := g.Edge(eid)
		sn, _ := g.Node(s)
		dn, _ := g.Node(dst)
		if dn.Rank-sn.Rank < edge.MinLen {
			t.Errorf("edge %v->%v span %d below minLen %d", s, dst, dn.Rank-sn.Rank, edge.MinLen)
		}
	}
}

func TestRankIntegerPrefRankSharesRank(t *testing.T) {
	g := dag.New()
	a := g.AddNode(dag.Node{})
	b := g.AddNode(dag.Node{PrefRank: dag.PrefRank{Kind: dag.PrefRankInteger, Value: 5}})
	c := g.AddNode(dag.Node{PrefRank: dag.PrefRank{Kind: dag.PrefRankInteger, Value: 5}})
	d := g.AddNode(dag.Node{})
	if _, err := g.AddEdge(a, b, dag.Edge{}); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	if _, err := g.AddEdge(c, d, dag.Edge{}); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	transform.Build(g, true)

	if _, err := transform.Rank(g, false); err != nil {
		t.Fatalf("Rank: %v", err)
	}
	bn, _ := g.Node(b)
	cn, _ := g.Node(c)
	if bn.Rank != cn.Rank {
		t.Errorf("rank(b)=%d, rank(c)=%d, want equal for shared integer prefRank", bn.Rank, cn.Rank)
	}
}

func TestRankMinPrefRankIsLowest(t *testing.T) {
	g := dag.New()
	min := g.AddNode(dag.Node{PrefRank: dag.PrefRank{Kind: dag.PrefRankMin}})
	a := g.AddNode(dag.Node{})
	b := g.AddNode(dag.Node{})
	if _, err := g.AddEdge(a, b, dag.Edge{}); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	transform.Build(g, true)

	if _, err := transform.Rank(g, false); err != nil {
		t.Fatalf("Rank: %v", err)
	}
	mn, _ := g.Node(min)
	an, _ := g.Node(a)
	bn, _ := g.Node(b)
	if mn.Rank > an.Rank || mn.Rank > bn.Rank {
		t.Errorf("min-prefRank node rank %d, want <= %d and <= %d", mn.Rank, an.Rank, bn.Rank)
	}
}

// TestRankSimplexPivotsThroughAntiAlignedTreeEdge exercises a tree edge
// whose underlying graph edge points child->parent in the spanning tree
// (the tightSpanningTree "else" branch), which TestRankDiamondWithSimplex
// never reaches. Two four-edge padding chains (a->p1->p2->p3->c and
// a->q1->q2->q3->d) pin c and d at rank 4 regardless of w; the initial
// (Kahn/ASAP) assignment puts w at rank 1, giving a->w + w->c + w->d a
// combined length of 1+3+3=7 (total edge length 15 across all 11 edges).
// Moving w to rank 3 shortens that to 3+1+1=5 (total 13), an improvement
// simplex must find. The ASAP tree hangs w under a through the tight edge
// a->w, whose cut value is negative; the pivot brings in w->c, and the
// rebuilt tree attaches w under c through w->c (child->parent orientation,
// anti-aligned), the case whose cut value has to be negated.
func TestRankSimplexPivotsThroughAntiAlignedTreeEdge(t *testing.T) {
	g := dag.New()
	a := g.AddNode(dag.Node{})
	w := g.AddNode(dag.Node{})
	c := g.AddNode(dag.Node{})
	d := g.AddNode(dag.Node{})
	p1 := g.AddNode(dag.Node{})
	p2 := g.AddNode(dag.Node{})
	p3 := g.AddNode(dag.Node{})
	q1 := g.AddNode(dag.Node{})
	q2 := g.AddNode(dag.Node{})
	q3 := g.AddNode(dag.Node{})

	edges := [][2]dag.NodeID{
		{a, p1}, {p1, p2}, {p2, p3}, {p3, c},
		{a, q1}, {q1, q2}, {q2, q3}, {q3, d},
		{a, w}, {w, c}, {w, d},
	}
	for _, pair := range edges {
		if _, err := g.AddEdge(pair[0], pair[1], dag.Edge{}); err != nil {
			t.Fatalf("AddEdge: %v", err)
		}
	}
	transform.Build(g, true)

	if _, err := transform.Rank(g, true); err != nil {
		t.Fatalf("Rank: %v", err)
	}

	total := 0
	for _, eid := range g.Edges() {
		src, dst, _ := g.Endpoints(eid)
		sn, _ := g.Node(src)
		dn, _ := g.Node(dst)
		total += dn.Rank - sn.Rank
	}
	// Build doubles every MinLen, so the unscaled ASAP total of 15 becomes
	// 30 and the unscaled optimal total of 13 becomes 26. Anything at or
	// above the ASAP total means simplex never pivoted w at all.
	if total >= 30 {
		t.Errorf("total edge length = %d, want < 30 (ASAP); simplex failed to pivot w off its ASAP rank", total)
	}

	// Build's MinLen doubling scales the whole optimal assignment along
	// with it: ASAP puts w 2 ranks below a once doubled, optimal puts it
	// 6 below. Anything beyond 2 confirms simplex actually pivoted w.
	wn, _ := g.Node(w)
	an, _ := g.Node(a)
	if wn.Rank-an.Rank <= 2 {
		t.Errorf("rank(w)-rank(a) = %d, want > 2 (simplex should move w off its ASAP rank)", wn.Rank-an.Rank)
	}
}

func TestRankSingleNode(t *testing.T) {
	g := dag.New()
	a := g.AddNode(dag.Node{})
	transform.Build(g, true)
	if _, err := transform.Rank(g, true); err != nil {
		t.Fatalf("Rank: %v", err)
	}
	n, _ := g.Node(a)
	if n.Rank != 0 {
		t.Errorf("rank = %d, want 0", n.Rank)
	}
}
