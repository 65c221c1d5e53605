package dag_test

import (
	"testing"

	"github.com/sugilayout/sugilayout/pkg/dag"
)

func TestGraphBasic(t *testing.T) {
	g := dag.New()
	a := g.AddNode(dag.Node{Width: 10, Height: 10})
	b := g.AddNode(dag.Node{Width: 10, Height: 10})
	c := g.AddNode(dag.Node{Width: 10, Height: 10})

	if _, err := g.AddEdge(a, b, dag.Edge{}); err != nil {
		t.Fatalf("AddEdge a->b: %v", err)
	}
	if _, err := g.AddEdge(b, c, dag.Edge{}); err != nil {
		t.Fatalf("AddEdge b->c: %v", err)
	}

	if got := g.NodeCount(); got != 3 {
		t.Errorf("NodeCount = %d, want 3", got)
	}
	if got := g.EdgeCount(); got != 2 {
		t.Errorf("EdgeCount = %d, want 2", got)
	}
	if got := g.Successors(a); len(got) != 1 || got[0] != b {
		t.Errorf("Successors(a) = %v, want [%v]", got, b)
	}
	if got := g.Predecessors(c); len(got) != 1 || got[0] != b {
		t.Errorf("Predecessors(c) = %v, want [%v]", got, b)
	}
}

func TestAddEdgeUnknownNode(t *testing.T) {
	g := dag.New()
	a := g.AddNode(dag.Node{})
	if _, err := g.AddEdge(a, dag.NodeID(999), dag.Edge{}); err != dag.ErrUnknownNode {
		t.Errorf("AddEdge with unknown target = %v, want ErrUnknownNode", err)
	}
}

func TestAddEdgeDefaultMinLen(t *testing.T) {
	g := dag.New()
	a := g.AddNode(dag.Node{})
	b := g.AddNode(dag.Node{})
	eid, err := g.AddEdge(a, b, dag.Edge{})
	if err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	e, _ := g.Edge(eid)
	if e.MinLen != 1 {
		t.Errorf("default MinLen = %d, want 1", e.MinLen)
	}
}

func TestRemoveNodeRemovesIncidentEdges(t *testing.T) {
	g := dag.New()
	a := g.AddNode(dag.Node{})
	b := g.AddNode(dag.Node{})
	c := g.AddNode(dag.Node{})
	_, _ = g.AddEdge(a, b, dag.Edge{})
	_, _ = g.AddEdge(b, c, dag.Edge{})

	g.RemoveNode(b)

	if g.NodeCount() != 2 {
		t.Errorf("NodeCount after remove = %d, want 2", g.NodeCount())
	}
	if g.EdgeCount() != 0 {
		t.Errorf("EdgeCount after remove = %d, want 0", g.EdgeCount())
	}
	if len(g.Successors(a)) != 0 {
		t.Errorf("Successors(a) after remove = %v, want empty", g.Successors(a))
	}
}

func TestReverseEdge(t *testing.T) {
	g := dag.New()
	a := g.AddNode(dag.Node{})
	b := g.AddNode(dag.Node{})
	eid, _ := g.AddEdge(a, b, dag.Edge{})

	if err := g.ReverseEdge(eid); err != nil {
		t.Fatalf("ReverseEdge: %v", err)
	}

	src, dst, ok := g.Endpoints(eid)
	if !ok || src != b || dst != a {
		t.Errorf("Endpoints after reverse = (%v,%v), want (%v,%v)", src, dst, b, a)
	}
	if got := g.Successors(b); len(got) != 1 || got[0] != a {
		t.Errorf("Successors(b) after reverse = %v, want [%v]", got, a)
	}
	if got := g.Successors(a); len(got) != 0 {
		t.Errorf("Successors(a) after reverse = %v, want empty", got)
	}
}

func TestInsertionOrderDeterminism(t *testing.T) {
	g := dag.New()
	var ids []dag.NodeID
	for i := 0; i < 5; i++ {
		ids = append(ids, g.AddNode(dag.Node{}))
	}
	got := g.Nodes()
	if len(got) != len(ids) {
		t.Fatalf("Nodes() length = %d, want %d", len(got), len(ids))
	}
	for i := range ids {
		if got[i] != ids[i] {
			t.Errorf("Nodes()[%d] = %v, want %v (insertion order)", i, got[i], ids[i])
		}
	}
}

func TestSourcesSinks(t *testing.T) {
	g := dag.New()
	a := g.AddNode(dag.Node{})
	b := g.AddNode(dag.Node{})
	c := g.AddNode(dag.Node{})
	_, _ = g.AddEdge(a, b, dag.Edge{})
	_, _ = g.AddEdge(b, c, dag.Edge{})

	sources := g.Sources()
	if len(sources) != 1 || sources[0] != a {
		t.Errorf("Sources() = %v, want [%v]", sources, a)
	}
	sinks := g.Sinks()
	if len(sinks) != 1 || sinks[0] != c {
		t.Errorf("Sinks() = %v, want [%v]", sinks, c)
	}
}

func TestWeaklyConnectedComponents(t *testing.T) {
	g := dag.New()
	a := g.AddNode(dag.Node{})
	b := g.AddNode(dag.Node{})
	c := g.AddNode(dag.Node{})
	d := g.AddNode(dag.Node{})
	_, _ = g.AddEdge(a, b, dag.Edge{})
	_, _ = g.AddEdge(c, d, dag.Edge{})

	comps := g.WeaklyConnectedComponents()
	if len(comps) != 2 {
		t.Fatalf("WeaklyConnectedComponents count = %d, want 2", len(comps))
	}
	sizes := map[int]int{}
	for _, comp := range comps {
		sizes[len(comp)]++
	}
	if sizes[2] != 2 {
		t.Errorf("component sizes = %v, want two components of size 2", sizes)
	}
}

func TestFilterNodes(t *testing.T) {
	g := dag.New()
	a := g.AddNode(dag.Node{Width: 1})
	_ = g.AddNode(dag.Node{Width: 2})
	c := g.AddNode(dag.Node{Width: 1})

	got := g.FilterNodes(func(_ dag.NodeID, n dag.Node) bool { return n.Width == 1 })
	if len(got) != 2 || got[0] != a || got[1] != c {
		t.Errorf("FilterNodes = %v, want [%v %v]", got, a, c)
	}
}

func TestCopyIsIndependent(t *testing.T) {
	g := dag.New()
	a := g.AddNode(dag.Node{Width: 5})
	b := g.AddNode(dag.Node{Width: 5})
	_, _ = g.AddEdge(a, b, dag.Edge{MinLen: 2})

	cp := g.Copy()
	n, _ := cp.Node(a)
	n.Width = 99
	_ = cp.SetNode(a, n)

	orig, _ := g.Node(a)
	if orig.Width != 5 {
		t.Errorf("mutating copy affected original: Width = %v, want 5", orig.Width)
	}
}

func TestCountRankCrossings(t *testing.T) {
	g := dag.New()
	a := g.AddNode(dag.Node{})
	b := g.AddNode(dag.Node{})
	x := g.AddNode(dag.Node{})
	y := g.AddNode(dag.Node{})
	_, _ = g.AddEdge(a, y, dag.Edge{})
	_, _ = g.AddEdge(b, x, dag.Edge{})

	if got := g.CountRankCrossings([]dag.NodeID{a, b}, []dag.NodeID{x, y}); got != 1 {
		t.Errorf("crossings with [a,b]/[x,y] = %d, want 1", got)
	}
	if got := g.CountRankCrossings([]dag.NodeID{b, a}, []dag.NodeID{x, y}); got != 0 {
		t.Errorf("crossings with [b,a]/[x,y] = %d, want 0", got)
	}
}

func TestRankQueueDecreaseKey(t *testing.T) {
	a, b, c := dag.NodeID(1), dag.NodeID(2), dag.NodeID(3)
	q := dag.NewRankQueue(map[dag.NodeID]int{a: 3, b: 2, c: 5})

	q.DecreaseKey(c, 1)

	id, key, ok := q.ExtractMin()
	if !ok || id != c || key != 1 {
		t.Errorf("ExtractMin = (%v,%v,%v), want (%v,1,true)", id, key, ok, c)
	}
	id, _, ok = q.ExtractMin()
	if !ok || id != b {
		t.Errorf("second ExtractMin = %v, want %v", id, b)
	}
}
