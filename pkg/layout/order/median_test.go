package order_test

import (
	"testing"

	"github.com/sugilayout/sugilayout/pkg/dag"
	"github.com/sugilayout/sugilayout/pkg/dag/transform"
	"github.com/sugilayout/sugilayout/pkg/layout/order"
)

// bowtie builds two ranks of three nodes each, with top[i] connected to
// bottom[i], which has a crossing-free ordering (identity on both sides).
func bowtie(t *testing.T) (*dag.Graph, []dag.NodeID, []dag.NodeID) {
	t.Helper()
	g := dag.New()
	var top, bottom []dag.NodeID
	for i := 0; i < 3; i++ {
		top = append(top, g.AddNode(dag.Node{Width: 10, Height: 10, Rank: 0}))
	}
	for i := 0; i < 3; i++ {
		bottom = append(bottom, g.AddNode(dag.Node{Width: 10, Height: 10, Rank: 1}))
	}
	for i := range top {
		if _, err := g.AddEdge(top[i], bottom[i], dag.Edge{MinLen: 1}); err != nil {
			t.Fatalf("AddEdge: %v", err)
		}
	}
	return g, top, bottom
}

func TestMedianOrdererReducesCrossings(t *testing.T) {
	g, top, bottom := bowtie(t)

	// Scramble bottom so edges cross. Order starts from the graph's
	// insertion order, so this scrambled order is only the baseline its
	// result is compared against.
	scrambled := []dag.NodeID{bottom[2], bottom[0], bottom[1]}
	initial := map[int][]dag.NodeID{0: top, 1: scrambled}
	before := g.CountCrossings(initial)
	if before == 0 {
		t.Fatal("expected scrambled order to cross")
	}

	o := order.NewMedianOrderer()
	ranks, err := o.Order(g, order.Options{})
	if err != nil {
		t.Fatalf("Order: %v", err)
	}
	after := g.CountCrossings(ranks)
	if after > before {
		t.Errorf("Order made crossings worse: %d -> %d", before, after)
	}
}

func TestMedianOrdererEmptyGraph(t *testing.T) {
	g := dag.New()
	o := order.NewMedianOrderer()
	ranks, err := o.Order(g, order.Options{})
	if err != nil {
		t.Fatalf("Order: %v", err)
	}
	if len(ranks) != 0 {
		t.Errorf("expected empty ranks, got %v", ranks)
	}
}

func TestMedianOrdererPreservesRankMembership(t *testing.T) {
	g, ids := chainGraph(t, 5)
	o := order.NewMedianOrderer()
	ranks, err := o.Order(g, order.Options{MaxSweeps: 4})
	if err != nil {
		t.Fatalf("Order: %v", err)
	}
	count := 0
	for _, row := range ranks {
		count += len(row)
	}
	if count != len(ids) {
		t.Errorf("Order dropped nodes: got %d, want %d", count, len(ids))
	}
}

func chainGraph(t *testing.T, n int) (*dag.Graph, []dag.NodeID) {
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
	if _, err := transform.Rank(g, false); err != nil {
		t.Fatalf("Rank: %v", err)
	}
	return g, ids
}
