package layout_test

import (
	"context"
	"testing"

	"github.com/sugilayout/sugilayout/pkg/dag"
	"github.com/sugilayout/sugilayout/pkg/layout"
)

func diamond(t *testing.T) *dag.Graph {
	t.Helper()
	g := dag.New()
	a := g.AddNode(dag.Node{Width: 20, Height: 10})
	b := g.AddNode(dag.Node{Width: 20, Height: 10})
	c := g.AddNode(dag.Node{Width: 20, Height: 10})
	d := g.AddNode(dag.Node{Width: 20, Height: 10})
	for _, e := range [][2]dag.NodeID{{a, b}, {a, c}, {b, d}, {c, d}} {
		if _, err := g.AddEdge(e[0], e[1], dag.Edge{MinLen: 1}); err != nil {
			t.Fatalf("AddEdge: %v", err)
		}
	}
	return g
}

func TestEngineRunProducesPositionedGraph(t *testing.T) {
	g := diamond(t)
	e := layout.New(layout.DefaultConfig())

	res, err := e.Run(context.Background(), g)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Graph.NodeCount() != 4 {
		t.Errorf("expected 4 nodes to survive, got %d", res.Graph.NodeCount())
	}

	stageNames := make(map[string]bool, len(res.Stats.Stages))
	for _, sr := range res.Stats.Stages {
		stageNames[sr.Stage] = true
	}
	for _, want := range []string{"build", "acyclic", "rank", "normalize", "order", "position", "denormalize", "fixup", "unacyclic", "emit"} {
		if !stageNames[want] {
			t.Errorf("missing stage in Stats: %s", want)
		}
	}
}

func TestEngineRunRestoresRankSepAfterRun(t *testing.T) {
	cfg := layout.DefaultConfig()
	cfg.RankSep = 64
	e := layout.New(cfg)

	g := diamond(t)
	if _, err := e.Run(context.Background(), g); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if e.Config.RankSep != 64 {
		t.Errorf("RankSep not restored after Run: got %f, want 64", e.Config.RankSep)
	}
}

func TestEngineRunSelfLoopReattached(t *testing.T) {
	g := dag.New()
	a := g.AddNode(dag.Node{Width: 10, Height: 10})
	if _, err := g.AddEdge(a, a, dag.Edge{MinLen: 1}); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}

	e := layout.New(layout.DefaultConfig())
	res, err := e.Run(context.Background(), g)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Graph.EdgeCount() != 1 {
		t.Errorf("expected self-loop to be reattached, got %d edges", res.Graph.EdgeCount())
	}
}

func TestEngineRunRejectsInvalidConfig(t *testing.T) {
	cfg := layout.DefaultConfig()
	cfg.NodeSep = -5
	e := layout.New(cfg)

	if _, err := e.Run(context.Background(), dag.New()); err == nil {
		t.Fatal("expected error for invalid config")
	}
}

// TestEngineRunLongEdgeGetsPolyline covers scenario S3: an edge spanning
// more than one rank is normalized into a dummy chain and denormalized
// back into a single edge carrying a two-point polyline (first/last dummy
// coordinates), never one point per intervening rank.
func TestEngineRunLongEdgeGetsPolyline(t *testing.T) {
	g := dag.New()
	a := g.AddNode(dag.Node{Width: 10, Height: 10})
	mid1 := g.AddNode(dag.Node{Width: 10, Height: 10})
	mid2 := g.AddNode(dag.Node{Width: 10, Height: 10})
	z := g.AddNode(dag.Node{Width: 10, Height: 10})
	if _, err := g.AddEdge(a, mid1, dag.Edge{MinLen: 1}); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	if _, err := g.AddEdge(mid1, mid2, dag.Edge{MinLen: 1}); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	if _, err := g.AddEdge(mid2, z, dag.Edge{MinLen: 1}); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	longEdge, err := g.AddEdge(a, z, dag.Edge{MinLen: 1})
	if err != nil {
		t.Fatalf("AddEdge: %v", err)
	}

	e := layout.New(layout.DefaultConfig())
	res, err := e.Run(context.Background(), g)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	var normalized, denormalized int
	for _, sr := range res.Stats.Stages {
		switch sr.Stage {
		case "normalize":
			normalized = sr.DummiesAdded
		case "denormalize":
			denormalized = sr.DummiesRemoved
		}
	}
	if normalized == 0 {
		t.Fatal("expected Normalize to add dummy nodes for the long edge")
	}
	if denormalized != normalized {
		t.Errorf("DummiesRemoved = %d, want %d (all normalize dummies collapsed back)", denormalized, normalized)
	}

	found := false
	for _, eid := range res.Graph.Edges() {
		edge, _ := res.Graph.Edge(eid)
		if edge.OriginalID != longEdge {
			continue
		}
		found = true
		if len(edge.Points) != 2 {
			t.Errorf("long edge Points length = %d, want 2", len(edge.Points))
		}
	}
	if !found {
		t.Fatal("long edge missing from output graph")
	}
}

// TestEngineRunCycleReversalRoundTrips covers scenario S4: a cycle is
// broken by reversing one edge for layout purposes, and the final output
// graph has the same edge set (by endpoints) as the input, with no edge
// left marked Reversed.
func TestEngineRunCycleReversalRoundTrips(t *testing.T) {
	g := dag.New()
	a := g.AddNode(dag.Node{Width: 10, Height: 10})
	b := g.AddNode(dag.Node{Width: 10, Height: 10})
	c := g.AddNode(dag.Node{Width: 10, Height: 10})
	if _, err := g.AddEdge(a, b, dag.Edge{MinLen: 1}); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	if _, err := g.AddEdge(b, c, dag.Edge{MinLen: 1}); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	if _, err := g.AddEdge(c, a, dag.Edge{MinLen: 1}); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}

	e := layout.New(layout.DefaultConfig())
	res, err := e.Run(context.Background(), g)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	var acyclicReversed int
	for _, sr := range res.Stats.Stages {
		if sr.Stage == "acyclic" {
			acyclicReversed = sr.EdgesReversed
		}
	}
	if acyclicReversed == 0 {
		t.Fatal("expected Acyclic to reverse at least one edge of the 3-cycle")
	}

	gotEdges := map[[2]dag.NodeID]bool{}
	for _, eid := range res.Graph.Edges() {
		edge, _ := res.Graph.Edge(eid)
		if edge.Reversed {
			t.Errorf("edge %d still marked Reversed in final output", eid)
		}
		src, dst, _ := res.Graph.Endpoints(eid)
		gotEdges[[2]dag.NodeID{src, dst}] = true
	}
	wantEdges := map[[2]dag.NodeID]bool{{a, b}: true, {b, c}: true, {c, a}: true}
	if len(gotEdges) != len(wantEdges) {
		t.Fatalf("output has %d edges, want %d", len(gotEdges), len(wantEdges))
	}
	for k := range wantEdges {
		if !gotEdges[k] {
			t.Errorf("missing edge %v in output", k)
		}
	}
}

// TestEngineRunUndirectedDedupesEdges covers scenario S6: an undirected
// two-node graph produces exactly one output edge, not a mirrored pair.
func TestEngineRunUndirectedDedupesEdges(t *testing.T) {
	g := dag.New()
	g.SetDirected(false)
	a := g.AddNode(dag.Node{Width: 10, Height: 10})
	b := g.AddNode(dag.Node{Width: 10, Height: 10})
	if _, err := g.AddEdge(a, b, dag.Edge{MinLen: 1}); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}

	cfg := layout.DefaultConfig()
	cfg.Directed = false
	e := layout.New(cfg)

	res, err := e.Run(context.Background(), g)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Graph.EdgeCount() != 1 {
		t.Errorf("expected 1 deduplicated edge in undirected output, got %d", res.Graph.EdgeCount())
	}
}
