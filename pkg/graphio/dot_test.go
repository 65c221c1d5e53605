package graphio_test

import (
	"strings"
	"testing"

	"github.com/sugilayout/sugilayout/pkg/dag"
	"github.com/sugilayout/sugilayout/pkg/graphio"
)

func TestToDOTEmitsUndirectedKeywordAndOperator(t *testing.T) {
	g := dag.New()
	g.SetDirected(false)
	a := g.AddNode(dag.Node{Width: 10, Height: 10})
	b := g.AddNode(dag.Node{Width: 10, Height: 10})
	if _, err := g.AddEdge(a, b, dag.Edge{MinLen: 1}); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}

	out := graphio.ToDOT(g)
	if !strings.HasPrefix(out, "graph G {") {
		t.Errorf("expected undirected header, got: %s", out)
	}
	if !strings.Contains(out, "--") {
		t.Errorf("expected -- edge operator, got: %s", out)
	}
	if strings.Contains(out, "->") {
		t.Errorf("undirected output should not contain ->, got: %s", out)
	}
}

func TestToDOTEmitsDirectedKeywordAndOperator(t *testing.T) {
	g := dag.New()
	a := g.AddNode(dag.Node{Width: 10, Height: 10})
	b := g.AddNode(dag.Node{Width: 10, Height: 10})
	if _, err := g.AddEdge(a, b, dag.Edge{MinLen: 1}); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}

	out := graphio.ToDOT(g)
	if !strings.HasPrefix(out, "digraph G {") {
		t.Errorf("expected directed header, got: %s", out)
	}
	if !strings.Contains(out, "->") {
		t.Errorf("expected -> edge operator, got: %s", out)
	}
}

func TestFromDOTRoundTripsDirectedness(t *testing.T) {
	for _, directed := range []bool{true, false} {
		g := dag.New()
		g.SetDirected(directed)
		a := g.AddNode(dag.Node{Width: 10, Height: 10})
		b := g.AddNode(dag.Node{Width: 10, Height: 10})
		if _, err := g.AddEdge(a, b, dag.Edge{MinLen: 1}); err != nil {
			t.Fatalf("AddEdge: %v", err)
		}

		dot := graphio.ToDOT(g)
		g2, err := graphio.FromDOT([]byte(dot))
		if err != nil {
			t.Fatalf("FromDOT: %v", err)
		}
		if g2.Directed() != directed {
			t.Errorf("FromDOT: Directed() = %v, want %v", g2.Directed(), directed)
		}
		if g2.EdgeCount() != 1 {
			t.Errorf("FromDOT: EdgeCount() = %d, want 1", g2.EdgeCount())
		}
	}
}
