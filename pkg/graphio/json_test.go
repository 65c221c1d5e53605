package graphio_test

import (
	"testing"

	"github.com/sugilayout/sugilayout/pkg/dag"
	"github.com/sugilayout/sugilayout/pkg/graphio"
)

func TestFromDAGToDAGDirectedRoundTrips(t *testing.T) {
	for _, directed := range []bool{true, false} {
		g := dag.New()
		g.SetDirected(directed)
		a := g.AddNode(dag.Node{Width: 10, Height: 10})
		b := g.AddNode(dag.Node{Width: 10, Height: 10})
		if _, err := g.AddEdge(a, b, dag.Edge{MinLen: 1}); err != nil {
			t.Fatalf("AddEdge: %v", err)
		}

		wg := graphio.FromDAG(g)
		if wg.Directed != directed {
			t.Errorf("FromDAG: Directed = %v, want %v", wg.Directed, directed)
		}

		g2, err := graphio.ToDAG(wg)
		if err != nil {
			t.Fatalf("ToDAG: %v", err)
		}
		if g2.Directed() != directed {
			t.Errorf("ToDAG: Directed() = %v, want %v", g2.Directed(), directed)
		}
	}
}

// TestUnmarshalGraphDefaultsDirected covers graphs that omit the
// "directed" field entirely: Go's JSON decoder leaves the bool false,
// matching the zero value rather than silently assuming directed input.
func TestUnmarshalGraphDefaultsDirected(t *testing.T) {
	data := []byte(`{"nodes":[{"id":"n1"},{"id":"n2"}],"edges":[{"source":"n1","target":"n2"}]}`)
	g, err := graphio.UnmarshalGraph(data)
	if err != nil {
		t.Fatalf("UnmarshalGraph: %v", err)
	}
	if g.Directed() {
		t.Error("expected Directed() = false when the wire graph omits \"directed\"")
	}
}
