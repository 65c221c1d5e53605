package dag_test

import (
	"fmt"

	"github.com/sugilayout/sugilayout/pkg/dag"
)

func ExampleGraph_basic() {
	// Build a tiny chain: app -> lib -> core.
	g := dag.New()
	app := g.AddNode(dag.Node{Width: 40, Height: 20})
	lib := g.AddNode(dag.Node{Width: 40, Height: 20})
	core := g.AddNode(dag.Node{Width: 40, Height: 20})
	_, _ = g.AddEdge(app, lib, dag.Edge{MinLen: 1})
	_, _ = g.AddEdge(lib, core, dag.Edge{MinLen: 1})

	fmt.Println("Nodes:", g.NodeCount())
	fmt.Println("Edges:", g.EdgeCount())
	// Output:
	// Nodes: 3
	// Edges: 2
}

func ExampleGraph_traversal() {
	// app fans out to auth and cache.
	g := dag.New()
	app := g.AddNode(dag.Node{})
	auth := g.AddNode(dag.Node{})
	cache := g.AddNode(dag.Node{})
	_, _ = g.AddEdge(app, auth, dag.Edge{MinLen: 1})
	_, _ = g.AddEdge(app, cache, dag.Edge{MinLen: 1})

	fmt.Println("Successors of app:", len(g.Successors(app)))
	fmt.Println("Predecessors of auth:", len(g.Predecessors(auth)))
	fmt.Println("Out-degree of app:", g.OutDegree(app))
	// Output:
	// Successors of app: 2
	// Predecessors of auth: 1
	// Out-degree of app: 2
}

func ExampleGraph_Sources() {
	// app and cli both feed into a shared dependency.
	g := dag.New()
	app := g.AddNode(dag.Node{})
	cli := g.AddNode(dag.Node{})
	shared := g.AddNode(dag.Node{})
	_, _ = g.AddEdge(app, shared, dag.Edge{MinLen: 1})
	_, _ = g.AddEdge(cli, shared, dag.Edge{MinLen: 1})

	fmt.Println("Source count:", len(g.Sources()))
	fmt.Println("Sink count:", len(g.Sinks()))
	// Output:
	// Source count: 2
	// Sink count: 1
}

func ExampleGraph_attrs() {
	// Attrs carries caller metadata through the pipeline untouched.
	g := dag.New()
	id := g.AddNode(dag.Node{
		Width:  120,
		Height: 40,
		Attrs:  map[string]any{"label": "fastapi"},
	})

	n, _ := g.Node(id)
	fmt.Println("Label:", n.Attrs["label"])
	fmt.Println("Width:", n.Width)
	// Output:
	// Label: fastapi
	// Width: 120
}
