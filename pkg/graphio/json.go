package graphio

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/sugilayout/sugilayout/pkg/dag"
	"github.com/sugilayout/sugilayout/pkg/layouterr"
)

// FromDAG converts a dag.Graph into its wire representation, including X/Y
// coordinates and edge Points when present (i.e. after a layout.Engine run).
// Node IDs are synthesized as "n<handle>" since dag.NodeID carries no
// external identity. ToDAG assigns fresh handles in order, so a round trip
// through FromDAG/ToDAG gives back the same synthesized IDs only when the
// original handles run 1..n without gaps.
func FromDAG(g *dag.Graph) Graph {
	wg := Graph{Directed: g.Directed()}
	idOf := nodeIDIndex(g)

	for _, nid := range g.Nodes() {
		n, _ := g.Node(nid)
		wn := Node{
			ID:     idOf[nid],
			Width:  n.Width,
			Height: n.Height,
			Attrs:  copyAttrs(n.Attrs),
		}
		switch n.PrefRank.Kind {
		case dag.PrefRankMin:
			wn.RankPin = "min"
		case dag.PrefRankMax:
			wn.RankPin = "max"
		case dag.PrefRankInteger:
			v := n.PrefRank.Value
			wn.RankClass = &v
		}
		if n.X != 0 || n.Y != 0 {
			x, y := n.X, n.Y
			wn.X, wn.Y = &x, &y
		}
		wg.Nodes = append(wg.Nodes, wn)
	}

	for _, eid := range g.Edges() {
		src, dst, _ := g.Endpoints(eid)
		e, _ := g.Edge(eid)
		we := Edge{
			Source: idOf[src],
			Target: idOf[dst],
			MinLen: e.MinLen,
			Width:  e.Width,
			Height: e.Height,
			Attrs:  copyAttrs(e.Attrs),
		}
		for _, p := range e.Points {
			we.Points = append(we.Points, Point{X: p.X, Y: p.Y, UL: p.UL, UR: p.UR, DL: p.DL, DR: p.DR})
		}
		wg.Edges = append(wg.Edges, we)
	}
	return wg
}

// ToDAG converts a wire Graph into a dag.Graph, ignoring X/Y/Points (those
// are layout output, never layout input). The returned graph's Directed
// bit reflects wg.Directed; callers that run it through layout.Engine
// should set Config.Directed to match before calling Run.
func ToDAG(wg Graph) (*dag.Graph, error) {
	g := dag.New()
	g.SetDirected(wg.Directed)
	byID := make(map[string]dag.NodeID, len(wg.Nodes))

	for _, wn := range wg.Nodes {
		if wn.ID == "" {
			return nil, layouterr.New(layouterr.ErrCodeInvalidInput, "node missing id")
		}
		if _, dup := byID[wn.ID]; dup {
			return nil, layouterr.New(layouterr.ErrCodeInvalidInput, "duplicate node id %q", wn.ID)
		}
		n := dag.Node{Width: wn.Width, Height: wn.Height, Attrs: copyAttrs(wn.Attrs)}
		switch wn.RankPin {
		case "":
		case "min":
			n.PrefRank = dag.PrefRank{Kind: dag.PrefRankMin}
		case "max":
			n.PrefRank = dag.PrefRank{Kind: dag.PrefRankMax}
		default:
			return nil, layouterr.New(layouterr.ErrCodeInvalidInput, "node %q: unknown rank_pin %q", wn.ID, wn.RankPin)
		}
		if wn.RankClass != nil {
			n.PrefRank = dag.PrefRank{Kind: dag.PrefRankInteger, Value: *wn.RankClass}
		}
		byID[wn.ID] = g.AddNode(n)
	}

	for _, we := range wg.Edges {
		src, ok := byID[we.Source]
		if !ok {
			return nil, layouterr.New(layouterr.ErrCodeInvalidInput, "edge references unknown source %q", we.Source)
		}
		dst, ok := byID[we.Target]
		if !ok {
			return nil, layouterr.New(layouterr.ErrCodeInvalidInput, "edge references unknown target %q", we.Target)
		}
		e := dag.Edge{MinLen: we.MinLen, Width: we.Width, Height: we.Height, Attrs: copyAttrs(we.Attrs)}
		if _, err := g.AddEdge(src, dst, e); err != nil {
			return nil, layouterr.Wrap(layouterr.ErrCodeInvalidInput, err, "edge %s->%s", we.Source, we.Target)
		}
	}
	return g, nil
}

// MarshalGraph renders g as indented JSON.
func MarshalGraph(g *dag.Graph) ([]byte, error) {
	data, err := json.MarshalIndent(FromDAG(g), "", "  ")
	if err != nil {
		return nil, layouterr.Wrap(layouterr.ErrCodeInternal, err, "marshal graph")
	}
	return data, nil
}

// WriteGraph writes g to w as JSON.
func WriteGraph(g *dag.Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(FromDAG(g)); err != nil {
		return layouterr.Wrap(layouterr.ErrCodeInternal, err, "write graph")
	}
	return nil
}

// WriteGraphFile writes g to a JSON file at path.
func WriteGraphFile(g *dag.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return layouterr.Wrap(layouterr.ErrCodeInternal, err, "create %s", path)
	}
	defer f.Close()
	return WriteGraph(g, f)
}

// ReadGraph parses a JSON-encoded wire Graph from r and converts it.
func ReadGraph(r io.Reader) (*dag.Graph, error) {
	var wg Graph
	if err := json.NewDecoder(r).Decode(&wg); err != nil {
		return nil, layouterr.Wrap(layouterr.ErrCodeInvalidInput, err, "decode graph")
	}
	return ToDAG(wg)
}

// ReadGraphFile reads and converts a JSON graph file at path.
func ReadGraphFile(path string) (*dag.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, layouterr.Wrap(layouterr.ErrCodeNotFound, err, "open %s", path)
	}
	defer f.Close()
	return ReadGraph(f)
}

// UnmarshalGraph parses a JSON-encoded wire Graph from data and converts it.
func UnmarshalGraph(data []byte) (*dag.Graph, error) {
	var wg Graph
	if err := json.Unmarshal(data, &wg); err != nil {
		return nil, layouterr.Wrap(layouterr.ErrCodeInvalidInput, err, "unmarshal graph")
	}
	return ToDAG(wg)
}

func nodeIDIndex(g *dag.Graph) map[dag.NodeID]string {
	idx := make(map[dag.NodeID]string, g.NodeCount())
	for _, nid := range g.Nodes() {
		idx[nid] = fmt.Sprintf("n%d", nid)
	}
	return idx
}

func copyAttrs(m map[string]any) map[string]any {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
