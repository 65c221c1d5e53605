package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/sugilayout/sugilayout/pkg/cache"
	"github.com/sugilayout/sugilayout/pkg/dag"
	"github.com/sugilayout/sugilayout/pkg/graphio"
	"github.com/sugilayout/sugilayout/pkg/layout"
)

// ttlLayout bounds how long a computed layout stays cached.
const ttlLayout = 24 * time.Hour

// layoutCommand creates the layout command for computing a hierarchical
// layout from an input graph.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		format  string
		noCache bool
	)
	cfg := layout.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "layout [graph.json|graph.dot]",
		Short: "Compute a hierarchical layout from an input graph",
		Long: `Compute a hierarchical layout from an input graph.

The layout command takes a graph file (JSON, or DOT when the input ends in
.dot) and runs it through the ten-stage Sugiyama pipeline: build, cycle
breaking, rank assignment, dummy-node normalization, crossing-reduction
ordering, coordinate assignment, denormalization, and self-loop reattachment.
The output carries node X/Y coordinates and edge polylines in the same
format (JSON or DOT, selected with --format).

Results are cached locally for faster subsequent runs of the same graph and
configuration.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			directedSet := cmd.Flags().Changed("directed")
			return c.runLayout(cmd.Context(), args[0], cfg, output, format, noCache, directedSet)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.<format>)")
	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json, dot")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	cmd.Flags().Float64Var(&cfg.NodeSep, "node-sep", cfg.NodeSep, "minimum horizontal gap between nodes in a rank")
	cmd.Flags().Float64Var(&cfg.EdgeSep, "edge-sep", cfg.EdgeSep, "minimum horizontal gap around dummy nodes in a rank")
	cmd.Flags().Float64Var(&cfg.UniversalSep, "universal-sep", cfg.UniversalSep, "overrides node-sep and edge-sep uniformly when > 0")
	cmd.Flags().Float64Var(&cfg.RankSep, "rank-sep", cfg.RankSep, "gap between successive ranks")
	cmd.Flags().StringVar((*string)(&cfg.RankDir), "rank-dir", string(cfg.RankDir), "orientation: TB, BT, LR, RL")
	cmd.Flags().BoolVar(&cfg.Directed, "directed", cfg.Directed, "treat input edges as directed")
	cmd.Flags().BoolVar(&cfg.UseSimplex, "simplex", cfg.UseSimplex, "refine ranking with network simplex")
	cmd.Flags().IntVar(&cfg.OrderMaxSweeps, "order-max-sweeps", cfg.OrderMaxSweeps, "max down/up/transpose sweeps for crossing reduction")

	return cmd
}

// runLayout loads the graph, computes the layout, and writes output.
// directedSet reports whether the user explicitly passed --directed; when
// they didn't, the graph file's own directedness (from its JSON "directed"
// field or its DOT "digraph"/"graph" keyword) wins over cfg's default.
func (c *CLI) runLayout(ctx context.Context, input string, cfg layout.Config, output, format string, noCache, directedSet bool) error {
	g, inputData, err := readGraphFile(input)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
	}
	if !directedSet {
		cfg.Directed = g.Directed()
	}

	cacheImpl, err := newCache(noCache)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}
	defer cacheImpl.Close()
	keyer := cache.NewDefaultKeyer()

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		outputPath = fmt.Sprintf("%s.layout.%s", base, format)
	}

	graphHash := cache.Hash(inputData)
	cacheKey := keyer.LayoutKey(graphHash, cache.LayoutKeyOpts{
		RankDir:      string(cfg.RankDir),
		NodeSep:      cfg.NodeSep,
		RankSep:      cfg.RankSep,
		UniversalSep: cfg.UniversalSep,
		UseSimplex:   cfg.UseSimplex,
	}) + ":" + format

	if data, hit, err := cacheImpl.Get(ctx, cacheKey); err == nil && hit {
		if err := os.WriteFile(outputPath, data, 0644); err != nil {
			return fmt.Errorf("write output %s: %w", outputPath, err)
		}
		printSuccess("Layout complete")
		printFile(outputPath)
		printStats(g.NodeCount(), g.EdgeCount(), true)
		return nil
	}

	cfg.Logger = c.Logger
	eng := layout.New(cfg)

	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()

	res, err := eng.Run(ctx, g)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputData, err := encodeGraph(res.Graph, format)
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	if err := os.WriteFile(outputPath, outputData, 0644); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}
	_ = cacheImpl.Set(ctx, cacheKey, outputData, ttlLayout)

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(g.NodeCount(), g.EdgeCount(), false)
	printNewline()
	printDetail("run %s, %d stages, %s", res.Stats.RunID, len(res.Stats.Stages), res.Stats.Total.Round(time.Millisecond))

	return nil
}

// readGraphFile loads a graph from path (JSON unless it ends in .dot) and
// returns both the parsed graph and the raw bytes read, the latter used to
// derive a stable cache key.
func readGraphFile(path string) (*dag.Graph, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	if strings.EqualFold(filepath.Ext(path), ".dot") {
		g, err := graphio.FromDOT(data)
		return g, data, err
	}
	g, err := graphio.UnmarshalGraph(data)
	return g, data, err
}

// encodeGraph renders g in the requested output format.
func encodeGraph(g *dag.Graph, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "", "json":
		return graphio.MarshalGraph(g)
	case "dot":
		return []byte(graphio.ToDOT(g)), nil
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}
