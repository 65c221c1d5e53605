package layout

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/sugilayout/sugilayout/pkg/layout/order"
	"github.com/sugilayout/sugilayout/pkg/layout/position"
	"github.com/sugilayout/sugilayout/pkg/layouterr"
)

// RankDir selects which screen axis increasing rank maps to. It mirrors
// position.RankDir so callers configuring an Engine never need to import
// the position package directly.
type RankDir = position.RankDir

const (
	RankDirTB = position.RankDirTB
	RankDirBT = position.RankDirBT
	RankDirLR = position.RankDirLR
	RankDirRL = position.RankDirRL
)

// Config holds every tunable of a layout run: separation distances,
// orientation, and the algorithm switches spec.md §4 calls out (whether to
// run network-simplex refinement, how many order sweeps to allow).
//
// Grounded on the teacher's pipeline.Options (pkg/pipeline/pipeline.go):
// one struct carrying every stage's knobs plus a Logger field, with a
// SetDefaults-style method applying zero-value defaults idempotently.
type Config struct {
	// NodeSep is the minimum horizontal gap between adjacent non-dummy
	// nodes within a rank.
	NodeSep float64
	// EdgeSep is the minimum horizontal gap around dummy (edge-label)
	// nodes within a rank.
	EdgeSep float64
	// UniversalSep, when > 0, overrides NodeSep and EdgeSep uniformly.
	UniversalSep float64
	// RankSep is the gap between successive ranks. Engine.Run halves this
	// for the duration of a run (Build doubles every edge's MinLen to
	// match, since minLen is expressed in half-rank units internally) and
	// restores the caller's original value before returning.
	RankSep float64

	// RankDir selects the orientation ranks are laid out in. Defaults to
	// RankDirTB.
	RankDir RankDir

	// Directed indicates whether the input graph's edges should be
	// treated as directed. When false, Build adds a mirror of every edge
	// so the pipeline can still produce a meaningful acyclic ranking.
	Directed bool

	// UseSimplex enables network-simplex refinement of the initial
	// feasible ranking (spec.md §4.3.3). Disabling it yields a faster but
	// less compact ranking.
	UseSimplex bool

	// OrderMaxSweeps bounds the Order stage's down/up/transpose rounds.
	// Zero uses the Orderer's own default.
	OrderMaxSweeps int

	// DebugLevel is carried in the configuration but not read by
	// Engine.Run, which always logs per-stage details at debug level.
	DebugLevel int

	// Logger receives per-stage progress. A nil Logger discards output.
	Logger *log.Logger
}

// DefaultConfig returns a Config with spec.md-reasonable separation
// defaults: simplex ranking enabled, top-to-bottom orientation.
func DefaultConfig() Config {
	return Config{
		NodeSep:        50,
		EdgeSep:        10,
		RankSep:        50,
		RankDir:        RankDirTB,
		Directed:       true,
		UseSimplex:     true,
		OrderMaxSweeps: 24,
		Logger:         log.NewWithOptions(io.Discard, log.Options{}),
	}
}

// setDefaults fills zero-valued fields with DefaultConfig's values,
// mirroring the teacher's SetLayoutDefaults/SetRenderDefaults idempotent
// default-filling style.
func (c *Config) setDefaults() {
	d := DefaultConfig()
	if c.NodeSep == 0 {
		c.NodeSep = d.NodeSep
	}
	if c.EdgeSep == 0 {
		c.EdgeSep = d.EdgeSep
	}
	if c.RankSep == 0 {
		c.RankSep = d.RankSep
	}
	if c.RankDir == "" {
		c.RankDir = d.RankDir
	}
	if c.OrderMaxSweeps == 0 {
		c.OrderMaxSweeps = d.OrderMaxSweeps
	}
	if c.Logger == nil {
		c.Logger = d.Logger
	}
}

// Validate checks Config for the invalid-input conditions spec.md §7
// names (negative separation, unknown RankDir).
func (c Config) Validate() error {
	if c.NodeSep < 0 || c.EdgeSep < 0 || c.RankSep < 0 || c.UniversalSep < 0 {
		return layouterr.New(layouterr.ErrCodeInvalidInput, "separation values must be non-negative")
	}
	switch c.RankDir {
	case "", RankDirTB, RankDirBT, RankDirLR, RankDirRL:
	default:
		return layouterr.New(layouterr.ErrCodeInvalidInput, "unknown rank_dir %q", c.RankDir)
	}
	return nil
}

func (c Config) orderOptions() order.Options {
	return order.Options{MaxSweeps: c.OrderMaxSweeps}
}

func (c Config) positionOptions() position.Options {
	return position.Options{
		NodeSep:      c.NodeSep,
		EdgeSep:      c.EdgeSep,
		UniversalSep: c.UniversalSep,
		RankSep:      c.RankSep,
		RankDir:      c.RankDir,
	}
}
