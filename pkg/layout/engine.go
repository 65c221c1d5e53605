// Package layout provides the Engine orchestrator that runs a dag.Graph
// through all ten pipeline stages in order (spec.md §2): Build, Acyclic,
// Rank, Normalize, Order, Position, Denormalize, Fixup, Unacyclic, Emit.
//
// Grounded on the teacher's pkg/pipeline.Runner/Execute (pkg/pipeline/
// runner.go): a single Execute-style entry point that runs each stage in
// turn, times it, logs a summary, and accumulates per-stage stats into a
// Result - generalized from the teacher's three coarse stages (parse,
// layout, render) to this engine's ten fine-grained ones, and from the
// teacher's cache-wrapped stage helpers to direct dag/transform calls
// (caching a layout run is pkg/cache's concern, exercised by pkg/api, not
// the engine's).
package layout

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sugilayout/sugilayout/pkg/dag"
	"github.com/sugilayout/sugilayout/pkg/dag/transform"
	"github.com/sugilayout/sugilayout/pkg/layout/order"
	"github.com/sugilayout/sugilayout/pkg/layout/position"
	"github.com/sugilayout/sugilayout/pkg/layouterr"
	"github.com/sugilayout/sugilayout/pkg/observability"
)

// Engine runs the ten-stage pipeline over a dag.Graph. The zero value is
// not usable; create one with New. Each Run call owns its own *dag.Graph
// arena (spec.md §5), but Run halves Config.RankSep in place for the
// duration of the call (see scopeRankSep), so an Engine is not safe for
// concurrent Run calls.
type Engine struct {
	Config     Config
	Orderer    order.Orderer
	Positioner position.Positioner
}

// New creates an Engine with cfg (defaults filled in) and the default
// median-heuristic Orderer and cumulative-offset Positioner.
func New(cfg Config) *Engine {
	cfg.setDefaults()
	return &Engine{
		Config:     cfg,
		Orderer:    order.NewMedianOrderer(),
		Positioner: position.NewOffsetPositioner(),
	}
}

// Stats accumulates per-stage metrics and total wall-clock time for a
// single Run, mirroring the teacher's pipeline.Stats shape generalized
// from three stages to ten.
type Stats struct {
	RunID  string
	Stages []*transform.StageResult
	Total  time.Duration
}

// Result is the outcome of a single Run: the positioned graph and the
// stats gathered while producing it.
type Result struct {
	Graph *dag.Graph
	Stats Stats
}

// Run executes the full pipeline over g and returns the positioned graph.
// g is mutated in place; Result.Graph is the same pointer for convenience.
//
// Panics raised by any stage (spec.md §9 notes these exist for invariants
// that "cannot happen") are recovered here and converted into a
// layouterr.ErrCodeInvariantViolation error, since Engine.Run is the pipeline's outer
// boundary (spec.md §5).
func (e *Engine) Run(ctx context.Context, g *dag.Graph) (res *Result, err error) {
	if err := e.Config.Validate(); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	start := time.Now()
	observability.Layout().OnRunStart(ctx, runID, g.NodeCount(), g.EdgeCount())
	defer func() {
		if r := recover(); r != nil {
			err = layouterr.New(layouterr.ErrCodeInvariantViolation, "panic during layout run %s: %v", runID, r)
		}
		observability.Layout().OnRunComplete(ctx, runID, time.Since(start), err)
	}()

	restoreRankSep := e.scopeRankSep()
	defer restoreRankSep()

	stats := Stats{RunID: runID}
	logger := e.Config.Logger

	runStage := func(name string, fn func() (*transform.StageResult, error)) error {
		observability.Layout().OnStageStart(ctx, runID, name)
		stageStart := time.Now()
		sr, stageErr := fn()
		duration := time.Since(stageStart)
		observability.Layout().OnStageComplete(ctx, runID, name, duration, stageErr)
		if stageErr != nil {
			logger.Error("stage failed", "stage", name, "error", stageErr)
			return fmt.Errorf("%s: %w", name, stageErr)
		}
		if sr != nil {
			stats.Stages = append(stats.Stages, sr)
		}
		logger.Debug("stage complete", "stage", name, "duration", duration)
		return nil
	}

	if err := runStage("build", func() (*transform.StageResult, error) {
		return transform.Build(g, e.Config.Directed), nil
	}); err != nil {
		return nil, err
	}

	var selfLoops []transform.SelfLoop
	if err := runStage("acyclic", func() (*transform.StageResult, error) {
		var sr *transform.StageResult
		selfLoops, sr = transform.Acyclic(g)
		return sr, nil
	}); err != nil {
		return nil, err
	}

	if err := runStage("rank", func() (*transform.StageResult, error) {
		return transform.Rank(g, e.Config.UseSimplex)
	}); err != nil {
		return nil, err
	}

	if err := runStage("normalize", func() (*transform.StageResult, error) {
		return transform.Normalize(g), nil
	}); err != nil {
		return nil, err
	}

	var ranks map[int][]dag.NodeID
	if err := runStage("order", func() (*transform.StageResult, error) {
		var orderErr error
		ranks, orderErr = e.Orderer.Order(g, e.Config.orderOptions())
		if orderErr != nil {
			return nil, orderErr
		}
		return &transform.StageResult{Stage: "order", MaxRank: g.MaxRank()}, nil
	}); err != nil {
		return nil, err
	}

	if err := runStage("position", func() (*transform.StageResult, error) {
		if posErr := e.Positioner.Position(g, ranks, e.Config.positionOptions()); posErr != nil {
			return nil, posErr
		}
		return &transform.StageResult{Stage: "position"}, nil
	}); err != nil {
		return nil, err
	}

	if err := runStage("denormalize", func() (*transform.StageResult, error) {
		return transform.Denormalize(g), nil
	}); err != nil {
		return nil, err
	}

	if err := runStage("fixup", func() (*transform.StageResult, error) {
		return transform.Fixup(g), nil
	}); err != nil {
		return nil, err
	}

	if err := runStage("unacyclic", func() (*transform.StageResult, error) {
		return transform.Unacyclic(g), nil
	}); err != nil {
		return nil, err
	}

	if err := runStage("emit", func() (*transform.StageResult, error) {
		return emit(g, selfLoops), nil
	}); err != nil {
		return nil, err
	}

	stats.Total = time.Since(start)
	logger.Info("layout run complete",
		"run_id", runID,
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"duration", stats.Total)

	return &Result{Graph: g, Stats: stats}, nil
}

// scopeRankSep halves Config.RankSep for the duration of a run (Build
// doubles every edge's MinLen to match) and returns a func restoring the
// original value on every exit path, including a recovered panic -
// spec.md §5's scoped rankSep/minLen transform, implemented with defer as
// the teacher's scoped-resource idiom (e.g. cache.Scoped*) does.
func (e *Engine) scopeRankSep() func() {
	orig := e.Config.RankSep
	e.Config.RankSep = orig / 2
	return func() { e.Config.RankSep = orig }
}
