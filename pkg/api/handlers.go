package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sugilayout/sugilayout/pkg/cache"
	"github.com/sugilayout/sugilayout/pkg/graphio"
	"github.com/sugilayout/sugilayout/pkg/history"
	"github.com/sugilayout/sugilayout/pkg/layout"
	"github.com/sugilayout/sugilayout/pkg/layouterr"
	"github.com/sugilayout/sugilayout/pkg/observability"
)

// layoutRequest is the POST /v1/layouts request body: a graph plus an
// optional partial layout.Config.
type layoutRequest struct {
	Graph  graphio.Graph `json:"graph"`
	Config requestConfig `json:"config"`
}

// requestConfig mirrors the subset of layout.Config a caller can tune over
// the wire. Zero or absent fields keep layout.DefaultConfig's values, since
// toLayoutConfig starts from DefaultConfig.
type requestConfig struct {
	RankDir      string  `json:"rank_dir,omitempty"`
	NodeSep      float64 `json:"node_sep,omitempty"`
	EdgeSep      float64 `json:"edge_sep,omitempty"`
	RankSep      float64 `json:"rank_sep,omitempty"`
	UniversalSep float64 `json:"universal_sep,omitempty"`
	UseSimplex   *bool   `json:"use_simplex,omitempty"`
	Directed     *bool   `json:"directed,omitempty"`
}

func (rc requestConfig) toLayoutConfig() layout.Config {
	cfg := layout.DefaultConfig()
	if rc.RankDir != "" {
		cfg.RankDir = layout.RankDir(rc.RankDir)
	}
	if rc.NodeSep != 0 {
		cfg.NodeSep = rc.NodeSep
	}
	if rc.EdgeSep != 0 {
		cfg.EdgeSep = rc.EdgeSep
	}
	if rc.RankSep != 0 {
		cfg.RankSep = rc.RankSep
	}
	if rc.UniversalSep != 0 {
		cfg.UniversalSep = rc.UniversalSep
	}
	if rc.UseSimplex != nil {
		cfg.UseSimplex = *rc.UseSimplex
	}
	if rc.Directed != nil {
		cfg.Directed = *rc.Directed
	}
	return cfg
}

// layoutResponse is the POST /v1/layouts response body.
type layoutResponse struct {
	RunID string        `json:"run_id"`
	Graph graphio.Graph `json:"graph"`
	Stats responseStats `json:"stats"`
}

type responseStats struct {
	Stages     []string `json:"stages"`
	DurationMS int64    `json:"duration_ms"`
}

func (s *Server) handleCreateLayout(w http.ResponseWriter, r *http.Request) {
	var req layoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, layouterr.Wrap(layouterr.ErrCodeInvalidInput, err, "decode request body"))
		return
	}

	g, err := graphio.ToDAG(req.Graph)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	cfg := req.Config.toLayoutConfig()
	cfg.Logger = s.Logger
	if req.Config.Directed == nil {
		cfg.Directed = g.Directed()
	}

	graphData, _ := json.Marshal(req.Graph)
	graphHash := cache.Hash(graphData)
	key := s.Keyer.LayoutKey(graphHash, cache.LayoutKeyOpts{
		RankDir:      string(cfg.RankDir),
		NodeSep:      cfg.NodeSep,
		RankSep:      cfg.RankSep,
		UniversalSep: cfg.UniversalSep,
		UseSimplex:   cfg.UseSimplex,
	})

	ctx := r.Context()
	if data, hit, err := s.Cache.Get(ctx, key); err == nil && hit {
		observability.Cache().OnCacheHit(ctx, "layout")
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
		return
	}
	observability.Cache().OnCacheMiss(ctx, "layout")

	eng := layout.New(cfg)
	res, err := eng.Run(ctx, g)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	stageNames := make([]string, len(res.Stats.Stages))
	for i, sr := range res.Stats.Stages {
		stageNames[i] = sr.Stage
	}

	resp := layoutResponse{
		RunID: res.Stats.RunID,
		Graph: graphio.FromDAG(res.Graph),
		Stats: responseStats{Stages: stageNames, DurationMS: res.Stats.Total.Milliseconds()},
	}
	data, err := json.Marshal(resp)
	if err != nil {
		s.writeError(w, r, layouterr.Wrap(layouterr.ErrCodeInternal, err, "encode response"))
		return
	}

	_ = s.Cache.Set(ctx, key, data, ttlLayout)
	s.recordHistory(ctx, res.Stats.RunID, graphHash, cfg, g.NodeCount(), g.EdgeCount(), stageNames, res.Stats.Total)

	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func (s *Server) recordHistory(ctx context.Context, runID, graphHash string, cfg layout.Config, nodeCount, edgeCount int, stageNames []string, dur time.Duration) {
	run := history.Run{
		RunID:     runID,
		GraphHash: graphHash,
		Config: history.Config{
			RankDir:      string(cfg.RankDir),
			NodeSep:      cfg.NodeSep,
			EdgeSep:      cfg.EdgeSep,
			RankSep:      cfg.RankSep,
			UniversalSep: cfg.UniversalSep,
			UseSimplex:   cfg.UseSimplex,
		},
		NodeCount:  nodeCount,
		EdgeCount:  edgeCount,
		StageNames: stageNames,
		Duration:   dur.Nanoseconds(),
		CreatedAt:  time.Now(),
	}
	if err := s.History.Record(ctx, run); err != nil {
		s.Logger.Warn("record history failed", "run_id", runID, "err", err)
	}
}

func (s *Server) handleGetLayout(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	run, err := s.History.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(run)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)
	status := statusForCode(layouterr.GetCode(err))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": layouterr.UserMessage(err)})
}

func statusForCode(code layouterr.Code) int {
	switch code {
	case layouterr.ErrCodeInvalidInput, layouterr.ErrCodeInvalidGraph, layouterr.ErrCodeInvalidConfig:
		return http.StatusBadRequest
	case layouterr.ErrCodeNotFound, layouterr.ErrCodeRunNotFound:
		return http.StatusNotFound
	case layouterr.ErrCodeConstraintInfeasible, layouterr.ErrCodeNotAcyclic, layouterr.ErrCodeNoEnterEdge, layouterr.ErrCodeSimplexDidNotConverge:
		return http.StatusUnprocessableEntity
	case layouterr.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
