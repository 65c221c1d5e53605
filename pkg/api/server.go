// Package api exposes the layout engine over HTTP: POST a graph and get
// back node positions and edge polylines; GET a previous run's stats by
// ID.
//
// Grounded on the teacher's pkg/pipeline.Runner for the shape of a
// request handler that wires cache + logger around a compute step, and on
// go-chi/chi/v5's own idiomatic router/middleware usage (no file in the
// retrieval pack exercises chi beyond the teacher's go.mod listing it, so
// this follows chi's documented conventions directly).
package api

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/sugilayout/sugilayout/pkg/cache"
	"github.com/sugilayout/sugilayout/pkg/history"
	"github.com/sugilayout/sugilayout/pkg/observability"
)

// ttlLayout bounds how long a computed layout response stays cached.
const ttlLayout = 24 * time.Hour

// Server holds the dependencies HTTP handlers share.
type Server struct {
	Cache   cache.Cache
	Keyer   cache.Keyer
	History history.Store
	Logger  *log.Logger
}

// NewServer creates a Server. A nil cache defaults to a no-op NullCache;
// a nil history defaults to a no-op NullStore, so Server is usable
// without either dependency configured.
func NewServer(c cache.Cache, h history.Store, logger *log.Logger) *Server {
	if c == nil {
		c = cache.NewNullCache()
	}
	if h == nil {
		h = history.NullStore{}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Server{Cache: c, Keyer: cache.NewDefaultKeyer(), History: h, Logger: logger}
}

// Router builds the chi router serving this Server's endpoints.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Route("/v1/layouts", func(r chi.Router) {
		r.Post("/", s.handleCreateLayout)
		r.Get("/{id}", s.handleGetLayout)
	})

	return r
}

// instrument fires pkg/observability's HTTPHooks around every request.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		observability.HTTP().OnRequest(r.Context(), r.Method, r.URL.Path)
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		observability.HTTP().OnResponse(r.Context(), r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
