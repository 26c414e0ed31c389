// Package api exposes the layout pipeline over HTTP.
//
// The server wraps a pipeline.Runner and an optional tree store. Layout
// requests either carry the tree inline (POST /v1/layout) or reference a
// stored tree by id (GET /v1/trees/{treeID}/layout).
package api

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/kintree/kintree/pkg/pipeline"
	"github.com/kintree/kintree/pkg/store"
)

// Server handles HTTP requests for layouts and stored trees.
type Server struct {
	runner *pipeline.Runner
	store  store.TreeStore
	logger *log.Logger
	router chi.Router
}

// NewServer builds a server around a runner. Tree CRUD routes return 503
// when the runner has no store configured.
func NewServer(runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		runner: runner,
		store:  runner.Store,
		logger: logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/layout", s.handleLayout)
		r.Route("/trees", func(r chi.Router) {
			r.Get("/", s.handleListTrees)
			r.Post("/", s.handleCreateTree)
			r.Route("/{treeID}", func(r chi.Router) {
				r.Get("/", s.handleGetTree)
				r.Put("/", s.handleUpdateTree)
				r.Delete("/", s.handleDeleteTree)
				r.Get("/layout", s.handleTreeLayout)
			})
		})
	})
	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
