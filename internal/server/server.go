package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/brainsynapse/synapse/internal/store"
)

// Server is a read-only introspection HTTP API over a Synapse Store.
// It performs no mutation — recall/distill remain CLI-invoked pipelines;
// this is an operator convenience, not part of the hot path.
type Server struct {
	st      *store.Store
	router  chi.Router
	version string
	started time.Time
}

// New creates a new Server over st, reporting version in /api/health.
func New(st *store.Store, version string) *Server {
	s := &Server{
		st:      st,
		version: version,
		started: time.Now(),
	}
	s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/top-concepts", s.handleTopConcepts)
		r.Get("/latent-stats", s.handleLatentStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
		"uptime":  time.Since(s.started).Seconds(),
		"dir":     s.st.Dir,
	})
}
