package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"statkit/internal"
	"statkit/ports"
	"statkit/stat"
)

// Server exposes the statistic kernels over HTTP.
type Server struct {
	router  *chi.Mux
	runs    ports.RunRepository
	logger  *internal.Logger
	workers int
}

// Config holds server construction options.
type Config struct {
	Runs    ports.RunRepository
	Logger  *internal.Logger
	Workers int
}

// NewServer creates the HTTP server and mounts its routes.
func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = internal.NewDefaultLogger()
	}
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}

	s := &Server{
		router:  chi.NewRouter(),
		runs:    cfg.Runs,
		logger:  logger,
		workers: workers,
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)

	s.router.Route("/v1", func(r chi.Router) {
		r.Get("/tests", s.handleListTests)
		r.Post("/tests/{name}", s.handleEvaluate)
		r.Get("/runs", s.handleListRuns)
		r.Get("/runs/{id}", s.handleGetRun)
	})

	return s
}

// Handler returns the routed handler for use with http.Server or tests.
func (s *Server) Handler() http.Handler { return s.router }

// Serve blocks listening on the given address.
func (s *Server) Serve(addr string) error {
	s.logger.Info("api listening on %s (%d kernels)", addr, len(stat.Kernels()))
	return http.ListenAndServe(addr, s.router)
}
