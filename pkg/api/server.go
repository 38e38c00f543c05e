// Package api serves the converter over HTTP.
//
// Routes (all JSON unless noted):
//
//	GET   /healthz
//	GET   /v1/categories
//	GET   /v1/categories/{category}/units
//	GET   /v1/categories/{category}/table?value=&from=
//	GET   /v1/categories/{category}/diagram.{format}   (svg, png or dot)
//	GET   /v1/convert?value=&from=&to=[&category=][&strict=true]
//	GET   /v1/presets
//	GET   /v1/history?limit=
//	POST  /v1/sessions
//	GET   /v1/sessions/{id}
//	PATCH /v1/sessions/{id}
//
// /v1/convert follows the converter contract: input that cannot be converted
// yields {"result": ""} with status 200. Pass strict=true to get the coded
// error and its HTTP status instead.
package api

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/unitconv/pkg/errors"
	"github.com/matzehuels/unitconv/pkg/pipeline"
	"github.com/matzehuels/unitconv/pkg/session"
)

// DefaultAddr is the listen address used when none is configured.
const DefaultAddr = ":8080"

const shutdownTimeout = 10 * time.Second

// Server exposes a pipeline.Runner and a session store over HTTP.
type Server struct {
	Runner     *pipeline.Runner
	Sessions   session.Store
	SessionTTL time.Duration
	Logger     *log.Logger
}

// NewServer creates a server. A nil sessions store selects an in-memory one.
func NewServer(runner *pipeline.Runner, sessions session.Store, logger *log.Logger) *Server {
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, nil, nil, logger)
	}
	if sessions == nil {
		sessions = session.NewMemoryStore()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		Runner:     runner,
		Sessions:   sessions,
		SessionTTL: session.DefaultTTL,
		Logger:     logger,
	}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/categories", s.handleCategories)
		r.Route("/categories/{category}", func(r chi.Router) {
			r.Get("/units", s.handleUnits)
			r.Get("/table", s.handleTable)
			r.Get("/diagram.{format}", s.handleDiagram)
		})
		r.Get("/convert", s.handleConvert)
		r.Get("/presets", s.handlePresets)
		r.Get("/history", s.handleHistory)

		r.Post("/sessions", s.handleCreateSession)
		r.Get("/sessions/{id}", s.handleGetSession)
		r.Patch("/sessions/{id}", s.handlePatchSession)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: errorDetail{Code: errors.ErrCodeNotFound, Message: "no such route"}})
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.Logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
