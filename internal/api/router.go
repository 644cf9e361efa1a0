package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(s.requestIDHeaderMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Health check
		r.Get("/health", s.handleHealth)

		// Cue table endpoints
		r.Route("/cues", func(r chi.Router) {
			r.Get("/", s.handleListCues)
			r.Put("/", s.handleReplaceCues)
		})

		// Dispatch endpoints
		r.Post("/select", s.handleSelect)
		r.Post("/run", s.handleRunBatch)
		r.Get("/status", s.handleStatus)

		// Run history
		r.Get("/runs", s.handleListRuns)
		r.Get("/runs/{id}", s.handleGetRun)

		// Sequence document endpoints
		r.Route("/sequences", func(r chi.Router) {
			r.Get("/", s.handleListSequences)
			r.Route("/{name}", func(r chi.Router) {
				r.Get("/", s.handleGetSequence)
				r.Put("/", s.handleSaveSequence)
			})
		})

		// WebSocket
		r.Get("/ws", s.handleWebSocket)
	})

	return r
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
	})
}
