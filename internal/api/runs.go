package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ovationworks/cueboard-core/internal/executor"
)

// maxQueryParamLen limits query parameter length to prevent DoS via oversized URL params.
const maxQueryParamLen = 100

// handleListRuns returns recent cue run records, newest first.
//
// Query parameters:
//   - limit: maximum number of records (default 50)
//   - cue: filter by cue name
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeInternalError(w, "run history unavailable")
		return
	}
	ctx := r.Context()

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeBadRequest(w, "limit must be a positive integer")
			return
		}
		limit = n
	}

	if cueName := r.URL.Query().Get("cue"); cueName != "" {
		if len(cueName) > maxQueryParamLen {
			writeBadRequest(w, "cue exceeds maximum length")
			return
		}
		runs, err := s.history.ListRunsByCue(ctx, cueName, limit)
		if err != nil {
			writeInternalError(w, "failed to list runs")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"runs": runs, "count": len(runs)})
		return
	}

	runs, err := s.history.ListRuns(ctx, limit)
	if err != nil {
		writeInternalError(w, "failed to list runs")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": runs, "count": len(runs)})
}

// handleGetRun returns a single run record by ID.
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeInternalError(w, "run history unavailable")
		return
	}

	id := chi.URLParam(r, "id")
	if len(id) > maxQueryParamLen {
		writeBadRequest(w, "id exceeds maximum length")
		return
	}

	run, err := s.history.GetRun(r.Context(), id)
	if err != nil {
		if errors.Is(err, executor.ErrRunNotFound) {
			writeNotFound(w, "run not found: "+id)
			return
		}
		writeInternalError(w, "failed to load run")
		return
	}
	writeJSON(w, http.StatusOK, run)
}
