package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ovationworks/cueboard-core/internal/sequence"
)

// handleListSequences returns the names of all stored sequence documents.
func (s *Server) handleListSequences(w http.ResponseWriter, _ *http.Request) {
	if s.sequences == nil {
		writeInternalError(w, "sequence store unavailable")
		return
	}

	names, err := s.sequences.List()
	if err != nil {
		writeInternalError(w, "failed to list sequences")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"sequences": names,
		"count":     len(names),
	})
}

// handleGetSequence returns the steps of one stored sequence.
func (s *Server) handleGetSequence(w http.ResponseWriter, r *http.Request) {
	if s.sequences == nil {
		writeInternalError(w, "sequence store unavailable")
		return
	}

	name := chi.URLParam(r, "name")
	steps, err := s.sequences.Load(name)
	if err != nil {
		switch {
		case errors.Is(err, sequence.ErrNotFound):
			writeNotFound(w, "sequence not found: "+name)
		case errors.Is(err, sequence.ErrInvalidName):
			writeBadRequest(w, "invalid sequence name")
		case errors.Is(err, sequence.ErrInvalidDocument):
			writeUnprocessable(w, err.Error())
		default:
			writeInternalError(w, "failed to load sequence")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"name":  name,
		"steps": steps,
		"count": len(steps),
	})
}

// saveSequenceRequest is the body of PUT /api/v1/sequences/{name}.
type saveSequenceRequest struct {
	Steps []sequence.Step `json:"steps"`
}

// handleSaveSequence writes a sequence document to the store, replacing any
// existing document of the same name.
func (s *Server) handleSaveSequence(w http.ResponseWriter, r *http.Request) {
	if s.sequences == nil {
		writeInternalError(w, "sequence store unavailable")
		return
	}

	name := chi.URLParam(r, "name")

	var req saveSequenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if err := s.sequences.Save(name, req.Steps); err != nil {
		if errors.Is(err, sequence.ErrInvalidName) {
			writeBadRequest(w, "invalid sequence name")
			return
		}
		writeInternalError(w, "failed to save sequence")
		return
	}

	s.logger.Info("sequence saved", "name", name, "steps", len(req.Steps))

	writeJSON(w, http.StatusOK, map[string]any{
		"name":  name,
		"count": len(req.Steps),
	})
}
