package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"

	"github.com/ovationworks/cueboard-core/internal/cue"
	"github.com/ovationworks/cueboard-core/internal/executor"
)

// selectRequest is the body of POST /api/v1/select.
type selectRequest struct {
	CueName string `json:"cue_name"`
}

// handleSelect hands a cue to the dispatch coordinator. The response is
// immediate; the actual device send happens after the debounce window, and
// its outcome is published over the WebSocket and MQTT notifiers.
func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.CueName == "" {
		writeBadRequest(w, "cue_name is required")
		return
	}

	c, err := s.table.Get(req.CueName)
	if err != nil {
		if errors.Is(err, cue.ErrCueNotFound) {
			writeNotFound(w, "cue not found: "+req.CueName)
			return
		}
		writeInternalError(w, "failed to look up cue")
		return
	}

	s.coordinator.Select(c, executor.TriggerAPI)

	writeJSON(w, http.StatusAccepted, map[string]any{
		"selected": c.Name,
	})
}

// handleRunBatch re-reads the cue document strictly and executes it in order
// in the background, honouring each cue's delay. The strict parse rejects
// cues without an integer order, loose switch spellings, and cues that would
// produce no device command. The response is 202; batch progress is
// observable via /status, the run history, and notifier events.
func (s *Server) handleRunBatch(w http.ResponseWriter, _ *http.Request) {
	if s.runner == nil {
		writeInternalError(w, "batch runner unavailable")
		return
	}

	cues, err := s.table.LoadBatch()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			writeBadRequest(w, "cue table is empty")
			return
		}
		writeUnprocessable(w, err.Error())
		return
	}
	if len(cues) == 0 {
		writeBadRequest(w, "cue table is empty")
		return
	}

	go func() {
		if err := s.runner.RunAll(s.baseCtx, cues, executor.TriggerBatch); err != nil {
			s.logger.Error("batch run failed", "error", err)
			return
		}
		s.logger.Info("batch run completed", "count", len(cues))
	}()

	writeJSON(w, http.StatusAccepted, map[string]any{
		"started": true,
		"count":   len(cues),
	})
}

// handleStatus reports whether a send is in flight and the outcome of the
// most recent completed send.
func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	resp := map[string]any{
		"busy": s.coordinator.Busy(),
	}
	if last, ok := s.coordinator.LastStatus(); ok {
		resp["last"] = last
	}
	writeJSON(w, http.StatusOK, resp)
}
