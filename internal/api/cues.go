package api

import (
	"encoding/json"
	"net/http"

	"github.com/ovationworks/cueboard-core/internal/cue"
)

// handleListCues returns the current cue table, sorted by order.
func (s *Server) handleListCues(w http.ResponseWriter, _ *http.Request) {
	cues := s.table.All()
	writeJSON(w, http.StatusOK, map[string]any{
		"cues":  cues,
		"count": len(cues),
	})
}

// replaceCuesRequest is the body of PUT /api/v1/cues.
type replaceCuesRequest struct {
	Cues []cue.Cue `json:"cues"`
}

// handleReplaceCues swaps the whole cue table and persists it to disk.
// The replacement is atomic: an invalid table leaves the current one intact.
func (s *Server) handleReplaceCues(w http.ResponseWriter, r *http.Request) {
	var req replaceCuesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if err := s.table.Replace(req.Cues); err != nil {
		writeUnprocessable(w, err.Error())
		return
	}

	s.logger.Info("cue table replaced", "count", s.table.Len())

	cues := s.table.All()
	writeJSON(w, http.StatusOK, map[string]any{
		"cues":  cues,
		"count": len(cues),
	})
}
