package playlist

import (
	"encoding/json"
	"net/http"
)

// handleSetPlay toggles playback.
// POST /playlists/{id}/play
func (s *Server) handleSetPlay(w http.ResponseWriter, r *http.Request) {
	pl, ok := s.requireAdmin(w, r, "Only admin can play/pause")
	if !ok {
		return
	}

	var body struct {
		Play bool `json:"play"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	updated, err := s.engine.SetPlay(r.Context(), pl.ID, body.Play)
	if err != nil {
		writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"play": updated.Play})
}

// handleSetVolume sets the playback volume.
// POST /playlists/{id}/volume
func (s *Server) handleSetVolume(w http.ResponseWriter, r *http.Request) {
	pl, ok := s.requireAdmin(w, r, "Only admin can change volume")
	if !ok {
		return
	}

	var body struct {
		Volume int `json:"volume"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	updated, err := s.engine.SetVolume(r.Context(), pl.ID, body.Volume)
	if err != nil {
		writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"volume": updated.Volume})
}

// handleSkipTrack ends the current track and promotes the next queued one.
// POST /playlists/{id}/skip
func (s *Server) handleSkipTrack(w http.ResponseWriter, r *http.Request) {
	pl, ok := s.requireAdmin(w, r, "Only admin can skip tracks")
	if !ok {
		return
	}

	updated, err := s.engine.SkipTrack(r.Context(), pl.ID)
	if err != nil {
		writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, NewStateChange(updated, "skip"))
}
