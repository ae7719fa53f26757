package playlist

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/univthink/spotifyparty/internal/auth"
)

// handleAddTrack queues a catalog track (or promotes it when nothing is
// playing). Any authenticated user may add tracks.
// POST /playlists/{id}/tracks
func (s *Server) handleAddTrack(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := auth.UserFromContext(ctx)

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing playlist id")
		return
	}

	var body struct {
		TrackID string `json:"trackId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if body.TrackID == "" {
		writeError(w, http.StatusBadRequest, "trackId is required")
		return
	}

	cat, err := s.catalogFor(ctx, user)
	if err != nil {
		writeError(w, http.StatusBadGateway, "catalog unavailable")
		return
	}

	by := &UserRef{ID: user.ID, Name: user.Name}
	if _, err := s.engine.AddTrack(ctx, cat, id, body.TrackID, by); err != nil {
		writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Success"})
}

// handleDeleteTrack removes a queue entry. Succeeds (and still broadcasts)
// even when the entry is already gone.
// DELETE /playlists/{id}/tracks/{entryId}
func (s *Server) handleDeleteTrack(w http.ResponseWriter, r *http.Request) {
	pl, ok := s.requireAdmin(w, r, "Only admin can delete tracks")
	if !ok {
		return
	}

	entryID := chi.URLParam(r, "entryId")
	if entryID == "" {
		writeError(w, http.StatusBadRequest, "missing entry id")
		return
	}

	if _, err := s.engine.DeleteTrack(r.Context(), pl.ID, entryID); err != nil {
		writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Deleted successfully"})
}

// handleReorderQueue moves a queue entry to a new position.
// POST /playlists/{id}/reorder
func (s *Server) handleReorderQueue(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing playlist id")
		return
	}

	var body struct {
		ID   string `json:"id"`
		From *int   `json:"from"`
		To   *int   `json:"to"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if body.ID == "" || body.From == nil || body.To == nil {
		writeError(w, http.StatusBadRequest, "id, from and to are required")
		return
	}

	if _, err := s.engine.ReorderQueue(r.Context(), id, body.ID, *body.From, *body.To); err != nil {
		writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Reordered successfully"})
}
