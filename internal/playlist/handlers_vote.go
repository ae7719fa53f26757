package playlist

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/univthink/spotifyparty/internal/auth"
)

// handleVoteTrack casts or retracts the caller's vote on a queue entry.
// POST /playlists/{id}/tracks/{entryId}/vote
func (s *Server) handleVoteTrack(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := auth.UserFromContext(ctx)

	id := chi.URLParam(r, "id")
	entryID := chi.URLParam(r, "entryId")
	if id == "" || entryID == "" {
		writeError(w, http.StatusBadRequest, "missing playlist or entry id")
		return
	}

	var body struct {
		Vote *bool `json:"vote"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if body.Vote == nil {
		writeError(w, http.StatusBadRequest, "vote is required")
		return
	}

	updated, err := s.engine.VoteOnTrack(ctx, user.ID, id, entryID, *body.Vote)
	if err != nil {
		writeOpError(w, err)
		return
	}

	votes := 0
	for _, entry := range updated.Tracks {
		if entry.ID == entryID {
			votes = entry.Votes
			break
		}
	}
	writeJSON(w, http.StatusOK, map[string]int{"votes": votes})
}
