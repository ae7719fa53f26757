package playlist

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/univthink/spotifyparty/internal/auth"
)

// handleListImportable lists the admin's own catalog playlists.
// GET /playlists/{id}/import
func (s *Server) handleListImportable(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, ok := s.requireAdmin(w, r, "Only admin can import"); !ok {
		return
	}
	user := auth.UserFromContext(ctx)
	if user.Spotify == nil {
		writeError(w, http.StatusBadRequest, "no linked spotify account")
		return
	}

	cat, err := s.catalogFor(ctx, user)
	if err != nil {
		writeError(w, http.StatusBadGateway, "catalog unavailable")
		return
	}

	playlists, err := cat.GetUserPlaylists(ctx, user.Spotify.ID, 50)
	if err != nil {
		writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, playlists)
}

// handleImportPlaylist copies an external playlist into the session.
// POST /playlists/{id}/import/{owner}/{externalId}
func (s *Server) handleImportPlaylist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	pl, ok := s.requireAdmin(w, r, "Only admin can import")
	if !ok {
		return
	}
	user := auth.UserFromContext(ctx)

	owner := chi.URLParam(r, "owner")
	externalID := chi.URLParam(r, "externalId")
	if owner == "" || externalID == "" {
		writeError(w, http.StatusBadRequest, "missing owner or playlist id")
		return
	}

	cat, err := s.catalogFor(ctx, user)
	if err != nil {
		writeError(w, http.StatusBadGateway, "catalog unavailable")
		return
	}

	by := &UserRef{ID: user.ID, Name: user.Name}
	updated, err := s.engine.ImportPlaylist(ctx, cat, pl.ID, owner, externalID, by)
	if err != nil {
		writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, NewStateChange(updated, "import"))
}
