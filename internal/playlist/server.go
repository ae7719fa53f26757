package playlist

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/univthink/spotifyparty/internal/auth"
)

// CatalogFor resolves the catalog client for the acting user, refreshing
// stored credentials when needed.
type CatalogFor func(ctx context.Context, u *auth.User) (Catalog, error)

// Server maps inbound requests onto engine operations.
type Server struct {
	engine     *Engine
	catalogFor CatalogFor
}

func NewServer(engine *Engine, catalogFor CatalogFor) *Server {
	return &Server{
		engine:     engine,
		catalogFor: catalogFor,
	}
}

func (s *Server) Router(middlewares ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	for _, mw := range middlewares {
		r.Use(mw)
	}

	r.Get("/health", s.handleHealth)

	r.Get("/playlists/{id}", s.handleGetPlaylist)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireUser)

		r.Post("/playlists", s.handleCreatePlaylist)

		r.Post("/playlists/{id}/play", s.handleSetPlay)
		r.Post("/playlists/{id}/volume", s.handleSetVolume)
		r.Post("/playlists/{id}/skip", s.handleSkipTrack)

		r.Post("/playlists/{id}/tracks", s.handleAddTrack)
		r.Delete("/playlists/{id}/tracks/{entryId}", s.handleDeleteTrack)
		r.Post("/playlists/{id}/reorder", s.handleReorderQueue)
		r.Post("/playlists/{id}/tracks/{entryId}/vote", s.handleVoteTrack)

		r.Get("/playlists/{id}/import", s.handleListImportable)
		r.Post("/playlists/{id}/import/{owner}/{externalId}", s.handleImportPlaylist)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "spotifyparty",
	})
}

// requireAdmin loads the playlist and checks that the acting user is its
// admin. Privileged operations all funnel through here so the policy lives
// in exactly one place.
func (s *Server) requireAdmin(w http.ResponseWriter, r *http.Request, denyMsg string) (*Playlist, bool) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing playlist id")
		return nil, false
	}
	pl, err := s.engine.Get(r.Context(), id)
	if err != nil {
		writeOpError(w, err)
		return nil, false
	}
	user := auth.UserFromContext(r.Context())
	if user == nil || user.ID != pl.AdminID {
		writeError(w, http.StatusForbidden, denyMsg)
		return nil, false
	}
	return pl, true
}
