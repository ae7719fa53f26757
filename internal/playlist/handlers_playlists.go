package playlist

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/univthink/spotifyparty/internal/auth"
)

var nonWord = regexp.MustCompile(`[^\w]`)

// normalizeKey derives the human-readable playlist key from its name.
func normalizeKey(name string) string {
	return strings.ToLower(nonWord.ReplaceAllString(name, ""))
}

func (s *Server) handleCreatePlaylist(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())

	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	body.Name = strings.TrimSpace(body.Name)
	if body.Name == "" || len(body.Name) > 200 {
		writeError(w, http.StatusBadRequest, "name must be between 1 and 200 characters")
		return
	}
	key := normalizeKey(body.Name)
	if key == "" {
		writeError(w, http.StatusBadRequest, "name must contain letters or digits")
		return
	}

	pl, err := s.engine.Create(r.Context(), body.Name, key, UserRef{ID: user.ID, Name: user.Name})
	if err != nil {
		writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, pl)
}

func (s *Server) handleGetPlaylist(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing playlist id")
		return
	}
	pl, err := s.engine.Get(r.Context(), id)
	if err != nil {
		writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pl)
}
