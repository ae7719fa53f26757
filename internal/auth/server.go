package auth

import (
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/oauth2"

	"github.com/google/uuid"
)

const sessionCookie = "session"

const spotifyProfileURL = "https://api.spotify.com/v1/me"

type spotifyProfile struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// Server owns login, session issuance and the current-user endpoints.
type Server struct {
	users      UserStore
	oauth      *oauth2.Config
	jwtSecret  []byte
	sessionTTL time.Duration
	publicURL  string
	profileURL string
	newID      func() string
}

func NewServer(users UserStore, oauth *oauth2.Config, jwtSecret, publicURL string) *Server {
	return &Server{
		users:      users,
		oauth:      oauth,
		jwtSecret:  []byte(jwtSecret),
		sessionTTL: 30 * 24 * time.Hour,
		publicURL:  publicURL,
		profileURL: spotifyProfileURL,
		newID:      uuid.NewString,
	}
}

func (s *Server) Router(middlewares ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	for _, mw := range middlewares {
		r.Use(mw)
	}

	r.Get("/spotify", s.handleSpotifyLogin)
	r.Get("/spotify/callback", s.handleSpotifyCallback)
	r.Get("/me", s.handleMe)
	r.Post("/logout", s.handleLogout)

	return r
}

func (s *Server) handleSpotifyLogin(w http.ResponseWriter, r *http.Request) {
	if s.oauth.ClientID == "" || s.oauth.ClientSecret == "" {
		writeError(w, http.StatusServiceUnavailable, "spotify oauth not configured")
		return
	}
	redirect := r.URL.Query().Get("redirect")
	if redirect == "" {
		redirect = s.publicURL
	}
	state := url.QueryEscape(redirect)
	http.Redirect(w, r, s.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline), http.StatusFound)
}

func (s *Server) handleSpotifyCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	q := r.URL.Query()
	if errStr := q.Get("error"); errStr != "" {
		writeError(w, http.StatusBadRequest, "spotify error: "+errStr)
		return
	}
	code := q.Get("code")
	if code == "" {
		writeError(w, http.StatusBadRequest, "code is required")
		return
	}

	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		log.Errorf("auth: code exchange: %v", err)
		writeError(w, http.StatusBadGateway, "token exchange failed")
		return
	}

	profile, err := s.fetchProfile(r, token)
	if err != nil {
		log.Errorf("auth: fetch profile: %v", err)
		writeError(w, http.StatusBadGateway, "profile fetch failed")
		return
	}

	name := profile.DisplayName
	if name == "" {
		name = profile.ID
	}

	user, err := s.users.Upsert(ctx,
		bson.M{"spotify.id": profile.ID},
		bson.M{
			"name":        name,
			"loginOrigin": "spotify",
			"spotify": Identity{
				ID:              profile.ID,
				Name:            name,
				AccessToken:     token.AccessToken,
				RefreshToken:    token.RefreshToken,
				TokenExpiration: token.Expiry.UnixMilli(),
			},
		},
	)
	if err != nil {
		log.Errorf("auth: upsert user: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	session, err := s.issueSessionToken(user)
	if err != nil {
		log.Errorf("auth: issue session: %v", err)
		writeError(w, http.StatusInternalServerError, "session error")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    session,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.sessionTTL.Seconds()),
	})

	redirect := s.publicURL
	if state, err := url.QueryUnescape(q.Get("state")); err == nil && state != "" {
		redirect = state
	}
	http.Redirect(w, r, redirect, http.StatusFound)
}

func (s *Server) fetchProfile(r *http.Request, token *oauth2.Token) (*spotifyProfile, error) {
	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, s.profileURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var profile spotifyProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "login required")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
