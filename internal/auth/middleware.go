package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
)

type contextKey string

const userContextKey contextKey = "auth.user"

// UserFromContext returns the authenticated user, or nil.
func UserFromContext(ctx context.Context) *User {
	u, _ := ctx.Value(userContextKey).(*User)
	return u
}

// WithUser stashes a user in the context. Exported for handler tests.
func WithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, userContextKey, u)
}

func (s *Server) tokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	if c, err := r.Cookie(sessionCookie); err == nil {
		return c.Value
	}
	return ""
}

// Middleware resolves the session token into a user and stashes it in the
// request context. Requests without a valid session pass through anonymous.
func (s *Server) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := s.tokenFromRequest(r)
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}
		userID, err := s.parseSessionToken(raw)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		user, err := s.users.FindByID(r.Context(), userID)
		if err != nil {
			log.Errorf("auth: load user %s: %v", userID, err)
			next.ServeHTTP(w, r)
			return
		}
		if user == nil {
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

// RequireUser rejects anonymous requests.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UserFromContext(r.Context()) == nil {
			writeError(w, http.StatusUnauthorized, "login required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
