package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoUserHandler(t *testing.T, got **User) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*got = UserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestMiddlewareResolvesBearerToken(t *testing.T) {
	stored := &User{ID: "u-1", Name: "Ann"}
	users := &MockUserStore{
		FindByIDFunc: func(ctx context.Context, id string) (*User, error) {
			if id == "u-1" {
				return stored, nil
			}
			return nil, nil
		},
	}
	s := NewServer(users, nil, "secret", "http://localhost")
	token, err := s.issueSessionToken(stored)
	require.NoError(t, err)

	var got *User
	handler := s.Middleware(echoUserHandler(t, &got))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	require.NotNil(t, got)
	assert.Equal(t, "u-1", got.ID)
}

func TestMiddlewareResolvesCookie(t *testing.T) {
	stored := &User{ID: "u-1"}
	users := &MockUserStore{
		FindByIDFunc: func(ctx context.Context, id string) (*User, error) {
			return stored, nil
		},
	}
	s := NewServer(users, nil, "secret", "http://localhost")
	token, err := s.issueSessionToken(stored)
	require.NoError(t, err)

	var got *User
	handler := s.Middleware(echoUserHandler(t, &got))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: token})
	handler.ServeHTTP(httptest.NewRecorder(), req)

	require.NotNil(t, got)
	assert.Equal(t, "u-1", got.ID)
}

func TestMiddlewareAnonymousPassThrough(t *testing.T) {
	s := NewServer(&MockUserStore{}, nil, "secret", "http://localhost")

	tests := []struct {
		name  string
		setup func(r *http.Request)
	}{
		{"no credentials", func(r *http.Request) {}},
		{"garbage token", func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer garbage")
		}},
		{"valid token, user deleted", func(r *http.Request) {
			token, err := s.issueSessionToken(&User{ID: "gone"})
			require.NoError(t, err)
			r.Header.Set("Authorization", "Bearer "+token)
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got *User
			handler := s.Middleware(echoUserHandler(t, &got))
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			tc.setup(req)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code, "anonymous requests must pass through")
			assert.Nil(t, got)
		})
	}
}

func TestRequireUser(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	handler := RequireUser(next)

	t.Run("anonymous rejected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("authenticated passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(WithUser(req.Context(), &User{ID: "u-1"}))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}
