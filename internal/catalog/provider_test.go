package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func newTestProvider(tokenHandler http.HandlerFunc) *Provider {
	cfg := OAuthConfig("client", "secret", "http://localhost/callback")
	if tokenHandler != nil {
		ts := httptest.NewServer(tokenHandler)
		cfg.Endpoint = oauth2.Endpoint{
			AuthURL:  ts.URL + "/authorize",
			TokenURL: ts.URL + "/token",
		}
	}
	return NewProvider(cfg)
}

func TestClientForUsesValidToken(t *testing.T) {
	// Any hit on the token endpoint is a refresh we did not want.
	p := newTestProvider(func(w http.ResponseWriter, r *http.Request) {
		t.Error("token endpoint called for a still-valid token")
	})

	c, err := p.ClientFor(context.Background(), TokenSet{
		AccessToken:  "still-good",
		RefreshToken: "refresh-1",
		Expiry:       time.Now().Add(time.Hour),
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "still-good", c.token)
}

func TestClientForRefreshesExpiredToken(t *testing.T) {
	p := newTestProvider(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.FormValue("grant_type"))
		assert.Equal(t, "refresh-1", r.FormValue("refresh_token"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"fresh-token","token_type":"Bearer","expires_in":3600}`))
	})

	var saved *TokenSet
	save := func(ctx context.Context, tok TokenSet) error {
		saved = &tok
		return nil
	}

	c, err := p.ClientFor(context.Background(), TokenSet{
		AccessToken:  "expired",
		RefreshToken: "refresh-1",
		Expiry:       time.Now().Add(-time.Hour),
	}, save)
	require.NoError(t, err)
	assert.Equal(t, "fresh-token", c.token)

	require.NotNil(t, saved, "refreshed tokens must be persisted")
	assert.Equal(t, "fresh-token", saved.AccessToken)
	// The provider did not rotate the refresh token, so the old one stays.
	assert.Equal(t, "refresh-1", saved.RefreshToken)
	assert.True(t, saved.Expiry.After(time.Now()))
}

func TestClientForRefreshFailure(t *testing.T) {
	p := newTestProvider(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
	})

	_, err := p.ClientFor(context.Background(), TokenSet{
		AccessToken:  "expired",
		RefreshToken: "revoked",
		Expiry:       time.Now().Add(-time.Hour),
	}, nil)
	require.Error(t, err)
}
