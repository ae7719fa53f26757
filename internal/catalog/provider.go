package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"
)

// TokenSet is the stored credential state for one user identity.
type TokenSet struct {
	AccessToken  string
	RefreshToken string
	Expiry       time.Time
}

// Saver persists a refreshed token set back to wherever the caller keeps it.
type Saver func(ctx context.Context, tok TokenSet) error

// Provider builds per-user API clients, refreshing expired access tokens
// through the OAuth token endpoint first.
type Provider struct {
	cfg *oauth2.Config
}

func NewProvider(cfg *oauth2.Config) *Provider {
	return &Provider{cfg: cfg}
}

// ClientFor returns a client for the given tokens. An expired access token
// is exchanged for a fresh one via the refresh token, and the new set is
// handed to save so the stored copy stays usable.
func (p *Provider) ClientFor(ctx context.Context, tok TokenSet, save Saver) (*Client, error) {
	if tok.AccessToken != "" && time.Now().Before(tok.Expiry) {
		return NewClient(tok.AccessToken), nil
	}

	src := p.cfg.TokenSource(ctx, &oauth2.Token{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		Expiry:       time.Now().Add(-time.Minute),
	})
	fresh, err := src.Token()
	if err != nil {
		return nil, fmt.Errorf("refresh access token: %w", err)
	}

	if save != nil {
		saved := TokenSet{
			AccessToken:  fresh.AccessToken,
			RefreshToken: tok.RefreshToken,
			Expiry:       fresh.Expiry,
		}
		if fresh.RefreshToken != "" {
			saved.RefreshToken = fresh.RefreshToken
		}
		if err := save(ctx, saved); err != nil {
			log.Errorf("catalog: persist refreshed token: %v", err)
		}
	}

	return NewClient(fresh.AccessToken), nil
}
