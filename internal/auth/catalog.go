package auth

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/univthink/spotifyparty/internal/catalog"
)

// CatalogSource builds per-user catalog clients. When the provider refreshes
// an expired access token, the new credentials are written back to the user
// document so the stored copy stays usable.
type CatalogSource struct {
	users    UserStore
	provider *catalog.Provider
}

func NewCatalogSource(users UserStore, provider *catalog.Provider) *CatalogSource {
	return &CatalogSource{users: users, provider: provider}
}

func (c *CatalogSource) ForUser(ctx context.Context, u *User) (*catalog.Client, error) {
	if u == nil || u.Spotify == nil {
		return nil, fmt.Errorf("user has no linked spotify identity")
	}
	userID := u.ID
	return c.provider.ClientFor(ctx, u.Spotify.TokenSet(), func(ctx context.Context, tok catalog.TokenSet) error {
		return c.users.UpdateSet(ctx, userID, bson.M{
			"spotify.accessToken":     tok.AccessToken,
			"spotify.tokenExpiration": tok.Expiry.UnixMilli(),
		})
	})
}
