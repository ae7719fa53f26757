package auth

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/univthink/spotifyparty/internal/catalog"
)

// User is a stored account. Provider identity blocks carry the tokens the
// catalog client needs; they never leave the server.
type User struct {
	ID          string    `bson:"_id" json:"id"`
	Name        string    `bson:"name" json:"name"`
	LoginOrigin string    `bson:"loginOrigin" json:"loginOrigin"`
	Spotify     *Identity `bson:"spotify,omitempty" json:"-"`
	Facebook    *Identity `bson:"facebook,omitempty" json:"-"`
}

// Identity is one external provider's view of the user.
type Identity struct {
	ID              string `bson:"id" json:"id"`
	Name            string `bson:"name,omitempty" json:"name,omitempty"`
	AccessToken     string `bson:"accessToken" json:"-"`
	RefreshToken    string `bson:"refreshToken" json:"-"`
	TokenExpiration int64  `bson:"tokenExpiration" json:"-"` // ms epoch
}

// TokenSet converts the stored identity into the catalog's credential shape.
func (i *Identity) TokenSet() catalog.TokenSet {
	return catalog.TokenSet{
		AccessToken:  i.AccessToken,
		RefreshToken: i.RefreshToken,
		Expiry:       time.UnixMilli(i.TokenExpiration),
	}
}

// UserStore is the slice of the document store the auth layer needs. Lookups
// return (nil, nil) when no user matched.
type UserStore interface {
	FindByID(ctx context.Context, id string) (*User, error)
	// Upsert atomically matches filter, applies $set, inserts on miss and
	// returns the post-update document.
	Upsert(ctx context.Context, filter, set bson.M) (*User, error)
	UpdateSet(ctx context.Context, id string, set bson.M) error
}
