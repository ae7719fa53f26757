// Package store is the document-store adapter. The engine's whole
// concurrency model rests on FindAndModify being a single indivisible
// match-update-return step, which the driver's FindOneAndUpdate provides.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/univthink/spotifyparty/internal/auth"
	"github.com/univthink/spotifyparty/internal/playlist"
)

// Mongo wraps the driver client and hands out typed collections.
type Mongo struct {
	client *mongo.Client
	db     *mongo.Database
}

func Connect(ctx context.Context, uri, name string) (*Mongo, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return &Mongo{client: client, db: client.Database(name)}, nil
}

func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

func (m *Mongo) Playlists() *Playlists {
	return &Playlists{col: m.db.Collection("playlists")}
}

func (m *Mongo) Users() *Users {
	return &Users{col: m.db.Collection("users")}
}

// Playlists implements playlist.Store.
type Playlists struct {
	col *mongo.Collection
}

func (p *Playlists) FindOne(ctx context.Context, filter bson.M) (*playlist.Playlist, error) {
	var pl playlist.Playlist
	err := p.col.FindOne(ctx, filter).Decode(&pl)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &pl, nil
}

func (p *Playlists) FindAndModify(ctx context.Context, filter, update bson.M) (*playlist.Playlist, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var pl playlist.Playlist
	err := p.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&pl)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &pl, nil
}

func (p *Playlists) Insert(ctx context.Context, pl *playlist.Playlist) error {
	_, err := p.col.InsertOne(ctx, pl)
	return err
}

// Users implements auth.UserStore.
type Users struct {
	col *mongo.Collection
}

func (u *Users) FindByID(ctx context.Context, id string) (*auth.User, error) {
	var user auth.User
	err := u.col.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (u *Users) Upsert(ctx context.Context, filter, set bson.M) (*auth.User, error) {
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetUpsert(true)
	update := bson.M{
		"$set":         set,
		"$setOnInsert": bson.M{"_id": uuid.NewString()},
	}
	var user auth.User
	if err := u.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (u *Users) UpdateSet(ctx context.Context, id string, set bson.M) error {
	_, err := u.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	return err
}
