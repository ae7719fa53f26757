package playlist

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/univthink/spotifyparty/internal/catalog"
)

// MockStore implements Store for testing.
type MockStore struct {
	FindOneFunc       func(ctx context.Context, filter bson.M) (*Playlist, error)
	FindAndModifyFunc func(ctx context.Context, filter, update bson.M) (*Playlist, error)
	InsertFunc        func(ctx context.Context, pl *Playlist) error

	// Recorded calls, newest last.
	FindAndModifyCalls []FindAndModifyCall
}

type FindAndModifyCall struct {
	Filter bson.M
	Update bson.M
}

func (m *MockStore) FindOne(ctx context.Context, filter bson.M) (*Playlist, error) {
	if m.FindOneFunc != nil {
		return m.FindOneFunc(ctx, filter)
	}
	return nil, nil
}

func (m *MockStore) FindAndModify(ctx context.Context, filter, update bson.M) (*Playlist, error) {
	m.FindAndModifyCalls = append(m.FindAndModifyCalls, FindAndModifyCall{Filter: filter, Update: update})
	if m.FindAndModifyFunc != nil {
		return m.FindAndModifyFunc(ctx, filter, update)
	}
	return nil, nil
}

func (m *MockStore) Insert(ctx context.Context, pl *Playlist) error {
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, pl)
	}
	return nil
}

// MockCatalog implements Catalog.
type MockCatalog struct {
	GetTrackFunc          func(ctx context.Context, trackID string) (*catalog.Track, error)
	GetUserPlaylistsFunc  func(ctx context.Context, userID string, limit int) ([]catalog.Playlist, error)
	GetPlaylistTracksFunc func(ctx context.Context, owner, playlistID string, limit int) ([]catalog.PlaylistTrack, error)
}

func (m *MockCatalog) GetTrack(ctx context.Context, trackID string) (*catalog.Track, error) {
	if m.GetTrackFunc != nil {
		return m.GetTrackFunc(ctx, trackID)
	}
	return nil, nil
}

func (m *MockCatalog) GetUserPlaylists(ctx context.Context, userID string, limit int) ([]catalog.Playlist, error) {
	if m.GetUserPlaylistsFunc != nil {
		return m.GetUserPlaylistsFunc(ctx, userID, limit)
	}
	return nil, nil
}

func (m *MockCatalog) GetPlaylistTracks(ctx context.Context, owner, playlistID string, limit int) ([]catalog.PlaylistTrack, error) {
	if m.GetPlaylistTracksFunc != nil {
		return m.GetPlaylistTracksFunc(ctx, owner, playlistID, limit)
	}
	return nil, nil
}

// MockBroadcaster records emitted state changes.
type MockBroadcaster struct {
	Triggers []string
	States   []*Playlist
}

func (m *MockBroadcaster) EmitStateChange(ctx context.Context, pl *Playlist, trigger string) {
	m.Triggers = append(m.Triggers, trigger)
	m.States = append(m.States, pl)
}

// fakeStore keeps one playlist document in memory and applies the subset of
// update operators the engine uses. Lets multi-step flows (import) run
// against evolving state without a real database.
type fakeStore struct {
	pl *Playlist
}

func (f *fakeStore) FindOne(ctx context.Context, filter bson.M) (*Playlist, error) {
	if f.pl == nil {
		return nil, nil
	}
	cp := *f.pl
	return &cp, nil
}

func (f *fakeStore) FindAndModify(ctx context.Context, filter, update bson.M) (*Playlist, error) {
	if f.pl == nil {
		return nil, nil
	}
	// Honor the promote-on-empty guard.
	if _, guarded := filter["current"]; guarded && f.pl.Current != nil {
		return nil, nil
	}
	if set, ok := update["$set"].(bson.M); ok {
		if cur, ok := set["current"]; ok {
			if cur == nil {
				f.pl.Current = nil
			} else {
				track := cur.(Track)
				f.pl.Current = &track
			}
		}
		if tracks, ok := set["tracks"].([]QueueEntry); ok {
			f.pl.Tracks = tracks
		}
		if ts, ok := set["last_updated"].(int64); ok {
			f.pl.LastUpdated = ts
		}
	}
	if push, ok := update["$push"].(bson.M); ok {
		if entry, ok := push["tracks"].(QueueEntry); ok {
			f.pl.Tracks = append(f.pl.Tracks, entry)
		}
	}
	if pull, ok := update["$pull"].(bson.M); ok {
		if match, ok := pull["tracks"].(bson.M); ok {
			id, _ := match["_id"].(string)
			kept := f.pl.Tracks[:0]
			for _, e := range f.pl.Tracks {
				if e.ID != id {
					kept = append(kept, e)
				}
			}
			f.pl.Tracks = kept
		}
	}
	cp := *f.pl
	return &cp, nil
}

func (f *fakeStore) Insert(ctx context.Context, pl *Playlist) error {
	f.pl = pl
	return nil
}
