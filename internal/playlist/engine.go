package playlist

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/univthink/spotifyparty/internal/catalog"
)

// Store is the document-store contract the engine needs. FindAndModify must
// match, apply the update expression and return the post-update document in
// one indivisible step; both lookups return (nil, nil) when nothing matched.
type Store interface {
	FindOne(ctx context.Context, filter bson.M) (*Playlist, error)
	FindAndModify(ctx context.Context, filter, update bson.M) (*Playlist, error)
	Insert(ctx context.Context, pl *Playlist) error
}

// Broadcaster delivers a state change to every subscriber of a session.
type Broadcaster interface {
	EmitStateChange(ctx context.Context, pl *Playlist, trigger string)
}

// Catalog is the slice of the music catalog the engine consumes.
type Catalog interface {
	GetTrack(ctx context.Context, trackID string) (*catalog.Track, error)
	GetUserPlaylists(ctx context.Context, userID string, limit int) ([]catalog.Playlist, error)
	GetPlaylistTracks(ctx context.Context, owner, playlistID string, limit int) ([]catalog.PlaylistTrack, error)
}

// Engine applies exactly one semantic change per call to a playlist document
// and broadcasts the resulting state. Race freedom rests on the store's
// atomic conditional updates, never on read-then-write sequences.
type Engine struct {
	store   Store
	gateway Broadcaster
	now     func() time.Time
	newID   func() string
}

func NewEngine(store Store, gateway Broadcaster) *Engine {
	return &Engine{
		store:   store,
		gateway: gateway,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

func (e *Engine) nowMS() int64 {
	return e.now().UnixMilli()
}

// Get fetches a playlist by id.
func (e *Engine) Get(ctx context.Context, id string) (*Playlist, error) {
	pl, err := e.store.FindOne(ctx, bson.M{"_id": id})
	if err != nil {
		return nil, fmt.Errorf("find playlist: %w", err)
	}
	if pl == nil {
		return nil, errNotFound("Playlist not found", "")
	}
	return pl, nil
}

// Create inserts a new, empty playlist owned by admin.
func (e *Engine) Create(ctx context.Context, name, key string, admin UserRef) (*Playlist, error) {
	pl := &Playlist{
		ID:          e.newID(),
		Key:         key,
		Name:        name,
		AdminID:     admin.ID,
		Volume:      50,
		Tracks:      []QueueEntry{},
		LastUpdated: e.nowMS(),
	}
	if err := e.store.Insert(ctx, pl); err != nil {
		return nil, fmt.Errorf("insert playlist: %w", err)
	}
	return pl, nil
}

// SetPlay sets whether playback is active.
func (e *Engine) SetPlay(ctx context.Context, id string, play bool) (*Playlist, error) {
	pl, err := e.store.FindAndModify(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"play": play, "last_updated": e.nowMS()}},
	)
	if err != nil {
		return nil, fmt.Errorf("update play: %w", err)
	}
	if pl == nil {
		return nil, errNotFound("Playlist not found", "")
	}
	e.gateway.EmitStateChange(ctx, pl, "play")
	return pl, nil
}

// ClampVolume maps any input onto the stored [0,100] range.
func ClampVolume(v int) int {
	if v < 0 {
		v = -v
	}
	if v > 100 {
		v = 100
	}
	return v
}

// SetVolume sets the playback volume, clamped to [0,100].
func (e *Engine) SetVolume(ctx context.Context, id string, volume int) (*Playlist, error) {
	volume = ClampVolume(volume)
	pl, err := e.store.FindAndModify(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"volume": volume, "last_updated": e.nowMS()}},
	)
	if err != nil {
		return nil, fmt.Errorf("update volume: %w", err)
	}
	if pl == nil {
		return nil, errNotFound("Playlist not found", "")
	}
	e.gateway.EmitStateChange(ctx, pl, "volume")
	return pl, nil
}

// AddTrack looks the track up in the catalog and either promotes it straight
// to the current track (when nothing is playing) or appends it to the end of
// the queue.
func (e *Engine) AddTrack(ctx context.Context, cat Catalog, id, trackID string, by *UserRef) (*Playlist, error) {
	ct, err := cat.GetTrack(ctx, trackID)
	if err != nil {
		return nil, fmt.Errorf("catalog lookup: %w", err)
	}
	if ct == nil {
		return nil, errNotFound("Track not found", "TrackID: "+trackID)
	}
	track := trackFromCatalog(ct)

	pl, err := e.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if pl.Current == nil {
		// Promote on empty: the filter re-checks that nothing is playing, so
		// two concurrent adds cannot both win this branch.
		updated, err := e.store.FindAndModify(ctx,
			bson.M{"_id": id, "current": nil},
			bson.M{"$set": bson.M{"current": track, "last_updated": e.nowMS()}},
		)
		if err != nil {
			return nil, fmt.Errorf("set current track: %w", err)
		}
		if updated != nil {
			e.gateway.EmitStateChange(ctx, updated, "add_track")
			return updated, nil
		}
		// Lost the race to another add; fall through and queue it.
	}

	entry := QueueEntry{
		ID:        e.newID(),
		Track:     track,
		DateAdded: e.nowMS(),
		AddedBy:   by,
		Voters:    []UserRef{},
	}
	updated, err := e.store.FindAndModify(ctx,
		bson.M{"_id": id},
		bson.M{
			"$push": bson.M{"tracks": entry},
			"$set":  bson.M{"last_updated": e.nowMS()},
		},
	)
	if err != nil {
		return nil, fmt.Errorf("queue track: %w", err)
	}
	if updated == nil {
		return nil, errNotFound("Playlist not found", "")
	}
	e.gateway.EmitStateChange(ctx, updated, "add_track_queue")
	return updated, nil
}

// SkipTrack promotes the first queue entry to the current track, or clears
// the current track when the queue is empty. This is the only operation that
// may leave a playlist with nothing playing.
func (e *Engine) SkipTrack(ctx context.Context, id string) (*Playlist, error) {
	pl, err := e.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	var updated *Playlist
	if len(pl.Tracks) > 0 {
		first := pl.Tracks[0]
		// One update: promote and pull, so no interleaving can observe the
		// entry both queued and playing.
		updated, err = e.store.FindAndModify(ctx,
			bson.M{"_id": id},
			bson.M{
				"$set":  bson.M{"current": first.Track, "last_updated": e.nowMS()},
				"$pull": bson.M{"tracks": bson.M{"_id": first.ID}},
			},
		)
	} else {
		updated, err = e.store.FindAndModify(ctx,
			bson.M{"_id": id},
			bson.M{"$set": bson.M{"current": nil, "last_updated": e.nowMS()}},
		)
	}
	if err != nil {
		return nil, fmt.Errorf("skip track: %w", err)
	}
	if updated == nil {
		return nil, errNotFound("Playlist not found", "")
	}
	e.gateway.EmitStateChange(ctx, updated, "skip")
	return updated, nil
}

// DeleteTrack pulls the queue entry with the given id. Deleting an entry
// that is already gone still broadcasts the (unchanged) queue.
func (e *Engine) DeleteTrack(ctx context.Context, id, entryID string) (*Playlist, error) {
	updated, err := e.store.FindAndModify(ctx,
		bson.M{"_id": id},
		bson.M{
			"$pull": bson.M{"tracks": bson.M{"_id": entryID}},
			"$set":  bson.M{"last_updated": e.nowMS()},
		},
	)
	if err != nil {
		return nil, fmt.Errorf("delete track: %w", err)
	}
	if updated == nil {
		return nil, errNotFound("Playlist not found", "")
	}
	e.gateway.EmitStateChange(ctx, updated, "track_deleted")
	return updated, nil
}

// moveEntry returns a copy of entries with the element at from reinserted at
// to. to is clamped to the valid range.
func moveEntry(entries []QueueEntry, from, to int) []QueueEntry {
	if to < 0 {
		to = 0
	}
	if to > len(entries)-1 {
		to = len(entries) - 1
	}
	out := make([]QueueEntry, 0, len(entries))
	out = append(out, entries[:from]...)
	out = append(out, entries[from+1:]...)
	out = append(out[:to], append([]QueueEntry{entries[from]}, out[to:]...)...)
	return out
}

// ReorderQueue moves the entry at from to position to. The replacement write
// is guarded on the entry still sitting at from, so a concurrent add, delete
// or reorder makes this fail with a conflict instead of silently losing the
// other update.
func (e *Engine) ReorderQueue(ctx context.Context, id, entryID string, from, to int) (*Playlist, error) {
	pl, err := e.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if from < 0 || from >= len(pl.Tracks) {
		return nil, errBadRequest("Invalid source position")
	}
	if pl.Tracks[from].ID != entryID {
		return nil, errConflict("Queue changed, try again")
	}

	reordered := moveEntry(pl.Tracks, from, to)

	updated, err := e.store.FindAndModify(ctx,
		bson.M{
			"_id": id,
			fmt.Sprintf("tracks.%d._id", from): entryID,
		},
		bson.M{"$set": bson.M{"tracks": reordered, "last_updated": e.nowMS()}},
	)
	if err != nil {
		return nil, fmt.Errorf("reorder queue: %w", err)
	}
	if updated == nil {
		return nil, errConflict("Queue changed, try again")
	}
	e.gateway.EmitStateChange(ctx, updated, "queue_reordered")
	return updated, nil
}

// VoteOnTrack casts or retracts one user's vote on a queue entry. The update
// filter itself encodes the voter's absence or presence, so the same user
// cannot be counted twice even under concurrent requests; the preliminary
// read only classifies rejections.
func (e *Engine) VoteOnTrack(ctx context.Context, userID, id, entryID string, upvote bool) (*Playlist, error) {
	voted, err := e.store.FindOne(ctx, bson.M{
		"_id": id,
		"tracks": bson.M{"$elemMatch": bson.M{
			"_id":    entryID,
			"voters": bson.M{"$elemMatch": bson.M{"_id": userID}},
		}},
	})
	if err != nil {
		return nil, fmt.Errorf("check voter: %w", err)
	}
	alreadyVoted := voted != nil

	var filter, update bson.M
	switch {
	case upvote && !alreadyVoted:
		filter = bson.M{
			"_id": id,
			"tracks": bson.M{"$elemMatch": bson.M{
				"_id":        entryID,
				"voters._id": bson.M{"$ne": userID},
			}},
		}
		update = bson.M{
			"$inc":  bson.M{"tracks.$.votes": 1},
			"$push": bson.M{"tracks.$.voters": UserRef{ID: userID}},
		}
	case !upvote && alreadyVoted:
		filter = bson.M{
			"_id": id,
			"tracks": bson.M{"$elemMatch": bson.M{
				"_id":        entryID,
				"voters._id": userID,
			}},
		}
		update = bson.M{
			"$inc":  bson.M{"tracks.$.votes": -1},
			"$pull": bson.M{"tracks.$.voters": bson.M{"_id": userID}},
		}
	case upvote:
		return nil, errBadRequest("The user has already voted on this track")
	default:
		return nil, errBadRequest("The user hasn't voted on this track yet")
	}

	updated, err := e.store.FindAndModify(ctx, filter, update)
	if err != nil {
		return nil, fmt.Errorf("apply vote: %w", err)
	}
	if updated == nil {
		// The entry vanished (or the vote state flipped) since the check.
		return nil, errNotFound("No track found in playlist", "")
	}
	e.gateway.EmitStateChange(ctx, updated, "vote")
	return updated, nil
}

// ImportPlaylist copies an external playlist into the session, in order.
// Insertions are strictly sequential: each append's position depends on the
// previous insert having completed, and the first insert may promote to the
// current track instead of appending.
func (e *Engine) ImportPlaylist(ctx context.Context, cat Catalog, id, owner, externalID string, by *UserRef) (*Playlist, error) {
	items, err := cat.GetPlaylistTracks(ctx, owner, externalID, 50)
	if err != nil {
		return nil, fmt.Errorf("fetch playlist tracks: %w", err)
	}
	if len(items) == 0 {
		return e.Get(ctx, id)
	}

	var pl *Playlist
	for _, item := range items {
		pl, err = e.AddTrack(ctx, cat, id, item.Track.ID, by)
		if err != nil {
			return nil, err
		}
	}
	return pl, nil
}
