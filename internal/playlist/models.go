package playlist

import (
	"github.com/univthink/spotifyparty/internal/catalog"
)

// Playlist is one listening session: a shared queue plus playback state.
// It is the unit of concurrency control; every mutation is a single
// conditional update against this document.
type Playlist struct {
	ID          string       `bson:"_id" json:"id"`
	Key         string       `bson:"key" json:"key"`
	Name        string       `bson:"name" json:"name"`
	AdminID     string       `bson:"admin" json:"adminId"`
	Play        bool         `bson:"play" json:"play"`
	Volume      int          `bson:"volume" json:"volume"`
	Current     *Track       `bson:"current,omitempty" json:"current,omitempty"`
	Tracks      []QueueEntry `bson:"tracks" json:"tracks"`
	LastUpdated int64        `bson:"last_updated" json:"lastUpdated"` // ms epoch, advisory
}

// QueueEntry wraps a track with session-specific metadata.
type QueueEntry struct {
	ID        string    `bson:"_id" json:"id"`
	Track     Track     `bson:"track" json:"track"`
	DateAdded int64     `bson:"dateAdded" json:"dateAdded"` // ms epoch
	AddedBy   *UserRef  `bson:"addedBy" json:"addedBy"`
	Votes     int       `bson:"votes" json:"votes"`
	Voters    []UserRef `bson:"voters" json:"voters"`
}

// UserRef is the compact user identity embedded in playlist documents.
type UserRef struct {
	ID   string `bson:"_id" json:"id"`
	Name string `bson:"name,omitempty" json:"name,omitempty"`
}

// Track is the fixed projection of a catalog track kept in playlist
// documents. Only these fields are stored; everything else the catalog
// returns is dropped at the boundary.
type Track struct {
	ID         string   `bson:"id" json:"id"`
	Name       string   `bson:"name" json:"name"`
	DurationMS int      `bson:"duration_ms" json:"duration_ms"`
	URI        string   `bson:"uri" json:"uri"`
	Artists    []Artist `bson:"artists" json:"artists"`
	Album      Album    `bson:"album" json:"album"`
}

type Artist struct {
	ID   string `bson:"id" json:"id"`
	Name string `bson:"name" json:"name"`
	URI  string `bson:"uri" json:"uri"`
}

type Album struct {
	ID     string  `bson:"id" json:"id"`
	Name   string  `bson:"name" json:"name"`
	URI    string  `bson:"uri" json:"uri"`
	Images []Image `bson:"images" json:"images"`
}

type Image struct {
	URL    string `bson:"url" json:"url"`
	Height int    `bson:"height" json:"height"`
	Width  int    `bson:"width" json:"width"`
}

// trackFromCatalog applies the fixed field projection to a catalog track.
func trackFromCatalog(t *catalog.Track) Track {
	out := Track{
		ID:         t.ID,
		Name:       t.Name,
		DurationMS: t.DurationMS,
		URI:        t.URI,
		Album: Album{
			ID:   t.Album.ID,
			Name: t.Album.Name,
			URI:  t.Album.URI,
		},
	}
	for _, a := range t.Artists {
		out.Artists = append(out.Artists, Artist{ID: a.ID, Name: a.Name, URI: a.URI})
	}
	for _, img := range t.Album.Images {
		out.Album.Images = append(out.Album.Images, Image{URL: img.URL, Height: img.Height, Width: img.Width})
	}
	return out
}
