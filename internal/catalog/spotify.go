// Spotify implementation of the music catalog consumed by the playlist
// engine. Response types follow the Spotify Web API.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"
)

// callTimeout bounds every catalog request. Timeouts surface to the caller
// as upstream errors and are never retried here.
const callTimeout = 10 * time.Second

// OAuthConfig builds the oauth2 config shared by the login flow and the
// token refresh path.
func OAuthConfig(clientID, clientSecret, redirectURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Scopes: []string{
			"user-read-private",
			"playlist-read-private",
			"playlist-read-collaborative",
		},
		Endpoint: oauth2.Endpoint{
			AuthURL:  spotifyAuthURL,
			TokenURL: spotifyTokenURL,
		},
	}
}

// Image represents an image resource.
type Image struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// Artist represents a Spotify artist.
type Artist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URI  string `json:"uri"`
}

// Album represents a Spotify album.
type Album struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	URI    string  `json:"uri"`
	Images []Image `json:"images"`
}

// Track represents a Spotify track.
type Track struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	DurationMS int      `json:"duration_ms"`
	URI        string   `json:"uri"`
	Artists    []Artist `json:"artists"`
	Album      Album    `json:"album"`
}

// PlaylistTrack represents a track within a playlist context.
type PlaylistTrack struct {
	AddedAt string `json:"added_at"`
	Track   Track  `json:"track"`
}

// Playlist represents a playlist summary as returned by list endpoints.
type Playlist struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	URI   string `json:"uri"`
	Owner struct {
		ID string `json:"id"`
	} `json:"owner"`
	Tracks struct {
		Total int `json:"total"`
	} `json:"tracks"`
	Images []Image `json:"images"`
}

type playlistsPage struct {
	Items []Playlist `json:"items"`
	Next  *string    `json:"next"`
}

type tracksPage struct {
	Items []PlaylistTrack `json:"items"`
	Next  *string         `json:"next"`
}

// Client is an authenticated Spotify API client bound to one user's
// access token.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

// NewClient builds a client for the given access token.
func NewClient(token string) *Client {
	return &Client{
		baseURL: spotifyBaseURL,
		http:    http.DefaultClient,
		token:   token,
	}
}

func (c *Client) get(ctx context.Context, endpoint string, result any) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("spotify request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, fmt.Errorf("spotify API error: status %d", resp.StatusCode)
	}
	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return resp.StatusCode, fmt.Errorf("decode response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

// GetTrack retrieves a single track by id. Returns (nil, nil) when the
// catalog has no such track.
func (c *Client) GetTrack(ctx context.Context, trackID string) (*Track, error) {
	var track Track
	status, err := c.get(ctx, fmt.Sprintf("/tracks/%s", trackID), &track)
	if status == http.StatusNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &track, nil
}

// GetUserPlaylists retrieves a user's playlists, up to limit.
func (c *Client) GetUserPlaylists(ctx context.Context, userID string, limit int) ([]Playlist, error) {
	if limit <= 0 || limit > 50 {
		limit = 50
	}
	var page playlistsPage
	endpoint := fmt.Sprintf("/users/%s/playlists?limit=%d", userID, limit)
	if _, err := c.get(ctx, endpoint, &page); err != nil {
		return nil, err
	}
	return page.Items, nil
}

// GetPlaylistTracks retrieves a playlist's tracks in playlist order, up to
// limit.
func (c *Client) GetPlaylistTracks(ctx context.Context, owner, playlistID string, limit int) ([]PlaylistTrack, error) {
	if limit <= 0 || limit > 50 {
		limit = 50
	}
	var page tracksPage
	endpoint := fmt.Sprintf("/users/%s/playlists/%s/tracks?limit=%d", owner, playlistID, limit)
	if _, err := c.get(ctx, endpoint, &page); err != nil {
		return nil, err
	}
	return page.Items, nil
}
