package playlist

import (
	"context"
	"encoding/json"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"
)

// SessionChannel names the pub/sub channel carrying one session's events.
func SessionChannel(id string) string {
	return "session:" + id
}

// Event is the envelope published for every broadcast.
type Event struct {
	Event     string      `json:"event"`
	SessionID string      `json:"sessionId"`
	Data      StateChange `json:"data"`
}

// Gateway publishes state changes to the per-session channel that the
// realtime hub fans out to connected clients. Delivery is fire-and-forget:
// at most once per connected subscriber, nothing across reconnects.
type Gateway struct {
	rdb *redis.Client
}

func NewGateway(rdb *redis.Client) *Gateway {
	return &Gateway{rdb: rdb}
}

func (g *Gateway) EmitStateChange(ctx context.Context, pl *Playlist, trigger string) {
	if g.rdb == nil || pl == nil {
		return
	}
	evt := Event{
		Event:     "state_change",
		SessionID: pl.ID,
		Data:      NewStateChange(pl, trigger),
	}
	data, err := json.Marshal(evt)
	if err != nil {
		log.Errorf("playlist: marshal state change: %v", err)
		return
	}
	if err := g.rdb.Publish(ctx, SessionChannel(pl.ID), string(data)).Err(); err != nil {
		log.Errorf("playlist: publish state change: %v", err)
	}
}
