package playlist

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGatewayPublishesEnvelope(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	ctx := context.Background()
	sub := rdb.Subscribe(ctx, SessionChannel("pl-1"))
	defer sub.Close()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	current := Track{ID: "tr-1", Name: "Song"}
	gw := NewGateway(rdb)
	gw.EmitStateChange(ctx, &Playlist{ID: "pl-1", Play: true, Current: &current}, "play")

	select {
	case msg := <-sub.Channel():
		var evt Event
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &evt))
		assert.Equal(t, "state_change", evt.Event)
		assert.Equal(t, "pl-1", evt.SessionID)
		assert.Equal(t, "play", evt.Data.Trigger)
		assert.True(t, evt.Data.Play)
		require.NotNil(t, evt.Data.Track)
		assert.Equal(t, "tr-1", evt.Data.Track.ID)
		assert.NotNil(t, evt.Data.Queue)
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")
	}
}

func TestGatewayNilSafe(t *testing.T) {
	// Neither a nil client nor a nil playlist may panic.
	NewGateway(nil).EmitStateChange(context.Background(), &Playlist{ID: "pl-1"}, "play")

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	NewGateway(rdb).EmitStateChange(context.Background(), nil, "play")
}
