package realtime

import (
	"context"
	"testing"
	"time"
)

func newRoomClient(room string) *Client {
	return &Client{room: room, send: make(chan []byte, 8)}
}

func TestHubFansOutPerRoom(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub()
	go hub.Run(ctx)

	a1 := newRoomClient("room-a")
	a2 := newRoomClient("room-a")
	b := newRoomClient("room-b")
	hub.register <- a1
	hub.register <- a2
	hub.register <- b

	hub.Broadcast("room-a", []byte("hello"))

	for _, c := range []*Client{a1, a2} {
		select {
		case got := <-c.send:
			if string(got) != "hello" {
				t.Errorf("payload = %q", got)
			}
		case <-time.After(time.Second):
			t.Fatal("room-a client got nothing")
		}
	}

	select {
	case got := <-b.send:
		t.Fatalf("room-b client received %q", got)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubBroadcastToEmptyRoom(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub()
	go hub.Run(ctx)

	// Must not block or panic when nobody is subscribed.
	hub.Broadcast("nobody-here", []byte("x"))

	c := newRoomClient("nobody-here")
	hub.register <- c
	hub.Broadcast("nobody-here", []byte("y"))

	select {
	case got := <-c.send:
		if string(got) != "y" {
			t.Errorf("payload = %q", got)
		}
	case <-time.After(time.Second):
		t.Fatal("no payload after registering")
	}
}
