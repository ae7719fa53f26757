package realtime

import "context"

// Hub owns the per-session rooms and fans inbound messages out to every
// client subscribed to the matching room.
type Hub struct {
	// Registered clients, keyed by room.
	rooms map[string]map[*Client]bool

	// Inbound messages from Redis to broadcast into a room.
	broadcast chan roomMessage

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client
}

type roomMessage struct {
	room    string
	payload []byte
}

func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]bool),
		broadcast:  make(chan roomMessage),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			room := h.rooms[client.room]
			if room == nil {
				room = make(map[*Client]bool)
				h.rooms[client.room] = room
			}
			room[client] = true

		case client := <-h.unregister:
			if room, ok := h.rooms[client.room]; ok {
				if _, ok := room[client]; ok {
					delete(room, client)
					close(client.send)
					_ = client.conn.Close()
					if len(room) == 0 {
						delete(h.rooms, client.room)
					}
				}
			}

		case msg := <-h.broadcast:
			room := h.rooms[msg.room]
			for client := range room {
				select {
				case client.send <- msg.payload:
				default:
					delete(room, client)
					close(client.send)
					_ = client.conn.Close()
				}
			}
			if len(room) == 0 {
				delete(h.rooms, msg.room)
			}
		}
	}
}

// Broadcast delivers payload to every subscriber of room. Fire-and-forget:
// slow consumers are dropped rather than back-pressured.
func (h *Hub) Broadcast(room string, payload []byte) {
	h.broadcast <- roomMessage{room: room, payload: payload}
}
