package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/univthink/spotifyparty/internal/playlist"
)

var upgrader = websocket.Upgrader{
	// Sits behind the same origin as the API; no cross-origin clients.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Server upgrades live connections into session rooms and pipes the
// per-session redis channels into the hub.
type Server struct {
	hub       *Hub
	rdb       *redis.Client
	playlists playlist.Store
}

func NewServer(hub *Hub, rdb *redis.Client, playlists playlist.Store) *Server {
	return &Server{
		hub:       hub,
		rdb:       rdb,
		playlists: playlists,
	}
}

func (s *Server) Router(middlewares ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	for _, mw := range middlewares {
		r.Use(mw)
	}

	r.Get("/{id}", s.handleWS)

	return r
}

// RunSubscriber subscribes to every session channel and forwards payloads
// into the matching room. Blocks until the subscription closes.
func (s *Server) RunSubscriber(ctx context.Context) {
	sub := s.rdb.PSubscribe(ctx, playlist.SessionChannel("*"))
	defer sub.Close()

	ch := sub.Channel()
	for msg := range ch {
		room := strings.TrimPrefix(msg.Channel, playlist.SessionChannel(""))
		s.hub.Broadcast(room, []byte(msg.Payload))
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		http.Error(w, "missing session id", http.StatusBadRequest)
		return
	}

	pl, err := s.playlists.FindOne(r.Context(), bson.M{"_id": id})
	if err != nil {
		log.Errorf("realtime: load playlist %s: %v", id, err)
		http.Error(w, "database error", http.StatusInternalServerError)
		return
	}
	if pl == nil {
		http.Error(w, "playlist not found", http.StatusNotFound)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Errorf("realtime: ws upgrade: %v", err)
		return
	}

	client := &Client{
		hub:  s.hub,
		room: id,
		conn: conn,
		send: make(chan []byte, 256),
	}
	s.hub.register <- client

	// Catch the new subscriber up with the current state before any
	// broadcasts reach it.
	initial := playlist.Event{
		Event:     "state_change",
		SessionID: id,
		Data:      playlist.NewStateChange(pl, "state"),
	}
	if b, err := json.Marshal(initial); err == nil {
		client.send <- b
	}

	go client.writePump()
	go client.readPump()
}
