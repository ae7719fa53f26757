package main

import (
	"context"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/univthink/spotifyparty/internal/auth"
	"github.com/univthink/spotifyparty/internal/catalog"
	"github.com/univthink/spotifyparty/internal/playlist"
	"github.com/univthink/spotifyparty/internal/realtime"
	"github.com/univthink/spotifyparty/internal/store"
)

func main() {
	port := getenv("PORT", "3000")
	mongoURL := getenv("MONGO_URL", "mongodb://localhost:27017")
	mongoDB := getenv("MONGO_DB", "queueup")
	redisURL := getenv("REDIS_URL", "redis://localhost:6379")
	jwtSecret := getenv("JWT_SECRET", "dev-secret")
	publicURL := getenv("PUBLIC_URL", "http://localhost:"+port)

	logger := log.With("service", "spotifyparty")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := store.Connect(ctx, mongoURL, mongoDB)
	if err != nil {
		logger.Fatalf("mongo: %v", err)
	}
	defer db.Close(context.Background())

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		logger.Fatalf("redis: %v", err)
	}
	rdb := redis.NewClient(opt)
	defer rdb.Close()

	oauthCfg := catalog.OAuthConfig(
		os.Getenv("SPOTIFY_CLIENT_ID"),
		os.Getenv("SPOTIFY_CLIENT_SECRET"),
		getenv("SPOTIFY_REDIRECT_URL", publicURL+"/auth/spotify/callback"),
	)

	users := db.Users()
	playlists := db.Playlists()

	authSrv := auth.NewServer(users, oauthCfg, jwtSecret, publicURL)
	catalogSource := auth.NewCatalogSource(users, catalog.NewProvider(oauthCfg))

	engine := playlist.NewEngine(playlists, playlist.NewGateway(rdb))
	playlistSrv := playlist.NewServer(engine, func(ctx context.Context, u *auth.User) (playlist.Catalog, error) {
		return catalogSource.ForUser(ctx, u)
	})

	hub := realtime.NewHub()
	go hub.Run(ctx)
	realtimeSrv := realtime.NewServer(hub, rdb, playlists)
	go realtimeSrv.RunSubscriber(ctx)

	r := chi.NewRouter()
	r.Use(authSrv.Middleware)
	r.Mount("/auth", authSrv.Router())
	r.Mount("/ws", realtimeSrv.Router())
	r.Mount("/", playlistSrv.Router())

	logger.Infof("listening on :%s", port)
	if err := http.ListenAndServe(":"+port, r); err != nil {
		logger.Fatalf("http: %v", err)
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
