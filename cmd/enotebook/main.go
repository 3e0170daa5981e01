package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/SauravS-01/eNoteBook/db"
	"github.com/SauravS-01/eNoteBook/internal/auth"
	"github.com/SauravS-01/eNoteBook/internal/config"
	"github.com/SauravS-01/eNoteBook/internal/handlers"
	"github.com/SauravS-01/eNoteBook/internal/middleware"
	"github.com/SauravS-01/eNoteBook/internal/router"
	"github.com/SauravS-01/eNoteBook/internal/session"
	"github.com/SauravS-01/eNoteBook/internal/store"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

const googleIssuerURL = "https://accounts.google.com"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file loaded, using environment")
	}

	cfg, err := config.New()

	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	conn, err := db.Connect(cfg.Database.DSN)

	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.Migrate(conn); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		log.Fatalf("Failed to connect to redis: %v", err)
	}

	users := store.NewUserStore(conn)
	notes := store.NewNoteStore(conn)

	sessions := session.NewManager(session.NewRedisStore(redisClient), cfg.Session.TTL)

	authSvc := auth.NewService(users, auth.NewHasher(cfg.BcryptCost))

	oidc := auth.NewOIDCVerifier(auth.OIDCConfig{
		IssuerURL:    googleIssuerURL,
		ClientID:     cfg.Google.ClientID,
		ClientSecret: cfg.Google.ClientSecret,
		RedirectURL:  cfg.Google.RedirectURL,
	})

	states := auth.NewStateStore(redisClient)

	cookie := handlers.CookieConfig{
		Name:   cfg.Session.CookieName,
		Domain: cfg.Session.CookieDomain,
		Secure: cfg.Session.CookieSecure,
		MaxAge: int(cfg.Session.TTL.Seconds()),
	}

	r := router.NewRouter(router.Deps{
		Auth:           handlers.NewAuthHandler(authSvc, sessions, oidc, states, cookie),
		Notes:          handlers.NewNoteHandler(notes, sessions, cookie),
		Sessions:       sessions,
		Users:          users,
		CookieName:     cookie.Name,
		AllowedOrigins: cfg.AllowedOrigins,
		TemplateGlob:   cfg.TemplateGlob,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: middleware.MethodOverride(r),
	}

	log.Printf("Server running on port %s", cfg.Port)

	if err := srv.ListenAndServe(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
