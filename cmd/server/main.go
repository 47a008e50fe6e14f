package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/fairway/internal/api"
	"github.com/playmatatu/fairway/internal/config"
	"github.com/playmatatu/fairway/internal/database"
	"github.com/playmatatu/fairway/internal/game"
	"github.com/playmatatu/fairway/internal/migrations"
	"github.com/playmatatu/fairway/internal/redis"
	"github.com/playmatatu/fairway/internal/ws"
	goredis "github.com/redis/go-redis/v9"
)

func main() {
	// Initialize configuration (also loads .env when present)
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize database
	db, err := database.Connect(cfg.DatabaseURL, cfg.DBMaxOpenConns, cfg.DBMaxIdleConns)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if cfg.MigrateOnStart {
		log.Println("[MIGRATE] Running DB migrations on startup...")
		if err := migrations.RunMigrations(cfg.DatabaseURL, cfg.MigrationsDir); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	}

	// REDIS_URL=off runs without Redis: events go straight to this instance's
	// hub and idle sessions are found by scanning memory.
	var rdb *goredis.Client
	if cfg.RedisURL != "" {
		rdb, err = redis.Connect(cfg.RedisURL)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer rdb.Close()
	} else {
		log.Println("[REDIS] REDIS_URL not set; running single-instance")
	}

	game.InitializeManager(db, rdb, cfg)
	game.Manager.SetBroadcaster(ws.SessionHub)

	if rdb != nil {
		ws.SetRedisClient(rdb)
		ws.StartBallEventSubscriber(ctx)
	}

	game.Manager.StartSimulationWorker(ctx)
	game.Manager.StartIdleWorker(ctx)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	api.SetupRoutes(router, db, rdb, cfg)

	port := cfg.Port
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{Addr: ":" + port, Handler: router}

	go func() {
		log.Printf("Starting Fairway server on port %s", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
}
