package api

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/playmatatu/fairway/internal/api/handlers"
	"github.com/playmatatu/fairway/internal/config"
	"github.com/playmatatu/fairway/internal/middleware"
	"github.com/redis/go-redis/v9"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, db *sqlx.DB, rdb *redis.Client, cfg *config.Config) {
	router.Use(middleware.CORSMiddleware(cfg))

	if cfg.Environment != "production" {
		router.Use(func(c *gin.Context) {
			c.Header("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
			c.Header("Pragma", "no-cache")
			c.Next()
		})
		log.Println("[DEV MODE] no-cache headers enabled for all routes")
	}

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", handlers.HealthCheck(db, rdb))

		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/register", handlers.Register(db, cfg))
			authGroup.POST("/login", handlers.Login(db, cfg))
		}

		// The WebSocket authenticates from its query string.
		v1.GET("/sessions/:token/ws", handlers.HandleSessionWebSocket(cfg))

		secured := v1.Group("")
		secured.Use(middleware.RequireAuth(cfg))
		{
			secured.POST("/sessions", handlers.CreateSession())
			secured.GET("/sessions/:token", handlers.GetSession())
			secured.POST("/sessions/:token/hit", handlers.Hit())
			secured.POST("/sessions/:token/reset", handlers.Reset())
			secured.GET("/sessions/:token/shots", handlers.ListSessionShots())
			secured.DELETE("/sessions/:token", handlers.CloseSession())

			secured.GET("/courses", handlers.ListCourses())

			secured.GET("/players/me", handlers.GetMe(db))
			secured.GET("/players/me/shots", handlers.GetMyShots())
		}
	}
}
