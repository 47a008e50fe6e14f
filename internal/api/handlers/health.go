package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/playmatatu/fairway/internal/game"
	"github.com/redis/go-redis/v9"
)

var startTime = time.Now()

const version = "1.0.0"

// HealthCheck returns server health status. Missing or failing backing
// services are reported but do not fail the check.
func HealthCheck(db *sqlx.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		resp := gin.H{
			"status":   "ok",
			"service":  "fairway-api",
			"version":  version,
			"uptime":   time.Since(startTime).String(),
			"database": serviceStatus(db != nil, func() error { return db.PingContext(ctx) }),
			"redis":    serviceStatus(rdb != nil, func() error { return rdb.Ping(ctx).Err() }),
		}
		if game.Manager != nil {
			resp["active_sessions"] = game.Manager.ActiveSessions()
		}
		c.JSON(http.StatusOK, resp)
	}
}

func serviceStatus(configured bool, ping func() error) string {
	if !configured {
		return "disabled"
	}
	if err := ping(); err != nil {
		return "down"
	}
	return "up"
}
