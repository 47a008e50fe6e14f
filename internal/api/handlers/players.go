package handlers

import (
	"database/sql"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/playmatatu/fairway/internal/game"
	"github.com/playmatatu/fairway/internal/middleware"
	"github.com/playmatatu/fairway/internal/models"
)

// GetMe returns the caller's profile and lifetime totals.
// GET /api/v1/players/me
func GetMe(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db == nil {
			databaseUnavailable(c)
			return
		}
		var p models.Player
		err := db.GetContext(c.Request.Context(), &p, `SELECT * FROM players WHERE id = $1`, middleware.PlayerID(c))
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "player not found"})
			return
		}
		if err != nil {
			log.Printf("[API] GetMe DB error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

// GetMyShots returns the caller's most recent stored shots.
// GET /api/v1/players/me/shots?limit=50
func GetMyShots() gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
		shots, err := game.Manager.PlayerShots(c.Request.Context(), middleware.PlayerID(c), limit)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"shots": shots, "count": len(shots)})
	}
}
