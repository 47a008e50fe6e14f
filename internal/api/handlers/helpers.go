package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/fairway/internal/game"
)

// respondError maps domain errors to a status code and a gin.H error body.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, game.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
	case errors.Is(err, game.ErrCourseNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "course not found"})
	case errors.Is(err, game.ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": "session belongs to another player"})
	case errors.Is(err, game.ErrBallInMotion):
		c.JSON(http.StatusConflict, gin.H{"error": "ball is still moving"})
	case errors.Is(err, game.ErrInvalidShot):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid shot input"})
	default:
		log.Printf("[API] %s %s failed: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func databaseUnavailable(c *gin.Context) {
	c.JSON(http.StatusServiceUnavailable, gin.H{"error": "database unavailable"})
}
