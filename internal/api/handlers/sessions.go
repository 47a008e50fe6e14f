package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/playmatatu/fairway/internal/game"
	"github.com/playmatatu/fairway/internal/middleware"
)

// CreateSession starts a practice session for the caller.
// POST /api/v1/sessions {"course_id": 0}
func CreateSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			CourseID int `json:"course_id"`
		}
		// An empty body means the flat range.
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
				return
			}
		}
		if req.CourseID < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid course_id"})
			return
		}

		st, err := game.Manager.CreateSession(c.Request.Context(), middleware.PlayerID(c), req.CourseID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, st)
	}
}

// GetSession returns the current state of a session. Sessions held by
// another instance are served from the Redis snapshot.
// GET /api/v1/sessions/:token
func GetSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Param("token")
		playerID := middleware.PlayerID(c)

		st, err := game.Manager.GetState(token)
		if errors.Is(err, game.ErrSessionNotFound) {
			st, err = game.Manager.LoadSnapshot(c.Request.Context(), token)
		}
		if err != nil {
			respondError(c, err)
			return
		}
		if st.PlayerID != playerID {
			respondError(c, game.ErrNotOwner)
			return
		}
		c.JSON(http.StatusOK, st)
	}
}

// Hit strikes the session's ball.
// POST /api/v1/sessions/:token/hit
func Hit() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input game.ShotInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid shot data"})
			return
		}
		st, err := game.Manager.Hit(c.Request.Context(), c.Param("token"), middleware.PlayerID(c), input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusAccepted, st)
	}
}

// Reset puts the ball back on the tee, or at the given position.
// POST /api/v1/sessions/:token/reset {"position": [x, y, z]}
func Reset() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Position *[3]float64 `json:"position"`
		}
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid reset data"})
				return
			}
		}
		var pos *mgl64.Vec3
		if req.Position != nil {
			p := mgl64.Vec3(*req.Position)
			pos = &p
		}
		st, err := game.Manager.Reset(c.Request.Context(), c.Param("token"), middleware.PlayerID(c), pos)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, st)
	}
}

// ListSessionShots returns the finished shots of a live session.
// GET /api/v1/sessions/:token/shots
func ListSessionShots() gin.HandlerFunc {
	return func(c *gin.Context) {
		shots, err := game.Manager.History(c.Param("token"), middleware.PlayerID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"shots": shots, "count": len(shots)})
	}
}

// CloseSession ends a session.
// DELETE /api/v1/sessions/:token
func CloseSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Param("token")
		if err := game.Manager.CloseSession(c.Request.Context(), token, middleware.PlayerID(c), game.StatusClosed); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"token": token, "status": game.StatusClosed})
	}
}
