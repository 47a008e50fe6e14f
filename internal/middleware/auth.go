package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/fairway/internal/auth"
	"github.com/playmatatu/fairway/internal/config"
)

// Context keys set by RequireAuth.
const (
	PlayerIDKey = "player_id"
	UsernameKey = "username"
)

// RequireAuth rejects requests without a valid "Authorization: Bearer" access
// token and stores the player on the context.
func RequireAuth(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}

		claims, err := auth.Parse(cfg.JWTSecret, strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(PlayerIDKey, claims.PlayerID)
		c.Set(UsernameKey, claims.Username)
		c.Next()
	}
}

// PlayerID returns the authenticated player, or 0 outside RequireAuth.
func PlayerID(c *gin.Context) int {
	return c.GetInt(PlayerIDKey)
}
