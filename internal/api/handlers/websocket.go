package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/playmatatu/fairway/internal/config"
	"github.com/playmatatu/fairway/internal/ws"
)

// HandleSessionWebSocket streams a session's ball events to its owner.
func HandleSessionWebSocket(cfg *config.Config) gin.HandlerFunc {
	return ws.HandleWebSocket(cfg)
}
