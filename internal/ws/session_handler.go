package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/gorilla/websocket"
	"github.com/playmatatu/fairway/internal/auth"
	"github.com/playmatatu/fairway/internal/config"
	"github.com/playmatatu/fairway/internal/game"
)

// ResetData is the payload of a reset message. A missing position means the
// tee.
type ResetData struct {
	Position *[3]float64 `json:"position"`
}

// SessionHub is the single hub for all practice sessions.
var SessionHub *Hub

func init() {
	SessionHub = NewHub()
	go SessionHub.Run()
}

// HandleWebSocket upgrades a session owner's connection. The access token
// comes from the access_token query parameter, since browsers cannot set
// headers on WebSocket requests, or from the Authorization header.
func HandleWebSocket(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Param("token")
		accessToken := c.Query("access_token")
		if accessToken == "" {
			accessToken = strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		}
		if token == "" || accessToken == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "session token and access_token required"})
			return
		}

		claims, err := auth.Parse(cfg.JWTSecret, accessToken)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid access token"})
			return
		}

		owner, err := game.Manager.Owner(token)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		if owner != claims.PlayerID {
			c.JSON(http.StatusForbidden, gin.H{"error": "session belongs to another player"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("[WS] Upgrade error: %v", err)
			return
		}

		client := &Client{
			conn:     conn,
			playerID: claims.PlayerID,
			token:    token,
			send:     make(chan []byte, sendBuffer),
		}
		SessionHub.register <- client

		if st, err := game.Manager.GetState(token); err == nil {
			client.sendJSON(map[string]interface{}{"type": "session_state", "data": st})
		}

		go client.writePump()
		go client.readPump()
	}
}

// readPump reads client commands until the connection drops.
func (c *Client) readPump() {
	defer func() {
		SessionHub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(65536)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[WS] Unexpected close for player %d: %v", c.playerID, err)
			}
			break
		}

		var msg WSMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			c.sendError("Invalid message")
			continue
		}
		c.handleMessage(msg)
	}
}

// handleMessage applies one client command. Results reach the client through
// the session events the manager publishes; only failures and state queries
// are answered directly.
func (c *Client) handleMessage(msg WSMessage) {
	ctx := context.Background()

	switch msg.Type {
	case "hit":
		var input game.ShotInput
		if err := json.Unmarshal(msg.Data, &input); err != nil {
			c.sendError("Invalid shot data")
			return
		}
		if _, err := game.Manager.Hit(ctx, c.token, c.playerID, input); err != nil {
			c.sendError(commandError(err))
		}

	case "reset":
		var data ResetData
		if len(msg.Data) > 0 {
			if err := json.Unmarshal(msg.Data, &data); err != nil {
				c.sendError("Invalid reset data")
				return
			}
		}
		var pos *mgl64.Vec3
		if data.Position != nil {
			p := mgl64.Vec3(*data.Position)
			pos = &p
		}
		if _, err := game.Manager.Reset(ctx, c.token, c.playerID, pos); err != nil {
			c.sendError(commandError(err))
		}

	case "get_state":
		st, err := game.Manager.GetState(c.token)
		if err != nil {
			c.sendError(commandError(err))
			return
		}
		c.sendJSON(map[string]interface{}{"type": "session_state", "data": st})

	default:
		c.sendError("Unknown message type")
	}
}

func commandError(err error) string {
	switch {
	case errors.Is(err, game.ErrBallInMotion):
		return "Ball is still moving"
	case errors.Is(err, game.ErrInvalidShot):
		return "Invalid shot"
	case errors.Is(err, game.ErrSessionNotFound):
		return "Session not found"
	case errors.Is(err, game.ErrNotOwner):
		return "Not your session"
	default:
		log.Printf("[WS] command failed: %v", err)
		return "Command failed"
	}
}
