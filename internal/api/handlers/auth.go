package handlers

import (
	"database/sql"
	"errors"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/playmatatu/fairway/internal/auth"
	"github.com/playmatatu/fairway/internal/config"
)

var (
	usernamePattern = regexp.MustCompile(`^[a-z0-9_]{3,32}$`)
	pinPattern      = regexp.MustCompile(`^[0-9]{4,6}$`)
)

type credentials struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	PIN         string `json:"pin"`
}

func (r *credentials) normalize() {
	r.Username = strings.ToLower(strings.TrimSpace(r.Username))
	r.DisplayName = strings.TrimSpace(r.DisplayName)
	r.PIN = strings.TrimSpace(r.PIN)
}

// Register creates a player and returns an access token.
// POST /api/v1/auth/register
func Register(db *sqlx.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req credentials
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		req.normalize()
		if !usernamePattern.MatchString(req.Username) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "username must be 3-32 lowercase letters, digits or underscores"})
			return
		}
		if !pinPattern.MatchString(req.PIN) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "PIN must be 4-6 digits"})
			return
		}
		if req.DisplayName == "" {
			req.DisplayName = req.Username
		}
		if db == nil {
			databaseUnavailable(c)
			return
		}

		hash, err := auth.HashPIN(req.PIN)
		if err != nil {
			log.Printf("[AUTH] Failed to hash PIN: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		var id int
		err = db.GetContext(c.Request.Context(), &id,
			`INSERT INTO players (username, display_name, pin_hash, created_at) VALUES ($1, $2, $3, NOW()) RETURNING id`,
			req.Username, req.DisplayName, hash)
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			c.JSON(http.StatusConflict, gin.H{"error": "username already taken"})
			return
		}
		if err != nil {
			log.Printf("[AUTH] Register DB error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		log.Printf("[AUTH] Player %d registered (%s)", id, req.Username)
		issueToken(c, cfg, http.StatusCreated, id, req.Username, req.DisplayName)
	}
}

// Login checks a username and PIN and returns an access token.
// POST /api/v1/auth/login
func Login(db *sqlx.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req credentials
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		req.normalize()
		if req.Username == "" || req.PIN == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "username and pin required"})
			return
		}
		if db == nil {
			databaseUnavailable(c)
			return
		}

		var player struct {
			ID          int    `db:"id"`
			DisplayName string `db:"display_name"`
			PINHash     string `db:"pin_hash"`
		}
		err := db.GetContext(c.Request.Context(), &player,
			`SELECT id, display_name, pin_hash FROM players WHERE username = $1`, req.Username)
		if err == sql.ErrNoRows || (err == nil && !auth.CheckPIN(player.PINHash, req.PIN)) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or PIN"})
			return
		}
		if err != nil {
			log.Printf("[AUTH] Login DB error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		db.ExecContext(c.Request.Context(), `UPDATE players SET last_active = NOW() WHERE id = $1`, player.ID)
		issueToken(c, cfg, http.StatusOK, player.ID, req.Username, player.DisplayName)
	}
}

func issueToken(c *gin.Context, cfg *config.Config, status, playerID int, username, displayName string) {
	ttl := time.Duration(cfg.TokenTTLHours) * time.Hour
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	token, exp, err := auth.Issue(cfg.JWTSecret, playerID, username, ttl)
	if err != nil {
		log.Printf("[AUTH] Failed to issue token for player %d: %v", playerID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{
		"access_token": token,
		"expires_at":   exp.Unix(),
		"player": gin.H{
			"id":           playerID,
			"username":     username,
			"display_name": displayName,
		},
	})
}
