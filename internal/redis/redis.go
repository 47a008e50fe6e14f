package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// BallEventsChannel carries session events between instances.
	BallEventsChannel = "ball_events"
	// IdleSessionsKey is a sorted set of session tokens scored by the unix
	// time they expire.
	IdleSessionsKey = "session_idle"
)

// SessionStateKey is where the msgpack snapshot of a session is cached.
func SessionStateKey(token string) string {
	return "session:" + token + ":state"
}

// Connect establishes a connection to Redis
func Connect(redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return client, nil
}
