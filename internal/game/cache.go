package game

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	rkeys "github.com/playmatatu/fairway/internal/redis"
	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"
)

// saveSnapshot caches the session view in Redis as msgpack.
func (m *SessionManager) saveSnapshot(ctx context.Context, st SessionState) {
	if m.rdb == nil {
		return
	}
	data, err := msgpack.Marshal(&st)
	if err != nil {
		log.Printf("[REDIS] Failed to encode snapshot for session %s: %v", st.Token, err)
		return
	}
	ttl := time.Duration(m.config.SnapshotTTLMinutes) * time.Minute
	if ttl <= 0 {
		ttl = time.Hour
	}
	if err := m.rdb.Set(ctx, rkeys.SessionStateKey(st.Token), data, ttl).Err(); err != nil {
		log.Printf("[REDIS] Failed to cache snapshot for session %s: %v", st.Token, err)
	}
}

// LoadSnapshot reads a cached session view. It works for sessions owned by
// other instances too.
func (m *SessionManager) LoadSnapshot(ctx context.Context, token string) (SessionState, error) {
	var st SessionState
	if m.rdb == nil {
		return st, ErrSessionNotFound
	}
	data, err := m.rdb.Get(ctx, rkeys.SessionStateKey(token)).Bytes()
	if err == redis.Nil {
		return st, ErrSessionNotFound
	}
	if err != nil {
		return st, fmt.Errorf("load snapshot %s: %w", token, err)
	}
	if err := msgpack.Unmarshal(data, &st); err != nil {
		return st, fmt.Errorf("decode snapshot %s: %w", token, err)
	}
	return st, nil
}

// touchIdle pushes the session's expiry forward in the idle set.
func (m *SessionManager) touchIdle(ctx context.Context, token string) {
	if m.rdb == nil {
		return
	}
	expires := time.Now().Add(m.idleTimeout()).Unix()
	if err := m.rdb.ZAdd(ctx, rkeys.IdleSessionsKey, redis.Z{Score: float64(expires), Member: token}).Err(); err != nil {
		log.Printf("[REDIS] Failed to touch idle timer for session %s: %v", token, err)
	}
}

// forget drops everything Redis holds for a session.
func (m *SessionManager) forget(ctx context.Context, token string) {
	if m.rdb == nil {
		return
	}
	pipe := m.rdb.TxPipeline()
	pipe.Del(ctx, rkeys.SessionStateKey(token))
	pipe.ZRem(ctx, rkeys.IdleSessionsKey, token)
	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("[REDIS] Failed to clear session %s: %v", token, err)
	}
}

func (m *SessionManager) publishEvent(ctx context.Context, e Event) error {
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return m.rdb.Publish(ctx, rkeys.BallEventsChannel, b).Err()
}

func (m *SessionManager) idleTimeout() time.Duration {
	minutes := m.config.SessionIdleMinutes
	if minutes <= 0 {
		minutes = 15
	}
	return time.Duration(minutes) * time.Minute
}
