package game

import (
	"context"
	"fmt"
	"log"
	"time"

	rkeys "github.com/playmatatu/fairway/internal/redis"
	"github.com/redis/go-redis/v9"
)

// StartIdleWorker expires sessions nobody has touched for SessionIdleMinutes.
// With Redis the deadlines live in a sorted set so any instance can pick them
// up; without it the manager scans its own sessions.
func (m *SessionManager) StartIdleWorker(ctx context.Context) {
	interval := time.Duration(m.config.IdleWorkerPollInterval) * time.Second
	if interval <= 0 {
		interval = 30 * time.Second
	}

	log.Println("[IDLE] Idle worker started")
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Println("[IDLE] Idle worker stopping")
				return
			case <-ticker.C:
				if m.rdb != nil {
					m.expireFromRedis(ctx, time.Now())
				} else {
					m.expireIdle(ctx, time.Now())
				}
			}
		}
	}()
}

func (m *SessionManager) expireFromRedis(ctx context.Context, now time.Time) {
	members, err := m.rdb.ZRangeByScore(ctx, rkeys.IdleSessionsKey, &redis.ZRangeBy{Min: "-inf", Max: fmt.Sprintf("%d", now.Unix())}).Result()
	if err != nil {
		log.Printf("[IDLE] Failed to fetch idle sessions: %v", err)
		return
	}
	for _, token := range members {
		// Only the instance that wins the ZREM acts on it.
		if removed, _ := m.rdb.ZRem(ctx, rkeys.IdleSessionsKey, token).Result(); removed == 0 {
			continue
		}
		if _, err := m.lookup(token); err != nil {
			// Owned by an instance that is gone; drop the stale snapshot.
			m.forget(ctx, token)
			continue
		}
		log.Printf("[IDLE] Expiring session %s", token)
		if err := m.CloseSession(ctx, token, 0, StatusExpired); err != nil {
			log.Printf("[IDLE] Failed to expire session %s: %v", token, err)
		}
	}
}

// expireIdle closes local sessions whose last activity is older than the
// idle timeout. A ball still in flight counts as activity.
func (m *SessionManager) expireIdle(ctx context.Context, now time.Time) int {
	cutoff := now.Add(-m.idleTimeout())

	var stale []string
	m.simMu.Lock()
	for _, s := range m.snapshotSessions() {
		if s.Status == StatusActive && s.ball.State().IsResting && s.LastActivity.Before(cutoff) {
			stale = append(stale, s.Token)
		}
	}
	m.simMu.Unlock()

	for _, token := range stale {
		log.Printf("[IDLE] Expiring session %s", token)
		if err := m.CloseSession(ctx, token, 0, StatusExpired); err != nil {
			log.Printf("[IDLE] Failed to expire session %s: %v", token, err)
		}
	}
	return len(stale)
}
