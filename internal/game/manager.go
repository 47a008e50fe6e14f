package game

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/playmatatu/fairway/internal/config"
	"github.com/playmatatu/fairway/internal/physics"
	"github.com/playmatatu/fairway/internal/terrain"
	"github.com/redis/go-redis/v9"
)

// SessionManager owns every active practice session on this instance.
//
// Hit, Reset and the simulation tick all take simMu, so commands are applied
// strictly between ticks and a ball is never stepped concurrently.
type SessionManager struct {
	sessions map[string]*Session // keyed by token
	db       *sqlx.DB
	rdb      *redis.Client
	config   *config.Config

	broadcaster Broadcaster

	mu    sync.RWMutex // guards sessions
	simMu sync.Mutex
}

var (
	// Global session manager instance
	Manager *SessionManager
)

// InitializeManager initializes the global session manager with Redis, DB
// and config.
func InitializeManager(db *sqlx.DB, rdb *redis.Client, cfg *config.Config) {
	Manager = NewSessionManager(db, rdb, cfg)
}

// NewSessionManager creates a manager. db and rdb may be nil, in which case
// nothing is persisted or cached.
func NewSessionManager(db *sqlx.DB, rdb *redis.Client, cfg *config.Config) *SessionManager {
	if cfg == nil {
		cfg = &config.Config{SimTickHz: 60, SessionIdleMinutes: 15, SnapshotTTLMinutes: 60, PhysicsSeed: 1}
	}
	return &SessionManager{
		sessions: make(map[string]*Session),
		db:       db,
		rdb:      rdb,
		config:   cfg,
	}
}

// SetBroadcaster sets where events go when Redis is not configured.
func (m *SessionManager) SetBroadcaster(b Broadcaster) {
	m.mu.Lock()
	m.broadcaster = b
	m.mu.Unlock()
}

// GetConfig returns the manager configuration.
func (m *SessionManager) GetConfig() *config.Config {
	return m.config
}

// generateToken generates a secure random token
func generateToken(length int) string {
	buf := make([]byte, length)
	rand.Read(buf)
	return hex.EncodeToString(buf)
}

// CreateSession starts a session for the player on a stored course, or on the
// built-in flat range when courseID is 0.
func (m *SessionManager) CreateSession(ctx context.Context, playerID, courseID int) (SessionState, error) {
	ground, params, name, err := m.courseTerrain(ctx, courseID)
	if err != nil {
		return SessionState{}, err
	}

	tracker := NewShotTracker(ground)
	ball := physics.NewBall(ground, params, tracker)
	tracker.Attach(ball)

	now := time.Now()
	s := &Session{
		ID:           uuid.New(),
		Token:        generateToken(16),
		PlayerID:     playerID,
		CourseID:     courseID,
		CourseName:   name,
		ball:         ball,
		tracker:      tracker,
		Status:       StatusActive,
		CreatedAt:    now,
		LastActivity: now,
	}

	if id, err := m.insertSessionRecord(ctx, s); err != nil {
		log.Printf("[DB] Failed to record session %s: %v", s.Token, err)
	} else {
		s.RecordID = id
	}

	m.mu.Lock()
	m.sessions[s.Token] = s
	m.mu.Unlock()

	m.simMu.Lock()
	st := s.state()
	m.simMu.Unlock()

	m.touchIdle(ctx, s.Token)
	m.saveSnapshot(ctx, st)
	log.Printf("[SIM] Session %s created for player %d (course=%q)", s.Token, playerID, name)
	return st, nil
}

// courseTerrain resolves the terrain and tuning for a course.
func (m *SessionManager) courseTerrain(ctx context.Context, courseID int) (physics.Terrain, physics.Params, string, error) {
	params := m.config.PhysicsParams()
	if courseID == 0 {
		return terrain.Plane{Height: 0, Material: physics.MaterialFairway}, params, "Flat Range", nil
	}

	course, err := m.LoadCourse(ctx, courseID)
	if err != nil {
		return nil, params, "", err
	}
	doc, err := terrain.Decode(bytes.NewReader(course.Document))
	if err != nil {
		return nil, params, "", fmt.Errorf("course %d: %w", courseID, err)
	}
	hm, err := doc.Heightmap()
	if err != nil {
		return nil, params, "", fmt.Errorf("course %d: %w", courseID, err)
	}
	return hm, doc.Apply(params), course.Name, nil
}

// lookup returns the session for token.
func (m *SessionManager) lookup(token string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[token]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// GetState returns the current view of a session.
func (m *SessionManager) GetState(token string) (SessionState, error) {
	s, err := m.lookup(token)
	if err != nil {
		return SessionState{}, err
	}
	m.simMu.Lock()
	defer m.simMu.Unlock()
	return s.state(), nil
}

// Owner returns the player that owns a session.
func (m *SessionManager) Owner(token string) (int, error) {
	s, err := m.lookup(token)
	if err != nil {
		return 0, err
	}
	return s.PlayerID, nil
}

// command runs fn on the session between simulation ticks after checking
// ownership. playerID 0 skips the ownership check.
func (m *SessionManager) command(token string, playerID int, fn func(s *Session) error) (SessionState, []Event, error) {
	s, err := m.lookup(token)
	if err != nil {
		return SessionState{}, nil, err
	}
	if playerID != 0 && s.PlayerID != playerID {
		return SessionState{}, nil, ErrNotOwner
	}

	m.simMu.Lock()
	defer m.simMu.Unlock()
	if s.Status != StatusActive {
		return SessionState{}, nil, ErrSessionNotFound
	}
	if err := fn(s); err != nil {
		return SessionState{}, nil, err
	}
	s.LastActivity = time.Now()
	return s.state(), tagEvents(s.Token, s.tracker.Drain()), nil
}

// Hit strikes the ball. The ball must be resting.
func (m *SessionManager) Hit(ctx context.Context, token string, playerID int, input ShotInput) (SessionState, error) {
	st, events, err := m.command(token, playerID, func(s *Session) error {
		if !s.ball.State().IsResting {
			return ErrBallInMotion
		}
		s.tracker.Arm(s.ShotCount+1, input)
		if !s.ball.Hit(input.Power, input.Direction(), input.LoftDegrees, input.SideSpin) {
			s.tracker.Disarm()
			return ErrInvalidShot
		}
		s.ShotCount++
		return nil
	})
	if err != nil {
		return st, err
	}

	m.touchIdle(ctx, token)
	m.publish(ctx, events...)
	log.Printf("[SIM] Session %s shot %d: power=%.1f loft=%.1f side=%.2f", token, st.ShotCount, input.Power, input.LoftDegrees, input.SideSpin)
	return st, nil
}

// Reset puts the ball back on the tee, or at position when given. It also
// applies to a ball in motion, whose shot is dropped and never recorded.
func (m *SessionManager) Reset(ctx context.Context, token string, playerID int, position *mgl64.Vec3) (SessionState, error) {
	abandoned := 0
	st, events, err := m.command(token, playerID, func(s *Session) error {
		abandoned = s.tracker.Abandon()
		s.ball.Reset(position)
		return nil
	})
	if err != nil {
		return st, err
	}

	if abandoned > 0 {
		log.Printf("[SIM] Session %s shot %d abandoned by reset", token, abandoned)
	}
	events = append(events, Event{Type: EventReset, Session: token, Data: map[string]interface{}{
		"ball":           st.Ball,
		"abandoned_shot": abandoned,
	}})
	m.touchIdle(ctx, token)
	m.publish(ctx, events...)
	m.saveSnapshot(ctx, st)
	return st, nil
}

// History returns the shots of a session, oldest first.
func (m *SessionManager) History(token string, playerID int) ([]ShotSummary, error) {
	s, err := m.lookup(token)
	if err != nil {
		return nil, err
	}
	if playerID != 0 && s.PlayerID != playerID {
		return nil, ErrNotOwner
	}
	m.simMu.Lock()
	defer m.simMu.Unlock()
	out := make([]ShotSummary, len(s.History))
	copy(out, s.History)
	return out, nil
}

// CloseSession ends a session. playerID 0 skips the ownership check. When
// two callers race, only the first closes it; the other gets
// ErrSessionNotFound.
func (m *SessionManager) CloseSession(ctx context.Context, token string, playerID int, status SessionStatus) error {
	m.mu.Lock()
	s, ok := m.sessions[token]
	if !ok {
		m.mu.Unlock()
		return ErrSessionNotFound
	}
	if playerID != 0 && s.PlayerID != playerID {
		m.mu.Unlock()
		return ErrNotOwner
	}
	delete(m.sessions, token)
	m.mu.Unlock()

	m.simMu.Lock()
	s.Status = status
	m.simMu.Unlock()

	if err := m.closeSessionRecord(ctx, s.RecordID, status); err != nil {
		log.Printf("[DB] Failed to close session %s: %v", token, err)
	}
	m.forget(ctx, token)
	m.publish(ctx, Event{Type: EventSessionClosed, Session: token, Data: map[string]interface{}{"status": status}})
	log.Printf("[SIM] Session %s closed (%s)", token, status)
	return nil
}

// ActiveSessions returns the number of sessions on this instance.
func (m *SessionManager) ActiveSessions() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *SessionManager) snapshotSessions() []*Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	return out
}

// publish sends events through Redis when available so every instance's
// WebSocket hub sees them, otherwise straight to the local broadcaster.
func (m *SessionManager) publish(ctx context.Context, events ...Event) {
	if len(events) == 0 {
		return
	}
	if m.rdb != nil {
		for _, e := range events {
			if err := m.publishEvent(ctx, e); err != nil {
				log.Printf("[REDIS] publish %s for session %s failed: %v", e.Type, e.Session, err)
			}
		}
		return
	}

	m.mu.RLock()
	b := m.broadcaster
	m.mu.RUnlock()
	if b == nil {
		return
	}
	for _, e := range events {
		b.BroadcastToSession(e.Session, e)
	}
}

func tagEvents(token string, events []Event) []Event {
	for i := range events {
		events[i].Session = token
	}
	return events
}
