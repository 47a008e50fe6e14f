package game

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// captureBroadcaster keeps every event it is handed.
type captureBroadcaster struct {
	mu     sync.Mutex
	events []Event
}

func (c *captureBroadcaster) BroadcastToSession(token string, message interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := message.(Event); ok {
		c.events = append(c.events, e)
	}
}

func (c *captureBroadcaster) types() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.events))
	for i, e := range c.events {
		out[i] = e.Type
	}
	return out
}

func (c *captureBroadcaster) count(eventType string) int {
	n := 0
	for _, t := range c.types() {
		if t == eventType {
			n++
		}
	}
	return n
}

// setupRange returns a manager without DB or Redis and one session on the
// flat range owned by player 7.
func setupRange(t *testing.T) (*SessionManager, *captureBroadcaster, string) {
	t.Helper()
	m := NewSessionManager(nil, nil, nil)
	b := &captureBroadcaster{}
	m.SetBroadcaster(b)

	st, err := m.CreateSession(context.Background(), 7, 0)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	return m, b, st.Token
}

var straightDrive = ShotInput{Power: 40, DirectionX: 0, DirectionZ: -1, LoftDegrees: 15}

// tickUntilShot ticks at 60 Hz until the session has n recorded shots.
func tickUntilShot(t *testing.T, m *SessionManager, token string, n int) SessionState {
	t.Helper()
	ctx := context.Background()
	for i := 0; i < 60*180; i++ {
		m.Tick(ctx, 1.0/60)
		st, err := m.GetState(token)
		if err != nil {
			t.Fatalf("GetState: %v", err)
		}
		if st.LastShot != nil && st.LastShot.Number == n && st.Ball.IsResting {
			return st
		}
	}
	t.Fatalf("shot %d never finished", n)
	return SessionState{}
}

func TestCreateSessionOnFlatRange(t *testing.T) {
	m, _, token := setupRange(t)

	st, err := m.GetState(token)
	if err != nil {
		t.Fatalf("GetState: %v", err)
	}
	if st.Status != StatusActive || st.CourseName != "Flat Range" || st.PlayerID != 7 {
		t.Errorf("unexpected state: %+v", st)
	}
	if !st.Ball.IsResting {
		t.Error("new ball should rest on the tee")
	}
	if st.Ball.Position.Y() <= 0 {
		t.Errorf("ball should sit above the ground, y=%.3f", st.Ball.Position.Y())
	}
	if len(token) != 32 {
		t.Errorf("token length = %d, want 32", len(token))
	}
	if m.ActiveSessions() != 1 {
		t.Errorf("ActiveSessions = %d, want 1", m.ActiveSessions())
	}
}

func TestCreateSessionUnknownCourseWithoutDatabase(t *testing.T) {
	m := NewSessionManager(nil, nil, nil)
	if _, err := m.CreateSession(context.Background(), 1, 42); !errors.Is(err, ErrCourseNotFound) {
		t.Errorf("err = %v, want ErrCourseNotFound", err)
	}
}

func TestHitProducesShotSummary(t *testing.T) {
	m, b, token := setupRange(t)

	st, err := m.Hit(context.Background(), token, 7, straightDrive)
	if err != nil {
		t.Fatalf("Hit: %v", err)
	}
	if st.ShotCount != 1 || st.Ball.IsResting {
		t.Fatalf("after hit: shot_count=%d resting=%v", st.ShotCount, st.Ball.IsResting)
	}

	st = tickUntilShot(t, m, token, 1)
	shot := st.LastShot
	if shot.Carry <= 0 || shot.TotalDistance <= 0 {
		t.Errorf("carry=%.2f total=%.2f, both should be positive", shot.Carry, shot.TotalDistance)
	}
	if shot.Apex <= 0 {
		t.Errorf("apex=%.2f, want > 0", shot.Apex)
	}
	if shot.Bounces < 1 {
		t.Errorf("bounces=%d, want >= 1", shot.Bounces)
	}
	if shot.End.Z() >= 0 {
		t.Errorf("ball should travel toward -z, end=%v", shot.End)
	}
	if shot.FinalMaterial != "fairway" {
		t.Errorf("final material = %q, want fairway", shot.FinalMaterial)
	}
	if shot.Input != straightDrive {
		t.Errorf("input = %+v, want %+v", shot.Input, straightDrive)
	}

	if b.count(EventHit) != 1 || b.count(EventStopped) != 1 || b.count(EventShotResult) != 1 {
		t.Errorf("event counts off: %v", b.types())
	}
	if b.count(EventBallUpdate) == 0 || b.count(EventImpact) == 0 {
		t.Errorf("expected ball updates and impacts: %v", b.types())
	}
	types := b.types()
	if types[0] != EventHit || types[len(types)-1] != EventShotResult {
		t.Errorf("events should start with hit and end with shot_result: %v", types)
	}

	history, err := m.History(token, 7)
	if err != nil || len(history) != 1 {
		t.Fatalf("History = %d shots, err=%v", len(history), err)
	}
}

func TestHitRejectedWhileBallMoving(t *testing.T) {
	m, _, token := setupRange(t)
	ctx := context.Background()

	if _, err := m.Hit(ctx, token, 7, straightDrive); err != nil {
		t.Fatalf("Hit: %v", err)
	}
	m.Tick(ctx, 1.0/60)

	if _, err := m.Hit(ctx, token, 7, straightDrive); !errors.Is(err, ErrBallInMotion) {
		t.Errorf("second hit err = %v, want ErrBallInMotion", err)
	}
	st, _ := m.GetState(token)
	if st.ShotCount != 1 {
		t.Errorf("shot_count = %d, want 1", st.ShotCount)
	}
}

func TestHitRejectsUnusableInput(t *testing.T) {
	m, _, token := setupRange(t)

	_, err := m.Hit(context.Background(), token, 7, ShotInput{Power: 50, LoftDegrees: 10})
	if !errors.Is(err, ErrInvalidShot) {
		t.Fatalf("err = %v, want ErrInvalidShot", err)
	}
	st, _ := m.GetState(token)
	if st.ShotCount != 0 || !st.Ball.IsResting {
		t.Errorf("rejected hit changed state: %+v", st)
	}
}

func TestCommandsCheckOwnership(t *testing.T) {
	m, _, token := setupRange(t)
	ctx := context.Background()

	if _, err := m.Hit(ctx, token, 8, straightDrive); !errors.Is(err, ErrNotOwner) {
		t.Errorf("Hit err = %v, want ErrNotOwner", err)
	}
	if _, err := m.Reset(ctx, token, 8, nil); !errors.Is(err, ErrNotOwner) {
		t.Errorf("Reset err = %v, want ErrNotOwner", err)
	}
	if _, err := m.History(token, 8); !errors.Is(err, ErrNotOwner) {
		t.Errorf("History err = %v, want ErrNotOwner", err)
	}
	if err := m.CloseSession(ctx, token, 8, StatusClosed); !errors.Is(err, ErrNotOwner) {
		t.Errorf("CloseSession err = %v, want ErrNotOwner", err)
	}
	if _, err := m.Hit(ctx, "missing", 7, straightDrive); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("unknown token err = %v, want ErrSessionNotFound", err)
	}
}

func TestResetAfterShot(t *testing.T) {
	m, b, token := setupRange(t)
	ctx := context.Background()

	if _, err := m.Hit(ctx, token, 7, straightDrive); err != nil {
		t.Fatalf("Hit: %v", err)
	}
	tickUntilShot(t, m, token, 1)

	st, err := m.Reset(ctx, token, 7, nil)
	if err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if st.Ball.Position.X() != 0 || st.Ball.Position.Z() != 0 {
		t.Errorf("reset should return to the tee, got %v", st.Ball.Position)
	}
	if !st.Ball.IsResting {
		t.Error("ball should rest after reset")
	}

	pos := mgl64.Vec3{5, 0, -20}
	st, err = m.Reset(ctx, token, 7, &pos)
	if err != nil {
		t.Fatalf("Reset to position: %v", err)
	}
	if st.Ball.Position.X() != 5 || st.Ball.Position.Z() != -20 {
		t.Errorf("reset position = %v, want x=5 z=-20", st.Ball.Position)
	}
	if b.count(EventReset) != 2 {
		t.Errorf("reset events = %d, want 2", b.count(EventReset))
	}
}

func TestResetOverridesShotInFlight(t *testing.T) {
	m, b, token := setupRange(t)
	ctx := context.Background()

	if _, err := m.Hit(ctx, token, 7, straightDrive); err != nil {
		t.Fatalf("Hit: %v", err)
	}
	for i := 0; i < 5; i++ {
		m.Tick(ctx, 1.0/60)
	}

	st, err := m.Reset(ctx, token, 7, nil)
	if err != nil {
		t.Fatalf("Reset while moving: %v", err)
	}
	if !st.Ball.IsResting || st.Ball.IsAirborne || st.Ball.Velocity != (mgl64.Vec3{}) {
		t.Errorf("reset should stop the ball: %+v", st.Ball)
	}
	if st.Ball.Position.X() != 0 || st.Ball.Position.Z() != 0 {
		t.Errorf("reset should return to the tee, got %v", st.Ball.Position)
	}
	if b.count(EventReset) != 1 {
		t.Errorf("reset events = %d, want 1", b.count(EventReset))
	}

	for i := 0; i < 120; i++ {
		m.Tick(ctx, 1.0/60)
	}
	if n := b.count(EventShotResult); n != 0 {
		t.Errorf("abandoned shot produced %d shot_result events", n)
	}
	if history, _ := m.History(token, 7); len(history) != 0 {
		t.Errorf("abandoned shot recorded: %+v", history)
	}

	if _, err := m.Hit(ctx, token, 7, straightDrive); err != nil {
		t.Fatalf("Hit after reset: %v", err)
	}
	st = tickUntilShot(t, m, token, 2)
	if st.ShotCount != 2 {
		t.Errorf("shot_count = %d, want 2", st.ShotCount)
	}
	if history, _ := m.History(token, 7); len(history) != 1 || history[0].Number != 2 {
		t.Errorf("history = %+v, want only shot 2", history)
	}
}

func TestConcurrentCloseClosesOnce(t *testing.T) {
	m, b, token := setupRange(t)
	ctx := context.Background()

	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- m.CloseSession(ctx, token, 0, StatusExpired)
		}()
	}
	wg.Wait()
	close(errs)

	closed, missing := 0, 0
	for err := range errs {
		switch {
		case err == nil:
			closed++
		case errors.Is(err, ErrSessionNotFound):
			missing++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if closed != 1 || missing != 1 {
		t.Errorf("closed=%d missing=%d, want one of each", closed, missing)
	}
	if n := b.count(EventSessionClosed); n != 1 {
		t.Errorf("session_closed events = %d, want 1", n)
	}
}

func TestSecondShotNumbering(t *testing.T) {
	m, _, token := setupRange(t)
	ctx := context.Background()

	for n := 1; n <= 2; n++ {
		if _, err := m.Hit(ctx, token, 7, straightDrive); err != nil {
			t.Fatalf("Hit %d: %v", n, err)
		}
		st := tickUntilShot(t, m, token, n)
		if st.ShotCount != n {
			t.Errorf("shot_count = %d, want %d", st.ShotCount, n)
		}
	}
	history, _ := m.History(token, 7)
	if len(history) != 2 || history[0].Number != 1 || history[1].Number != 2 {
		t.Errorf("history = %+v", history)
	}
	if horizontalDistance(history[1].Start, history[0].End) > 1e-9 {
		t.Errorf("second shot should start where the first ended: %v vs %v", history[1].Start, history[0].End)
	}
}

func TestCloseSession(t *testing.T) {
	m, b, token := setupRange(t)
	ctx := context.Background()

	if err := m.CloseSession(ctx, token, 7, StatusClosed); err != nil {
		t.Fatalf("CloseSession: %v", err)
	}
	if _, err := m.GetState(token); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("GetState after close err = %v", err)
	}
	if _, err := m.Hit(ctx, token, 7, straightDrive); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Hit after close err = %v", err)
	}
	if b.count(EventSessionClosed) != 1 {
		t.Errorf("session_closed events = %d, want 1", b.count(EventSessionClosed))
	}
	if m.ActiveSessions() != 0 {
		t.Errorf("ActiveSessions = %d, want 0", m.ActiveSessions())
	}
}

func TestExpireIdleSessions(t *testing.T) {
	m, b, token := setupRange(t)
	ctx := context.Background()

	if n := m.expireIdle(ctx, time.Now()); n != 0 {
		t.Fatalf("fresh session expired (%d)", n)
	}
	if n := m.expireIdle(ctx, time.Now().Add(16*time.Minute)); n != 1 {
		t.Fatalf("expired %d sessions, want 1", n)
	}
	if _, err := m.GetState(token); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expired session still present: %v", err)
	}
	if b.count(EventSessionClosed) != 1 {
		t.Errorf("session_closed events = %d, want 1", b.count(EventSessionClosed))
	}
}

func TestExpireIdleSkipsBallInFlight(t *testing.T) {
	m, _, token := setupRange(t)
	ctx := context.Background()

	if _, err := m.Hit(ctx, token, 7, straightDrive); err != nil {
		t.Fatalf("Hit: %v", err)
	}
	if n := m.expireIdle(ctx, time.Now().Add(time.Hour)); n != 0 {
		t.Errorf("session with a moving ball expired")
	}
}

func TestEventsAreTaggedWithSession(t *testing.T) {
	m, b, token := setupRange(t)
	if _, err := m.Hit(context.Background(), token, 7, straightDrive); err != nil {
		t.Fatalf("Hit: %v", err)
	}
	m.Tick(context.Background(), 1.0/60)

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, e := range b.events {
		if e.Session != token {
			t.Errorf("event %s tagged %q, want %q", e.Type, e.Session, token)
		}
	}
}
