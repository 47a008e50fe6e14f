package game

import (
	"context"
	"log"
	"time"
)

// StartSimulationWorker advances every session at the configured tick rate
// until ctx is cancelled.
func (m *SessionManager) StartSimulationWorker(ctx context.Context) {
	dt := m.config.TickSeconds()
	log.Printf("[SIM] Simulation worker started (%.0f Hz)", 1/dt)

	go func() {
		ticker := time.NewTicker(time.Duration(dt * float64(time.Second)))
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Println("[SIM] Simulation worker stopping")
				return
			case <-ticker.C:
				m.Tick(ctx, dt)
			}
		}
	}()
}

type finishedShot struct {
	session *Session
	shot    ShotSummary
	state   SessionState
}

// Tick runs one simulation step for every active session. Events and
// finished shots are published and stored after the simulation lock is
// released.
func (m *SessionManager) Tick(ctx context.Context, dt float64) {
	var events []Event
	var done []finishedShot

	m.simMu.Lock()
	for _, s := range m.snapshotSessions() {
		if s.Status != StatusActive {
			continue
		}

		moving := !s.ball.State().IsResting
		s.ball.Update(dt)
		s.tracker.Observe()

		evs := s.tracker.Drain()
		if moving {
			evs = append(evs, Event{Type: EventBallUpdate, Data: s.ball.Snapshot()})
		}
		if shot := s.tracker.Finish(); shot != nil {
			s.record(*shot)
			evs = append(evs, Event{Type: EventShotResult, Data: *shot})
			done = append(done, finishedShot{session: s, shot: *shot, state: s.state()})
		}
		events = append(events, tagEvents(s.Token, evs)...)
	}
	m.simMu.Unlock()

	m.publish(ctx, events...)

	for _, f := range done {
		if err := m.insertShot(ctx, f.session, f.shot); err != nil {
			log.Printf("[DB] Failed to store shot %d for session %s: %v", f.shot.Number, f.session.Token, err)
		}
		m.saveSnapshot(ctx, f.state)
		log.Printf("[SIM] Session %s shot %d done: carry=%.1fm total=%.1fm apex=%.1fm bounces=%d hazard=%v oob=%v",
			f.session.Token, f.shot.Number, f.shot.Carry, f.shot.TotalDistance, f.shot.Apex, f.shot.Bounces, f.shot.Hazard, f.shot.OutOfBounds)
	}
}
