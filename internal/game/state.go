package game

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/playmatatu/fairway/internal/physics"
)

// SessionStatus is the lifecycle state of a practice session.
type SessionStatus string

const (
	StatusActive  SessionStatus = "ACTIVE"
	StatusClosed  SessionStatus = "CLOSED"
	StatusExpired SessionStatus = "EXPIRED"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrNotOwner        = errors.New("session belongs to another player")
	ErrBallInMotion    = errors.New("ball is still moving")
	ErrInvalidShot     = errors.New("invalid shot input")
	ErrCourseNotFound  = errors.New("course not found")
)

// maxHistory bounds the shots kept in memory per session.
const maxHistory = 100

// Session is one player's ball on one course. Ball and tracker are only
// touched with the manager's simulation lock held.
type Session struct {
	ID         uuid.UUID
	Token      string
	PlayerID   int
	CourseID   int // 0 is the built-in flat range
	CourseName string
	RecordID   int // practice_sessions.id, 0 when not persisted

	ball    *physics.Ball
	tracker *ShotTracker

	Status       SessionStatus
	ShotCount    int
	History      []ShotSummary
	CreatedAt    time.Time
	LastActivity time.Time
}

// SessionState is the API view of a session.
type SessionState struct {
	ID         string           `json:"id" msgpack:"id"`
	Token      string           `json:"token" msgpack:"token"`
	PlayerID   int              `json:"player_id" msgpack:"player_id"`
	CourseID   int              `json:"course_id" msgpack:"course_id"`
	CourseName string           `json:"course_name" msgpack:"course_name"`
	Status     SessionStatus    `json:"status" msgpack:"status"`
	ShotCount  int              `json:"shot_count" msgpack:"shot_count"`
	Ball       physics.Snapshot `json:"ball" msgpack:"ball"`
	LastShot   *ShotSummary     `json:"last_shot,omitempty" msgpack:"last_shot,omitempty"`
	UpdatedAt  int64            `json:"updated_at" msgpack:"updated_at"`
}

func (s *Session) state() SessionState {
	st := SessionState{
		ID:         s.ID.String(),
		Token:      s.Token,
		PlayerID:   s.PlayerID,
		CourseID:   s.CourseID,
		CourseName: s.CourseName,
		Status:     s.Status,
		ShotCount:  s.ShotCount,
		Ball:       s.ball.Snapshot(),
		UpdatedAt:  time.Now().Unix(),
	}
	if n := len(s.History); n > 0 {
		last := s.History[n-1]
		st.LastShot = &last
	}
	return st
}

func (s *Session) record(shot ShotSummary) {
	s.History = append(s.History, shot)
	if len(s.History) > maxHistory {
		s.History = s.History[len(s.History)-maxHistory:]
	}
}
