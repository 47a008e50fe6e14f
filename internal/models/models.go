package models

import (
	"database/sql"
	"encoding/json"
	"time"
)

// Player is a registered range user.
type Player struct {
	ID            int          `db:"id" json:"id"`
	Username      string       `db:"username" json:"username"`
	DisplayName   string       `db:"display_name" json:"display_name"`
	PINHash       string       `db:"pin_hash" json:"-"`
	TotalSessions int          `db:"total_sessions" json:"total_sessions"`
	TotalShots    int          `db:"total_shots" json:"total_shots"`
	BestCarry     float64      `db:"best_carry" json:"best_carry"`
	CreatedAt     time.Time    `db:"created_at" json:"created_at"`
	LastActive    sql.NullTime `db:"last_active" json:"last_active,omitempty"`
}

// Course stores a terrain document (see terrain.Document) as JSONB.
type Course struct {
	ID        int             `db:"id" json:"id"`
	Name      string          `db:"name" json:"name"`
	Document  json.RawMessage `db:"document" json:"-"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}

// PracticeSession is the persistent record of one player's range session.
type PracticeSession struct {
	ID          int           `db:"id" json:"id"`
	SessionUUID string        `db:"session_uuid" json:"session_uuid"`
	Token       string        `db:"token" json:"token"`
	PlayerID    int           `db:"player_id" json:"player_id"`
	CourseID    sql.NullInt64 `db:"course_id" json:"course_id,omitempty"`
	Status      string        `db:"status" json:"status"`
	ShotCount   int           `db:"shot_count" json:"shot_count"`
	CreatedAt   time.Time     `db:"created_at" json:"created_at"`
	ClosedAt    sql.NullTime  `db:"closed_at" json:"closed_at,omitempty"`
}

// Shot is one completed stroke: the inputs, where the ball started and
// finished, and the flight summary.
type Shot struct {
	ID            int       `db:"id" json:"id"`
	SessionID     int       `db:"session_id" json:"session_id"`
	PlayerID      int       `db:"player_id" json:"player_id"`
	ShotNumber    int       `db:"shot_number" json:"shot_number"`
	Power         float64   `db:"power" json:"power"`
	DirectionX    float64   `db:"direction_x" json:"direction_x"`
	DirectionZ    float64   `db:"direction_z" json:"direction_z"`
	LoftDegrees   float64   `db:"loft_degrees" json:"loft_degrees"`
	SideSpin      float64   `db:"side_spin" json:"side_spin"`
	StartX        float64   `db:"start_x" json:"start_x"`
	StartY        float64   `db:"start_y" json:"start_y"`
	StartZ        float64   `db:"start_z" json:"start_z"`
	EndX          float64   `db:"end_x" json:"end_x"`
	EndY          float64   `db:"end_y" json:"end_y"`
	EndZ          float64   `db:"end_z" json:"end_z"`
	Carry         float64   `db:"carry" json:"carry"`
	TotalDistance float64   `db:"total_distance" json:"total_distance"`
	Apex          float64   `db:"apex" json:"apex"`
	Bounces       int       `db:"bounces" json:"bounces"`
	Hazard        bool      `db:"hazard" json:"hazard"`
	OutOfBounds   bool      `db:"out_of_bounds" json:"out_of_bounds"`
	FinalMaterial string    `db:"final_material" json:"final_material"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}
