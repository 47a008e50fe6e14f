package game

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/playmatatu/fairway/internal/models"
)

// LoadCourse fetches a stored course.
func (m *SessionManager) LoadCourse(ctx context.Context, id int) (*models.Course, error) {
	if m.db == nil {
		return nil, ErrCourseNotFound
	}
	var c models.Course
	err := m.db.GetContext(ctx, &c, `SELECT id, name, document, created_at, updated_at FROM courses WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCourseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load course %d: %w", id, err)
	}
	return &c, nil
}

// ListCourses returns every stored course without its terrain document.
func (m *SessionManager) ListCourses(ctx context.Context) ([]models.Course, error) {
	courses := []models.Course{}
	if m.db == nil {
		return courses, nil
	}
	if err := m.db.SelectContext(ctx, &courses, `SELECT id, name, created_at, updated_at FROM courses ORDER BY name`); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

// SaveCourse inserts or replaces a course by name and returns its id.
func SaveCourse(ctx context.Context, db *sqlx.DB, name string, document []byte) (int, error) {
	var id int
	err := db.GetContext(ctx, &id, `
		INSERT INTO courses (name, document, created_at, updated_at)
		VALUES ($1, $2::jsonb, NOW(), NOW())
		ON CONFLICT (name) DO UPDATE SET document = EXCLUDED.document, updated_at = NOW()
		RETURNING id`, name, string(document))
	if err != nil {
		return 0, fmt.Errorf("save course %q: %w", name, err)
	}
	return id, nil
}

func (m *SessionManager) insertSessionRecord(ctx context.Context, s *Session) (int, error) {
	if m.db == nil {
		return 0, nil
	}

	var courseID sql.NullInt64
	if s.CourseID > 0 {
		courseID = sql.NullInt64{Int64: int64(s.CourseID), Valid: true}
	}

	tx, err := m.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var id int
	if err := tx.GetContext(ctx, &id, `
		INSERT INTO practice_sessions (session_uuid, token, player_id, course_id, status, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW()) RETURNING id`,
		s.ID.String(), s.Token, s.PlayerID, courseID, string(StatusActive)); err != nil {
		return 0, err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE players SET total_sessions = total_sessions + 1, last_active = NOW() WHERE id = $1`, s.PlayerID); err != nil {
		return 0, err
	}
	return id, tx.Commit()
}

func (m *SessionManager) insertShot(ctx context.Context, s *Session, shot ShotSummary) error {
	if m.db == nil || s.RecordID == 0 {
		return nil
	}

	tx, err := m.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO shots (session_id, player_id, shot_number, power, direction_x, direction_z, loft_degrees, side_spin,
			start_x, start_y, start_z, end_x, end_y, end_z, carry, total_distance, apex, bounces,
			hazard, out_of_bounds, final_material, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,NOW())`,
		s.RecordID, s.PlayerID, shot.Number, shot.Input.Power, shot.Input.DirectionX, shot.Input.DirectionZ,
		shot.Input.LoftDegrees, shot.Input.SideSpin,
		shot.Start.X(), shot.Start.Y(), shot.Start.Z(), shot.End.X(), shot.End.Y(), shot.End.Z(),
		shot.Carry, shot.TotalDistance, shot.Apex, shot.Bounces, shot.Hazard, shot.OutOfBounds, shot.FinalMaterial)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE practice_sessions SET shot_count = shot_count + 1 WHERE id = $1`, s.RecordID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `
		UPDATE players SET total_shots = total_shots + 1, best_carry = GREATEST(best_carry, $2), last_active = NOW()
		WHERE id = $1`, s.PlayerID, shot.Carry); err != nil {
		return err
	}
	return tx.Commit()
}

func (m *SessionManager) closeSessionRecord(ctx context.Context, recordID int, status SessionStatus) error {
	if m.db == nil || recordID == 0 {
		return nil
	}
	_, err := m.db.ExecContext(ctx, `UPDATE practice_sessions SET status = $2, closed_at = NOW() WHERE id = $1`, recordID, string(status))
	return err
}

// PlayerShots returns the player's most recent stored shots, newest first.
func (m *SessionManager) PlayerShots(ctx context.Context, playerID, limit int) ([]models.Shot, error) {
	shots := []models.Shot{}
	if m.db == nil {
		return shots, nil
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	err := m.db.SelectContext(ctx, &shots, `SELECT * FROM shots WHERE player_id = $1 ORDER BY created_at DESC, id DESC LIMIT $2`, playerID, limit)
	if err != nil {
		return nil, fmt.Errorf("list shots for player %d: %w", playerID, err)
	}
	return shots, nil
}
