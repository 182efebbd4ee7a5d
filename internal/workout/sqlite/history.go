package sqlite

import (
	"context"
	"fmt"

	"github.com/2beens/liftlog/internal/history"
	"github.com/2beens/liftlog/internal/workout"
)

func (s *Store) ListCompletedSessions(ctx context.Context, userID string, limit, offset int) ([]workout.Session, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+sessionColumns+`
		FROM workouts
		WHERE user_id = ? AND completed_at IS NOT NULL
		ORDER BY started_at DESC
		LIMIT ? OFFSET ?`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list completed sessions: %w", err)
	}
	defer rows.Close()

	sessions := make([]workout.Session, 0)
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, *session)
	}
	return sessions, rows.Err()
}

func (s *Store) CountCompletedSessions(ctx context.Context, userID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM workouts WHERE user_id = ? AND completed_at IS NOT NULL`,
		userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count completed sessions: %w", err)
	}
	return count, nil
}

func (s *Store) ListExerciseSets(ctx context.Context, params history.SetParams) ([]history.SetRecord, error) {
	var from, to any
	if params.From != nil {
		from = formatTime(*params.From)
	}
	if params.To != nil {
		to = formatTime(*params.To)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT w.id, we.exercise_id, ws.set_number, ws.weight_kg, ws.reps, ws.rpe, ws.timestamp
		FROM workout_sets ws
		JOIN workout_exercises we ON we.id = ws.workout_exercise_id
		JOIN workouts w ON w.id = we.workout_id
		WHERE w.user_id = ?
		  AND we.exercise_id = ?
		  AND (? IS NULL OR ws.timestamp >= ?)
		  AND (? IS NULL OR ws.timestamp <= ?)
		ORDER BY ws.timestamp`,
		params.UserID, params.ExerciseID, from, from, to, to,
	)
	if err != nil {
		return nil, fmt.Errorf("list exercise sets: %w", err)
	}
	defer rows.Close()

	records := make([]history.SetRecord, 0)
	for rows.Next() {
		var (
			r  history.SetRecord
			ts string
		)
		if err := rows.Scan(&r.WorkoutID, &r.ExerciseID, &r.SetNumber, &r.WeightKg, &r.Reps, &r.RPE, &ts); err != nil {
			return nil, fmt.Errorf("scan exercise set: %w", err)
		}
		if r.Timestamp, err = parseTime(ts); err != nil {
			return nil, fmt.Errorf("parse set timestamp: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
