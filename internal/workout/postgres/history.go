package postgres

import (
	"context"
	"fmt"

	"github.com/2beens/liftlog/internal/history"
	"github.com/2beens/liftlog/internal/telemetry/tracing"
	"github.com/2beens/liftlog/internal/workout"
	"go.opentelemetry.io/otel/attribute"
)

func (s *Store) ListCompletedSessions(ctx context.Context, userID string, limit, offset int) (_ []workout.Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.history.sessions.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("limit", limit), attribute.Int("offset", offset))

	rows, err := s.db.Query(ctx, `
		SELECT `+sessionColumns+`
		FROM workouts
		WHERE user_id = $1 AND completed_at IS NOT NULL
		ORDER BY started_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
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

func (s *Store) CountCompletedSessions(ctx context.Context, userID string) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.history.sessions.count")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var count int
	err = s.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM workouts WHERE user_id = $1 AND completed_at IS NOT NULL
	`, userID).Scan(&count)
	if err != nil {
		return -1, fmt.Errorf("count completed sessions: %w", err)
	}
	return count, nil
}

func (s *Store) ListExerciseSets(ctx context.Context, params history.SetParams) (_ []history.SetRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.history.exerciseSets.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("exercise", params.ExerciseID))
	if params.From != nil {
		span.SetAttributes(attribute.String("from", params.From.String()))
	}
	if params.To != nil {
		span.SetAttributes(attribute.String("to", params.To.String()))
	}

	rows, err := s.db.Query(ctx, `
		SELECT w.id, we.exercise_id, ws.set_number, ws.weight_kg, ws.reps, ws.rpe, ws.timestamp
		FROM workout_sets ws
		JOIN workout_exercises we ON we.id = ws.workout_exercise_id
		JOIN workouts w ON w.id = we.workout_id
		WHERE w.user_id = $1
		  AND we.exercise_id = $2
		  AND ($3::timestamptz IS NULL OR ws.timestamp >= $3)
		  AND ($4::timestamptz IS NULL OR ws.timestamp <= $4)
		ORDER BY ws.timestamp
	`, params.UserID, params.ExerciseID, params.From, params.To)
	if err != nil {
		return nil, fmt.Errorf("list exercise sets: %w", err)
	}
	defer rows.Close()

	records := make([]history.SetRecord, 0)
	for rows.Next() {
		var r history.SetRecord
		if err := rows.Scan(&r.WorkoutID, &r.ExerciseID, &r.SetNumber, &r.WeightKg, &r.Reps, &r.RPE, &r.Timestamp); err != nil {
			return nil, fmt.Errorf("scan exercise set: %w", err)
		}
		r.Timestamp = r.Timestamp.UTC()
		records = append(records, r)
	}
	return records, rows.Err()
}
