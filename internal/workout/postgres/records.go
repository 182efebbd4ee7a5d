package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/liftlog/internal/telemetry/tracing"
	"github.com/2beens/liftlog/internal/workout"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel/attribute"
)

const sessionColumns = `id, user_id, template_id, workout_name, started_at, completed_at, total_sets, total_reps, total_volume_kg`

func scanSession(row pgx.Row) (*workout.Session, error) {
	var (
		s           workout.Session
		completedAt *time.Time
	)
	if err := row.Scan(
		&s.ID, &s.UserID, &s.TemplateID, &s.WorkoutName, &s.StartedAt, &completedAt,
		&s.Totals.Sets, &s.Totals.Reps, &s.Totals.VolumeKg,
	); err != nil {
		return nil, err
	}
	s.StartedAt = s.StartedAt.UTC()
	if completedAt != nil {
		at := completedAt.UTC()
		completedAt = &at
	}
	s.Completion = workout.CompletionFromPtr(completedAt)
	return &s, nil
}

func (s *Store) FindInProgressSession(ctx context.Context, userID, templateID string) (_ *workout.Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workout.session.findInProgress")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("template", templateID))

	session, err := scanSession(s.db.QueryRow(ctx, `
		SELECT `+sessionColumns+`
		FROM workouts
		WHERE user_id = $1 AND template_id = $2 AND completed_at IS NULL
		ORDER BY started_at DESC
		LIMIT 1
	`, userID, templateID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find in-progress session: %w", err)
	}
	return session, nil
}

func (s *Store) CreateSession(ctx context.Context, session workout.Session) (_ *workout.Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workout.session.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	session.ID = s.newID()
	_, err = s.db.Exec(ctx, `
		INSERT INTO workouts (`+sessionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		session.ID, session.UserID, session.TemplateID, session.WorkoutName,
		session.StartedAt, session.Completion.CompletedAtPtr(),
		session.Totals.Sets, session.Totals.Reps, session.Totals.VolumeKg,
	)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return &session, nil
}

func (s *Store) DeleteSession(ctx context.Context, sessionID string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workout.session.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tag, err := s.db.Exec(ctx, `DELETE FROM workouts WHERE id = $1`, sessionID)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return expectAffected(tag, "session", sessionID)
}

func (s *Store) UpdateSessionTotals(ctx context.Context, sessionID string, totals workout.Totals) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workout.session.updateTotals")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tag, err := s.db.Exec(ctx, `
		UPDATE workouts SET total_sets = $1, total_reps = $2, total_volume_kg = $3
		WHERE id = $4
	`, totals.Sets, totals.Reps, totals.VolumeKg, sessionID)
	if err != nil {
		return fmt.Errorf("update session totals: %w", err)
	}
	return expectAffected(tag, "session", sessionID)
}

func (s *Store) CompleteSession(ctx context.Context, sessionID string, totals workout.Totals, completedAt time.Time) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workout.session.complete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tag, err := s.db.Exec(ctx, `
		UPDATE workouts
		SET total_sets = $1, total_reps = $2, total_volume_kg = $3, completed_at = $4
		WHERE id = $5
	`, totals.Sets, totals.Reps, totals.VolumeKg, completedAt, sessionID)
	if err != nil {
		return fmt.Errorf("complete session: %w", err)
	}
	return expectAffected(tag, "session", sessionID)
}

// CreateSessionExercises inserts the batch in one transaction.
func (s *Store) CreateSessionExercises(ctx context.Context, rows []workout.SessionExercise) (_ []workout.SessionExercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workout.sessionExercises.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("count", len(rows)))

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
				err = fmt.Errorf("failed to rollback transaction: %w: %w", rollbackErr, err)
			}
		} else {
			err = tx.Commit(ctx)
		}
	}()

	batch := &pgx.Batch{}
	created := make([]workout.SessionExercise, 0, len(rows))
	for _, row := range rows {
		row.ID = s.newID()
		batch.Queue(`
			INSERT INTO workout_exercises (id, workout_id, exercise_id, order_index, target_sets)
			VALUES ($1, $2, $3, $4, $5)
		`, row.ID, row.SessionID, row.ExerciseID, row.OrderIndex, row.TargetSets)
		created = append(created, row)
	}

	if err = tx.SendBatch(ctx, batch).Close(); err != nil {
		return nil, fmt.Errorf("insert session exercises: %w", err)
	}
	return created, nil
}

func (s *Store) ListSessionExercises(ctx context.Context, sessionID string) (_ []workout.SessionExercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workout.sessionExercises.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := s.db.Query(ctx, `
		SELECT id, workout_id, exercise_id, order_index, target_sets
		FROM workout_exercises
		WHERE workout_id = $1
		ORDER BY order_index
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list session exercises: %w", err)
	}
	defer rows.Close()

	var list []workout.SessionExercise
	for rows.Next() {
		var se workout.SessionExercise
		if err := rows.Scan(&se.ID, &se.SessionID, &se.ExerciseID, &se.OrderIndex, &se.TargetSets); err != nil {
			return nil, fmt.Errorf("scan session exercise: %w", err)
		}
		list = append(list, se)
	}
	return list, rows.Err()
}

func (s *Store) ListSets(ctx context.Context, sessionExerciseIDs []string) (_ []workout.LoggedSet, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workout.sets.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if len(sessionExerciseIDs) == 0 {
		return nil, nil
	}

	rows, err := s.db.Query(ctx, `
		SELECT id, workout_exercise_id, set_number, weight_kg, reps, rpe, completed, timestamp
		FROM workout_sets
		WHERE workout_exercise_id = ANY($1)
		ORDER BY set_number, timestamp
	`, sessionExerciseIDs)
	if err != nil {
		return nil, fmt.Errorf("list sets: %w", err)
	}
	defer rows.Close()

	var sets []workout.LoggedSet
	for rows.Next() {
		var ls workout.LoggedSet
		if err := rows.Scan(&ls.ID, &ls.SessionExerciseID, &ls.SetNumber, &ls.WeightKg, &ls.Reps, &ls.RPE, &ls.Completed, &ls.Timestamp); err != nil {
			return nil, fmt.Errorf("scan set: %w", err)
		}
		ls.Timestamp = ls.Timestamp.UTC()
		sets = append(sets, ls)
	}
	return sets, rows.Err()
}

func (s *Store) InsertSet(ctx context.Context, set workout.LoggedSet) (_ *workout.LoggedSet, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workout.sets.insert")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	set.ID = s.newID()
	_, err = s.db.Exec(ctx, `
		INSERT INTO workout_sets (id, workout_exercise_id, set_number, weight_kg, reps, rpe, completed, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, set.ID, set.SessionExerciseID, set.SetNumber, set.WeightKg, set.Reps, set.RPE, set.Completed, set.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("insert set: %w", err)
	}
	return &set, nil
}

func (s *Store) DeleteSet(ctx context.Context, setID string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workout.sets.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tag, err := s.db.Exec(ctx, `DELETE FROM workout_sets WHERE id = $1`, setID)
	if err != nil {
		return fmt.Errorf("delete set: %w", err)
	}
	return expectAffected(tag, "set", setID)
}

func (s *Store) UpdateSetNumber(ctx context.Context, setID string, setNumber int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workout.sets.updateNumber")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tag, err := s.db.Exec(ctx, `UPDATE workout_sets SET set_number = $1 WHERE id = $2`, setNumber, setID)
	if err != nil {
		return fmt.Errorf("update set number: %w", err)
	}
	return expectAffected(tag, "set", setID)
}
