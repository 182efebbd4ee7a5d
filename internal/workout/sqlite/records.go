package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/2beens/liftlog/internal/workout"
	"github.com/google/uuid"
)

var _ workout.RecordStore = (*Store)(nil)

const sessionColumns = `id, user_id, template_id, workout_name, started_at, completed_at, total_sets, total_reps, total_volume_kg`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*workout.Session, error) {
	var (
		s           workout.Session
		templateID  sql.NullString
		startedAt   string
		completedAt sql.NullString
	)
	if err := row.Scan(
		&s.ID, &s.UserID, &templateID, &s.WorkoutName, &startedAt, &completedAt,
		&s.Totals.Sets, &s.Totals.Reps, &s.Totals.VolumeKg,
	); err != nil {
		return nil, err
	}
	if templateID.Valid {
		tid := templateID.String
		s.TemplateID = &tid
	}
	var err error
	if s.StartedAt, err = parseTime(startedAt); err != nil {
		return nil, fmt.Errorf("parse started_at: %w", err)
	}
	if completedAt.Valid {
		at, err := parseTime(completedAt.String)
		if err != nil {
			return nil, fmt.Errorf("parse completed_at: %w", err)
		}
		s.Completion = workout.CompletedAt(at)
	}
	return &s, nil
}

func (s *Store) FindInProgressSession(ctx context.Context, userID, templateID string) (*workout.Session, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+sessionColumns+`
		FROM workouts
		WHERE user_id = ? AND template_id = ? AND completed_at IS NULL
		ORDER BY started_at DESC
		LIMIT 1`,
		userID, templateID,
	)
	session, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find in-progress session: %w", err)
	}
	return session, nil
}

func (s *Store) CreateSession(ctx context.Context, session workout.Session) (*workout.Session, error) {
	session.ID = uuid.NewString()
	var completedAt *string
	if at, ok := session.Completion.At(); ok {
		formatted := formatTime(at)
		completedAt = &formatted
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO workouts (`+sessionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		session.ID, session.UserID, session.TemplateID, session.WorkoutName,
		formatTime(session.StartedAt), completedAt,
		session.Totals.Sets, session.Totals.Reps, session.Totals.VolumeKg,
	)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return &session, nil
}

func (s *Store) DeleteSession(ctx context.Context, sessionID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM workouts WHERE id = ?`, sessionID)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return expectAffected(res, "session", sessionID)
}

func (s *Store) UpdateSessionTotals(ctx context.Context, sessionID string, totals workout.Totals) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE workouts SET total_sets = ?, total_reps = ?, total_volume_kg = ?
		WHERE id = ?`,
		totals.Sets, totals.Reps, totals.VolumeKg, sessionID,
	)
	if err != nil {
		return fmt.Errorf("update session totals: %w", err)
	}
	return expectAffected(res, "session", sessionID)
}

func (s *Store) CompleteSession(ctx context.Context, sessionID string, totals workout.Totals, completedAt time.Time) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE workouts SET total_sets = ?, total_reps = ?, total_volume_kg = ?, completed_at = ?
		WHERE id = ?`,
		totals.Sets, totals.Reps, totals.VolumeKg, formatTime(completedAt), sessionID,
	)
	if err != nil {
		return fmt.Errorf("complete session: %w", err)
	}
	return expectAffected(res, "session", sessionID)
}

// CreateSessionExercises inserts the batch in one transaction.
func (s *Store) CreateSessionExercises(ctx context.Context, rows []workout.SessionExercise) (_ []workout.SessionExercise, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	created := make([]workout.SessionExercise, 0, len(rows))
	for _, row := range rows {
		row.ID = uuid.NewString()
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO workout_exercises (id, workout_id, exercise_id, order_index, target_sets)
			VALUES (?, ?, ?, ?, ?)`,
			row.ID, row.SessionID, row.ExerciseID, row.OrderIndex, row.TargetSets,
		); err != nil {
			return nil, fmt.Errorf("insert session exercise %s: %w", row.ExerciseID, err)
		}
		created = append(created, row)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return created, nil
}

func (s *Store) ListSessionExercises(ctx context.Context, sessionID string) ([]workout.SessionExercise, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, workout_id, exercise_id, order_index, target_sets
		FROM workout_exercises
		WHERE workout_id = ?
		ORDER BY order_index`,
		sessionID,
	)
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

func (s *Store) ListSets(ctx context.Context, sessionExerciseIDs []string) ([]workout.LoggedSet, error) {
	if len(sessionExerciseIDs) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(sessionExerciseIDs)), ",")
	args := make([]any, len(sessionExerciseIDs))
	for i, id := range sessionExerciseIDs {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, workout_exercise_id, set_number, weight_kg, reps, rpe, completed, timestamp
		FROM workout_sets
		WHERE workout_exercise_id IN (`+placeholders+`)
		ORDER BY set_number, timestamp`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("list sets: %w", err)
	}
	defer rows.Close()

	var sets []workout.LoggedSet
	for rows.Next() {
		var (
			ls workout.LoggedSet
			ts string
		)
		if err := rows.Scan(&ls.ID, &ls.SessionExerciseID, &ls.SetNumber, &ls.WeightKg, &ls.Reps, &ls.RPE, &ls.Completed, &ts); err != nil {
			return nil, fmt.Errorf("scan set: %w", err)
		}
		if ls.Timestamp, err = parseTime(ts); err != nil {
			return nil, fmt.Errorf("parse set timestamp: %w", err)
		}
		sets = append(sets, ls)
	}
	return sets, rows.Err()
}

func (s *Store) InsertSet(ctx context.Context, set workout.LoggedSet) (*workout.LoggedSet, error) {
	set.ID = uuid.NewString()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO workout_sets (id, workout_exercise_id, set_number, weight_kg, reps, rpe, completed, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		set.ID, set.SessionExerciseID, set.SetNumber, set.WeightKg, set.Reps, set.RPE, set.Completed, formatTime(set.Timestamp),
	)
	if err != nil {
		return nil, fmt.Errorf("insert set: %w", err)
	}
	return &set, nil
}

func (s *Store) DeleteSet(ctx context.Context, setID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM workout_sets WHERE id = ?`, setID)
	if err != nil {
		return fmt.Errorf("delete set: %w", err)
	}
	return expectAffected(res, "set", setID)
}

func (s *Store) UpdateSetNumber(ctx context.Context, setID string, setNumber int) error {
	res, err := s.db.ExecContext(ctx, `UPDATE workout_sets SET set_number = ? WHERE id = ?`, setNumber, setID)
	if err != nil {
		return fmt.Errorf("update set number: %w", err)
	}
	return expectAffected(res, "set", setID)
}

func expectAffected(res sql.Result, what, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", what, id, workout.ErrNotFound)
	}
	return nil
}
