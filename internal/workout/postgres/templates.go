package postgres

import (
	"context"
	"fmt"

	"github.com/2beens/liftlog/internal/telemetry/tracing"
	"github.com/2beens/liftlog/internal/workout"
	"github.com/jackc/pgx/v5"
)

func (s *Store) GetTemplate(ctx context.Context, templateID string) (_ *workout.Template, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workout.templates.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tmpl := &workout.Template{ID: templateID}
	err = s.db.QueryRow(ctx, `SELECT name FROM workout_templates WHERE id = $1`, templateID).Scan(&tmpl.Name)
	if err != nil {
		return nil, notFound(err, "template", templateID)
	}

	rows, err := s.db.Query(ctx, `
		SELECT exercise_id, target_sets, reps_range, rest_seconds, notes, order_index
		FROM template_exercises
		WHERE template_id = $1
		ORDER BY order_index
	`, templateID)
	if err != nil {
		return nil, fmt.Errorf("list template exercises: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p workout.ExercisePlan
		if err := rows.Scan(&p.ExerciseID, &p.TargetSets, &p.RepsRange, &p.RestSeconds, &p.Notes, &p.OrderIndex); err != nil {
			return nil, fmt.Errorf("scan template exercise: %w", err)
		}
		tmpl.Exercises = append(tmpl.Exercises, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tmpl, nil
}

func (s *Store) ExerciseInfo(ctx context.Context, exerciseIDs []string) (_ map[string]workout.ExerciseInfo, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workout.exercises.info")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	info := make(map[string]workout.ExerciseInfo, len(exerciseIDs))
	if len(exerciseIDs) == 0 {
		return info, nil
	}

	rows, err := s.db.Query(ctx, `
		SELECT id, name, muscle_group, form_cues
		FROM exercises
		WHERE id = ANY($1)
	`, exerciseIDs)
	if err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var e workout.ExerciseInfo
		if err := rows.Scan(&e.ID, &e.Name, &e.MuscleGroup, &e.FormCues); err != nil {
			return nil, fmt.Errorf("scan exercise: %w", err)
		}
		info[e.ID] = e
	}
	return info, rows.Err()
}

func (s *Store) UpsertExercise(ctx context.Context, e workout.ExerciseInfo) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workout.exercises.upsert")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	_, err = s.db.Exec(ctx, `
		INSERT INTO exercises (id, name, muscle_group, form_cues)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			muscle_group = EXCLUDED.muscle_group,
			form_cues = EXCLUDED.form_cues
	`, e.ID, e.Name, e.MuscleGroup, e.FormCues)
	if err != nil {
		return fmt.Errorf("upsert exercise %s: %w", e.ID, err)
	}
	return nil
}

// UpsertTemplate replaces the template and its exercise plan.
func (s *Store) UpsertTemplate(ctx context.Context, tmpl workout.Template) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workout.templates.upsert")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
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
	batch.Queue(`
		INSERT INTO workout_templates (id, name) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name
	`, tmpl.ID, tmpl.Name)
	batch.Queue(`DELETE FROM template_exercises WHERE template_id = $1`, tmpl.ID)
	for _, p := range tmpl.Exercises {
		batch.Queue(`
			INSERT INTO template_exercises (template_id, exercise_id, target_sets, reps_range, rest_seconds, notes, order_index)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, tmpl.ID, p.ExerciseID, p.TargetSets, p.RepsRange, p.RestSeconds, p.Notes, p.OrderIndex)
	}

	if err = tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("upsert template %s: %w", tmpl.ID, err)
	}
	return nil
}
