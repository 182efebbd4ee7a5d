package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/2beens/liftlog/internal/workout"
)

var _ workout.TemplateStore = (*Store)(nil)

func (s *Store) GetTemplate(ctx context.Context, templateID string) (*workout.Template, error) {
	tmpl := &workout.Template{ID: templateID}
	err := s.db.QueryRowContext(ctx, `SELECT name FROM workout_templates WHERE id = ?`, templateID).Scan(&tmpl.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("template %s: %w", templateID, workout.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get template: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT exercise_id, target_sets, reps_range, rest_seconds, notes, order_index
		FROM template_exercises
		WHERE template_id = ?
		ORDER BY order_index`,
		templateID,
	)
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

func (s *Store) ExerciseInfo(ctx context.Context, exerciseIDs []string) (map[string]workout.ExerciseInfo, error) {
	info := make(map[string]workout.ExerciseInfo, len(exerciseIDs))
	if len(exerciseIDs) == 0 {
		return info, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(exerciseIDs)), ",")
	args := make([]any, len(exerciseIDs))
	for i, id := range exerciseIDs {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, muscle_group, form_cues
		FROM exercises
		WHERE id IN (`+placeholders+`)`,
		args...,
	)
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

func (s *Store) UpsertExercise(ctx context.Context, e workout.ExerciseInfo) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO exercises (id, name, muscle_group, form_cues)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			muscle_group = excluded.muscle_group,
			form_cues = excluded.form_cues`,
		e.ID, e.Name, e.MuscleGroup, e.FormCues,
	)
	if err != nil {
		return fmt.Errorf("upsert exercise %s: %w", e.ID, err)
	}
	return nil
}

// UpsertTemplate replaces the template and its exercise plan.
func (s *Store) UpsertTemplate(ctx context.Context, tmpl workout.Template) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `
		INSERT INTO workout_templates (id, name) VALUES (?, ?)
		ON CONFLICT (id) DO UPDATE SET name = excluded.name`,
		tmpl.ID, tmpl.Name,
	); err != nil {
		return fmt.Errorf("upsert template %s: %w", tmpl.ID, err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM template_exercises WHERE template_id = ?`, tmpl.ID); err != nil {
		return fmt.Errorf("clear template exercises: %w", err)
	}
	for _, p := range tmpl.Exercises {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO template_exercises (template_id, exercise_id, target_sets, reps_range, rest_seconds, notes, order_index)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			tmpl.ID, p.ExerciseID, p.TargetSets, p.RepsRange, p.RestSeconds, p.Notes, p.OrderIndex,
		); err != nil {
			return fmt.Errorf("insert template exercise %s: %w", p.ExerciseID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
