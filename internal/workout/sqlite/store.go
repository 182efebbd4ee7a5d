// Package sqlite is an embedded record and template store for local use and
// tests. It keeps the same tables as the postgres schema.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const currentVersion = 1

type Store struct {
	db  *sql.DB
	now func() time.Time
}

// New opens (or creates) the SQLite database at dbPath and runs migrations.
func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// one connection: keeps :memory: databases alive and serializes writers
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db, now: time.Now}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// NewMemory creates an in-memory store for testing.
func NewMemory() (*Store, error) {
	return New(":memory:")
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	var version int
	if err := s.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}
	if version >= currentVersion {
		return nil
	}

	if version < 1 {
		if _, err := s.db.Exec(schemaV1); err != nil {
			return fmt.Errorf("migrate v1: %w", err)
		}
	}

	_, err := s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentVersion))
	return err
}

const schemaV1 = `
CREATE TABLE IF NOT EXISTS users (
	id            TEXT PRIMARY KEY,
	username      TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	created_at    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS exercises (
	id           TEXT PRIMARY KEY,
	name         TEXT NOT NULL,
	muscle_group TEXT NOT NULL DEFAULT '',
	form_cues    TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS workout_templates (
	id   TEXT PRIMARY KEY,
	name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS template_exercises (
	template_id  TEXT NOT NULL REFERENCES workout_templates(id) ON DELETE CASCADE,
	exercise_id  TEXT NOT NULL,
	target_sets  INTEGER NOT NULL,
	reps_range   TEXT NOT NULL DEFAULT '',
	rest_seconds INTEGER NOT NULL DEFAULT 0,
	notes        TEXT NOT NULL DEFAULT '',
	order_index  INTEGER NOT NULL,
	PRIMARY KEY (template_id, exercise_id)
);

CREATE TABLE IF NOT EXISTS workouts (
	id              TEXT PRIMARY KEY,
	user_id         TEXT NOT NULL,
	template_id     TEXT,
	workout_name    TEXT NOT NULL,
	started_at      TEXT NOT NULL,
	completed_at    TEXT,
	total_sets      INTEGER NOT NULL DEFAULT 0,
	total_reps      INTEGER NOT NULL DEFAULT 0,
	total_volume_kg REAL NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_workouts_in_progress
	ON workouts(user_id, template_id, started_at) WHERE completed_at IS NULL;

CREATE TABLE IF NOT EXISTS workout_exercises (
	id          TEXT PRIMARY KEY,
	workout_id  TEXT NOT NULL REFERENCES workouts(id) ON DELETE CASCADE,
	exercise_id TEXT NOT NULL,
	order_index INTEGER NOT NULL,
	target_sets INTEGER NOT NULL,
	UNIQUE (workout_id, order_index)
);

CREATE TABLE IF NOT EXISTS workout_sets (
	id                  TEXT PRIMARY KEY,
	workout_exercise_id TEXT NOT NULL REFERENCES workout_exercises(id) ON DELETE CASCADE,
	set_number          INTEGER NOT NULL,
	weight_kg           REAL NOT NULL,
	reps                INTEGER NOT NULL,
	rpe                 INTEGER NOT NULL CHECK (rpe BETWEEN 1 AND 10),
	completed           INTEGER NOT NULL DEFAULT 0,
	timestamp           TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_sets_workout_exercise ON workout_sets(workout_exercise_id, set_number);
`

// timeLayout is fixed width so that stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}
