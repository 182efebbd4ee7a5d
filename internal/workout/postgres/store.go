// Package postgres implements the workout record and template stores on a
// pgx connection pool.
package postgres

import (
	"errors"
	"fmt"

	"github.com/2beens/liftlog/internal/workout"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	_ workout.RecordStore   = (*Store)(nil)
	_ workout.TemplateStore = (*Store)(nil)
)

type Store struct {
	db    *pgxpool.Pool
	newID func() string
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{
		db:    db,
		newID: uuid.NewString,
	}
}

func expectAffected(tag pgconn.CommandTag, what, id string) error {
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s %s: %w", what, id, workout.ErrNotFound)
	}
	return nil
}

func notFound(err error, what, id string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", what, id, workout.ErrNotFound)
	}
	return err
}
