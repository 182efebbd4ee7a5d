package workout

import (
	"context"
	"time"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=workout_test

// TemplateStore returns workout templates. GetTemplate returns ErrNotFound for
// unknown ids and the exercises ordered by order index.
type TemplateStore interface {
	GetTemplate(ctx context.Context, templateID string) (*Template, error)
	ExerciseInfo(ctx context.Context, exerciseIDs []string) (map[string]ExerciseInfo, error)
}

// RecordStore persists sessions, their exercises and logged sets.
// Calls are independent: no transaction spans more than one call.
type RecordStore interface {
	// FindInProgressSession returns the latest not completed session of the user
	// for the template, or nil when there is none.
	FindInProgressSession(ctx context.Context, userID, templateID string) (*Session, error)
	CreateSession(ctx context.Context, session Session) (*Session, error)
	DeleteSession(ctx context.Context, sessionID string) error
	UpdateSessionTotals(ctx context.Context, sessionID string, totals Totals) error
	CompleteSession(ctx context.Context, sessionID string, totals Totals, completedAt time.Time) error

	CreateSessionExercises(ctx context.Context, rows []SessionExercise) ([]SessionExercise, error)
	ListSessionExercises(ctx context.Context, sessionID string) ([]SessionExercise, error)

	// ListSets returns the sets of the given session exercises ordered by set number.
	ListSets(ctx context.Context, sessionExerciseIDs []string) ([]LoggedSet, error)
	InsertSet(ctx context.Context, set LoggedSet) (*LoggedSet, error)
	DeleteSet(ctx context.Context, setID string) error
	UpdateSetNumber(ctx context.Context, setID string, setNumber int) error
}

// EventSink is notified when a session row is created and when it is finished.
type EventSink interface {
	SessionStarted(ctx context.Context, session Session)
	SessionFinished(ctx context.Context, session Session)
}

type noopSink struct{}

func (noopSink) SessionStarted(context.Context, Session)  {}
func (noopSink) SessionFinished(context.Context, Session) {}
