// Package storage opens the configured workout store: postgres for deployed
// environments, or a local sqlite file.
package storage

import (
	"context"
	"fmt"

	"github.com/2beens/liftlog/internal/auth"
	"github.com/2beens/liftlog/internal/config"
	"github.com/2beens/liftlog/internal/db"
	"github.com/2beens/liftlog/internal/history"
	"github.com/2beens/liftlog/internal/templates"
	"github.com/2beens/liftlog/internal/workout"
	"github.com/2beens/liftlog/internal/workout/postgres"
	"github.com/2beens/liftlog/internal/workout/sqlite"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

var (
	_ Store = (*postgres.Store)(nil)
	_ Store = (*sqlite.Store)(nil)
)

// Store is what both the postgres and the sqlite store provide.
type Store interface {
	workout.RecordStore
	workout.TemplateStore
	templates.Writer

	ListCompletedSessions(ctx context.Context, userID string, limit, offset int) ([]workout.Session, error)
	CountCompletedSessions(ctx context.Context, userID string) (int, error)
	ListExerciseSets(ctx context.Context, params history.SetParams) ([]history.SetRecord, error)

	GetUserByUsername(ctx context.Context, username string) (*auth.User, error)
	AddUser(ctx context.Context, user auth.User) (*auth.User, error)
}

type OpenParams struct {
	Config           *config.Config
	PostgresPassword string
	TracingEnabled   bool
	// SkipMigrations is for tools that must not touch the postgres schema.
	SkipMigrations bool
}

type Opened struct {
	Store Store
	// Pool is nil for sqlite.
	Pool  *pgxpool.Pool
	close func()
}

func (o *Opened) Close() {
	if o.close != nil {
		o.close()
	}
}

func Open(ctx context.Context, params OpenParams) (*Opened, error) {
	cfg := params.Config
	if cfg.UsesSqlite() {
		store, err := sqlite.New(cfg.SqlitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		log.Debugf("using sqlite store: %s", cfg.SqlitePath)
		return &Opened{
			Store: store,
			close: func() {
				if err := store.Close(); err != nil {
					log.Errorf("close sqlite store: %s", err)
				}
			},
		}, nil
	}

	dbParams := db.NewDBPoolParams{
		DBHost:         cfg.PostgresHost,
		DBPort:         cfg.PostgresPort,
		DBName:         cfg.PostgresDBName,
		DBUser:         cfg.PostgresUser,
		DBPassword:     params.PostgresPassword,
		TracingEnabled: params.TracingEnabled,
	}
	if !params.SkipMigrations {
		if err := db.RunMigrations(dbParams.ConnString()); err != nil {
			return nil, fmt.Errorf("db migrations: %w", err)
		}
	}
	dbPool, err := db.NewDBPool(ctx, dbParams)
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}
	log.Debugf("using postgres store: %s:%s/%s", cfg.PostgresHost, cfg.PostgresPort, cfg.PostgresDBName)

	return &Opened{
		Store: postgres.NewStore(dbPool),
		Pool:  dbPool,
		close: func() {
			log.Debugln("closing db pool ...")
			dbPool.Close() // blocking operation
			log.Debugln("db pool closed")
		},
	}, nil
}
