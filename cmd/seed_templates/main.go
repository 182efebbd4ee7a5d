package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/2beens/liftlog/internal/config"
	"github.com/2beens/liftlog/internal/storage"
	"github.com/2beens/liftlog/internal/templates"

	log "github.com/sirupsen/logrus"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development | ddev | dockerdev]")
	configPath := flag.String("config", "./config.toml", "path to TOML config file")
	seedPath := flag.String("seed", "./templates.yaml", "path to the templates YAML seed")
	dryRun := flag.Bool("dry-run", false, "only validate the seed file")
	flag.Parse()

	log.SetLevel(log.DebugLevel)

	seed, err := templates.LoadSeed(*seedPath)
	if err != nil {
		log.Fatalf("load seed: %s", err)
	}
	log.Infof("seed ok: %d exercises, %d templates", len(seed.Exercises), len(seed.Templates))
	if *dryRun {
		return
	}

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %s", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	opened, err := storage.Open(ctx, storage.OpenParams{
		Config:           cfg,
		PostgresPassword: os.Getenv("LIFTLOG_DB_PASS"),
	})
	if err != nil {
		log.Fatalf("open store: %s", err)
	}
	defer opened.Close()

	if err := seed.Apply(ctx, opened.Store); err != nil {
		log.Errorf("apply seed: %s", err)
		return
	}
	log.Infoln("templates seeded")
}
