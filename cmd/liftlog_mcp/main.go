// Package main runs the liftlog MCP server over stdio (for local assistant use).
// The same MCP server is also mounted on the main backend at /mcp over HTTP.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/2beens/liftlog/internal/config"
	"github.com/2beens/liftlog/internal/history"
	"github.com/2beens/liftlog/internal/mcp"
	"github.com/2beens/liftlog/internal/storage"

	log "github.com/sirupsen/logrus"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development | ddev | dockerdev]")
	configPath := flag.String("config", "./config.toml", "path to TOML config file")
	userID := flag.String("user", "", "id of the user whose history is served")
	flag.Parse()

	// stdout carries the protocol
	log.SetOutput(os.Stderr)

	if *userID == "" {
		log.Fatalln("user id not set, use -user")
	}

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %s", err)
	}

	opened, err := storage.Open(context.Background(), storage.OpenParams{
		Config:           cfg,
		PostgresPassword: os.Getenv("LIFTLOG_DB_PASS"),
		SkipMigrations:   true,
	})
	if err != nil {
		log.Fatalf("open store: %s", err)
	}
	defer opened.Close()

	s := mcp.NewServer(history.NewService(opened.Store), "stdio")
	if err := mcp.ServeStdio(s, *userID); err != nil {
		log.Errorf("serve stdio: %s", err)
	}
}
