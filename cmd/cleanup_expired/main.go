package main

import (
	"context"
	"log"
	"os"
	"time"

	"talentscout-be/internal/bootstrap"
	"talentscout-be/internal/config"
	"talentscout-be/internal/pkg/logger"
	"talentscout-be/pkg/database"

	"github.com/fatih/color"
	"github.com/spf13/pflag"
)

// cleanup_expired runs one retention sweep and exits. Meant for cron when the
// API's own sweeper is disabled or the API is not running.
func main() {
	flagSet := pflag.NewFlagSet("cleanup_expired", pflag.ExitOnError)
	at := flagSet.String("at", "", "sweep as of this RFC3339 instant instead of now")
	flagSet.Parse(os.Args[1:])

	cfg := config.Load()
	if cfg.Database.Connection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set; an in-memory store has nothing to sweep")
	}

	now := time.Now().UTC()
	if *at != "" {
		parsed, err := time.Parse(time.RFC3339, *at)
		if err != nil {
			log.Fatalf("Error: --at: %v", err)
		}
		now = parsed.UTC()
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, false)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	defer sysLogger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	uowFactory, err := bootstrap.NewRepositoryFactory(db, cfg, sysLogger)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	store, _, err := bootstrap.NewCandidateStore(ctx, uowFactory, cfg, sysLogger)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	deleted, err := store.SweepExpired(ctx, now)
	if err != nil {
		color.Red("Sweep failed: %v", err)
		os.Exit(1)
	}
	color.Green("Deleted %d expired candidate records (as of %s)", deleted, now.Format(time.RFC3339))
}
