package main

import (
	"errors"
	"log"
	"os"

	"talentscout-be/internal/config"
	"talentscout-be/internal/model"
	"talentscout-be/pkg/database"

	"github.com/spf13/pflag"
)

func main() {
	flagSet := pflag.NewFlagSet("migrate", pflag.ExitOnError)
	verbose := flagSet.BoolP("verbose", "v", false, "log every SQL statement")
	dsn := flagSet.String("dsn", "", "PostgreSQL DSN (default: DB_CONNECTION_STRING)")
	_ = flagSet.Parse(os.Args[1:])

	// 1. Load Environment Variables
	cfg := config.Load()
	if *dsn == "" {
		*dsn = cfg.Database.Connection
	}
	if *dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	// 2. Connect to Database using existing GORM helpers
	db, err := database.NewGormDBFromDSN(*dsn, *verbose)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	// 3. Extensions, AutoMigrate, vector index
	log.Println("Running candidate store migration...")
	err = database.Migrate(db, model.Tables()...)

	var postErr *database.PostMigrationError
	switch {
	case errors.As(err, &postErr):
		log.Printf("Warn: %v. Recall search falls back to a sequential scan.", err)
	case err != nil:
		log.Fatalf("Error: migration failed: %v", err)
	}

	log.Println("Success: candidate store schema is up to date.")
}
