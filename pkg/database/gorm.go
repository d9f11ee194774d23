package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func getLogger(verbose bool) logger.Interface {
	level := logger.Warn
	if verbose {
		level = logger.Info
	}
	return logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			// Candidate fields are ciphertext but the SQL log still must not
			// carry them.
			ParameterizedQueries: true,
			Colorful:             verbose,
		},
	)
}

func configureConnectionPool(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return nil
}

// NewGormDBFromDSN opens a pooled PostgreSQL connection. verbose logs every
// statement.
func NewGormDBFromDSN(dsn string, verbose bool) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: getLogger(verbose),
	})
	if err != nil {
		return nil, err
	}

	if err := configureConnectionPool(db); err != nil {
		return nil, err
	}

	return db, nil
}

var setupSQL = []string{
	`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
	`CREATE EXTENSION IF NOT EXISTS vector;`,
}

var postMigrationSQL = []string{
	`CREATE INDEX IF NOT EXISTS idx_conversation_messages_embedding
	 ON conversation_messages USING hnsw (embedding vector_cosine_ops);`,
}

// Migrate installs the extensions, runs AutoMigrate for models and then the
// post-migration statements. Failures of the optional index are returned
// wrapped so callers may log and continue.
func Migrate(db *gorm.DB, models ...interface{}) error {
	for _, stmt := range setupSQL {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("setup %q: %w", stmt, err)
		}
	}
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	for _, stmt := range postMigrationSQL {
		if err := db.Exec(stmt).Error; err != nil {
			return &PostMigrationError{Statement: stmt, Err: err}
		}
	}
	return nil
}

// PostMigrationError means the schema is usable but an auxiliary index or
// view could not be created.
type PostMigrationError struct {
	Statement string
	Err       error
}

func (e *PostMigrationError) Error() string {
	return fmt.Sprintf("post-migration statement failed: %v", e.Err)
}

func (e *PostMigrationError) Unwrap() error {
	return e.Err
}
