package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/pressly/goose/v3"
)

// MigrationTableName is the name of the table used by goose to track migrations.
const MigrationTableName = "schema_migrations"

// migrationsDir is the path to SQL migration files, relative to the working
// directory the server is started from.
const migrationsDir = "migrations"

// slogGooseLogger adapts the goose logger interface to use slog
type slogGooseLogger struct{}

// Printf implements the goose.Logger Printf method by forwarding messages to slog.Info
func (l *slogGooseLogger) Printf(format string, v ...interface{}) {
	slog.Info(fmt.Sprintf(format, v...))
}

// Fatalf implements the goose.Logger Fatalf method by forwarding error messages to slog.Error
// Note: Unlike the standard Fatalf behavior, this does NOT call os.Exit
// to allow main.go to handle application exit consistently
func (l *slogGooseLogger) Fatalf(format string, v ...interface{}) {
	slog.Error(fmt.Sprintf(format, v...))
	// Deliberately NOT calling os.Exit(1) here
	// The error will be returned to main which will handle the exit
}

// runMigrations applies all pending migrations against the given database.
// It is invoked at server startup so the schema is always current before any
// store touches it.
func runMigrations(db *sql.DB, logger *slog.Logger) error {
	migrationLogger := logger.With(slog.String("component", "migrations"))

	goose.SetLogger(&slogGooseLogger{})

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}
	goose.SetTableName(MigrationTableName)

	migrationLogger.Info("applying pending migrations",
		slog.String("dir", migrationsDir))

	if err := goose.Up(db, migrationsDir); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, err := goose.GetDBVersion(db)
	if err != nil {
		migrationLogger.Warn("failed to read migration version after apply",
			slog.String("error", err.Error()))
		return nil
	}

	migrationLogger.Info("migrations up to date",
		slog.Int64("version", version))
	return nil
}
