package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/inkgrade/essay-api/internal/platform/postgres/migrations"
	"github.com/pressly/goose/v3"
)

// runMigrations applies any pending schema migrations from the embedded
// migration files. Safe to run on every startup.
func runMigrations(db *sql.DB, logger *slog.Logger) error {
	goose.SetBaseFS(migrations.FS)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, err := goose.GetDBVersion(db)
	if err != nil {
		return fmt.Errorf("failed to read migration version: %w", err)
	}

	logger.Info("database migrations applied", slog.Int64("version", version))
	return nil
}
