package database

import (
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

// RunMigrations executes all pending migrations and logs the schema version
// the database ends up at.
func RunMigrations(db *sql.DB, migrationsDir string, logger *zap.Logger) error {
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	logger.Info("Checking for pending migrations...", zap.String("dir", migrationsDir))

	if err := goose.Up(db, migrationsDir); err != nil {
		logger.Error("Failed to run migrations", zap.Error(err))
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	version, err := MigrationVersion(db)
	if err != nil {
		return err
	}
	logger.Info("Migrations completed successfully", zap.Int64("schema_version", version))

	return nil
}

// MigrationVersion reports the schema version currently applied to the
// database.
func MigrationVersion(db *sql.DB) (int64, error) {
	if err := goose.SetDialect("postgres"); err != nil {
		return 0, fmt.Errorf("failed to set goose dialect: %w", err)
	}

	version, err := goose.GetDBVersion(db)
	if err != nil {
		return 0, fmt.Errorf("failed to read migration version: %w", err)
	}

	return version, nil
}
