// internal/database/migrate.go
//
// Schema migrations (goose).
//
// Context
// -------
// SQL files live under migrations/<driver>/ and are embedded into the
// binary, so cmd/web and cmd/audiocatctl apply the same schema without a
// checkout on disk.  MySQL and SQLite differ in timestamp DDL, hence one
// directory per dialect.
//
// Notes
// -----
// • goose keeps its own version table (goose_db_version).
// • Oxford commas, two spaces after periods.
package database

import (
	"context"
	"embed"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/mysql/*.sql migrations/sqlite3/*.sql
var migrations embed.FS

// migrationDir returns the embedded directory for driver.
func migrationDir(driver string) (string, error) {
	switch driver {
	case "mysql", "sqlite3":
		return "migrations/" + driver, nil
	default:
		return "", fmt.Errorf("no migrations for driver %q", driver)
	}
}

func prepare(driver string) (string, error) {
	dir, err := migrationDir(driver)
	if err != nil {
		return "", err
	}
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect(driver); err != nil {
		return "", fmt.Errorf("configure goose: %w", err)
	}
	return dir, nil
}

// Migrate applies every pending migration for the pool's driver.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	dir, err := prepare(db.DriverName())
	if err != nil {
		return err
	}

	runCtx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	if err := goose.UpContext(runCtx, db.DB, dir); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// Status prints the applied/pending state of each migration through
// goose's logger.
func Status(ctx context.Context, db *sqlx.DB) error {
	dir, err := prepare(db.DriverName())
	if err != nil {
		return err
	}
	return goose.StatusContext(ctx, db.DB, dir)
}
