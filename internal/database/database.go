// Package database centralises sqlx connection helpers.  The production
// driver is go-sql-driver/mysql; go-sqlite3 backs local and test
// deployments that do not want a MySQL server.
//
// Public entry points:
//
//	Open(driver, dsn)                   – quick helper with conservative pool sizes.
//	OpenWithOptions(ctx, driver, dsn, opts) – fine-grained control plus retries.
//	BuildDSN(template, password)        – splice a resolved secret into a DSN.
//
// Both helpers Ping the database before returning so callers can fail fast
// during bootstrap.  Callers should Close() the returned *sqlx.DB when no
// longer needed.
package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// Options tunes one pool.
type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	Retries         int
	RetryBackoff    time.Duration
}

// DefaultOptions: 15 max open, 5 idle, a 30-minute connection lifetime, and
// two ping retries half a second apart.
var DefaultOptions = Options{
	MaxOpenConns:    15,
	MaxIdleConns:    5,
	ConnMaxLifetime: 30 * time.Minute,
	Retries:         2,
	RetryBackoff:    500 * time.Millisecond,
}

// Open returns a *sqlx.DB using DefaultOptions.
func Open(driver, dsn string) (*sqlx.DB, error) {
	return OpenWithOptions(context.Background(), driver, dsn, DefaultOptions)
}

// OpenWithOptions opens and pings a pool, retrying the ping opts.Retries
// times.  MySQL DSNs are normalised so DATETIME columns scan into
// time.Time.
func OpenWithOptions(ctx context.Context, driver, dsn string, opts Options) (*sqlx.DB, error) {
	if driver == "mysql" {
		norm, err := normaliseMySQL(dsn)
		if err != nil {
			return nil, err
		}
		dsn = norm
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(opts.MaxOpenConns)
	db.SetMaxIdleConns(opts.MaxIdleConns)
	db.SetConnMaxLifetime(opts.ConnMaxLifetime)

	for attempt := 0; ; attempt++ {
		err = db.PingContext(ctx)
		if err == nil {
			return db, nil
		}
		if attempt >= opts.Retries {
			break
		}
		select {
		case <-ctx.Done():
			_ = db.Close()
			return nil, ctx.Err()
		case <-time.After(opts.RetryBackoff):
		}
	}
	_ = db.Close()
	return nil, fmt.Errorf("ping %s: %w", driver, err)
}

// BuildDSN fills the single `%s` verb in tpl with password.  A template
// without a verb is returned unchanged.
func BuildDSN(tpl, password string) string {
	if !strings.Contains(tpl, "%s") {
		return tpl
	}
	return fmt.Sprintf(tpl, password)
}

// normaliseMySQL forces parseTime and UTC so timestamps round-trip.
func normaliseMySQL(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("parse mysql dsn: %w", err)
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	return cfg.FormatDSN(), nil
}
