// internal/bootstrap/bootstrap.go
//
// Shared start-up steps for cmd/web and cmd/audiocatctl.
//
// Workflow
// --------
//  1. Resolve the database password (plain or `vault:` reference).
//  2. Open the configured store backend:
//       • sql   – database.Open, then goose migrations when
//                 database.migrate is set.
//       • redis – go-redis client, pinged once.
//  3. Hand back the store; the caller owns Close.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/audiocat/site/internal/config"
	"github.com/audiocat/site/internal/database"
	"github.com/audiocat/site/internal/store"
	"github.com/audiocat/site/internal/vault"
)

// OpenSQL resolves the password and opens the SQL pool.
func OpenSQL(ctx context.Context, cfg *config.Config, log *zap.SugaredLogger) (*sqlx.DB, error) {
	pw, err := resolvePassword(ctx, cfg.Database.Password, log)
	if err != nil {
		return nil, err
	}
	log.Infow("connecting to database", "driver", cfg.Database.Driver)
	db, err := database.OpenWithOptions(ctx, cfg.Database.Driver,
		database.BuildDSN(cfg.Database.DSN, pw), database.DefaultOptions)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: open database: %w", err)
	}
	log.Infow("database online", "driver", cfg.Database.Driver)
	return db, nil
}

// OpenStore opens the backend selected by store.backend.
func OpenStore(ctx context.Context, cfg *config.Config, log *zap.SugaredLogger) (store.Store, error) {
	switch cfg.Store.Backend {
	case "redis":
		rdb := store.DialRedis(cfg.Store.RedisAddr, cfg.Store.RedisDB)
		st := store.NewRedis(rdb, cfg.Store.KeyPrefix)
		if err := st.Ping(ctx); err != nil {
			_ = st.Close()
			return nil, fmt.Errorf("bootstrap: redis %s: %w", cfg.Store.RedisAddr, err)
		}
		log.Infow("redis store online", "addr", cfg.Store.RedisAddr, "db", cfg.Store.RedisDB)
		return st, nil

	default:
		db, err := OpenSQL(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		if cfg.Database.Migrate {
			if err := database.Migrate(ctx, db); err != nil {
				_ = db.Close()
				return nil, fmt.Errorf("bootstrap: migrate: %w", err)
			}
			log.Infow("schema up to date")
		}
		return store.NewSQL(db), nil
	}
}

// resolvePassword only dials Vault when the value is a reference.
func resolvePassword(ctx context.Context, pw string, log *zap.SugaredLogger) (string, error) {
	if !vault.IsRef(pw) {
		return pw, nil
	}
	cli, err := vault.New(ctx, log)
	if err != nil {
		return "", fmt.Errorf("bootstrap: vault: %w", err)
	}
	secret, err := vault.Resolve(ctx, cli, pw)
	if err != nil {
		return "", fmt.Errorf("bootstrap: resolve database.password: %w", err)
	}
	log.Infow("database password resolved from vault")
	return secret, nil
}
