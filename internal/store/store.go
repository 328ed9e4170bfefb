// internal/store/store.go
//
// Record persistence.
//
// Context
// -------
// Handlers and the operator CLI write records through the Store
// interface.  Two backends exist:
//
//   • SQL   – sqlx over MySQL or SQLite, timestamps from column defaults.
//   • Redis – one hash per record, timestamps from the Redis server clock.
//
// In both cases the storage layer, not the caller, assigns DateCreated.
// Every failure is wrapped with ErrPersistence so the HTTP edge can map
// it to a 500 without knowing which backend is live.
//
// Notes
// -----
// • Inserts are single-record and atomic; nothing is retried.
// • Oxford commas, two spaces after periods.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/audiocat/site/internal/model"
)

// ErrPersistence wraps every backend failure.
var ErrPersistence = errors.New("store: persistence failure")

// Store persists insert-only records.  Create* fill ID and DateCreated
// on success.
type Store interface {
	CreateRenderErrorLog(ctx context.Context, rec *model.RenderErrorLog) error
	CreateLicenseKey(ctx context.Context, rec *model.LicenseKeySubmission) error
	Ping(ctx context.Context) error
	Close() error
}

// newID returns a random record key.
func newID() string { return uuid.NewString() }

func persistErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrPersistence, op, err)
}
