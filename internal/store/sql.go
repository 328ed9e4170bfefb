// internal/store/sql.go
//
// SQL backend (sqlx).
//
// Workflow
// --------
//  1. Generate the record id.
//  2. INSERT every caller-owned column; date_created is left to the
//     column default.
//  3. Read date_created back by id so the caller sees the stored value.
//     The row is already stored by then; a failed read is only logged.
//
// The queries use `?` placeholders, valid for both MySQL and SQLite.
package store

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/audiocat/site/internal/logger"
	"github.com/audiocat/site/internal/model"
)

// SQL implements Store over a *sqlx.DB.
type SQL struct {
	db *sqlx.DB
}

// NewSQL wraps an open pool.  The pool is owned by the caller until
// Close is called.
func NewSQL(db *sqlx.DB) *SQL { return &SQL{db: db} }

// CreateRenderErrorLog inserts rec and fills ID and DateCreated.
func (s *SQL) CreateRenderErrorLog(ctx context.Context, rec *model.RenderErrorLog) error {
	const ins = `INSERT INTO render_error_log (id, case_category, message, js_heap_size_limit, used_js_heap_size, total_js_heap_size) VALUES (?, ?, ?, ?, ?, ?)`
	const sel = `SELECT date_created FROM render_error_log WHERE id = ?`

	id := newID()
	_, err := s.db.ExecContext(ctx, ins,
		id,
		rec.CaseCategory,
		model.TruncateMessage(rec.Message),
		rec.JSHeapSizeLimit,
		rec.UsedJSHeapSize,
		rec.TotalJSHeapSize,
	)
	if err != nil {
		return persistErr("insert render_error_log", err)
	}

	rec.ID = id
	rec.Message = model.TruncateMessage(rec.Message)
	rec.DateCreated = s.readCreated(ctx, "render_error_log", sel, id)
	return nil
}

// CreateLicenseKey inserts rec and fills ID and DateCreated.
func (s *SQL) CreateLicenseKey(ctx context.Context, rec *model.LicenseKeySubmission) error {
	const ins = `INSERT INTO license_key (id, person_name, email, license_key, amount, comments) VALUES (?, ?, ?, ?, ?, ?)`
	const sel = `SELECT date_created FROM license_key WHERE id = ?`

	id := newID()
	_, err := s.db.ExecContext(ctx, ins,
		id,
		rec.PersonName,
		rec.Email,
		rec.LicenseKey,
		rec.Amount,
		rec.Comments,
	)
	if err != nil {
		return persistErr("insert license_key", err)
	}

	rec.ID = id
	rec.DateCreated = s.readCreated(ctx, "license_key", sel, id)
	return nil
}

// readCreated fetches the stored date_created.  The row is already
// committed at this point, so a failed read is logged and reported as
// the zero time rather than failing the write.
func (s *SQL) readCreated(ctx context.Context, table, sel, id string) time.Time {
	var t time.Time
	if err := s.db.GetContext(ctx, &t, sel, id); err != nil {
		logger.FromContext(ctx).Warnw("date_created read-back failed",
			"table", table,
			"id", id,
			"err", err,
		)
		return time.Time{}
	}
	return t
}

// Ping checks the pool.
func (s *SQL) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return persistErr("ping", err)
	}
	return nil
}

// Close releases the pool.
func (s *SQL) Close() error { return s.db.Close() }
