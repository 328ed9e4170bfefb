// internal/model/render_error_log.go
//
// `render_error_log` table row model.
//
// Context
// -------
// The audio editor posts one of these whenever a render fails for a
// reason it cannot classify.  Every numeric field falls back to the
// Sentinel value when the browser did not send it.
//
// Schema reference (mysql)
//
//	CREATE TABLE render_error_log (
//	    id                 CHAR(36)      NOT NULL PRIMARY KEY,
//	    date_created       TIMESTAMP(6)  NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
//	    case_category      BIGINT        NOT NULL,
//	    message            VARCHAR(1500) NOT NULL,
//	    js_heap_size_limit BIGINT        NOT NULL,
//	    used_js_heap_size  BIGINT        NOT NULL,
//	    total_js_heap_size BIGINT        NOT NULL
//	);
//
// Notes
// -----
// • DateCreated is written by the store, never by callers.
// • Records are insert-only.
package model

import (
	"time"
	"unicode/utf8"
)

// Sentinel marks a telemetry field the client did not send.
const Sentinel = -2

// SentinelMessage is the string form of Sentinel used for Message.
const SentinelMessage = "-2"

// MaxMessageLen caps Message, in characters.
const MaxMessageLen = 1500

// RenderErrorLog mirrors one row in `render_error_log`.
type RenderErrorLog struct {
	ID              string    `db:"id"                 json:"id"`
	DateCreated     time.Time `db:"date_created"       json:"date_created"`
	CaseCategory    int64     `db:"case_category"      json:"case_category"`
	Message         string    `db:"message"            json:"message"`
	JSHeapSizeLimit int64     `db:"js_heap_size_limit" json:"js_heap_size_limit"`
	UsedJSHeapSize  int64     `db:"used_js_heap_size"  json:"used_js_heap_size"`
	TotalJSHeapSize int64     `db:"total_js_heap_size" json:"total_js_heap_size"`
}

// NewRenderErrorLog returns a record with every field at its sentinel.
func NewRenderErrorLog() RenderErrorLog {
	return RenderErrorLog{
		CaseCategory:    Sentinel,
		Message:         SentinelMessage,
		JSHeapSizeLimit: Sentinel,
		UsedJSHeapSize:  Sentinel,
		TotalJSHeapSize: Sentinel,
	}
}

// TruncateMessage cuts s to MaxMessageLen characters on a rune boundary.
func TruncateMessage(s string) string {
	if utf8.RuneCountInString(s) <= MaxMessageLen {
		return s
	}
	n := 0
	for i := range s {
		if n == MaxMessageLen {
			return s[:i]
		}
		n++
	}
	return s
}
