// internal/model/license_key.go
//
// `license_key` table row model.
//
// Context
// -------
// A LicenseKeySubmission records one purchased license together with the
// buyer's optional feedback.  Submissions arrive from outside the web
// surface; the operator CLI is the only writer in this repository.
//
// Notes
// -----
// • Optional columns are pointers; nil maps to SQL NULL.
// • PersonName defaults to the empty string, matching the column default.
// • DateCreated is written by the store, never by callers.
package model

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// LicenseKeySubmission mirrors one row in `license_key`.
type LicenseKeySubmission struct {
	ID          string    `db:"id"           json:"id"`
	PersonName  string    `db:"person_name"  json:"person_name"  validate:"max=500"`
	Email       *string   `db:"email"        json:"email"        validate:"omitempty,email,max=320"`
	LicenseKey  *string   `db:"license_key"  json:"license_key"`
	Amount      *int64    `db:"amount"       json:"amount"       validate:"omitempty,gte=0"`
	Comments    *string   `db:"comments"     json:"comments"`
	DateCreated time.Time `db:"date_created" json:"date_created"`
}

var validate = validator.New()

// Validate checks field constraints before insert.
func (s *LicenseKeySubmission) Validate() error {
	return validate.Struct(s)
}
