// internal/config/validator.go
//
// Thin wrapper around go-playground/validator.
//
// Context
// -------
// `internal/config/loader.go` calls `validateStruct` immediately after it
// unmarshals the merged Koanf tree and applies defaults.  Any tag mismatch
// or validation error aborts startup, ensuring the binary never runs with
// partial, malformed, or missing configuration.
//
// Beyond the tag rules there are two cross-section checks: the SQL store
// needs a DSN, and a DSN may carry at most one `%s` verb, which is where
// the resolved password is spliced in.
//
// Notes
// -----
//   • Oxford commas, two spaces after periods.

package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

//
// validator instance (package-level singleton)
//

var v = validator.New()

//
// public API
//

// validateStruct returns the first validation error, or nil on success.
func validateStruct(c *Config) error {
	if err := v.Struct(c); err != nil {
		return err
	}
	if c.Store.Backend == "sql" && c.Database.DSN == "" {
		return fmt.Errorf("database.dsn: required when store.backend is sql")
	}
	if n := strings.Count(c.Database.DSN, "%s"); n > 1 {
		return fmt.Errorf("database.dsn: expected at most one %%s verb, found %d", n)
	}
	return nil
}
