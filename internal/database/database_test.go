package database

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
)

func TestBuildDSN(t *testing.T) {
	if got := BuildDSN("site:%s@tcp(db:3306)/site", "s3cret"); got != "site:s3cret@tcp(db:3306)/site" {
		t.Fatalf("BuildDSN = %q", got)
	}
	if got := BuildDSN("file:site.db", "ignored"); got != "file:site.db" {
		t.Fatalf("BuildDSN without verb = %q", got)
	}
}

func TestNormaliseMySQL_ForcesParseTime(t *testing.T) {
	got, err := normaliseMySQL("site:pw@tcp(127.0.0.1:3306)/site")
	if err != nil {
		t.Fatalf("normaliseMySQL: %v", err)
	}
	if !strings.Contains(got, "parseTime=true") {
		t.Fatalf("dsn %q lacks parseTime=true", got)
	}
}

func TestMigrate_SQLite(t *testing.T) {
	dsn := "file:" + filepath.Join(t.TempDir(), "site.db")
	db, err := Open("sqlite3", dsn)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := Migrate(ctx, db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	// Second run is a no-op.
	if err := Migrate(ctx, db); err != nil {
		t.Fatalf("Migrate (again): %v", err)
	}

	for _, table := range []string{"render_error_log", "license_key"} {
		var n int
		err := db.GetContext(ctx, &n,
			`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, table)
		if err != nil {
			t.Fatalf("lookup %s: %v", table, err)
		}
		if n != 1 {
			t.Errorf("table %s missing after migrate", table)
		}
	}
}

func TestMigrate_UnknownDriver(t *testing.T) {
	if _, err := migrationDir("postgres"); err == nil {
		t.Fatalf("expected error for unsupported driver")
	}
}
