package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "conf"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "conf", "global.yaml"), []byte(body), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	return root
}

func TestLoadFrom_DefaultsAndAnchoring(t *testing.T) {
	root := writeYAML(t, `
database:
  driver: sqlite3
  dsn: "file:audiocat.db"
routes:
  disabled: ["/introduction"]
`)

	cfg, err := LoadFrom(root)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}

	if cfg.HTTP.ListenAddr != ":8080" {
		t.Errorf("listen_addr = %q, want :8080", cfg.HTTP.ListenAddr)
	}
	if cfg.Store.Backend != "sql" {
		t.Errorf("store.backend = %q, want sql", cfg.Store.Backend)
	}
	if cfg.Telemetry.Malformed != "reject" {
		t.Errorf("telemetry.malformed = %q, want reject", cfg.Telemetry.Malformed)
	}
	if want := filepath.Join(root, "templates"); cfg.Paths.Templates != want {
		t.Errorf("paths.templates = %q, want %q", cfg.Paths.Templates, want)
	}
	if want := filepath.Join(root, "content", "app"); cfg.Paths.AppContent != want {
		t.Errorf("paths.app_content = %q, want %q", cfg.Paths.AppContent, want)
	}
	if want := "file:" + filepath.Join(root, "audiocat.db"); cfg.Database.DSN != want {
		t.Errorf("database.dsn = %q, want %q", cfg.Database.DSN, want)
	}
	if len(cfg.Routes.Disabled) != 1 || cfg.Routes.Disabled[0] != "/introduction" {
		t.Errorf("routes.disabled = %v", cfg.Routes.Disabled)
	}
	if Get() != cfg {
		t.Errorf("Get() did not return the cached config")
	}
}

func TestAnchorSQLite(t *testing.T) {
	root := filepath.Join(string(filepath.Separator), "srv", "audiocat")
	cases := []struct{ in, want string }{
		{"audiocat.db", filepath.Join(root, "audiocat.db")},
		{"file:data/audiocat.db?_busy_timeout=5000", "file:" + filepath.Join(root, "data", "audiocat.db") + "?_busy_timeout=5000"},
		{"file:/var/lib/audiocat.db", "file:/var/lib/audiocat.db"},
		{":memory:", ":memory:"},
		{"file::memory:?cache=shared", "file::memory:?cache=shared"},
		{"file:test.db?mode=memory", "file:test.db?mode=memory"},
		{"", ""},
	}
	for _, c := range cases {
		if got := anchorSQLite(root, c.in); got != c.want {
			t.Errorf("anchorSQLite(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestLoadFrom_EnvOverride(t *testing.T) {
	root := writeYAML(t, `
http:
  listen_addr: ":8080"
database:
  driver: mysql
  dsn: "site:%s@tcp(127.0.0.1:3306)/site?parseTime=true"
`)
	t.Setenv("AUDIOCAT_HTTP__LISTEN_ADDR", "127.0.0.1:9090")

	cfg, err := LoadFrom(root)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.HTTP.ListenAddr != "127.0.0.1:9090" {
		t.Fatalf("listen_addr = %q, want env override", cfg.HTTP.ListenAddr)
	}
}

func TestLoadFrom_ValidationFailures(t *testing.T) {
	cases := map[string]string{
		"bad driver": `
database:
  driver: oracle
  dsn: x
`,
		"redis without addr": `
database:
  dsn: x
store:
  backend: redis
`,
		"two password verbs": `
database:
  dsn: "%s:%s@tcp(db)/site"
`,
		"sql store without dsn": `
database:
  driver: sqlite3
`,
		"bad malformed policy": `
database:
  dsn: x
telemetry:
  malformed: ignore
`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadFrom(writeYAML(t, body)); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestLoadFrom_MissingYAML(t *testing.T) {
	if _, err := LoadFrom(t.TempDir()); err == nil {
		t.Fatalf("expected error for missing conf/global.yaml")
	}
}
