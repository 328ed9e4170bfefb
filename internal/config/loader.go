// internal/config/loader.go
//
// Configuration loader and hot-reloader.
//
/*
Context
--------
`Load()` builds one immutable `Config` struct from three layers (highest
precedence last):

  1. Optional `.env` file at `<root>/conf/.env`.
  2. `conf/global.yaml`.
  3. Environment variables prefixed `AUDIOCAT_`, where `__` maps to “.”
     (e.g., `AUDIOCAT_HTTP__LISTEN_ADDR → http.listen_addr`).

After merging, the tree is unmarshalled into strongly-typed structs,
defaults are applied, relative paths are anchored at the root, the result
is validated, and cached in an `atomic.Pointer` for lock-free reads.
`Reload()` simply calls `Load()` again and swaps the pointer.

Instrumentation
---------------
  • DEBUG spans : root discovery, YAML read.
  • ERROR spans : YAML parse, env overlay, unmarshal, validation failures.
  • INFO  span  : final “config loaded” with key highlights.
  • Logs use the global *sugared* logger (`zap.S()`) so early boot issues
    surface even before the file logger is installed.

Notes
-----
  • `rootDir()` climbs the cwd tree until it finds `conf/global.yaml`;
    this lets `go run ./cmd/web` work from any sub-directory.
  • Oxford commas, two spaces after periods.
*/
package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	koanf "github.com/knadh/koanf/v2"
	"go.uber.org/zap"
)

// EnvPrefix marks environment variables that override YAML keys.
const EnvPrefix = "AUDIOCAT_"

var current atomic.Pointer[Config]

/*──────────────────────────── root discovery ───────────────────────────────*/

// rootDir resolves AUDIOCAT_ROOT or climbs directories until
// conf/global.yaml is found.  Falls back to executable heuristic for the
// production layout (<root>/bin/web).
func rootDir() string {
	if r := os.Getenv(EnvPrefix + "ROOT"); r != "" {
		return r
	}

	wd, _ := os.Getwd()
	dir := wd
	for {
		if _, err := os.Stat(filepath.Join(dir, "conf", "global.yaml")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir { // reached filesystem root
			break
		}
		dir = parent
	}

	exe, _ := os.Executable()
	if filepath.Base(filepath.Dir(exe)) == "bin" {
		return filepath.Dir(filepath.Dir(exe))
	}
	return wd
}

/*─────────────────────────────── loader ───────────────────────────────────*/

// Load discovers the root and delegates to LoadFrom.
func Load() (*Config, error) {
	return LoadFrom(rootDir())
}

// LoadFrom reads .env, YAML, env overrides, validates, and caches Config
// for the given root directory.
func LoadFrom(root string) (*Config, error) {
	zap.S().Debugw("config root resolved", "root", root)

	// .env (optional, no error if missing)
	_ = godotenv.Load(filepath.Join(root, "conf", ".env"))

	k := koanf.New(".")

	yamlPath := filepath.Join(root, "conf", "global.yaml")
	if err := k.Load(file.Provider(yamlPath), yaml.Parser()); err != nil {
		zap.S().Errorw("config yaml load failed", "file", yamlPath, "err", err)
		return nil, err
	}
	zap.S().Debugw("config yaml loaded", "file", yamlPath)

	// Env overrides: AUDIOCAT_HTTP__LISTEN_ADDR → http.listen_addr
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, EnvPrefix)
		return strings.ToLower(strings.ReplaceAll(s, "__", "."))
	}), nil); err != nil {
		zap.S().Errorw("config env overlay failed", "err", err)
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		zap.S().Errorw("config unmarshal failed", "err", err)
		return nil, err
	}

	cfg.Paths.Root = root
	applyDefaults(&cfg)
	if err := validateStruct(&cfg); err != nil {
		zap.S().Errorw("config validation failed", "err", err)
		return nil, err
	}

	current.Store(&cfg)
	zap.S().Infow("config loaded",
		"listen_addr", cfg.HTTP.ListenAddr,
		"store", cfg.Store.Backend,
		"driver", cfg.Database.Driver,
		"disabled_routes", cfg.Routes.Disabled,
		"root", cfg.Paths.Root,
	)
	return &cfg, nil
}

/*──────────────────────────── defaults ────────────────────────────────────*/

// applyDefaults fills zero values and anchors relative paths at the root.
func applyDefaults(c *Config) {
	if c.HTTP.ListenAddr == "" {
		c.HTTP.ListenAddr = ":8080"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Dir == "" {
		c.Log.Dir = "logs"
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "mysql"
	}
	if c.Store.Backend == "" {
		c.Store.Backend = "sql"
	}
	if c.Store.KeyPrefix == "" {
		c.Store.KeyPrefix = "audiocat"
	}
	if c.Paths.Templates == "" {
		c.Paths.Templates = "templates"
	}
	if c.Paths.AppContent == "" {
		c.Paths.AppContent = filepath.Join("content", "app")
	}
	if c.Paths.Static == "" {
		c.Paths.Static = "static"
	}
	if c.Templates.CacheSize == 0 {
		c.Templates.CacheSize = 64
	}
	if c.Static.Prefixes == nil {
		c.Static.Prefixes = []string{"css", "js", "images"}
	}
	if c.Telemetry.Malformed == "" {
		c.Telemetry.Malformed = "reject"
	}

	c.Log.Dir = anchor(c.Paths.Root, c.Log.Dir)
	c.Paths.Templates = anchor(c.Paths.Root, c.Paths.Templates)
	c.Paths.AppContent = anchor(c.Paths.Root, c.Paths.AppContent)
	c.Paths.Static = anchor(c.Paths.Root, c.Paths.Static)
	if c.Geo.DBPath != "" {
		c.Geo.DBPath = anchor(c.Paths.Root, c.Geo.DBPath)
	}
	if c.Database.Driver == "sqlite3" {
		c.Database.DSN = anchorSQLite(c.Paths.Root, c.Database.DSN)
	}
}

func anchor(root, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}

// anchorSQLite anchors the file path of a sqlite3 DSN, keeping any
// "file:" prefix and "?query".  In-memory databases are left alone.
func anchorSQLite(root, dsn string) string {
	if dsn == "" || strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		return dsn
	}
	prefix, rest := "", dsn
	if after, ok := strings.CutPrefix(dsn, "file:"); ok {
		prefix, rest = "file:", after
	}
	file, query, hasQuery := strings.Cut(rest, "?")
	if file == "" || filepath.IsAbs(file) {
		return dsn
	}
	out := prefix + filepath.Join(root, file)
	if hasQuery {
		out += "?" + query
	}
	return out
}

/*──────────────────────────── helpers ─────────────────────────────────────*/

func Get() *Config  { return current.Load() }
func Reload() error { _, err := Load(); return err }
