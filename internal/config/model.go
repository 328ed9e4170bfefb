// internal/config/model.go
//
// Typed configuration model for the audiocat site.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from three overlay layers:
//
//   • optional `.env`                            – dotenv values,
//   • `conf/global.yaml`                         – primary static file,
//   • `AUDIOCAT_`-prefixed environment overrides – highest precedence.
//
// A database password of the form `vault:<mount>/<path>#<key>` is kept
// verbatim here.  cmd/web resolves it through internal/vault before the
// DSN is built, so the model never talks to Vault itself.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"`.
//   • Relative entries in `Paths` are resolved against `Paths.Root` by the
//     loader.  `Root` itself is runtime only.
//   • Oxford commas, two spaces after periods.  No em-dash.

package config

//
// HTTP section
//

// HTTP holds web-server tunables.
type HTTP struct {
	ListenAddr         string `koanf:"listen_addr"         validate:"required,hostname_port"`
	ForceHTTPS         bool   `koanf:"force_https"`
	PermanentRedirects bool   `koanf:"permanent_redirects"`
	CSP                string `koanf:"csp"`
}

//
// Log section
//

// Log controls the zap logger.  Dir is relative to Paths.Root unless
// absolute.
type Log struct {
	Level string `koanf:"level" validate:"omitempty,oneof=debug info warn error"`
	Dir   string `koanf:"dir"`
	Tee   bool   `koanf:"tee"`
}

//
// Database section
//

// Database holds the SQL driver, DSN template, and secret.
//
// The DSN is required when store.backend is sql.  It may carry one `%s`
// verb where the password belongs; the secret itself lives in Password
// (plain or a `vault:` reference) so it stays out of the YAML file and
// git history.
type Database struct {
	Driver   string `koanf:"driver"   validate:"required,oneof=mysql sqlite3"`
	DSN      string `koanf:"dsn"`
	Password string `koanf:"password"`
	Migrate  bool   `koanf:"migrate"`
}

//
// Store section
//

// Store selects the record persistence backend.  "sql" uses Database;
// "redis" uses RedisAddr.
type Store struct {
	Backend   string `koanf:"backend"    validate:"required,oneof=sql redis"`
	RedisAddr string `koanf:"redis_addr" validate:"required_if=Backend redis"`
	RedisDB   int    `koanf:"redis_db"   validate:"gte=0"`
	KeyPrefix string `koanf:"key_prefix"`
}

//
// Paths section
//

// Paths lists on-disk locations.  Root is discovered at runtime; the
// others may be set in YAML relative to it.
type Paths struct {
	Root       string `koanf:"-"`
	Templates  string `koanf:"templates"   validate:"required"`
	AppContent string `koanf:"app_content" validate:"required"`
	Static     string `koanf:"static"`
}

//
// Templates section
//

// Templates tunes the renderer cache.
type Templates struct {
	Reload    bool `koanf:"reload"`
	CacheSize int  `koanf:"cache_size" validate:"gte=0"`
}

//
// Routes section
//

// Routes holds deployment-level route selection.  Disabled entries match
// either a route path ("/introduction") or a route name ("introduction").
type Routes struct {
	Disabled []string `koanf:"disabled"`
}

//
// Telemetry section
//

// Telemetry controls how /renderError treats malformed numeric headers.
type Telemetry struct {
	Malformed string `koanf:"malformed" validate:"omitempty,oneof=reject default"`
}

//
// Geo section
//

// Geo points at an optional GeoLite2-City database.  Empty disables
// lookups.
type Geo struct {
	DBPath string `koanf:"db_path"`
}

//
// Static section
//

// Static lists URL prefixes served straight from Paths.Static.
type Static struct {
	Prefixes []string `koanf:"prefixes"`
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads throughout the app lifetime.
type Config struct {
	HTTP      HTTP      `koanf:"http"`
	Log       Log       `koanf:"log"`
	Database  Database  `koanf:"database"`
	Store     Store     `koanf:"store"`
	Paths     Paths     `koanf:"paths"`
	Templates Templates `koanf:"templates"`
	Routes    Routes    `koanf:"routes"`
	Telemetry Telemetry `koanf:"telemetry"`
	Geo       Geo       `koanf:"geo"`
	Static    Static    `koanf:"static"`
}
