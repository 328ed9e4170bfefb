// cmd/web/main.go
//
// audiocat site – HTTP entry point.
//
// Start-up sequence
// -----------------
//
//  1. Load configuration (conf/.env → conf/global.yaml → AUDIOCAT_* env).
//
//  2. Start daily rotating logger (tees to console when running in a TTY).
//
//  3. Open the record store (SQL with migrations, or Redis), resolving a
//     `vault:` database password on the way.
//
//  4. Build the template renderer; watch the template tree when
//     templates.reload is on.
//
//  5. Read the two app payloads once.
//
//  6. Open the optional GeoLite2 database.
//
//  7. Build the route table (superset minus routes.disabled), wrap it in
//     the chi chain, and serve until SIGINT/SIGTERM.
//
// Large comment blocks are framed by blank "//" lines; inline comments use
// a single "//".
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/audiocat/site/internal/bootstrap"
	"github.com/audiocat/site/internal/config"
	"github.com/audiocat/site/internal/handler"
	"github.com/audiocat/site/internal/logger"
	"github.com/audiocat/site/internal/requestinfo"
	"github.com/audiocat/site/internal/routing"
	"github.com/audiocat/site/internal/server"
	"github.com/audiocat/site/internal/telemetry"
	"github.com/audiocat/site/internal/view"
	"github.com/audiocat/site/internal/web"
)

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func main() {
	zap.ReplaceGlobals(logger.Console("info").Desugar())

	cfg, err := config.Load()
	if err != nil {
		zap.S().Fatalw("load config", "err", err)
	}

	log, err := logger.New(cfg.Log.Dir, cfg.Log.Level, cfg.Log.Tee || runningInTTY())
	if err != nil {
		zap.S().Fatalw("start logger", "err", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatalw("server exited", "err", err)
	}
}

func run(ctx context.Context, cfg *config.Config, log *zap.SugaredLogger) error {
	//
	// ── 1.  Record store ────────────────────────────────────────────────
	//
	st, err := bootstrap.OpenStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer st.Close()

	//
	// ── 2.  Templates ───────────────────────────────────────────────────
	//
	rnd := view.New(cfg.Paths.Templates, cfg.Templates.CacheSize)
	if cfg.Templates.Reload {
		if err := rnd.Watch(ctx, log); err != nil {
			return err
		}
		log.Infow("template hot reload on", "root", cfg.Paths.Templates)
	}

	//
	// ── 3.  App payloads and geolocation ────────────────────────────────
	//
	app, err := handler.LoadAppContent(cfg.Paths.AppContent)
	if err != nil {
		return err
	}
	geo, err := requestinfo.OpenGeo(cfg.Geo.DBPath)
	if err != nil {
		// Geolocation only enriches logs; run without it.
		log.Warnw("geolocation disabled", "err", err)
	}
	defer geo.Close()

	//
	// ── 4.  Route table and outer chain ─────────────────────────────────
	//
	table, err := routing.Build(routing.Deps{
		Renderer:           rnd,
		App:                app,
		Store:              st,
		Telemetry:          telemetry.Policy(cfg.Telemetry.Malformed),
		PermanentRedirects: cfg.HTTP.PermanentRedirects,
	}, cfg.Routes.Disabled)
	if err != nil {
		return err
	}
	for _, rt := range table.Routes() {
		log.Debugw("route", "name", rt.Name, "pattern", rt.Matcher.Pattern(), "methods", rt.Methods)
	}

	root := web.NewHandler(web.Options{
		Routes:         table,
		Health:         st,
		Geo:            geo,
		Log:            log,
		CSP:            cfg.HTTP.CSP,
		ForceHTTPS:     cfg.HTTP.ForceHTTPS,
		StaticDir:      cfg.Paths.Static,
		StaticPrefixes: cfg.Static.Prefixes,
	})

	return server.Run(ctx, server.New(cfg.HTTP.ListenAddr, root), log)
}
