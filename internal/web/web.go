// internal/web/web.go
//
// Top-level HTTP handler.
//
// Context
// -------
// chi owns the outer chain and the ambient endpoints; the site's own
// URL space is the ordered route table from internal/routing, mounted as
// the catch-all.  Order of middleware:
//
//	RequestID → RealIP → Recoverer → requestinfo.Enrich → AccessLog →
//	Security → ForceHTTPS → (metrics | healthz | static | route table)
//
// Notes
// -----
// • Static prefixes serve files only; "/css/" and friends fall through to
//   the route table's trailing-slash redirect.
// • /healthz pings the store with a short timeout; it is not counted by
//   the route table metrics.
package web

import (
	"context"
	"io/fs"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/audiocat/site/internal/middleware"
	"github.com/audiocat/site/internal/requestinfo"
)

// Pinger is the health probe the store satisfies.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options collects what NewHandler wires together.
type Options struct {
	Routes     http.Handler // usually *routing.Table
	Health     Pinger
	Geo        *requestinfo.GeoDB
	Log        *zap.SugaredLogger
	CSP        string
	ForceHTTPS bool

	StaticDir      string
	StaticPrefixes []string
}

// NewHandler builds the site's root handler.
func NewHandler(o Options) http.Handler {
	log := o.Log
	if log == nil {
		log = zap.S()
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(requestinfo.Enrich(o.Geo))
	r.Use(middleware.AccessLog(log))
	r.Use(middleware.Security(o.CSP))
	r.Use(middleware.ForceHTTPS(o.ForceHTTPS))

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.Get("/healthz", healthz(o.Health))

	if o.StaticDir != "" {
		files := staticFiles(o.StaticDir, o.Routes)
		for _, p := range o.StaticPrefixes {
			r.Handle("/"+p+"/*", files)
		}
	}

	r.Handle("/", o.Routes)
	r.Handle("/*", o.Routes)
	return r
}

func healthz(p Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if p != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := p.Ping(ctx); err != nil {
				zap.S().Warnw("health check failed", "err", err)
				http.Error(w, "unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	}
}

// noDirFS hides every directory, so FileServer answers 404 instead of a
// listing and never issues its own add-a-slash redirect.
type noDirFS struct{ fs.FS }

func (n noDirFS) Open(name string) (fs.File, error) {
	f, err := n.FS.Open(name)
	if err != nil {
		return nil, err
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if st.IsDir() {
		f.Close()
		return nil, fs.ErrNotExist
	}
	return f, nil
}

// staticFiles serves files under the static prefixes.  A path ending in
// "/" is never a file, so it goes to the route table and gets the same
// trailing-slash redirect as every other URL.
func staticFiles(dir string, routes http.Handler) http.Handler {
	files := http.FileServer(http.FS(noDirFS{os.DirFS(dir)}))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			routes.ServeHTTP(w, r)
			return
		}
		files.ServeHTTP(w, r)
	})
}
