// internal/routing/table.go
//
// Ordered route table.
//
// Context
// -------
// The site's URL space is a short, fixed list of (matcher, methods,
// handler) entries.  The table walks the list in order and the first
// entry whose matcher accepts the path owns the request:
//
//   1. Method allowed    → handler runs.
//   2. Method disallowed → 405 with an Allow header.  Later entries are
//      not consulted.
//   3. No entry matches  → 404.
//
// HEAD is accepted wherever GET is.  Each dispatch is counted and timed
// per route name on the Prometheus collectors in internal/metrics.
//
// Notes
// -----
// • The table is immutable after NewTable, so it is safe for concurrent
//   use without locking.
// • Regex captures are exposed to handlers through Captures.
package routing

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/audiocat/site/internal/metrics"
)

// Matcher decides whether a path belongs to a route.  The returned slice
// holds regex submatches, or nil for literal paths.
type Matcher interface {
	Match(path string) (captures []string, ok bool)
	Pattern() string
}

// Route is one table entry.
type Route struct {
	Name    string
	Matcher Matcher
	Methods []string
	Handler http.Handler
}

// allows reports whether method is accepted, counting HEAD as GET.
func (rt Route) allows(method string) bool {
	if slices.Contains(rt.Methods, method) {
		return true
	}
	return method == http.MethodHead && slices.Contains(rt.Methods, http.MethodGet)
}

// allowHeader lists the accepted methods, HEAD included when GET is.
func (rt Route) allowHeader() string {
	out := slices.Clone(rt.Methods)
	if slices.Contains(out, http.MethodGet) && !slices.Contains(out, http.MethodHead) {
		out = append(out, http.MethodHead)
	}
	return strings.Join(out, ", ")
}

/*──────────────────────────── matchers ─────────────────────────────────────*/

type literal string

// Path matches exactly p.
func Path(p string) Matcher { return literal(p) }

func (l literal) Match(path string) ([]string, bool) { return nil, path == string(l) }
func (l literal) Pattern() string                    { return string(l) }

type pattern struct{ re *regexp.Regexp }

// Regex matches paths against expr, which is anchored at both ends.  It
// panics on an invalid expression, like regexp.MustCompile.
func Regex(expr string) Matcher {
	return pattern{re: regexp.MustCompile("^(?:" + expr + ")$")}
}

func (p pattern) Match(path string) ([]string, bool) {
	m := p.re.FindStringSubmatch(path)
	if m == nil {
		return nil, false
	}
	return m[1:], true
}

func (p pattern) Pattern() string { return p.re.String() }

type capturesKey struct{}

// Captures returns the regex submatches of the route serving ctx.
func Captures(ctx context.Context) []string {
	v, _ := ctx.Value(capturesKey{}).([]string)
	return v
}

/*──────────────────────────── table ────────────────────────────────────────*/

// Table dispatches requests to the first matching Route.
type Table struct {
	routes []Route
}

// NewTable validates routes and freezes their order.
func NewTable(routes []Route) (*Table, error) {
	seen := make(map[string]struct{}, len(routes))
	for i, rt := range routes {
		switch {
		case rt.Name == "":
			return nil, fmt.Errorf("routing: route %d has no name", i)
		case rt.Matcher == nil || rt.Handler == nil:
			return nil, fmt.Errorf("routing: route %q is incomplete", rt.Name)
		case len(rt.Methods) == 0:
			return nil, fmt.Errorf("routing: route %q accepts no methods", rt.Name)
		}
		if _, dup := seen[rt.Name]; dup {
			return nil, fmt.Errorf("routing: duplicate route name %q", rt.Name)
		}
		seen[rt.Name] = struct{}{}
	}
	return &Table{routes: slices.Clone(routes)}, nil
}

// Routes returns a copy of the active entries in dispatch order.
func (t *Table) Routes() []Route { return slices.Clone(t.routes) }

// ServeHTTP implements http.Handler.
func (t *Table) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

	name := "unmatched"
	defer func() {
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		metrics.ObserveRequest(name, r.Method, status, time.Since(start))
	}()

	for _, rt := range t.routes {
		caps, ok := rt.Matcher.Match(r.URL.Path)
		if !ok {
			continue
		}
		name = rt.Name
		if !rt.allows(r.Method) {
			ww.Header().Set("Allow", rt.allowHeader())
			http.Error(ww, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		if caps != nil {
			r = r.WithContext(context.WithValue(r.Context(), capturesKey{}, caps))
		}
		rt.Handler.ServeHTTP(ww, r)
		return
	}
	http.NotFound(ww, r)
}
