// internal/routing/routes.go
//
// The site's route superset.
//
// Context
// -------
// Different deployments have shipped different route sets (some with
// `/introduction` and `/usagePolicy`, some without).  Every route is
// compiled in here; `routes.disabled` in conf/global.yaml removes entries
// by path or by name when the table is built.
//
// Order matters.  The trailing-slash normaliser comes first so `/about/`
// is redirected before any literal could claim it, and `/` comes last.
package routing

import (
	"fmt"
	"net/http"
	"slices"

	"github.com/audiocat/site/internal/handler"
	"github.com/audiocat/site/internal/telemetry"
)

// Deps carries what the default handlers need.
type Deps struct {
	Renderer           handler.Renderer
	App                *handler.AppContent
	Store              handler.RenderErrorStore
	Telemetry          telemetry.Policy
	PermanentRedirects bool
}

var (
	get     = []string{http.MethodGet}
	getPost = []string{http.MethodGet, http.MethodPost}
	post    = []string{http.MethodPost}
)

// DefaultRoutes returns the full route list in dispatch order.
func DefaultRoutes(d Deps) []Route {
	page := func(name, path, tmpl string, methods []string) Route {
		return Route{Name: name, Matcher: Path(path), Methods: methods, Handler: handler.Page(d.Renderer, tmpl)}
	}
	app := handler.App(d.App)

	return []Route{
		{Name: "trailing-slash", Matcher: Regex(`(.+)/`), Methods: get, Handler: handler.TrailingSlashRemover(d.PermanentRedirects)},
		page("about", "/about", "about.html", get),
		page("acknowledgements", "/acknowledgements", "acknowledgements.html", get),
		{Name: "app", Matcher: Path("/app"), Methods: get, Handler: app},
		{Name: "introduction", Matcher: Path("/introduction"), Methods: get, Handler: app},
		page("docs", "/docs", "docs.html", get),
		page("privacy-policy", "/privacyPolicy", "privacyPolicy.html", get),
		page("usage-policy", "/usagePolicy", "usagePolicy.html", get),
		page("submit-feedback", "/submitFeedback", "submitFeedback.html", get),
		page("sad-cat", "/sadCat", "sadCat.html", get),
		{Name: "render-error", Matcher: Path("/renderError"), Methods: post, Handler: handler.RenderError(d.Store, d.Telemetry)},
		{Name: "random", Matcher: Path("/random"), Methods: getPost, Handler: http.HandlerFunc(handler.RandomReplier)},
		page("home", "/", "home.html", getPost),
	}
}

// Filter drops routes whose name or pattern appears in disabled.
func Filter(routes []Route, disabled []string) []Route {
	if len(disabled) == 0 {
		return routes
	}
	return slices.DeleteFunc(slices.Clone(routes), func(rt Route) bool {
		return slices.Contains(disabled, rt.Name) || slices.Contains(disabled, rt.Matcher.Pattern())
	})
}

// Build returns the filtered default table.  A disabled entry that names
// no route is an error, so a typo cannot leave a route switched on.
func Build(d Deps, disabled []string) (*Table, error) {
	routes := DefaultRoutes(d)
	for _, want := range disabled {
		if !slices.ContainsFunc(routes, func(rt Route) bool {
			return rt.Name == want || rt.Matcher.Pattern() == want
		}) {
			return nil, fmt.Errorf("routing: routes.disabled entry %q matches no route", want)
		}
	}
	return NewTable(Filter(routes, disabled))
}
