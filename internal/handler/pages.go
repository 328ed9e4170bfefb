// internal/handler/pages.go
//
// Static page handlers.
//
// Context
// -------
// Every informational page is one fixed template with no substitution
// values.  The page is rendered into memory before anything is written,
// so a template failure produces a clean 500 instead of half a page
// followed by an error string.
package handler

import (
	"net/http"
	"strconv"

	"github.com/audiocat/site/internal/logger"
)

// Renderer is the slice of *view.Renderer the handlers need.
type Renderer interface {
	Render(name string, values map[string]any) (string, error)
}

// Page returns a handler that renders tmpl with no values.
func Page(rnd Renderer, tmpl string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := rnd.Render(tmpl, nil)
		if err != nil {
			logger.FromContext(r.Context()).Errorw("page render failed",
				"template", tmpl,
				"err", err,
			)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		writeBody(w, r, "text/html; charset=utf-8", []byte(body))
	}
}

// writeBody sends b with status 200.  HEAD requests get the headers only.
func writeBody(w http.ResponseWriter, r *http.Request, contentType string, b []byte) {
	h := w.Header()
	h.Set("Content-Type", contentType)
	h.Set("Content-Length", strconv.Itoa(len(b)))
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		_, _ = w.Write(b)
	}
}
