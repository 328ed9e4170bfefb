// internal/view/render.go
//
// Central view engine: template lookup, layout parsing, func-map injection,
// and an LRU of parsed *template.Template* sets.
//
// Public helpers
// --------------
//   - Render      – return the rendered page as a string.
//   - RenderTo    – write the rendered page to an io.Writer.
//   - Invalidate  – drop cached sets (used by the fsnotify watcher).
//
// Lookup
// ------
// A template name is a slash-separated path relative to the template
// root, e.g. "about.html".  Names that are absolute or climb out of the
// root with ".." resolve to ErrTemplateNotFound, exactly like a missing
// file.  Every file under <root>/layout/*.html is parsed into the same
// set before the page, so pages can call {{ template "base" . }} and
// override its blocks.
//
// Escaping
// --------
// html/template escapes every interpolated value for its context.  Authors
// opt out per value with the `safe` helper or by passing template.HTML.
//
// Style
// -----
// • Oxford commas, two spaces after periods.

package view

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io"
	"os"
	"path"
	"path/filepath"

	"golang.org/x/sync/singleflight"

	"github.com/audiocat/site/internal/cache"
	"github.com/audiocat/site/internal/metrics"
)

// ErrTemplateNotFound is returned when the named file does not exist under
// the template root.
var ErrTemplateNotFound = errors.New("view: template not found")

// LayoutDir is the sub-directory whose files are parsed with every page.
const LayoutDir = "layout"

// Renderer loads and executes templates from one root directory.  It is
// safe for concurrent use.
type Renderer struct {
	root  string
	cache *cache.LRU
	sfg   singleflight.Group
	funcs template.FuncMap
}

// New returns a Renderer for root holding at most cacheSize parsed sets.
func New(root string, cacheSize int) *Renderer {
	if cacheSize < 1 {
		cacheSize = 1
	}
	return &Renderer{
		root:  root,
		cache: cache.New(cacheSize),
		funcs: FuncMap(),
	}
}

// Root reports the template directory.
func (r *Renderer) Root() string { return r.root }

// Render executes name with values and returns the HTML.  values may be
// nil.
func (r *Renderer) Render(name string, values map[string]any) (string, error) {
	var buf bytes.Buffer
	if err := r.RenderTo(&buf, name, values); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderTo executes name with values into w.  On error w may hold a
// partial page; callers that need all-or-nothing should pass a buffer.
func (r *Renderer) RenderTo(w io.Writer, name string, values map[string]any) error {
	t, err := r.load(name)
	if err != nil {
		metrics.TemplateErrorsTotal.Inc()
		return err
	}
	if values == nil {
		values = map[string]any{}
	}
	if err := t.ExecuteTemplate(w, path.Base(name), values); err != nil {
		metrics.TemplateErrorsTotal.Inc()
		return fmt.Errorf("execute %s: %w", name, err)
	}
	return nil
}

// Invalidate drops every cached set.
func (r *Renderer) Invalidate() { r.cache.Purge() }

//
// internal: load
//

// load returns the parsed set for name, parsing at most once per cache miss
// even under concurrent callers.
func (r *Renderer) load(name string) (*template.Template, error) {
	if v, ok := r.cache.Get(name); ok {
		metrics.TemplateCacheHits.Inc()
		return v.(*template.Template), nil
	}

	v, err, _ := r.sfg.Do(name, func() (any, error) {
		if v, ok := r.cache.Get(name); ok {
			return v, nil
		}
		metrics.TemplateCacheMisses.Inc()
		t, err := r.parse(name)
		if err != nil {
			return nil, err
		}
		r.cache.Add(name, t)
		return t, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*template.Template), nil
}

// parse resolves name under root and builds a fresh set: layouts first,
// then the page so its {{ define }} blocks win.
func (r *Renderer) parse(name string) (*template.Template, error) {
	file, err := r.resolve(name)
	if err != nil {
		return nil, err
	}

	t := template.New("").Funcs(r.funcs)

	layouts, err := filepath.Glob(filepath.Join(r.root, LayoutDir, "*.html"))
	if err != nil {
		return nil, err
	}
	if len(layouts) > 0 {
		if t, err = t.ParseFiles(layouts...); err != nil {
			return nil, fmt.Errorf("parse layouts: %w", err)
		}
	}

	src, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	if _, err := t.New(path.Base(name)).Parse(string(src)); err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	return t, nil
}

// resolve maps name onto a regular file inside root.
func (r *Renderer) resolve(name string) (string, error) {
	clean := filepath.FromSlash(name)
	if name == "" || !filepath.IsLocal(clean) {
		return "", fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
	}
	file := filepath.Join(r.root, clean)
	fi, err := os.Stat(file)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
		}
		return "", err
	}
	if fi.IsDir() {
		return "", fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
	}
	return file, nil
}
