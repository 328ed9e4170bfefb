package web

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

func newTestHandler(t *testing.T, health Pinger) http.Handler {
	t.Helper()
	static := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(static, "css"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(static, "css", "static.css"), []byte("body{}"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(static, "css", "fonts"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(static, "css", "fonts", "index.html"), []byte("fonts"), 0o644))

	routes := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("table:" + r.URL.Path))
	})
	return NewHandler(Options{
		Routes:         routes,
		Health:         health,
		Log:            zap.NewNop().Sugar(),
		StaticDir:      static,
		StaticPrefixes: []string{"css", "js"},
	})
}

func get(h http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestNewHandler_RoutesToTable(t *testing.T) {
	h := newTestHandler(t, nil)

	for _, p := range []string{"/", "/about", "/about/", "/renderError"} {
		rec := get(h, p)
		assert.Equal(t, http.StatusOK, rec.Code, p)
		assert.Equal(t, "table:"+p, rec.Body.String(), p)
		assert.NotEmpty(t, rec.Header().Get("Content-Security-Policy"), p)
	}
}

func TestNewHandler_Static(t *testing.T) {
	h := newTestHandler(t, nil)

	rec := get(h, "/css/static.css")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "body{}", rec.Body.String())

	rec = get(h, "/css/fonts")
	assert.Equal(t, http.StatusNotFound, rec.Code, "directory")
	assert.Empty(t, rec.Header().Get("Location"))
	assert.Equal(t, http.StatusNotFound, get(h, "/js/missing.js").Code)
}

func TestNewHandler_StaticTrailingSlash(t *testing.T) {
	h := newTestHandler(t, nil)

	for _, p := range []string{"/css/", "/css/static.css/", "/js/"} {
		rec := get(h, p)
		assert.Equal(t, http.StatusOK, rec.Code, p)
		assert.Equal(t, "table:"+p, rec.Body.String(), p)
	}
}

func TestNewHandler_Healthz(t *testing.T) {
	rec := get(newTestHandler(t, pinger{}), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	rec = get(newTestHandler(t, pinger{err: errors.New("down")}), "/healthz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestNewHandler_Metrics(t *testing.T) {
	rec := get(newTestHandler(t, nil), "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
