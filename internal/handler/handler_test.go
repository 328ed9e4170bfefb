package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/audiocat/site/internal/database"
	"github.com/audiocat/site/internal/metrics"
	"github.com/audiocat/site/internal/model"
	"github.com/audiocat/site/internal/store"
	"github.com/audiocat/site/internal/telemetry"
	"github.com/audiocat/site/internal/view"
)

/*──────────────────────────── fakes ────────────────────────────────────────*/

type fakeRenderer struct {
	body string
	err  error
}

func (f fakeRenderer) Render(string, map[string]any) (string, error) { return f.body, f.err }

type memStore struct {
	mu   sync.Mutex
	recs []model.RenderErrorLog
	err  error
}

func (m *memStore) CreateRenderErrorLog(_ context.Context, rec *model.RenderErrorLog) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recs = append(m.recs, *rec)
	return nil
}

/*──────────────────────────── pages ────────────────────────────────────────*/

func TestPage_OK(t *testing.T) {
	h := Page(fakeRenderer{body: "<p>about</p>"}, "about.html")
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/about", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "<p>about</p>", rec.Body.String())
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
}

func TestPage_Head(t *testing.T) {
	h := Page(fakeRenderer{body: "<p>about</p>"}, "about.html")
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodHead, "/about", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
	assert.Equal(t, "12", rec.Header().Get("Content-Length"))
}

func TestPage_TemplateMissing(t *testing.T) {
	h := Page(fakeRenderer{err: view.ErrTemplateNotFound}, "gone.html")
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/gone", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "<p>")
}

// A failed page render is counted once, by the renderer.
func TestPage_TemplateErrorCountedOnce(t *testing.T) {
	rnd := view.New(t.TempDir(), 4)
	before := testutil.ToFloat64(metrics.TemplateErrorsTotal)

	rec := httptest.NewRecorder()
	Page(rnd, "missing.html")(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.TemplateErrorsTotal))
}

/*──────────────────────────── app ──────────────────────────────────────────*/

func TestApp_SelectsPayload(t *testing.T) {
	c := &AppContent{Mobile: []byte("mobile"), Desktop: []byte("desktop")}
	h := App(c)

	cases := []struct{ agent, want string }{
		{"Mozilla/5.0 (iPhone; CPU iPhone OS 17_4 like Mac OS X)", "mobile"},
		{"Mozilla/5.0 (Linux; Android 14)", "mobile"},
		{"Mozilla/5.0 (Linux; U; en-us; KFTT) Silk/3.68", "mobile"},
		{"Mozilla/5.0 (X11; Linux x86_64) Firefox/126.0", "desktop"},
		{"", "desktop"},
	}
	for _, c := range cases {
		req := httptest.NewRequest(http.MethodGet, "/app", nil)
		if c.agent != "" {
			req.Header.Set("User-Agent", c.agent)
		}
		rec := httptest.NewRecorder()
		h(rec, req)
		assert.Equal(t, c.want, rec.Body.String(), "agent %q", c.agent)
		assert.Equal(t, "User-Agent", rec.Header().Get("Vary"))
	}
}

func TestLoadAppContent(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, MobileFile), []byte("m"), 0o644))

	_, err := LoadAppContent(dir)
	require.Error(t, err, "desktop payload missing")

	require.NoError(t, os.WriteFile(filepath.Join(dir, DesktopFile), []byte("d"), 0o644))
	c, err := LoadAppContent(dir)
	require.NoError(t, err)
	assert.Equal(t, []byte("m"), c.Select("iPod"))
	assert.Equal(t, []byte("d"), c.Select("curl/8.5"))
}

func TestLoadAppContent_ShippedFiles(t *testing.T) {
	c, err := LoadAppContent(filepath.Join("..", "..", "content", "app"))
	require.NoError(t, err)
	assert.NotEmpty(t, c.Mobile)
	assert.NotEmpty(t, c.Desktop)
	assert.NotEqual(t, c.Mobile, c.Desktop)
}

/*──────────────────────────── render error ─────────────────────────────────*/

func postRenderError(h http.Handler, kv ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/renderError", nil)
	for i := 0; i+1 < len(kv); i += 2 {
		req.Header[kv[i]] = []string{kv[i+1]}
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func sqliteStore(t *testing.T) (*store.SQL, *sqlx.DB) {
	t.Helper()
	db, err := database.Open("sqlite3", "file:"+filepath.Join(t.TempDir(), "site.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(context.Background(), db))

	return store.NewSQL(db), db
}

func TestRenderError_StoresReport(t *testing.T) {
	st, db := sqliteStore(t)
	h := RenderError(st, telemetry.Reject)

	rec := postRenderError(h,
		"error_message", "oom",
		"case_category", "3",
		"js_heap_size_limit", "100",
		"used_js_heap_size", "50",
		"total_js_heap_size", "80",
	)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
	var rows []model.RenderErrorLog
	require.NoError(t, db.Select(&rows, `SELECT * FROM render_error_log`))
	require.Len(t, rows, 1)
	row := rows[0]
	assert.Equal(t, "oom", row.Message)
	assert.EqualValues(t, 3, row.CaseCategory)
	assert.EqualValues(t, 100, row.JSHeapSizeLimit)
	assert.EqualValues(t, 50, row.UsedJSHeapSize)
	assert.EqualValues(t, 80, row.TotalJSHeapSize)
	assert.False(t, row.DateCreated.IsZero())
}

func TestRenderError_NoHeaders(t *testing.T) {
	st := &memStore{}
	rec := postRenderError(RenderError(st, telemetry.Reject))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
	require.Len(t, st.recs, 1)
	got := st.recs[0]
	assert.Equal(t, "-2", got.Message)
	assert.EqualValues(t, -2, got.CaseCategory)
	assert.EqualValues(t, -2, got.JSHeapSizeLimit)
	assert.EqualValues(t, -2, got.UsedJSHeapSize)
	assert.EqualValues(t, -2, got.TotalJSHeapSize)
}

func TestRenderError_MalformedRejected(t *testing.T) {
	st := &memStore{}
	rec := postRenderError(RenderError(st, telemetry.Reject), "case_category", "abc")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, st.recs)
}

func TestRenderError_MalformedDefaulted(t *testing.T) {
	st := &memStore{}
	rec := postRenderError(RenderError(st, telemetry.Default), "case_category", "abc")

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, st.recs, 1)
	assert.EqualValues(t, -2, st.recs[0].CaseCategory)
}

func TestRenderError_StoreFailure(t *testing.T) {
	st := &memStore{err: errors.Join(store.ErrPersistence, errors.New("down"))}
	rec := postRenderError(RenderError(st, telemetry.Reject))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

/*──────────────────────────── utility ──────────────────────────────────────*/

func TestTrailingSlashRemover(t *testing.T) {
	cases := []struct {
		path      string
		permanent bool
		status    int
		location  string
	}{
		{"/about/", false, http.StatusFound, "/about"},
		{"/about/?lang=en", false, http.StatusFound, "/about?lang=en"},
		{"/docs/", true, http.StatusMovedPermanently, "/docs"},
		{"/a/b//", false, http.StatusFound, "/a/b/"},
		{"//evil.example/", false, http.StatusFound, "/evil.example"},
		{"/a%2F", false, http.StatusFound, "/a"},
		{"/a%20b/", false, http.StatusFound, "/a%20b"},
	}
	for _, c := range cases {
		rec := httptest.NewRecorder()
		TrailingSlashRemover(c.permanent)(rec, httptest.NewRequest(http.MethodGet, c.path, nil))
		assert.Equal(t, c.status, rec.Code, c.path)
		assert.Equal(t, c.location, rec.Header().Get("Location"), c.path)
		assert.NotEqual(t, c.path, rec.Header().Get("Location"), "redirect to self: %s", c.path)
	}
}

func TestRandomReplier_Range(t *testing.T) {
	seen := make(map[int]struct{})
	for i := 0; i < 10_000; i++ {
		rec := httptest.NewRecorder()
		RandomReplier(rec, httptest.NewRequest(http.MethodGet, "/random", nil))
		n, err := strconv.Atoi(rec.Body.String())
		require.NoError(t, err)
		require.GreaterOrEqual(t, n, 0)
		require.LessOrEqual(t, n, RandomMax)
		seen[n] = struct{}{}
	}
	assert.Greater(t, len(seen), 1, "10,000 draws were all identical")
}

func TestRandomInt_Property(t *testing.T) {
	properties := gopter.NewProperties(nil)
	properties.Property("stays within bounds", prop.ForAll(
		func(_ int) bool {
			n := randomInt()
			return n >= 0 && n <= RandomMax
		},
		gen.Int(),
	))
	properties.TestingRun(t)
}
