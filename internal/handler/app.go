// internal/handler/app.go
//
// Device-aware entry point for the audio editor.
//
// Context
// -------
// `/app` and `/introduction` hand the browser one of two pre-built
// bodies.  Both are read from disk once at startup and never change
// while the process runs; a content update means a restart.
//
// Notes
// -----
// • The choice is ua.IsMobile on the raw header.  A missing header is
//   the empty string, which is desktop.
// • Responses vary by User-Agent, so caches must key on it.
package handler

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/audiocat/site/internal/ua"
)

// File names under paths.app_content.
const (
	MobileFile  = "mobile.html"
	DesktopFile = "desktop.html"
)

// AppContent holds the two precomputed payloads.
type AppContent struct {
	Mobile  []byte
	Desktop []byte
}

// LoadAppContent reads both payloads from dir.
func LoadAppContent(dir string) (*AppContent, error) {
	mobile, err := os.ReadFile(filepath.Join(dir, MobileFile))
	if err != nil {
		return nil, fmt.Errorf("handler: load app content: %w", err)
	}
	desktop, err := os.ReadFile(filepath.Join(dir, DesktopFile))
	if err != nil {
		return nil, fmt.Errorf("handler: load app content: %w", err)
	}
	return &AppContent{Mobile: mobile, Desktop: desktop}, nil
}

// Select returns the payload for a User-Agent header value.
func (c *AppContent) Select(userAgent string) []byte {
	if ua.IsMobile(userAgent) {
		return c.Mobile
	}
	return c.Desktop
}

// App serves the payload chosen by Select.
func App(c *AppContent) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "User-Agent")
		writeBody(w, r, "text/html; charset=utf-8", c.Select(r.Header.Get("User-Agent")))
	}
}
