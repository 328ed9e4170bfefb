//
//  internal/requestinfo/requestinfo.go
//
//  Lightweight types and helpers that collect per-request metadata
//  (user-agent fingerprint, client IP + geolocation, and timestamp).
//  These structs are inert.  They contain no pointers to database
//  handles or large buffers, so they are safe to log or JSON-encode.
//
//  Dependencies
//  • github.com/avct/uasurfer          (UA parsing, via internal/ua)
//  • github.com/oschwald/geoip2-golang (MaxMind lookup)
//

package requestinfo

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/oschwald/geoip2-golang"
	"go.uber.org/zap/zapcore"

	"github.com/audiocat/site/internal/ua"
)

//
//  -----------------------------
//  Struct definitions
//  -----------------------------
//

// Geo holds IP-based geolocation hints.
// These are best-effort and may be empty if the DB has no match.
type Geo struct {
	CountryISO string `json:"country,omitempty"` // "US", "CA", "FR", ...
	City       string `json:"city,omitempty"`    // "Chicago", "Paris", ...
}

// RequestInfo is what the access log and the render-error logger know
// about the client beyond the raw request.
type RequestInfo struct {
	IP        net.IP    `json:"ip"`
	UA        ua.Info   `json:"ua"`
	Geo       Geo       `json:"geo"`
	Timestamp time.Time `json:"ts"`
}

// MarshalLogObject lets zap log a RequestInfo as a nested object.
func (ri *RequestInfo) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	if ri.IP != nil {
		enc.AddString("ip", ri.IP.String())
	}
	if ri.Geo.CountryISO != "" {
		enc.AddString("country", ri.Geo.CountryISO)
	}
	if ri.Geo.City != "" {
		enc.AddString("city", ri.Geo.City)
	}
	enc.AddString("browser", ri.UA.Browser)
	enc.AddString("os", ri.UA.OS)
	enc.AddString("device", ri.UA.Device)
	enc.AddBool("mobile", ri.UA.Mobile)
	enc.AddBool("bot", ri.UA.IsBot)
	return nil
}

//
//  -----------------------------
//  GeoLite2 reader
//  -----------------------------
//

// GeoDB wraps a MaxMind handle.  It is safe for concurrent reads, which
// is all we ever perform.  A nil *GeoDB is valid and resolves nothing.
type GeoDB struct {
	r *geoip2.Reader
}

// OpenGeo opens the GeoLite2-City database at dbPath.  An empty path
// returns (nil, nil) so the site runs without geolocation.
func OpenGeo(dbPath string) (*GeoDB, error) {
	if dbPath == "" {
		return nil, nil
	}
	r, err := geoip2.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("requestinfo: open GeoLite2 DB: %w", err)
	}
	return &GeoDB{r: r}, nil
}

// Lookup returns best-effort Geo data for ip.
func (g *GeoDB) Lookup(ip net.IP) Geo {
	if g == nil || g.r == nil || ip == nil {
		return Geo{}
	}
	rec, err := g.r.City(ip)
	if err != nil {
		return Geo{}
	}
	return Geo{
		CountryISO: rec.Country.IsoCode,
		City:       rec.City.Names["en"],
	}
}

// Close releases the mmap'd database.
func (g *GeoDB) Close() error {
	if g == nil || g.r == nil {
		return nil
	}
	return g.r.Close()
}

//
//  -----------------------------
//  Public helper: FromContext
//  -----------------------------
//

type ctxKey struct{} // unexported, collision-proof

// WithInfo returns a copy of ctx carrying info.
func WithInfo(ctx context.Context, info *RequestInfo) context.Context {
	return context.WithValue(ctx, ctxKey{}, info)
}

// FromContext returns the pointer previously stored by Enrich.
// It returns nil if the middleware has not run.
func FromContext(ctx context.Context) *RequestInfo {
	v, _ := ctx.Value(ctxKey{}).(*RequestInfo)
	return v
}
