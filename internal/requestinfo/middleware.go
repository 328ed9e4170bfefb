// internal/requestinfo/middleware.go
//
// HTTP middleware that enriches each request with *RequestInfo.
//
/*
Context
--------
This handler sits directly after chi's RealIP, so r.RemoteAddr already
holds the client address.  For every request it:

  1. Parses the User-Agent header through internal/ua.
  2. Performs a GeoLite2 lookup when a database is configured.
  3. Stores a `*RequestInfo` value in `request.Context` under an
     unexported key, so the access log and the render-error logger can
     read UA and Geo attributes without reparsing.

Notes
-----
  • All look-ups are read-only, so the middleware is safe under heavy
    concurrency.
  • Handlers that make routing decisions on the User-Agent (the app
    page) read the header themselves.  RequestInfo is for logging only.
*/
package requestinfo

import (
	"net"
	"net/http"
	"time"

	"github.com/audiocat/site/internal/ua"
)

/*──────────────────────────── middleware ───────────────────────────────────*/

// Enrich returns middleware that attaches *RequestInfo and forwards.
func Enrich(geo *GeoDB) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			info := &RequestInfo{
				IP:        ip,
				UA:        ua.Parse(r.UserAgent()),
				Geo:       geo.Lookup(ip),
				Timestamp: time.Now().UTC(),
			}
			next.ServeHTTP(w, r.WithContext(WithInfo(r.Context(), info)))
		})
	}
}

/*──────────────────────────── client IP helper ─────────────────────────────*/

// clientIP parses r.RemoteAddr, which is either "ip:port" or, after
// chi's RealIP, a bare address.
func clientIP(r *http.Request) net.IP {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return net.ParseIP(host)
	}
	return net.ParseIP(r.RemoteAddr)
}
