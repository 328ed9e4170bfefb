// internal/handler/utility.go
//
// URL normalisation and the random-number probe.
package handler

import (
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// RandomMax is the inclusive upper bound of RandomReplier.
const RandomMax = 1_000_000

// TrailingSlashRemover redirects "/x/" to "/x", keeping the query string.
// It is mounted on `^(.+)/$`, so only the final slash is dropped and a
// path ending in several slashes walks down one redirect at a time.
func TrailingSlashRemover(permanent bool) http.HandlerFunc {
	status := http.StatusFound
	if permanent {
		status = http.StatusMovedPermanently
	}
	return func(w http.ResponseWriter, r *http.Request) {
		// Work on the decoded path the route matched, so "/a%2F" ends up
		// at "/a" rather than back at itself.
		target := strings.TrimSuffix(r.URL.Path, "/")
		// "//evil.example" would leave the site as a protocol-relative URL.
		target = "/" + strings.TrimLeft(target, "/")
		target = (&url.URL{Path: target}).EscapedPath()
		if r.URL.RawQuery != "" {
			target += "?" + r.URL.RawQuery
		}
		http.Redirect(w, r, target, status)
	}
}

// RandomReplier answers with a uniform integer in [0, RandomMax].
func RandomReplier(w http.ResponseWriter, r *http.Request) {
	writeBody(w, r, "text/plain; charset=utf-8", []byte(strconv.Itoa(randomInt())))
}

func randomInt() int { return rand.Intn(RandomMax + 1) }
