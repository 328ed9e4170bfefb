// internal/middleware/accesslog.go
//
// Structured access log.
//
// Context
// -------
// One JSON line per request, written after the handler returns:
//
//	{"msg":"http","method":"GET","path":"/app","status":200,"bytes":5123,
//	 "dur":"1.2ms","req_id":"host/abc-000001","client":{…}}
//
// The middleware also stores a child logger carrying the request id in
// the context, so handlers that log through logger.FromContext tie their
// lines to the access line.
//
// Notes
// -----
// • Must run after chi's RequestID and requestinfo.Enrich.
// • 5xx responses log at error level, 4xx at warn, the rest at info.
package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/audiocat/site/internal/logger"
	"github.com/audiocat/site/internal/requestinfo"
)

// AccessLog returns middleware that logs each request to log.
func AccessLog(log *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqLog := log
			if id := chimw.GetReqID(r.Context()); id != "" {
				reqLog = log.With("req_id", id)
			}

			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(logger.WithContext(r.Context(), reqLog)))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			fields := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", ww.BytesWritten(),
				"dur", time.Since(start),
			}
			if info := requestinfo.FromContext(r.Context()); info != nil {
				fields = append(fields, zap.Object("client", info))
			}

			switch {
			case status >= 500:
				reqLog.Errorw("http", fields...)
			case status >= 400:
				reqLog.Warnw("http", fields...)
			default:
				reqLog.Infow("http", fields...)
			}
		})
	}
}
