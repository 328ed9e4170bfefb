// internal/handler/errorlog.go
//
// POST /renderError
//
// Context
// -------
// The audio editor reports client-side render failures here.  The
// report lives in headers (see internal/telemetry); the body is ignored.
// A stored report is acknowledged with an empty 200 and nothing else,
// so the client cannot tell a duplicate from a first report.
//
// Failure mapping
// ---------------
//   - malformed integer header under the reject policy → 400
//   - store failure                                    → 500
package handler

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/audiocat/site/internal/logger"
	"github.com/audiocat/site/internal/metrics"
	"github.com/audiocat/site/internal/model"
	"github.com/audiocat/site/internal/requestinfo"
	"github.com/audiocat/site/internal/telemetry"
)

// RenderErrorStore is the part of store.Store this handler writes to.
type RenderErrorStore interface {
	CreateRenderErrorLog(ctx context.Context, rec *model.RenderErrorLog) error
}

// RenderError returns the telemetry ingest handler.
func RenderError(st RenderErrorStore, policy telemetry.Policy) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())
		if info := requestinfo.FromContext(r.Context()); info != nil {
			log = log.With(zap.Object("client", info))
		}

		rec, defaulted, err := telemetry.Parse(r.Header, policy)
		if err != nil {
			var mf *telemetry.MalformedFieldError
			if errors.As(err, &mf) {
				metrics.RenderErrorLogsTotal.WithLabelValues("rejected").Inc()
				log.Warnw("render error report rejected", "field", mf.Field, "value", mf.Value)
				http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
				return
			}
			log.Errorw("render error report parse failed", "err", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		for _, mf := range defaulted {
			log.Warnw("render error field defaulted", "field", mf.Field, "value", mf.Value)
		}

		if err := st.CreateRenderErrorLog(r.Context(), rec); err != nil {
			metrics.RenderErrorLogsTotal.WithLabelValues("failed").Inc()
			metrics.StoreWriteErrorsTotal.Inc()
			log.Errorw("render error report not stored", "err", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		metrics.RenderErrorLogsTotal.WithLabelValues("stored").Inc()
		log.Infow("render error report stored",
			"id", rec.ID,
			"case_category", rec.CaseCategory,
			"used_js_heap_size", rec.UsedJSHeapSize,
		)
		w.WriteHeader(http.StatusOK)
	}
}
