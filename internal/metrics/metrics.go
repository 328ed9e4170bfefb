// Package metrics holds Prometheus instruments that are used across the
// site.  All collectors are registered with the global registry, so
// importing this package in main.go is enough to expose them on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "audiocat"

var (
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Requests dispatched by the route table.",
		}, []string{"route", "method", "status"})

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Latency of requests dispatched by the route table.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"route", "method"})

	TemplateCacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "template_cache_hits_total",
			Help:      "Template loads served from the parsed-set cache.",
		})

	TemplateCacheMisses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "template_cache_misses_total",
			Help:      "Template loads that parsed files from disk.",
		})

	TemplateErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "template_errors_total",
			Help:      "Template lookups or executions that failed.",
		})

	RenderErrorLogsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "render_error_logs_total",
			Help:      "Client render-error reports by outcome (stored, rejected, failed).",
		}, []string{"outcome"})

	StoreWriteErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_write_errors_total",
			Help:      "Record inserts that failed in the storage layer.",
		})
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		RequestDuration,
		TemplateCacheHits,
		TemplateCacheMisses,
		TemplateErrorsTotal,
		RenderErrorLogsTotal,
		StoreWriteErrorsTotal,
	)
}

// ObserveRequest records one dispatched request.  Methods outside the
// standard set share the "other" label, so clients cannot grow the series.
func ObserveRequest(route, method string, status int, took time.Duration) {
	method = MethodLabel(method)
	RequestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	RequestDuration.WithLabelValues(route, method).Observe(took.Seconds())
}

// MethodLabel maps an HTTP method onto the bounded label set.
func MethodLabel(method string) string {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut,
		http.MethodPatch, http.MethodDelete, http.MethodOptions,
		http.MethodConnect, http.MethodTrace:
		return method
	}
	return "other"
}
