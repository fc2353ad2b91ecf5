package handler

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/wadjakorntonsri/unserialize-compare/pkg/core/decoder"
)

// Metrics holds the counters exposed on /metrics. Each router gets its own
// set so tests can build several routers in one process.
type Metrics struct {
	set *metrics.Set
}

func NewMetrics() *Metrics {
	return &Metrics{set: metrics.NewSet()}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Middleware counts requests by method and status class and times them.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		m.set.GetOrCreateCounter(fmt.Sprintf(`http_requests_total{method=%q,code="%dxx"}`, methodLabel(r.Method), rec.status/100)).Inc()
		m.set.GetOrCreateHistogram(`http_request_duration_seconds`).UpdateDuration(start)
	})
}

// Decoded counts a decode outcome by format.
func (m *Metrics) Decoded(format string, ok bool) {
	result := "ok"
	if !ok {
		result = "error"
	}
	m.set.GetOrCreateCounter(fmt.Sprintf(`decode_total{format=%q,result=%q}`, formatLabel(format), result)).Inc()
}

// LinkLoaded counts comparison tokens read from requests.
func (m *Metrics) LinkLoaded(ok bool) {
	if ok {
		m.set.GetOrCreateCounter(`link_loads_total{result="ok"}`).Inc()
		return
	}
	m.set.GetOrCreateCounter(`link_loads_total{result="invalid"}`).Inc()
}

func (m *Metrics) Handler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	m.set.WritePrometheus(w)
	metrics.WriteProcessMetrics(w)
}

// methodLabel folds request methods onto a fixed set so clients cannot
// mint new series.
func methodLabel(method string) string {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut,
		http.MethodPatch, http.MethodDelete, http.MethodOptions:
		return method
	default:
		return "other"
	}
}

func formatLabel(format string) string {
	switch format {
	case decoder.FormatPHP, decoder.FormatJSON:
		return strings.ToLower(format)
	case decoder.FormatPHPAuto:
		return "php_auto"
	case decoder.FormatJSONAuto:
		return "json_auto"
	default:
		return "none"
	}
}
