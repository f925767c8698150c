package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type metrics struct {
	reg         *prometheus.Registry
	requests    *prometheus.CounterVec
	viewRows    prometheus.Histogram
	chartBuilds *prometheus.CounterVec
}

// newMetrics registers on a private registry so several servers (and tests)
// can coexist in one process.
func newMetrics() *metrics {
	m := &metrics{
		reg: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "autompg_http_requests_total",
			Help: "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "code"}),
		viewRows: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "autompg_view_rows",
			Help:    "Rows in the working view after filters are applied.",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 200, 400},
		}),
		chartBuilds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "autompg_chart_builds_total",
			Help: "Chart figures built by kind and output format.",
		}, []string{"kind", "format"}),
	}
	m.reg.MustRegister(
		m.requests, m.viewRows, m.chartBuilds,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

func (m *metrics) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		m.requests.WithLabelValues(route, r.Method, strconv.Itoa(ww.Status())).Inc()
	})
}
