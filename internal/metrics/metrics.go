// Package metrics exposes Prometheus instrumentation for the API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "monitor_ipu_http_requests_total",
		Help: "HTTP requests served, by route and status code.",
	}, []string{"method", "route", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "monitor_ipu_http_request_duration_seconds",
		Help:    "HTTP request latency, by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	forecastRuns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "monitor_ipu_forecast_runs_total",
		Help: "Forecast computations performed.",
	})

	forecastDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "monitor_ipu_forecast_duration_seconds",
		Help:    "Time spent computing forecasts.",
		Buckets: prometheus.DefBuckets,
	})
)

// Handler serves the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware records request counts and latency per chi route pattern.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		requestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(ww.Status())).Inc()
		requestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// ObserveForecast records one forecast computation.
func ObserveForecast(elapsed time.Duration) {
	forecastRuns.Inc()
	forecastDuration.Observe(elapsed.Seconds())
}
