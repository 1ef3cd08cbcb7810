// Package telemetry exposes prometheus metrics for availability queries,
// reservations and HTTP requests.
package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Reservation outcomes.
const (
	ReservationReserved = "reserved"
	ReservationNoSlot   = "no_slot"
	ReservationConflict = "conflict"
	ReservationRejected = "rejected"
)

// Metrics owns a private registry so tests can build as many as they like.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry      *prometheus.Registry
	queries       *prometheus.CounterVec
	queryDuration prometheus.Histogram
	reservations  *prometheus.CounterVec
	requests      *prometheus.CounterVec
}

// NewMetrics registers every collector on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shunting_availability_queries_total",
			Help: "Availability queries by outcome.",
		}, []string{"result"}),
		queryDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "shunting_availability_query_seconds",
			Help:    "Time spent computing busy and free spans for one track.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		reservations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shunting_reservations_total",
			Help: "Reservation attempts by outcome.",
		}, []string{"result"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shunting_http_requests_total",
			Help: "HTTP requests by route and status code.",
		}, []string{"method", "route", "code"}),
	}
	m.registry.MustRegister(
		m.queries, m.queryDuration, m.reservations, m.requests,
		collectors.NewGoCollector(),
	)
	return m
}

// ObserveQuery records one availability computation.
func (m *Metrics) ObserveQuery(err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "rejected"
	}
	m.queries.WithLabelValues(result).Inc()
	m.queryDuration.Observe(elapsed.Seconds())
}

// ObserveReservation records one reservation attempt.
func (m *Metrics) ObserveReservation(result string) {
	if m == nil {
		return
	}
	m.reservations.WithLabelValues(result).Inc()
}

// Handler serves the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware counts requests by chi route pattern and status code.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		if m == nil {
			return
		}
		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.requests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
	})
}
