package telemetry

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveQuery(nil, time.Millisecond)
	m.ObserveReservation(ReservationReserved)
}

func TestObserve(t *testing.T) {
	m := NewMetrics()
	m.ObserveQuery(nil, time.Millisecond)
	m.ObserveQuery(errors.New("bad window"), time.Millisecond)
	m.ObserveQuery(nil, time.Millisecond)
	m.ObserveReservation(ReservationNoSlot)

	if got := testutil.ToFloat64(m.queries.WithLabelValues("ok")); got != 2 {
		t.Errorf("expected 2 ok queries, got %v", got)
	}
	if got := testutil.ToFloat64(m.queries.WithLabelValues("rejected")); got != 1 {
		t.Errorf("expected 1 rejected query, got %v", got)
	}
	if got := testutil.ToFloat64(m.reservations.WithLabelValues(ReservationNoSlot)); got != 1 {
		t.Errorf("expected 1 no_slot reservation, got %v", got)
	}
}

func TestMiddlewareAndHandler(t *testing.T) {
	m := NewMetrics()
	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/tracks/{track}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	r.Handle("/metrics", m.Handler())

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/tracks/A", nil))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	want := `shunting_http_requests_total{code="418",method="GET",route="/tracks/{track}"} 1`
	if !strings.Contains(string(body), want) {
		t.Errorf("metrics output missing %q:\n%s", want, body)
	}
}
