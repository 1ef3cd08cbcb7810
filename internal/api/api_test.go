package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/27Shambhavi/shunting/internal/availability"
	"github.com/27Shambhavi/shunting/internal/booking"
	"github.com/27Shambhavi/shunting/internal/model"
	"github.com/27Shambhavi/shunting/internal/schedule"
	"github.com/27Shambhavi/shunting/internal/store"
	"github.com/27Shambhavi/shunting/internal/telemetry"
)

func newTestServer(t *testing.T, strict bool) *httptest.Server {
	t.Helper()
	s, err := store.NewMemoryStore(schedule.Sample(time.UTC)...)
	if err != nil {
		t.Fatalf("memory store: %v", err)
	}
	m := telemetry.NewMetrics()
	avail := availability.NewService(s, availability.Options{Strict: strict, Logger: zerolog.Nop(), Metrics: m})
	res := booking.NewReserver(s, zerolog.Nop(), m)
	a := New(avail, res, Options{Location: time.UTC, MinSlot: 10 * time.Minute, Metrics: m, Logger: zerolog.Nop()})

	srv := httptest.NewServer(a.Routes())
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, srv *httptest.Server, path string, out any) int {
	t.Helper()
	resp, err := http.Get(srv.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", path, err)
		}
	}
	return resp.StatusCode
}

func window(start, end string) string {
	v := url.Values{}
	v.Set("start", start)
	v.Set("end", end)
	return v.Encode()
}

func TestTracks(t *testing.T) {
	srv := newTestServer(t, false)
	var body map[string][]string
	if code := get(t, srv, "/tracks", &body); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	want := []string{"Inspection_Line_1", "Shunting_Neck", "Stabling_Line_1", "Stabling_Line_2"}
	if strings.Join(body["tracks"], ",") != strings.Join(want, ",") {
		t.Errorf("expected %v, got %v", want, body["tracks"])
	}
}

func TestTrackAvailability(t *testing.T) {
	srv := newTestServer(t, false)
	var rep availability.Report
	code := get(t, srv, "/tracks/Shunting_Neck/availability?"+window("2025-12-01 05:00", "2025-12-01 09:00")+"&min=30", &rep)
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if len(rep.Busy) != 2 || len(rep.Free) != 3 {
		t.Fatalf("expected 2 busy and 3 free spans, got %+v", rep)
	}
	wantSlot := time.Date(2025, 12, 1, 5, 25, 0, 0, time.UTC)
	if rep.Slot == nil || !rep.Slot.Start.Equal(wantSlot) {
		t.Errorf("expected slot at %s, got %v", wantSlot, rep.Slot)
	}
}

func TestAllAvailability(t *testing.T) {
	srv := newTestServer(t, false)
	var reports []availability.Report
	if code := get(t, srv, "/availability?"+window("2025-12-01 05:00", "2025-12-01 09:00"), &reports); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if len(reports) != 4 {
		t.Errorf("expected 4 track reports, got %d", len(reports))
	}
}

func TestAvailabilityErrors(t *testing.T) {
	srv := newTestServer(t, true)
	tests := []struct {
		name string
		path string
		want int
	}{
		{"missing start", "/tracks/Shunting_Neck/availability?end=2025-12-01", http.StatusBadRequest},
		{"empty window", "/tracks/Shunting_Neck/availability?" + window("2025-12-01 05:00", "2025-12-01 05:00"), http.StatusBadRequest},
		{"bad min", "/tracks/Shunting_Neck/availability?" + window("2025-12-01 05:00", "2025-12-01 09:00") + "&min=-5", http.StatusBadRequest},
		{"unknown track", "/tracks/Typo/availability?" + window("2025-12-01 05:00", "2025-12-01 09:00"), http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body map[string]string
			if code := get(t, srv, tt.path, &body); code != tt.want {
				t.Errorf("expected %d, got %d (%v)", tt.want, code, body)
			}
			if body["error"] == "" {
				t.Error("expected error message")
			}
		})
	}
}

func post(t *testing.T, srv *httptest.Server, path, body string, out any) int {
	t.Helper()
	resp, err := http.Post(srv.URL+path, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	defer resp.Body.Close()
	if out != nil {
		json.NewDecoder(resp.Body).Decode(out)
	}
	return resp.StatusCode
}

func TestReserve(t *testing.T) {
	srv := newTestServer(t, false)

	var rec model.OccupancyRecord
	code := post(t, srv, "/tracks/Shunting_Neck/reservations",
		`{"start":"2025-12-01 05:00","end":"2025-12-01 09:00","duration":"10m"}`, &rec)
	if code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", code)
	}
	if !rec.Arrival.Equal(time.Date(2025, 12, 1, 5, 0, 0, 0, time.UTC)) || !strings.HasPrefix(rec.ID, booking.IDPrefix) {
		t.Errorf("unexpected reservation %+v", rec)
	}

	code = post(t, srv, "/tracks/Shunting_Neck/reservations",
		`{"id":"X1","at":"2025-12-01 05:15","duration":"5m"}`, nil)
	if code != http.StatusConflict {
		t.Errorf("expected 409 for taken slot, got %d", code)
	}

	code = post(t, srv, "/tracks/Shunting_Neck/reservations",
		`{"start":"2025-12-01 05:10","end":"2025-12-01 05:25","duration":"5m"}`, nil)
	if code != http.StatusConflict {
		t.Errorf("expected 409 when no slot fits, got %d", code)
	}

	var body map[string]string
	code = post(t, srv, "/tracks/Shunting_Neck/reservations",
		`{"at":"2025-12-01 08:00","duration":"0"}`, &body)
	if code != http.StatusBadRequest || !strings.Contains(body["error"], "invalid duration") {
		t.Errorf("expected 400 invalid duration for zero length, got %d %v", code, body)
	}

	code = post(t, srv, "/tracks/Shunting_Neck/reservations", `{`, nil)
	if code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad body, got %d", code)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	srv := newTestServer(t, false)
	if code := get(t, srv, "/healthz", nil); code != http.StatusOK {
		t.Errorf("healthz: expected 200, got %d", code)
	}
	get(t, srv, "/tracks", nil)

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	defer resp.Body.Close()
	buf := new(strings.Builder)
	if _, err := io.Copy(buf, resp.Body); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "shunting_http_requests_total") {
		t.Error("expected request counter in metrics output")
	}
}
