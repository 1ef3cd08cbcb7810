package availability

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/27Shambhavi/shunting/internal/model"
	"github.com/27Shambhavi/shunting/internal/store"
	"github.com/27Shambhavi/shunting/internal/telemetry"
	"github.com/27Shambhavi/shunting/internal/timeline"
)

var day = time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)

func hm(h, m int) time.Time {
	return day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
}

func newService(t *testing.T, strict bool) *Service {
	t.Helper()
	s, err := store.NewMemoryStore(
		model.OccupancyRecord{ID: "T1", Track: "A", Arrival: hm(5, 10), Departure: hm(5, 25)},
		model.OccupancyRecord{ID: "T2", Track: "B", Arrival: hm(5, 5), Departure: hm(6, 0)},
		model.OccupancyRecord{ID: "T3", Track: "A", Arrival: hm(5, 30), Departure: hm(7, 0)},
	)
	if err != nil {
		t.Fatalf("memory store: %v", err)
	}
	return NewService(s, Options{Strict: strict, Logger: zerolog.Nop(), Metrics: telemetry.NewMetrics()})
}

func TestTrack(t *testing.T) {
	svc := newService(t, false)
	w := timeline.Window{Start: hm(5, 0), End: hm(9, 0)}

	rep, err := svc.Track(context.Background(), "A", w, 10*time.Minute)
	if err != nil {
		t.Fatalf("track: %v", err)
	}
	wantFree := []timeline.Interval{
		{Start: hm(5, 0), End: hm(5, 10)},
		{Start: hm(5, 25), End: hm(5, 30)},
		{Start: hm(7, 0), End: hm(9, 0)},
	}
	if !reflect.DeepEqual(rep.Free, wantFree) {
		t.Errorf("expected free %v, got %v", wantFree, rep.Free)
	}
	if rep.Slot == nil || *rep.Slot != (timeline.Interval{Start: hm(5, 0), End: hm(5, 10)}) {
		t.Errorf("unexpected slot %v", rep.Slot)
	}
	if rep.MinSlot != "10m0s" {
		t.Errorf("expected min slot 10m0s, got %q", rep.MinSlot)
	}
}

func TestTrackWithoutSlotSearch(t *testing.T) {
	svc := newService(t, false)
	rep, err := svc.Track(context.Background(), "A", timeline.Window{Start: hm(5, 0), End: hm(9, 0)}, 0)
	if err != nil {
		t.Fatalf("track: %v", err)
	}
	if rep.Slot != nil || rep.MinSlot != "" {
		t.Errorf("expected no slot search, got %+v", rep)
	}
}

func TestTrackNoSlotLongEnough(t *testing.T) {
	svc := newService(t, false)
	rep, err := svc.Track(context.Background(), "A", timeline.Window{Start: hm(5, 0), End: hm(9, 0)}, 3*time.Hour)
	if err != nil {
		t.Fatalf("track: %v", err)
	}
	if rep.Slot != nil {
		t.Errorf("expected no slot, got %v", rep.Slot)
	}
}

func TestUnknownTrack(t *testing.T) {
	w := timeline.Window{Start: hm(5, 0), End: hm(9, 0)}

	rep, err := newService(t, false).Track(context.Background(), "Typo", w, 0)
	if err != nil {
		t.Fatalf("permissive: %v", err)
	}
	if len(rep.Busy) != 0 || len(rep.Free) != 1 || rep.Free[0] != w.Interval() {
		t.Errorf("permissive: expected whole window free, got %+v", rep)
	}

	_, err = newService(t, true).Track(context.Background(), "Typo", w, 0)
	if !errors.Is(err, ErrUnknownTrack) {
		t.Errorf("strict: expected ErrUnknownTrack, got %v", err)
	}
}

func TestRejections(t *testing.T) {
	svc := newService(t, false)
	ctx := context.Background()

	_, err := svc.Track(ctx, "A", timeline.Window{Start: hm(9, 0), End: hm(9, 0)}, 0)
	if !errors.Is(err, timeline.ErrInvalidWindow) {
		t.Errorf("expected ErrInvalidWindow, got %v", err)
	}
	_, err = svc.Track(ctx, "A", timeline.Window{Start: hm(5, 0), End: hm(9, 0)}, -time.Minute)
	if !errors.Is(err, timeline.ErrInvalidDuration) {
		t.Errorf("expected ErrInvalidDuration, got %v", err)
	}
	_, err = svc.All(ctx, timeline.Window{Start: hm(9, 0), End: hm(5, 0)}, 0)
	if !errors.Is(err, timeline.ErrInvalidWindow) {
		t.Errorf("all: expected ErrInvalidWindow, got %v", err)
	}
}

func TestAll(t *testing.T) {
	svc := newService(t, false)
	reports, err := svc.All(context.Background(), timeline.Window{Start: hm(5, 0), End: hm(9, 0)}, 0)
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if len(reports) != 2 || reports[0].Track != "A" || reports[1].Track != "B" {
		t.Fatalf("unexpected reports %+v", reports)
	}
	wantB := []timeline.Interval{{Start: hm(5, 0), End: hm(5, 5)}, {Start: hm(6, 0), End: hm(9, 0)}}
	if !reflect.DeepEqual(reports[1].Free, wantB) {
		t.Errorf("track B: expected free %v, got %v", wantB, reports[1].Free)
	}
}
