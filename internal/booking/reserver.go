// Package booking turns free slots into occupancy records.
//
// A Reserver holds a per-track mutex across the read-compute-append
// sequence, and an explicit slot is re-checked against the store right
// before it is appended. The mutexes live in the process: two processes
// writing the same store can still race.
package booking

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/27Shambhavi/shunting/internal/availability"
	"github.com/27Shambhavi/shunting/internal/model"
	"github.com/27Shambhavi/shunting/internal/store"
	"github.com/27Shambhavi/shunting/internal/telemetry"
	"github.com/27Shambhavi/shunting/internal/timeline"
)

// IDPrefix starts every generated reservation id.
const IDPrefix = "RESV_"

var (
	// ErrNoSlot means no free span in the window was long enough.
	ErrNoSlot = errors.New("no free slot")
	// ErrSlotTaken means the requested span overlaps an existing record.
	ErrSlotTaken = errors.New("slot already taken")
)

// Request asks for the first free slot of Duration on Track within Window.
type Request struct {
	Track    string
	ID       string // generated when empty
	Window   timeline.Window
	Duration time.Duration
}

// Reserver appends reservations to a store.
type Reserver struct {
	store   store.Store
	logger  zerolog.Logger
	metrics *telemetry.Metrics

	mu      sync.Mutex // guards locks and entropy
	locks   map[string]*sync.Mutex
	entropy io.Reader
}

// NewReserver creates a Reserver writing to s. metrics may be nil.
func NewReserver(s store.Store, logger zerolog.Logger, metrics *telemetry.Metrics) *Reserver {
	return &Reserver{
		store:   s,
		logger:  logger.With().Str("component", "booking").Logger(),
		metrics: metrics,
		locks:   make(map[string]*sync.Mutex),
		entropy: ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
	}
}

func (r *Reserver) lock(track string) func() {
	r.mu.Lock()
	l, ok := r.locks[track]
	if !ok {
		l = &sync.Mutex{}
		r.locks[track] = l
	}
	r.mu.Unlock()

	l.Lock()
	return l.Unlock
}

func (r *Reserver) newID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return IDPrefix + ulid.MustNew(ulid.Timestamp(time.Now()), r.entropy).String()
}

// Reserve books the earliest free slot matching req.
func (r *Reserver) Reserve(ctx context.Context, req Request) (*model.OccupancyRecord, error) {
	if req.Track == "" {
		r.metrics.ObserveReservation(telemetry.ReservationRejected)
		return nil, fmt.Errorf("%w: empty track", model.ErrInvalidRecord)
	}
	if req.Duration <= 0 {
		r.metrics.ObserveReservation(telemetry.ReservationRejected)
		return nil, fmt.Errorf("%w: %s must be positive", timeline.ErrInvalidDuration, req.Duration)
	}
	unlock := r.lock(req.Track)
	defer unlock()

	records, err := r.store.RecordsFor(ctx, req.Track)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	rep, err := availability.Compute(records, req.Track, req.Window, req.Duration)
	if err != nil {
		r.metrics.ObserveReservation(telemetry.ReservationRejected)
		return nil, err
	}
	if rep.Slot == nil {
		r.metrics.ObserveReservation(telemetry.ReservationNoSlot)
		return nil, fmt.Errorf("%w: %s of %s on %s", ErrNoSlot, req.Duration, formatWindow(req.Window), req.Track)
	}
	return r.append(ctx, req.Track, req.ID, *rep.Slot)
}

// ReserveAt books [start, start+d) on track if nothing on the track
// overlaps it. Touching an existing record is allowed.
func (r *Reserver) ReserveAt(ctx context.Context, track, id string, start time.Time, d time.Duration) (*model.OccupancyRecord, error) {
	if track == "" {
		r.metrics.ObserveReservation(telemetry.ReservationRejected)
		return nil, fmt.Errorf("%w: empty track", model.ErrInvalidRecord)
	}
	if d <= 0 {
		r.metrics.ObserveReservation(telemetry.ReservationRejected)
		return nil, fmt.Errorf("%w: %s must be positive", timeline.ErrInvalidDuration, d)
	}
	slot := timeline.Interval{Start: start, End: start.Add(d)}
	unlock := r.lock(track)
	defer unlock()

	records, err := r.store.RecordsFor(ctx, track)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	busy, err := timeline.Busy(records, track, timeline.Window{Start: slot.Start, End: slot.End})
	if err != nil {
		r.metrics.ObserveReservation(telemetry.ReservationRejected)
		return nil, err
	}
	if len(busy) > 0 {
		r.metrics.ObserveReservation(telemetry.ReservationConflict)
		return nil, fmt.Errorf("%w: %s busy from %s to %s", ErrSlotTaken, track,
			busy[0].Start.Format(time.RFC3339), busy[0].End.Format(time.RFC3339))
	}
	return r.append(ctx, track, id, slot)
}

func (r *Reserver) append(ctx context.Context, track, id string, slot timeline.Interval) (*model.OccupancyRecord, error) {
	if id == "" {
		id = r.newID()
	}
	rec := model.OccupancyRecord{ID: id, Track: track, Arrival: slot.Start, Departure: slot.End}
	if err := r.store.Append(ctx, rec); err != nil {
		r.metrics.ObserveReservation(telemetry.ReservationRejected)
		return nil, fmt.Errorf("append reservation: %w", err)
	}
	r.metrics.ObserveReservation(telemetry.ReservationReserved)
	r.logger.Info().
		Str("id", rec.ID).
		Str("track", track).
		Time("arrival", rec.Arrival).
		Time("departure", rec.Departure).
		Msg("slot reserved")
	return &rec, nil
}

func formatWindow(w timeline.Window) string {
	return w.Start.Format(time.RFC3339) + "/" + w.End.Format(time.RFC3339)
}
