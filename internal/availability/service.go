// Package availability answers busy/free/slot queries against a record
// store. The CLI and the HTTP API both go through Service, so the two
// surfaces cannot disagree about what is free.
package availability

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/rs/zerolog"

	"github.com/27Shambhavi/shunting/internal/model"
	"github.com/27Shambhavi/shunting/internal/store"
	"github.com/27Shambhavi/shunting/internal/telemetry"
	"github.com/27Shambhavi/shunting/internal/timeline"
)

// ErrUnknownTrack is returned in strict mode for a track with no records.
var ErrUnknownTrack = errors.New("unknown track")

// Report is the availability of one track within a window.
type Report struct {
	Track   string              `json:"track"`
	Window  timeline.Window     `json:"window"`
	Busy    []timeline.Interval `json:"busy"`
	Free    []timeline.Interval `json:"free"`
	MinSlot string              `json:"min_slot,omitempty"`
	Slot    *timeline.Interval  `json:"slot,omitempty"`
}

// Compute builds a Report from records. minSlot of zero skips slot
// finding; a negative minSlot is rejected.
func Compute(records []model.OccupancyRecord, track string, w timeline.Window, minSlot time.Duration) (*Report, error) {
	busy, err := timeline.Busy(records, track, w)
	if err != nil {
		return nil, err
	}
	free, err := timeline.Free(busy, w)
	if err != nil {
		return nil, err
	}
	rep := &Report{Track: track, Window: w, Busy: busy, Free: free}
	if minSlot == 0 {
		return rep, nil
	}
	slot, ok, err := timeline.FirstFit(free, minSlot)
	if err != nil {
		return nil, err
	}
	rep.MinSlot = minSlot.String()
	if ok {
		rep.Slot = &slot
	}
	return rep, nil
}

// Options configures a Service.
type Options struct {
	// Strict rejects tracks that have no records instead of reporting
	// them as free for the whole window.
	Strict  bool
	Logger  zerolog.Logger
	Metrics *telemetry.Metrics
}

// Service runs availability queries against a store.
type Service struct {
	store   store.Store
	strict  bool
	logger  zerolog.Logger
	metrics *telemetry.Metrics
}

// NewService creates a Service over s.
func NewService(s store.Store, opts Options) *Service {
	return &Service{
		store:   s,
		strict:  opts.Strict,
		logger:  opts.Logger.With().Str("component", "availability").Logger(),
		metrics: opts.Metrics,
	}
}

// Tracks returns the known track names, sorted.
func (s *Service) Tracks(ctx context.Context) ([]string, error) {
	return s.store.AllTracks(ctx)
}

// Track reports availability of one track.
func (s *Service) Track(ctx context.Context, track string, w timeline.Window, minSlot time.Duration) (*Report, error) {
	started := time.Now()
	rep, err := s.track(ctx, track, w, minSlot)
	s.metrics.ObserveQuery(err, time.Since(started))
	if err != nil {
		s.logger.Debug().Err(err).Str("track", track).Msg("query rejected")
		return nil, err
	}
	s.logger.Debug().
		Str("track", track).
		Int("busy", len(rep.Busy)).
		Int("free", len(rep.Free)).
		Bool("slot", rep.Slot != nil).
		Msg("availability computed")
	return rep, nil
}

func (s *Service) track(ctx context.Context, track string, w timeline.Window, minSlot time.Duration) (*Report, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	if s.strict {
		tracks, err := s.store.AllTracks(ctx)
		if err != nil {
			return nil, fmt.Errorf("list tracks: %w", err)
		}
		if !slices.Contains(tracks, track) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownTrack, track)
		}
	}
	records, err := s.store.RecordsFor(ctx, track)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	return Compute(records, track, w, minSlot)
}

// All reports every known track over the same window, in track order.
func (s *Service) All(ctx context.Context, w timeline.Window, minSlot time.Duration) ([]Report, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	tracks, err := s.store.AllTracks(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tracks: %w", err)
	}
	reports := make([]Report, 0, len(tracks))
	for _, t := range tracks {
		rep, err := s.Track(ctx, t, w, minSlot)
		if err != nil {
			return nil, err
		}
		reports = append(reports, *rep)
	}
	return reports, nil
}
