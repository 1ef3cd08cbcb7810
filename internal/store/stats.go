package store

import (
	"context"
	"time"

	"github.com/27Shambhavi/shunting/internal/timeline"
)

// Stats holds store statistics.
type Stats struct {
	TotalRecords int          `json:"total_records"`
	Tracks       []TrackStats `json:"tracks"`
}

// TrackStats holds per-track figures. Occupied counts overlapping records once.
type TrackStats struct {
	Track         string    `json:"track"`
	Records       int       `json:"records"`
	FirstArrival  time.Time `json:"first_arrival"`
	LastDeparture time.Time `json:"last_departure"`
	Occupied      string    `json:"occupied"`
	Overlapping   bool      `json:"overlapping"`
}

// Summarize computes Stats for every track in s. Overlapping is set when
// two records on the same track claim the same time, which a single-use
// track should never allow.
func Summarize(ctx context.Context, s Store) (*Stats, error) {
	tracks, err := s.AllTracks(ctx)
	if err != nil {
		return nil, err
	}

	st := &Stats{Tracks: []TrackStats{}}
	for _, track := range tracks {
		records, err := s.RecordsFor(ctx, track)
		if err != nil {
			return nil, err
		}
		ts := TrackStats{Track: track, Records: len(records)}

		spans := make([]timeline.Interval, 0, len(records))
		var raw time.Duration
		for i, r := range records {
			if i == 0 || r.Arrival.Before(ts.FirstArrival) {
				ts.FirstArrival = r.Arrival
			}
			if i == 0 || r.Departure.After(ts.LastDeparture) {
				ts.LastDeparture = r.Departure
			}
			spans = append(spans, timeline.Interval{Start: r.Arrival, End: r.Departure})
			raw += r.Duration()
		}
		merged, err := timeline.Merge(spans)
		if err != nil {
			return nil, err
		}
		var occupied time.Duration
		for _, m := range merged {
			occupied += m.Duration()
		}
		ts.Occupied = occupied.String()
		ts.Overlapping = occupied < raw

		st.TotalRecords += len(records)
		st.Tracks = append(st.Tracks, ts)
	}
	return st, nil
}
