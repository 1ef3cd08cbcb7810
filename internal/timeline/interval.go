// Package timeline computes busy and free spans on a track and finds the
// earliest free slot of a given length.
//
// Every function here is pure: it works on the slices it is handed and never
// touches a store. Callers that share records between goroutines must hand
// in a stable snapshot.
package timeline

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

var (
	// ErrInvalidInterval reports a span whose start is after its end.
	ErrInvalidInterval = errors.New("invalid interval")
	// ErrInvalidWindow reports a query window that does not start before it ends.
	ErrInvalidWindow = errors.New("invalid window")
	// ErrInvalidDuration reports a non-positive slot length.
	ErrInvalidDuration = errors.New("invalid duration")
)

// Interval is a span of time. Start <= End; merge and free results always
// have Start < End.
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Duration returns End - Start.
func (iv Interval) Duration() time.Duration {
	return iv.End.Sub(iv.Start)
}

// Empty reports whether the interval covers no time.
func (iv Interval) Empty() bool {
	return !iv.Start.Before(iv.End)
}

func (iv Interval) validate() error {
	if iv.Start.After(iv.End) {
		return fmt.Errorf("%w: start %s after end %s", ErrInvalidInterval,
			iv.Start.Format(time.RFC3339), iv.End.Format(time.RFC3339))
	}
	return nil
}

// Window bounds a query. Start must be strictly before End.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Validate returns ErrInvalidWindow unless Start < End.
func (w Window) Validate() error {
	if !w.Start.Before(w.End) {
		return fmt.Errorf("%w: start %s is not before end %s", ErrInvalidWindow,
			w.Start.Format(time.RFC3339), w.End.Format(time.RFC3339))
	}
	return nil
}

// Interval returns the window as a span.
func (w Window) Interval() Interval {
	return Interval{Start: w.Start, End: w.End}
}

// Merge returns the minimal sorted set of disjoint spans covering the same
// time as intervals. Spans that touch (one ends where the next starts) are
// coalesced. Zero-length spans are dropped. The input slice is not modified.
func Merge(intervals []Interval) ([]Interval, error) {
	sorted := make([]Interval, 0, len(intervals))
	for _, iv := range intervals {
		if err := iv.validate(); err != nil {
			return nil, err
		}
		if iv.Empty() {
			continue
		}
		sorted = append(sorted, iv)
	}
	if len(sorted) == 0 {
		return []Interval{}, nil
	}

	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})

	merged := []Interval{sorted[0]}
	for _, iv := range sorted[1:] {
		last := &merged[len(merged)-1]
		if !iv.Start.After(last.End) {
			if iv.End.After(last.End) {
				last.End = iv.End
			}
			continue
		}
		merged = append(merged, iv)
	}
	return merged, nil
}
