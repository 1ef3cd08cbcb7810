package timeline

import (
	"fmt"

	"github.com/27Shambhavi/shunting/internal/model"
)

// Busy clips every record on track to w and merges the survivors. Records
// on other tracks, outside the window, or empty after clipping contribute
// nothing. A record whose arrival is after its departure is rejected with
// ErrInvalidInterval.
func Busy(records []model.OccupancyRecord, track string, w Window) ([]Interval, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}

	var clipped []Interval
	for _, r := range records {
		if r.Track != track {
			continue
		}
		if r.Arrival.After(r.Departure) {
			return nil, fmt.Errorf("%w: record %s arrives after it departs", ErrInvalidInterval, r.ID)
		}
		start, end := r.Arrival, r.Departure
		if start.Before(w.Start) {
			start = w.Start
		}
		if end.After(w.End) {
			end = w.End
		}
		if !start.Before(end) {
			continue
		}
		clipped = append(clipped, Interval{Start: start, End: end})
	}
	return Merge(clipped)
}

// Free returns the complement of busy within w. busy must be sorted and
// disjoint, as returned by Merge or Busy; spans reaching past the window
// are cut at its edges.
func Free(busy []Interval, w Window) ([]Interval, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}

	free := []Interval{}
	cursor := w.Start
	for _, b := range busy {
		if !b.Start.Before(w.End) {
			break
		}
		if cursor.Before(b.Start) {
			free = append(free, Interval{Start: cursor, End: b.Start})
		}
		if b.End.After(cursor) {
			cursor = b.End
		}
	}
	if cursor.Before(w.End) {
		free = append(free, Interval{Start: cursor, End: w.End})
	}
	return free, nil
}
