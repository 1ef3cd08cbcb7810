package timeline

import (
	"fmt"
	"time"
)

// FirstFit returns the earliest sub-span of length d inside free. free must
// be sorted and disjoint. The bool is false when no span is long enough;
// that is a normal outcome, not an error.
func FirstFit(free []Interval, d time.Duration) (Interval, bool, error) {
	if d <= 0 {
		return Interval{}, false, fmt.Errorf("%w: %s must be positive", ErrInvalidDuration, d)
	}
	for _, iv := range free {
		if iv.Duration() >= d {
			return Interval{Start: iv.Start, End: iv.Start.Add(d)}, true, nil
		}
	}
	return Interval{}, false, nil
}
