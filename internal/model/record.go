// Package model defines the occupancy data types shared by every layer.
package model

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidRecord is returned by Validate for records the core must never see.
var ErrInvalidRecord = errors.New("invalid occupancy record")

// OccupancyRecord is a span during which a train claims a track.
type OccupancyRecord struct {
	ID        string    `json:"train_id"`
	Track     string    `json:"track"`
	Arrival   time.Time `json:"arrival"`
	Departure time.Time `json:"departure"`
}

// Validate checks what collaborators must enforce before handing a
// record to the store: non-empty id and track, arrival strictly before departure.
func (r OccupancyRecord) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("%w: empty train id", ErrInvalidRecord)
	}
	if r.Track == "" {
		return fmt.Errorf("%w: %s: empty track", ErrInvalidRecord, r.ID)
	}
	if !r.Arrival.Before(r.Departure) {
		return fmt.Errorf("%w: %s: arrival %s not before departure %s",
			ErrInvalidRecord, r.ID, r.Arrival.Format(time.RFC3339), r.Departure.Format(time.RFC3339))
	}
	return nil
}

// Duration is the time the record holds its track.
func (r OccupancyRecord) Duration() time.Duration {
	return r.Departure.Sub(r.Arrival)
}
