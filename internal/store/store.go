// Package store holds the working set of occupancy records.
package store

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/27Shambhavi/shunting/internal/model"
)

// Store defines the occupancy record store. Implementations are safe for
// concurrent use; they do not serialize read-compute-append sequences
// across calls (see package booking for that).
type Store interface {
	// AllTracks returns the distinct track names, sorted ascending.
	AllTracks(ctx context.Context) ([]string, error)

	// RecordsFor returns the records on one track. An unknown track yields
	// an empty slice, not an error.
	RecordsFor(ctx context.Context, track string) ([]model.OccupancyRecord, error)

	// All returns every record in insertion order.
	All(ctx context.Context) ([]model.OccupancyRecord, error)

	// Append adds one record. Records failing Validate are rejected.
	Append(ctx context.Context, rec model.OccupancyRecord) error

	// Close releases the store.
	Close() error
}

// BatchAppender is implemented by stores that can append many records in
// one write. Either every record is stored or none is.
type BatchAppender interface {
	AppendBatch(ctx context.Context, records []model.OccupancyRecord) error
}

// Open picks a backend from the file extension of path: ".db", ".sqlite"
// and ".sqlite3" open a SQLiteStore, anything else a CSV FileStore.
// loc is used to interpret CSV timestamps that carry no zone.
func Open(path string, loc *time.Location) (Store, error) {
	if path == "" {
		return nil, fmt.Errorf("open store: empty data path")
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return NewSQLiteStore(path)
	default:
		return OpenFile(path, loc)
	}
}
