package store

import (
	"context"
	"sort"
	"sync"

	"github.com/27Shambhavi/shunting/internal/model"
)

// MemoryStore keeps records in memory. Reads return copies, so callers may
// hold on to them while other goroutines append.
type MemoryStore struct {
	mu      sync.RWMutex
	records []model.OccupancyRecord
	byTrack map[string][]int
}

// NewMemoryStore returns a store seeded with records. Invalid records are
// rejected.
func NewMemoryStore(records ...model.OccupancyRecord) (*MemoryStore, error) {
	s := &MemoryStore{byTrack: make(map[string][]int)}
	for _, r := range records {
		if err := r.Validate(); err != nil {
			return nil, err
		}
		s.add(r)
	}
	return s, nil
}

func (s *MemoryStore) add(r model.OccupancyRecord) {
	s.byTrack[r.Track] = append(s.byTrack[r.Track], len(s.records))
	s.records = append(s.records, r)
}

// AllTracks returns the distinct track names, sorted.
func (s *MemoryStore) AllTracks(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tracks := make([]string, 0, len(s.byTrack))
	for t := range s.byTrack {
		tracks = append(tracks, t)
	}
	sort.Strings(tracks)
	return tracks, nil
}

// RecordsFor returns a copy of the records on track, in insertion order.
func (s *MemoryStore) RecordsFor(ctx context.Context, track string) ([]model.OccupancyRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.byTrack[track]
	out := make([]model.OccupancyRecord, len(idx))
	for i, j := range idx {
		out[i] = s.records[j]
	}
	return out, nil
}

// All returns a copy of every record, in insertion order.
func (s *MemoryStore) All(ctx context.Context) ([]model.OccupancyRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.OccupancyRecord, len(s.records))
	copy(out, s.records)
	return out, nil
}

// Append validates rec and adds it.
func (s *MemoryStore) Append(ctx context.Context, rec model.OccupancyRecord) error {
	return s.AppendBatch(ctx, []model.OccupancyRecord{rec})
}

// AppendBatch adds records under one lock. Nothing is added if any record
// is invalid.
func (s *MemoryStore) AppendBatch(ctx context.Context, records []model.OccupancyRecord) error {
	for _, r := range records {
		if err := r.Validate(); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range records {
		s.add(r)
	}
	return nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }

var (
	_ Store         = (*MemoryStore)(nil)
	_ BatchAppender = (*MemoryStore)(nil)
)
