package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/27Shambhavi/shunting/internal/model"
	"github.com/27Shambhavi/shunting/internal/schedule"
)

// FileStore is a MemoryStore loaded from a schedule CSV. Appends rewrite the
// file through a temp file and rename, so readers never see a partial write.
type FileStore struct {
	*MemoryStore
	path    string
	loc     *time.Location
	writeMu sync.Mutex

	// Skipped lists the rows dropped while loading.
	Skipped []schedule.SkippedRow
}

// OpenFile loads path into memory. A missing file is an empty schedule; the
// file is created on the first append.
func OpenFile(path string, loc *time.Location) (*FileStore, error) {
	res, err := schedule.ReadFile(path, loc)
	if err != nil {
		return nil, fmt.Errorf("load schedule: %w", err)
	}
	mem, err := NewMemoryStore(res.Records...)
	if err != nil {
		return nil, fmt.Errorf("load schedule: %w", err)
	}
	if loc == nil {
		loc = time.UTC
	}
	return &FileStore{MemoryStore: mem, path: path, loc: loc, Skipped: res.Skipped}, nil
}

// Path returns the backing file.
func (s *FileStore) Path() string { return s.path }

// Append writes the schedule with rec added back to disk, then adds rec in
// memory. A failed write leaves both unchanged.
func (s *FileStore) Append(ctx context.Context, rec model.OccupancyRecord) error {
	return s.AppendBatch(ctx, []model.OccupancyRecord{rec})
}

// AppendBatch is Append for many records with a single rewrite of the file.
func (s *FileStore) AppendBatch(ctx context.Context, records []model.OccupancyRecord) error {
	for _, r := range records {
		if err := r.Validate(); err != nil {
			return err
		}
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	all, err := s.MemoryStore.All(ctx)
	if err != nil {
		return err
	}
	if err := s.flush(append(all, records...)); err != nil {
		return err
	}
	return s.MemoryStore.AppendBatch(ctx, records)
}

func (s *FileStore) flush(records []model.OccupancyRecord) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".schedule-*.csv")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	// Offsets are written out, so this only keeps the file readable in loc.
	local := make([]model.OccupancyRecord, len(records))
	for i, r := range records {
		r.Arrival, r.Departure = r.Arrival.In(s.loc), r.Departure.In(s.loc)
		local[i] = r
	}
	if err := schedule.Write(tmp, local); err != nil {
		tmp.Close()
		return fmt.Errorf("write schedule: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace schedule: %w", err)
	}
	return nil
}

var (
	_ Store         = (*FileStore)(nil)
	_ BatchAppender = (*FileStore)(nil)
)
