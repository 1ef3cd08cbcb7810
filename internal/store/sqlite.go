package store

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/27Shambhavi/shunting/internal/model"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB

	mu      sync.Mutex // guards entropy
	entropy *rand.Rand
}

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{
		db:      db,
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) newID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS occupancy (
		id          TEXT PRIMARY KEY,
		train_id    TEXT NOT NULL,
		track       TEXT NOT NULL,
		arrival     TEXT NOT NULL,
		departure   TEXT NOT NULL,
		created_at  TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_occupancy_track ON occupancy(track, arrival);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) AllTracks(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT track FROM occupancy ORDER BY track`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tracks := []string{}
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		tracks = append(tracks, t)
	}
	return tracks, rows.Err()
}

func (s *SQLiteStore) RecordsFor(ctx context.Context, track string) ([]model.OccupancyRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT train_id, track, arrival, departure FROM occupancy WHERE track = ? ORDER BY rowid`, track)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows)
}

func (s *SQLiteStore) All(ctx context.Context) ([]model.OccupancyRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT train_id, track, arrival, departure FROM occupancy ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows)
}

func (s *SQLiteStore) Append(ctx context.Context, rec model.OccupancyRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	id := s.newID()
	now := time.Now().UTC().Format(time.RFC3339)

	err := retryOp(defaultRetryConfig, func() error {
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO occupancy (id, train_id, track, arrival, departure, created_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			id, rec.ID, rec.Track,
			rec.Arrival.UTC().Format(time.RFC3339Nano),
			rec.Departure.UTC().Format(time.RFC3339Nano), now)
		return err
	})
	if err != nil {
		return fmt.Errorf("insert record: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func scanRecords(rows *sql.Rows) ([]model.OccupancyRecord, error) {
	records := []model.OccupancyRecord{}
	for rows.Next() {
		var r model.OccupancyRecord
		var arrival, departure string
		if err := rows.Scan(&r.ID, &r.Track, &arrival, &departure); err != nil {
			return nil, err
		}
		var err error
		if r.Arrival, err = time.Parse(time.RFC3339Nano, arrival); err != nil {
			return nil, fmt.Errorf("parse arrival of %s: %w", r.ID, err)
		}
		if r.Departure, err = time.Parse(time.RFC3339Nano, departure); err != nil {
			return nil, fmt.Errorf("parse departure of %s: %w", r.ID, err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

var _ Store = (*SQLiteStore)(nil)
