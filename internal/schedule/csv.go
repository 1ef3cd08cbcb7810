// Package schedule reads and writes occupancy schedules as CSV.
//
// The expected header is TrainID,Track,Arrival,Departure. Column names are
// matched case-insensitively and ignore underscores and spaces, so
// "train_id" and "Train ID" both work. Timestamps accept any layout
// dateparse recognises; those without a zone are read in the caller's
// location.
package schedule

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/27Shambhavi/shunting/internal/model"
)

// Columns is the header Write emits.
var Columns = []string{"TrainID", "Track", "Arrival", "Departure"}

// TimeLayout is the layout used to show timestamps to people.
const TimeLayout = "2006-01-02 15:04:05"

// SkippedRow is a data row Read dropped.
type SkippedRow struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// ReadResult holds the valid records and the rows that were dropped.
type ReadResult struct {
	Records []model.OccupancyRecord
	Skipped []SkippedRow
}

func normalize(col string) string {
	col = strings.ToLower(strings.TrimSpace(col))
	col = strings.ReplaceAll(col, "_", "")
	return strings.ReplaceAll(col, " ", "")
}

// Read parses a schedule. Rows with unparseable timestamps or that fail
// OccupancyRecord.Validate are skipped and reported, not fatal. A missing
// Track, Arrival or Departure column is an error.
func Read(r io.Reader, loc *time.Location) (*ReadResult, error) {
	if loc == nil {
		loc = time.UTC
	}
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	res := &ReadResult{Records: []model.OccupancyRecord{}}

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return res, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	idx := map[string]int{}
	for i, h := range header {
		idx[normalize(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	for _, col := range []string{"track", "arrival", "departure"} {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("read header: missing %q column", col)
		}
	}

	field := func(row []string, col string) string {
		i, ok := idx[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		line, _ := cr.FieldPos(0)

		arrival, err := ParseTime(field(row, "arrival"), loc)
		if err != nil {
			res.Skipped = append(res.Skipped, SkippedRow{Line: line, Reason: "arrival: " + err.Error()})
			continue
		}
		departure, err := ParseTime(field(row, "departure"), loc)
		if err != nil {
			res.Skipped = append(res.Skipped, SkippedRow{Line: line, Reason: "departure: " + err.Error()})
			continue
		}

		rec := model.OccupancyRecord{
			ID:        field(row, "trainid"),
			Track:     field(row, "track"),
			Arrival:   arrival,
			Departure: departure,
		}
		if err := rec.Validate(); err != nil {
			res.Skipped = append(res.Skipped, SkippedRow{Line: line, Reason: err.Error()})
			continue
		}
		res.Records = append(res.Records, rec)
	}
	return res, nil
}

// ReadFile reads the schedule at path. A missing file is an empty schedule.
func ReadFile(path string, loc *time.Location) (*ReadResult, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return &ReadResult{Records: []model.OccupancyRecord{}}, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f, loc)
}

// Write emits records as CSV with the Columns header. Timestamps are
// RFC 3339 with their offset and full precision, so reading the file back
// in any location yields the same instants.
func Write(w io.Writer, records []model.OccupancyRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return err
	}
	for _, r := range records {
		if err := cw.Write([]string{
			r.ID,
			r.Track,
			r.Arrival.Format(time.RFC3339Nano),
			r.Departure.Format(time.RFC3339Nano),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
