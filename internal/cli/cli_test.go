package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/27Shambhavi/shunting/internal/availability"
	"github.com/27Shambhavi/shunting/internal/model"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetArgs(args)
	if err := RootCmd.Execute(); err != nil {
		t.Fatalf("%v: %v", args, err)
	}
	return out.String()
}

// Commands share cobra flag state, so the flow runs in one test.
func TestCommandFlow(t *testing.T) {
	t.Setenv("SHUNTING_CONFIG", "")
	data := filepath.Join(t.TempDir(), "schedule.csv")
	base := []string{"--data", data, "--log-level", "error"}
	with := func(args ...string) []string { return append(append([]string{}, args...), base...) }

	out := run(t, with("import", "--sample")...)
	if !strings.Contains(out, `"imported":5`) {
		t.Fatalf("expected 5 imported, got %s", out)
	}

	var tracks []string
	if err := json.Unmarshal([]byte(run(t, with("tracks")...)), &tracks); err != nil {
		t.Fatalf("tracks: %v", err)
	}
	if len(tracks) != 4 || tracks[0] != "Inspection_Line_1" {
		t.Errorf("expected 4 sorted tracks, got %v", tracks)
	}

	var rep availability.Report
	out = run(t, with("slots", "Shunting_Neck", "--start", "2025-12-01 05:00", "--end", "2025-12-01 09:00", "--min", "30")...)
	if err := json.Unmarshal([]byte(out), &rep); err != nil {
		t.Fatalf("slots: %v", err)
	}
	if len(rep.Busy) != 2 || len(rep.Free) != 3 {
		t.Errorf("expected 2 busy and 3 free, got %d and %d", len(rep.Busy), len(rep.Free))
	}
	if rep.Slot == nil || rep.Slot.Start.Format("15:04") != "05:25" {
		t.Errorf("expected slot at 05:25, got %+v", rep.Slot)
	}

	var rec model.OccupancyRecord
	out = run(t, with("reserve", "--track", "Shunting_Neck", "--start", "2025-12-01 05:00", "--end", "2025-12-01 09:00", "--min", "10")...)
	if err := json.Unmarshal([]byte(out), &rec); err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if !strings.HasPrefix(rec.ID, "RESV_") || rec.Arrival.Format("15:04") != "05:00" {
		t.Errorf("expected RESV_ record at 05:00, got %+v", rec)
	}

	out = run(t, with("export")...)
	if lines := strings.Count(out, "\n"); lines != 7 {
		t.Errorf("expected header and 6 rows, got %d lines:\n%s", lines, out)
	}
	if !strings.Contains(out, "2025-12-01T05:00:00Z") {
		t.Errorf("expected reservation in export, got:\n%s", out)
	}
}
