package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/27Shambhavi/shunting/internal/availability"
	"github.com/27Shambhavi/shunting/internal/config"
	"github.com/27Shambhavi/shunting/internal/schedule"
	"github.com/27Shambhavi/shunting/internal/timeline"
)

func init() {
	cmd := &cobra.Command{
		Use:   "slots [track]",
		Short: "Show busy and free spans",
		Long:  "Show busy and free spans of one track, or of every track when none is given, plus the first free slot of --min length.",
		Args:  cobra.MaximumNArgs(1),
		Run:   runSlots,
	}

	windowFlags(cmd, true)
	cmd.Flags().String("min", "", "Minimum slot length, e.g. 10 or 10m; 0 skips the search (default: config min_slot)")

	RootCmd.AddCommand(cmd)
}

// minSlot reads --min, falling back to the configured default.
func minSlot(cmd *cobra.Command, cfg *config.Config) time.Duration {
	v, _ := cmd.Flags().GetString("min")
	if v == "" {
		return cfg.DefaultMinSlot()
	}
	d, err := schedule.ParseDuration(v)
	if err != nil {
		exitErr("parse --min", err)
	}
	return d
}

func runSlots(cmd *cobra.Command, args []string) {
	cfg := loadConfig(cmd)
	logger := newLogger(cfg)
	w := parseWindow(cmd, cfg)
	d := minSlot(cmd, cfg)

	s := openStore(cfg, logger)
	defer s.Close()

	svc := availability.NewService(s, availability.Options{Strict: cfg.StrictTracks, Logger: logger})

	var reports []availability.Report
	if len(args) == 1 {
		rep, err := svc.Track(cmd.Context(), args[0], w, d)
		if err != nil {
			exitErr("slots", err)
		}
		reports = append(reports, *rep)
	} else {
		var err error
		if reports, err = svc.All(cmd.Context(), w, d); err != nil {
			exitErr("slots", err)
		}
	}

	if formatFlag == "text" {
		for _, rep := range reports {
			writeReport(cmd.OutOrStdout(), rep)
		}
		return
	}
	if len(args) == 1 {
		printJSON(cmd, reports[0])
		return
	}
	printJSON(cmd, reports)
}

func writeReport(out io.Writer, rep availability.Report) {
	fmt.Fprintf(out, "Track: %s\n", rep.Track)
	writeSpans(out, "Busy", rep.Busy)
	writeSpans(out, "Free", rep.Free)
	switch {
	case rep.Slot != nil:
		fmt.Fprintf(out, "First free slot: %s -> %s\n", rep.Slot.Start.Format(schedule.TimeLayout), rep.Slot.End.Format(schedule.TimeLayout))
	case rep.MinSlot != "":
		fmt.Fprintf(out, "No free slot of %s\n", rep.MinSlot)
	}
	fmt.Fprintln(out)
}

func writeSpans(out io.Writer, label string, spans []timeline.Interval) {
	fmt.Fprintf(out, "%s:\n", label)
	if len(spans) == 0 {
		fmt.Fprintln(out, "  none")
		return
	}
	for _, iv := range spans {
		fmt.Fprintf(out, "  %s -> %s\n", iv.Start.Format(schedule.TimeLayout), iv.End.Format(schedule.TimeLayout))
	}
}
