package cli

import (
	"github.com/spf13/cobra"

	"github.com/27Shambhavi/shunting/internal/booking"
	"github.com/27Shambhavi/shunting/internal/schedule"
)

func init() {
	cmd := &cobra.Command{
		Use:   "reserve",
		Short: "Reserve a slot on a track",
		Long: `Reserve the first free slot of --min length inside --start/--end, or the
exact span starting at --at when given. The reservation is stored as an
occupancy record with a RESV_ id unless --id is set.`,
		Run: runReserve,
	}

	windowFlags(cmd, false)
	cmd.Flags().StringP("track", "t", "", "Track to reserve (required)")
	cmd.Flags().String("min", "", "Slot length, e.g. 10 or 10m (default: config min_slot)")
	cmd.Flags().String("at", "", "Reserve exactly [at, at+min) instead of the first fit")
	cmd.Flags().String("id", "", "Record id (default: generated)")
	cmd.MarkFlagRequired("track")

	RootCmd.AddCommand(cmd)
}

func runReserve(cmd *cobra.Command, args []string) {
	track, _ := cmd.Flags().GetString("track")
	id, _ := cmd.Flags().GetString("id")
	at, _ := cmd.Flags().GetString("at")

	cfg := loadConfig(cmd)
	logger := newLogger(cfg)
	d := minSlot(cmd, cfg)

	s := openStore(cfg, logger)
	defer s.Close()

	r := booking.NewReserver(s, logger, nil)

	if at != "" {
		start, err := schedule.ParseTime(at, cfg.Location())
		if err != nil {
			exitErr("parse --at", err)
		}
		rec, err := r.ReserveAt(cmd.Context(), track, id, start, d)
		if err != nil {
			exitErr("reserve", err)
		}
		printJSON(cmd, rec)
		return
	}

	w := parseWindow(cmd, cfg)
	rec, err := r.Reserve(cmd.Context(), booking.Request{Track: track, ID: id, Window: w, Duration: d})
	if err != nil {
		exitErr("reserve", err)
	}
	printJSON(cmd, rec)
}
