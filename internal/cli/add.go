package cli

import (
	"github.com/spf13/cobra"

	"github.com/27Shambhavi/shunting/internal/model"
	"github.com/27Shambhavi/shunting/internal/schedule"
)

func init() {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an occupancy record",
		Long:  "Add one occupancy record as given. Unlike reserve, overlaps with existing records are allowed.",
		Run:   runAdd,
	}

	cmd.Flags().String("id", "", "Train id (required)")
	cmd.Flags().StringP("track", "t", "", "Track (required)")
	cmd.Flags().String("arrival", "", "Arrival time (required)")
	cmd.Flags().String("departure", "", "Departure time (required)")
	for _, f := range []string{"id", "track", "arrival", "departure"} {
		cmd.MarkFlagRequired(f)
	}

	RootCmd.AddCommand(cmd)
}

func runAdd(cmd *cobra.Command, args []string) {
	id, _ := cmd.Flags().GetString("id")
	track, _ := cmd.Flags().GetString("track")
	arrival, _ := cmd.Flags().GetString("arrival")
	departure, _ := cmd.Flags().GetString("departure")

	cfg := loadConfig(cmd)

	a, err := schedule.ParseTime(arrival, cfg.Location())
	if err != nil {
		exitErr("parse --arrival", err)
	}
	d, err := schedule.ParseTime(departure, cfg.Location())
	if err != nil {
		exitErr("parse --departure", err)
	}
	rec := model.OccupancyRecord{ID: id, Track: track, Arrival: a, Departure: d}

	s := openStore(cfg, newLogger(cfg))
	defer s.Close()

	if err := s.Append(cmd.Context(), rec); err != nil {
		exitErr("add", err)
	}
	printJSON(cmd, rec)
}
