package cli

import (
	"github.com/spf13/cobra"

	"github.com/27Shambhavi/shunting/internal/schedule"
)

func init() {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the schedule as CSV",
		Long:  "Write every occupancy record to stdout as CSV, in the format import reads.",
		Run:   runExport,
	}

	RootCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, args []string) {
	cfg := loadConfig(cmd)
	s := openStore(cfg, newLogger(cfg))
	defer s.Close()

	records, err := s.All(cmd.Context())
	if err != nil {
		exitErr("export", err)
	}
	for i := range records {
		records[i].Arrival = records[i].Arrival.In(cfg.Location())
		records[i].Departure = records[i].Departure.In(cfg.Location())
	}

	if err := schedule.Write(cmd.OutOrStdout(), records); err != nil {
		exitErr("export", err)
	}
}
