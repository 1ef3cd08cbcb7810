package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/27Shambhavi/shunting/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show per-track schedule statistics",
		Run:   runStats,
	}

	RootCmd.AddCommand(cmd)
}

func runStats(cmd *cobra.Command, args []string) {
	cfg := loadConfig(cmd)
	s := openStore(cfg, newLogger(cfg))
	defer s.Close()

	stats, err := store.Summarize(cmd.Context(), s)
	if err != nil {
		exitErr("stats", err)
	}

	if formatFlag == "text" {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%d records on %d tracks\n", stats.TotalRecords, len(stats.Tracks))
		for _, t := range stats.Tracks {
			overlap := ""
			if t.Overlapping {
				overlap = " (overlapping)"
			}
			fmt.Fprintf(out, "  %-20s %3d records, occupied %s%s\n", t.Track, t.Records, t.Occupied, overlap)
		}
		return
	}
	printJSON(cmd, stats)
}
