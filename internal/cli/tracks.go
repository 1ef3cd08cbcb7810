package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "tracks",
		Short: "List tracks present in the schedule",
		Run:   runTracks,
	}

	RootCmd.AddCommand(cmd)
}

func runTracks(cmd *cobra.Command, args []string) {
	cfg := loadConfig(cmd)
	s := openStore(cfg, newLogger(cfg))
	defer s.Close()

	tracks, err := s.AllTracks(cmd.Context())
	if err != nil {
		exitErr("list tracks", err)
	}

	if formatFlag == "text" {
		for _, t := range tracks {
			fmt.Fprintln(cmd.OutOrStdout(), t)
		}
		return
	}
	printJSON(cmd, tracks)
}
