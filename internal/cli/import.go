package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/27Shambhavi/shunting/internal/model"
	"github.com/27Shambhavi/shunting/internal/schedule"
	"github.com/27Shambhavi/shunting/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import occupancy records from CSV",
		Long: `Import occupancy records from a CSV file, or stdin when no file is given.
The header needs train_id, track, arrival and departure columns. Rows whose
fields cannot be parsed are skipped and reported on stderr.`,
		Args: cobra.MaximumNArgs(1),
		Run:  runImport,
	}

	cmd.Flags().Bool("sample", false, "Import the built-in sample schedule instead")

	RootCmd.AddCommand(cmd)
}

func runImport(cmd *cobra.Command, args []string) {
	sample, _ := cmd.Flags().GetBool("sample")

	cfg := loadConfig(cmd)
	logger := newLogger(cfg)

	var records []model.OccupancyRecord
	skipped := 0
	if sample {
		records = schedule.Sample(cfg.Location())
	} else {
		var in io.Reader = os.Stdin
		source := "stdin"
		if len(args) == 1 {
			f, err := os.Open(args[0])
			if err != nil {
				exitErr("open input", err)
			}
			defer f.Close()
			in, source = f, args[0]
		}
		res, err := schedule.Read(in, cfg.Location())
		if err != nil {
			exitErr("parse csv", err)
		}
		warnSkipped(logger, source, res.Skipped)
		records, skipped = res.Records, len(res.Skipped)
	}

	s := openStore(cfg, logger)
	defer s.Close()

	imported, err := store.Import(cmd.Context(), s, records)
	if err != nil {
		fmt.Fprintf(cmd.OutOrStdout(), `{"ok":false,"imported":%d,"skipped":%d}`+"\n", imported, skipped)
		exitErr("import", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"imported":%d,"skipped":%d}`+"\n", imported, skipped)
}
