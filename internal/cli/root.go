// Package cli implements the shunting CLI commands.
package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/27Shambhavi/shunting/internal/config"
	"github.com/27Shambhavi/shunting/internal/logging"
	"github.com/27Shambhavi/shunting/internal/schedule"
	"github.com/27Shambhavi/shunting/internal/store"
	"github.com/27Shambhavi/shunting/internal/timeline"
)

var (
	configPath string
	dataPath   string
	timeZone   string
	logLevel   string
	strict     bool
	formatFlag string
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "shunting",
	Short: "Track occupancy and free slot finder",
	Long:  "Answer when each yard track is busy or free within a time window, and reserve the first free slot of a given length.",
}

func init() {
	pf := RootCmd.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "", "Config file (default: $SHUNTING_CONFIG)")
	pf.StringVarP(&dataPath, "data", "d", "", "Schedule path, .csv or .db (default: $SHUNTING_DATA or ~/.shunting/schedule.csv)")
	pf.StringVar(&timeZone, "tz", "", "Time zone for timestamps without one (default: UTC)")
	pf.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.BoolVar(&strict, "strict", false, "Reject tracks that have no records")
	pf.StringVarP(&formatFlag, "format", "f", "json", "Output format: json or text")
}

// loadConfig resolves config file, environment and flags, in that order.
func loadConfig(cmd *cobra.Command) *config.Config {
	cfg, err := config.Load(configPath)
	if err != nil {
		exitErr("load config", err)
	}
	flags := cmd.Flags()
	if flags.Changed("data") {
		cfg.DataPath = dataPath
	}
	if flags.Changed("tz") {
		cfg.TimeZone = timeZone
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("strict") {
		cfg.StrictTracks = strict
	}
	if err := cfg.Validate(); err != nil {
		exitErr("config", err)
	}
	return cfg
}

func newLogger(cfg *config.Config) zerolog.Logger {
	return logging.Setup(cfg.Environment, cfg.LogLevel, os.Stderr)
}

func openStore(cfg *config.Config, logger zerolog.Logger) store.Store {
	s, err := store.Open(cfg.DataPath, cfg.Location())
	if err != nil {
		exitErr("open store", err)
	}
	if fs, ok := s.(*store.FileStore); ok {
		warnSkipped(logger, fs.Path(), fs.Skipped)
	}
	return s
}

func warnSkipped(logger zerolog.Logger, source string, rows []schedule.SkippedRow) {
	for _, row := range rows {
		logger.Warn().Str("source", source).Int("line", row.Line).Str("reason", row.Reason).Msg("skipped schedule row")
	}
}

// windowFlags registers --start and --end on cmd.
func windowFlags(cmd *cobra.Command, required bool) {
	cmd.Flags().String("start", "", "Window start, e.g. \"2025-12-01 05:00\"")
	cmd.Flags().String("end", "", "Window end, e.g. \"2025-12-01 09:00\"")
	if required {
		cmd.MarkFlagRequired("start")
		cmd.MarkFlagRequired("end")
	}
}

func parseWindow(cmd *cobra.Command, cfg *config.Config) timeline.Window {
	start, _ := cmd.Flags().GetString("start")
	end, _ := cmd.Flags().GetString("end")

	s, err := schedule.ParseTime(start, cfg.Location())
	if err != nil {
		exitErr("parse --start", err)
	}
	e, err := schedule.ParseTime(end, cfg.Location())
	if err != nil {
		exitErr("parse --end", err)
	}
	w := timeline.Window{Start: s, End: e}
	if err := w.Validate(); err != nil {
		exitErr("window", err)
	}
	return w
}

func printJSON(cmd *cobra.Command, v any) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Fprintln(cmd.OutOrStdout(), string(b))
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
