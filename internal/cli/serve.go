package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/27Shambhavi/shunting/internal/api"
	"github.com/27Shambhavi/shunting/internal/availability"
	"github.com/27Shambhavi/shunting/internal/booking"
	"github.com/27Shambhavi/shunting/internal/telemetry"
)

func init() {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve availability and reservations over HTTP",
		Run:   runServe,
	}

	cmd.Flags().String("addr", "", "Listen address (default: config http_addr)")

	RootCmd.AddCommand(cmd)
}

func runServe(cmd *cobra.Command, args []string) {
	cfg := loadConfig(cmd)
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.HTTPAddr = addr
	}
	logger := newLogger(cfg)

	s := openStore(cfg, logger)
	defer s.Close()

	metrics := telemetry.NewMetrics()
	avail := availability.NewService(s, availability.Options{
		Strict:  cfg.StrictTracks,
		Logger:  logger,
		Metrics: metrics,
	})
	reserver := booking.NewReserver(s, logger, metrics)

	handler := api.New(avail, reserver, api.Options{
		Location: cfg.Location(),
		MinSlot:  cfg.DefaultMinSlot(),
		Metrics:  metrics,
		Logger:   logger,
	}).Routes()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info().Str("data", cfg.DataPath).Bool("strict", cfg.StrictTracks).Msg("schedule opened")
	if err := api.Serve(ctx, cfg.HTTPAddr, handler, logger); err != nil {
		exitErr("serve", err)
	}
}
