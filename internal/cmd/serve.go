package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/yuzeguitarist/qrdrop/internal/metrics"
	"github.com/yuzeguitarist/qrdrop/internal/telemetry"
	"github.com/yuzeguitarist/qrdrop/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web UI/API server (foreground)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		shutdownTelemetry, err := telemetry.Setup(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.OTLPEndpoint)
		if err != nil {
			return err
		}
		defer func() {
			if err := shutdownTelemetry(context.Background()); err != nil {
				log.Error().Err(err).Msg("failed to shutdown telemetry")
			}
		}()

		w, err := wire(ctx, cfg, metrics.NewPrometheus())
		if err != nil {
			return err
		}
		defer w.close()

		srv := web.NewServer(w.service, web.Options{
			Paths:          w.paths,
			BaseURL:        cfg.BaseURL,
			MaxUploadBytes: cfg.Upload.MaxBytes,
			CSRFKey:        []byte(cfg.CSRFKey),
			Metrics:        promhttp.Handler(),
		})

		log.Info().
			Str("root", w.paths.Root).
			Int("entries", w.store.Len()).
			Str("upload_backend", cfg.Upload.Backend).
			Msg("qrdrop ready")
		return web.Run(ctx, cfg.Listen, srv.Router())
	},
}

func init() {
	serveCmd.Flags().String("listen", "", "listen address (default from config: 127.0.0.1:5000)")
	serveCmd.Flags().String("base-url", "", "public base URL used in generated links (default: request host)")
	serveCmd.Flags().Bool("debug", false, "debug logging with console output")
}
