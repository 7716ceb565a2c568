// Command duoscan is the scanner's CLI entrypoint: a spf13/cobra root
// command wiring config -> engine -> report. It is grounded on the
// teacher's cmd/cryptorun/main.go zerolog/cobra/TTY-detection idiom,
// narrowed from that repo's large menu-first command tree to the two
// subcommands this scanner needs.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/sawpanic/duoscan/internal/config"
	"github.com/sawpanic/duoscan/internal/httpserver"
	"github.com/sawpanic/duoscan/internal/metrics"
	"github.com/sawpanic/duoscan/internal/reportgen"
	"github.com/sawpanic/duoscan/internal/scanner"
	"github.com/sawpanic/duoscan/internal/venue"
)

const version = "v0.1.0"

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	if term.IsTerminal(int(os.Stderr.Fd())) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}

	root := &cobra.Command{
		Use:     "duoscan",
		Short:   "Dual-venue microstructure scanner",
		Version: version,
	}

	scanCmd := &cobra.Command{
		Use:   "scan",
		Short: "Run the scanner against live venue queues until the configured deadline",
		RunE:  runScan,
	}
	scanCmd.Flags().String("config", "config/scanner.toml", "path to the scanner TOML config")
	scanCmd.Flags().Bool("status-server", true, "start the /health and /metrics status server")

	replayCmd := &cobra.Command{
		Use:   "replay",
		Short: "Run the scanner against the synthetic replay connector",
		RunE:  runReplay,
	}
	replayCmd.Flags().String("config", "config/scanner.toml", "path to the scanner TOML config")
	replayCmd.Flags().Float64("speed", 50, "replay frames per second")
	replayCmd.Flags().Int("frames", 2000, "synthetic frames to generate per venue")
	replayCmd.Flags().Int("shift-samples", 2, "follower lag, in 100ms samples, injected into the synthetic feed")

	root.AddCommand(scanCmd, replayCmd)

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func runScan(cmd *cobra.Command, _ []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	withStatusServer, _ := cmd.Flags().GetBool("status-server")

	cfg := config.Load(configPath)
	reg := metrics.New(prometheus.DefaultRegisterer)
	engine := scanner.New(cfg, reg)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	running := true
	if withStatusServer {
		srv := httpserver.New(httpserver.DefaultConfig(), prometheus.DefaultGatherer, func() bool { return running })
		go func() {
			if err := srv.Start(); err != nil {
				log.Error().Err(err).Msg("status server exited")
			}
		}()
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	log.Info().Str("config", configPath).Strs("universe", cfg.Universe).Msg("starting scan")
	report := engine.Run(ctx)
	running = false

	return persist(report)
}

func runReplay(cmd *cobra.Command, _ []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	speed, _ := cmd.Flags().GetFloat64("speed")
	frameCount, _ := cmd.Flags().GetInt("frames")
	shiftSamples, _ := cmd.Flags().GetInt("shift-samples")

	cfg := config.Load(configPath)
	reg := metrics.New(prometheus.NewRegistry())
	engine := scanner.New(cfg, reg)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	for _, symbol := range cfg.Universe {
		frames := venue.MarshalSynthetic(symbol, frameCount, shiftSamples)
		server := venue.NewServer(frames, speed)
		addr, stop := serveReplay(server)
		defer stop()

		client := venue.NewClient(addr)
		go func() {
			if err := client.Run(ctx, engine.LeaderQueue(), engine.FollowerQueue()); err != nil {
				log.Warn().Err(err).Str("symbol", symbol).Msg("replay connector stopped")
			}
		}()
	}

	log.Info().Strs("universe", cfg.Universe).Str("run_id", uuid.NewString()).Msg("starting replay scan")
	report := engine.Run(ctx)
	return persist(report)
}

func persist(report reportgen.Report) error {
	if err := reportgen.WriteJSON("data/scanner_report.json", report); err != nil {
		log.Error().Err(err).Msg("failed to write JSON report")
		return err
	}
	if err := reportgen.WriteText("data/scanner_report.txt", report); err != nil {
		log.Error().Err(err).Msg("failed to write text report")
		return err
	}
	log.Info().Int("passed", report.PassedCount).Str("recommendation", report.Recommendation).Msg("scan complete")
	return nil
}
