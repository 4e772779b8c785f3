// Command localstt transcribes every stored sample with a local exec-backed
// STT engine and records transcriptions and latency into the results
// database.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/echolabs-ai/stt-bench/internal/config"
	"github.com/echolabs-ai/stt-bench/internal/recognize"
	"github.com/echolabs-ai/stt-bench/internal/resultstore"
	"github.com/echolabs-ai/stt-bench/internal/telemetry"
)

var version = "0.1.0-dev"

func main() {
	var (
		configPath  string
		showVersion bool
	)

	flag.StringVar(&configPath, "config", "sttbench.yaml", "Path to configuration file")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Println(version)
		return
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if !cfg.LocalSTT.Enabled {
		logger.Error("local_stt.enabled must be true to run this tool")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("localstt failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	shutdown, metricHandler, err := telemetry.Setup(cfg.Telemetry, "localstt", logger)
	if err != nil {
		return fmt.Errorf("setup telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", slog.String("error", err.Error()))
		}
	}()

	var metricsServer *http.Server
	if bind := cfg.Telemetry.PrometheusBind; bind != "" && metricHandler != nil {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metricHandler)
		metricsServer = &http.Server{
			Addr:              bind,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("metrics server failed", slog.String("error", err.Error()))
			}
		}()
		logger.Info("serving metrics", slog.String("addr", bind))
	}

	store, err := resultstore.Open(ctx, cfg.Store, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	rec, err := recognize.New(cfg.LocalSTT)
	if err != nil {
		return err
	}
	runner, err := recognize.NewRunner(cfg.LocalSTT, cfg.Audio, store, rec, logger)
	if err != nil {
		return err
	}

	runID, err := runner.Run(ctx)
	if err != nil {
		return err
	}
	logger.Info("run complete", slog.String("run_id", runID))

	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("metrics server shutdown error", slog.String("error", err.Error()))
		}
	}
	return nil
}
