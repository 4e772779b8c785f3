// Command exporttsv dumps one service's transcripts from the results database
// as a (file_path, target, prediction) TSV, ready for calcwer.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/echolabs-ai/stt-bench/internal/config"
	"github.com/echolabs-ai/stt-bench/internal/resultstore"
	"github.com/echolabs-ai/stt-bench/internal/stats"
	"github.com/echolabs-ai/stt-bench/internal/tsv"
)

func main() {
	var (
		configPath string
		service    string
		dbPath     string
		output     string
		showStats  bool
	)

	flag.StringVar(&configPath, "config", "", "Path to configuration file")
	flag.StringVar(&service, "service", "", "STT service name (e.g. assemblyai)")
	flag.StringVar(&dbPath, "db", "", "Path to the results database (default from config)")
	flag.StringVar(&output, "output", "", "Output TSV path (default <service>_transcripts.tsv)")
	flag.BoolVar(&showStats, "stats", false, "Also print latency statistics for the service")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if service == "" {
		logger.Error("-service is required")
		os.Exit(1)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if dbPath == "" {
		dbPath = cfg.Store.Path
	}
	if output == "" {
		output = service + "_transcripts.tsv"
	}

	if err := run(dbPath, service, output, showStats, logger); err != nil {
		logger.Error("exporttsv failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(dbPath, service, output string, showStats bool, logger *slog.Logger) error {
	if _, err := os.Stat(dbPath); err != nil {
		return fmt.Errorf("database not found: %s", dbPath)
	}

	ctx := context.Background()
	store, err := resultstore.Open(ctx, config.StoreConfig{Path: dbPath}, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	rows, err := store.ExportTranscripts(ctx, service)
	if err != nil {
		return fmt.Errorf("export transcripts: %w", err)
	}
	if len(rows) == 0 {
		logger.Info("no results found for service",
			slog.String("service", service),
			slog.String("db", dbPath))
		return nil
	}

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer f.Close()

	records := make([][]string, len(rows))
	for i, r := range rows {
		records[i] = []string{r.AudioPath, r.Target, r.Prediction}
	}
	if err := tsv.Write(f, []string{"file_path", "target", "prediction"}, records); err != nil {
		return err
	}
	fmt.Printf("Wrote %d rows to %s\n", len(rows), output)

	if showStats {
		ttfbs, durations, err := store.TTFBs(ctx, service)
		if err != nil {
			return fmt.Errorf("load latencies: %w", err)
		}
		printStats(service, ttfbs, durations)
	}
	return nil
}

func printStats(service string, ttfbs, durations []float64) {
	s := stats.Summarize(ttfbs)
	if s.Count == 0 {
		fmt.Printf("No latency data for %s\n", service)
		return
	}
	fmt.Printf("TTFB for %s over %d samples:\n", service, s.Count)
	fmt.Printf("  mean=%.3fs median=%.3fs std=%.3fs min=%.3fs max=%.3fs\n", s.Mean, s.Median, s.Std, s.Min, s.Max)
	fmt.Printf("  p50=%.3fs p90=%.3fs p95=%.3fs p99=%.3fs\n", s.P50, s.P90, s.P95, s.P99)
	buckets := stats.ByDurationBucket(ttfbs, durations)
	for _, label := range stats.BucketLabels {
		if mean, ok := buckets[label]; ok {
			fmt.Printf("  %s: mean=%.3fs\n", label, mean)
		}
	}
}
