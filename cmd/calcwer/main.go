// Command calcwer scores a transcript TSV against its ground-truth column and
// writes a WER report with per-sample alignment visualizations.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/echolabs-ai/stt-bench/internal/config"
	"github.com/echolabs-ai/stt-bench/internal/normalize"
	"github.com/echolabs-ai/stt-bench/internal/report"
	"github.com/echolabs-ai/stt-bench/internal/telemetry"
	"github.com/echolabs-ai/stt-bench/internal/tsv"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var version = "0.1.0-dev"

func main() {
	var (
		configPath  string
		tsvFile     string
		outputFile  string
		hypColumn   string
		normalizer  string
		showVersion bool
	)

	flag.StringVar(&configPath, "config", "", "Path to configuration file")
	flag.StringVar(&tsvFile, "tsvfile", "", "Input TSV file with columns: file_path, target, <hypothesis>")
	flag.StringVar(&outputFile, "outputfile", "", "Output file for the WER report")
	flag.StringVar(&hypColumn, "hypothesis-column", "", "Column name holding recognition hypotheses (default from config)")
	flag.StringVar(&normalizer, "normalizer", "", "Text normalizer: none, basic or english (default from config)")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Println(version)
		return
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if tsvFile == "" || outputFile == "" {
		logger.Error("both -tsvfile and -outputfile are required")
		os.Exit(1)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if hypColumn == "" {
		hypColumn = cfg.Report.HypothesisColumn
	}
	if normalizer == "" {
		normalizer = cfg.Report.Normalizer
	}

	if err := run(cfg, tsvFile, outputFile, hypColumn, normalizer, logger); err != nil {
		logger.Error("calcwer failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(cfg config.Config, tsvFile, outputFile, hypColumn, normalizer string, logger *slog.Logger) error {
	ctx := context.Background()

	shutdown, _, err := telemetry.Setup(cfg.Telemetry, "calcwer", logger)
	if err != nil {
		return fmt.Errorf("setup telemetry: %w", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			logger.Error("telemetry shutdown error", slog.String("error", err.Error()))
		}
	}()

	policy, err := normalize.ForName(normalizer)
	if err != nil {
		return err
	}

	table, err := tsv.ReadFile(tsvFile)
	if err != nil {
		return err
	}
	pairs, err := table.Pairs(hypColumn)
	if err != nil {
		return err
	}

	samples := make([]report.Sample, len(pairs))
	for i, p := range pairs {
		samples[i] = report.Sample{ID: p.ID, Reference: p.Target, Hypothesis: p.Hypothesis}
	}

	ctx, span := otel.Tracer("stt-bench/calcwer").Start(ctx, "calcwer.run")
	out, totals, err := report.Build(ctx, policy, samples, cfg.Report.Workers)
	if err != nil {
		span.End()
		return err
	}
	span.SetAttributes(
		attribute.Int("samples", len(samples)),
		attribute.Int("word_count", totals.WordCount()),
		attribute.Float64("pooled_wer", totals.WER()),
	)
	span.End()

	if dir := filepath.Dir(outputFile); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(outputFile, []byte(out), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	fmt.Printf("WER: %.1f%% (%d words) -> %s\n", totals.WER()*100, totals.WordCount(), outputFile)
	return nil
}
