package recognize

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/echolabs-ai/stt-bench/internal/config"
	"github.com/echolabs-ai/stt-bench/internal/resultstore"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/errgroup"
)

// Runner drives a recognizer over every stored sample and records the
// transcription, its latency and any failure into the results store.
type Runner struct {
	cfg        config.LocalSTTConfig
	audioCfg   config.AudioConfig
	store      *resultstore.Store
	recognizer Recognizer
	log        *slog.Logger

	transcriptions metric.Int64Counter
	latency        metric.Float64Histogram
}

func NewRunner(cfg config.LocalSTTConfig, audioCfg config.AudioConfig, store *resultstore.Store, rec Recognizer, log *slog.Logger) (*Runner, error) {
	meter := otel.Meter("stt-bench/recognize")
	transcriptions, err := meter.Int64Counter("sttbench.transcriptions",
		metric.WithDescription("Completed transcription attempts, by outcome"))
	if err != nil {
		return nil, fmt.Errorf("create counter: %w", err)
	}
	latency, err := meter.Float64Histogram("sttbench.transcription.latency",
		metric.WithDescription("Transcription latency in seconds"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, fmt.Errorf("create histogram: %w", err)
	}
	return &Runner{
		cfg:            cfg,
		audioCfg:       audioCfg,
		store:          store,
		recognizer:     rec,
		log:            log,
		transcriptions: transcriptions,
		latency:        latency,
	}, nil
}

// Run transcribes all stored samples with bounded concurrency. Failures are
// recorded per sample and do not abort the run; only store-level errors do.
// Returns the run ID.
func (r *Runner) Run(ctx context.Context) (string, error) {
	samples, err := r.store.ListSamples(ctx)
	if err != nil {
		return "", fmt.Errorf("list samples: %w", err)
	}
	if len(samples) == 0 {
		return "", fmt.Errorf("no samples in store, nothing to transcribe")
	}

	runID, err := r.store.BeginRun(ctx, []string{r.cfg.ServiceName}, len(samples))
	if err != nil {
		return "", err
	}
	r.log.Info("local stt run started",
		slog.String("run_id", runID),
		slog.String("service", r.cfg.ServiceName),
		slog.Int("samples", len(samples)))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Concurrency)
	for _, smp := range samples {
		smp := smp
		g.Go(func() error {
			return r.transcribeOne(gctx, smp)
		})
	}
	if err := g.Wait(); err != nil {
		return runID, err
	}

	if err := r.store.CompleteRun(ctx, runID); err != nil {
		return runID, fmt.Errorf("complete run: %w", err)
	}
	r.log.Info("local stt run finished", slog.String("run_id", runID))
	return runID, nil
}

func (r *Runner) transcribeOne(ctx context.Context, smp resultstore.Sample) error {
	res := resultstore.Result{
		SampleID:             smp.SampleID,
		ServiceName:          r.cfg.ServiceName,
		ModelName:            r.cfg.ModelPath,
		AudioDurationSeconds: smp.DurationSeconds,
	}

	pcm, err := os.ReadFile(smp.AudioPath)
	if err != nil {
		res.Error = fmt.Sprintf("read audio: %v", err)
		return r.record(ctx, smp, res, 0)
	}

	tctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.TimeoutMS)*time.Millisecond)
	defer cancel()

	start := time.Now()
	out, err := r.recognizer.Transcribe(tctx, pcm, r.audioCfg.SampleRate, 1)
	elapsed := time.Since(start).Seconds()
	if err != nil {
		res.Error = err.Error()
		return r.record(ctx, smp, res, elapsed)
	}

	res.Transcription = out.Text
	res.TTFBSeconds = &elapsed
	return r.record(ctx, smp, res, elapsed)
}

func (r *Runner) record(ctx context.Context, smp resultstore.Sample, res resultstore.Result, elapsed float64) error {
	outcome := "ok"
	if res.Error != "" {
		outcome = "error"
		r.log.Warn("transcription failed",
			slog.String("sample_id", smp.SampleID),
			slog.String("error", res.Error))
	}
	attrs := metric.WithAttributes(
		attribute.String("service", r.cfg.ServiceName),
		attribute.String("outcome", outcome))
	r.transcriptions.Add(ctx, 1, attrs)
	if elapsed > 0 {
		r.latency.Record(ctx, elapsed, attrs)
	}

	if err := r.store.AddResult(ctx, res); err != nil {
		return fmt.Errorf("record result for %s: %w", smp.SampleID, err)
	}
	return nil
}
