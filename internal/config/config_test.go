package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Report.Normalizer != "basic" {
		t.Fatalf("expected default normalizer, got %q", cfg.Report.Normalizer)
	}
	if cfg.Report.HypothesisColumn != "prediction" {
		t.Fatalf("expected default hypothesis column, got %q", cfg.Report.HypothesisColumn)
	}
	if cfg.Audio.ChunkSizeBytes() != 640 {
		t.Fatalf("expected 640 byte chunks at 16kHz/20ms, got %d", cfg.Audio.ChunkSizeBytes())
	}
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bench.yaml")
	data := []byte("report:\n  normalizer: english\n  hypothesis_column: whisper_v3\nstore:\n  path: ./custom.db\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Report.Normalizer != "english" {
		t.Fatalf("expected yaml normalizer override, got %q", cfg.Report.Normalizer)
	}
	if cfg.Report.HypothesisColumn != "whisper_v3" {
		t.Fatalf("expected yaml column override, got %q", cfg.Report.HypothesisColumn)
	}
	if cfg.Store.Path != "./custom.db" {
		t.Fatalf("expected yaml store path override, got %q", cfg.Store.Path)
	}
	// Untouched sections keep their defaults.
	if cfg.Audio.SampleRate != 16000 {
		t.Fatalf("expected default sample rate, got %d", cfg.Audio.SampleRate)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("STT_BENCH_STORE_PATH", "./tmp.db")
	t.Setenv("STT_BENCH_REPORT_NORMALIZER", "none")
	t.Setenv("STT_BENCH_REPORT_HYPOTHESIS_COLUMN", "deepgram")
	t.Setenv("STT_BENCH_REPORT_WORKERS", "8")
	t.Setenv("STT_BENCH_DATASET_NUM_SAMPLES", "250")
	t.Setenv("STT_BENCH_DATASET_SEED", "7")
	t.Setenv("STT_BENCH_LOCAL_STT_ENABLED", "true")
	t.Setenv("STT_BENCH_LOCAL_STT_COMMAND", "whisper-cli --json")
	t.Setenv("STT_BENCH_LOCAL_STT_SERVICE_NAME", "whisper_cpp")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Store.Path != "./tmp.db" {
		t.Fatalf("expected store path override, got %q", cfg.Store.Path)
	}
	if cfg.Report.Normalizer != "none" || cfg.Report.HypothesisColumn != "deepgram" || cfg.Report.Workers != 8 {
		t.Fatalf("expected report overrides, got %+v", cfg.Report)
	}
	if cfg.Dataset.NumSamples != 250 || cfg.Dataset.Seed != 7 {
		t.Fatalf("expected dataset overrides, got %+v", cfg.Dataset)
	}
	if !cfg.LocalSTT.Enabled || cfg.LocalSTT.Command != "whisper-cli --json" || cfg.LocalSTT.ServiceName != "whisper_cpp" {
		t.Fatalf("expected local stt overrides, got %+v", cfg.LocalSTT)
	}
}

func TestUnknownNormalizerRejected(t *testing.T) {
	t.Setenv("STT_BENCH_REPORT_NORMALIZER", "shouty")
	if _, err := Load(""); err == nil {
		t.Fatal("expected validation error for unknown normalizer")
	}
}

func TestLocalSTTRequiresCommand(t *testing.T) {
	t.Setenv("STT_BENCH_LOCAL_STT_ENABLED", "true")
	if _, err := Load(""); err == nil {
		t.Fatal("expected validation error when local stt is enabled without a command")
	}
}
