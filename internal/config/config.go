package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/echolabs-ai/stt-bench/internal/normalize"
	"gopkg.in/yaml.v3"
)

type TelemetryConfig struct {
	LogLevel       string `yaml:"log_level"`
	OTLPEndpoint   string `yaml:"otlp_endpoint"`
	OTLPInsecure   bool   `yaml:"otlp_insecure"`
	PrometheusBind string `yaml:"prometheus_bind"`
}

type StoreConfig struct {
	Path          string `yaml:"path"`
	VacuumOnStart bool   `yaml:"vacuum_on_start"`
}

type DatasetConfig struct {
	Name       string `yaml:"name"`
	NumSamples int    `yaml:"num_samples"`
	Seed       int64  `yaml:"seed"`
}

type AudioConfig struct {
	SampleRate      int `yaml:"sample_rate"`
	ChunkDurationMS int `yaml:"chunk_duration_ms"`
}

// ChunkSizeBytes is the streaming chunk size for 16-bit mono PCM.
func (a AudioConfig) ChunkSizeBytes() int {
	samplesPerChunk := a.SampleRate * a.ChunkDurationMS / 1000
	return samplesPerChunk * 2
}

type ReportConfig struct {
	Normalizer       string `yaml:"normalizer"`
	HypothesisColumn string `yaml:"hypothesis_column"`
	Workers          int    `yaml:"workers"`
}

type LocalSTTConfig struct {
	Enabled     bool   `yaml:"enabled"`
	ServiceName string `yaml:"service_name"`
	Command     string `yaml:"command"`
	ModelPath   string `yaml:"model_path"`
	Language    string `yaml:"language"`
	Concurrency int    `yaml:"concurrency"`
	TimeoutMS   int    `yaml:"timeout_ms"`
}

type Config struct {
	DataDir   string          `yaml:"data_dir"`
	AudioDir  string          `yaml:"audio_dir"`
	Store     StoreConfig     `yaml:"store"`
	Dataset   DatasetConfig   `yaml:"dataset"`
	Audio     AudioConfig     `yaml:"audio"`
	Report    ReportConfig    `yaml:"report"`
	LocalSTT  LocalSTTConfig  `yaml:"local_stt"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

func Default() Config {
	return Config{
		DataDir:  "./stt_bench_data",
		AudioDir: "./stt_bench_data/audio",
		Store: StoreConfig{
			Path: "./stt_bench_data/results.db",
		},
		Dataset: DatasetConfig{
			Name:       "pipecat-ai/smart-turn-data-v3.1-train",
			NumSamples: 100,
			Seed:       42,
		},
		Audio: AudioConfig{
			SampleRate:      16000,
			ChunkDurationMS: 20,
		},
		Report: ReportConfig{
			Normalizer:       "basic",
			HypothesisColumn: "prediction",
			Workers:          4,
		},
		LocalSTT: LocalSTTConfig{
			Enabled:     false,
			ServiceName: "whisper",
			Concurrency: 2,
			TimeoutMS:   10000,
		},
		Telemetry: TelemetryConfig{
			LogLevel:     "info",
			OTLPInsecure: true,
		},
	}
}

func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return cfg, fmt.Errorf("config file not found: %w", err)
			}
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	if err := validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	overrideString(&cfg.DataDir, "STT_BENCH_DATA_DIR")
	overrideString(&cfg.AudioDir, "STT_BENCH_AUDIO_DIR")
	overrideString(&cfg.Store.Path, "STT_BENCH_STORE_PATH")
	overrideBool(&cfg.Store.VacuumOnStart, "STT_BENCH_STORE_VACUUM_ON_START")
	overrideString(&cfg.Dataset.Name, "STT_BENCH_DATASET_NAME")
	overrideInt(&cfg.Dataset.NumSamples, "STT_BENCH_DATASET_NUM_SAMPLES")
	overrideInt64(&cfg.Dataset.Seed, "STT_BENCH_DATASET_SEED")
	overrideInt(&cfg.Audio.SampleRate, "STT_BENCH_AUDIO_SAMPLE_RATE")
	overrideInt(&cfg.Audio.ChunkDurationMS, "STT_BENCH_AUDIO_CHUNK_DURATION_MS")
	overrideString(&cfg.Report.Normalizer, "STT_BENCH_REPORT_NORMALIZER")
	overrideString(&cfg.Report.HypothesisColumn, "STT_BENCH_REPORT_HYPOTHESIS_COLUMN")
	overrideInt(&cfg.Report.Workers, "STT_BENCH_REPORT_WORKERS")
	overrideBool(&cfg.LocalSTT.Enabled, "STT_BENCH_LOCAL_STT_ENABLED")
	overrideString(&cfg.LocalSTT.ServiceName, "STT_BENCH_LOCAL_STT_SERVICE_NAME")
	overrideString(&cfg.LocalSTT.Command, "STT_BENCH_LOCAL_STT_COMMAND")
	overrideString(&cfg.LocalSTT.ModelPath, "STT_BENCH_LOCAL_STT_MODEL_PATH")
	overrideString(&cfg.LocalSTT.Language, "STT_BENCH_LOCAL_STT_LANGUAGE")
	overrideInt(&cfg.LocalSTT.Concurrency, "STT_BENCH_LOCAL_STT_CONCURRENCY")
	overrideInt(&cfg.LocalSTT.TimeoutMS, "STT_BENCH_LOCAL_STT_TIMEOUT_MS")
	overrideString(&cfg.Telemetry.LogLevel, "STT_BENCH_TELEMETRY_LOG_LEVEL")
	overrideString(&cfg.Telemetry.OTLPEndpoint, "STT_BENCH_TELEMETRY_OTLP_ENDPOINT")
	overrideBool(&cfg.Telemetry.OTLPInsecure, "STT_BENCH_TELEMETRY_OTLP_INSECURE")
	overrideString(&cfg.Telemetry.PrometheusBind, "STT_BENCH_TELEMETRY_PROMETHEUS_BIND")
}

func overrideString(target *string, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok && strings.TrimSpace(value) != "" {
		*target = value
	}
}

func overrideInt(target *int, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			*target = parsed
		}
	}
}

func overrideInt64(target *int64, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			*target = parsed
		}
	}
}

func overrideBool(target *bool, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok {
		if parsed, err := strconv.ParseBool(value); err == nil {
			*target = parsed
		}
	}
}

func validate(cfg Config) error {
	if cfg.DataDir == "" {
		return errors.New("data_dir must not be empty")
	}
	if cfg.AudioDir == "" {
		return errors.New("audio_dir must not be empty")
	}
	if cfg.Store.Path == "" {
		return errors.New("store.path must not be empty")
	}
	if cfg.Dataset.NumSamples <= 0 {
		return errors.New("dataset.num_samples must be positive")
	}
	if cfg.Audio.SampleRate <= 0 {
		return errors.New("audio.sample_rate must be positive")
	}
	if cfg.Audio.ChunkDurationMS <= 0 {
		return errors.New("audio.chunk_duration_ms must be positive")
	}
	if _, err := normalize.ForName(cfg.Report.Normalizer); err != nil {
		return fmt.Errorf("report.normalizer: %w", err)
	}
	if cfg.Report.HypothesisColumn == "" {
		return errors.New("report.hypothesis_column must not be empty")
	}
	if cfg.Report.Workers <= 0 {
		return errors.New("report.workers must be >= 1")
	}
	if cfg.LocalSTT.Enabled {
		if cfg.LocalSTT.ServiceName == "" {
			return errors.New("local_stt.service_name must not be empty when enabled")
		}
		if cfg.LocalSTT.Command == "" {
			return errors.New("local_stt.command must be set when enabled")
		}
		if cfg.LocalSTT.Concurrency <= 0 {
			return errors.New("local_stt.concurrency must be >= 1")
		}
		if cfg.LocalSTT.TimeoutMS <= 0 {
			return errors.New("local_stt.timeout_ms must be positive")
		}
	}
	return nil
}
