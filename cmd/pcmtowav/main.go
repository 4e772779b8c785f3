// Command pcmtowav wraps the benchmark's raw PCM captures (16-bit signed
// little-endian mono) into WAV containers.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/echolabs-ai/stt-bench/internal/audio"
	"github.com/echolabs-ai/stt-bench/internal/config"
)

func main() {
	var (
		configPath string
		inputDir   string
		outputDir  string
		sampleRate int
	)

	flag.StringVar(&configPath, "config", "", "Path to configuration file")
	flag.StringVar(&inputDir, "input-dir", "", "Directory containing .pcm files (default from config)")
	flag.StringVar(&outputDir, "output-dir", "", "Directory to write WAV files to")
	flag.IntVar(&sampleRate, "sample-rate", 0, "Sample rate of the PCM audio in Hz (default from config)")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if outputDir == "" {
		logger.Error("-output-dir is required")
		os.Exit(1)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if inputDir == "" {
		inputDir = cfg.AudioDir
	}
	if sampleRate == 0 {
		sampleRate = cfg.Audio.SampleRate
	}

	n, err := audio.ConvertDir(inputDir, outputDir, sampleRate)
	if err != nil {
		logger.Error("conversion failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	fmt.Printf("Done. %d files written to %s\n", n, outputDir)
}
