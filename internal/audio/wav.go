// Package audio wraps raw benchmark PCM captures into WAV containers so they
// can be fed to tools that refuse headerless audio. Samples are 16-bit signed
// little-endian mono, matching the benchmark capture format.
package audio

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// WritePCMToWav encodes raw PCM into file as 16-bit WAV.
func WritePCMToWav(file *os.File, pcm []byte, sampleRate, channels int) error {
	if len(pcm)%2 != 0 {
		return fmt.Errorf("pcm payload not aligned")
	}
	buffer := &audio.IntBuffer{Format: &audio.Format{NumChannels: channels, SampleRate: sampleRate}}
	samples := make([]int, len(pcm)/2)
	for i := 0; i < len(samples); i++ {
		samples[i] = int(int16(binary.LittleEndian.Uint16(pcm[i*2:])))
	}
	buffer.Data = samples

	enc := wav.NewEncoder(file, sampleRate, 16, channels, 1)
	if err := enc.Write(buffer); err != nil {
		return fmt.Errorf("write wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("close wav encoder: %w", err)
	}
	return nil
}

// ConvertFile reads a raw PCM file and writes the WAV equivalent to dst.
func ConvertFile(src, dst string, sampleRate int) error {
	pcm, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("read pcm: %w", err)
	}
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create wav: %w", err)
	}
	if err := WritePCMToWav(out, pcm, sampleRate, 1); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	return out.Close()
}

// ConvertDir converts every *.pcm file under inputDir into outputDir, sorted
// by name so progress output is stable. Returns the converted file count.
func ConvertDir(inputDir, outputDir string, sampleRate int) (int, error) {
	matches, err := filepath.Glob(filepath.Join(inputDir, "*.pcm"))
	if err != nil {
		return 0, fmt.Errorf("scan pcm dir: %w", err)
	}
	if len(matches) == 0 {
		return 0, fmt.Errorf("no .pcm files found in %s", inputDir)
	}
	sort.Strings(matches)

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return 0, fmt.Errorf("create output dir: %w", err)
	}

	for _, src := range matches {
		name := strings.TrimSuffix(filepath.Base(src), ".pcm") + ".wav"
		if err := ConvertFile(src, filepath.Join(outputDir, name), sampleRate); err != nil {
			return 0, fmt.Errorf("convert %s: %w", filepath.Base(src), err)
		}
	}
	return len(matches), nil
}
