package recognize

import (
	"context"
	"fmt"

	"github.com/echolabs-ai/stt-bench/internal/config"
)

// TranscriptResult captures recognizer output for one audio sample.
type TranscriptResult struct {
	Text       string
	Confidence float64
}

// Recognizer abstracts local STT backends.
type Recognizer interface {
	Transcribe(ctx context.Context, pcm []byte, sampleRate, channels int) (TranscriptResult, error)
}

// New builds the recognizer selected by config: an exec-backed engine when a
// command is set, otherwise the mock.
func New(cfg config.LocalSTTConfig) (Recognizer, error) {
	if cfg.Command != "" {
		return NewExecRecognizer(cfg)
	}
	if !cfg.Enabled {
		return NewMockRecognizer(), nil
	}
	return nil, fmt.Errorf("local stt enabled but no command configured")
}
