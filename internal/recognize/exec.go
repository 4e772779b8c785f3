package recognize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"

	"github.com/echolabs-ai/stt-bench/internal/audio"
	"github.com/echolabs-ai/stt-bench/internal/config"
	"github.com/mattn/go-shellwords"
)

// execRecognizer shells out to a local STT binary (e.g. whisper.cpp). The
// audio is handed over as a temp WAV file and the command must print a JSON
// object {"text": ..., "confidence": ...} on stdout.
type execRecognizer struct {
	cmd []string
	cfg config.LocalSTTConfig
}

type execResult struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

func NewExecRecognizer(cfg config.LocalSTTConfig) (Recognizer, error) {
	parser := shellwords.NewParser()
	args, err := parser.Parse(cfg.Command)
	if err != nil {
		return nil, fmt.Errorf("parse stt command: %w", err)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("stt command is empty")
	}
	return &execRecognizer{cmd: args, cfg: cfg}, nil
}

func (r *execRecognizer) Transcribe(ctx context.Context, pcm []byte, sampleRate, channels int) (TranscriptResult, error) {
	file, err := os.CreateTemp("", "stt_bench_*.wav")
	if err != nil {
		return TranscriptResult{}, fmt.Errorf("temp file: %w", err)
	}
	defer os.Remove(file.Name())
	defer file.Close()

	if err := audio.WritePCMToWav(file, pcm, sampleRate, channels); err != nil {
		return TranscriptResult{}, err
	}

	cmdArgs := append([]string{}, r.cmd[1:]...)
	cmdArgs = append(cmdArgs, "--audio", file.Name())
	if r.cfg.ModelPath != "" {
		cmdArgs = append(cmdArgs, "--model", r.cfg.ModelPath)
	}
	if r.cfg.Language != "" {
		cmdArgs = append(cmdArgs, "--language", r.cfg.Language)
	}

	command := exec.CommandContext(ctx, r.cmd[0], cmdArgs...)
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	command.Stdout = &stdout
	command.Stderr = &stderr

	if err := command.Run(); err != nil {
		return TranscriptResult{}, fmt.Errorf("stt command failed: %w: %s", err, stderr.String())
	}

	var resp execResult
	if err := json.Unmarshal(stdout.Bytes(), &resp); err != nil {
		return TranscriptResult{}, fmt.Errorf("decode stt response: %w", err)
	}
	return TranscriptResult{Text: resp.Text, Confidence: resp.Confidence}, nil
}
