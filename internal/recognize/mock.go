package recognize

import (
	"context"
	"fmt"
)

type mockRecognizer struct{}

// NewMockRecognizer returns a recognizer that echoes payload metadata, used
// in tests and dry runs.
func NewMockRecognizer() Recognizer {
	return &mockRecognizer{}
}

func (m *mockRecognizer) Transcribe(_ context.Context, pcm []byte, _ int, _ int) (TranscriptResult, error) {
	return TranscriptResult{
		Text:       fmt.Sprintf("[transcript length=%d]", len(pcm)),
		Confidence: 0,
	}, nil
}
