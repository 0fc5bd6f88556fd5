// Package transcribe turns audio into text plus time-coded segments via
// a Whisper-compatible transcription endpoint, and provides pure helpers
// over the resulting segments.
package transcribe

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ai-docchat-be/pkg/store"

	openai "github.com/sashabaranov/go-openai"
)

// Result is a full transcription: the joined text and the segments it
// was assembled from.
type Result struct {
	Text     string
	Segments []store.Segment
}

// WhisperTranscriber calls an OpenAI-compatible transcription server
// (faster-whisper-server, LocalAI, or the real thing).
type WhisperTranscriber struct {
	client *openai.Client
	model  string
}

func NewWhisperTranscriber(baseURL, apiKey, model string) *WhisperTranscriber {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL
	return &WhisperTranscriber{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

// Transcribe requests a verbose-JSON transcription so the response
// carries per-segment timestamps, not just the flat text.
func (t *WhisperTranscriber) Transcribe(ctx context.Context, audioPath string) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Minute)
	defer cancel()

	resp, err := t.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    t.model,
		FilePath: audioPath,
		Format:   openai.AudioResponseFormatVerboseJSON,
	})
	if err != nil {
		return nil, fmt.Errorf("transcribe audio: %w", err)
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return nil, fmt.Errorf("empty transcription result")
	}

	segments := make([]store.Segment, 0, len(resp.Segments))
	for _, s := range resp.Segments {
		segments = append(segments, store.Segment{
			Start: s.Start,
			End:   s.End,
			Text:  strings.TrimSpace(s.Text),
		})
	}

	return &Result{Text: text, Segments: segments}, nil
}
