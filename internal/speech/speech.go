// Package speech turns raw audio into transcript text.
package speech

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/openai/openai-go/v3"

	"voice-notes-go/internal/logger"
)

// Transcriber converts a finite audio blob into plain transcript text. A
// failure here aborts note creation, so implementations must return an error
// rather than an empty transcript.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

// OpenAITranscriber uses the audio transcriptions API (whisper family).
type OpenAITranscriber struct {
	client openai.Client
	model  string
}

func NewOpenAITranscriber(client openai.Client, model string) *OpenAITranscriber {
	if model == "" {
		model = "whisper-1"
	}
	return &OpenAITranscriber{client: client, model: model}
}

func (t *OpenAITranscriber) Transcribe(ctx context.Context, audio []byte) (string, error) {
	if len(audio) == 0 {
		return "", errors.New("audio payload is empty")
	}

	log := logger.New().WithField("module", "speech")
	log.WithField("bytes", len(audio)).Info("starting transcription")

	params := openai.AudioTranscriptionNewParams{
		File:           openai.File(bytes.NewReader(audio), "voice-note.mp3", "audio/mpeg"),
		Model:          openai.AudioModel(t.model),
		ResponseFormat: openai.AudioResponseFormatJSON,
	}

	response, err := t.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("transcription request: %w", err)
	}
	if response == nil {
		return "", errors.New("transcriptions API returned nil response")
	}

	transcript := strings.TrimSpace(response.Text)
	if transcript == "" {
		return "", errors.New("transcription response is empty")
	}
	return transcript, nil
}

// MockTranscriber returns a fixed transcript for offline demos
// (USE_MOCK_TRANSCRIBE=true).
type MockTranscriber struct{}

func (MockTranscriber) Transcribe(ctx context.Context, audio []byte) (string, error) {
	if len(audio) == 0 {
		return "", errors.New("audio payload is empty")
	}
	return "MOCK TRANSCRIPT: Remember to buy milk and eggs, and call the plumber about the kitchen sink.", nil
}
