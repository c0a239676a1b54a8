// Package transform applies named prompt templates to transcripts and caches
// the results per (note, prompt type).
package transform

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/responses"
	"github.com/openai/openai-go/v3/shared"
)

const runnerPrompt = `%s

Transcript:
"""%s"""`

// ErrNoResult signals that the runner produced nothing usable. Not fatal: the
// user can re-trigger the transformation.
var ErrNoResult = errors.New("no transformation result")

// Runner executes one prompt template over a transcript and returns the
// model's encoded text verbatim. The encoding is opaque to this package; the
// transcript package unpacks it for display.
type Runner interface {
	Run(ctx context.Context, transcript, prompt string) (string, error)
}

// OpenAIRunner sends the template plus transcript to the responses API.
type OpenAIRunner struct {
	client openai.Client
	model  string
}

func NewOpenAIRunner(client openai.Client, model string) *OpenAIRunner {
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAIRunner{client: client, model: model}
}

func (r *OpenAIRunner) Run(ctx context.Context, transcript, prompt string) (string, error) {
	if strings.TrimSpace(transcript) == "" {
		return "", errors.New("transcript is empty")
	}
	if strings.TrimSpace(prompt) == "" {
		return "", errors.New("prompt is empty")
	}

	params := responses.ResponseNewParams{
		Model: shared.ResponsesModel(r.model),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: openai.String(fmt.Sprintf(runnerPrompt, prompt, transcript)),
		},
	}

	response, err := r.client.Responses.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("transformation request: %w", err)
	}
	if response == nil {
		return "", errors.New("responses API returned nil response")
	}

	return strings.TrimSpace(response.OutputText()), nil
}

// MockRunner returns a deterministic encoded payload for offline demos
// (USE_MOCK_LLM=true).
type MockRunner struct{}

func (MockRunner) Run(ctx context.Context, transcript, prompt string) (string, error) {
	return `{"text": ["Mock transformation of the note.", "", "Nothing else to report."]}`, nil
}
