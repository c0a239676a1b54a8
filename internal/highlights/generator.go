// Package highlights derives a title, highlight list and keyword tags from a
// transcript with a language model.
package highlights

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/responses"
	"github.com/openai/openai-go/v3/shared"

	"voice-notes-go/internal/logger"
	"voice-notes-go/internal/types"
)

const generatePrompt = `You are a note-taking assistant. Analyze this voice note transcript:
"""%s"""

Return ONLY a JSON object with keys:
title (a short descriptive title for the note),
highlights (a list of the most important points, each a short phrase),
keywords (a list of 1-5 single-word topic tags, lowercase).

DO NOT include commentary. DO NOT wrap the JSON in backticks.`

// Generator produces structured note metadata from a transcript. Callers
// substitute empty defaults when it fails; note creation never depends on it.
type Generator interface {
	Generate(ctx context.Context, transcript string) (types.NoteHighlights, error)
}

// OpenAIGenerator asks the responses API for schema-constrained JSON.
type OpenAIGenerator struct {
	client openai.Client
	model  string
}

func NewOpenAIGenerator(client openai.Client, model string) *OpenAIGenerator {
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAIGenerator{client: client, model: model}
}

func (g *OpenAIGenerator) Generate(ctx context.Context, transcript string) (types.NoteHighlights, error) {
	if strings.TrimSpace(transcript) == "" {
		return types.NoteHighlights{}, errors.New("transcript is empty")
	}

	log := logger.New().WithField("module", "highlights")

	schema, err := generateSchema[types.NoteHighlights]()
	if err != nil {
		return types.NoteHighlights{}, fmt.Errorf("build schema: %w", err)
	}

	params := responses.ResponseNewParams{
		Model: shared.ResponsesModel(g.model),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: openai.String(fmt.Sprintf(generatePrompt, transcript)),
		},
		Text: responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
					Name:   "note_highlights",
					Schema: schema,
					Strict: openai.Bool(true),
				},
			},
		},
	}

	response, err := g.client.Responses.New(ctx, params)
	if err != nil {
		return types.NoteHighlights{}, fmt.Errorf("generation request: %w", err)
	}
	if response == nil {
		return types.NoteHighlights{}, errors.New("responses API returned nil response")
	}

	output := strings.TrimSpace(response.OutputText())
	if output == "" {
		return types.NoteHighlights{}, errors.New("generation output is empty")
	}

	result, err := ParseHighlights(output)
	if err != nil {
		log.WithError(err).Warn("unparsable generation output")
		return types.NoteHighlights{}, err
	}
	return result, nil
}

// ParseHighlights decodes the model output, salvaging the JSON object
// substring when the model wraps it in prose despite instructions.
func ParseHighlights(output string) (types.NoteHighlights, error) {
	var result types.NoteHighlights
	if err := json.Unmarshal([]byte(output), &result); err == nil {
		return result, nil
	}

	start := strings.Index(output, "{")
	end := strings.LastIndex(output, "}")
	if start >= 0 && end > start {
		if err := json.Unmarshal([]byte(output[start:end+1]), &result); err == nil {
			return result, nil
		}
	}
	return types.NoteHighlights{}, fmt.Errorf("unexpected generation output: %s", output)
}

func generateSchema[T any]() (map[string]any, error) {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}

	var value T
	schema := reflector.Reflect(value)

	schemaJSON, err := json.Marshal(schema)
	if err != nil {
		return nil, err
	}

	var schemaMap map[string]any
	if err := json.Unmarshal(schemaJSON, &schemaMap); err != nil {
		return nil, err
	}
	return schemaMap, nil
}

// MockGenerator returns deterministic metadata for offline demos
// (USE_MOCK_LLM=true).
type MockGenerator struct{}

func (MockGenerator) Generate(ctx context.Context, transcript string) (types.NoteHighlights, error) {
	return types.NoteHighlights{
		Title:      "Grocery list",
		Highlights: []string{"milk", "eggs", "call the plumber"},
		Keywords:   []string{"grocery", "errands"},
	}, nil
}
