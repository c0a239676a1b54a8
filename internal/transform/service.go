package transform

import (
	"context"
	"fmt"

	"voice-notes-go/internal/logger"
	"voice-notes-go/internal/types"
)

// Storage is the slice of the note store the cache needs.
type Storage interface {
	GetNote(ctx context.Context, id int64) (*types.Note, error)
	GetPromptByType(ctx context.Context, promptType string) (*types.TransformationPrompt, error)
	GetPromptByID(ctx context.Context, id int64) (*types.TransformationPrompt, error)
	InsertTransformationOutput(ctx context.Context, o types.TransformationOutput) (*types.TransformationOutput, error)
	GetTransformationOutput(ctx context.Context, id int64) (*types.TransformationOutput, error)
	UpdateTransformationOutput(ctx context.Context, id int64, transformedText string) (*types.TransformationOutput, error)
}

// Service memoizes transformation outputs per (note, prompt type).
//
// Two concurrent misses for the same key are not coordinated: both may run
// the model and both may persist a row. Reads resolve the duplicates by
// taking the most recent row, so no locking is taken here.
type Service struct {
	storage Storage
	runner  Runner
}

func NewService(storage Storage, runner Runner) *Service {
	return &Service{storage: storage, runner: runner}
}

// GetOrCreate returns the cached transformation for promptType, computing and
// persisting it on a miss. The note's pre-loaded output collection is the
// cache: it is ordered most recent first, so the first match wins. On a miss
// the new row is appended to note.Transformations so later lookups in the
// same request hit without a re-query.
func (s *Service) GetOrCreate(ctx context.Context, note *types.Note, promptType string) (string, error) {
	log := logger.New().WithNote(note.ID).WithField("prompt_type", promptType)

	for _, existing := range note.Transformations {
		if existing.PromptType == promptType {
			log.Debug("transformation cache hit")
			return existing.TransformedText, nil
		}
	}

	prompt, err := s.storage.GetPromptByType(ctx, promptType)
	if err != nil {
		return "", fmt.Errorf("lookup prompt %q: %w", promptType, err)
	}

	text, err := s.runner.Run(ctx, note.Transcript, prompt.Prompt)
	if err != nil || text == "" {
		log.WithError(err).Warn("transformation runner produced no result")
		return "", ErrNoResult
	}

	stored, err := s.storage.InsertTransformationOutput(ctx, types.TransformationOutput{
		NoteID:          note.ID,
		PromptID:        prompt.ID,
		TransformedText: text,
		UserID:          note.UserID,
	})
	if err != nil {
		return "", fmt.Errorf("persist transformation: %w", err)
	}

	note.Transformations = append(note.Transformations, *stored)
	log.WithField("output_id", stored.ID).Info("transformation computed")
	return stored.TransformedText, nil
}

// Refresh bypasses the cache and recomputes the given output row in place.
// It always invokes the runner, even when a cached value exists.
func (s *Service) Refresh(ctx context.Context, outputID int64) (string, error) {
	output, err := s.storage.GetTransformationOutput(ctx, outputID)
	if err != nil {
		return "", fmt.Errorf("lookup output %d: %w", outputID, err)
	}

	note, err := s.storage.GetNote(ctx, output.NoteID)
	if err != nil {
		return "", fmt.Errorf("lookup note %d: %w", output.NoteID, err)
	}

	prompt, err := s.storage.GetPromptByID(ctx, output.PromptID)
	if err != nil {
		return "", fmt.Errorf("lookup prompt %d: %w", output.PromptID, err)
	}

	log := logger.New().WithNote(note.ID).WithField("output_id", outputID)

	text, err := s.runner.Run(ctx, note.Transcript, prompt.Prompt)
	if err != nil || text == "" {
		log.WithError(err).Warn("refresh produced no result")
		return "", ErrNoResult
	}

	updated, err := s.storage.UpdateTransformationOutput(ctx, outputID, text)
	if err != nil {
		return "", fmt.Errorf("persist refreshed transformation: %w", err)
	}

	log.Info("transformation refreshed")
	return updated.TransformedText, nil
}
