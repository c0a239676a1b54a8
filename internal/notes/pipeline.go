// Package notes runs the note-creation pipeline: audio in, persisted tagged
// note out.
package notes

import (
	"context"
	"fmt"
	"strings"

	"voice-notes-go/internal/highlights"
	"voice-notes-go/internal/logger"
	"voice-notes-go/internal/media"
	"voice-notes-go/internal/speech"
	"voice-notes-go/internal/store"
	"voice-notes-go/internal/types"
)

// Repository is the slice of the store the pipeline writes through.
type Repository interface {
	CreateNote(ctx context.Context, n store.NewNote) (*types.Note, error)
	ReconcileTags(ctx context.Context, noteID int64, keywords []string) error
}

// Pipeline composes transcription, generation, audio storage, note persistence
// and tag reconciliation into the ingestion flow.
type Pipeline struct {
	transcriber speech.Transcriber
	generator   highlights.Generator
	media       media.Store
	repo        Repository
}

func NewPipeline(transcriber speech.Transcriber, generator highlights.Generator, mediaStore media.Store, repo Repository) *Pipeline {
	return &Pipeline{
		transcriber: transcriber,
		generator:   generator,
		media:       mediaStore,
		repo:        repo,
	}
}

// CreateNote turns a raw audio blob into a persisted, tagged note.
//
// Steps run strictly in order: transcribe, generate metadata, store audio,
// insert note, reconcile tags. Transcription, audio storage and the note
// insert are fatal; generation failure degrades to empty defaults and tag
// failures leave the note standing without tags. Committed prefixes are never
// rolled back.
func (p *Pipeline) CreateNote(ctx context.Context, userID string, audio []byte) (*types.Note, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id is required")
	}

	log := logger.New().WithField("module", "pipeline").WithField("user_id", userID)

	transcription, err := p.transcriber.Transcribe(ctx, audio)
	if err != nil {
		return nil, fmt.Errorf("transcribe audio: %w", err)
	}
	log.WithField("transcript_chars", len(transcription)).Info("transcription complete")

	generated, err := p.generator.Generate(ctx, transcription)
	if err != nil {
		// Note creation must not depend on generation succeeding.
		log.WithError(err).Warn("highlight generation failed, using empty defaults")
		generated = types.NoteHighlights{}
	}

	saved, err := p.media.Save(ctx, userID, audio)
	if err != nil {
		return nil, fmt.Errorf("save audio: %w", err)
	}

	note, err := p.repo.CreateNote(ctx, store.NewNote{
		Title:         generated.Title,
		Transcript:    transcription,
		Highlights:    strings.Join(generated.Highlights, "\n"),
		AudioFilePath: saved.Path,
		AudioFileID:   saved.ID,
		UserID:        userID,
	})
	if err != nil {
		return nil, fmt.Errorf("persist note: %w", err)
	}
	log = log.WithField("note_id", note.ID)
	log.Info("note created")

	if len(generated.Keywords) == 0 {
		return note, nil
	}

	// Best effort: the note already exists, a tagging failure must not
	// surface as a pipeline failure.
	if err := p.repo.ReconcileTags(ctx, note.ID, generated.Keywords); err != nil {
		log.WithError(err).Warn("tag reconciliation failed, note stands without tags")
	}
	return note, nil
}
