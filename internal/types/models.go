package types

import "time"

// Note is a persisted voice recording plus its transcript and derived
// metadata. Tags and Transformations are populated on fetch; Transformations
// are ordered most recent first.
type Note struct {
	ID              int64                  `json:"id"`
	Title           string                 `json:"title"`
	Transcript      string                 `json:"transcript"`
	Highlights      string                 `json:"highlights"`
	AudioFilePath   string                 `json:"audio_file_path"`
	AudioFileID     string                 `json:"audio_file_id"`
	UserID          string                 `json:"user_id"`
	CreatedAt       time.Time              `json:"created_at"`
	Tags            []Tag                  `json:"tags,omitempty"`
	Transformations []TransformationOutput `json:"transformation_outputs,omitempty"`
}

// Tag is a keyword label, globally unique by lowercase name.
type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// TransformationPrompt is reference data: a named prompt template applied to
// transcripts on demand. Type doubles as the cache key and display label.
type TransformationPrompt struct {
	ID     int64  `json:"id"`
	Type   string `json:"type"`
	Prompt string `json:"prompt"`
}

// TransformationOutput is one computed transformation of a note's transcript.
// TransformedText is opaque encoded text, see the transcript package.
type TransformationOutput struct {
	ID              int64     `json:"id"`
	NoteID          int64     `json:"note_id"`
	PromptID        int64     `json:"prompt_id"`
	PromptType      string    `json:"prompt_type,omitempty"`
	TransformedText string    `json:"transformed_text"`
	UserID          string    `json:"user_id"`
	CreatedAt       time.Time `json:"created_at"`
}

// NoteHighlights is the structured generation result derived from a transcript.
type NoteHighlights struct {
	Title      string   `json:"title"`
	Highlights []string `json:"highlights"`
	Keywords   []string `json:"keywords"`
}
