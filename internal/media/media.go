// Package media stores raw audio blobs under per-user, collision-free paths.
package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

const (
	fileName    = "voice-note.mp3"
	contentType = "audio/mpeg"
)

// SavedAudio identifies a stored recording.
type SavedAudio struct {
	Path        string `json:"path"`
	ID          string `json:"id"`
	ContentType string `json:"content_type"`
}

// Store is the narrow contract the pipeline needs from an object store.
type Store interface {
	Save(ctx context.Context, userID string, audio []byte) (SavedAudio, error)
}

// FSStore keeps recordings on the local filesystem. Paths follow
// {userID}/{uuid}/voice-note.mp3 so concurrent recordings by the same user
// never collide.
type FSStore struct {
	root string
}

func NewFSStore(root string) *FSStore {
	return &FSStore{root: root}
}

func (s *FSStore) Save(ctx context.Context, userID string, audio []byte) (SavedAudio, error) {
	if userID == "" {
		return SavedAudio{}, fmt.Errorf("user id is required")
	}
	if len(audio) == 0 {
		return SavedAudio{}, fmt.Errorf("audio payload is empty")
	}
	if err := ctx.Err(); err != nil {
		return SavedAudio{}, err
	}

	id := uuid.New().String()
	relPath := filepath.Join(userID, id, fileName)
	fullPath := filepath.Join(s.root, relPath)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return SavedAudio{}, fmt.Errorf("create media dir: %w", err)
	}
	if err := os.WriteFile(fullPath, audio, 0o644); err != nil {
		return SavedAudio{}, fmt.Errorf("write audio file: %w", err)
	}

	return SavedAudio{
		Path:        filepath.ToSlash(relPath),
		ID:          id,
		ContentType: contentType,
	}, nil
}
