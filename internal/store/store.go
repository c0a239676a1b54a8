// Package store persists notes, tags and transformation outputs in SQLite.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"voice-notes-go/internal/types"
)

//go:embed schema.sql
var schemaSQL string

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// Store wraps the SQLite database holding all note data.
type Store struct {
	db   *sql.DB
	path string
}

// Open connects to the database at path, applies pragmas and ensures the
// schema (including seeded transformation prompts) exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// NewNote carries the fields the pipeline persists for a freshly created note.
type NewNote struct {
	Title         string
	Transcript    string
	Highlights    string
	AudioFilePath string
	AudioFileID   string
	UserID        string
}

// CreateNote inserts a note row and returns the stored note.
func (s *Store) CreateNote(ctx context.Context, n NewNote) (*types.Note, error) {
	if n.UserID == "" {
		return nil, fmt.Errorf("user id is required")
	}
	now := time.Now().UTC()

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO notes (title, transcript, highlights, audio_file_path, audio_file_id, user_id, created_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		n.Title,
		n.Transcript,
		n.Highlights,
		n.AudioFilePath,
		n.AudioFileID,
		n.UserID,
		now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("insert note: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	return s.GetNote(ctx, id)
}

// GetNote fetches a note with its tags and transformation outputs. Outputs are
// ordered most recent first so the first match per prompt type wins.
func (s *Store) GetNote(ctx context.Context, id int64) (*types.Note, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT id, title, transcript, highlights, audio_file_path, audio_file_id, user_id, created_at
         FROM notes WHERE id = ?`,
		id,
	)

	note, err := scanNote(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select note: %w", err)
	}

	tags, err := s.noteTags(ctx, id)
	if err != nil {
		return nil, err
	}
	note.Tags = tags

	outputs, err := s.noteTransformations(ctx, id)
	if err != nil {
		return nil, err
	}
	note.Transformations = outputs

	return note, nil
}

// ListNotes returns a user's notes, newest first, optionally filtered by tag
// name (already lowercase in storage, folded here for safety).
func (s *Store) ListNotes(ctx context.Context, userID, tag string) ([]types.Note, error) {
	query := `SELECT id, title, transcript, highlights, audio_file_path, audio_file_id, user_id, created_at
              FROM notes WHERE user_id = ?`
	args := []any{userID}
	if tag != "" {
		query += ` AND id IN (
            SELECT nt.note_id FROM note_tags nt
            JOIN tags t ON t.id = nt.tag_id
            WHERE t.name = lower(?))`
		args = append(args, tag)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()

	var notes []types.Note
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		tags, err := s.noteTags(ctx, note.ID)
		if err != nil {
			return nil, err
		}
		note.Tags = tags
		notes = append(notes, *note)
	}
	return notes, rows.Err()
}

// UpdateTranscript replaces a note's transcript text.
func (s *Store) UpdateTranscript(ctx context.Context, id int64, transcript string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE notes SET transcript = ? WHERE id = ?`, transcript, id)
	if err != nil {
		return fmt.Errorf("update transcript: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNote(r rowScanner) (*types.Note, error) {
	var note types.Note
	var createdAt string
	if err := r.Scan(
		&note.ID,
		&note.Title,
		&note.Transcript,
		&note.Highlights,
		&note.AudioFilePath,
		&note.AudioFileID,
		&note.UserID,
		&createdAt,
	); err != nil {
		return nil, err
	}
	note.CreatedAt = parseTimestamp(createdAt)
	return &note, nil
}

func parseTimestamp(value string) time.Time {
	ts, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return ts
}
