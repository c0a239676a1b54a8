package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"voice-notes-go/internal/types"
)

// ListPrompts returns the configured transformation prompt templates.
func (s *Store) ListPrompts(ctx context.Context) ([]types.TransformationPrompt, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, type, prompt FROM transformation_prompts ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list prompts: %w", err)
	}
	defer rows.Close()

	var prompts []types.TransformationPrompt
	for rows.Next() {
		var p types.TransformationPrompt
		if err := rows.Scan(&p.ID, &p.Type, &p.Prompt); err != nil {
			return nil, fmt.Errorf("scan prompt: %w", err)
		}
		prompts = append(prompts, p)
	}
	return prompts, rows.Err()
}

// GetPromptByType looks up a prompt template by its type label.
func (s *Store) GetPromptByType(ctx context.Context, promptType string) (*types.TransformationPrompt, error) {
	var p types.TransformationPrompt
	err := s.db.QueryRowContext(
		ctx,
		`SELECT id, type, prompt FROM transformation_prompts WHERE type = ?`,
		promptType,
	).Scan(&p.ID, &p.Type, &p.Prompt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select prompt: %w", err)
	}
	return &p, nil
}

// GetPromptByID looks up a prompt template by row id (refresh path).
func (s *Store) GetPromptByID(ctx context.Context, id int64) (*types.TransformationPrompt, error) {
	var p types.TransformationPrompt
	err := s.db.QueryRowContext(
		ctx,
		`SELECT id, type, prompt FROM transformation_prompts WHERE id = ?`,
		id,
	).Scan(&p.ID, &p.Type, &p.Prompt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select prompt: %w", err)
	}
	return &p, nil
}

// InsertTransformationOutput appends a computed transformation row.
func (s *Store) InsertTransformationOutput(ctx context.Context, o types.TransformationOutput) (*types.TransformationOutput, error) {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO transformation_outputs (note_id, prompt_id, transformed_text, user_id, created_at)
         VALUES (?, ?, ?, ?, ?)`,
		o.NoteID,
		o.PromptID,
		o.TransformedText,
		o.UserID,
		now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("insert transformation output: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetTransformationOutput(ctx, id)
}

// GetTransformationOutput fetches one output row with its prompt type joined.
func (s *Store) GetTransformationOutput(ctx context.Context, id int64) (*types.TransformationOutput, error) {
	var o types.TransformationOutput
	var createdAt string
	err := s.db.QueryRowContext(
		ctx,
		`SELECT o.id, o.note_id, o.prompt_id, p.type, o.transformed_text, o.user_id, o.created_at
         FROM transformation_outputs o
         JOIN transformation_prompts p ON p.id = o.prompt_id
         WHERE o.id = ?`,
		id,
	).Scan(&o.ID, &o.NoteID, &o.PromptID, &o.PromptType, &o.TransformedText, &o.UserID, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select transformation output: %w", err)
	}
	o.CreatedAt = parseTimestamp(createdAt)
	return &o, nil
}

// UpdateTransformationOutput replaces the text of an existing output row and
// stamps it with the recomputation time.
func (s *Store) UpdateTransformationOutput(ctx context.Context, id int64, transformedText string) (*types.TransformationOutput, error) {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE transformation_outputs SET transformed_text = ?, created_at = ? WHERE id = ?`,
		transformedText,
		now.Format(time.RFC3339Nano),
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("update transformation output: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return nil, ErrNotFound
	}
	return s.GetTransformationOutput(ctx, id)
}

func (s *Store) noteTransformations(ctx context.Context, noteID int64) ([]types.TransformationOutput, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT o.id, o.note_id, o.prompt_id, p.type, o.transformed_text, o.user_id, o.created_at
         FROM transformation_outputs o
         JOIN transformation_prompts p ON p.id = o.prompt_id
         WHERE o.note_id = ?
         ORDER BY o.created_at DESC, o.id DESC`,
		noteID,
	)
	if err != nil {
		return nil, fmt.Errorf("select note transformations: %w", err)
	}
	defer rows.Close()

	var outputs []types.TransformationOutput
	for rows.Next() {
		var o types.TransformationOutput
		var createdAt string
		if err := rows.Scan(&o.ID, &o.NoteID, &o.PromptID, &o.PromptType, &o.TransformedText, &o.UserID, &createdAt); err != nil {
			return nil, fmt.Errorf("scan transformation output: %w", err)
		}
		o.CreatedAt = parseTimestamp(createdAt)
		outputs = append(outputs, o)
	}
	return outputs, rows.Err()
}
