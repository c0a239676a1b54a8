package store

import (
	"context"
	"fmt"
	"strings"

	"voice-notes-go/internal/types"
)

// ReconcileTags ensures one tag exists per distinct lowercase keyword and
// links each of them to the note. Safe to call with keywords that already
// exist as tags; an empty keyword set is a no-op.
func (s *Store) ReconcileTags(ctx context.Context, noteID int64, keywords []string) error {
	names := normalizeKeywords(keywords)
	if len(names) == 0 {
		return nil
	}

	// Existing tags whose name is in the keyword set.
	existing, err := s.tagsByName(ctx, names)
	if err != nil {
		return err
	}

	// Upsert the full set, ignoring name conflicts.
	for _, name := range names {
		if _, err := s.db.ExecContext(
			ctx,
			`INSERT INTO tags (name) VALUES (?) ON CONFLICT(name) DO NOTHING`,
			name,
		); err != nil {
			return fmt.Errorf("upsert tag %q: %w", name, err)
		}
	}

	// The upsert reports nothing for pre-existing names, so re-select the
	// full set and union it with what we saw before.
	inserted, err := s.tagsByName(ctx, names)
	if err != nil {
		return err
	}
	byID := make(map[int64]types.Tag, len(existing)+len(inserted))
	for _, t := range existing {
		byID[t.ID] = t
	}
	for _, t := range inserted {
		byID[t.ID] = t
	}

	for id := range byID {
		if _, err := s.db.ExecContext(
			ctx,
			`INSERT INTO note_tags (note_id, tag_id) VALUES (?, ?) ON CONFLICT DO NOTHING`,
			noteID,
			id,
		); err != nil {
			return fmt.Errorf("link tag %d to note %d: %w", id, noteID, err)
		}
	}
	return nil
}

func (s *Store) tagsByName(ctx context.Context, names []string) ([]types.Tag, error) {
	placeholders := strings.Repeat("?,", len(names))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, len(names))
	for i, n := range names {
		args[i] = n
	}

	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, name FROM tags WHERE name IN (`+placeholders+`)`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("select tags: %w", err)
	}
	defer rows.Close()

	var tags []types.Tag
	for rows.Next() {
		var t types.Tag
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

func (s *Store) noteTags(ctx context.Context, noteID int64) ([]types.Tag, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT t.id, t.name FROM tags t
         JOIN note_tags nt ON nt.tag_id = t.id
         WHERE nt.note_id = ?
         ORDER BY t.name`,
		noteID,
	)
	if err != nil {
		return nil, fmt.Errorf("select note tags: %w", err)
	}
	defer rows.Close()

	var tags []types.Tag
	for rows.Next() {
		var t types.Tag
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, fmt.Errorf("scan note tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// normalizeKeywords lowercases, trims and dedupes while keeping input order.
func normalizeKeywords(keywords []string) []string {
	seen := make(map[string]struct{}, len(keywords))
	var names []string
	for _, k := range keywords {
		name := strings.ToLower(strings.TrimSpace(k))
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}
