package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"voice-notes-go/internal/store"
)

func TestReconcileTagsFoldsCaseAndDedupes(t *testing.T) {
	st := newStore(t)
	ctx := context.Background()

	note, err := st.CreateNote(ctx, store.NewNote{Transcript: "x", UserID: "u1"})
	require.NoError(t, err)

	require.NoError(t, st.ReconcileTags(ctx, note.ID, []string{"Milk", "GROCERY", "milk", " grocery "}))

	fetched, err := st.GetNote(ctx, note.ID)
	require.NoError(t, err)
	require.Len(t, fetched.Tags, 2)

	names := []string{fetched.Tags[0].Name, fetched.Tags[1].Name}
	require.ElementsMatch(t, []string{"milk", "grocery"}, names)
}

func TestReconcileTagsReusesExistingTag(t *testing.T) {
	st := newStore(t)
	ctx := context.Background()

	first, err := st.CreateNote(ctx, store.NewNote{Transcript: "a", UserID: "u1"})
	require.NoError(t, err)
	require.NoError(t, st.ReconcileTags(ctx, first.ID, []string{"milk"}))

	second, err := st.CreateNote(ctx, store.NewNote{Transcript: "b", UserID: "u1"})
	require.NoError(t, err)
	require.NoError(t, st.ReconcileTags(ctx, second.ID, []string{"Milk", "grocery"}))

	firstNote, err := st.GetNote(ctx, first.ID)
	require.NoError(t, err)
	secondNote, err := st.GetNote(ctx, second.ID)
	require.NoError(t, err)

	require.Len(t, firstNote.Tags, 1)
	require.Len(t, secondNote.Tags, 2)

	// Same tag row on both notes, not a duplicate.
	var milkID int64
	for _, tag := range secondNote.Tags {
		if tag.Name == "milk" {
			milkID = tag.ID
		}
	}
	require.Equal(t, firstNote.Tags[0].ID, milkID)
}

func TestReconcileTagsIsIdempotent(t *testing.T) {
	st := newStore(t)
	ctx := context.Background()

	note, err := st.CreateNote(ctx, store.NewNote{Transcript: "x", UserID: "u1"})
	require.NoError(t, err)

	require.NoError(t, st.ReconcileTags(ctx, note.ID, []string{"milk"}))
	require.NoError(t, st.ReconcileTags(ctx, note.ID, []string{"milk"}))

	fetched, err := st.GetNote(ctx, note.ID)
	require.NoError(t, err)
	require.Len(t, fetched.Tags, 1)
}

func TestReconcileTagsEmptySetIsNoop(t *testing.T) {
	st := newStore(t)
	ctx := context.Background()

	note, err := st.CreateNote(ctx, store.NewNote{Transcript: "x", UserID: "u1"})
	require.NoError(t, err)

	require.NoError(t, st.ReconcileTags(ctx, note.ID, nil))
	require.NoError(t, st.ReconcileTags(ctx, note.ID, []string{"", "   "}))

	fetched, err := st.GetNote(ctx, note.ID)
	require.NoError(t, err)
	require.Empty(t, fetched.Tags)
}
