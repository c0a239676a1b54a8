package export_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"voice-notes-go/internal/export"
	"voice-notes-go/internal/types"
)

func TestNotesWorkbook(t *testing.T) {
	created := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	f, err := export.Notes([]types.Note{
		{
			ID:         1,
			Title:      "Grocery list",
			Transcript: "Buy milk and eggs",
			Highlights: "milk\neggs",
			CreatedAt:  created,
			Tags:       []types.Tag{{ID: 1, Name: "grocery"}, {ID: 2, Name: "milk"}},
		},
		{
			ID:        2,
			Title:     "Untitled",
			CreatedAt: created,
		},
	})
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Notes")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	require.Equal(t, []string{"ID", "Title", "Created", "Tags", "Highlights", "Transcript"}, rows[0])
	require.Equal(t, "1", rows[1][0])
	require.Equal(t, "Grocery list", rows[1][1])
	require.Equal(t, "grocery, milk", rows[1][3])
	require.Equal(t, "milk; eggs", rows[1][4])
}

func TestNotesWorkbookEmpty(t *testing.T) {
	f, err := export.Notes(nil)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Notes")
	require.NoError(t, err)
	require.Len(t, rows, 1, "header only")
}
