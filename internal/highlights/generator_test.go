package highlights

import (
	"testing"

	"github.com/stretchr/testify/require"

	"voice-notes-go/internal/types"
)

func TestParseHighlightsCleanJSON(t *testing.T) {
	got, err := ParseHighlights(`{"title":"Grocery list","highlights":["milk","eggs"],"keywords":["grocery"]}`)
	require.NoError(t, err)
	require.Equal(t, types.NoteHighlights{
		Title:      "Grocery list",
		Highlights: []string{"milk", "eggs"},
		Keywords:   []string{"grocery"},
	}, got)
}

func TestParseHighlightsSalvagesWrappedJSON(t *testing.T) {
	output := "Sure, here is the result:\n```json\n" +
		`{"title":"Grocery list","highlights":["milk"],"keywords":["grocery"]}` +
		"\n```\nLet me know if you need anything else."

	got, err := ParseHighlights(output)
	require.NoError(t, err)
	require.Equal(t, "Grocery list", got.Title)
	require.Equal(t, []string{"grocery"}, got.Keywords)
}

func TestParseHighlightsRejectsGarbage(t *testing.T) {
	_, err := ParseHighlights("no json here at all")
	require.Error(t, err)

	_, err = ParseHighlights("{broken")
	require.Error(t, err)
}
