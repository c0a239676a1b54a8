package transcript_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"voice-notes-go/internal/transcript"
)

func TestExtractParagraphsList(t *testing.T) {
	got := transcript.ExtractParagraphs(`{"text": ["first", "", "second"]}`)
	require.Equal(t, []string{"first", "", "second"}, got)
}

func TestExtractParagraphsStringSplitsOnNewlines(t *testing.T) {
	got := transcript.ExtractParagraphs(`{"text": "first\n\nsecond"}`)
	require.Equal(t, []string{"first", "", "second"}, got)
}

func TestExtractParagraphsMalformedInputIsOneParagraph(t *testing.T) {
	cases := []string{
		"plain prose, not JSON",
		`{"wrong": "shape"}`,
		`{"text": 42}`,
		`{"text": {"nested": true}}`,
		"{broken json",
	}
	for _, input := range cases {
		got := transcript.ExtractParagraphs(input)
		require.NotEmpty(t, got, "input %q", input)
		require.Equal(t, []string{input}, got, "input %q", input)
	}
}

func TestExtractParagraphsNeverEmpty(t *testing.T) {
	require.Equal(t, []string{""}, transcript.ExtractParagraphs(""))
	require.Equal(t, []string{""}, transcript.ExtractParagraphs(`{"text": []}`))
}

func TestExtractRawText(t *testing.T) {
	require.Equal(t, "first\n\nsecond", transcript.ExtractRawText(`{"text": ["first", "", "second"]}`))
	require.Equal(t, "plain", transcript.ExtractRawText("plain"))
}
