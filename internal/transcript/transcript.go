// Package transcript unpacks the opaque encoded text the language model
// returns for transformations.
//
// The payload is usually {"text": ...} where text is either a list of
// paragraphs or a single newline-delimited string, but the format is an
// external contract with no version marker. Everything here is total:
// malformed input degrades to a single paragraph, never an error.
package transcript

import (
	"encoding/json"
	"strings"
)

type encodedPayload struct {
	Text json.RawMessage `json:"text"`
}

// ExtractParagraphs splits encoded transformation text into display units.
// Empty units are kept: they render as blank lines, preserving the vertical
// spacing intent of the source text.
func ExtractParagraphs(encoded string) []string {
	if encoded == "" {
		return []string{""}
	}

	var payload encodedPayload
	if err := json.Unmarshal([]byte(encoded), &payload); err != nil || len(payload.Text) == 0 {
		// Not the known encoding; treat the whole input as one paragraph.
		return []string{encoded}
	}

	var list []string
	if err := json.Unmarshal(payload.Text, &list); err == nil {
		if len(list) == 0 {
			return []string{""}
		}
		return list
	}

	var single string
	if err := json.Unmarshal(payload.Text, &single); err == nil {
		return strings.Split(single, "\n")
	}

	return []string{encoded}
}

// ExtractRawText flattens encoded transformation text for plain display.
func ExtractRawText(encoded string) string {
	return strings.Join(ExtractParagraphs(encoded), "\n")
}
