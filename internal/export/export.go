// Package export renders notes as a downloadable spreadsheet.
package export

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"voice-notes-go/internal/types"
)

const sheetName = "Notes"

var header = []string{"ID", "Title", "Created", "Tags", "Highlights", "Transcript"}

// Notes builds a single-sheet workbook with one row per note. The caller owns
// closing the file after writing it out.
func Notes(notes []types.Note) (*excelize.File, error) {
	f := excelize.NewFile()
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("drop default sheet: %w", err)
	}

	for col, h := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return nil, fmt.Errorf("set header: %w", err)
		}
	}

	for i, note := range notes {
		tagNames := make([]string, 0, len(note.Tags))
		for _, t := range note.Tags {
			tagNames = append(tagNames, t.Name)
		}
		values := []any{
			note.ID,
			note.Title,
			note.CreatedAt.Format("2006-01-02 15:04"),
			strings.Join(tagNames, ", "),
			strings.ReplaceAll(note.Highlights, "\n", "; "),
			note.Transcript,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, fmt.Errorf("data cell: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return nil, fmt.Errorf("set cell: %w", err)
			}
		}
	}

	return f, nil
}
