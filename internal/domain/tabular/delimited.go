package tabular

import (
	"errors"
	"strings"
)

// ErrEmptyInput is returned when there is nothing to parse.
var ErrEmptyInput = errors.New("no tabular data in input")

// Delimiter separates cells within a line.
type Delimiter rune

const (
	// Tab separates cells in clipboard text copied from a spreadsheet.
	Tab Delimiter = '\t'
	// Comma separates cells in CSV files. Only comma input honours quoting.
	Comma Delimiter = ','
)

// ParseDelimited splits text into lines and each line into cells.
//
// For comma input a double quote toggles the in-quotes state, and "" inside a
// quoted cell is a literal quote; delimiters and line breaks inside quotes do
// not split. Cells are trimmed, rows are not padded, and blank lines are
// dropped. ErrEmptyInput is returned when no row survives.
func ParseDelimited(text string, delim Delimiter) ([][]string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyInput
	}

	quoting := delim == Comma
	sep := rune(delim)

	var (
		matrix   [][]string
		row      []string
		cell     strings.Builder
		inQuotes bool
	)

	endCell := func() {
		row = append(row, strings.TrimSpace(cell.String()))
		cell.Reset()
	}
	endRow := func() {
		endCell()
		if !(len(row) == 1 && row[0] == "") {
			matrix = append(matrix, row)
		}
		row = nil
	}

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		switch {
		case quoting && c == '"':
			if inQuotes && i+1 < len(runes) && runes[i+1] == '"' {
				cell.WriteRune('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case c == sep && !inQuotes:
			endCell()
		case (c == '\n' || c == '\r') && !inQuotes:
			if c == '\r' && i+1 < len(runes) && runes[i+1] == '\n' {
				i++
			}
			endRow()
		default:
			cell.WriteRune(c)
		}
	}
	endRow()

	if len(matrix) == 0 {
		return nil, ErrEmptyInput
	}
	return matrix, nil
}
