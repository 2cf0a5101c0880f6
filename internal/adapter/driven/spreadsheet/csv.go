package spreadsheet

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ericfisherdev/placementpanel/internal/domain/model"
	"github.com/ericfisherdev/placementpanel/internal/domain/tabular"
)

// readCSV parses a comma-separated upload into a single sheet named after the
// file. A leading byte order mark is ignored.
func readCSV(name string, r io.Reader) ([]model.Sheet, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	text := strings.TrimPrefix(string(data), "\ufeff")
	rows, err := tabular.ParseDelimited(text, tabular.Comma)
	if errors.Is(err, tabular.ErrEmptyInput) {
		return []model.Sheet{{Name: name}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	return []model.Sheet{{Name: name, Rows: rows}}, nil
}
