package tabular

import (
	"errors"

	"github.com/ericfisherdev/placementpanel/internal/domain/model"
)

// ErrNoDataRows is returned when a matrix holds no data rows.
var ErrNoDataRows = errors.New("no data rows found")

// Rows converts a matrix into raw rows. With header set, the first row names
// the columns; otherwise columns are addressed positionally by the fixed field
// order.
func Rows(matrix [][]string, header bool) ([]RawRow, error) {
	headers := model.Headers()
	data := matrix
	if header {
		if len(matrix) == 0 {
			return nil, ErrNoDataRows
		}
		headers = matrix[0]
		data = matrix[1:]
	}

	rows := make([]RawRow, 0, len(data))
	for _, cells := range data {
		if blank(cells) {
			continue
		}
		rows = append(rows, Zip(headers, cells))
	}
	if len(rows) == 0 {
		return nil, ErrNoDataRows
	}
	return rows, nil
}

// ToRecord maps a raw row and normalizes its visit date.
func ToRecord(raw RawRow) model.VisitRecord {
	rec := MapRow(raw)
	rec.DateOfVisit = NormalizeDate(rec.DateOfVisit)
	return rec
}

// Records converts a matrix straight into visit records.
func Records(matrix [][]string, header bool) ([]model.VisitRecord, error) {
	rows, err := Rows(matrix, header)
	if err != nil {
		return nil, err
	}
	out := make([]model.VisitRecord, 0, len(rows))
	for _, raw := range rows {
		out = append(out, ToRecord(raw))
	}
	return out, nil
}

func blank(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return false
		}
	}
	return true
}
