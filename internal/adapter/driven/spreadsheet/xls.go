package spreadsheet

import (
	"fmt"
	"io"
	"strings"

	"github.com/extrame/xls"

	"github.com/ericfisherdev/placementpanel/internal/domain/model"
)

// readXLS decodes a BIFF (.xls) workbook. The format needs random access, so
// the caller buffers the upload first.
func readXLS(r io.ReadSeeker) ([]model.Sheet, error) {
	wb, err := xls.OpenReader(r, "utf-8")
	if err != nil {
		return nil, fmt.Errorf("open xls: %w", err)
	}

	var sheets []model.Sheet
	for i := 0; i < wb.NumSheets(); i++ {
		ws := wb.GetSheet(i)
		if ws == nil {
			continue
		}

		var rows [][]string
		for n := 0; n <= int(ws.MaxRow); n++ {
			row := ws.Row(n)
			if row == nil {
				rows = append(rows, nil)
				continue
			}
			cells := make([]string, 0, row.LastCol())
			for c := 0; c < row.LastCol(); c++ {
				cells = append(cells, strings.TrimSpace(row.Col(c)))
			}
			rows = append(rows, cells)
		}

		sheets = append(sheets, model.Sheet{Name: ws.Name, Rows: trimTrailingEmpty(rows)})
	}

	return sheets, nil
}

func trimTrailingEmpty(rows [][]string) [][]string {
	for len(rows) > 0 && len(rows[len(rows)-1]) == 0 {
		rows = rows[:len(rows)-1]
	}
	return rows
}
