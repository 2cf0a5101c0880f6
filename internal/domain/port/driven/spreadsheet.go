package driven

import (
	"io"

	"github.com/ericfisherdev/placementpanel/internal/domain/model"
)

// SheetReader decodes an uploaded spreadsheet file. The file name selects the
// format by extension.
type SheetReader interface {
	ReadWorkbook(name string, r io.Reader) ([]model.Sheet, error)
}

// SheetWriter encodes sheets as a workbook.
type SheetWriter interface {
	WriteWorkbook(w io.Writer, sheets []model.Sheet) error
}
