// Package spreadsheet reads and writes visit record workbooks. Uploads may be
// .xlsx, legacy .xls or .csv; exports are always .xlsx.
package spreadsheet

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ericfisherdev/placementpanel/internal/domain/model"
	"github.com/ericfisherdev/placementpanel/internal/domain/port/driven"
)

// ErrUnsupportedFormat is returned for files whose extension no reader handles.
var ErrUnsupportedFormat = errors.New("unsupported spreadsheet format")

// maxSheetName is the longest sheet name Excel accepts.
const maxSheetName = 31

// Compile-time interface satisfaction checks.
var (
	_ driven.SheetReader = (*Workbook)(nil)
	_ driven.SheetWriter = (*Workbook)(nil)
)

// Workbook implements both spreadsheet ports.
type Workbook struct{}

// New creates a Workbook codec.
func New() *Workbook {
	return &Workbook{}
}

// ReadWorkbook decodes every sheet of the named file. Cell values are returned
// raw, so date cells arrive as spreadsheet serial numbers.
func (w *Workbook) ReadWorkbook(name string, r io.Reader) ([]model.Sheet, error) {
	ext := strings.ToLower(filepath.Ext(name))

	switch ext {
	case ".xlsx", ".xlsm":
		return readXLSX(r)
	case ".xls":
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		return readXLS(bytes.NewReader(data))
	case ".csv":
		return readCSV(strings.TrimSuffix(filepath.Base(name), filepath.Ext(name)), r)
	default:
		return nil, fmt.Errorf("%s: %w", name, ErrUnsupportedFormat)
	}
}

// WriteWorkbook encodes sheets as xlsx, in order.
func (w *Workbook) WriteWorkbook(out io.Writer, sheets []model.Sheet) error {
	return writeXLSX(out, sheets)
}

// Supported reports whether a reader exists for the file name's extension.
func Supported(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm", ".xls", ".csv":
		return true
	}
	return false
}

func sheetName(name string) string {
	if r := []rune(name); len(r) > maxSheetName {
		return string(r[:maxSheetName])
	}
	return name
}
