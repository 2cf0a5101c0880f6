package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/ericfisherdev/placementpanel/internal/domain/model"
	"github.com/ericfisherdev/placementpanel/internal/domain/port/driven"
	"github.com/ericfisherdev/placementpanel/internal/domain/tabular"
)

// ErrNotConfirmed is returned when a destructive operation was declined.
var ErrNotConfirmed = errors.New("operation not confirmed")

// ErrStore wraps every failure reported by the visit store, alongside the
// store's own error.
var ErrStore = errors.New("visit store")

const (
	allRecordsSheet = "All Records"
	serialHeader    = "S.No"
)

// Confirmer approves destructive operations.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmFunc adapts a function to the Confirmer interface.
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

// Confirm calls f.
func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

// Confirmed is a Confirmer that always approves, for callers that collected
// consent up front.
var Confirmed Confirmer = ConfirmFunc(func(context.Context, string) (bool, error) { return true, nil })

// SaveResult counts the rows written by Save.
type SaveResult struct {
	Updated  int `json:"updated"`
	Inserted int `json:"inserted"`
}

// UploadFile is one spreadsheet handed to ImportFiles.
type UploadFile struct {
	Name string
	Body io.Reader
}

// FileReport is the outcome of importing one file.
type FileReport struct {
	Name   string `json:"name"`
	Sheets int    `json:"sheets"`
	Rows   int    `json:"rows"`
	Err    error  `json:"-"`
}

// Failed reports whether the file could not be imported.
func (r FileReport) Failed() bool {
	return r.Err != nil
}

// ImportReport summarises a multi-file import.
type ImportReport struct {
	Files    []FileReport `json:"files"`
	Imported int          `json:"imported"`
}

// Failures returns the reports of files that could not be imported.
func (r ImportReport) Failures() []FileReport {
	var out []FileReport
	for _, f := range r.Files {
		if f.Failed() {
			out = append(out, f)
		}
	}
	return out
}

// RecordService reconciles working sets with the visit store and moves
// records in and out of spreadsheets.
type RecordService struct {
	store  driven.VisitStore
	reader driven.SheetReader
	writer driven.SheetWriter
	logger *slog.Logger
	now    func() time.Time
}

// NewRecordService creates a new RecordService with the required dependencies.
func NewRecordService(store driven.VisitStore, reader driven.SheetReader, writer driven.SheetWriter, logger *slog.Logger) *RecordService {
	return &RecordService{
		store:  store,
		reader: reader,
		writer: writer,
		logger: logger,
		now:    time.Now,
	}
}

// Load replaces the working set with the store's records, newest first.
func (s *RecordService) Load(ctx context.Context, ws *WorkingSet) (int, error) {
	records, err := s.store.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("load visit records: %w: %w", ErrStore, err)
	}
	ws.Replace(records)
	return len(records), nil
}

// Save writes the working set to the store: one bulk update for rows with a
// real ID, then one bulk insert for the rest. Ad-hoc fields are not sent.
// Any failure aborts the save. Inserted rows receive their store IDs in place.
func (s *RecordService) Save(ctx context.Context, ws *WorkingSet) (SaveResult, error) {
	keys, records := ws.keyedSnapshot()

	var updates, inserts []model.VisitRecord
	var insertKeys []uint64
	for i, rec := range records {
		if !rec.IsPending() {
			updates = append(updates, rec.Persistable())
			continue
		}
		pending := rec.Persistable()
		pending.ID = ""
		inserts = append(inserts, pending)
		insertKeys = append(insertKeys, keys[i])
	}

	var res SaveResult
	if len(updates) > 0 {
		if err := s.store.Update(ctx, updates); err != nil {
			return res, fmt.Errorf("update %d visit records: %w: %w", len(updates), ErrStore, err)
		}
		res.Updated = len(updates)
	}

	if len(inserts) > 0 {
		stored, err := s.store.Insert(ctx, inserts)
		if err != nil {
			return res, fmt.Errorf("insert %d visit records: %w: %w", len(inserts), ErrStore, err)
		}
		ws.assignStored(insertKeys, stored)
		res.Inserted = len(inserts)
	}

	s.logger.Info("saved working set", "updated", res.Updated, "inserted", res.Inserted)
	return res, nil
}

// DeleteRow removes the row at index. A stored row is deleted from the store
// first; if that fails the row stays in the working set.
func (s *RecordService) DeleteRow(ctx context.Context, ws *WorkingSet, index int) error {
	key, rec, err := ws.keyAt(index)
	if err != nil {
		return err
	}

	if !rec.IsPending() {
		if err := s.store.Delete(ctx, rec.ID); err != nil {
			return fmt.Errorf("delete visit record: %w: %w", ErrStore, err)
		}
	}

	ws.removeKey(key)
	return nil
}

// DeleteAll asks c for confirmation, then removes every record from the store
// and clears the working set. Declining leaves both untouched.
func (s *RecordService) DeleteAll(ctx context.Context, ws *WorkingSet, c Confirmer) (int64, error) {
	if c == nil {
		return 0, ErrNotConfirmed
	}

	ok, err := c.Confirm(ctx, "Delete ALL visit records? This cannot be undone.")
	if err != nil {
		return 0, fmt.Errorf("confirm delete all: %w", err)
	}
	if !ok {
		return 0, ErrNotConfirmed
	}

	n, err := s.store.DeleteAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("delete all visit records: %w: %w", ErrStore, err)
	}
	if ws != nil {
		ws.Clear()
	}

	s.logger.Warn("deleted all visit records", "count", n)
	return n, nil
}

// ImportText parses delimited text as a bulk import. The first row is used as
// a header when it looks like one. Rows are mapped, date-normalized and
// prepended. On error the working set is unchanged.
func (s *RecordService) ImportText(ws *WorkingSet, text string, delim tabular.Delimiter) (int, error) {
	matrix, err := tabular.ParseDelimited(text, delim)
	if err != nil {
		return 0, err
	}

	records, err := tabular.Records(matrix, tabular.DetectHeader(matrix))
	if err != nil {
		return 0, err
	}

	return ws.ImportRows(records), nil
}

// PasteText parses tab-delimited clipboard text and writes it starting at the
// anchor cell. Cells landing in the visit date column are normalized.
func (s *RecordService) PasteText(ws *WorkingSet, text string, anchor Anchor) (PasteResult, error) {
	matrix, err := tabular.ParseDelimited(text, tabular.Tab)
	if err != nil {
		return PasteResult{}, err
	}

	if dateCol := model.FieldDateOfVisit.Index() - anchor.Field.Index(); anchor.Field.Valid() && dateCol >= 0 {
		for _, cells := range matrix {
			if dateCol < len(cells) {
				cells[dateCol] = tabular.NormalizeDate(cells[dateCol])
			}
		}
	}

	return ws.PasteIntoCell(matrix, anchor)
}

// ImportFiles reads each file independently. Every sheet's first row names
// its columns. A file that fails is recorded in the report and does not stop
// the others; rows from successful files are prepended.
func (s *RecordService) ImportFiles(ctx context.Context, ws *WorkingSet, files []UploadFile) ImportReport {
	var report ImportReport
	var all []model.VisitRecord

	for _, f := range files {
		if ctx.Err() != nil {
			report.Files = append(report.Files, FileReport{Name: f.Name, Err: ctx.Err()})
			continue
		}

		fr, records := s.importFile(f)
		if fr.Err != nil {
			s.logger.Warn("import file failed", "file", f.Name, "error", fr.Err)
		}
		report.Files = append(report.Files, fr)
		all = append(all, records...)
	}

	report.Imported = ws.ImportRows(all)
	return report
}

func (s *RecordService) importFile(f UploadFile) (FileReport, []model.VisitRecord) {
	fr := FileReport{Name: f.Name}

	sheets, err := s.reader.ReadWorkbook(f.Name, f.Body)
	if err != nil {
		fr.Err = err
		return fr, nil
	}
	fr.Sheets = len(sheets)

	var records []model.VisitRecord
	for _, sheet := range sheets {
		recs, err := tabular.Records(sheet.Rows, true)
		if errors.Is(err, tabular.ErrNoDataRows) {
			continue
		}
		if err != nil {
			fr.Err = fmt.Errorf("sheet %q: %w", sheet.Name, err)
			return fr, nil
		}
		records = append(records, recs...)
	}

	if len(records) == 0 {
		fr.Err = tabular.ErrNoDataRows
		return fr, nil
	}
	fr.Rows = len(records)
	return fr, records
}

// Export writes the working set rows matching q as a workbook. With multi set,
// an "All Records" sheet is followed by one sheet per visit category that has
// at least one row.
func (s *RecordService) Export(_ context.Context, w io.Writer, ws *WorkingSet, q Query, multi bool) error {
	matched := ws.Filter(q)
	records := make([]model.VisitRecord, 0, len(matched))
	for _, m := range matched {
		records = append(records, m.Record)
	}
	return s.ExportRecords(w, records, multi)
}

// ExportRecords writes records as a workbook; see Export.
func (s *RecordService) ExportRecords(w io.Writer, records []model.VisitRecord, multi bool) error {
	sheets := []model.Sheet{exportSheet(allRecordsSheet, records)}

	if multi {
		for _, c := range model.VisitCategories() {
			var matching []model.VisitRecord
			for _, rec := range records {
				if c.Matches(rec.VisitType) {
					matching = append(matching, rec)
				}
			}
			if len(matching) > 0 {
				sheets = append(sheets, exportSheet(string(c), matching))
			}
		}
	}

	if err := s.writer.WriteWorkbook(w, sheets); err != nil {
		return fmt.Errorf("write export workbook: %w", err)
	}
	return nil
}

// ExportFileName returns the download name for an export made now.
func (s *RecordService) ExportFileName() string {
	return "Visit_Records_" + s.now().Format("2006-01-02") + ".xlsx"
}

// Template writes an import template: the header row and two example rows.
func (s *RecordService) Template(w io.Writer) error {
	examples := []model.VisitRecord{
		{
			VisitType:     string(model.VisitOnCampus),
			DateOfVisit:   "2024-08-14",
			CompanyName:   "Acme Technologies",
			Address:       "12 Industrial Estate",
			Location:      "Pune",
			ContactPerson: "R. Sharma",
			ContactNumber: "9876543210",
			MailID:        "hr@acme.example",
			CompanyType:   "Product",
			SalaryPackage: "6 LPA",
			Remark:        "PPO offered to 2 interns",
		},
		{
			VisitType:     string(model.VisitVirtual),
			DateOfVisit:   "2024-09-02",
			CompanyName:   "Globex Services",
			Location:      "Bengaluru",
			ContactPerson: "A. Iyer",
			MailID:        "campus@globex.example",
			CompanyType:   "Service",
			SalaryPackage: "4.5 LPA",
		},
	}

	rows := [][]string{model.Headers()}
	for _, rec := range examples {
		rows = append(rows, rec.Values())
	}

	if err := s.writer.WriteWorkbook(w, []model.Sheet{{Name: "Template", Rows: rows}}); err != nil {
		return fmt.Errorf("write template workbook: %w", err)
	}
	return nil
}

func exportSheet(name string, records []model.VisitRecord) model.Sheet {
	rows := make([][]string, 0, len(records)+1)
	rows = append(rows, append([]string{serialHeader}, model.Headers()...))
	for i, rec := range records {
		rows = append(rows, append([]string{strconv.Itoa(i + 1)}, rec.Values()...))
	}
	return model.Sheet{Name: name, Rows: rows}
}
