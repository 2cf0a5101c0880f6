package application

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/ericfisherdev/placementpanel/internal/domain/model"
)

var (
	// ErrRowOutOfRange is returned when a row index does not address a row.
	ErrRowOutOfRange = errors.New("row index out of range")
	// ErrUnknownField is returned when a field name is neither fixed nor ad-hoc.
	ErrUnknownField = errors.New("unknown field")
	// ErrDuplicateField is returned when adding an ad-hoc field that already exists.
	ErrDuplicateField = errors.New("field already exists")
)

// Anchor addresses the cell where an anchored paste starts.
type Anchor struct {
	Row   int
	Field model.Field
}

// PasteResult reports how many existing rows were overwritten and how many
// rows were appended to hold the remainder of a paste.
type PasteResult struct {
	Touched int `json:"touched"`
	Created int `json:"created"`
}

// IndexedRecord is a record together with its current position in the working set.
type IndexedRecord struct {
	Index  int               `json:"index"`
	Record model.VisitRecord `json:"record"`
}

// Query selects rows of a working set. Text is matched as a case-insensitive
// substring against the searchable fields; every entry of Fields must equal
// the row's value, ignoring case.
type Query struct {
	Text   string
	Fields map[model.Field]string
}

// IsZero reports whether the query matches everything.
func (q Query) IsZero() bool {
	if strings.TrimSpace(q.Text) != "" {
		return false
	}
	for _, v := range q.Fields {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

var searchFields = []model.Field{
	model.FieldCompanyName,
	model.FieldContactPerson,
	model.FieldLocation,
	model.FieldMailID,
	model.FieldRemark,
}

// row pairs a record with a key that stays stable while rows around it are
// inserted or removed.
type row struct {
	key uint64
	rec model.VisitRecord
}

// WorkingSet is the in-memory collection of records edited in one session.
// It is safe for concurrent use.
type WorkingSet struct {
	mu      sync.Mutex
	rows    []row
	extras  []string
	nextKey uint64
}

// NewWorkingSet creates an empty working set.
func NewWorkingSet() *WorkingSet {
	return &WorkingSet{}
}

// Replace discards all rows and loads records in order. Ad-hoc field names
// are kept.
func (ws *WorkingSet) Replace(records []model.VisitRecord) {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	ws.rows = make([]row, 0, len(records))
	for _, rec := range records {
		ws.rows = append(ws.rows, ws.newRow(rec.Clone()))
	}
}

// AddRow prepends an empty pending row.
func (ws *WorkingSet) AddRow() {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	ws.rows = append([]row{ws.newRow(model.VisitRecord{})}, ws.rows...)
}

// SetCell writes one fixed or ad-hoc field of the row at index.
func (ws *WorkingSet) SetCell(index int, field, value string) error {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	if index < 0 || index >= len(ws.rows) {
		return fmt.Errorf("set cell at row %d: %w", index, ErrRowOutOfRange)
	}

	rec := &ws.rows[index].rec
	if rec.Set(model.Field(field), value) {
		return nil
	}
	if !ws.hasExtra(field) {
		return fmt.Errorf("set cell %q: %w", field, ErrUnknownField)
	}
	if rec.Extra == nil {
		rec.Extra = make(map[string]string)
	}
	rec.Extra[field] = value
	return nil
}

// AddField appends an ad-hoc field. Names are trimmed and may not collide
// with a fixed field key, a fixed header, or an existing ad-hoc field.
func (ws *WorkingSet) AddField(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("add field: %w", ErrUnknownField)
	}

	ws.mu.Lock()
	defer ws.mu.Unlock()

	for _, f := range model.Fields() {
		if strings.EqualFold(name, string(f)) || strings.EqualFold(name, f.Header()) {
			return "", fmt.Errorf("add field %q: %w", name, ErrDuplicateField)
		}
	}
	for _, existing := range ws.extras {
		if strings.EqualFold(name, existing) {
			return "", fmt.Errorf("add field %q: %w", name, ErrDuplicateField)
		}
	}

	ws.extras = append(ws.extras, name)
	return name, nil
}

// Fields returns the fixed field keys in canonical order followed by ad-hoc
// field names in the order they were added.
func (ws *WorkingSet) Fields() []string {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	out := make([]string, 0, model.FieldCount()+len(ws.extras))
	for _, f := range model.Fields() {
		out = append(out, string(f))
	}
	return append(out, ws.extras...)
}

// ExtraFields returns the ad-hoc field names.
func (ws *WorkingSet) ExtraFields() []string {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	return append([]string(nil), ws.extras...)
}

// PasteIntoCell writes matrix cell (i, j) into row anchor.Row+i at fixed field
// position anchor.Field.Index()+j. Cells past the last fixed field are
// dropped. Rows needed past the end of the set are appended as pending rows.
// Nothing outside the pasted rectangle changes.
func (ws *WorkingSet) PasteIntoCell(matrix [][]string, anchor Anchor) (PasteResult, error) {
	start := anchor.Field.Index()
	if start < 0 {
		return PasteResult{}, fmt.Errorf("paste at field %q: %w", anchor.Field, ErrUnknownField)
	}

	ws.mu.Lock()
	defer ws.mu.Unlock()

	if anchor.Row < 0 || anchor.Row >= len(ws.rows) {
		return PasteResult{}, fmt.Errorf("paste at row %d: %w", anchor.Row, ErrRowOutOfRange)
	}

	var res PasteResult
	for i, cells := range matrix {
		target := anchor.Row + i
		if target >= len(ws.rows) {
			ws.rows = append(ws.rows, ws.newRow(model.VisitRecord{}))
			res.Created++
		} else {
			res.Touched++
		}

		rec := &ws.rows[target].rec
		for j, value := range cells {
			f, ok := model.FieldAt(start + j)
			if !ok {
				break
			}
			rec.Set(f, value)
		}
	}

	return res, nil
}

// ImportRows prepends records, keeping their relative order, and returns how
// many were added.
func (ws *WorkingSet) ImportRows(records []model.VisitRecord) int {
	if len(records) == 0 {
		return 0
	}

	ws.mu.Lock()
	defer ws.mu.Unlock()

	added := make([]row, 0, len(records)+len(ws.rows))
	for _, rec := range records {
		added = append(added, ws.newRow(rec.Clone()))
	}
	ws.rows = append(added, ws.rows...)
	return len(records)
}

// Row returns a copy of the record at index.
func (ws *WorkingSet) Row(index int) (model.VisitRecord, error) {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	if index < 0 || index >= len(ws.rows) {
		return model.VisitRecord{}, fmt.Errorf("row %d: %w", index, ErrRowOutOfRange)
	}
	return ws.rows[index].rec.Clone(), nil
}

// Remove deletes the row at index and returns it.
func (ws *WorkingSet) Remove(index int) (model.VisitRecord, error) {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	if index < 0 || index >= len(ws.rows) {
		return model.VisitRecord{}, fmt.Errorf("remove row %d: %w", index, ErrRowOutOfRange)
	}
	removed := ws.rows[index].rec
	ws.rows = append(ws.rows[:index], ws.rows[index+1:]...)
	return removed, nil
}

// Clear removes every row. Ad-hoc field names are kept.
func (ws *WorkingSet) Clear() {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	ws.rows = nil
}

// Len returns the number of rows.
func (ws *WorkingSet) Len() int {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	return len(ws.rows)
}

// Snapshot returns deep copies of all rows in order.
func (ws *WorkingSet) Snapshot() []model.VisitRecord {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	out := make([]model.VisitRecord, 0, len(ws.rows))
	for _, r := range ws.rows {
		out = append(out, r.rec.Clone())
	}
	return out
}

// Filter returns the rows matching q with their current indexes.
func (ws *WorkingSet) Filter(q Query) []IndexedRecord {
	text := strings.ToLower(strings.TrimSpace(q.Text))

	ws.mu.Lock()
	defer ws.mu.Unlock()

	out := make([]IndexedRecord, 0, len(ws.rows))
	for i, r := range ws.rows {
		if matches(&r.rec, text, q.Fields) {
			out = append(out, IndexedRecord{Index: i, Record: r.rec.Clone()})
		}
	}
	return out
}

// DistinctValues returns the sorted distinct non-empty values of a fixed field.
func (ws *WorkingSet) DistinctValues(f model.Field) []string {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	seen := make(map[string]bool)
	var out []string
	for _, r := range ws.rows {
		v := strings.TrimSpace(r.rec.Get(f))
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// keyedSnapshot returns the row keys alongside a snapshot, for callers that
// write results back after an unlocked remote call.
func (ws *WorkingSet) keyedSnapshot() ([]uint64, []model.VisitRecord) {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	keys := make([]uint64, 0, len(ws.rows))
	recs := make([]model.VisitRecord, 0, len(ws.rows))
	for _, r := range ws.rows {
		keys = append(keys, r.key)
		recs = append(recs, r.rec.Clone())
	}
	return keys, recs
}

// keyAt returns the stable key of the row at index.
func (ws *WorkingSet) keyAt(index int) (uint64, model.VisitRecord, error) {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	if index < 0 || index >= len(ws.rows) {
		return 0, model.VisitRecord{}, fmt.Errorf("row %d: %w", index, ErrRowOutOfRange)
	}
	r := ws.rows[index]
	return r.key, r.rec.Clone(), nil
}

// assignStored sets the store ID and creation time on rows still present.
func (ws *WorkingSet) assignStored(keys []uint64, stored []model.VisitRecord) {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	byKey := make(map[uint64]model.VisitRecord, len(keys))
	for i, k := range keys {
		if i < len(stored) {
			byKey[k] = stored[i]
		}
	}
	for i := range ws.rows {
		if s, ok := byKey[ws.rows[i].key]; ok {
			ws.rows[i].rec.ID = s.ID
			ws.rows[i].rec.CreatedAt = s.CreatedAt
		}
	}
}

// removeKey deletes the row with the given key if it is still present.
func (ws *WorkingSet) removeKey(key uint64) bool {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	for i, r := range ws.rows {
		if r.key == key {
			ws.rows = append(ws.rows[:i], ws.rows[i+1:]...)
			return true
		}
	}
	return false
}

func (ws *WorkingSet) newRow(rec model.VisitRecord) row {
	ws.nextKey++
	return row{key: ws.nextKey, rec: rec}
}

func (ws *WorkingSet) hasExtra(name string) bool {
	for _, e := range ws.extras {
		if e == name {
			return true
		}
	}
	return false
}

func matches(rec *model.VisitRecord, text string, fields map[model.Field]string) bool {
	for f, want := range fields {
		want = strings.TrimSpace(want)
		if want == "" {
			continue
		}
		if !strings.EqualFold(strings.TrimSpace(rec.Get(f)), want) {
			return false
		}
	}

	if text == "" {
		return true
	}
	for _, f := range searchFields {
		if strings.Contains(strings.ToLower(rec.Get(f)), text) {
			return true
		}
	}
	return false
}
