package application_test

import (
	"context"
	"fmt"
	"io"

	"github.com/ericfisherdev/placementpanel/internal/domain/model"
	"github.com/ericfisherdev/placementpanel/internal/domain/port/driven"
)

// --- Mock implementations ---

type mockVisitStore struct {
	stored []model.VisitRecord

	listErr   error
	insertErr error
	updateErr error
	deleteErr error

	insertCalls [][]model.VisitRecord
	updateCalls [][]model.VisitRecord
	deleteCalls []string
	deleteAlls  int
	nextID      int
}

func (m *mockVisitStore) List(_ context.Context) ([]model.VisitRecord, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return append([]model.VisitRecord(nil), m.stored...), nil
}

func (m *mockVisitStore) Insert(_ context.Context, records []model.VisitRecord) ([]model.VisitRecord, error) {
	m.insertCalls = append(m.insertCalls, records)
	if m.insertErr != nil {
		return nil, m.insertErr
	}
	out := make([]model.VisitRecord, 0, len(records))
	for _, rec := range records {
		m.nextID++
		rec.ID = fmt.Sprintf("00000000-0000-7000-8000-%012d", m.nextID)
		out = append(out, rec)
		m.stored = append(m.stored, rec)
	}
	return out, nil
}

func (m *mockVisitStore) Update(_ context.Context, records []model.VisitRecord) error {
	m.updateCalls = append(m.updateCalls, records)
	return m.updateErr
}

func (m *mockVisitStore) Upsert(ctx context.Context, records []model.VisitRecord) ([]model.VisitRecord, error) {
	return m.Insert(ctx, records)
}

func (m *mockVisitStore) Delete(_ context.Context, id string) error {
	m.deleteCalls = append(m.deleteCalls, id)
	if m.deleteErr != nil {
		return m.deleteErr
	}
	for i, rec := range m.stored {
		if rec.ID == id {
			m.stored = append(m.stored[:i], m.stored[i+1:]...)
			return nil
		}
	}
	return driven.ErrRecordNotFound
}

func (m *mockVisitStore) DeleteAll(_ context.Context) (int64, error) {
	m.deleteAlls++
	n := int64(len(m.stored))
	m.stored = nil
	return n, nil
}

type mockSheets struct {
	byName  map[string][]model.Sheet
	errs    map[string]error
	written [][]model.Sheet
}

func (m *mockSheets) ReadWorkbook(name string, _ io.Reader) ([]model.Sheet, error) {
	if err := m.errs[name]; err != nil {
		return nil, err
	}
	return m.byName[name], nil
}

func (m *mockSheets) WriteWorkbook(w io.Writer, sheets []model.Sheet) error {
	m.written = append(m.written, sheets)
	_, err := io.WriteString(w, "xlsx")
	return err
}

type mockSettings struct {
	values map[string]string
	getErr error
}

func (m *mockSettings) Get(_ context.Context, key string) (string, error) {
	if m.getErr != nil {
		return "", m.getErr
	}
	return m.values[key], nil
}

func (m *mockSettings) Set(_ context.Context, key, value string) error {
	if m.values == nil {
		m.values = make(map[string]string)
	}
	m.values[key] = value
	return nil
}
