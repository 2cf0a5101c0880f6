package driven

import (
	"context"
	"errors"

	"github.com/ericfisherdev/placementpanel/internal/domain/model"
)

// ErrRecordNotFound indicates the addressed visit record does not exist.
var ErrRecordNotFound = errors.New("visit record not found")

// VisitStore defines the driven port for visit record persistence. The store
// is an opaque row store: callers get no version checks, so concurrent writers
// are last-write-wins.
type VisitStore interface {
	// List returns every record, newest first.
	List(ctx context.Context) ([]model.VisitRecord, error)

	// Insert creates the given records and returns them with IDs and
	// creation times assigned, in input order. Incoming IDs are ignored.
	Insert(ctx context.Context, records []model.VisitRecord) ([]model.VisitRecord, error)

	// Update overwrites the fixed fields of each record, keyed by ID.
	// Returns ErrRecordNotFound if any ID is unknown; no record is written then.
	Update(ctx context.Context, records []model.VisitRecord) error

	// Upsert updates records whose ID exists and inserts the rest.
	Upsert(ctx context.Context, records []model.VisitRecord) ([]model.VisitRecord, error)

	// Delete removes one record. Returns ErrRecordNotFound if it does not exist.
	Delete(ctx context.Context, id string) error

	// DeleteAll removes every record and reports how many were removed.
	DeleteAll(ctx context.Context) (int64, error)
}
