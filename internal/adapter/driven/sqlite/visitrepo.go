package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ericfisherdev/placementpanel/internal/domain/model"
	"github.com/ericfisherdev/placementpanel/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.VisitStore = (*VisitRepo)(nil)

// timeLayout is fixed-width so created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const visitColumns = `id, visit_type, date_of_visit, company_name, address, location,
	contact_person, contact_number, mail_id, company_type, salary_package, remark, created_at`

// VisitRepo is the SQLite implementation of the VisitStore port interface.
type VisitRepo struct {
	db  *DB
	now func() time.Time
}

// NewVisitRepo creates a new VisitRepo backed by the given DB.
func NewVisitRepo(db *DB) *VisitRepo {
	return &VisitRepo{db: db, now: time.Now}
}

// List returns all records, newest batch first. Rows of the same batch keep
// the order they were inserted in.
func (r *VisitRepo) List(ctx context.Context) ([]model.VisitRecord, error) {
	query := `SELECT ` + visitColumns + ` FROM visit_records ORDER BY created_at DESC, rowid ASC`

	rows, err := r.db.Reader.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query visit records: %w", err)
	}
	defer rows.Close()

	var records []model.VisitRecord
	for rows.Next() {
		rec, err := scanVisit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan visit record: %w", err)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate visit records: %w", err)
	}

	return records, nil
}

// Insert writes all records in one transaction. Each receives a fresh UUIDv7
// and the batch shares a single created_at.
func (r *VisitRepo) Insert(ctx context.Context, records []model.VisitRecord) ([]model.VisitRecord, error) {
	if len(records) == 0 {
		return nil, nil
	}

	out := make([]model.VisitRecord, 0, len(records))
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		createdAt := r.now().UTC()
		for _, rec := range records {
			id, err := uuid.NewV7()
			if err != nil {
				return fmt.Errorf("generate record id: %w", err)
			}
			rec = rec.Persistable()
			rec.ID = id.String()
			rec.CreatedAt = createdAt
			if err := insertVisit(ctx, tx, rec); err != nil {
				return err
			}
			out = append(out, rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// Update overwrites the fixed fields of existing records. The whole batch is
// rolled back when any ID is unknown.
func (r *VisitRepo) Update(ctx context.Context, records []model.VisitRecord) error {
	if len(records) == 0 {
		return nil
	}

	return r.withTx(ctx, func(tx *sql.Tx) error {
		for _, rec := range records {
			n, err := updateVisit(ctx, tx, rec)
			if err != nil {
				return err
			}
			if n == 0 {
				return fmt.Errorf("update visit record %s: %w", rec.ID, driven.ErrRecordNotFound)
			}
		}
		return nil
	})
}

// Upsert updates records whose ID is already stored and inserts the rest.
// Inserted records keep a caller-supplied ID when present.
func (r *VisitRepo) Upsert(ctx context.Context, records []model.VisitRecord) ([]model.VisitRecord, error) {
	if len(records) == 0 {
		return nil, nil
	}

	out := make([]model.VisitRecord, 0, len(records))
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		createdAt := r.now().UTC()
		for _, rec := range records {
			rec = rec.Persistable()
			if rec.ID != "" {
				n, err := updateVisit(ctx, tx, rec)
				if err != nil {
					return err
				}
				if n > 0 {
					stored, err := scanVisit(tx.QueryRowContext(ctx,
						`SELECT `+visitColumns+` FROM visit_records WHERE id = ?`, rec.ID))
					if err != nil {
						return fmt.Errorf("reload visit record %s: %w", rec.ID, err)
					}
					out = append(out, *stored)
					continue
				}
			} else {
				id, err := uuid.NewV7()
				if err != nil {
					return fmt.Errorf("generate record id: %w", err)
				}
				rec.ID = id.String()
			}
			rec.CreatedAt = createdAt
			if err := insertVisit(ctx, tx, rec); err != nil {
				return err
			}
			out = append(out, rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// Delete removes a single record by ID.
func (r *VisitRepo) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM visit_records WHERE id = ?`

	result, err := r.db.Writer.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete visit record %s: %w", id, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("delete visit record %s: %w", id, driven.ErrRecordNotFound)
	}

	return nil
}

// DeleteAll removes every record unconditionally.
func (r *VisitRepo) DeleteAll(ctx context.Context) (int64, error) {
	result, err := r.db.Writer.ExecContext(ctx, `DELETE FROM visit_records`)
	if err != nil {
		return 0, fmt.Errorf("delete all visit records: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("check rows affected: %w", err)
	}

	return n, nil
}

func (r *VisitRepo) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.Writer.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func insertVisit(ctx context.Context, tx *sql.Tx, rec model.VisitRecord) error {
	query := `INSERT INTO visit_records (` + visitColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	args := make([]any, 0, model.FieldCount()+2)
	args = append(args, rec.ID)
	for _, v := range rec.Values() {
		args = append(args, v)
	}
	args = append(args, rec.CreatedAt.UTC().Format(timeLayout))

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert visit record %q: %w", rec.CompanyName, err)
	}
	return nil
}

func updateVisit(ctx context.Context, tx *sql.Tx, rec model.VisitRecord) (int64, error) {
	const query = `
		UPDATE visit_records SET
			visit_type = ?, date_of_visit = ?, company_name = ?, address = ?, location = ?,
			contact_person = ?, contact_number = ?, mail_id = ?, company_type = ?,
			salary_package = ?, remark = ?
		WHERE id = ?
	`

	args := make([]any, 0, model.FieldCount()+1)
	for _, v := range rec.Values() {
		args = append(args, v)
	}
	args = append(args, rec.ID)

	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("update visit record %s: %w", rec.ID, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("check rows affected: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanVisit(s scanner) (*model.VisitRecord, error) {
	var rec model.VisitRecord
	var createdAt string

	err := s.Scan(
		&rec.ID, &rec.VisitType, &rec.DateOfVisit, &rec.CompanyName, &rec.Address,
		&rec.Location, &rec.ContactPerson, &rec.ContactNumber, &rec.MailID,
		&rec.CompanyType, &rec.SalaryPackage, &rec.Remark, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	rec.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}

	return &rec, nil
}

// parseTime tries multiple SQLite datetime formats.
func parseTime(s string) (time.Time, error) {
	formats := []string{
		timeLayout,
		"2006-01-02T15:04:05Z",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		time.RFC3339Nano,
	}

	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized time format: %s", s)
}
