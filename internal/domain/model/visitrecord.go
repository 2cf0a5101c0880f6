package model

import "time"

// PlaceholderIDMaxLen is the longest ID still treated as a client-side
// placeholder. Store IDs are always longer.
const PlaceholderIDMaxLen = 12

// VisitRecord is one company visit held in a working set or the row store.
// Every fixed field is always present (possibly empty).
type VisitRecord struct {
	ID            string // Empty or a placeholder until assigned by the store; immutable afterwards.
	VisitType     string
	DateOfVisit   string
	CompanyName   string
	Address       string
	Location      string
	ContactPerson string
	ContactNumber string
	MailID        string
	CompanyType   string
	SalaryPackage string
	Remark        string
	CreatedAt     time.Time

	// Extra holds ad-hoc fields added in the working set. Never persisted.
	Extra map[string]string
}

// Get returns the value of a fixed field. Unknown fields yield "".
func (r *VisitRecord) Get(f Field) string {
	if p := r.fieldPtr(f); p != nil {
		return *p
	}
	return ""
}

// Set assigns a fixed field and reports whether f was recognised.
func (r *VisitRecord) Set(f Field, value string) bool {
	p := r.fieldPtr(f)
	if p == nil {
		return false
	}
	*p = value
	return true
}

// Values returns the fixed field values in canonical order.
func (r *VisitRecord) Values() []string {
	out := make([]string, 0, len(fieldOrder))
	for _, f := range fieldOrder {
		out = append(out, r.Get(f))
	}
	return out
}

// IsPending reports whether the record has not been assigned a store ID:
// its ID is empty or a short placeholder. Pending records are inserted on
// save, the rest updated.
func (r *VisitRecord) IsPending() bool {
	return len(r.ID) <= PlaceholderIDMaxLen
}

// Persistable returns a copy of the record without ad-hoc fields.
func (r *VisitRecord) Persistable() VisitRecord {
	out := *r
	out.Extra = nil
	return out
}

// Clone returns a deep copy, including the Extra map.
func (r *VisitRecord) Clone() VisitRecord {
	out := *r
	if r.Extra != nil {
		out.Extra = make(map[string]string, len(r.Extra))
		for k, v := range r.Extra {
			out.Extra[k] = v
		}
	}
	return out
}

func (r *VisitRecord) fieldPtr(f Field) *string {
	switch f {
	case FieldVisitType:
		return &r.VisitType
	case FieldDateOfVisit:
		return &r.DateOfVisit
	case FieldCompanyName:
		return &r.CompanyName
	case FieldAddress:
		return &r.Address
	case FieldLocation:
		return &r.Location
	case FieldContactPerson:
		return &r.ContactPerson
	case FieldContactNumber:
		return &r.ContactNumber
	case FieldMailID:
		return &r.MailID
	case FieldCompanyType:
		return &r.CompanyType
	case FieldSalaryPackage:
		return &r.SalaryPackage
	case FieldRemark:
		return &r.Remark
	}
	return nil
}
