package model

// Field identifies one of the fixed columns of a visit record.
type Field string

const (
	FieldVisitType     Field = "visit_type"
	FieldDateOfVisit   Field = "date_of_visit"
	FieldCompanyName   Field = "company_name"
	FieldAddress       Field = "address"
	FieldLocation      Field = "location"
	FieldContactPerson Field = "contact_person"
	FieldContactNumber Field = "contact_number"
	FieldMailID        Field = "mail_id"
	FieldCompanyType   Field = "company_type"
	FieldSalaryPackage Field = "salary_package"
	FieldRemark        Field = "remark"
)

// fieldOrder is the canonical column order. Positional pastes and headerless
// imports address columns by their index in this list.
var fieldOrder = []Field{
	FieldVisitType,
	FieldDateOfVisit,
	FieldCompanyName,
	FieldAddress,
	FieldLocation,
	FieldContactPerson,
	FieldContactNumber,
	FieldMailID,
	FieldCompanyType,
	FieldSalaryPackage,
	FieldRemark,
}

var fieldHeaders = map[Field]string{
	FieldVisitType:     "Visit Type",
	FieldDateOfVisit:   "Date of Visit",
	FieldCompanyName:   "Company Name",
	FieldAddress:       "Address",
	FieldLocation:      "Location",
	FieldContactPerson: "Contact Person",
	FieldContactNumber: "Contact Number",
	FieldMailID:        "Mail ID",
	FieldCompanyType:   "Company Type",
	FieldSalaryPackage: "Salary Package",
	FieldRemark:        "Remark",
}

// Fields returns the fixed fields in canonical order. The returned slice is a copy.
func Fields() []Field {
	out := make([]Field, len(fieldOrder))
	copy(out, fieldOrder)
	return out
}

// FieldCount is the number of fixed fields.
func FieldCount() int {
	return len(fieldOrder)
}

// FieldAt returns the field at position i in canonical order.
func FieldAt(i int) (Field, bool) {
	if i < 0 || i >= len(fieldOrder) {
		return "", false
	}
	return fieldOrder[i], true
}

// Index returns the canonical position of f, or -1 if f is not a fixed field.
func (f Field) Index() int {
	for i, candidate := range fieldOrder {
		if candidate == f {
			return i
		}
	}
	return -1
}

// Valid reports whether f is one of the fixed fields.
func (f Field) Valid() bool {
	return f.Index() >= 0
}

// Header returns the human-readable column header used for export and templates.
func (f Field) Header() string {
	return fieldHeaders[f]
}

// Headers returns the export headers in canonical order.
func Headers() []string {
	out := make([]string, 0, len(fieldOrder))
	for _, f := range fieldOrder {
		out = append(out, fieldHeaders[f])
	}
	return out
}
