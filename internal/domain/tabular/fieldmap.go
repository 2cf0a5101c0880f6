package tabular

import (
	"strings"
	"unicode"

	"github.com/ericfisherdev/placementpanel/internal/domain/model"
)

// fieldAliases lists the column names each field is known by. The first alias
// of every field is its export header so exported sheets import cleanly.
var fieldAliases = map[model.Field][]string{
	model.FieldVisitType:     {"Visit Type", "Type of Visit", "Visit Mode", "Visit"},
	model.FieldDateOfVisit:   {"Date of Visit", "Visit Date", "Date", "Visited On"},
	model.FieldCompanyName:   {"Company Name", "Name of Company", "Name of the Company", "Company", "Organisation", "Organization"},
	model.FieldAddress:       {"Address", "Company Address"},
	model.FieldLocation:      {"Location", "City", "Place"},
	model.FieldContactPerson: {"Contact Person", "HR Name", "Contact Name", "Point of Contact"},
	model.FieldContactNumber: {"Contact Number", "Contact No", "Phone", "Phone Number", "Mobile"},
	model.FieldMailID:        {"Mail ID", "Mail", "Email", "Email ID", "E-mail"},
	model.FieldCompanyType:   {"Company Type", "Type of Company", "Industry", "Sector"},
	model.FieldSalaryPackage: {"Salary Package", "Package", "CTC", "Salary", "Package (LPA)"},
	model.FieldRemark:        {"Remark", "Remarks", "Notes", "Comments"},
}

// Cell is one key/value pair of a raw row.
type Cell struct {
	Key   string
	Value string
}

// RawRow is a row keyed by its source column names, in column order.
type RawRow []Cell

// Zip pairs headers with cells. Cells beyond the header width are dropped,
// missing cells are absent, and blank or repeated headers are skipped.
func Zip(headers, cells []string) RawRow {
	row := make(RawRow, 0, len(headers))
	seen := make(map[string]bool, len(headers))
	for i, h := range headers {
		if i >= len(cells) {
			break
		}
		key := strings.TrimSpace(h)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		row = append(row, Cell{Key: key, Value: cells[i]})
	}
	return row
}

// MapRow maps a raw row onto the fixed fields.
//
// Each field is looked up in three passes of decreasing strictness: exact
// alias, normalized alias (lowercase, alphanumerics only), then normalized
// substring containment in either direction. The two strict passes run for all
// fields before any substring match, and a column claimed by one field is not
// offered to the substring pass of another. Unmatched fields are "".
func MapRow(raw RawRow) model.VisitRecord {
	var rec model.VisitRecord

	normKeys := make([]string, len(raw))
	for i, c := range raw {
		normKeys[i] = normalize(c.Key)
	}

	claimed := make([]bool, len(raw))
	resolved := make(map[model.Field]bool, model.FieldCount())

	for _, f := range model.Fields() {
		i := exactMatch(raw, fieldAliases[f])
		if i < 0 {
			i = normalizedMatch(normKeys, fieldAliases[f], claimed)
		}
		if i < 0 {
			continue
		}
		claimed[i] = true
		resolved[f] = true
		rec.Set(f, strings.TrimSpace(raw[i].Value))
	}

	for _, f := range model.Fields() {
		if resolved[f] {
			continue
		}
		i := substringMatch(normKeys, fieldAliases[f], claimed)
		if i < 0 {
			continue
		}
		claimed[i] = true
		rec.Set(f, strings.TrimSpace(raw[i].Value))
	}

	return rec
}

func exactMatch(raw RawRow, aliases []string) int {
	for _, alias := range aliases {
		for i, c := range raw {
			if c.Key == alias {
				return i
			}
		}
	}
	return -1
}

func normalizedMatch(normKeys, aliases []string, claimed []bool) int {
	for _, alias := range aliases {
		na := normalize(alias)
		for i, nk := range normKeys {
			if !claimed[i] && nk != "" && nk == na {
				return i
			}
		}
	}
	return -1
}

func substringMatch(normKeys, aliases []string, claimed []bool) int {
	for _, alias := range aliases {
		na := normalize(alias)
		for i, nk := range normKeys {
			if claimed[i] || nk == "" {
				continue
			}
			if strings.Contains(nk, na) || strings.Contains(na, nk) {
				return i
			}
		}
	}
	return -1
}

// normalize lowercases s and strips everything but letters and digits.
func normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
