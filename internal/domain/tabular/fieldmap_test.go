package tabular

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ericfisherdev/placementpanel/internal/domain/model"
)

func TestMapRow_CompanyNameOnly(t *testing.T) {
	rec := MapRow(RawRow{{Key: "Company Name", Value: "Acme Corp"}})

	assert.Equal(t, "Acme Corp", rec.CompanyName)
	for _, f := range model.Fields() {
		if f == model.FieldCompanyName {
			continue
		}
		assert.Equal(t, "", rec.Get(f), "field %s should be empty", f)
	}
}

func TestMapRow_Passes(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		field model.Field
	}{
		{name: "exact alias", key: "CTC", field: model.FieldSalaryPackage},
		{name: "normalized alias", key: "  e-mail id ", field: model.FieldMailID},
		{name: "normalized punctuation", key: "CONTACT_NUMBER", field: model.FieldContactNumber},
		{name: "key contains alias", key: "Registered Address", field: model.FieldAddress},
		{name: "alias contains key", key: "Remar", field: model.FieldRemark},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := MapRow(RawRow{{Key: tt.key, Value: "v"}})
			assert.Equal(t, "v", rec.Get(tt.field))
		})
	}
}

func TestMapRow_ExactBeatsFuzzy(t *testing.T) {
	rec := MapRow(RawRow{
		{Key: "Date of Visit", Value: "2024-03-01"},
		{Key: "Visit Type", Value: "On Campus"},
	})

	assert.Equal(t, "On Campus", rec.VisitType)
	assert.Equal(t, "2024-03-01", rec.DateOfVisit)
}

func TestMapRow_ClaimedColumnNotReused(t *testing.T) {
	rec := MapRow(RawRow{{Key: "Company", Value: "Acme"}})

	assert.Equal(t, "Acme", rec.CompanyName)
	assert.Equal(t, "", rec.CompanyType, "company column is claimed by company name")
}

func TestMapRow_TrimsValues(t *testing.T) {
	rec := MapRow(RawRow{{Key: "Location", Value: "  Chennai "}})
	assert.Equal(t, "Chennai", rec.Location)
}

func TestZip(t *testing.T) {
	row := Zip([]string{"A", "", "A", "B", "C"}, []string{"1", "2", "3", "4"})
	assert.Equal(t, RawRow{{Key: "A", Value: "1"}, {Key: "B", Value: "4"}}, row)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "mailid", normalize("Mail-ID"))
	assert.Equal(t, "packagelpa", normalize("Package (LPA)"))
	assert.Equal(t, "", normalize(" - "))
}
