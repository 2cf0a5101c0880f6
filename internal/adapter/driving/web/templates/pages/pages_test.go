package pages_test

import (
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/placementpanel/internal/adapter/driving/web/templates/pages"
	vm "github.com/ericfisherdev/placementpanel/internal/adapter/driving/web/viewmodel"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var b strings.Builder
	require.NoError(t, c.Render(context.Background(), &b))
	return b.String()
}

func TestDashboard(t *testing.T) {
	html := render(t, pages.Dashboard(vm.DashboardViewModel{
		TotalVisits:     3,
		UniqueCompanies: 2,
		PPOCount:        1,
		TopCompanies:    []vm.CountViewModel{{Name: "Acme & Co", Count: 2, Percent: 100}},
	}))

	assert.Contains(t, html, `<span class="stat-value">3</span>`)
	assert.Contains(t, html, "Acme &amp; Co")
	assert.Contains(t, html, "width:100%")
}

func TestDashboard_Empty(t *testing.T) {
	html := render(t, pages.Dashboard(vm.DashboardViewModel{}))
	assert.Contains(t, html, "No visits recorded yet")
	assert.NotContains(t, html, "Top companies")
}

func TestRecords(t *testing.T) {
	html := render(t, pages.Records(vm.RecordsViewModel{
		Columns: []vm.ColumnViewModel{
			{Key: "company_name", Header: "Company Name"},
			{Key: "remark", Header: "Remark"},
			{Key: "Batch", Header: "Batch", AdHoc: true},
		},
		Rows: []vm.RowViewModel{{
			Index:      4,
			Pending:    true,
			Cells:      []vm.CellViewModel{{Field: "company_name", Value: `"Acme"`}, {Field: "remark", Value: "**ok**"}, {Field: "Batch", Value: "2025"}},
			RemarkHTML: "<p><strong>ok</strong></p>",
		}},
		Total:       9,
		Matched:     1,
		Pending:     1,
		ExportQuery: "q=acme",
		CSRFToken:   "tok",
	}))

	assert.Contains(t, html, "1 of 9 rows, 1 unsaved")
	assert.Contains(t, html, `<tr class="pending">`)
	assert.Contains(t, html, `form="row-4" name="f.company_name" value="&#34;Acme&#34;"`)
	assert.Contains(t, html, `<strong>ok</strong>`)
	assert.Contains(t, html, `href="/app/records/export?q=acme&amp;multi=true"`)
	assert.Contains(t, html, `<input type="hidden" name="csrf_token" value="tok">`)
	assert.Contains(t, html, `<th class="adhoc">Batch</th>`)
	// Ad-hoc columns cannot anchor a paste.
	assert.NotContains(t, html, `<option value="Batch">`)
}

func TestRecords_NoRows(t *testing.T) {
	html := render(t, pages.Records(vm.RecordsViewModel{}))
	assert.Contains(t, html, "No rows to show.")
	assert.Contains(t, html, `href="/app/records/export?multi=true"`)
}

func TestCompanies(t *testing.T) {
	html := render(t, pages.Companies(vm.CompaniesViewModel{
		Search: "pune",
		Companies: []vm.CompanyViewModel{{
			Name:     "Acme",
			Location: "Pune",
			MailID:   "hr@acme.example",
			MailHref: "mailto:hr@acme.example",
			Visits:   1,
		}},
	}))

	assert.Contains(t, html, `value="pune"`)
	assert.Contains(t, html, `<a href="mailto:hr@acme.example">hr@acme.example</a>`)
	assert.Contains(t, html, "1 visit</p>")
	assert.NotContains(t, html, "<dt>Phone</dt>")
}

func TestTheme(t *testing.T) {
	html := render(t, pages.Theme(vm.ThemeViewModel{
		Standard: []vm.ThemeOptionViewModel{{Kind: "standard", ID: "crimson_red", Name: "Crimson Red", Swatch: "hsl(0 72% 51%)", Selected: true}},
		Premium:  []vm.ThemeOptionViewModel{{Kind: "premium", ID: "black_card", Name: "Black Card"}},
		Dark:     true,
		Flash:    vm.FlashViewModel{Message: "Theme saved"},
	}))

	assert.Contains(t, html, "Theme saved")
	assert.Contains(t, html, `class="card theme-option selected"`)
	assert.Contains(t, html, `style="background:hsl(0 72% 51%)"`)
	assert.Equal(t, 2, strings.Count(html, `value="1" checked`))
}
