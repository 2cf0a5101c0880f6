package web

import (
	"net/url"
	"strings"

	vm "github.com/ericfisherdev/placementpanel/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/placementpanel/internal/application"
	"github.com/ericfisherdev/placementpanel/internal/domain/model"
)

// filterFields are offered as drop-down filters on the records page.
var filterFields = []model.Field{
	model.FieldVisitType,
	model.FieldLocation,
	model.FieldCompanyType,
}

// toCountViewModels scales counts against the largest one for bar widths.
func toCountViewModels(counts []model.NamedCount) []vm.CountViewModel {
	maxCount := 0
	for _, c := range counts {
		maxCount = max(maxCount, c.Count)
	}

	out := make([]vm.CountViewModel, 0, len(counts))
	for _, c := range counts {
		pct := 0
		if maxCount > 0 {
			pct = c.Count * 100 / maxCount
		}
		out = append(out, vm.CountViewModel{Name: c.Name, Count: c.Count, Percent: pct})
	}
	return out
}

func toDashboardViewModel(ov model.Overview) vm.DashboardViewModel {
	return vm.DashboardViewModel{
		TotalVisits:     ov.TotalVisits,
		UniqueCompanies: ov.UniqueCompanies,
		PPOCount:        ov.PPOCount,
		TopCompanies:    toCountViewModels(ov.TopCompanies),
		VisitTypes:      toCountViewModels(ov.VisitTypes),
		Locations:       toCountViewModels(ov.Locations),
	}
}

// toColumnViewModels lists fixed fields with their headers, then ad-hoc fields.
func toColumnViewModels(extras []string) []vm.ColumnViewModel {
	out := make([]vm.ColumnViewModel, 0, model.FieldCount()+len(extras))
	for _, f := range model.Fields() {
		out = append(out, vm.ColumnViewModel{Key: string(f), Header: f.Header()})
	}
	for _, name := range extras {
		out = append(out, vm.ColumnViewModel{Key: name, Header: name, AdHoc: true})
	}
	return out
}

func toRowViewModel(ir application.IndexedRecord, extras []string) vm.RowViewModel {
	rec := ir.Record
	cells := make([]vm.CellViewModel, 0, model.FieldCount()+len(extras))
	for _, f := range model.Fields() {
		cells = append(cells, vm.CellViewModel{Field: string(f), Value: rec.Get(f)})
	}
	for _, name := range extras {
		cells = append(cells, vm.CellViewModel{Field: name, Value: rec.Extra[name]})
	}

	return vm.RowViewModel{
		Index:      ir.Index,
		ID:         rec.ID,
		Pending:    rec.IsPending(),
		Cells:      cells,
		RemarkHTML: RenderMarkdown(rec.Remark),
	}
}

// toRecordsViewModel builds the editor grid for the rows matching q.
func toRecordsViewModel(ws *application.WorkingSet, q application.Query) vm.RecordsViewModel {
	extras := ws.ExtraFields()
	matched := ws.Filter(q)

	rows := make([]vm.RowViewModel, 0, len(matched))
	pending := 0
	for _, ir := range matched {
		row := toRowViewModel(ir, extras)
		if row.Pending {
			pending++
		}
		rows = append(rows, row)
	}

	filters := make([]vm.FilterViewModel, 0, len(filterFields))
	for _, f := range filterFields {
		filters = append(filters, vm.FilterViewModel{
			Field:    string(f),
			Label:    f.Header(),
			Selected: q.Fields[f],
			Options:  ws.DistinctValues(f),
		})
	}

	return vm.RecordsViewModel{
		Columns:     toColumnViewModels(extras),
		Rows:        rows,
		Total:       ws.Len(),
		Matched:     len(rows),
		Pending:     pending,
		Query:       q.Text,
		Filters:     filters,
		ExportQuery: encodeQuery(q),
	}
}

// encodeQuery renders q in the form parseQuery reads back.
func encodeQuery(q application.Query) string {
	values := url.Values{}
	if strings.TrimSpace(q.Text) != "" {
		values.Set("q", q.Text)
	}
	for _, f := range filterFields {
		if v := strings.TrimSpace(q.Fields[f]); v != "" {
			values.Set(string(f), v)
		}
	}
	return values.Encode()
}

func toCompanyViewModel(c model.Company) vm.CompanyViewModel {
	out := vm.CompanyViewModel{
		Name:          c.Name,
		Address:       c.Address,
		Location:      c.Location,
		ContactPerson: c.ContactPerson,
		MailID:        c.MailID,
		ContactNumber: c.ContactNumber,
		CompanyType:   c.CompanyType,
		Visits:        c.Visits,
	}
	if strings.Contains(c.MailID, "@") {
		out.MailHref = "mailto:" + strings.TrimSpace(c.MailID)
	}
	if digits := telDigits(c.ContactNumber); digits != "" {
		out.TelHref = "tel:" + digits
	}
	return out
}

// telDigits keeps the digits and a leading plus of a phone number.
func telDigits(s string) string {
	var b strings.Builder
	for i, r := range strings.TrimSpace(s) {
		if (r >= '0' && r <= '9') || (r == '+' && i == 0) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func toThemeOptions(kind model.ThemeKind, themes []model.Theme, sel model.ThemeSelection) []vm.ThemeOptionViewModel {
	out := make([]vm.ThemeOptionViewModel, 0, len(themes))
	for _, t := range themes {
		out = append(out, vm.ThemeOptionViewModel{
			Kind:        string(kind),
			ID:          t.ID,
			Name:        t.Name,
			Description: t.Description,
			Swatch:      "hsl(" + t.Colors.Primary + ")",
			Selected:    sel.Kind == kind && sel.ID == t.ID,
		})
	}
	return out
}

func toThemeViewModel(catalog *application.ThemeCatalog, sel model.ThemeSelection) vm.ThemeViewModel {
	return vm.ThemeViewModel{
		Standard: toThemeOptions(model.ThemeKindStandard, catalog.Standard, sel),
		Premium:  toThemeOptions(model.ThemeKindPremium, catalog.Premium, sel),
		Dark:     sel.Dark,
	}
}
