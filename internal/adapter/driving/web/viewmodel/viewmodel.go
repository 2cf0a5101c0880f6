// Package viewmodel defines presentation-ready structs for templ components.
// View models decouple template rendering from domain model types.
package viewmodel

// LayoutViewModel carries what every page shell needs.
type LayoutViewModel struct {
	Title     string
	Active    string // nav entry to highlight: "dashboard", "records", "companies", "theme"
	ThemeCSS  string // :root rule with the selected theme's custom properties
	Dark      bool
	CSRFToken string
}

// FlashViewModel is a one-shot message carried across a redirect.
type FlashViewModel struct {
	Message string
	IsError bool
}

// CountViewModel is one bar of a dashboard breakdown.
type CountViewModel struct {
	Name    string
	Count   int
	Percent int // share of the largest count, 0-100, for bar widths
}

// DashboardViewModel holds the overview statistics.
type DashboardViewModel struct {
	TotalVisits     int
	UniqueCompanies int
	PPOCount        int
	TopCompanies    []CountViewModel
	VisitTypes      []CountViewModel
	Locations       []CountViewModel
	Error           string
}

// ColumnViewModel is one grid column.
type ColumnViewModel struct {
	Key    string
	Header string
	AdHoc  bool
}

// CellViewModel is one editable cell.
type CellViewModel struct {
	Field string
	Value string
}

// RowViewModel is one grid row. Index addresses the row in the working set,
// not its position in a filtered view.
type RowViewModel struct {
	Index      int
	ID         string
	Pending    bool
	Cells      []CellViewModel
	RemarkHTML string
}

// FilterViewModel is a drop-down filter over one field's distinct values.
type FilterViewModel struct {
	Field    string
	Label    string
	Selected string
	Options  []string
}

// RecordsViewModel holds the editor grid and its controls.
type RecordsViewModel struct {
	Columns     []ColumnViewModel
	Rows        []RowViewModel
	Total       int
	Matched     int
	Pending     int
	Query       string
	Filters     []FilterViewModel
	ExportQuery string // URL query reproducing the current search and filters
	Flash       FlashViewModel
	CSRFToken   string
}

// CompanyViewModel is one company directory card.
type CompanyViewModel struct {
	Name          string
	Address       string
	Location      string
	ContactPerson string
	MailID        string
	MailHref      string
	ContactNumber string
	TelHref       string
	CompanyType   string
	Visits        int
}

// CompaniesViewModel holds the company directory page.
type CompaniesViewModel struct {
	Search    string
	Companies []CompanyViewModel
	Error     string
}

// ThemeOptionViewModel is one selectable theme.
type ThemeOptionViewModel struct {
	Kind        string
	ID          string
	Name        string
	Description string
	Swatch      string // CSS colour for the preview chip
	Selected    bool
}

// ThemeViewModel holds the theme settings page.
type ThemeViewModel struct {
	Standard  []ThemeOptionViewModel
	Premium   []ThemeOptionViewModel
	Dark      bool
	Flash     FlashViewModel
	CSRFToken string
}
