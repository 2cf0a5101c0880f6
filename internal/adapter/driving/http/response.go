package httphandler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ericfisherdev/placementpanel/internal/application"
	"github.com/ericfisherdev/placementpanel/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is the JSON representation of the health check endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// SessionResponse is returned when an editing session is opened.
type SessionResponse struct {
	ID     string   `json:"id"`
	Rows   int      `json:"rows"`
	Fields []string `json:"fields"`
}

// RecordResponse is the JSON representation of one working-set row. Fixed
// fields are always present; ad-hoc fields appear under extra.
type RecordResponse struct {
	Index         int               `json:"index"`
	ID            string            `json:"id"`
	Pending       bool              `json:"pending"`
	VisitType     string            `json:"visit_type"`
	DateOfVisit   string            `json:"date_of_visit"`
	CompanyName   string            `json:"company_name"`
	Address       string            `json:"address"`
	Location      string            `json:"location"`
	ContactPerson string            `json:"contact_person"`
	ContactNumber string            `json:"contact_number"`
	MailID        string            `json:"mail_id"`
	CompanyType   string            `json:"company_type"`
	SalaryPackage string            `json:"salary_package"`
	Remark        string            `json:"remark"`
	CreatedAt     string            `json:"created_at,omitempty"`
	Extra         map[string]string `json:"extra"`
}

// RowsResponse lists the rows matching a query together with the column set.
type RowsResponse struct {
	Fields  []string         `json:"fields"`
	Total   int              `json:"total"`
	Matched int              `json:"matched"`
	Rows    []RecordResponse `json:"rows"`
}

// SetCellsRequest is the JSON body for editing a row. Keys are fixed field
// keys or ad-hoc field names.
type SetCellsRequest struct {
	Cells map[string]string `json:"cells"`
}

// AddFieldRequest is the JSON body for adding an ad-hoc field.
type AddFieldRequest struct {
	Name string `json:"name"`
}

// AddFieldResponse echoes the stored field name and the resulting column set.
type AddFieldResponse struct {
	Name   string   `json:"name"`
	Fields []string `json:"fields"`
}

// PasteCellRequest is the JSON body for an anchored paste.
type PasteCellRequest struct {
	Text  string `json:"text"`
	Row   int    `json:"row"`
	Field string `json:"field"`
}

// ImportTextRequest is the JSON body for a bulk text import. Delimiter is
// "tab" (the default) or "comma".
type ImportTextRequest struct {
	Text      string `json:"text"`
	Delimiter string `json:"delimiter"`
}

// ImportTextResponse reports how many rows an import added.
type ImportTextResponse struct {
	Imported int `json:"imported"`
	Total    int `json:"total"`
}

// FileReportResponse is the outcome of one uploaded file.
type FileReportResponse struct {
	Name   string `json:"name"`
	Sheets int    `json:"sheets"`
	Rows   int    `json:"rows"`
	Error  string `json:"error,omitempty"`
}

// ImportFilesResponse summarises a multi-file upload.
type ImportFilesResponse struct {
	Imported int                  `json:"imported"`
	Failed   int                  `json:"failed"`
	Total    int                  `json:"total"`
	Files    []FileReportResponse `json:"files"`
}

// DeleteAllResponse reports how many stored records were removed.
type DeleteAllResponse struct {
	Deleted int64 `json:"deleted"`
}

// NamedCountResponse pairs a label with a count.
type NamedCountResponse struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// OverviewResponse is the JSON representation of the dashboard statistics.
type OverviewResponse struct {
	TotalVisits     int                  `json:"total_visits"`
	UniqueCompanies int                  `json:"unique_companies"`
	PPOCount        int                  `json:"ppo_count"`
	TopCompanies    []NamedCountResponse `json:"top_companies"`
	VisitTypes      []NamedCountResponse `json:"visit_types"`
	Locations       []NamedCountResponse `json:"locations"`
}

// CompanyResponse is one company directory entry.
type CompanyResponse struct {
	RecordID      string `json:"record_id"`
	Name          string `json:"name"`
	Address       string `json:"address"`
	Location      string `json:"location"`
	ContactPerson string `json:"contact_person"`
	MailID        string `json:"mail_id"`
	ContactNumber string `json:"contact_number"`
	CompanyType   string `json:"company_type"`
	Visits        int    `json:"visits"`
}

// ThemeSummary is one selectable catalog entry.
type ThemeSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ThemeResponse describes the current selection, its CSS and the catalog.
type ThemeResponse struct {
	Kind     string         `json:"kind"`
	ID       string         `json:"id"`
	Dark     bool           `json:"dark"`
	CSS      string         `json:"css"`
	Standard []ThemeSummary `json:"standard"`
	Premium  []ThemeSummary `json:"premium"`
}

// SelectThemeRequest is the JSON body for changing the theme.
type SelectThemeRequest struct {
	Kind string `json:"kind"`
	ID   string `json:"id"`
	Dark bool   `json:"dark"`
}

// toRecordResponse converts a working-set row to its JSON representation.
// A nil extra map is rendered as an empty object.
func toRecordResponse(index int, rec model.VisitRecord) RecordResponse {
	extra := rec.Extra
	if extra == nil {
		extra = map[string]string{}
	}

	resp := RecordResponse{
		Index:         index,
		ID:            rec.ID,
		Pending:       rec.IsPending(),
		VisitType:     rec.VisitType,
		DateOfVisit:   rec.DateOfVisit,
		CompanyName:   rec.CompanyName,
		Address:       rec.Address,
		Location:      rec.Location,
		ContactPerson: rec.ContactPerson,
		ContactNumber: rec.ContactNumber,
		MailID:        rec.MailID,
		CompanyType:   rec.CompanyType,
		SalaryPackage: rec.SalaryPackage,
		Remark:        rec.Remark,
		Extra:         extra,
	}
	if !rec.CreatedAt.IsZero() {
		resp.CreatedAt = rec.CreatedAt.UTC().Format(time.RFC3339)
	}
	return resp
}

func toRowsResponse(fields []string, total int, matched []application.IndexedRecord) RowsResponse {
	rows := make([]RecordResponse, 0, len(matched))
	for _, m := range matched {
		rows = append(rows, toRecordResponse(m.Index, m.Record))
	}
	return RowsResponse{Fields: fields, Total: total, Matched: len(rows), Rows: rows}
}

func toImportFilesResponse(report application.ImportReport, total int) ImportFilesResponse {
	files := make([]FileReportResponse, 0, len(report.Files))
	failed := 0
	for _, f := range report.Files {
		fr := FileReportResponse{Name: f.Name, Sheets: f.Sheets, Rows: f.Rows}
		if f.Failed() {
			fr.Error = f.Err.Error()
			failed++
		}
		files = append(files, fr)
	}
	return ImportFilesResponse{Imported: report.Imported, Failed: failed, Total: total, Files: files}
}

func toNamedCounts(in []model.NamedCount) []NamedCountResponse {
	out := make([]NamedCountResponse, 0, len(in))
	for _, c := range in {
		out = append(out, NamedCountResponse{Name: c.Name, Count: c.Count})
	}
	return out
}

// toOverviewResponse converts dashboard statistics; empty lists become [].
func toOverviewResponse(ov model.Overview) OverviewResponse {
	return OverviewResponse{
		TotalVisits:     ov.TotalVisits,
		UniqueCompanies: ov.UniqueCompanies,
		PPOCount:        ov.PPOCount,
		TopCompanies:    toNamedCounts(ov.TopCompanies),
		VisitTypes:      toNamedCounts(ov.VisitTypes),
		Locations:       toNamedCounts(ov.Locations),
	}
}

func toCompanyResponse(c model.Company) CompanyResponse {
	return CompanyResponse{
		RecordID:      c.RecordID,
		Name:          c.Name,
		Address:       c.Address,
		Location:      c.Location,
		ContactPerson: c.ContactPerson,
		MailID:        c.MailID,
		ContactNumber: c.ContactNumber,
		CompanyType:   c.CompanyType,
		Visits:        c.Visits,
	}
}

func toThemeSummaries(themes []model.Theme) []ThemeSummary {
	out := make([]ThemeSummary, 0, len(themes))
	for _, t := range themes {
		out = append(out, ThemeSummary{ID: t.ID, Name: t.Name, Description: t.Description})
	}
	return out
}

func toThemeResponse(catalog *application.ThemeCatalog, sel model.ThemeSelection, style model.StyleDeclaration) ThemeResponse {
	return ThemeResponse{
		Kind:     string(sel.Kind),
		ID:       sel.ID,
		Dark:     sel.Dark,
		CSS:      style.CSS(),
		Standard: toThemeSummaries(catalog.Standard),
		Premium:  toThemeSummaries(catalog.Premium),
	}
}
