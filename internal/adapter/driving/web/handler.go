// Package web implements the HTML GUI driving adapter using templ components.
package web

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/ericfisherdev/placementpanel/internal/adapter/driving/web/templates"
	"github.com/ericfisherdev/placementpanel/internal/adapter/driving/web/templates/pages"
	vm "github.com/ericfisherdev/placementpanel/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/placementpanel/internal/application"
	"github.com/ericfisherdev/placementpanel/internal/domain/model"
	"github.com/ericfisherdev/placementpanel/internal/domain/port/driven"
	"github.com/ericfisherdev/placementpanel/internal/domain/tabular"
)

const (
	sessionCookieName = "editor_session"
	maxUploadBytes    = 32 << 20
	xlsxContentType   = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Handler is the web GUI driving adapter that serves HTML via templ components.
type Handler struct {
	sessions *application.SessionRegistry
	records  *application.RecordService
	overview *application.OverviewService
	themes   *application.ThemeService
	logger   *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(
	sessions *application.SessionRegistry,
	records *application.RecordService,
	overview *application.OverviewService,
	themes *application.ThemeService,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		sessions: sessions,
		records:  records,
		overview: overview,
		themes:   themes,
		logger:   logger,
	}
}

// render wraps body in the layout with the current theme applied.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, title, active string, body templ.Component) {
	sel, style, err := h.themes.Style(r.Context())
	if err != nil {
		h.logger.Warn("failed to read theme setting", "error", err)
	}

	layout := templates.Layout(vm.LayoutViewModel{
		Title:    title,
		Active:   active,
		ThemeCSS: style.CSS(),
		Dark:     sel.Dark,
	}, body)

	// Render into a buffer so a failed render can still become a clean 500.
	var buf bytes.Buffer
	if err := layout.Render(r.Context(), &buf); err != nil {
		h.logger.Error("failed to render page", "page", active, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// workingSet returns the editor session's working set, opening a session
// loaded from the store when the cookie is missing or expired.
func (h *Handler) workingSet(w http.ResponseWriter, r *http.Request) (*application.WorkingSet, error) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		if ws, err := h.sessions.Get(cookie.Value); err == nil {
			return ws, nil
		}
	}

	id, ws, err := h.sessions.Create()
	if err != nil {
		return nil, err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})

	if _, err := h.records.Load(r.Context(), ws); err != nil {
		// Keep the empty session so edits are still possible; report the failure.
		return ws, err
	}
	return ws, nil
}

// redirectWithFlash sends the browser back to path with a one-shot message.
func redirectWithFlash(w http.ResponseWriter, r *http.Request, path, message string, isError bool) {
	values := url.Values{}
	if message != "" {
		key := "notice"
		if isError {
			key = "error"
		}
		values.Set(key, message)
	}
	target := path
	if len(values) > 0 {
		target += "?" + values.Encode()
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func flashFrom(r *http.Request) vm.FlashViewModel {
	q := r.URL.Query()
	if msg := q.Get("error"); msg != "" {
		return vm.FlashViewModel{Message: msg, IsError: true}
	}
	return vm.FlashViewModel{Message: q.Get("notice")}
}

// Dashboard renders the overview statistics page.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	csrfToken(w, r)

	ov, err := h.overview.Overview(r.Context())
	d := toDashboardViewModel(ov)
	if err != nil {
		h.logger.Error("failed to compute overview", "error", err)
		d.Error = "Could not load records from the database."
	}

	h.render(w, r, "Dashboard", "dashboard", pages.Dashboard(d))
}

// Records renders the editor for the current session.
func (h *Handler) Records(w http.ResponseWriter, r *http.Request) {
	token := csrfToken(w, r)

	ws, err := h.workingSet(w, r)
	if ws == nil {
		h.logger.Error("failed to open editor session", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	d := toRecordsViewModel(ws, parseQuery(r.URL.Query()))
	d.CSRFToken = token
	d.Flash = flashFrom(r)
	if err != nil {
		h.logger.Error("failed to load records", "error", err)
		d.Flash = vm.FlashViewModel{Message: "Could not load records from the database.", IsError: true}
	}

	h.render(w, r, "Visit Records", "records", pages.Records(d))
}

// Companies renders the company directory.
func (h *Handler) Companies(w http.ResponseWriter, r *http.Request) {
	csrfToken(w, r)

	search := r.URL.Query().Get("search")
	d := vm.CompaniesViewModel{Search: search}

	companies, err := h.overview.Companies(r.Context(), search)
	if err != nil {
		h.logger.Error("failed to list companies", "error", err)
		d.Error = "Could not load records from the database."
	}
	for _, c := range companies {
		d.Companies = append(d.Companies, toCompanyViewModel(c))
	}

	h.render(w, r, "Companies", "companies", pages.Companies(d))
}

// Theme renders the theme settings page.
func (h *Handler) Theme(w http.ResponseWriter, r *http.Request) {
	token := csrfToken(w, r)

	sel, err := h.themes.Current(r.Context())
	if err != nil {
		h.logger.Warn("failed to read theme setting", "error", err)
	}

	d := toThemeViewModel(h.themes.Catalog(), sel)
	d.CSRFToken = token
	d.Flash = flashFrom(r)

	h.render(w, r, "Theme", "theme", pages.Theme(d))
}

// SelectTheme saves the submitted theme selection.
func (h *Handler) SelectTheme(w http.ResponseWriter, r *http.Request) {
	sel := model.ThemeSelection{
		Kind: model.ThemeKind(r.FormValue("kind")),
		ID:   r.FormValue("id"),
		Dark: r.FormValue("dark") != "",
	}

	if err := h.themes.Select(r.Context(), sel); err != nil {
		if !errors.Is(err, application.ErrUnknownTheme) {
			h.logger.Error("failed to save theme", "error", err)
		}
		redirectWithFlash(w, r, "/app/theme", "Could not save the theme.", true)
		return
	}
	redirectWithFlash(w, r, "/app/theme", "Theme saved.", false)
}

// editorAction runs fn against the session's working set and redirects back
// to the editor with fn's message.
func (h *Handler) editorAction(fn func(ctx context.Context, ws *application.WorkingSet, r *http.Request) (string, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, err := h.workingSet(w, r)
		if ws == nil {
			h.logger.Error("failed to open editor session", "error", err)
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		msg, err := fn(r.Context(), ws, r)
		if err != nil {
			redirectWithFlash(w, r, "/app/records", h.describe(err), true)
			return
		}
		redirectWithFlash(w, r, "/app/records", msg, false)
	}
}

// describe turns an error into a message fit for the flash banner.
func (h *Handler) describe(err error) string {
	switch {
	case errors.Is(err, tabular.ErrEmptyInput):
		return "Nothing to paste: the text is empty."
	case errors.Is(err, tabular.ErrNoDataRows):
		return "No data rows found."
	case errors.Is(err, application.ErrRowOutOfRange):
		return "That row no longer exists."
	case errors.Is(err, application.ErrUnknownField):
		return "Unknown column."
	case errors.Is(err, application.ErrDuplicateField):
		return "A column with that name already exists."
	case errors.Is(err, application.ErrNotConfirmed):
		return "Tick the confirmation box to delete all records."
	case errors.Is(err, driven.ErrRecordNotFound):
		return "A record was removed from the database by someone else. Reload and try again."
	case errors.Is(err, errBadForm):
		return err.Error()
	default:
		h.logger.Error("editor action failed", "error", err)
		return "Something went wrong talking to the database."
	}
}

var errBadForm = errors.New("invalid form")

func formIndex(r *http.Request) (int, error) {
	index, err := strconv.Atoi(r.FormValue("index"))
	if err != nil || index < 0 {
		return 0, fmt.Errorf("%w: row index", errBadForm)
	}
	return index, nil
}

func (h *Handler) addRow(_ context.Context, ws *application.WorkingSet, _ *http.Request) (string, error) {
	ws.AddRow()
	return "Added an empty row at the top.", nil
}

func (h *Handler) updateRow(_ context.Context, ws *application.WorkingSet, r *http.Request) (string, error) {
	index, err := formIndex(r)
	if err != nil {
		return "", err
	}

	for key, values := range r.PostForm {
		field, ok := strings.CutPrefix(key, pages.CellInputPrefix)
		if !ok || len(values) == 0 {
			continue
		}
		if err := ws.SetCell(index, field, values[0]); err != nil {
			return "", err
		}
	}
	return fmt.Sprintf("Updated row %d.", index), nil
}

func (h *Handler) addField(_ context.Context, ws *application.WorkingSet, r *http.Request) (string, error) {
	name, err := ws.AddField(r.FormValue("name"))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Added column %q.", name), nil
}

// paste imports the text as new rows, or writes it into the grid when an
// anchor column is chosen.
func (h *Handler) paste(_ context.Context, ws *application.WorkingSet, r *http.Request) (string, error) {
	text := r.FormValue("text")

	field := r.FormValue("anchor_field")
	if field == "" {
		n, err := h.records.ImportText(ws, text, tabular.Tab)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Imported %d rows.", n), nil
	}

	row := 0
	if raw := strings.TrimSpace(r.FormValue("anchor_row")); raw != "" {
		var err error
		if row, err = strconv.Atoi(raw); err != nil {
			return "", fmt.Errorf("%w: anchor row", errBadForm)
		}
	}

	res, err := h.records.PasteText(ws, text, application.Anchor{Row: row, Field: model.Field(field)})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Pasted into %d rows, added %d.", res.Touched, res.Created), nil
}

func (h *Handler) upload(ctx context.Context, ws *application.WorkingSet, r *http.Request) (string, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return "", fmt.Errorf("%w: upload", errBadForm)
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		return "", fmt.Errorf("%w: choose at least one file", errBadForm)
	}

	files := make([]application.UploadFile, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return "", fmt.Errorf("open upload %s: %w", fh.Filename, err)
		}
		defer f.Close()
		files = append(files, application.UploadFile{Name: fh.Filename, Body: f})
	}

	report := h.records.ImportFiles(ctx, ws, files)
	msg := fmt.Sprintf("Imported %d rows from %d files.", report.Imported, len(files)-len(report.Failures()))
	for _, f := range report.Failures() {
		msg += fmt.Sprintf(" %s: %v.", f.Name, f.Err)
	}
	return msg, nil
}

func (h *Handler) deleteRow(ctx context.Context, ws *application.WorkingSet, r *http.Request) (string, error) {
	index, err := formIndex(r)
	if err != nil {
		return "", err
	}
	if err := h.records.DeleteRow(ctx, ws, index); err != nil {
		return "", err
	}
	return "Row deleted.", nil
}

func (h *Handler) deleteAll(ctx context.Context, ws *application.WorkingSet, r *http.Request) (string, error) {
	confirmed := r.FormValue("confirm") == "yes"
	n, err := h.records.DeleteAll(ctx, ws, application.ConfirmFunc(
		func(context.Context, string) (bool, error) { return confirmed, nil },
	))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Deleted %d records.", n), nil
}

func (h *Handler) save(ctx context.Context, ws *application.WorkingSet, _ *http.Request) (string, error) {
	res, err := h.records.Save(ctx, ws)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Saved: %d updated, %d inserted.", res.Updated, res.Inserted), nil
}

func (h *Handler) reload(ctx context.Context, ws *application.WorkingSet, _ *http.Request) (string, error) {
	n, err := h.records.Load(ctx, ws)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Reloaded %d records.", n), nil
}

// Export downloads the filtered rows as a workbook.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	ws, err := h.workingSet(w, r)
	if ws == nil {
		h.logger.Error("failed to open editor session", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	values := r.URL.Query()
	multi, _ := strconv.ParseBool(values.Get("multi"))

	var buf bytes.Buffer
	if err := h.records.Export(r.Context(), &buf, ws, parseQuery(values), multi); err != nil {
		h.logger.Error("failed to export", "error", err)
		redirectWithFlash(w, r, "/app/records", "Export failed.", true)
		return
	}
	sendWorkbook(w, h.records.ExportFileName(), buf.Bytes())
}

// Template downloads the import template.
func (h *Handler) Template(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.records.Template(&buf); err != nil {
		h.logger.Error("failed to build template", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	sendWorkbook(w, "Visit_Records_Template.xlsx", buf.Bytes())
}

func sendWorkbook(w http.ResponseWriter, filename string, data []byte) {
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	_, _ = w.Write(data)
}

// parseQuery reads the search box and the drop-down filters.
func parseQuery(values url.Values) application.Query {
	q := application.Query{Text: values.Get("q")}
	for _, f := range filterFields {
		if v := values.Get(string(f)); v != "" {
			if q.Fields == nil {
				q.Fields = make(map[model.Field]string)
			}
			q.Fields[f] = v
		}
	}
	return q
}
