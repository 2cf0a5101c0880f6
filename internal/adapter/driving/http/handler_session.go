package httphandler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/ericfisherdev/placementpanel/internal/application"
	"github.com/ericfisherdev/placementpanel/internal/domain/model"
	"github.com/ericfisherdev/placementpanel/internal/domain/port/driven"
	"github.com/ericfisherdev/placementpanel/internal/domain/tabular"
)

// maxUploadBytes bounds the in-memory part of a multipart upload.
const maxUploadBytes = 32 << 20

// session resolves the {id} path value. It writes a 404 and returns nil when
// the session is unknown or expired.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) *application.WorkingSet {
	ws, err := h.sessions.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return nil
	}
	return ws
}

// rowIndex parses the {index} path value.
func rowIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil || index < 0 {
		writeError(w, http.StatusBadRequest, "invalid row index")
		return 0, false
	}
	return index, true
}

// writeServiceError maps application and store errors to status codes.
// Store failures are logged and reported as 502, anything unexpected as 500.
func (h *Handler) writeServiceError(w http.ResponseWriter, msg string, err error) {
	switch {
	case errors.Is(err, application.ErrRowOutOfRange):
		writeError(w, http.StatusNotFound, "row not found")
	case errors.Is(err, application.ErrUnknownField):
		writeError(w, http.StatusBadRequest, "unknown field")
	case errors.Is(err, application.ErrDuplicateField):
		writeError(w, http.StatusConflict, "field already exists")
	case errors.Is(err, application.ErrNotConfirmed):
		writeError(w, http.StatusPreconditionRequired, "confirmation required: pass confirm=yes")
	case errors.Is(err, tabular.ErrEmptyInput), errors.Is(err, tabular.ErrNoDataRows):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, driven.ErrRecordNotFound):
		writeError(w, http.StatusConflict, "record no longer exists in the store")
	case errors.Is(err, application.ErrStore):
		h.logger.Error(msg, "error", err)
		writeError(w, http.StatusBadGateway, "visit store request failed")
	default:
		h.logger.Error(msg, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// parseQuery reads the q and filter=field:value parameters.
func parseQuery(r *http.Request) (application.Query, error) {
	values := r.URL.Query()
	q := application.Query{Text: values.Get("q")}

	for _, raw := range values["filter"] {
		name, value, ok := strings.Cut(raw, ":")
		f := model.Field(strings.TrimSpace(name))
		if !ok || !f.Valid() {
			return application.Query{}, errors.New("invalid filter " + strconv.Quote(raw))
		}
		if q.Fields == nil {
			q.Fields = make(map[model.Field]string)
		}
		q.Fields[f] = value
	}
	return q, nil
}

// ListRows returns the rows matching the query with their indexes.
func (h *Handler) ListRows(w http.ResponseWriter, r *http.Request) {
	ws := h.session(w, r)
	if ws == nil {
		return
	}

	q, err := parseQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, toRowsResponse(ws.Fields(), ws.Len(), ws.Filter(q)))
}

// AddRow prepends an empty pending row.
func (h *Handler) AddRow(w http.ResponseWriter, r *http.Request) {
	ws := h.session(w, r)
	if ws == nil {
		return
	}

	ws.AddRow()
	rec, err := ws.Row(0)
	if err != nil {
		h.writeServiceError(w, "failed to read new row", err)
		return
	}
	writeJSON(w, http.StatusCreated, toRecordResponse(0, rec))
}

// UpdateRow writes the given cells of one row. Every key is checked before
// anything is written.
func (h *Handler) UpdateRow(w http.ResponseWriter, r *http.Request) {
	ws := h.session(w, r)
	if ws == nil {
		return
	}
	index, ok := rowIndex(w, r)
	if !ok {
		return
	}

	var req SetCellsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Cells) == 0 {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	known := make(map[string]bool)
	for _, f := range ws.Fields() {
		known[f] = true
	}
	for name := range req.Cells {
		if !known[name] {
			writeError(w, http.StatusBadRequest, "unknown field "+strconv.Quote(name))
			return
		}
	}

	for name, value := range req.Cells {
		if err := ws.SetCell(index, name, value); err != nil {
			h.writeServiceError(w, "failed to set cell", err)
			return
		}
	}

	rec, err := ws.Row(index)
	if err != nil {
		h.writeServiceError(w, "failed to read row", err)
		return
	}
	writeJSON(w, http.StatusOK, toRecordResponse(index, rec))
}

// DeleteRow removes one row, deleting it from the store first when stored.
func (h *Handler) DeleteRow(w http.ResponseWriter, r *http.Request) {
	ws := h.session(w, r)
	if ws == nil {
		return
	}
	index, ok := rowIndex(w, r)
	if !ok {
		return
	}

	if err := h.records.DeleteRow(r.Context(), ws, index); err != nil {
		h.writeServiceError(w, "failed to delete row", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteAllRows removes every stored record. The request must carry
// confirm=yes; without it nothing is touched.
func (h *Handler) DeleteAllRows(w http.ResponseWriter, r *http.Request) {
	ws := h.session(w, r)
	if ws == nil {
		return
	}

	confirmed := r.URL.Query().Get("confirm") == "yes"
	n, err := h.records.DeleteAll(r.Context(), ws, application.ConfirmFunc(
		func(_ context.Context, _ string) (bool, error) { return confirmed, nil },
	))
	if err != nil {
		h.writeServiceError(w, "failed to delete all records", err)
		return
	}
	writeJSON(w, http.StatusOK, DeleteAllResponse{Deleted: n})
}

// AddField registers an ad-hoc column for the session.
func (h *Handler) AddField(w http.ResponseWriter, r *http.Request) {
	ws := h.session(w, r)
	if ws == nil {
		return
	}

	var req AddFieldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	name, err := ws.AddField(req.Name)
	if err != nil {
		h.writeServiceError(w, "failed to add field", err)
		return
	}
	writeJSON(w, http.StatusCreated, AddFieldResponse{Name: name, Fields: ws.Fields()})
}

// PasteCell writes tab-delimited text into the grid starting at an anchor cell.
func (h *Handler) PasteCell(w http.ResponseWriter, r *http.Request) {
	ws := h.session(w, r)
	if ws == nil {
		return
	}

	var req PasteCellRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := h.records.PasteText(ws, req.Text, application.Anchor{Row: req.Row, Field: model.Field(req.Field)})
	if err != nil {
		h.writeServiceError(w, "failed to paste", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// ImportText bulk-imports delimited text, prepending the rows.
func (h *Handler) ImportText(w http.ResponseWriter, r *http.Request) {
	ws := h.session(w, r)
	if ws == nil {
		return
	}

	var req ImportTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var delim tabular.Delimiter
	switch strings.ToLower(req.Delimiter) {
	case "", "tab":
		delim = tabular.Tab
	case "comma":
		delim = tabular.Comma
	default:
		writeError(w, http.StatusBadRequest, "delimiter must be tab or comma")
		return
	}

	n, err := h.records.ImportText(ws, req.Text, delim)
	if err != nil {
		h.writeServiceError(w, "failed to import text", err)
		return
	}
	writeJSON(w, http.StatusOK, ImportTextResponse{Imported: n, Total: ws.Len()})
}

// ImportFiles imports uploaded spreadsheets from the "files" form field. Each
// file is reported separately; one bad file does not reject the request.
func (h *Handler) ImportFiles(w http.ResponseWriter, r *http.Request) {
	ws := h.session(w, r)
	if ws == nil {
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		writeError(w, http.StatusBadRequest, "no files uploaded")
		return
	}

	files := make([]application.UploadFile, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			h.logger.Error("failed to open upload", "file", fh.Filename, "error", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		defer f.Close()
		files = append(files, application.UploadFile{Name: fh.Filename, Body: f})
	}

	report := h.records.ImportFiles(r.Context(), ws, files)
	writeJSON(w, http.StatusOK, toImportFilesResponse(report, ws.Len()))
}

// Save reconciles the session with the store.
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	ws := h.session(w, r)
	if ws == nil {
		return
	}

	res, err := h.records.Save(r.Context(), ws)
	if err != nil {
		h.writeServiceError(w, "failed to save session", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Export downloads the matching rows as a workbook. With multi=true the
// workbook carries one extra sheet per visit category.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	ws := h.session(w, r)
	if ws == nil {
		return
	}

	q, err := parseQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	multi, _ := strconv.ParseBool(r.URL.Query().Get("multi"))

	var buf bytes.Buffer
	if err := h.records.Export(r.Context(), &buf, ws, q, multi); err != nil {
		h.writeServiceError(w, "failed to export", err)
		return
	}
	writeAttachment(w, h.records.ExportFileName(), buf.Bytes())
}
