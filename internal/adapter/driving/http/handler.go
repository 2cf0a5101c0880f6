package httphandler

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/ericfisherdev/placementpanel/internal/application"
	"github.com/ericfisherdev/placementpanel/internal/domain/model"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Handler is the HTTP driving adapter that serves the REST API.
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

// NewServeMux creates an http.Handler with only the API routes registered,
// wrapped with logging and recovery middleware.
func NewServeMux(h *Handler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	h.Register(mux)
	return ApplyMiddleware(mux, logger)
}

// Register adds the API routes to mux. The web adapter shares its mux this way.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/health", h.Health)

	mux.HandleFunc("POST /api/v1/sessions", h.CreateSession)
	mux.HandleFunc("GET /api/v1/sessions/{id}/rows", h.ListRows)
	mux.HandleFunc("POST /api/v1/sessions/{id}/rows", h.AddRow)
	mux.HandleFunc("DELETE /api/v1/sessions/{id}/rows", h.DeleteAllRows)
	mux.HandleFunc("PATCH /api/v1/sessions/{id}/rows/{index}", h.UpdateRow)
	mux.HandleFunc("DELETE /api/v1/sessions/{id}/rows/{index}", h.DeleteRow)
	mux.HandleFunc("POST /api/v1/sessions/{id}/fields", h.AddField)
	mux.HandleFunc("POST /api/v1/sessions/{id}/paste-cell", h.PasteCell)
	mux.HandleFunc("POST /api/v1/sessions/{id}/import-text", h.ImportText)
	mux.HandleFunc("POST /api/v1/sessions/{id}/import", h.ImportFiles)
	mux.HandleFunc("POST /api/v1/sessions/{id}/save", h.Save)
	mux.HandleFunc("GET /api/v1/sessions/{id}/export", h.Export)

	mux.HandleFunc("GET /api/v1/template", h.Template)
	mux.HandleFunc("GET /api/v1/overview", h.Overview)
	mux.HandleFunc("GET /api/v1/companies", h.Companies)
	mux.HandleFunc("GET /api/v1/theme", h.GetTheme)
	mux.HandleFunc("PUT /api/v1/theme", h.SelectTheme)
}

// Health returns a simple health check response.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}

// CreateSession opens an editing session and loads the stored records into it.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	id, ws, err := h.sessions.Create()
	if err != nil {
		h.logger.Error("failed to create session", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	n, err := h.records.Load(r.Context(), ws)
	if err != nil {
		h.sessions.Close(id)
		h.logger.Error("failed to load records into session", "error", err)
		writeError(w, http.StatusBadGateway, "failed to load records")
		return
	}

	writeJSON(w, http.StatusCreated, SessionResponse{ID: id, Rows: n, Fields: ws.Fields()})
}

// Template serves the import template workbook.
func (h *Handler) Template(w http.ResponseWriter, _ *http.Request) {
	var buf bytes.Buffer
	if err := h.records.Template(&buf); err != nil {
		h.logger.Error("failed to build template", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeAttachment(w, "Visit_Records_Template.xlsx", buf.Bytes())
}

// Overview returns dashboard statistics over the stored records.
func (h *Handler) Overview(w http.ResponseWriter, r *http.Request) {
	ov, err := h.overview.Overview(r.Context())
	if err != nil {
		h.logger.Error("failed to compute overview", "error", err)
		writeError(w, http.StatusBadGateway, "failed to load records")
		return
	}
	writeJSON(w, http.StatusOK, toOverviewResponse(ov))
}

// Companies returns the company directory, optionally filtered by search.
func (h *Handler) Companies(w http.ResponseWriter, r *http.Request) {
	companies, err := h.overview.Companies(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		h.logger.Error("failed to list companies", "error", err)
		writeError(w, http.StatusBadGateway, "failed to load records")
		return
	}

	resp := make([]CompanyResponse, 0, len(companies))
	for _, c := range companies {
		resp = append(resp, toCompanyResponse(c))
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetTheme returns the current theme selection and the catalog.
func (h *Handler) GetTheme(w http.ResponseWriter, r *http.Request) {
	sel, style, err := h.themes.Style(r.Context())
	if err != nil {
		// The default selection is still usable.
		h.logger.Warn("failed to read theme setting", "error", err)
	}
	writeJSON(w, http.StatusOK, toThemeResponse(h.themes.Catalog(), sel, style))
}

// SelectTheme saves a new theme selection.
func (h *Handler) SelectTheme(w http.ResponseWriter, r *http.Request) {
	var req SelectThemeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sel := model.ThemeSelection{Kind: model.ThemeKind(req.Kind), ID: req.ID, Dark: req.Dark}
	if err := h.themes.Select(r.Context(), sel); err != nil {
		if errors.Is(err, application.ErrUnknownTheme) {
			writeError(w, http.StatusBadRequest, "unknown theme")
			return
		}
		h.logger.Error("failed to save theme", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, toThemeResponse(h.themes.Catalog(), sel, application.ThemeStyle(h.themes.Catalog(), sel)))
}

// writeAttachment sends a workbook as a download.
func writeAttachment(w http.ResponseWriter, filename string, data []byte) {
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
