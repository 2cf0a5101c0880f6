package web

import (
	"io/fs"
	"net/http"
)

// RegisterRoutes registers all web GUI routes on the provided mux.
// Pages live at / and /app/*; every POST is CSRF-checked.
// Static assets are served from the embedded filesystem at /static/*.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	staticFS, _ := fs.Sub(StaticFS, "static")
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(staticFS)))

	mux.HandleFunc("GET /{$}", h.Dashboard)
	mux.HandleFunc("GET /app/records", h.Records)
	mux.HandleFunc("GET /app/records/export", h.Export)
	mux.HandleFunc("GET /app/template", h.Template)
	mux.HandleFunc("GET /app/companies", h.Companies)
	mux.HandleFunc("GET /app/theme", h.Theme)

	mux.HandleFunc("POST /app/theme", requireCSRF(h.SelectTheme))
	mux.HandleFunc("POST /app/records/rows", requireCSRF(h.editorAction(h.addRow)))
	mux.HandleFunc("POST /app/records/cell", requireCSRF(h.editorAction(h.updateRow)))
	mux.HandleFunc("POST /app/records/fields", requireCSRF(h.editorAction(h.addField)))
	mux.HandleFunc("POST /app/records/paste", requireCSRF(h.editorAction(h.paste)))
	mux.HandleFunc("POST /app/records/upload", requireCSRF(h.editorAction(h.upload)))
	mux.HandleFunc("POST /app/records/delete", requireCSRF(h.editorAction(h.deleteRow)))
	mux.HandleFunc("POST /app/records/delete-all", requireCSRF(h.editorAction(h.deleteAll)))
	mux.HandleFunc("POST /app/records/save", requireCSRF(h.editorAction(h.save)))
	mux.HandleFunc("POST /app/records/reload", requireCSRF(h.editorAction(h.reload)))
}
