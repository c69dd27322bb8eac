package http

import (
	"embed"
	"io/fs"
	"log/slog"
	"net/http"
)

// Embedded dashboard page
//
//go:embed web
var webFiles embed.FS

// WebHandler serves the embedded single-page dashboard, so the binary needs
// no files on disk next to it.
type WebHandler struct {
	logger *slog.Logger
	fsys   fs.FS
}

// NewWebHandler creates the handler over the embedded web assets.
func NewWebHandler(logger *slog.Logger) (*WebHandler, error) {
	if logger == nil {
		logger = slog.Default()
	}

	sub, err := fs.Sub(webFiles, "web")
	if err != nil {
		return nil, err
	}

	return &WebHandler{
		logger: logger.With(slog.String("component", "web_handler")),
		fsys:   sub,
	}, nil
}

// ServeIndex handles GET / with the dashboard page.
func (h *WebHandler) ServeIndex(w http.ResponseWriter, r *http.Request) {
	data, err := fs.ReadFile(h.fsys, "index.html")
	if err != nil {
		h.logger.ErrorContext(r.Context(), "embedded dashboard page unavailable",
			slog.String("error", err.Error()))
		http.Error(w, "dashboard page not available", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(data)
}
