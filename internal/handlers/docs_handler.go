package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	scalargo "github.com/bdpiprava/scalar-go"
)

// DocsHandler serves the Scalar API reference for the OpenAPI document in specDir
type DocsHandler struct {
	specDir string
	title   string
	logger  *slog.Logger
}

// NewDocsHandler creates a new docs handler
func NewDocsHandler(specDir, title string, logger *slog.Logger) *DocsHandler {
	return &DocsHandler{
		specDir: specDir,
		title:   title,
		logger:  logger,
	}
}

// ServeHTTP handles GET /docs
func (h *DocsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	html, err := scalargo.NewV2(
		scalargo.WithSpecDir(h.specDir),
		scalargo.WithMetaDataOpts(
			scalargo.WithTitle(h.title),
		),
	)
	if err != nil {
		h.logger.Error("failed to render api reference", "spec_dir", h.specDir, "error", err)
		WriteError(w, http.StatusInternalServerError, "API reference unavailable", h.logger)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, html)
}
