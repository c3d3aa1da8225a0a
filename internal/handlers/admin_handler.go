package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/catalog"
)

// Syncer pushes the local snapshot to the remote store
type Syncer interface {
	Sync(ctx context.Context, force bool) (catalog.ReplicationReport, error)
}

// AdminHandler exposes maintenance operations
type AdminHandler struct {
	syncer Syncer
	logger *slog.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(syncer Syncer, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		syncer: syncer,
		logger: logger,
	}
}

// SyncSnapshot handles POST /api/admin/sync[?force=true]
func (h *AdminHandler) SyncSnapshot(w http.ResponseWriter, r *http.Request) {
	force := false
	if raw := r.URL.Query().Get("force"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "force must be a boolean", h.logger)
			return
		}
		force = parsed
	}

	report, err := h.syncer.Sync(r.Context(), force)
	if err != nil {
		h.logger.Error("snapshot sync failed", "force", force, "error", err)

		switch {
		case errors.Is(err, catalog.ErrRemoteNotConfigured):
			WriteError(w, http.StatusConflict, "Remote store not configured", h.logger)
		case errors.Is(err, catalog.ErrSnapshotNotFound):
			WriteError(w, http.StatusNotFound, "Products snapshot not found", h.logger)
		default:
			WriteError(w, http.StatusBadGateway, "Remote store unavailable", h.logger)
		}
		return
	}

	WriteJSON(w, http.StatusOK, report, h.logger)
}
