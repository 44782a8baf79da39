package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/basedosdados/catalog-engine/pkg/apperrors"
	"github.com/basedosdados/catalog-engine/pkg/services"
)

// AdminHandler exposes the neighbor refresh trigger. The scheduled job and
// this endpoint share the same full-recompute entry point.
type AdminHandler struct {
	neighbors services.NeighborService
	logger    *zap.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(neighbors services.NeighborService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		neighbors: neighbors,
		logger:    logger.Named("admin-handler"),
	}
}

// RegisterRoutes registers the admin handler's routes on the given mux.
func (h *AdminHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/admin/neighbors/refresh", h.StartRefresh)
	mux.HandleFunc("GET /api/admin/neighbors/refresh/status", h.RefreshStatus)
}

// StartRefresh handles POST /api/admin/neighbors/refresh.
// Launches a background full recompute of all table neighbors.
func (h *AdminHandler) StartRefresh(w http.ResponseWriter, r *http.Request) {
	err := h.neighbors.StartRefresh(r.Context())
	if err != nil {
		if errors.Is(err, apperrors.ErrRefreshInFlight) {
			_ = ErrorResponse(w, http.StatusConflict, "refresh_in_flight", "a neighbor refresh is already running")
			return
		}
		h.logger.Error("failed to start neighbor refresh", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	_ = WriteJSON(w, http.StatusAccepted, map[string]string{"status": "started"})
}

// RefreshStatus handles GET /api/admin/neighbors/refresh/status.
func (h *AdminHandler) RefreshStatus(w http.ResponseWriter, r *http.Request) {
	_ = WriteJSON(w, http.StatusOK, h.neighbors.Status())
}
