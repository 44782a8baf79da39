package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/basedosdados/catalog-engine/pkg/apperrors"
	"github.com/basedosdados/catalog-engine/pkg/models"
	"github.com/basedosdados/catalog-engine/pkg/services"
)

// TableHandler exposes the neighbor and coverage read surfaces of a table.
type TableHandler struct {
	neighbors services.NeighborService
	coverage  services.CoverageService
	logger    *zap.Logger
}

// NewTableHandler creates a new TableHandler.
func NewTableHandler(neighbors services.NeighborService, coverage services.CoverageService, logger *zap.Logger) *TableHandler {
	return &TableHandler{
		neighbors: neighbors,
		coverage:  coverage,
		logger:    logger.Named("table-handler"),
	}
}

// RegisterRoutes registers the table handler's routes on the given mux.
func (h *TableHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/tables/{tid}/neighbors", h.ListNeighbors)
	mux.HandleFunc("GET /api/tables/{tid}/related", h.ListRelated)
	mux.HandleFunc("GET /api/tables/{tid}/coverage", h.GetCoverage)
}

// neighborResponse is a neighbor row plus its derived score.
type neighborResponse struct {
	*models.TableNeighbor
	Score float64 `json:"score"`
}

func toNeighborResponses(rows []*models.TableNeighbor) []neighborResponse {
	out := make([]neighborResponse, 0, len(rows))
	for _, n := range rows {
		out = append(out, neighborResponse{TableNeighbor: n, Score: n.Score()})
	}
	return out
}

// ListNeighbors handles GET /api/tables/{tid}/neighbors.
// Rows come back unsorted; ordering is the client's concern.
func (h *TableHandler) ListNeighbors(w http.ResponseWriter, r *http.Request) {
	tableID, ok := h.tableID(w, r)
	if !ok {
		return
	}

	rows, err := h.neighbors.ListByTable(r.Context(), tableID)
	if err != nil {
		h.writeServiceError(w, "list neighbors", err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, map[string]interface{}{
		"neighbors": toNeighborResponses(rows),
	})
}

// ListRelated handles GET /api/tables/{tid}/related.
// Rows are sorted by descending score and capped (default 20, override with
// ?limit=N).
func (h *TableHandler) ListRelated(w http.ResponseWriter, r *http.Request) {
	tableID, ok := h.tableID(w, r)
	if !ok {
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			_ = ErrorResponse(w, http.StatusBadRequest, "invalid_limit", "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	rows, err := h.neighbors.ListRelated(r.Context(), tableID, limit)
	if err != nil {
		h.writeServiceError(w, "list related tables", err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, map[string]interface{}{
		"related": toNeighborResponses(rows),
	})
}

// GetCoverage handles GET /api/tables/{tid}/coverage.
func (h *TableHandler) GetCoverage(w http.ResponseWriter, r *http.Request) {
	tableID, ok := h.tableID(w, r)
	if !ok {
		return
	}

	report, err := h.coverage.TableCoverage(r.Context(), tableID)
	if err != nil {
		h.writeServiceError(w, "get table coverage", err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, report)
}

func (h *TableHandler) tableID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("tid"))
	if err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_table_id", "table id must be a UUID")
		return uuid.Nil, false
	}
	return id, true
}

func (h *TableHandler) writeServiceError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, apperrors.ErrNotFound) {
		_ = ErrorResponse(w, http.StatusNotFound, "not_found", "table not found")
		return
	}
	h.logger.Error("request failed", zap.String("op", op), zap.Error(err))
	_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "internal server error")
}
