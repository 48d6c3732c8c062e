package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/wastewatch/wastewatch/internal/audit"
	"github.com/wastewatch/wastewatch/internal/models"
	"log/slog"
)

// AdminHandler exposes the prediction audit log to authenticated operators
type AdminHandler struct {
	audit  *audit.Logger
	logger *slog.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(auditLogger *audit.Logger, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		audit:  auditLogger,
		logger: logger,
	}
}

// ListPredictionLogs handles GET /api/admin/predictions
func (h *AdminHandler) ListPredictionLogs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if !h.audit.Enabled() {
		http.Error(w, "Audit log not configured", http.StatusNotImplemented)
		return
	}

	query := parseLogQuery(r)

	logs, err := h.audit.List(r.Context(), query)
	if err != nil {
		h.logger.Error("failed to list prediction logs", "error", err)
		http.Error(w, "Failed to list prediction logs", http.StatusInternalServerError)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"logs":   logs,
		"limit":  query.Limit,
		"offset": query.Offset,
	})
}

// PredictionStats handles GET /api/admin/predictions/stats
func (h *AdminHandler) PredictionStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if !h.audit.Enabled() {
		http.Error(w, "Audit log not configured", http.StatusNotImplemented)
		return
	}

	query := parseLogQuery(r)

	stats, err := h.audit.Stats(r.Context(), query)
	if err != nil {
		h.logger.Error("failed to get prediction stats", "error", err)
		http.Error(w, "Failed to get prediction stats", http.StatusInternalServerError)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, stats)
}

func parseLogQuery(r *http.Request) models.PredictionLogQuery {
	query := models.PredictionLogQuery{
		Mode:     r.URL.Query().Get("mode"),
		Risk:     r.URL.Query().Get("risk"),
		Barangay: r.URL.Query().Get("barangay"),
		Status:   r.URL.Query().Get("status"),
		Limit:    100, // Default limit
		Offset:   0,
	}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
			query.Limit = limit
		}
	}

	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil && offset >= 0 {
			query.Offset = offset
		}
	}

	if startDateStr := r.URL.Query().Get("start_date"); startDateStr != "" {
		if startDate, err := time.Parse(time.RFC3339, startDateStr); err == nil {
			query.StartDate = &startDate
		}
	}

	if endDateStr := r.URL.Query().Get("end_date"); endDateStr != "" {
		if endDate, err := time.Parse(time.RFC3339, endDateStr); err == nil {
			query.EndDate = &endDate
		}
	}

	return query
}
