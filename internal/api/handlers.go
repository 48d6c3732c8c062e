package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/wastewatch/wastewatch/internal/engine"
	"github.com/wastewatch/wastewatch/internal/models"
	"log/slog"
)

type Handler struct {
	engine *engine.Engine
	logger *slog.Logger
}

func NewHandler(eng *engine.Engine, logger *slog.Logger) *Handler {
	return &Handler{
		engine: eng,
		logger: logger,
	}
}

// HandlePredict handles POST /predict
func (h *Handler) HandlePredict(w http.ResponseWriter, r *http.Request) {
	setCORS(w, "POST, OPTIONS")
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req models.PredictionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	pred, err := h.engine.PredictOne(r.Context(), req)
	if err != nil {
		if errors.Is(err, engine.ErrModelsNotLoaded) {
			writeError(w, http.StatusServiceUnavailable, "ML models not loaded")
			return
		}
		h.logger.Error("prediction failed", "barangay", req.BarangayName, "error", err)
		writeError(w, http.StatusInternalServerError, "Prediction error: "+err.Error())
		return
	}

	writeJSON(w, h.logger, http.StatusOK, pred)
}

// HandlePredictBatch handles POST /predict-batch
func (h *Handler) HandlePredictBatch(w http.ResponseWriter, r *http.Request) {
	setCORS(w, "POST, OPTIONS")
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req models.BatchPredictionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	h.logger.Info("batch prediction request", "barangays", len(req.Barangays))

	resp := h.engine.PredictBatch(r.Context(), req)
	writeJSON(w, h.logger, http.StatusOK, resp)
}

// HandleHealth handles GET /health
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	setCORS(w, "GET, OPTIONS")
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, h.engine.Health())
}

// HandleModelMetrics handles GET /api/metrics, the model evaluation block
// consumed by the analytics dashboard. Distinct from the Prometheus
// endpoint at /metrics.
func (h *Handler) HandleModelMetrics(w http.ResponseWriter, r *http.Request) {
	setCORS(w, "GET, OPTIONS")
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, h.engine.Metrics())
}

func setCORS(w http.ResponseWriter, methods string) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", methods)
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}
