package api

import (
	"net/http"

	"github.com/wastewatch/wastewatch/internal/audit"
	"github.com/wastewatch/wastewatch/internal/auth"
	"github.com/wastewatch/wastewatch/internal/engine"
	"log/slog"
)

// SetupRoutes configures all API routes
func SetupRoutes(mux *http.ServeMux, eng *engine.Engine, auditLogger *audit.Logger, authConfig auth.Config, logger *slog.Logger) {
	handler := NewHandler(eng, logger)
	authHandler := NewAuthHandler(authConfig, logger)
	adminHandler := NewAdminHandler(auditLogger, logger)

	// Auth middleware
	authMiddleware := auth.AuthMiddleware(authConfig)

	// Prediction routes (public, consumed by the mobile client)
	mux.HandleFunc("/predict", handler.HandlePredict)
	mux.HandleFunc("/predict-batch", handler.HandlePredictBatch)
	mux.HandleFunc("/health", handler.HandleHealth)
	mux.HandleFunc("/api/metrics", handler.HandleModelMetrics)

	// Authentication routes (public)
	mux.HandleFunc("/api/auth/login", authHandler.Login)
	mux.HandleFunc("/api/auth/validate", func(w http.ResponseWriter, r *http.Request) {
		authMiddleware(http.HandlerFunc(authHandler.ValidateToken)).ServeHTTP(w, r)
	})

	// Admin routes (require auth)
	mux.HandleFunc("/api/admin/predictions", func(w http.ResponseWriter, r *http.Request) {
		authMiddleware(http.HandlerFunc(adminHandler.ListPredictionLogs)).ServeHTTP(w, r)
	})
	mux.HandleFunc("/api/admin/predictions/stats", func(w http.ResponseWriter, r *http.Request) {
		authMiddleware(http.HandlerFunc(adminHandler.PredictionStats)).ServeHTTP(w, r)
	})
}
