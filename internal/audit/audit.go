// Package audit persists a record of every served prediction so operators
// can review what the service told collection planners.
package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/wastewatch/wastewatch/internal/database"
	"github.com/wastewatch/wastewatch/internal/models"
)

// Logger writes prediction audit records to the database. A nil *Logger is
// safe to call; records are dropped. Writes happen asynchronously so a slow
// or unavailable database never delays a prediction response.
type Logger struct {
	repo   *database.PredictionLogRepository
	logger *slog.Logger
}

// NewLogger creates a new audit logger
func NewLogger(repo *database.PredictionLogRepository, logger *slog.Logger) *Logger {
	return &Logger{
		repo:   repo,
		logger: logger,
	}
}

// Record captures one served prediction before it becomes a stored row.
type Record struct {
	Mode            string // "single" or "batch"
	BarangayID      string
	BarangayName    string
	PredictedVolume float64
	Risk            string
	Confidence      float64
	EventMultiplier float64
	Latency         time.Duration
	Err             error
}

// Log stores the record. It returns immediately; persistence failures are
// logged, never surfaced to the caller.
func (l *Logger) Log(ctx context.Context, rec Record) {
	if l == nil || l.repo == nil {
		return
	}

	row := models.PredictionLog{
		ID:              uuid.NewString(),
		Mode:            rec.Mode,
		BarangayID:      rec.BarangayID,
		BarangayName:    rec.BarangayName,
		PredictedVolume: rec.PredictedVolume,
		Risk:            rec.Risk,
		Confidence:      rec.Confidence,
		EventMultiplier: rec.EventMultiplier,
		LatencyMs:       int(rec.Latency.Milliseconds()),
		Status:          "success",
	}
	if rec.Err != nil {
		row.Status = "error"
		row.ErrorMessage = rec.Err.Error()
	}

	go func() {
		bgCtx := context.Background()
		if err := l.repo.Create(bgCtx, row); err != nil {
			l.logger.Error("failed to persist prediction audit record", "error", err)
		}
	}()
}

// List exposes repository listing for the admin API.
func (l *Logger) List(ctx context.Context, q models.PredictionLogQuery) ([]models.PredictionLog, error) {
	return l.repo.List(ctx, q)
}

// Stats exposes repository aggregation for the admin API.
func (l *Logger) Stats(ctx context.Context, q models.PredictionLogQuery) (*models.PredictionLogStats, error) {
	return l.repo.GetStats(ctx, q)
}

// Enabled reports whether records will actually be persisted.
func (l *Logger) Enabled() bool {
	return l != nil && l.repo != nil
}
