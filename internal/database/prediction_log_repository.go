package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/wastewatch/wastewatch/internal/models"
)

// PredictionLogRepository handles prediction audit-log database operations
type PredictionLogRepository struct {
	db *sql.DB
}

// NewPredictionLogRepository creates a new repository
func NewPredictionLogRepository(db *sql.DB) *PredictionLogRepository {
	return &PredictionLogRepository{db: db}
}

// Create records one served prediction
func (r *PredictionLogRepository) Create(ctx context.Context, log models.PredictionLog) error {
	query := `
		INSERT INTO prediction_logs (
			id, mode, barangay_id, barangay_name, predicted_volume, risk,
			confidence, event_multiplier, latency_ms, status, error_message
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.ExecContext(ctx, query,
		log.ID,
		log.Mode,
		log.BarangayID,
		log.BarangayName,
		log.PredictedVolume,
		log.Risk,
		log.Confidence,
		log.EventMultiplier,
		log.LatencyMs,
		log.Status,
		nullIfEmpty(log.ErrorMessage),
	)

	return err
}

// List retrieves prediction logs with optional filtering
func (r *PredictionLogRepository) List(ctx context.Context, query models.PredictionLogQuery) ([]models.PredictionLog, error) {
	sqlQuery := `
		SELECT id, mode, barangay_id, barangay_name, predicted_volume, risk,
		       confidence, event_multiplier, latency_ms, status, error_message, created_at
		FROM prediction_logs
		WHERE 1=1
	`
	args := []interface{}{}
	argPos := 1

	if query.Mode != "" {
		sqlQuery += fmt.Sprintf(" AND mode = $%d", argPos)
		args = append(args, query.Mode)
		argPos++
	}

	if query.Risk != "" {
		sqlQuery += fmt.Sprintf(" AND risk = $%d", argPos)
		args = append(args, query.Risk)
		argPos++
	}

	if query.Barangay != "" {
		sqlQuery += fmt.Sprintf(" AND barangay_name ILIKE $%d", argPos)
		args = append(args, "%"+query.Barangay+"%")
		argPos++
	}

	if query.Status != "" {
		sqlQuery += fmt.Sprintf(" AND status = $%d", argPos)
		args = append(args, query.Status)
		argPos++
	}

	if query.StartDate != nil {
		sqlQuery += fmt.Sprintf(" AND created_at >= $%d", argPos)
		args = append(args, query.StartDate)
		argPos++
	}

	if query.EndDate != nil {
		sqlQuery += fmt.Sprintf(" AND created_at <= $%d", argPos)
		args = append(args, query.EndDate)
		argPos++
	}

	sqlQuery += " ORDER BY created_at DESC"

	if query.Limit > 0 {
		sqlQuery += fmt.Sprintf(" LIMIT $%d", argPos)
		args = append(args, query.Limit)
		argPos++
	}

	if query.Offset > 0 {
		sqlQuery += fmt.Sprintf(" OFFSET $%d", argPos)
		args = append(args, query.Offset)
	}

	rows, err := r.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query prediction logs: %w", err)
	}
	defer rows.Close()

	var logs []models.PredictionLog
	for rows.Next() {
		var log models.PredictionLog
		var errMsg sql.NullString

		err := rows.Scan(
			&log.ID,
			&log.Mode,
			&log.BarangayID,
			&log.BarangayName,
			&log.PredictedVolume,
			&log.Risk,
			&log.Confidence,
			&log.EventMultiplier,
			&log.LatencyMs,
			&log.Status,
			&errMsg,
			&log.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan prediction log: %w", err)
		}

		if errMsg.Valid {
			log.ErrorMessage = errMsg.String
		}

		logs = append(logs, log)
	}

	return logs, nil
}

// GetStats retrieves aggregated statistics for the admin dashboard
func (r *PredictionLogRepository) GetStats(ctx context.Context, query models.PredictionLogQuery) (*models.PredictionLogStats, error) {
	sqlQuery := `
		SELECT
			COUNT(*) as total_predictions,
			SUM(CASE WHEN status = 'error' THEN 1 ELSE 0 END) as failed_count,
			COALESCE(AVG(latency_ms), 0) as avg_latency_ms,
			COALESCE(AVG(confidence), 0) as avg_confidence,
			SUM(CASE WHEN risk = 'high' THEN 1 ELSE 0 END) as high_risk_count
		FROM prediction_logs
		WHERE 1=1
	`
	args := []interface{}{}
	argPos := 1

	if query.StartDate != nil {
		sqlQuery += fmt.Sprintf(" AND created_at >= $%d", argPos)
		args = append(args, query.StartDate)
		argPos++
	}

	if query.EndDate != nil {
		sqlQuery += fmt.Sprintf(" AND created_at <= $%d", argPos)
		args = append(args, query.EndDate)
	}

	var stats models.PredictionLogStats
	err := r.db.QueryRowContext(ctx, sqlQuery, args...).Scan(
		&stats.TotalPredictions,
		&stats.FailedCount,
		&stats.AvgLatencyMs,
		&stats.AvgConfidence,
		&stats.HighRiskCount,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to get prediction stats: %w", err)
	}

	return &stats, nil
}

func nullIfEmpty(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
