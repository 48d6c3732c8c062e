package models

import (
	"fmt"
	"strconv"
	"time"
)

// RiskLevel is the discrete overflow risk class emitted by the pipeline.
type RiskLevel string

const (
	RiskSafe     RiskLevel = "safe"
	RiskModerate RiskLevel = "moderate"
	RiskHigh     RiskLevel = "high"

	// RiskUnknown marks degraded results produced when the predictive
	// models are unavailable or an item failed mid-pipeline.
	RiskUnknown RiskLevel = "unknown"
)

// RiskLevelForClass maps the classifier's class index to a risk level.
// Unrecognized indices fall back to moderate.
func RiskLevelForClass(class int) RiskLevel {
	switch class {
	case 0:
		return RiskSafe
	case 1:
		return RiskModerate
	case 2:
		return RiskHigh
	default:
		return RiskModerate
	}
}

// PredictionRequest is a single barangay prediction request as sent by the
// mobile client. DayOfWeek is trusted as supplied and is not cross-checked
// against PredictionDate; callers may intentionally diverge the two.
type PredictionRequest struct {
	BarangayID        string  `json:"barangay_id"`
	BarangayName      string  `json:"barangay_name"`
	Population        float64 `json:"population"`
	PopulationDensity float64 `json:"population_density"`
	BinCapacity       float64 `json:"bin_capacity"`
	RainfallMM        float64 `json:"rainfall_mm"`
	TemperatureC      float64 `json:"temperature_c"`
	IsMarketDay       int     `json:"is_market_day"`
	DayOfWeek         int     `json:"day_of_week"`
	PredictionDate    string  `json:"prediction_date,omitempty"` // YYYY-MM-DD, defaults to today
}

// BatchPredictionRequest wraps the per-district requests of a batch call.
type BatchPredictionRequest struct {
	Barangays []PredictionRequest `json:"barangays"`
}

// Factor is a feature-importance entry attached to single predictions.
type Factor struct {
	Feature    string  `json:"feature"`
	Value      string  `json:"value"`
	Importance float64 `json:"importance"`
}

// VolumeBand is the percentile-threshold volume category assigned to every
// batch result, independent of the cascade's risk label.
type VolumeBand struct {
	Label     string `json:"volume_risk"`
	Color     string `json:"color"`
	Level     int    `json:"level"`
	Threshold string `json:"threshold"`
	Action    string `json:"action"`
	Icon      string `json:"icon"`
}

// Prediction is the per-district result returned to the caller.
type Prediction struct {
	BarangayID      string      `json:"barangayId"`
	BarangayName    string      `json:"barangayName,omitempty"`
	PredictedVolume float64     `json:"predictedVolume"`
	OverflowRisk    RiskLevel   `json:"overflowRisk"`
	Confidence      float64     `json:"confidence"`
	ModelVersion    string      `json:"modelVersion,omitempty"`
	Timestamp       string      `json:"timestamp,omitempty"`
	Events          []string    `json:"events"`
	EventMultiplier float64     `json:"eventMultiplier,omitempty"`
	Factors         []Factor    `json:"factors,omitempty"`
	VolumeRisk      *VolumeBand `json:"volumeRisk,omitempty"`
	Error           string      `json:"error,omitempty"`
}

// VolumeThresholds are the percentile cut-offs pinned from training.
type VolumeThresholds struct {
	P70 float64 `json:"p70"`
	P90 float64 `json:"p90"`
}

// ModelMetrics is the static evaluation block pinned from the last training
// run. It is reported, never recomputed at serve time.
type ModelMetrics struct {
	R2                   float64            `json:"r2"`
	MSE                  float64            `json:"mse"`
	Accuracy             float64            `json:"accuracy"`
	ExplainedVariance    float64            `json:"explained_variance"`
	LastTrained          string             `json:"lastTrained"`
	ModelVersion         string             `json:"modelVersion"`
	FeatureImportance    map[string]float64 `json:"featureImportance"`
	FeaturesUsed         int                `json:"featuresUsed"`
	BarangaysCovered     int                `json:"barangaysCovered,omitempty"`
	VolumeRiskThresholds *VolumeThresholds  `json:"volumeRiskThresholds,omitempty"`
}

// BatchPredictionResponse is the full batch payload: the same-length result
// list plus the pinned metrics block.
type BatchPredictionResponse struct {
	Predictions []Prediction `json:"predictions"`
	Metrics     ModelMetrics `json:"metrics"`
}

// HealthStatus summarizes process readiness for the health endpoint.
type HealthStatus struct {
	Status               string           `json:"status"`
	ModelsLoaded         bool             `json:"models_loaded"`
	MetadataLoaded       bool             `json:"metadata"`
	EventsConfigured     bool             `json:"events_data"`
	ExpectedFeatures     []string         `json:"expected_features"`
	VolumeRiskThresholds VolumeThresholds `json:"volume_risk_thresholds"`
	RiskAdjustment       string           `json:"risk_adjustment"`
	Timestamp            string           `json:"timestamp"`
}

// PredictionLog is a single audit record of a served prediction.
type PredictionLog struct {
	ID              string    `json:"id"`
	Mode            string    `json:"mode"` // "single" or "batch"
	BarangayID      string    `json:"barangay_id"`
	BarangayName    string    `json:"barangay_name"`
	PredictedVolume float64   `json:"predicted_volume"`
	Risk            string    `json:"risk"`
	Confidence      float64   `json:"confidence"`
	EventMultiplier float64   `json:"event_multiplier"`
	LatencyMs       int       `json:"latency_ms"`
	Status          string    `json:"status"` // "success" or "error"
	ErrorMessage    string    `json:"error_message,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// PredictionLogQuery filters audit-log listings.
type PredictionLogQuery struct {
	Mode      string
	Risk      string
	Barangay  string
	Status    string
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int
	Offset    int
}

// FormatGrouped renders 80647 as "80,647". Used for the human-readable
// population factor and the volume-band threshold strings.
func FormatGrouped(v float64) string {
	n := int64(v)
	if n < 0 {
		return "-" + FormatGrouped(-v)
	}
	if n < 1000 {
		return strconv.FormatInt(n, 10)
	}
	return FormatGrouped(float64(n/1000)) + "," + fmt.Sprintf("%03d", n%1000)
}

// PredictionLogStats aggregates the audit log for the admin dashboard.
type PredictionLogStats struct {
	TotalPredictions int     `json:"total_predictions"`
	FailedCount      int     `json:"failed_count"`
	AvgLatencyMs     float64 `json:"avg_latency_ms"`
	AvgConfidence    float64 `json:"avg_confidence"`
	HighRiskCount    int     `json:"high_risk_count"`
}
