// Package engine runs the full prediction pipeline: event resolution,
// feature assembly, model inference, risk decision, volume banding, and the
// audit/metrics side effects.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/wastewatch/wastewatch/internal/audit"
	"github.com/wastewatch/wastewatch/internal/baseline"
	"github.com/wastewatch/wastewatch/internal/events"
	"github.com/wastewatch/wastewatch/internal/features"
	"github.com/wastewatch/wastewatch/internal/metrics"
	"github.com/wastewatch/wastewatch/internal/models"
	"github.com/wastewatch/wastewatch/internal/predictor"
	"github.com/wastewatch/wastewatch/internal/risk"
)

// ErrModelsNotLoaded is returned by single predictions when the predictive
// models are unavailable. Batch predictions never return it; they emit
// degraded per-item records instead.
var ErrModelsNotLoaded = errors.New("ml models not loaded")

// Deps collects everything the engine needs. Audit and Metrics may be nil.
type Deps struct {
	Models    predictor.ModelSet
	Calendar  *events.Calendar
	Baselines *baseline.Table
	Metadata  predictor.Metadata

	// MetadataLoaded reports whether Metadata came from an actual file
	// rather than pinned defaults.
	MetadataLoaded bool

	Audit   *audit.Logger
	Metrics *metrics.Collector
	Logger  *slog.Logger

	// Now overrides the clock; nil means time.Now.
	Now func() time.Time
}

// Engine is the prediction pipeline. Safe for concurrent use.
type Engine struct {
	models         predictor.ModelSet
	calendar       *events.Calendar
	baselines      *baseline.Table
	metadata       predictor.Metadata
	metadataLoaded bool

	cascade *risk.Cascade
	audit   *audit.Logger
	metrics *metrics.Collector
	logger  *slog.Logger
	now     func() time.Time
}

// New assembles an engine from its dependencies.
func New(deps Deps) *Engine {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Engine{
		models:         deps.Models,
		calendar:       deps.Calendar,
		baselines:      deps.Baselines,
		metadata:       deps.Metadata,
		metadataLoaded: deps.MetadataLoaded,
		cascade:        risk.NewCascade(),
		audit:          deps.Audit,
		metrics:        deps.Metrics,
		logger:         deps.Logger,
		now:            now,
	}
}

// pipelineResult carries the intermediate state shared between the single
// and batch paths.
type pipelineResult struct {
	resolution events.Resolution
	vector     features.Vector
	volume     float64
	class      int
	probs      predictor.Probabilities
}

// run executes event resolution, feature assembly and both model calls for
// one request.
func (e *Engine) run(ctx context.Context, req models.PredictionRequest) (pipelineResult, error) {
	target := events.ParseTargetDate(req.PredictionDate, e.now())
	res := e.calendar.Resolve(req.BarangayName, target)
	base := e.baselines.BaselineFor(req.BarangayName, req.Population)
	vec := features.Build(req, res, base, target)

	start := time.Now()
	volume, err := e.models.Volume.Predict(ctx, vec)
	if err != nil {
		return pipelineResult{}, fmt.Errorf("volume prediction: %w", err)
	}
	e.metrics.ObserveModelLatency("volume", time.Since(start))

	start = time.Now()
	probs, err := e.models.Risk.PredictProba(ctx, vec)
	if err != nil {
		return pipelineResult{}, fmt.Errorf("risk probabilities: %w", err)
	}
	class, err := e.models.Risk.Predict(ctx, vec)
	if err != nil {
		return pipelineResult{}, fmt.Errorf("risk class: %w", err)
	}
	e.metrics.ObserveModelLatency("risk", time.Since(start))

	return pipelineResult{
		resolution: res,
		vector:     vec,
		volume:     volume,
		class:      class,
		probs:      probs,
	}, nil
}

// PredictOne serves a single prediction. The classifier output is trusted
// verbatim; no cascade overrides apply on this path.
func (e *Engine) PredictOne(ctx context.Context, req models.PredictionRequest) (models.Prediction, error) {
	if !e.models.Loaded() {
		return models.Prediction{}, ErrModelsNotLoaded
	}

	started := time.Now()
	pr, err := e.run(ctx, req)
	if err != nil {
		e.logger.Error("single prediction failed", "barangay", req.BarangayName, "error", err)
		e.audit.Log(ctx, audit.Record{
			Mode:         "single",
			BarangayID:   req.BarangayID,
			BarangayName: req.BarangayName,
			Latency:      time.Since(started),
			Err:          err,
		})
		return models.Prediction{}, err
	}

	decision := risk.Single(pr.class, pr.probs)
	historical := e.baselines.HistoricalWaste(req.BarangayName)

	e.logger.Info("prediction served",
		"barangay", req.BarangayName,
		"volume", pr.volume,
		"risk", decision.Label,
		"multiplier", pr.resolution.Multiplier,
		"events", pr.resolution.Names)

	pred := models.Prediction{
		BarangayID:      req.BarangayID,
		BarangayName:    req.BarangayName,
		PredictedVolume: pr.volume,
		OverflowRisk:    decision.Label,
		Confidence:      decision.Confidence,
		ModelVersion:    e.metadata.Version(),
		Timestamp:       e.now().Format(time.RFC3339),
		Events:          eventNames(pr.resolution),
		EventMultiplier: pr.resolution.Multiplier,
		Factors:         buildFactors(req, pr.resolution, historical),
	}

	e.metrics.ObservePrediction("single", string(decision.Label))
	e.audit.Log(ctx, audit.Record{
		Mode:            "single",
		BarangayID:      req.BarangayID,
		BarangayName:    req.BarangayName,
		PredictedVolume: pr.volume,
		Risk:            string(decision.Label),
		Confidence:      decision.Confidence,
		EventMultiplier: pr.resolution.Multiplier,
		Latency:         time.Since(started),
	})

	return pred, nil
}

// PredictBatch serves one prediction per requested district, in request
// order. Per-item failures produce degraded records rather than failing the
// batch; every record, degraded ones included, receives a volume band.
func (e *Engine) PredictBatch(ctx context.Context, req models.BatchPredictionRequest) models.BatchPredictionResponse {
	preds := make([]models.Prediction, 0, len(req.Barangays))

	for i, item := range req.Barangays {
		preds = append(preds, e.predictBatchItem(ctx, item, i))
	}

	risk.ApplyBands(preds, e.metadata.Thresholds())

	return models.BatchPredictionResponse{
		Predictions: preds,
		Metrics:     e.metadata.Metrics(),
	}
}

func (e *Engine) predictBatchItem(ctx context.Context, item models.PredictionRequest, idx int) models.Prediction {
	started := time.Now()

	if !e.models.Loaded() {
		return e.degraded(ctx, item, started, ErrModelsNotLoaded)
	}

	pr, err := e.run(ctx, item)
	if err != nil {
		e.logger.Error("batch item failed", "barangay", item.BarangayName, "index", idx, "error", err)
		return e.degraded(ctx, item, started, err)
	}

	decision := e.cascade.Decide(risk.Input{
		Class:           pr.class,
		Probs:           pr.probs,
		Volume:          pr.volume,
		EventMultiplier: pr.resolution.Multiplier,
		Index:           idx,
	})

	e.metrics.ObservePrediction("batch", string(decision.Label))
	e.audit.Log(ctx, audit.Record{
		Mode:            "batch",
		BarangayID:      item.BarangayID,
		BarangayName:    item.BarangayName,
		PredictedVolume: pr.volume,
		Risk:            string(decision.Label),
		Confidence:      decision.Confidence,
		EventMultiplier: pr.resolution.Multiplier,
		Latency:         time.Since(started),
	})

	return models.Prediction{
		BarangayID:      item.BarangayID,
		BarangayName:    item.BarangayName,
		PredictedVolume: pr.volume,
		OverflowRisk:    decision.Label,
		Confidence:      decision.Confidence,
		ModelVersion:    e.metadata.Version(),
		Timestamp:       e.now().Format(time.RFC3339),
		Events:          eventNames(pr.resolution),
		EventMultiplier: pr.resolution.Multiplier,
	}
}

// degraded builds the placeholder record for a failed batch item: zero
// volume, unknown risk, zero confidence, error message set.
func (e *Engine) degraded(ctx context.Context, item models.PredictionRequest, started time.Time, err error) models.Prediction {
	e.metrics.ObservePrediction("batch", string(models.RiskUnknown))
	e.audit.Log(ctx, audit.Record{
		Mode:         "batch",
		BarangayID:   item.BarangayID,
		BarangayName: item.BarangayName,
		Risk:         string(models.RiskUnknown),
		Latency:      time.Since(started),
		Err:          err,
	})

	return models.Prediction{
		BarangayID:   item.BarangayID,
		OverflowRisk: models.RiskUnknown,
		Events:       []string{},
		Error:        err.Error(),
	}
}

// Health reports process readiness for the application health endpoint.
func (e *Engine) Health() models.HealthStatus {
	status := "healthy"
	if !e.models.Loaded() {
		status = "unhealthy"
	}

	expected := make([]string, 0, features.Count)
	expected = append(expected, features.Names[:]...)

	return models.HealthStatus{
		Status:               status,
		ModelsLoaded:         e.models.Loaded(),
		MetadataLoaded:       e.metadataLoaded,
		EventsConfigured:     e.calendar.Configured(),
		ExpectedFeatures:     expected,
		VolumeRiskThresholds: e.metadata.Thresholds(),
		RiskAdjustment:       "ENABLED (volume & event based)",
		Timestamp:            e.now().Format(time.RFC3339),
	}
}

// Metrics returns the full pinned evaluation block for the metrics API.
func (e *Engine) Metrics() models.ModelMetrics {
	return e.metadata.FullMetrics()
}

func eventNames(res events.Resolution) []string {
	if len(res.Names) == 0 {
		return []string{}
	}
	return res.Names
}

// buildFactors assembles the human-readable influence list attached to
// single predictions. Importances are pinned from training; Historical
// Waste reports the raw baseline, before the event multiplier.
func buildFactors(req models.PredictionRequest, res events.Resolution, historical float64) []models.Factor {
	evs := "None"
	if len(res.Names) > 0 {
		evs = joinNames(res.Names)
	}

	return []models.Factor{
		{Feature: "Historical Waste", Value: fmt.Sprintf("%.0f kg", historical), Importance: 0.445},
		{Feature: "Population", Value: models.FormatGrouped(req.Population), Importance: 0.458},
		{Feature: "Rainfall", Value: strconv.FormatFloat(req.RainfallMM, 'g', -1, 64) + " mm", Importance: 0.296},
		{Feature: "Events", Value: evs, Importance: 0.35},
	}
}

func joinNames(names []string) string {
	out := names[0]
	for _, n := range names[1:] {
		out += ", " + n
	}
	return out
}
