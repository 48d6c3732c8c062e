package predictor

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/wastewatch/wastewatch/internal/features"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestProbabilitiesMax(t *testing.T) {
	tests := []struct {
		probs Probabilities
		want  float64
	}{
		{Probabilities{0.7, 0.2, 0.1}, 0.7},
		{Probabilities{0.1, 0.6, 0.3}, 0.6},
		{Probabilities{0.0, 0.05, 0.95}, 0.95},
	}
	for _, tt := range tests {
		if got := tt.probs.Max(); got != tt.want {
			t.Errorf("Max(%v) = %v, want %v", tt.probs, got, tt.want)
		}
	}
}

func TestHTTPModelPredict(t *testing.T) {
	var gotPath string
	var gotFeatures []float64

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path

		var req inferenceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		gotFeatures = req.Features

		json.NewEncoder(w).Encode(volumeResponse{Volume: 12345.6})
	}))
	defer srv.Close()

	m := NewHTTPModel(srv.URL, 5*time.Second)
	vec := features.Vector{80647, 32657.52}

	volume, err := m.Predict(context.Background(), vec)
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if volume != 12345.6 {
		t.Errorf("volume = %v, want 12345.6", volume)
	}
	if gotPath != "/volume" {
		t.Errorf("path = %q, want /volume", gotPath)
	}
	if len(gotFeatures) != features.Count || gotFeatures[0] != 80647 {
		t.Errorf("features = %v", gotFeatures)
	}
}

func TestHTTPModelRisk(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/risk" {
			t.Errorf("path = %q, want /risk", r.URL.Path)
		}
		json.NewEncoder(w).Encode(riskResponse{
			Class:         2,
			Probabilities: [3]float64{0.1, 0.2, 0.7},
		})
	}))
	defer srv.Close()

	set := NewHTTPModelSet(srv.URL, 5*time.Second)
	if !set.Loaded() {
		t.Fatal("set not loaded")
	}

	class, err := set.Risk.Predict(context.Background(), features.Vector{})
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if class != 2 {
		t.Errorf("class = %d, want 2", class)
	}

	probs, err := set.Risk.PredictProba(context.Background(), features.Vector{})
	if err != nil {
		t.Fatalf("PredictProba: %v", err)
	}
	if probs != (Probabilities{0.1, 0.2, 0.7}) {
		t.Errorf("probs = %v", probs)
	}
}

func TestHTTPModelErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	m := NewHTTPModel(srv.URL, 5*time.Second)
	if _, err := m.Predict(context.Background(), features.Vector{}); err == nil {
		t.Error("expected error on 500 response")
	}
}

func TestHTTPModelContextCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Drain the body so the server can detect the client disconnect;
		// with unread body bytes pending, r.Context() is never cancelled
		// and srv.Close() deadlocks.
		io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	}))
	defer srv.Close()

	m := NewHTTPModel(srv.URL, 5*time.Second)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := m.Predict(ctx, features.Vector{}); err == nil {
		t.Error("expected error on cancelled context")
	}
}

func TestNewHTTPModelSetEmptyURL(t *testing.T) {
	set := NewHTTPModelSet("", 5*time.Second)
	if set.Loaded() {
		t.Error("empty base URL must yield an unloaded set")
	}
}

func TestLoadMetadataMissingFile(t *testing.T) {
	meta, loaded := LoadMetadata(filepath.Join(t.TempDir(), "nope.json"), testLogger())
	if loaded {
		t.Error("loaded = true for missing file")
	}

	if got := meta.Version(); got != DefaultVersion {
		t.Errorf("Version = %q, want %q", got, DefaultVersion)
	}

	th := meta.Thresholds()
	if th.P70 != DefaultP70Threshold || th.P90 != DefaultP90Threshold {
		t.Errorf("thresholds = %+v", th)
	}

	metrics := meta.FullMetrics()
	if metrics.R2 != DefaultR2 || metrics.MSE != DefaultMSE || metrics.Accuracy != DefaultAccuracy {
		t.Errorf("metrics = %+v", metrics)
	}
	if metrics.LastTrained != DefaultLastTrained {
		t.Errorf("LastTrained = %q", metrics.LastTrained)
	}
	if metrics.ExplainedVariance != metrics.R2 {
		t.Errorf("ExplainedVariance = %v, want R2 %v", metrics.ExplainedVariance, metrics.R2)
	}
	if metrics.BarangaysCovered != DefaultDistricts {
		t.Errorf("BarangaysCovered = %d", metrics.BarangaysCovered)
	}
	if metrics.FeaturesUsed != features.Count {
		t.Errorf("FeaturesUsed = %d", metrics.FeaturesUsed)
	}
	if metrics.VolumeRiskThresholds == nil || metrics.VolumeRiskThresholds.P70 != DefaultP70Threshold {
		t.Errorf("VolumeRiskThresholds = %+v", metrics.VolumeRiskThresholds)
	}
}

func TestLoadMetadataOverrides(t *testing.T) {
	doc := `{
		"model_info": {"name": "cdo-waste-prediction", "version": "4.1", "trained_date": "2026-05-01 08:00:00", "num_barangays": 82},
		"real_metrics": {
			"volume_regressor": {"r2_score": 0.98, "mse": 900000.5, "mae": 500.1},
			"risk_classifier": {"accuracy": 0.9}
		},
		"risk_thresholds": {"volume_risk_percentiles": {"p70": 4000, "p90": 15000}}
	}`
	path := filepath.Join(t.TempDir(), "metadata.json")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	meta, loaded := LoadMetadata(path, testLogger())
	if !loaded {
		t.Fatal("loaded = false")
	}

	if got := meta.Version(); got != "4.1" {
		t.Errorf("Version = %q", got)
	}

	th := meta.Thresholds()
	if th.P70 != 4000 || th.P90 != 15000 {
		t.Errorf("thresholds = %+v", th)
	}

	metrics := meta.FullMetrics()
	if metrics.R2 != 0.98 || metrics.Accuracy != 0.9 {
		t.Errorf("metrics = %+v", metrics)
	}
	if metrics.LastTrained != "2026-05-01 08:00:00" {
		t.Errorf("LastTrained = %q", metrics.LastTrained)
	}
	if metrics.BarangaysCovered != 82 {
		t.Errorf("BarangaysCovered = %d", metrics.BarangaysCovered)
	}
}
