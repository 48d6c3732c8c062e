package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/wastewatch/wastewatch/internal/features"
)

// HTTPModel calls a model-serving endpoint over JSON/HTTP. It implements
// both Regressor and Classifier against POST {base}/volume and
// POST {base}/risk.
type HTTPModel struct {
	baseURL string
	client  *http.Client
}

// NewHTTPModel builds a client for the model server at baseURL.
func NewHTTPModel(baseURL string, timeout time.Duration) *HTTPModel {
	return &HTTPModel{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

type inferenceRequest struct {
	Features []float64 `json:"features"`
}

type volumeResponse struct {
	Volume float64 `json:"volume"`
}

type riskResponse struct {
	Class         int        `json:"class"`
	Probabilities [3]float64 `json:"probabilities"`
}

// Predict returns the regressor's waste-volume estimate in kilograms.
func (m *HTTPModel) Predict(ctx context.Context, vec features.Vector) (float64, error) {
	var out volumeResponse
	if err := m.post(ctx, "/volume", vec, &out); err != nil {
		return 0, err
	}
	return out.Volume, nil
}

// PredictClass returns the classifier's risk class index.
func (m *HTTPModel) PredictClass(ctx context.Context, vec features.Vector) (int, error) {
	var out riskResponse
	if err := m.post(ctx, "/risk", vec, &out); err != nil {
		return 0, err
	}
	return out.Class, nil
}

// PredictProba returns the classifier's per-class distribution.
func (m *HTTPModel) PredictProba(ctx context.Context, vec features.Vector) (Probabilities, error) {
	var out riskResponse
	if err := m.post(ctx, "/risk", vec, &out); err != nil {
		return Probabilities{}, err
	}
	return Probabilities(out.Probabilities), nil
}

func (m *HTTPModel) post(ctx context.Context, path string, vec features.Vector, out interface{}) error {
	body, err := json.Marshal(inferenceRequest{Features: vec[:]})
	if err != nil {
		return fmt.Errorf("marshal inference request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create inference request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("model server request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("model server returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode model response: %w", err)
	}

	return nil
}

// riskModel adapts HTTPModel's classifier methods to the Classifier
// interface, which names the class method Predict.
type riskModel struct {
	m *HTTPModel
}

func (r riskModel) Predict(ctx context.Context, vec features.Vector) (int, error) {
	return r.m.PredictClass(ctx, vec)
}

func (r riskModel) PredictProba(ctx context.Context, vec features.Vector) (Probabilities, error) {
	return r.m.PredictProba(ctx, vec)
}

// NewHTTPModelSet wires both capabilities of one model server into a
// ModelSet. An empty baseURL yields an unloaded set.
func NewHTTPModelSet(baseURL string, timeout time.Duration) ModelSet {
	if baseURL == "" {
		return ModelSet{}
	}
	m := NewHTTPModel(baseURL, timeout)
	return ModelSet{Volume: m, Risk: riskModel{m: m}}
}
