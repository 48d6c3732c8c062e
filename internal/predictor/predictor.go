// Package predictor defines the narrow capability interface to the
// external predictive models and its HTTP implementation. The statistical
// backend is an opaque collaborator: it can be a served model, a different
// library, or a test stub, without the pipeline noticing.
package predictor

import (
	"context"

	"github.com/wastewatch/wastewatch/internal/features"
)

// Probabilities is the classifier's per-class distribution in class order
// (safe, moderate, high).
type Probabilities [3]float64

// Safe returns the probability mass on the safe class.
func (p Probabilities) Safe() float64 { return p[0] }

// Moderate returns the probability mass on the moderate class.
func (p Probabilities) Moderate() float64 { return p[1] }

// High returns the probability mass on the high class.
func (p Probabilities) High() float64 { return p[2] }

// Max returns the largest class probability.
func (p Probabilities) Max() float64 {
	m := p[0]
	for _, v := range p[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// Regressor predicts a waste volume in kilograms from a feature vector.
type Regressor interface {
	Predict(ctx context.Context, vec features.Vector) (float64, error)
}

// Classifier predicts a discrete risk class and its class distribution.
type Classifier interface {
	Predict(ctx context.Context, vec features.Vector) (int, error)
	PredictProba(ctx context.Context, vec features.Vector) (Probabilities, error)
}

// ModelSet pairs the volume regressor with the risk classifier. Both are
// loaded once at startup; a zero ModelSet means the models are unavailable.
type ModelSet struct {
	Volume Regressor
	Risk   Classifier
}

// Loaded reports whether both models are available.
func (m ModelSet) Loaded() bool {
	return m.Volume != nil && m.Risk != nil
}
