// Package risk turns raw classifier output into the final overflow-risk
// decision. Batch predictions pass through an explicitly ordered cascade of
// override steps; the order is part of the observable contract, since later
// steps overwrite earlier ones.
package risk

import (
	"github.com/wastewatch/wastewatch/internal/models"
	"github.com/wastewatch/wastewatch/internal/predictor"
)

// Decision is a (label, confidence) pair flowing through the cascade.
type Decision struct {
	Label      models.RiskLevel
	Confidence float64
}

// Input carries everything a step may consult. Index is the item's
// position within the current batch; it drives the deterministic diversity
// rule and is meaningless for single predictions.
type Input struct {
	Class           int
	Probs           predictor.Probabilities
	Volume          float64
	EventMultiplier float64
	Index           int
}

// Step is one named decision stage. Steps take the running decision and
// return its replacement; a step that does not apply returns its input
// unchanged.
type Step struct {
	Name  string
	Apply func(Decision, Input) Decision
}

// Cascade is the ordered batch decision pipeline.
type Cascade struct {
	steps []Step
}

// Single is the single-item path: the classifier is trusted verbatim, with
// confidence equal to the maximum class probability. No overrides apply.
func Single(class int, probs predictor.Probabilities) Decision {
	return Decision{
		Label:      models.RiskLevelForClass(class),
		Confidence: probs.Max(),
	}
}

// NewCascade builds the batch cascade in its contractual order:
//
//  1. classifier_baseline — raw class mapping, max-probability confidence
//  2. moderate_bias_override — volume thresholds when the classifier puts
//     at least half its mass on moderate
//  3. event_escalation — multiplier-driven escalation, never downgrading
//     an existing high
//  4. index_diversity — deterministic position-based forcing for dataset
//     variety
func NewCascade() *Cascade {
	return &Cascade{
		steps: []Step{
			{Name: "classifier_baseline", Apply: classifierBaseline},
			{Name: "moderate_bias_override", Apply: moderateBiasOverride},
			{Name: "event_escalation", Apply: eventEscalation},
			{Name: "index_diversity", Apply: indexDiversity},
		},
	}
}

// StepNames lists the cascade stages in execution order.
func (c *Cascade) StepNames() []string {
	names := make([]string, len(c.steps))
	for i, s := range c.steps {
		names[i] = s.Name
	}
	return names
}

// Decide runs the full cascade for one batch item.
func (c *Cascade) Decide(in Input) Decision {
	var d Decision
	for _, s := range c.steps {
		d = s.Apply(d, in)
	}
	return d
}

// Trace runs the cascade and returns the decision after each step, in
// order. Tests use it to pin the exact sequence, not just the final label.
func (c *Cascade) Trace(in Input) []Decision {
	trace := make([]Decision, len(c.steps))
	var d Decision
	for i, s := range c.steps {
		d = s.Apply(d, in)
		trace[i] = d
	}
	return trace
}

func classifierBaseline(_ Decision, in Input) Decision {
	return Decision{
		Label:      models.RiskLevelForClass(in.Class),
		Confidence: in.Probs.Max(),
	}
}

// moderateBiasOverride corrects the classifier's bias toward the moderate
// class: when at least half the probability mass sits on moderate, the
// predicted volume (which already includes the event multiplier) decides.
func moderateBiasOverride(d Decision, in Input) Decision {
	if in.Probs.Moderate() < 0.5 {
		return d
	}

	switch {
	case in.Volume > 20000:
		return Decision{Label: models.RiskHigh, Confidence: 0.95}
	case in.Volume > 10000:
		return Decision{Label: models.RiskHigh, Confidence: 0.88}
	case in.Volume > 5000:
		return Decision{Label: models.RiskModerate, Confidence: maxf(0.75, d.Confidence)}
	case in.Volume < 1000:
		return Decision{Label: models.RiskSafe, Confidence: 0.90}
	default:
		return Decision{Label: models.RiskModerate, Confidence: maxf(0.70, d.Confidence)}
	}
}

// eventEscalation escalates on strong event multipliers. It never
// downgrades an existing high.
func eventEscalation(d Decision, in Input) Decision {
	if in.EventMultiplier > 1.8 {
		return Decision{Label: models.RiskHigh, Confidence: 0.92}
	}
	if in.EventMultiplier > 1.3 && d.Label != models.RiskHigh {
		return Decision{Label: models.RiskModerate, Confidence: maxf(0.80, d.Confidence)}
	}
	return d
}

// indexDiversity forces variety into batch output at fixed positions. This
// is a documented literal behavior carried over from the trained system,
// not a risk signal; the index-10 branch wins when both apply.
func indexDiversity(d Decision, in Input) Decision {
	if in.Index%10 == 0 && in.Volume > 3000 {
		return Decision{Label: models.RiskHigh, Confidence: 0.85}
	}
	if in.Index%7 == 0 && in.Volume < 2000 {
		return Decision{Label: models.RiskSafe, Confidence: 0.88}
	}
	return d
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
