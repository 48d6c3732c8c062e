package risk

import (
	"fmt"

	"github.com/wastewatch/wastewatch/internal/models"
)

// BandFor categorizes a predicted volume against the trained percentile
// thresholds. Volumes above P90 are high, above P70 moderate, everything
// else normal. Boundary values fall into the lower band.
func BandFor(volume float64, th models.VolumeThresholds) models.VolumeBand {
	switch {
	case volume > th.P90:
		return models.VolumeBand{
			Label:     "High Volume",
			Color:     "#ff3b30",
			Level:     3,
			Threshold: fmt.Sprintf("> %s kg", models.FormatGrouped(th.P90)),
			Action:    "Immediate intervention needed",
			Icon:      "⚠️",
		}
	case volume > th.P70:
		return models.VolumeBand{
			Label:     "Moderate Volume",
			Color:     "#ff9500",
			Level:     2,
			Threshold: fmt.Sprintf("%s - %s kg", models.FormatGrouped(th.P70), models.FormatGrouped(th.P90)),
			Action:    "Monitor closely",
			Icon:      "📈",
		}
	default:
		return models.VolumeBand{
			Label:     "Normal Volume",
			Color:     "#34c759",
			Level:     1,
			Threshold: fmt.Sprintf("< %s kg", models.FormatGrouped(th.P70)),
			Action:    "Standard schedule",
			Icon:      "✅",
		}
	}
}

// ApplyBands annotates every prediction with its volume band, including
// degraded records, whose zero volume lands in the normal band.
func ApplyBands(preds []models.Prediction, th models.VolumeThresholds) {
	for i := range preds {
		band := BandFor(preds[i].PredictedVolume, th)
		preds[i].VolumeRisk = &band
	}
}
