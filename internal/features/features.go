// Package features builds the fixed-order numeric vector consumed by the
// predictive models.
package features

import (
	"time"

	"github.com/wastewatch/wastewatch/internal/events"
	"github.com/wastewatch/wastewatch/internal/models"
)

// Count is the number of features the models were trained on.
const Count = 14

// Names pins the feature order the models were trained on. Element order is
// a load-bearing contract with the model backend: reordering silently
// corrupts predictions without raising an error. Never change it without
// retraining.
var Names = [Count]string{
	"population",
	"base_waste",
	"rainfall_mm",
	"temperature_c",
	"day_of_week",
	"month",
	"day_of_month",
	"is_weekend",
	"is_market_day",
	"is_fiesta",
	"is_holiday",
	"is_payday",
	"is_rainy_season",
	"is_summer",
}

// Vector is one model input in schema order.
type Vector [Count]float64

// Build assembles the feature vector from the request, the resolved event
// adjustment, the district's historical baseline, and the resolved target
// date. Month and day-of-month come from the target date; day_of_week is
// taken from the request as supplied, even when it disagrees with the
// target date's actual weekday.
func Build(req models.PredictionRequest, res events.Resolution, baselineWaste float64, target time.Time) Vector {
	month := int(target.Month())
	dayOfMonth := target.Day()

	return Vector{
		req.Population,
		baselineWaste * res.Multiplier,
		req.RainfallMM,
		req.TemperatureC,
		float64(req.DayOfWeek),
		float64(month),
		float64(dayOfMonth),
		bool01(req.DayOfWeek >= 5),
		float64(req.IsMarketDay),
		bool01(res.Fiesta),
		bool01(res.Holiday),
		bool01(dayOfMonth == 15 || dayOfMonth == 30),
		bool01(month >= 6 && month <= 10),
		bool01(month >= 3 && month <= 5),
	}
}

func bool01(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
