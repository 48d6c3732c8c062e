package traindata

import (
	"encoding/csv"
	"fmt"
	"io"
	"math/rand"
	"strconv"
)

// Weekly demand multipliers, Sunday through Saturday.
var weeklyMultipliers = [7]float64{1.2, 0.95, 1.0, 0.9, 1.1, 1.3, 1.4}

// Monthly demand multipliers. August carries the city fiesta season,
// December the holidays.
var monthlyMultipliers = map[int]float64{
	1: 1.1, 2: 0.95, 3: 0.9, 4: 0.85, 5: 0.9,
	6: 1.0, 7: 1.05, 8: 1.3, 9: 1.1,
	10: 0.95, 11: 0.9, 12: 1.2,
}

// rainfallBand couples a suppression factor with the representative
// rainfall measurement for that band.
type rainfallBand struct {
	factor float64
	mm     float64
}

var rainfallBands = []rainfallBand{
	{1.0, 0},   // none
	{0.95, 5},  // light
	{0.85, 20}, // moderate
	{0.7, 40},  // heavy
}

// Sample is one synthetic training row, feature-complete for the pinned
// model schema plus the two regression/classification labels.
type Sample struct {
	Barangay       string
	Population     int
	BaseWaste      float64
	PredictedWaste float64
	RiskLevel      int

	RainfallMM    float64
	TemperatureC  float64
	DayOfWeek     int
	Month         int
	DayOfMonth    int
	IsWeekend     int
	IsMarketDay   int
	IsFiesta      int
	IsHoliday     int
	IsPayday      int
	IsRainySeason int
	IsSummer      int

	ActualWaste float64
}

// Generator produces reproducible synthetic samples.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator seeds a generator. Equal seeds produce equal datasets.
func NewGenerator(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// Generate draws n samples across the given districts, applying the weekly,
// monthly, and rainfall patterns plus ±10% noise. The risk label derives
// from bin utilization at an assumed capacity of 1.2x the baseline:
// utilization of 0.85 or more is high, 0.65 or more moderate, else safe.
func (g *Generator) Generate(districts []District, n int) []Sample {
	samples := make([]Sample, 0, n)

	for i := 0; i < n; i++ {
		d := districts[g.rng.Intn(len(districts))]

		dayOfWeek := g.rng.Intn(7)
		month := 1 + g.rng.Intn(12)
		band := rainfallBands[g.rng.Intn(len(rainfallBands))]
		temperature := 24 + g.rng.Float64()*11

		isMarketDay := 0
		if dayOfWeek == 2 || dayOfWeek == 5 { // Wed & Sat
			isMarketDay = 1
		}
		isFiesta := 0
		if month == 8 && g.rng.Float64() < 0.1 {
			isFiesta = 1
		}
		isHoliday := 0
		if (month == 1 || month == 12) && g.rng.Float64() < 0.2 {
			isHoliday = 1
		}
		isPayday := 0
		if g.rng.Float64() < 0.1 {
			isPayday = 1
		}

		waste := d.TotalWaste * weeklyMultipliers[dayOfWeek] * monthlyMultipliers[month] * band.factor
		waste *= 0.9 + g.rng.Float64()*0.2

		binCapacity := d.TotalWaste * 1.2
		utilization := waste / binCapacity

		riskLevel := 0
		switch {
		case utilization >= 0.85:
			riskLevel = 2
		case utilization >= 0.65:
			riskLevel = 1
		}

		samples = append(samples, Sample{
			Barangay:       d.Name,
			Population:     d.Population,
			BaseWaste:      d.TotalWaste,
			PredictedWaste: waste,
			RiskLevel:      riskLevel,
			RainfallMM:     band.mm,
			TemperatureC:   temperature,
			DayOfWeek:      dayOfWeek,
			Month:          month,
			DayOfMonth:     1 + g.rng.Intn(28),
			IsWeekend:      boolFlag(dayOfWeek >= 5),
			IsMarketDay:    isMarketDay,
			IsFiesta:       isFiesta,
			IsHoliday:      isHoliday,
			IsPayday:       isPayday,
			IsRainySeason:  boolFlag(month >= 6 && month <= 10),
			IsSummer:       boolFlag(month >= 3 && month <= 5),
			ActualWaste:    waste * (0.95 + g.rng.Float64()*0.1),
		})
	}

	return samples
}

// WriteSamplesCSV emits the sample table the training pipeline consumes.
func WriteSamplesCSV(w io.Writer, samples []Sample) error {
	writer := csv.NewWriter(w)

	header := []string{
		"barangay", "population", "base_waste", "predicted_waste", "risk_level",
		"rainfall_mm", "temperature_c", "day_of_week", "month", "day_of_month",
		"is_weekend", "is_market_day", "is_fiesta", "is_holiday", "is_payday",
		"is_rainy_season", "is_summer", "actual_waste",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, s := range samples {
		row := []string{
			s.Barangay,
			strconv.Itoa(s.Population),
			formatFloat(s.BaseWaste),
			formatFloat(s.PredictedWaste),
			strconv.Itoa(s.RiskLevel),
			formatFloat(s.RainfallMM),
			formatFloat(s.TemperatureC),
			strconv.Itoa(s.DayOfWeek),
			strconv.Itoa(s.Month),
			strconv.Itoa(s.DayOfMonth),
			strconv.Itoa(s.IsWeekend),
			strconv.Itoa(s.IsMarketDay),
			strconv.Itoa(s.IsFiesta),
			strconv.Itoa(s.IsHoliday),
			strconv.Itoa(s.IsPayday),
			strconv.Itoa(s.IsRainySeason),
			strconv.Itoa(s.IsSummer),
			formatFloat(s.ActualWaste),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func boolFlag(b bool) int {
	if b {
		return 1
	}
	return 0
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}
