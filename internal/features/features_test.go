package features

import (
	"testing"
	"time"

	"github.com/wastewatch/wastewatch/internal/events"
	"github.com/wastewatch/wastewatch/internal/models"
)

func baseRequest() models.PredictionRequest {
	return models.PredictionRequest{
		BarangayID:   "17",
		BarangayName: "Carmen",
		Population:   80647,
		RainfallMM:   5.5,
		TemperatureC: 29.0,
		IsMarketDay:  1,
		DayOfWeek:    2,
	}
}

func TestNamesPinned(t *testing.T) {
	want := [Count]string{
		"population", "base_waste", "rainfall_mm", "temperature_c",
		"day_of_week", "month", "day_of_month", "is_weekend",
		"is_market_day", "is_fiesta", "is_holiday", "is_payday",
		"is_rainy_season", "is_summer",
	}
	if Names != want {
		t.Errorf("Names = %v", Names)
	}
}

func TestBuildSchemaOrder(t *testing.T) {
	target := time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC)
	res := events.Resolution{Multiplier: 1.6, Fiesta: true}

	vec := Build(baseRequest(), res, 32657.52, target)

	want := Vector{
		80647,           // population
		32657.52 * 1.6,  // base_waste, event adjusted
		5.5, 29.0,       // rainfall_mm, temperature_c
		2, 8, 26,        // day_of_week, month, day_of_month
		0,               // is_weekend
		1,               // is_market_day
		1, 0, 0,         // is_fiesta, is_holiday, is_payday
		1,               // is_rainy_season (Jun-Oct)
		0,               // is_summer
	}
	if vec != want {
		t.Errorf("Build = %v\nwant    %v", vec, want)
	}
}

func TestBuildCalendarFlags(t *testing.T) {
	tests := []struct {
		name       string
		date       string
		dayOfWeek  int
		wantWknd   float64
		wantPayday float64
		wantRainy  float64
		wantSummer float64
	}{
		{"midweek dry season", "2026-02-10", 1, 0, 0, 0, 0},
		{"saturday summer", "2026-04-18", 5, 1, 0, 0, 1},
		{"payday 15th", "2026-07-15", 2, 0, 1, 1, 0},
		{"payday 30th", "2026-11-30", 0, 0, 1, 0, 0},
		{"sunday rainy", "2026-10-04", 6, 1, 0, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target, err := time.Parse("2006-01-02", tt.date)
			if err != nil {
				t.Fatal(err)
			}

			req := baseRequest()
			req.DayOfWeek = tt.dayOfWeek
			vec := Build(req, events.Resolution{Multiplier: 1.0}, 100, target)

			if vec[7] != tt.wantWknd {
				t.Errorf("is_weekend = %v, want %v", vec[7], tt.wantWknd)
			}
			if vec[11] != tt.wantPayday {
				t.Errorf("is_payday = %v, want %v", vec[11], tt.wantPayday)
			}
			if vec[12] != tt.wantRainy {
				t.Errorf("is_rainy_season = %v, want %v", vec[12], tt.wantRainy)
			}
			if vec[13] != tt.wantSummer {
				t.Errorf("is_summer = %v, want %v", vec[13], tt.wantSummer)
			}
		})
	}
}

func TestBuildDayOfWeekFromRequest(t *testing.T) {
	// 2026-08-26 is a Wednesday; the caller-supplied day wins regardless.
	target := time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC)
	req := baseRequest()
	req.DayOfWeek = 6

	vec := Build(req, events.Resolution{Multiplier: 1.0}, 100, target)
	if vec[4] != 6 {
		t.Errorf("day_of_week = %v, want 6", vec[4])
	}
	if vec[7] != 1 {
		t.Errorf("is_weekend = %v, want 1 for day 6", vec[7])
	}
}
