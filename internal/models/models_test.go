package models

import "testing"

func TestFormatGrouped(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{3246, "3,246"},
		{13128, "13,128"},
		{80647, "80,647"},
		{1376680.44, "1,376,680"},
		{-80647, "-80,647"},
	}
	for _, tt := range tests {
		if got := FormatGrouped(tt.in); got != tt.want {
			t.Errorf("FormatGrouped(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRiskLevelForClass(t *testing.T) {
	tests := []struct {
		class int
		want  RiskLevel
	}{
		{0, RiskSafe},
		{1, RiskModerate},
		{2, RiskHigh},
		{7, RiskModerate},
		{-1, RiskModerate},
	}
	for _, tt := range tests {
		if got := RiskLevelForClass(tt.class); got != tt.want {
			t.Errorf("RiskLevelForClass(%d) = %q, want %q", tt.class, got, tt.want)
		}
	}
}
