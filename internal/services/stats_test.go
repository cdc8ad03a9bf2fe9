package services

import "testing"

func TestAccuracyRate(t *testing.T) {
	tests := []struct {
		name      string
		correct   int
		incorrect int
		expected  float64
	}{
		{"three of four", 3, 1, 75.0},
		{"no events", 0, 0, 0},
		{"all correct", 4, 0, 100.0},
		{"all incorrect", 0, 5, 0},
		{"rounds to two decimals", 2, 1, 66.67},
		{"one of three", 1, 2, 33.33},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := AccuracyRate(tc.correct, tc.incorrect)
			if got != tc.expected {
				t.Errorf("AccuracyRate(%d, %d) = %v, expected %v", tc.correct, tc.incorrect, got, tc.expected)
			}
		})
	}
}

func TestWeekLabel(t *testing.T) {
	if got := WeekLabel(2026, 34); got != "Week 34 2026" {
		t.Errorf("expected 'Week 34 2026', got %q", got)
	}
	if got := WeekLabel(2026, 1); got != "Week 1 2026" {
		t.Errorf("expected 'Week 1 2026', got %q", got)
	}
}

func TestWeekLabel_YearBoundaryStaysDistinct(t *testing.T) {
	dec := WeekLabel(2025, 1)
	jan := WeekLabel(2026, 1)
	if dec == jan {
		t.Errorf("week 1 of consecutive years must not share a label, both got %q", jan)
	}
}
