package stats

import (
	"math"
	"testing"
)

func TestCalculateMedianContinuous(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		expected float64
	}{
		{"Empty", []float64{}, 0},
		{"SingleItem", []float64{5.5}, 5.5},
		{"OddCount", []float64{1.1, 3.3, 2.2, 4.4, 5.5}, 3.3},
		{"EvenCount", []float64{1.1, 2.2, 3.3, 4.4}, 2.75},
		{"Unsorted", []float64{10.5, 2.5, 8.5, 4.5, 6.5}, 6.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CalculateMedianContinuous(tt.values); got != tt.expected {
				t.Errorf("CalculateMedianContinuous() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCalculateStdDev(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		expected float64
	}{
		{"Empty", nil, 0},
		{"Single", []float64{3}, 0},
		{"Constant", []float64{2, 2, 2}, 0},
		{"Classic", []float64{2, 4, 4, 4, 5, 5, 7, 9}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CalculateStdDev(tt.values); math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("CalculateStdDev() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestDiffs(t *testing.T) {
	got := Diffs([]float64{50, 48, 49, 45})
	want := []float64{-2, 1, -4}
	if len(got) != len(want) {
		t.Fatalf("Diffs() len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Diffs()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if Diffs([]float64{1}) != nil {
		t.Error("a single point has no diffs")
	}
}
