package scoring

import (
	"math"
	"testing"

	"burnsim/internal/wellness"
)

func TestDefault(t *testing.T) {
	tests := []struct {
		name  string
		state wellness.State
		want  float64
	}{
		{"Rested", wellness.State{Stress: 0, Sleep: 8, Workload: 0, Coffee: 0}, 0},
		{"Maxed", wellness.State{Stress: 10, Sleep: 0, Workload: 10, Coffee: 10}, 100},
		{"Typical", wellness.State{Stress: 5, Sleep: 6, Workload: 5, Coffee: 2}, 20 + 15 + 5 + 2},
		{"OutOfRangeIsClamped", wellness.State{Stress: 20, Sleep: 12, Workload: 10, Coffee: 0}, 70},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Default(tt.state); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Default() = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestDefault_MonotoneInStressAndWorkload(t *testing.T) {
	base := wellness.State{Stress: 5, Sleep: 7, Workload: 5, Coffee: 2}
	if Default(base.With(wellness.FieldStress, 6)) <= Default(base) {
		t.Error("more stress must score higher")
	}
	if Default(base.With(wellness.FieldWorkload, 4)) >= Default(base) {
		t.Error("less workload must score lower")
	}
}

func TestMemoize(t *testing.T) {
	calls := 0
	fn := Memoize(func(s wellness.State) float64 {
		calls++
		return s.Stress
	})

	s := wellness.State{Stress: 3}
	fn(s)
	fn(s)
	fn(wellness.State{Stress: 4})

	if calls != 2 {
		t.Errorf("expected 2 underlying calls, got %d", calls)
	}
}
