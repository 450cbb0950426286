package wellness

import "math"

// State is the engine's state vector on the canonical scale. It is a value
// type: every transition produces a new State, so ensemble branches never
// share memory.
type State struct {
	Stress   float64 `json:"stress"`
	Sleep    float64 `json:"sleep"`
	Workload float64 `json:"workload"`
	Coffee   float64 `json:"coffee"`
}

// Range is a closed interval [Min, Max].
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Clamp forces v into r.
func (r Range) Clamp(v float64) float64 {
	return math.Max(r.Min, math.Min(r.Max, v))
}

// Contains reports whether v lies inside r.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Canonical ranges of every field.
var (
	StressRange   = Range{Min: 0, Max: 10}
	SleepRange    = Range{Min: 0, Max: 12}
	WorkloadRange = Range{Min: 0, Max: 10}
	CoffeeRange   = Range{Min: 0, Max: 10}
)

// Clamp returns a copy of s with every field forced into its canonical range.
func (s State) Clamp() State {
	return State{
		Stress:   StressRange.Clamp(s.Stress),
		Sleep:    SleepRange.Clamp(s.Sleep),
		Workload: WorkloadRange.Clamp(s.Workload),
		Coffee:   CoffeeRange.Clamp(s.Coffee),
	}
}

// InBounds reports whether every field is inside its canonical range.
func (s State) InBounds() bool {
	return StressRange.Contains(s.Stress) &&
		SleepRange.Contains(s.Sleep) &&
		WorkloadRange.Contains(s.Workload) &&
		CoffeeRange.Contains(s.Coffee)
}

// Add returns the field-wise sum of s and o.
func (s State) Add(o State) State {
	return State{
		Stress:   s.Stress + o.Stress,
		Sleep:    s.Sleep + o.Sleep,
		Workload: s.Workload + o.Workload,
		Coffee:   s.Coffee + o.Coffee,
	}
}

// Sub returns the field-wise difference s - o.
func (s State) Sub(o State) State {
	return State{
		Stress:   s.Stress - o.Stress,
		Sleep:    s.Sleep - o.Sleep,
		Workload: s.Workload - o.Workload,
		Coffee:   s.Coffee - o.Coffee,
	}
}

// Scale returns s with every field multiplied by f.
func (s State) Scale(f float64) State {
	return State{
		Stress:   s.Stress * f,
		Sleep:    s.Sleep * f,
		Workload: s.Workload * f,
		Coffee:   s.Coffee * f,
	}
}
