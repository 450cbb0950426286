// Package intervention is the registry of named behavioural and organisational
// interventions and the per-day state effect each one has.
package intervention

import "burnsim/internal/wellness"

// Kind is the registry key of an intervention.
type Kind string

const (
	WorkloadReduction Kind = "workload_reduction"
	SleepHours        Kind = "sleep_hours"
	VacationDays      Kind = "vacation_days"
	MovementSessions  Kind = "movement_sessions"
	SocialMinutes     Kind = "social_minutes"
	CaffeineLimit     Kind = "caffeine_limit"
	BoundaryHour      Kind = "boundary_hour"
)

// Category groups interventions for cost estimation.
type Category string

const (
	CategoryWorkload   Category = "workload"
	CategoryRecovery   Category = "recovery"
	CategoryBehavioral Category = "behavioral"
	CategoryBoundaries Category = "boundaries"
)

// Spec is one selected intervention. Value is a percentage for percentage
// interventions and raw units (hours, days, sessions, minutes) otherwise;
// Adherence is 0..100.
type Spec struct {
	Type      Kind    `json:"type" yaml:"type"`
	Value     float64 `json:"value" yaml:"value"`
	Adherence float64 `json:"adherence" yaml:"adherence"`
}

// Context is what an effect function may read for a given day.
type Context struct {
	State    wellness.State // carried state of the day after drift
	Baseline wellness.State // the trajectory's starting state
	Day      int            // 1-based day index
}

// Effect is one intervention's contribution to a day. Delta and Pins change
// the state carried into the next day. Relief is a per-field fraction in
// [0, 1] taken off the day's observed value only, so it never compounds.
type Effect struct {
	Delta  wellness.State
	Pins   wellness.Pins
	Relief wellness.State
}

// Modulate returns s with every field reduced by its Relief fraction.
func (e Effect) Modulate(s wellness.State) wellness.State {
	for _, f := range wellness.Fields {
		if r := e.Relief.Get(f); r != 0 {
			s = s.With(f, s.Get(f)*(1-r))
		}
	}
	return s
}

// EffectFunc computes the unscaled effect of spec on a day. Implementations
// must be pure; adherence and ramp scaling are applied by the registry.
type EffectFunc func(ctx Context, spec Spec) Effect

// Entry describes a registered intervention.
type Entry struct {
	Kind        Kind     `json:"type"`
	Category    Category `json:"category"`
	Unit        string   `json:"unit"`
	Description string   `json:"description"`
	Min         float64  `json:"min"`
	Max         float64  `json:"max"`
	// Ramped entries are multiplied by RampFactor(day).
	Ramped bool `json:"ramped"`

	Effect EffectFunc `json:"-"`
	// Intensity maps a value onto 0..1 for the hours-lost cost table.
	Intensity func(value float64) float64 `json:"-"`
}
