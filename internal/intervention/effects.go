package intervention

import (
	"math"

	"burnsim/internal/wellness"
)

// RampDays is the length of the linear behaviour-adoption curve.
const RampDays = 21

// RampFactor is min(1, day/21): a behaviour change reaches full effect after
// three weeks.
func RampFactor(day int) float64 {
	if day <= 0 {
		return 0
	}
	return math.Min(1, float64(day)/RampDays)
}

// Saturation returns maxReduction*(1-e^(-k*value)); each extra unit buys a
// smaller reduction than the previous one.
func Saturation(maxReduction, k, value float64) float64 {
	if value <= 0 {
		return 0
	}
	return maxReduction * (1 - math.Exp(-k*value))
}

// VacationRelaxation is the in-vacation stress multiplier for a day. It
// decays from 0.7 towards 0.4.
func VacationRelaxation(day int) float64 {
	return 0.4 + 0.3*math.Exp(-0.5*float64(day))
}

// VacationFadeDays is the post-vacation return-to-baseline window.
const VacationFadeDays = 5

const (
	movementMaxReduction = 2.5
	movementK            = 0.3
	socialMaxReduction   = 1.5
	socialK              = 0.02

	boundaryReferenceHour = 20.0
	boundaryStressPerHour = 0.15
	circadianLimitHour    = 21.0
	circadianSleepPenalty = 0.5
)

func workloadReductionEffect(_ Context, spec Spec) Effect {
	return Effect{Relief: wellness.State{Workload: spec.Value / 100}}
}

func sleepHoursEffect(_ Context, spec Spec) Effect {
	var e Effect
	e.Pins.Pin(wellness.FieldSleep, spec.Value)
	return e
}

func caffeineLimitEffect(ctx Context, spec Spec) Effect {
	var e Effect
	e.Pins.Pin(wellness.FieldCoffee, math.Min(ctx.State.Coffee, spec.Value))
	return e
}

func vacationEffect(ctx Context, spec Spec) Effect {
	days := int(math.Floor(spec.Value))
	switch {
	case days <= 0:
		return Effect{}
	case ctx.Day <= days:
		m := VacationRelaxation(ctx.Day)
		return Effect{Delta: wellness.State{
			Stress:   -ctx.State.Stress * (1 - m),
			Workload: -ctx.State.Workload,
		}}
	case ctx.Day <= days+VacationFadeDays:
		// Close 1/remaining of the gap each day: a linear fade that lands on
		// the baseline on the last fade day.
		remaining := float64(days + VacationFadeDays - ctx.Day + 1)
		return Effect{Delta: wellness.State{
			Stress:   (ctx.Baseline.Stress - ctx.State.Stress) / remaining,
			Workload: (ctx.Baseline.Workload - ctx.State.Workload) / remaining,
		}}
	default:
		return Effect{}
	}
}

func movementEffect(_ Context, spec Spec) Effect {
	return Effect{Delta: wellness.State{Stress: -Saturation(movementMaxReduction, movementK, spec.Value)}}
}

func socialEffect(_ Context, spec Spec) Effect {
	return Effect{Delta: wellness.State{Stress: -Saturation(socialMaxReduction, socialK, spec.Value)}}
}

func boundaryEffect(_ Context, spec Spec) Effect {
	var d wellness.State
	if spec.Value < boundaryReferenceHour {
		d.Stress = -boundaryStressPerHour * (boundaryReferenceHour - spec.Value)
	}
	if spec.Value > circadianLimitHour {
		d.Sleep = -circadianSleepPenalty * (spec.Value - circadianLimitHour)
	}
	return Effect{Delta: d}
}

func ratio(full float64) func(float64) float64 {
	return func(v float64) float64 {
		return math.Max(0, math.Min(1, v/full))
	}
}

func defaultEntries() []Entry {
	return []Entry{
		{
			Kind: WorkloadReduction, Category: CategoryWorkload, Unit: "percent",
			Description: "Reduce assigned workload by a percentage, adopted over three weeks.",
			Min:         0, Max: 100, Ramped: true,
			Effect: workloadReductionEffect, Intensity: ratio(100),
		},
		{
			Kind: SleepHours, Category: CategoryRecovery, Unit: "hours",
			Description: "Commit to a nightly sleep target; sleep is held at the target.",
			Min:         0, Max: wellness.SleepRange.Max,
			Effect: sleepHoursEffect, Intensity: ratio(8),
		},
		{
			Kind: VacationDays, Category: CategoryRecovery, Unit: "days",
			Description: "Take consecutive days off from day 1, followed by a five-day return to baseline.",
			Min:         0, Max: 365,
			Effect: vacationEffect, Intensity: ratio(10),
		},
		{
			Kind: MovementSessions, Category: CategoryBehavioral, Unit: "sessions/week",
			Description: "Exercise sessions per week with diminishing stress relief.",
			Min:         0, Max: 21, Ramped: true,
			Effect: movementEffect, Intensity: ratio(5),
		},
		{
			Kind: SocialMinutes, Category: CategoryBehavioral, Unit: "minutes/day",
			Description: "Daily social time with diminishing stress relief.",
			Min:         0, Max: 1440, Ramped: true,
			Effect: socialEffect, Intensity: ratio(60),
		},
		{
			Kind: CaffeineLimit, Category: CategoryBehavioral, Unit: "cups/day",
			Description: "Cap daily coffee intake.",
			Min:         0, Max: wellness.CoffeeRange.Max,
			Effect: caffeineLimitEffect,
			Intensity: func(v float64) float64 {
				return 1 - ratio(wellness.CoffeeRange.Max)(v)
			},
		},
		{
			Kind: BoundaryHour, Category: CategoryBoundaries, Unit: "hour",
			Description: "Stop work at HH:00. Earlier cutoffs relieve stress; cutoffs after 21:00 cost sleep.",
			Min:         0, Max: 23, Ramped: true,
			Effect: boundaryEffect,
			Intensity: func(v float64) float64 {
				return math.Max(0, math.Min(1, (circadianLimitHour-v)/4))
			},
		},
	}
}
