package simulation

import (
	"math"

	"burnsim/internal/intervention"
	"burnsim/internal/wellness"
)

// Weekend modulation and feedback constants.
const (
	weekendWorkloadFactor = 0.3
	weekendStressFactor   = 0.85

	sleepDeprivationLimit  = 6.0
	sleepDeprivationWeight = 0.8
	stressSleepLimit       = 8.0
	stressSleepLoss        = 0.5
	caffeineLimit          = 4.0
	caffeineSleepWeight    = 0.4
	workloadStressFloor    = 0.5

	weekdayRecovery = 2.0
	weekendRecovery = 5.0
	debtAccrualRate = 0.5
	debtPaydownRate = 0.3
	debtDragRate    = 0.5
	maxFatigueDrag  = 5.0
)

// IsWeekend reports whether 1-based day falls on days 6 or 7 of a week.
func IsWeekend(day int) bool {
	d := day % 7
	return d == 6 || d == 0
}

// Transition composes one day of a trajectory. It holds only immutable
// inputs and is shared by every trajectory of a run.
type Transition struct {
	Registry       *intervention.Registry
	Interventions  []intervention.Spec
	NoiseMagnitude float64
	Cyclical       bool
}

// Step advances the carried state s by one day. It returns the observed
// state of the day, the state carried into the next day, and the new fatigue
// debt. The stage order is fixed: drift, interventions, weekly cycle,
// feedback, fatigue debt, clamp.
//
// The weekly cycle and percentage reliefs shape the observed day only. The
// weekend multiplies the carried workload and stress afresh each time, so a
// Monday starts from the underlying values again. Drift, intervention deltas,
// overrides, feedback and fatigue drag are carried.
func (t *Transition) Step(s, baseline wellness.State, day int, rng Rand, debt float64) (wellness.State, wellness.State, float64) {
	// 1. Natural drift. Three draws per day, always, so the stream stays
	// aligned across configurations that differ only in interventions.
	s.Stress += uniform(rng, t.NoiseMagnitude)
	s.Sleep += uniform(rng, t.NoiseMagnitude)
	s.Workload += uniform(rng, t.NoiseMagnitude)

	// 2. Interventions
	var eff intervention.Effect
	if len(t.Interventions) > 0 {
		eff = t.Registry.Apply(intervention.Context{State: s, Baseline: baseline, Day: day}, t.Interventions)
		s = s.Add(eff.Delta)
		s = eff.Pins.Apply(s)
	}

	// 3. Weekly cycle and reliefs, on the day's view only.
	d := eff.Modulate(s)
	weekend := t.Cyclical && IsWeekend(day)
	if weekend {
		d.Workload *= weekendWorkloadFactor
		d.Stress *= weekendStressFactor
	}
	d = eff.Pins.Apply(d)
	modulated := d

	// 4. Feedback loops; pinned fields are held at their committed value.
	d = feedback(d, eff.Pins)

	// 5. Fatigue debt
	d, debt = accrueFatigue(d, debt, weekend, eff.Pins)

	// 6. Clamp. What feedback and fatigue did to the day carries over.
	s = s.Add(d.Sub(modulated))
	return d.Clamp(), s.Clamp(), debt
}

func feedback(s wellness.State, pins wellness.Pins) wellness.State {
	_, stressPinned := pins.Pinned(wellness.FieldStress)
	_, sleepPinned := pins.Pinned(wellness.FieldSleep)

	if s.Sleep < sleepDeprivationLimit && !stressPinned {
		s.Stress += (sleepDeprivationLimit - s.Sleep) * sleepDeprivationWeight
	}
	if s.Stress > stressSleepLimit && !sleepPinned {
		s.Sleep -= stressSleepLoss
	}
	if s.Coffee > caffeineLimit && !sleepPinned {
		s.Sleep -= (s.Coffee - caffeineLimit) * caffeineSleepWeight
	}
	if floor := s.Workload * workloadStressFloor; s.Stress < floor && !stressPinned {
		s.Stress = (s.Stress + floor) / 2
	}
	return s
}

func accrueFatigue(s wellness.State, debt float64, weekend bool, pins wellness.Pins) (wellness.State, float64) {
	load := s.Stress + s.Workload
	recovery := s.Sleep + weekdayRecovery
	if weekend {
		recovery = s.Sleep + weekendRecovery
	}

	if load > recovery {
		debt += (load - recovery) * debtAccrualRate
	} else {
		debt = math.Max(0, debt-(recovery-load)*debtPaydownRate)
	}

	if _, pinned := pins.Pinned(wellness.FieldStress); !pinned {
		s.Stress += math.Min(maxFatigueDrag, debt*debtDragRate)
	}
	return s, debt
}
