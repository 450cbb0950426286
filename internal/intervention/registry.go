package intervention

import (
	"fmt"
	"math"
	"sort"

	"burnsim/internal/apperr"
	"burnsim/internal/wellness"
)

// HoursLostPerWeek is the weekly time cost of each category at full intensity.
var HoursLostPerWeek = map[Category]float64{
	CategoryWorkload:   4,
	CategoryRecovery:   2,
	CategoryBehavioral: 1,
	CategoryBoundaries: 0.5,
}

// Registry maps intervention kinds to their effect functions. The transition
// step dispatches through it, so new kinds only need a Register call.
type Registry struct {
	entries map[Kind]Entry
}

// NewRegistry returns a registry holding the built-in interventions.
func NewRegistry() *Registry {
	r := &Registry{entries: make(map[Kind]Entry)}
	for _, e := range defaultEntries() {
		r.entries[e.Kind] = e
	}
	return r
}

// Register adds or replaces an entry.
func (r *Registry) Register(e Entry) error {
	if e.Kind == "" {
		return fmt.Errorf("intervention entry has no kind")
	}
	if e.Effect == nil {
		return fmt.Errorf("intervention %q has no effect function", e.Kind)
	}
	if _, ok := HoursLostPerWeek[e.Category]; !ok {
		return fmt.Errorf("intervention %q has unknown category %q", e.Kind, e.Category)
	}
	if e.Max < e.Min {
		return fmt.Errorf("intervention %q has max %.2f below min %.2f", e.Kind, e.Max, e.Min)
	}
	r.entries[e.Kind] = e
	return nil
}

// Lookup returns the entry for k.
func (r *Registry) Lookup(k Kind) (Entry, bool) {
	e, ok := r.entries[k]
	return e, ok
}

// Kinds returns every registered kind, sorted.
func (r *Registry) Kinds() []Kind {
	kinds := make([]Kind, 0, len(r.entries))
	for k := range r.entries {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Entries returns every registered entry, sorted by kind.
func (r *Registry) Entries() []Entry {
	kinds := r.Kinds()
	out := make([]Entry, len(kinds))
	for i, k := range kinds {
		out[i] = r.entries[k]
	}
	return out
}

// Validate checks one spec. Unknown kinds are rejected, never ignored.
// field prefixes the error's field path.
func (r *Registry) Validate(field string, spec Spec) error {
	e, ok := r.entries[spec.Type]
	if !ok {
		return apperr.Validation(field+".type", "unknown intervention %q", spec.Type)
	}
	if math.IsNaN(spec.Value) || math.IsInf(spec.Value, 0) {
		return apperr.Validation(field+".value", "must be a finite number")
	}
	if spec.Value < 0 {
		return apperr.Validation(field+".value", "must not be negative, got %.2f", spec.Value)
	}
	if spec.Value < e.Min || spec.Value > e.Max {
		return apperr.Validation(field+".value", "%s must be within [%.0f, %.0f] %s, got %.2f", e.Kind, e.Min, e.Max, e.Unit, spec.Value)
	}
	if math.IsNaN(spec.Adherence) || spec.Adherence < 0 || spec.Adherence > 100 {
		return apperr.Validation(field+".adherence", "must be within [0, 100], got %.2f", spec.Adherence)
	}
	return nil
}

// Apply sums the effect of every spec on ctx's day. Deltas and reliefs are
// scaled by adherence and, for ramped entries, RampFactor(day). Reliefs from
// several specs combine multiplicatively. Overrides blend the target with
// the current value by adherence. Specs must already be validated; unknown
// kinds contribute nothing.
func (r *Registry) Apply(ctx Context, specs []Spec) Effect {
	var total Effect
	for _, spec := range specs {
		e, ok := r.entries[spec.Type]
		if !ok {
			continue
		}
		eff := e.Effect(ctx, spec)

		a := spec.Adherence / 100
		scale := a
		if e.Ramped {
			scale *= RampFactor(ctx.Day)
		}
		total.Delta = total.Delta.Add(eff.Delta.Scale(scale))
		for _, f := range wellness.Fields {
			r := math.Max(0, math.Min(1, eff.Relief.Get(f)*scale))
			if r == 0 {
				continue
			}
			kept := 1 - total.Relief.Get(f)
			total.Relief = total.Relief.With(f, 1-kept*(1-r))
		}

		for _, f := range wellness.Fields {
			if target, pinned := eff.Pins.Pinned(f); pinned {
				current := ctx.State.Get(f)
				total.Pins.Pin(f, target*a+current*(1-a))
			}
		}
	}
	return total
}

// HoursLost is the weekly time cost of spec for one person.
func (r *Registry) HoursLost(spec Spec) float64 {
	e, ok := r.entries[spec.Type]
	if !ok || e.Intensity == nil {
		return 0
	}
	return HoursLostPerWeek[e.Category] * e.Intensity(spec.Value)
}
