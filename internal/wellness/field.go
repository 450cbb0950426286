package wellness

// Field names one component of State.
type Field int

const (
	FieldStress Field = iota
	FieldSleep
	FieldWorkload
	FieldCoffee

	fieldCount
)

// Fields lists every field in declaration order.
var Fields = [fieldCount]Field{FieldStress, FieldSleep, FieldWorkload, FieldCoffee}

func (f Field) String() string {
	switch f {
	case FieldStress:
		return "stress"
	case FieldSleep:
		return "sleep"
	case FieldWorkload:
		return "workload"
	case FieldCoffee:
		return "coffee"
	default:
		return "unknown"
	}
}

// Get returns the value of field f.
func (s State) Get(f Field) float64 {
	switch f {
	case FieldStress:
		return s.Stress
	case FieldSleep:
		return s.Sleep
	case FieldWorkload:
		return s.Workload
	case FieldCoffee:
		return s.Coffee
	}
	return 0
}

// With returns a copy of s with field f set to v.
func (s State) With(f Field, v float64) State {
	switch f {
	case FieldStress:
		s.Stress = v
	case FieldSleep:
		s.Sleep = v
	case FieldWorkload:
		s.Workload = v
	case FieldCoffee:
		s.Coffee = v
	}
	return s
}

// Pins records fields whose value has been fixed by a direct override for
// the current day.
type Pins struct {
	set   [fieldCount]bool
	value [fieldCount]float64
}

// Pin fixes f at v. A later Pin on the same field replaces the earlier one.
func (p *Pins) Pin(f Field, v float64) {
	p.set[f] = true
	p.value[f] = v
}

// Pinned reports whether f is fixed and at which value.
func (p Pins) Pinned(f Field) (float64, bool) {
	return p.value[f], p.set[f]
}

// Apply writes every pinned value into s.
func (p Pins) Apply(s State) State {
	for _, f := range Fields {
		if p.set[f] {
			s = s.With(f, p.value[f])
		}
	}
	return s
}

// Any reports whether at least one field is pinned.
func (p Pins) Any() bool {
	for _, f := range Fields {
		if p.set[f] {
			return true
		}
	}
	return false
}
