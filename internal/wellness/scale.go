package wellness

import "fmt"

// Scale identifies the numeric range a caller uses for stress and workload.
// Sleep (hours) and coffee (cups) are never rescaled.
type Scale string

const (
	// ScaleTen is the individual check-in scale and the engine's canonical one.
	ScaleTen Scale = "ten"
	// ScaleHundred is the employer/population scale (stress, workload 0..100).
	ScaleHundred Scale = "hundred"
)

// ParseScale accepts "ten", "hundred" or an empty string (defaults to ScaleTen).
func ParseScale(v string) (Scale, error) {
	switch Scale(v) {
	case "", ScaleTen:
		return ScaleTen, nil
	case ScaleHundred:
		return ScaleHundred, nil
	default:
		return "", fmt.Errorf("unknown scale %q (expected %q or %q)", v, ScaleTen, ScaleHundred)
	}
}

func (sc Scale) factor() float64 {
	if sc == ScaleHundred {
		return 10
	}
	return 1
}

// ToCanonical converts a state expressed on sc into the engine scale.
func (sc Scale) ToCanonical(s State) State {
	f := sc.factor()
	s.Stress /= f
	s.Workload /= f
	return s
}

// FromCanonical converts an engine-scale state back onto sc.
func (sc Scale) FromCanonical(s State) State {
	f := sc.factor()
	s.Stress *= f
	s.Workload *= f
	return s
}
