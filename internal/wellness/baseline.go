// Package wellness holds the simulator's state vector, its scale adapters and
// the baseline estimator that derives a starting state from check-in history.
package wellness

import (
	"sort"
	"strconv"
	"time"

	"burnsim/internal/apperr"
)

// HistoricalRecord is one past check-in (individual) or one population
// member's reading, on whatever scale the caller uses.
type HistoricalRecord struct {
	MemberID  string    `json:"member_id,omitempty"`
	Stress    float64   `json:"stress"`
	Sleep     float64   `json:"sleep"`
	Workload  float64   `json:"workload"`
	Coffee    float64   `json:"coffee"`
	Timestamp time.Time `json:"timestamp"`
}

// State returns the record's readings as a State.
func (r HistoricalRecord) State() State {
	return State{Stress: r.Stress, Sleep: r.Sleep, Workload: r.Workload, Coffee: r.Coffee}
}

// DefaultPopulationBaseline is the documented starting point for a team that
// has no readings yet, on the canonical scale.
var DefaultPopulationBaseline = State{Stress: 6, Sleep: 6.5, Workload: 7, Coffee: 2}

// DefaultRecentCheckIns is how many of an individual's latest check-ins are
// averaged when no explicit window is configured.
const DefaultRecentCheckIns = 7

// PopulationBaseline is the aggregate starting state of a team together with
// each member's own latest state.
type PopulationBaseline struct {
	Aggregate State   `json:"aggregate"`
	Members   []State `json:"members,omitempty"`
	Defaulted bool    `json:"defaulted"`
}

// Estimator derives baselines from historical records. Records are converted
// from Scale onto the canonical scale before averaging.
type Estimator struct {
	Scale  Scale
	Recent int
}

// NewEstimator returns an estimator averaging the latest recent check-ins.
func NewEstimator(scale Scale, recent int) *Estimator {
	if recent <= 0 {
		recent = DefaultRecentCheckIns
	}
	return &Estimator{Scale: scale, Recent: recent}
}

// Individual averages the most recent check-ins. An individual who has never
// checked in has no meaningful baseline, so an empty history is an
// INSUFFICIENT_DATA error rather than a default.
func (e *Estimator) Individual(records []HistoricalRecord) (State, error) {
	if len(records) == 0 {
		return State{}, apperr.InsufficientData("no check-ins recorded; at least one is required to project an individual trajectory")
	}

	sorted := make([]HistoricalRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.After(sorted[j].Timestamp)
	})
	if len(sorted) > e.Recent {
		sorted = sorted[:e.Recent]
	}

	states := make([]State, len(sorted))
	for i, r := range sorted {
		states[i] = e.Scale.ToCanonical(r.State()).Clamp()
	}
	return Mean(states), nil
}

// Population takes every member's latest reading and averages them. An empty
// population falls back to DefaultPopulationBaseline.
func (e *Estimator) Population(records []HistoricalRecord) PopulationBaseline {
	if len(records) == 0 {
		return PopulationBaseline{Aggregate: DefaultPopulationBaseline, Defaulted: true}
	}

	latest := make(map[string]HistoricalRecord)
	order := make([]string, 0)
	for i, r := range records {
		id := r.MemberID
		if id == "" {
			// Anonymous rows count as distinct members.
			id = "#" + strconv.Itoa(i)
		}
		prev, ok := latest[id]
		if !ok {
			order = append(order, id)
			latest[id] = r
			continue
		}
		if r.Timestamp.After(prev.Timestamp) {
			latest[id] = r
		}
	}
	sort.Strings(order)

	members := make([]State, len(order))
	for i, id := range order {
		members[i] = e.Scale.ToCanonical(latest[id].State()).Clamp()
	}

	return PopulationBaseline{Aggregate: Mean(members), Members: members}
}

// Mean returns the field-wise arithmetic mean of states.
func Mean(states []State) State {
	if len(states) == 0 {
		return State{}
	}
	var sum State
	for _, s := range states {
		sum = sum.Add(s)
	}
	return sum.Scale(1 / float64(len(states)))
}
