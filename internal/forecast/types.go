// Package forecast is the simulator's entry point: it validates a request,
// resolves baselines, runs the ensemble and reduces the timeline to metrics.
package forecast

import (
	"time"

	"burnsim/internal/intervention"
	"burnsim/internal/simulation"
	"burnsim/internal/stats"
	"burnsim/internal/wellness"
)

// Mode selects the individual or population flavour of a run.
type Mode string

const (
	ModeIndividual Mode = "individual"
	ModePopulation Mode = "population"
)

// Limits on request sizes.
const (
	MaxHorizonDays  = 730
	MaxEnsembleSize = 10000
	MaxNoise        = 10.0
)

// Request is a simulation request from the surrounding product. Baselines,
// records and the returned states use Scale.
type Request struct {
	Mode  Mode           `json:"mode" yaml:"mode"`
	Scale wellness.Scale `json:"scale,omitempty" yaml:"scale,omitempty"`

	// Records feed the baseline estimator unless Baseline is set.
	Records  []wellness.HistoricalRecord `json:"records,omitempty" yaml:"-"`
	Baseline *wellness.State             `json:"baseline,omitempty" yaml:"baseline,omitempty"`

	Interventions []intervention.Spec `json:"interventions" yaml:"interventions"`

	// Zero values fall back to the configured defaults.
	HorizonDays     int      `json:"horizon_days,omitempty" yaml:"horizon_days,omitempty"`
	EnsembleSize    int      `json:"ensemble_size,omitempty" yaml:"ensemble_size,omitempty"`
	NoiseMagnitude  *float64 `json:"noise_magnitude,omitempty" yaml:"noise_magnitude,omitempty"`
	Cyclical        *bool    `json:"cyclical,omitempty" yaml:"cyclical,omitempty"`
	SmoothingFactor *float64 `json:"smoothing_factor,omitempty" yaml:"smoothing_factor,omitempty"`

	// Population mode cost inputs.
	HourlyRate     *float64 `json:"hourly_rate,omitempty" yaml:"hourly_rate,omitempty"`
	PopulationSize int      `json:"population_size,omitempty" yaml:"population_size,omitempty"`

	// Seed makes the run reproducible; nil draws a fresh one.
	Seed *int64 `json:"seed,omitempty" yaml:"seed,omitempty"`
}

// Result is the plain-data outcome of a run.
type Result struct {
	RunID             string         `json:"run_id"`
	Seed              int64          `json:"seed"`
	Mode              Mode           `json:"mode"`
	Scale             wellness.Scale `json:"scale"`
	Baseline          wellness.State `json:"baseline"`
	BaselineDefaulted bool           `json:"baseline_defaulted,omitempty"`
	Members           int            `json:"members,omitempty"`
	// CostPopulation is the head count the cost estimate was priced for.
	// CostPopulationAssumed is set when neither a population size nor
	// member readings were given and one person was assumed.
	CostPopulation        int                      `json:"cost_population,omitempty"`
	CostPopulationAssumed bool                     `json:"cost_population_assumed,omitempty"`
	HorizonDays           int                      `json:"horizon_days"`
	EnsembleSize          int                      `json:"ensemble_size"`
	Timeline              []simulation.DailySample `json:"timeline"`
	Metrics               stats.SummaryMetrics     `json:"metrics"`
	// CheckIns charts the individual's history; nil unless records were used.
	CheckIns *stats.CheckInStability `json:"check_in_stability,omitempty"`
	// Evolution charts the weekly averages of the projection.
	Evolution   stats.ThreeWayResult `json:"evolution"`
	GeneratedAt time.Time            `json:"generated_at"`
}

// Defaults fill request fields left at zero.
type Defaults struct {
	HorizonDays     int
	EnsembleSize    int
	NoiseIndividual float64
	NoisePopulation float64
	SmoothingFactor float64
	Cyclical        bool
	HourlyRate      float64
	RecentCheckIns  int
	Workers         int
}

// DefaultDefaults mirrors the historical behaviour: 90 days, 50 trajectories,
// ±0.5 noise for individuals and ±0.3 for populations.
func DefaultDefaults() Defaults {
	return Defaults{
		HorizonDays:     90,
		EnsembleSize:    50,
		NoiseIndividual: 0.5,
		NoisePopulation: 0.3,
		Cyclical:        true,
		HourlyRate:      50,
		RecentCheckIns:  wellness.DefaultRecentCheckIns,
	}
}
