package mcp

import (
	"burnsim/internal/intervention"
	"burnsim/internal/wellness"
)

// RecordInput is one check-in supplied inline.
type RecordInput struct {
	MemberID  string  `json:"member_id,omitempty" jsonschema:"population member identifier; omit for individual history"`
	Stress    float64 `json:"stress" jsonschema:"stress reading on the request scale"`
	Sleep     float64 `json:"sleep" jsonschema:"hours slept"`
	Workload  float64 `json:"workload" jsonschema:"workload reading on the request scale"`
	Coffee    float64 `json:"coffee" jsonschema:"cups of coffee"`
	Timestamp string  `json:"timestamp" jsonschema:"RFC3339 time of the check-in"`
}

// SimulateInput is the argument object of simulate_burnout_trajectory.
type SimulateInput struct {
	Mode  string `json:"mode" jsonschema:"individual or population"`
	Scale string `json:"scale,omitempty" jsonschema:"ten (stress and workload 0-10, default) or hundred (0-100)"`

	Records     []RecordInput   `json:"records,omitempty" jsonschema:"check-in history used to estimate the baseline"`
	RecordsFile string          `json:"records_file,omitempty" jsonschema:"JSONL check-in file relative to the server data directory"`
	Baseline    *wellness.State `json:"baseline,omitempty" jsonschema:"explicit starting state; skips baseline estimation"`

	Interventions []intervention.Spec `json:"interventions,omitempty" jsonschema:"interventions to apply for the whole horizon"`

	HorizonDays     int      `json:"horizon_days,omitempty" jsonschema:"days to simulate (default 90, max 730)"`
	EnsembleSize    int      `json:"ensemble_size,omitempty" jsonschema:"number of stochastic trajectories (default 50, max 10000)"`
	NoiseMagnitude  *float64 `json:"noise_magnitude,omitempty" jsonschema:"daily noise amplitude (default 0.5 individual, 0.3 population)"`
	Cyclical        *bool    `json:"cyclical,omitempty" jsonschema:"apply weekend modulation (default true)"`
	SmoothingFactor *float64 `json:"smoothing_factor,omitempty" jsonschema:"exponential smoothing of the score series in [0, 1)"`
	HourlyRate      *float64 `json:"hourly_rate,omitempty" jsonschema:"cost per lost hour, population mode only"`
	PopulationSize  int      `json:"population_size,omitempty" jsonschema:"people covered by the cost estimate; defaults to the member count"`
	Seed            *int64   `json:"seed,omitempty" jsonschema:"random seed for a reproducible run"`

	SummaryOnly bool `json:"summary_only,omitempty" jsonschema:"return metrics and weekly samples instead of every day"`
}

// DistributionOutput counts trajectories per risk bucket.
type DistributionOutput struct {
	Low      int `json:"low"`
	Moderate int `json:"moderate"`
	High     int `json:"high"`
	Critical int `json:"critical"`
}

// DayOutput is one averaged day.
type DayOutput struct {
	Day          int                 `json:"day"`
	State        wellness.State      `json:"state"`
	Score        float64             `json:"score"`
	RawScore     float64             `json:"raw_score"`
	RiskBucket   string              `json:"risk_bucket"`
	Distribution *DistributionOutput `json:"distribution,omitempty"`
}

// MetricsOutput mirrors stats.SummaryMetrics with the cost rendered as a
// fixed two-decimal string.
type MetricsOutput struct {
	BaselineScore     float64             `json:"baseline_score"`
	FinalScore        float64             `json:"final_score"`
	DeltaPercent      float64             `json:"delta_percent"`
	TimeToImpact      *int                `json:"time_to_impact,omitempty"`
	Volatility        float64             `json:"volatility"`
	Trend             string              `json:"trend"`
	PeakScore         float64             `json:"peak_score"`
	PeakDay           int                 `json:"peak_day"`
	MedianScore       float64             `json:"median_score"`
	FinalDistribution *DistributionOutput `json:"final_distribution,omitempty"`
	EstimatedCost     string              `json:"estimated_cost,omitempty"`
}

// SimulateOutput is the structured result of simulate_burnout_trajectory.
type SimulateOutput struct {
	RunID             string         `json:"run_id"`
	Seed              int64          `json:"seed"`
	Mode              string         `json:"mode"`
	Scale             string         `json:"scale"`
	Baseline          wellness.State `json:"baseline"`
	BaselineDefaulted bool           `json:"baseline_defaulted,omitempty"`
	Members           int            `json:"members,omitempty"`
	CostPopulation    int            `json:"cost_population,omitempty"`
	HorizonDays       int            `json:"horizon_days"`
	EnsembleSize      int            `json:"ensemble_size"`
	Timeline          []DayOutput    `json:"timeline"`
	Metrics           MetricsOutput  `json:"metrics"`
	HistoryStatus     string         `json:"history_status,omitempty" jsonschema:"stable, migrating or volatile check-in history"`
	ProjectionStatus  string         `json:"projection_status,omitempty" jsonschema:"stable, migrating or volatile weekly projection"`
	Insights          []string       `json:"insights,omitempty"`
	GeneratedAt       string         `json:"generated_at"`
}

// ListInterventionsInput is the (empty) argument object of list_interventions.
type ListInterventionsInput struct {
	Category string `json:"category,omitempty" jsonschema:"restrict to one category: workload, recovery, behavioral or boundaries"`
}

// InterventionInfo describes one registered intervention.
type InterventionInfo struct {
	Type        string  `json:"type"`
	Category    string  `json:"category"`
	Unit        string  `json:"unit"`
	Description string  `json:"description"`
	Min         float64 `json:"min"`
	Max         float64 `json:"max"`
	Ramped      bool    `json:"ramped"`
}

// ListInterventionsOutput is the result of list_interventions.
type ListInterventionsOutput struct {
	Interventions []InterventionInfo `json:"interventions"`
	Count         int                `json:"count"`
}
