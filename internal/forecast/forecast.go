package forecast

import (
	"context"
	"fmt"
	"math"
	"time"

	"burnsim/internal/apperr"
	"burnsim/internal/intervention"
	"burnsim/internal/scoring"
	"burnsim/internal/simulation"
	"burnsim/internal/stats"
	"burnsim/internal/wellness"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Forecaster wires the baseline estimator, intervention registry, ensemble
// engine and metrics together.
type Forecaster struct {
	registry *intervention.Registry
	score    scoring.Func
	defaults Defaults
}

// New creates a Forecaster. A nil score function is reported as a
// CONFIGURATION error on the first Simulate call.
func New(registry *intervention.Registry, score scoring.Func, defaults Defaults) *Forecaster {
	return &Forecaster{registry: registry, score: score, defaults: defaults}
}

// Registry returns the intervention registry in use.
func (f *Forecaster) Registry() *intervention.Registry {
	return f.registry
}

// resolved is a validated request with defaults applied.
type resolved struct {
	mode       Mode
	scale      wellness.Scale
	horizon    int
	ensemble   int
	noise      float64
	cyclical   bool
	smoothing  float64
	hourlyRate float64
}

// Simulate runs one request. All validation happens before any simulation
// work; on error no result is returned.
func (f *Forecaster) Simulate(ctx context.Context, req Request) (*Result, error) {
	if f.score == nil {
		return nil, apperr.Configuration("score function is not configured")
	}
	if f.registry == nil {
		return nil, apperr.Configuration("intervention registry is not configured")
	}

	r, err := f.validate(req)
	if err != nil {
		return nil, err
	}

	starts, defaulted, err := f.resolveBaseline(req, r)
	if err != nil {
		return nil, err
	}

	var src simulation.SeededSource
	if req.Seed != nil {
		src = simulation.SeededSource{Seed: *req.Seed}
	} else if src, err = simulation.NewRandomSource(); err != nil {
		return nil, fmt.Errorf("seed random source: %w", err)
	}

	runID := uuid.NewString()
	log.Info().
		Str("runId", runID).
		Str("mode", string(r.mode)).
		Int64("seed", src.Seed).
		Int("horizonDays", r.horizon).
		Int("ensembleSize", r.ensemble).
		Int("interventions", len(req.Interventions)).
		Msg("Starting trajectory simulation")

	// Noise-free trajectories from the same start are identical, so a
	// per-run cache removes almost every score call.
	score := f.score
	if r.noise == 0 {
		score = scoring.Memoize(score)
	}
	engine := simulation.NewEngine(f.registry, score)
	timeline, err := engine.Run(ctx, starts, req.Interventions, simulation.Config{
		HorizonDays:       r.horizon,
		EnsembleSize:      r.ensemble,
		SmoothingFactor:   r.smoothing,
		NoiseMagnitude:    r.noise,
		Cyclical:          r.cyclical,
		Random:            src,
		Workers:           f.defaults.Workers,
		TrackDistribution: r.mode == ModePopulation,
	})
	if err != nil {
		return nil, fmt.Errorf("simulate %s: %w", runID, err)
	}

	// Members exist only when the starts come from member readings.
	members := 0
	if r.mode == ModePopulation && req.Baseline == nil && !defaulted {
		members = len(starts)
	}

	metrics := stats.Summarize(timeline)
	costAssumed := false
	size := 0
	if r.mode == ModePopulation {
		size = req.PopulationSize
		if size == 0 {
			size = max(members, 1)
			costAssumed = members == 0
		}
		cost := stats.EstimateCost(f.registry, stats.CostInput{
			Interventions:  req.Interventions,
			HorizonDays:    r.horizon,
			HourlyRate:     decimal.NewFromFloat(r.hourlyRate),
			PopulationSize: size,
		})
		metrics.EstimatedCost = &cost
	}

	samples := make([]simulation.DailySample, len(timeline.Samples))
	for i, s := range timeline.Samples {
		s.State = r.scale.FromCanonical(s.State)
		samples[i] = s
	}

	res := &Result{
		RunID:             runID,
		Seed:              src.Seed,
		Mode:              r.mode,
		Scale:             r.scale,
		Baseline:          r.scale.FromCanonical(timeline.Baseline),
		BaselineDefaulted: defaulted,
		HorizonDays:       r.horizon,
		EnsembleSize:      r.ensemble,
		Timeline:          samples,
		Metrics:           metrics,
		Evolution:         stats.ProjectionEvolution(timeline),
		GeneratedAt:       time.Now().UTC(),
	}
	if r.mode == ModeIndividual && req.Baseline == nil {
		res.CheckIns = stats.AnalyzeCheckIns(req.Records, r.scale, f.score)
	}
	if r.mode == ModePopulation {
		res.Members = members
		res.CostPopulation = size
		res.CostPopulationAssumed = costAssumed
	}
	if costAssumed {
		log.Warn().Str("runId", runID).Msg("No population size or member readings; cost estimate prices a single person")
	}

	log.Info().
		Str("runId", runID).
		Float64("baselineScore", metrics.BaselineScore).
		Float64("finalScore", metrics.FinalScore).
		Str("trend", string(metrics.Trend)).
		Msg("Trajectory simulation finished")

	return res, nil
}

func (f *Forecaster) validate(req Request) (resolved, error) {
	r := resolved{
		mode:       req.Mode,
		horizon:    req.HorizonDays,
		ensemble:   req.EnsembleSize,
		cyclical:   f.defaults.Cyclical,
		smoothing:  f.defaults.SmoothingFactor,
		hourlyRate: f.defaults.HourlyRate,
	}

	switch r.mode {
	case ModeIndividual:
		r.noise = f.defaults.NoiseIndividual
	case ModePopulation:
		r.noise = f.defaults.NoisePopulation
	default:
		return r, apperr.Validation("mode", "must be %q or %q, got %q", ModeIndividual, ModePopulation, req.Mode)
	}

	scale, err := wellness.ParseScale(string(req.Scale))
	if err != nil {
		return r, apperr.Validation("scale", "%v", err)
	}
	r.scale = scale

	if r.horizon == 0 {
		r.horizon = f.defaults.HorizonDays
	}
	if r.horizon <= 0 || r.horizon > MaxHorizonDays {
		return r, apperr.Validation("horizon_days", "must be within [1, %d], got %d", MaxHorizonDays, r.horizon)
	}
	if r.ensemble == 0 {
		r.ensemble = f.defaults.EnsembleSize
	}
	if r.ensemble <= 0 || r.ensemble > MaxEnsembleSize {
		return r, apperr.Validation("ensemble_size", "must be within [1, %d], got %d", MaxEnsembleSize, r.ensemble)
	}

	if req.NoiseMagnitude != nil {
		r.noise = *req.NoiseMagnitude
	}
	if !finite(r.noise) || r.noise < 0 || r.noise > MaxNoise {
		return r, apperr.Validation("noise_magnitude", "must be within [0, %.0f], got %v", MaxNoise, r.noise)
	}
	if req.Cyclical != nil {
		r.cyclical = *req.Cyclical
	}
	if req.SmoothingFactor != nil {
		r.smoothing = *req.SmoothingFactor
	}
	if !finite(r.smoothing) || r.smoothing < 0 || r.smoothing >= 1 {
		return r, apperr.Validation("smoothing_factor", "must be within [0, 1), got %v", r.smoothing)
	}
	if req.HourlyRate != nil {
		r.hourlyRate = *req.HourlyRate
	}
	if !finite(r.hourlyRate) || r.hourlyRate < 0 {
		return r, apperr.Validation("hourly_rate", "must not be negative, got %v", r.hourlyRate)
	}
	if req.PopulationSize < 0 {
		return r, apperr.Validation("population_size", "must not be negative, got %d", req.PopulationSize)
	}

	for i, spec := range req.Interventions {
		if err := f.registry.Validate(fmt.Sprintf("interventions[%d]", i), spec); err != nil {
			return r, err
		}
	}

	if req.Baseline != nil {
		b := *req.Baseline
		for _, fld := range wellness.Fields {
			if v := b.Get(fld); !finite(v) || v < 0 {
				return r, apperr.Validation("baseline."+fld.String(), "must be a non-negative number, got %v", v)
			}
		}
	}
	return r, nil
}

// resolveBaseline returns the trajectory starting states on the canonical
// scale and whether the documented population default was used. The
// reported baseline is the mean over trajectory starts, computed by the
// engine.
func (f *Forecaster) resolveBaseline(req Request, r resolved) ([]wellness.State, bool, error) {
	if req.Baseline != nil {
		return []wellness.State{r.scale.ToCanonical(*req.Baseline).Clamp()}, false, nil
	}

	est := wellness.NewEstimator(r.scale, f.defaults.RecentCheckIns)
	if r.mode == ModeIndividual {
		b, err := est.Individual(req.Records)
		if err != nil {
			return nil, false, err
		}
		return []wellness.State{b}, false, nil
	}

	pop := est.Population(req.Records)
	if len(pop.Members) == 0 {
		return []wellness.State{pop.Aggregate}, pop.Defaulted, nil
	}
	return pop.Members, pop.Defaulted, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
