package simulation

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"burnsim/internal/intervention"
	"burnsim/internal/scoring"
	"burnsim/internal/wellness"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// blockSize is the number of consecutive trajectories folded by one worker
// before its partial sums are merged. Blocks are merged in index order, so
// the averaged timeline does not depend on the worker count.
const blockSize = 16

// Config holds the per-run simulation settings.
type Config struct {
	HorizonDays     int
	EnsembleSize    int
	SmoothingFactor float64
	NoiseMagnitude  float64
	Cyclical        bool
	Random          RandomSource

	// Workers bounds trajectory parallelism; <= 0 means GOMAXPROCS.
	Workers int
	// TrackDistribution tallies per-day risk buckets from unaveraged scores.
	TrackDistribution bool
	// Observer, if set, sees every trajectory-day state. It is called from
	// several goroutines.
	Observer func(trajectory, day int, s wellness.State)
}

// DailySample is one day of the ensemble-averaged timeline.
type DailySample struct {
	Day          int            `json:"day"`
	State        wellness.State `json:"state"`
	Score        float64        `json:"score"`
	RawScore     float64        `json:"raw_score"`
	Distribution *Distribution  `json:"distribution,omitempty"`
}

// Timeline is the output of a run.
type Timeline struct {
	Baseline      wellness.State `json:"baseline"`
	BaselineScore float64        `json:"baseline_score"`
	Samples       []DailySample  `json:"samples"`
}

// Scores returns the (smoothed) score of every sample.
func (t Timeline) Scores() []float64 {
	out := make([]float64, len(t.Samples))
	for i, s := range t.Samples {
		out[i] = s.Score
	}
	return out
}

// Engine runs ensembles of stochastic trajectories.
type Engine struct {
	registry *intervention.Registry
	score    scoring.Func
}

// NewEngine creates an engine dispatching interventions through registry and
// scoring states with score.
func NewEngine(registry *intervention.Registry, score scoring.Func) *Engine {
	return &Engine{registry: registry, score: score}
}

// Run simulates cfg.EnsembleSize trajectories of cfg.HorizonDays days.
// Trajectory i starts from starts[i % len(starts)] with zero fatigue debt.
// The run either completes or returns an error; no partial timeline is
// returned.
func (e *Engine) Run(ctx context.Context, starts []wellness.State, specs []intervention.Spec, cfg Config) (Timeline, error) {
	if len(starts) == 0 {
		return Timeline{}, fmt.Errorf("no starting state")
	}
	if cfg.HorizonDays <= 0 || cfg.EnsembleSize <= 0 {
		return Timeline{}, fmt.Errorf("horizon (%d) and ensemble size (%d) must be positive", cfg.HorizonDays, cfg.EnsembleSize)
	}
	if cfg.Random == nil {
		return Timeline{}, fmt.Errorf("no random source")
	}

	start := time.Now()
	tr := &Transition{
		Registry:       e.registry,
		Interventions:  specs,
		NoiseMagnitude: cfg.NoiseMagnitude,
		Cyclical:       cfg.Cyclical,
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	blocks := (cfg.EnsembleSize + blockSize - 1) / blockSize
	partials := make([]*accumulator, blocks)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for b := 0; b < blocks; b++ {
		g.Go(func() error {
			acc := newAccumulator(cfg.HorizonDays, cfg.TrackDistribution)
			lo := b * blockSize
			hi := min(lo+blockSize, cfg.EnsembleSize)
			for i := lo; i < hi; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				e.runTrajectory(tr, starts[i%len(starts)], i, cfg, acc)
			}
			partials[b] = acc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Timeline{}, fmt.Errorf("ensemble aborted: %w", err)
	}

	total := partials[0]
	for _, p := range partials[1:] {
		total.merge(p)
	}

	timeline := e.average(total, starts, cfg)

	log.Debug().
		Int("horizonDays", cfg.HorizonDays).
		Int("ensembleSize", cfg.EnsembleSize).
		Int("interventions", len(specs)).
		Int("workers", workers).
		Dur("elapsed", time.Since(start)).
		Msg("Ensemble simulation completed")

	return timeline, nil
}

func (e *Engine) runTrajectory(tr *Transition, baseline wellness.State, index int, cfg Config, acc *accumulator) {
	rng := cfg.Random.Trajectory(index)
	carried := baseline
	debt := 0.0
	for day := 1; day <= cfg.HorizonDays; day++ {
		var observed wellness.State
		observed, carried, debt = tr.Step(carried, baseline, day, rng, debt)
		if cfg.Observer != nil {
			cfg.Observer(index, day, observed)
		}
		acc.add(day-1, observed, e.score(observed))
	}
}

func (e *Engine) average(total *accumulator, starts []wellness.State, cfg Config) Timeline {
	n := float64(cfg.EnsembleSize)

	// The baseline is averaged over trajectory starts exactly as the days are.
	var baseSum wellness.State
	baseScore := 0.0
	for i := 0; i < cfg.EnsembleSize; i++ {
		s := starts[i%len(starts)]
		baseSum = baseSum.Add(s)
		baseScore += e.score(s)
	}

	timeline := Timeline{
		Baseline:      baseSum.Scale(1 / n),
		BaselineScore: baseScore / n,
		Samples:       make([]DailySample, cfg.HorizonDays),
	}

	prev := timeline.BaselineScore
	f := cfg.SmoothingFactor
	for d := 0; d < cfg.HorizonDays; d++ {
		raw := total.scores[d] / n
		smoothed := (1-f)*raw + f*prev
		prev = smoothed

		sample := DailySample{
			Day:      d + 1,
			State:    total.states[d].Scale(1 / n),
			Score:    smoothed,
			RawScore: raw,
		}
		if total.dist != nil {
			dist := total.dist[d]
			sample.Distribution = &dist
		}
		timeline.Samples[d] = sample
	}
	return timeline
}

// accumulator holds per-day sums across trajectories.
type accumulator struct {
	states []wellness.State
	scores []float64
	dist   []Distribution
}

func newAccumulator(days int, withDist bool) *accumulator {
	a := &accumulator{
		states: make([]wellness.State, days),
		scores: make([]float64, days),
	}
	if withDist {
		a.dist = make([]Distribution, days)
	}
	return a
}

func (a *accumulator) add(day int, s wellness.State, score float64) {
	a.states[day] = a.states[day].Add(s)
	a.scores[day] += score
	if a.dist != nil {
		a.dist[day].Add(score)
	}
}

func (a *accumulator) merge(o *accumulator) {
	for d := range a.states {
		a.states[d] = a.states[d].Add(o.states[d])
		a.scores[d] += o.scores[d]
		if a.dist != nil {
			a.dist[d].Merge(o.dist[d])
		}
	}
}
