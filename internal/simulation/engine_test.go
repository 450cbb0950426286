package simulation

import (
	"context"
	"encoding/json"
	"math"
	"sync/atomic"
	"testing"

	"burnsim/internal/intervention"
	"burnsim/internal/scoring"
	"burnsim/internal/wellness"
)

func newTestEngine() *Engine {
	return NewEngine(intervention.NewRegistry(), scoring.Default)
}

func runOrFail(t *testing.T, e *Engine, starts []wellness.State, specs []intervention.Spec, cfg Config) Timeline {
	t.Helper()
	tl, err := e.Run(context.Background(), starts, specs, cfg)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(tl.Samples) != cfg.HorizonDays {
		t.Fatalf("expected %d samples, got %d", cfg.HorizonDays, len(tl.Samples))
	}
	return tl
}

func TestRun_BoundsInvariant(t *testing.T) {
	var violations atomic.Int64
	cfg := Config{
		HorizonDays:    120,
		EnsembleSize:   40,
		NoiseMagnitude: 3,
		Cyclical:       true,
		Random:         SeededSource{Seed: 7},
		Observer: func(_, _ int, s wellness.State) {
			if !s.InBounds() {
				violations.Add(1)
			}
		},
	}
	specs := []intervention.Spec{
		{Type: intervention.BoundaryHour, Value: 23, Adherence: 100},
		{Type: intervention.MovementSessions, Value: 10, Adherence: 90},
		{Type: intervention.VacationDays, Value: 5, Adherence: 100},
	}
	starts := []wellness.State{
		{Stress: 10, Sleep: 0, Workload: 10, Coffee: 10},
		{Stress: 0, Sleep: 12, Workload: 0, Coffee: 0},
	}

	runOrFail(t, newTestEngine(), starts, specs, cfg)

	if n := violations.Load(); n != 0 {
		t.Errorf("%d trajectory-days left their declared range", n)
	}
}

func TestRun_BucketConservation(t *testing.T) {
	cfg := Config{
		HorizonDays:       30,
		EnsembleSize:      37,
		NoiseMagnitude:    0.3,
		Cyclical:          true,
		Random:            SeededSource{Seed: 11},
		TrackDistribution: true,
	}
	members := []wellness.State{
		{Stress: 2, Sleep: 8, Workload: 3, Coffee: 1},
		{Stress: 6, Sleep: 6, Workload: 7, Coffee: 3},
		{Stress: 9, Sleep: 4.5, Workload: 9, Coffee: 6},
	}

	tl := runOrFail(t, newTestEngine(), members, nil, cfg)
	for _, s := range tl.Samples {
		if s.Distribution == nil {
			t.Fatalf("day %d has no distribution", s.Day)
		}
		if got := s.Distribution.Total(); got != cfg.EnsembleSize {
			t.Errorf("day %d buckets sum to %d, want %d", s.Day, got, cfg.EnsembleSize)
		}
	}
}

func TestRun_DistributionUsesUnaveragedScores(t *testing.T) {
	// One very healthy and one burnt-out member average to a moderate score,
	// but no trajectory is actually moderate.
	cfg := Config{HorizonDays: 1, EnsembleSize: 2, Random: SeededSource{Seed: 1}, TrackDistribution: true}
	members := []wellness.State{
		{Stress: 0, Sleep: 8, Workload: 0, Coffee: 0},
		{Stress: 10, Sleep: 3, Workload: 10, Coffee: 8},
	}

	tl := runOrFail(t, newTestEngine(), members, nil, cfg)
	d := tl.Samples[0].Distribution
	if d.Low != 1 || d.Critical != 1 || d.Moderate != 0 {
		t.Errorf("distribution = %+v, want one low and one critical", *d)
	}
}

func TestRun_NoInterventionStability(t *testing.T) {
	// An equilibrium baseline: no feedback term fires and load stays under
	// recovery, so only noise could move it.
	baseline := wellness.State{Stress: 3, Sleep: 8, Workload: 4, Coffee: 2}
	cfg := Config{HorizonDays: 90, EnsembleSize: 10, Random: SeededSource{Seed: 3}}

	tl := runOrFail(t, newTestEngine(), []wellness.State{baseline}, nil, cfg)
	for _, s := range tl.Samples {
		if math.Abs(s.Score-tl.BaselineScore) > 0.005*tl.BaselineScore {
			t.Fatalf("day %d score %.4f drifted more than 0.5%% from baseline %.4f", s.Day, s.Score, tl.BaselineScore)
		}
	}
}

func TestRun_MonotoneInWorkloadReduction(t *testing.T) {
	baseline := wellness.State{Stress: 6, Sleep: 6.5, Workload: 7, Coffee: 2}
	cfg := Config{
		HorizonDays:    60,
		EnsembleSize:   200,
		NoiseMagnitude: 0.5,
		Cyclical:       true,
		Random:         SeededSource{Seed: 42},
	}
	e := newTestEngine()

	final := func(intensity float64) float64 {
		specs := []intervention.Spec{{Type: intervention.WorkloadReduction, Value: intensity, Adherence: 100}}
		tl := runOrFail(t, e, []wellness.State{baseline}, specs, cfg)
		return tl.Samples[len(tl.Samples)-1].Score
	}

	none, half := final(0), final(50)
	if half > none+1e-6 {
		t.Errorf("50%% workload reduction final score %.3f exceeds 0%% score %.3f", half, none)
	}
}

func TestRun_WeekendDoesNotErodeWorkload(t *testing.T) {
	baseline := wellness.State{Stress: 6, Sleep: 6.5, Workload: 7, Coffee: 2}
	cfg := Config{HorizonDays: 60, EnsembleSize: 1, Cyclical: true, Random: SeededSource{Seed: 1}}

	tl := runOrFail(t, newTestEngine(), []wellness.State{baseline}, nil, cfg)
	for _, s := range tl.Samples {
		want := baseline.Workload
		if IsWeekend(s.Day) {
			want *= weekendWorkloadFactor
		}
		if math.Abs(s.State.Workload-want) > 1e-9 {
			t.Errorf("day %d workload %.4f, want %.4f", s.Day, s.State.Workload, want)
		}
	}
}

func TestRun_WorkloadReductionHoldsAtTarget(t *testing.T) {
	baseline := wellness.State{Stress: 6, Sleep: 6.5, Workload: 7, Coffee: 2}
	cfg := Config{HorizonDays: 60, EnsembleSize: 1, Random: SeededSource{Seed: 1}}
	specs := []intervention.Spec{{Type: intervention.WorkloadReduction, Value: 20, Adherence: 100}}

	tl := runOrFail(t, newTestEngine(), []wellness.State{baseline}, specs, cfg)
	for _, s := range tl.Samples[intervention.RampDays-1:] {
		if math.Abs(s.State.Workload-0.8*baseline.Workload) > 1e-9 {
			t.Errorf("day %d workload %.4f, want %.4f", s.Day, s.State.Workload, 0.8*baseline.Workload)
		}
	}
	if w := tl.Samples[6].State.Workload; w <= 0.8*baseline.Workload || w >= baseline.Workload {
		t.Errorf("day 7 workload %.4f should be part-way down the ramp", w)
	}
}

func TestRun_Determinism(t *testing.T) {
	baseline := wellness.State{Stress: 6, Sleep: 6.5, Workload: 7, Coffee: 3}
	specs := []intervention.Spec{
		{Type: intervention.SocialMinutes, Value: 30, Adherence: 70},
		{Type: intervention.WorkloadReduction, Value: 20, Adherence: 80},
	}
	run := func(workers int) []byte {
		cfg := Config{
			HorizonDays:       45,
			EnsembleSize:      50,
			NoiseMagnitude:    0.5,
			Cyclical:          true,
			Random:            SeededSource{Seed: 2024},
			Workers:           workers,
			TrackDistribution: true,
		}
		tl := runOrFail(t, newTestEngine(), []wellness.State{baseline}, specs, cfg)
		out, err := json.Marshal(tl)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		return out
	}

	first, second, parallel := run(1), run(1), run(8)
	if string(first) != string(second) {
		t.Error("two runs with the same seed produced different timelines")
	}
	if string(first) != string(parallel) {
		t.Error("worker count changed the timeline")
	}

	other := Config{HorizonDays: 45, EnsembleSize: 50, NoiseMagnitude: 0.5, Random: SeededSource{Seed: 2025}}
	tl := runOrFail(t, newTestEngine(), []wellness.State{baseline}, specs, other)
	out, _ := json.Marshal(tl)
	if string(out) == string(first) {
		t.Error("a different seed should produce a different timeline")
	}
}

func TestRun_VacationDecayShape(t *testing.T) {
	baseline := wellness.State{Stress: 7, Sleep: 7, Workload: 8, Coffee: 2}
	cfg := Config{HorizonDays: 20, EnsembleSize: 1, Random: SeededSource{Seed: 5}}
	specs := []intervention.Spec{{Type: intervention.VacationDays, Value: 7, Adherence: 100}}

	tl := runOrFail(t, newTestEngine(), []wellness.State{baseline}, specs, cfg)

	prev := baseline.Stress
	for day := 1; day <= 7; day++ {
		s := tl.Samples[day-1].State
		if s.Stress >= prev {
			t.Errorf("day %d stress %.4f did not decrease from %.4f", day, s.Stress, prev)
		}
		if s.Workload != 0 {
			t.Errorf("day %d workload %.2f, want 0 during vacation", day, s.Workload)
		}
		prev = s.Stress
	}

	if w := tl.Samples[11].State.Workload; math.Abs(w-baseline.Workload) > 0.05*baseline.Workload {
		t.Errorf("day 12 workload %.3f is not within 5%% of baseline %.1f", w, baseline.Workload)
	}
	if w := tl.Samples[8].State.Workload; w >= baseline.Workload*0.95 || w <= 0 {
		t.Errorf("day 9 workload %.3f should be part-way through the fade", w)
	}
}

func TestScenario_SleepTargetPinsSleepAndRelievesStress(t *testing.T) {
	baseline := wellness.State{Stress: 8, Sleep: 5, Workload: 8, Coffee: 5}
	cfg := Config{HorizonDays: 30, EnsembleSize: 1, Random: SeededSource{Seed: 9}}
	e := newTestEngine()

	with := runOrFail(t, e, []wellness.State{baseline}, []intervention.Spec{{Type: intervention.SleepHours, Value: 8, Adherence: 100}}, cfg)
	without := runOrFail(t, e, []wellness.State{baseline}, nil, cfg)

	sumWith, sumWithout := 0.0, 0.0
	for i, s := range with.Samples {
		if s.State.Sleep != 8 {
			t.Errorf("day %d sleep %.3f, want pinned at 8", s.Day, s.State.Sleep)
		}
		other := without.Samples[i]
		if s.State.Stress > other.State.Stress {
			t.Errorf("day %d stress %.3f above the no-intervention projection %.3f", s.Day, s.State.Stress, other.State.Stress)
		}
		if s.Score >= other.Score {
			t.Errorf("day %d score %.3f not below the no-intervention projection %.3f", s.Day, s.Score, other.Score)
		}
		sumWith += s.State.Stress
		sumWithout += other.State.Stress
	}
	if sumWith >= sumWithout {
		t.Errorf("mean stress with a sleep target (%.3f) should be below without (%.3f)", sumWith/30, sumWithout/30)
	}
	if with.Samples[0].State.Stress >= without.Samples[0].State.Stress {
		t.Error("day 1 stress should drop once the sleep-deprivation term stops firing")
	}
}

func TestRun_Smoothing(t *testing.T) {
	baseline := wellness.State{Stress: 7, Sleep: 7, Workload: 8, Coffee: 2}
	specs := []intervention.Spec{{Type: intervention.VacationDays, Value: 5, Adherence: 100}}
	cfg := Config{HorizonDays: 10, EnsembleSize: 1, Random: SeededSource{Seed: 1}, SmoothingFactor: 0.5}

	tl := runOrFail(t, newTestEngine(), []wellness.State{baseline}, specs, cfg)

	want := 0.5*tl.Samples[0].RawScore + 0.5*tl.BaselineScore
	if math.Abs(tl.Samples[0].Score-want) > 1e-9 {
		t.Errorf("day 1 smoothed score %.4f, want %.4f", tl.Samples[0].Score, want)
	}
	want = 0.5*tl.Samples[1].RawScore + 0.5*tl.Samples[0].Score
	if math.Abs(tl.Samples[1].Score-want) > 1e-9 {
		t.Errorf("day 2 smoothed score %.4f, want %.4f", tl.Samples[1].Score, want)
	}
}

func TestRun_CancelledContextReturnsNoTimeline(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := Config{HorizonDays: 30, EnsembleSize: 100, Random: SeededSource{Seed: 1}}
	tl, err := newTestEngine().Run(ctx, []wellness.State{{Stress: 5, Sleep: 7, Workload: 5}}, nil, cfg)
	if err == nil {
		t.Fatal("expected error from cancelled context")
	}
	if len(tl.Samples) != 0 {
		t.Errorf("expected no partial timeline, got %d samples", len(tl.Samples))
	}
}

func TestRun_RejectsBadConfig(t *testing.T) {
	e := newTestEngine()
	start := []wellness.State{{Stress: 5}}
	cases := map[string]Config{
		"ZeroHorizon":  {HorizonDays: 0, EnsembleSize: 1, Random: SeededSource{}},
		"ZeroEnsemble": {HorizonDays: 1, EnsembleSize: 0, Random: SeededSource{}},
		"NoRandom":     {HorizonDays: 1, EnsembleSize: 1},
	}
	for name, cfg := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := e.Run(context.Background(), start, nil, cfg); err == nil {
				t.Error("expected error")
			}
		})
	}
	if _, err := e.Run(context.Background(), nil, nil, Config{HorizonDays: 1, EnsembleSize: 1, Random: SeededSource{}}); err == nil {
		t.Error("expected error without starting state")
	}
}
