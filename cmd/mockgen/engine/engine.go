package engine

import (
	"fmt"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"burnsim/internal/forecast"
	"burnsim/internal/intervention"
	"burnsim/internal/records"
	"burnsim/internal/scenario"
	"burnsim/internal/wellness"
)

type GeneratorConfig struct {
	Scenario string // mild, strained, burnout or drift
	Members  int    // 0 generates a single individual history
	Days     int
	Scale    wellness.Scale
	Seed     uint64
	Now      time.Time
}

// profile is the mean state of a scenario and the spread around it, on the
// canonical scale.
type profile struct {
	mean   wellness.State
	spread wellness.State
}

var profiles = map[string]profile{
	"mild":     {mean: wellness.State{Stress: 3.5, Sleep: 7.5, Workload: 4.5, Coffee: 1.5}, spread: wellness.State{Stress: 1, Sleep: 0.6, Workload: 1, Coffee: 0.8}},
	"strained": {mean: wellness.State{Stress: 6, Sleep: 6.5, Workload: 7, Coffee: 2.5}, spread: wellness.State{Stress: 1.2, Sleep: 0.8, Workload: 1.2, Coffee: 1}},
	"burnout":  {mean: wellness.State{Stress: 8.5, Sleep: 5, Workload: 9, Coffee: 4.5}, spread: wellness.State{Stress: 0.8, Sleep: 0.9, Workload: 0.7, Coffee: 1.2}},
	"drift":    {mean: wellness.State{Stress: 4, Sleep: 7.5, Workload: 5, Coffee: 1.5}, spread: wellness.State{Stress: 1, Sleep: 0.6, Workload: 1, Coffee: 0.8}},
}

// Scenarios lists the accepted scenario names.
func Scenarios() []string {
	return []string{"mild", "strained", "burnout", "drift"}
}

// Generate produces one weekday check-in per member per day, the last one
// dated cfg.Now. The drift scenario slides from mild towards burnout.
func Generate(cfg GeneratorConfig) ([]wellness.HistoricalRecord, error) {
	p, ok := profiles[cfg.Scenario]
	if !ok {
		return nil, fmt.Errorf("unknown scenario %q (expected one of %v)", cfg.Scenario, Scenarios())
	}
	if cfg.Days <= 0 {
		return nil, fmt.Errorf("days must be positive, got %d", cfg.Days)
	}
	if cfg.Now.IsZero() {
		cfg.Now = time.Now()
	}

	rng := rand.New(rand.NewPCG(cfg.Seed, uint64(cfg.Members)))
	members := []string{""}
	if cfg.Members > 0 {
		members = make([]string, cfg.Members)
		for i := range members {
			members[i] = fmt.Sprintf("member-%03d", i+1)
		}
	}

	// Each member keeps a personal offset so team readings are not i.i.d.
	offsets := make([]wellness.State, len(members))
	for i := range offsets {
		offsets[i] = sample(rng, wellness.State{}, p.spread.Scale(0.5))
	}

	burnout := profiles["burnout"].mean
	start := cfg.Now.AddDate(0, 0, -(cfg.Days - 1))

	var out []wellness.HistoricalRecord
	for d := 0; d < cfg.Days; d++ {
		day := start.AddDate(0, 0, d)
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}

		mean := p.mean
		if cfg.Scenario == "drift" {
			ratio := float64(d) / float64(cfg.Days)
			mean = mean.Scale(1 - ratio).Add(burnout.Scale(ratio))
		}

		for i, id := range members {
			s := sample(rng, mean.Add(offsets[i]), p.spread).Clamp()
			s = cfg.Scale.FromCanonical(s)
			out = append(out, wellness.HistoricalRecord{
				MemberID:  id,
				Stress:    round1(s.Stress),
				Sleep:     round1(s.Sleep),
				Workload:  round1(s.Workload),
				Coffee:    math.Round(s.Coffee),
				Timestamp: day.Add(time.Duration(rng.IntN(90)) * time.Minute),
			})
		}
	}
	return out, nil
}

func sample(rng *rand.Rand, mean, spread wellness.State) wellness.State {
	return wellness.State{
		Stress:   mean.Stress + rng.NormFloat64()*spread.Stress,
		Sleep:    mean.Sleep + rng.NormFloat64()*spread.Sleep,
		Workload: mean.Workload + rng.NormFloat64()*spread.Workload,
		Coffee:   mean.Coffee + rng.NormFloat64()*spread.Coffee,
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Save writes the check-ins to <outDir>/<name>.jsonl and a starter scenario
// referencing them to <outDir>/<name>.yaml.
func Save(outDir, name string, cfg GeneratorConfig, recs []wellness.HistoricalRecord) error {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return err
	}

	jsonlName := name + ".jsonl"
	if err := records.Write(filepath.Join(outDir, jsonlName), recs); err != nil {
		return err
	}

	mode := forecast.ModeIndividual
	if cfg.Members > 0 {
		mode = forecast.ModePopulation
	}
	sc := &scenario.Scenario{
		Name:        fmt.Sprintf("%s baseline", cfg.Scenario),
		Description: "Generated by mockgen; edit the interventions to compare what-ifs.",
		RecordsPath: jsonlName,
		Request: forecast.Request{
			Mode:  mode,
			Scale: cfg.Scale,
			Interventions: []intervention.Spec{
				{Type: intervention.SleepHours, Value: 8, Adherence: 70},
				{Type: intervention.MovementSessions, Value: 3, Adherence: 60},
			},
		},
	}
	data, err := scenario.Marshal(sc)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(outDir, name+".yaml"), data, 0644)
}
