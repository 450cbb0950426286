package engine

import (
	"path/filepath"
	"testing"
	"time"

	"burnsim/internal/forecast"
	"burnsim/internal/scenario"
	"burnsim/internal/wellness"
)

var now = time.Date(2026, 6, 12, 9, 0, 0, 0, time.UTC) // a Friday

func TestGenerate_Individual(t *testing.T) {
	recs, err := Generate(GeneratorConfig{Scenario: "strained", Days: 14, Scale: wellness.ScaleTen, Seed: 1, Now: now})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(recs) != 10 {
		t.Fatalf("records = %d, want 10 weekdays", len(recs))
	}
	for _, r := range recs {
		if r.MemberID != "" {
			t.Errorf("individual history should be anonymous, got %q", r.MemberID)
		}
		if !r.State().InBounds() {
			t.Errorf("reading out of bounds: %+v", r)
		}
		if wd := r.Timestamp.Weekday(); wd == time.Saturday || wd == time.Sunday {
			t.Errorf("weekend check-in on %v", r.Timestamp)
		}
	}
}

func TestGenerate_TeamHundredScale(t *testing.T) {
	recs, err := Generate(GeneratorConfig{Scenario: "burnout", Members: 4, Days: 7, Scale: wellness.ScaleHundred, Seed: 2, Now: now})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(recs) != 4*5 {
		t.Fatalf("records = %d, want 20", len(recs))
	}
	high := 0
	for _, r := range recs {
		if r.Stress > 10 {
			high++
		}
		if r.Stress > 100 || r.Workload > 100 {
			t.Errorf("reading beyond the hundred scale: %+v", r)
		}
	}
	if high == 0 {
		t.Error("burnout readings should be on the hundred scale")
	}
}

func TestGenerate_DriftWorsens(t *testing.T) {
	recs, err := Generate(GeneratorConfig{Scenario: "drift", Members: 10, Days: 56, Scale: wellness.ScaleTen, Seed: 3, Now: now})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	first := wellness.Mean(states(recs[:50]))
	last := wellness.Mean(states(recs[len(recs)-50:]))
	if last.Stress <= first.Stress || last.Sleep >= first.Sleep {
		t.Errorf("drift should worsen: first %+v, last %+v", first, last)
	}
}

func TestGenerate_Errors(t *testing.T) {
	if _, err := Generate(GeneratorConfig{Scenario: "panic", Days: 5}); err == nil {
		t.Error("expected an error for an unknown scenario")
	}
	if _, err := Generate(GeneratorConfig{Scenario: "mild"}); err == nil {
		t.Error("expected an error for zero days")
	}
}

func TestSave_WritesLoadableScenario(t *testing.T) {
	dir := t.TempDir()
	cfg := GeneratorConfig{Scenario: "mild", Members: 3, Days: 10, Scale: wellness.ScaleHundred, Seed: 4, Now: now}
	recs, err := Generate(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if err := Save(dir, "team", cfg, recs); err != nil {
		t.Fatalf("Save: %v", err)
	}

	sc, err := scenario.Load(filepath.Join(dir, "team.yaml"))
	if err != nil {
		t.Fatalf("scenario.Load: %v", err)
	}
	req, err := sc.Resolve()
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if req.Mode != forecast.ModePopulation || req.Scale != wellness.ScaleHundred {
		t.Errorf("mode/scale = %s/%s", req.Mode, req.Scale)
	}
	if len(req.Records) != len(recs) {
		t.Errorf("records = %d, want %d", len(req.Records), len(recs))
	}
}

func states(recs []wellness.HistoricalRecord) []wellness.State {
	out := make([]wellness.State, len(recs))
	for i, r := range recs {
		out[i] = r.State()
	}
	return out
}
