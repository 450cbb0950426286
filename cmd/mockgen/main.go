package main

import (
	"burnsim/cmd/mockgen/engine"
	"burnsim/internal/wellness"
	"flag"
	"fmt"
	"os"
	"time"
)

func main() {
	scenario := flag.String("scenario", "mild", "Scenario to generate: mild, strained, burnout, drift")
	members := flag.Int("members", 0, "Team size; 0 generates a single individual history")
	days := flag.Int("days", 60, "Days of history to generate (weekdays only are recorded)")
	scale := flag.String("scale", "ten", "Output scale: ten or hundred")
	seed := flag.Uint64("seed", uint64(time.Now().UnixNano()), "Random seed")
	outDir := flag.String("out", "./data", "Output directory for mock files")
	name := flag.String("name", "checkins", "Base name of the generated files")
	flag.Parse()

	sc, err := wellness.ParseScale(*scale)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	cfg := engine.GeneratorConfig{
		Scenario: *scenario,
		Members:  *members,
		Days:     *days,
		Scale:    sc,
		Seed:     *seed,
		Now:      time.Now(),
	}

	fmt.Printf("Generating scenario '%s' (Members: %d, Days: %d) to %s...\n", cfg.Scenario, cfg.Members, cfg.Days, *outDir)

	recs, err := engine.Generate(cfg)
	if err != nil {
		fmt.Printf("Failed to generate mock data: %v\n", err)
		os.Exit(1)
	}
	if err := engine.Save(*outDir, *name, cfg, recs); err != nil {
		fmt.Printf("Failed to save mock data: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Done. %d check-ins written.\n", len(recs))
}
