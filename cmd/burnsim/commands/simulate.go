package commands

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"burnsim/internal/forecast"
	"burnsim/internal/intervention"
	"burnsim/internal/records"
	"burnsim/internal/scenario"
	"burnsim/internal/simulation"
	"burnsim/internal/wellness"

	"github.com/spf13/cobra"
)

type simulateOptions struct {
	recordsPath   string
	scenarioPath  string
	mode          string
	scale         string
	horizon       int
	ensemble      int
	seed          int64
	interventions []string
	format        string
	output        string
}

func newSimulateCmd() *cobra.Command {
	opts := &simulateOptions{}

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run one trajectory simulation and print the result",
		Example: `  burnsim simulate --records me.jsonl -i sleep_hours=8@80 -i movement_sessions=3
  burnsim simulate --scenario four-day-week.yaml --seed 42 --format text`,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := opts.request(cmd)
			if err != nil {
				return err
			}

			res, err := forecaster.Simulate(cmd.Context(), req)
			if err != nil {
				return err
			}

			var render func(io.Writer) error
			switch opts.format {
			case "json":
				render = func(w io.Writer) error {
					enc := json.NewEncoder(w)
					enc.SetIndent("", "  ")
					return enc.Encode(res)
				}
			case "text":
				render = func(w io.Writer) error { return writeText(w, res) }
			default:
				return fmt.Errorf("unknown format %q (expected json or text)", opts.format)
			}

			if opts.output == "" {
				return render(cmd.OutOrStdout())
			}
			return writeFile(opts.output, render)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.recordsPath, "records", "", "JSONL check-in history")
	f.StringVar(&opts.scenarioPath, "scenario", "", "YAML scenario file")
	f.StringVar(&opts.mode, "mode", "", "individual or population (overrides the scenario)")
	f.StringVar(&opts.scale, "scale", "", "ten or hundred (overrides the scenario)")
	f.IntVar(&opts.horizon, "horizon", 0, "days to simulate")
	f.IntVar(&opts.ensemble, "ensemble", 0, "number of trajectories")
	f.Int64Var(&opts.seed, "seed", 0, "random seed for a reproducible run")
	f.StringArrayVarP(&opts.interventions, "intervention", "i", nil, "intervention as type=value[@adherence], repeatable")
	f.StringVar(&opts.format, "format", "json", "json or text")
	f.StringVarP(&opts.output, "output", "o", "", "write the result to a file instead of stdout")
	return cmd
}

// request merges the scenario file with command-line flags; flags win.
func (o *simulateOptions) request(cmd *cobra.Command) (forecast.Request, error) {
	req := forecast.Request{Mode: forecast.ModeIndividual}
	if o.scenarioPath != "" {
		sc, err := scenario.Load(o.scenarioPath)
		if err != nil {
			return req, err
		}
		if req, err = sc.Resolve(); err != nil {
			return req, err
		}
	}

	if o.recordsPath != "" {
		recs, err := records.Read(o.recordsPath)
		if err != nil {
			return req, err
		}
		req.Records = append(req.Records, recs...)
	}

	flags := cmd.Flags()
	if flags.Changed("mode") {
		req.Mode = forecast.Mode(o.mode)
	}
	if flags.Changed("scale") {
		req.Scale = wellness.Scale(o.scale)
	}
	if flags.Changed("horizon") {
		req.HorizonDays = o.horizon
	}
	if flags.Changed("ensemble") {
		req.EnsembleSize = o.ensemble
	}
	if flags.Changed("seed") {
		seed := o.seed
		req.Seed = &seed
	}
	for _, raw := range o.interventions {
		spec, err := parseIntervention(raw)
		if err != nil {
			return req, err
		}
		req.Interventions = append(req.Interventions, spec)
	}
	return req, nil
}

// parseIntervention reads "type=value" or "type=value@adherence". Adherence
// defaults to 100.
func parseIntervention(raw string) (intervention.Spec, error) {
	kind, rest, ok := strings.Cut(raw, "=")
	if !ok || kind == "" {
		return intervention.Spec{}, fmt.Errorf("intervention %q: expected type=value[@adherence]", raw)
	}
	valueStr, adherenceStr, hasAdherence := strings.Cut(rest, "@")

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return intervention.Spec{}, fmt.Errorf("intervention %q: invalid value: %w", raw, err)
	}
	adherence := 100.0
	if hasAdherence {
		if adherence, err = strconv.ParseFloat(adherenceStr, 64); err != nil {
			return intervention.Spec{}, fmt.Errorf("intervention %q: invalid adherence: %w", raw, err)
		}
	}
	return intervention.Spec{Type: intervention.Kind(kind), Value: value, Adherence: adherence}, nil
}

// writeFile renders into path. Render, flush and close errors are all
// returned; a partial file is removed.
func writeFile(path string, render func(io.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}

	writer := bufio.NewWriter(file)
	if err := render(writer); err != nil {
		file.Close()
		os.Remove(path)
		return err
	}
	if err := writer.Flush(); err != nil {
		file.Close()
		os.Remove(path)
		return fmt.Errorf("flush output: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("close output: %w", err)
	}
	return nil
}

func writeText(out io.Writer, res *forecast.Result) error {
	m := res.Metrics
	fmt.Fprintf(out, "run %s (seed %d, %s mode, %d trajectories)\n", res.RunID, res.Seed, res.Mode, res.EnsembleSize)
	fmt.Fprintf(out, "baseline %.1f  final %.1f  delta %+.1f%%  trend %s\n", m.BaselineScore, m.FinalScore, m.DeltaPercent, m.Trend)
	if m.TimeToImpact != nil {
		fmt.Fprintf(out, "time to impact: day %d\n", *m.TimeToImpact)
	} else {
		fmt.Fprintln(out, "time to impact: not reached")
	}
	fmt.Fprintf(out, "peak %.1f on day %d  volatility %.2f\n", m.PeakScore, m.PeakDay, m.Volatility)
	if m.EstimatedCost != nil {
		if res.CostPopulationAssumed {
			fmt.Fprintf(out, "estimated cost %s (one person assumed; set population_size)\n", m.EstimatedCost.StringFixed(2))
		} else {
			fmt.Fprintf(out, "estimated cost %s for %d people\n", m.EstimatedCost.StringFixed(2), res.CostPopulation)
		}
	}
	fmt.Fprintln(out)

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "DAY\tSTRESS\tSLEEP\tWORKLOAD\tCOFFEE\tSCORE\tBUCKET\t")
	for i, d := range res.Timeline {
		if d.Day%7 != 0 && i != len(res.Timeline)-1 {
			continue
		}
		fmt.Fprintf(w, "%d\t%.2f\t%.2f\t%.2f\t%.2f\t%.1f\t%s\t\n",
			d.Day, d.State.Stress, d.State.Sleep, d.State.Workload, d.State.Coffee, d.Score, simulation.Classify(d.Score))
	}
	return w.Flush()
}
