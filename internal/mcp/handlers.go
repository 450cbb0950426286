package mcp

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"burnsim/internal/forecast"
	"burnsim/internal/records"
	"burnsim/internal/simulation"
	"burnsim/internal/stats"
	"burnsim/internal/wellness"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
)

// handleSimulate implements simulate_burnout_trajectory.
func (s *Server) handleSimulate(ctx context.Context, req *sdk.CallToolRequest, args SimulateInput) (*sdk.CallToolResult, SimulateOutput, error) {
	request, err := s.buildRequest(args)
	if err != nil {
		return nil, SimulateOutput{}, err
	}

	res, err := s.forecaster.Simulate(ctx, request)
	if err != nil {
		log.Warn().Err(err).Str("tool", toolSimulate).Msg("Simulation rejected")
		return nil, SimulateOutput{}, err
	}

	out := toOutput(res, args.SummaryOnly)
	out.Insights = insights(res)
	return nil, out, nil
}

// handleListInterventions implements list_interventions.
func (s *Server) handleListInterventions(ctx context.Context, req *sdk.CallToolRequest, args ListInterventionsInput) (*sdk.CallToolResult, ListInterventionsOutput, error) {
	var out ListInterventionsOutput
	for _, e := range s.forecaster.Registry().Entries() {
		if args.Category != "" && string(e.Category) != args.Category {
			continue
		}
		out.Interventions = append(out.Interventions, InterventionInfo{
			Type:        string(e.Kind),
			Category:    string(e.Category),
			Unit:        e.Unit,
			Description: e.Description,
			Min:         e.Min,
			Max:         e.Max,
			Ramped:      e.Ramped,
		})
	}
	if out.Interventions == nil {
		out.Interventions = []InterventionInfo{}
	}
	out.Count = len(out.Interventions)
	return nil, out, nil
}

func (s *Server) buildRequest(args SimulateInput) (forecast.Request, error) {
	req := forecast.Request{
		Mode:            forecast.Mode(args.Mode),
		Scale:           wellness.Scale(args.Scale),
		Baseline:        args.Baseline,
		Interventions:   args.Interventions,
		HorizonDays:     args.HorizonDays,
		EnsembleSize:    args.EnsembleSize,
		NoiseMagnitude:  args.NoiseMagnitude,
		Cyclical:        args.Cyclical,
		SmoothingFactor: args.SmoothingFactor,
		HourlyRate:      args.HourlyRate,
		PopulationSize:  args.PopulationSize,
		Seed:            args.Seed,
	}

	for i, r := range args.Records {
		ts, err := time.Parse(time.RFC3339, r.Timestamp)
		if err != nil {
			return req, fmt.Errorf("records[%d].timestamp: expected RFC3339, got %q", i, r.Timestamp)
		}
		req.Records = append(req.Records, wellness.HistoricalRecord{
			MemberID:  r.MemberID,
			Stress:    r.Stress,
			Sleep:     r.Sleep,
			Workload:  r.Workload,
			Coffee:    r.Coffee,
			Timestamp: ts,
		})
	}

	if args.RecordsFile != "" {
		path, err := s.resolveDataFile(args.RecordsFile)
		if err != nil {
			return req, err
		}
		recs, err := records.Read(path)
		if err != nil {
			return req, err
		}
		req.Records = append(req.Records, recs...)
	}
	return req, nil
}

// resolveDataFile keeps records_file lookups inside the data directory.
func (s *Server) resolveDataFile(name string) (string, error) {
	if s.dataPath == "" {
		return "", fmt.Errorf("records_file is not available: no data directory configured")
	}
	clean := filepath.Clean(name)
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("records_file must be relative to the data directory, got %q", name)
	}
	return filepath.Join(s.dataPath, clean), nil
}

func toOutput(res *forecast.Result, summaryOnly bool) SimulateOutput {
	out := SimulateOutput{
		RunID:             res.RunID,
		Seed:              res.Seed,
		Mode:              string(res.Mode),
		Scale:             string(res.Scale),
		Baseline:          res.Baseline,
		BaselineDefaulted: res.BaselineDefaulted,
		Members:           res.Members,
		CostPopulation:    res.CostPopulation,
		HorizonDays:       res.HorizonDays,
		EnsembleSize:      res.EnsembleSize,
		Metrics:           toMetrics(res.Metrics),
		ProjectionStatus:  res.Evolution.Status,
		GeneratedAt:       res.GeneratedAt.Format(time.RFC3339),
	}

	if res.CheckIns != nil {
		out.HistoryStatus = res.CheckIns.Status
	}

	out.Timeline = make([]DayOutput, 0, len(res.Timeline))
	for i, d := range res.Timeline {
		last := i == len(res.Timeline)-1
		if summaryOnly && d.Day%7 != 0 && !last {
			continue
		}
		out.Timeline = append(out.Timeline, DayOutput{
			Day:          d.Day,
			State:        d.State,
			Score:        d.Score,
			RawScore:     d.RawScore,
			RiskBucket:   simulation.Classify(d.Score).String(),
			Distribution: toDistribution(d.Distribution),
		})
	}
	return out
}

func toMetrics(m stats.SummaryMetrics) MetricsOutput {
	out := MetricsOutput{
		BaselineScore:     m.BaselineScore,
		FinalScore:        m.FinalScore,
		DeltaPercent:      m.DeltaPercent,
		TimeToImpact:      m.TimeToImpact,
		Volatility:        m.Volatility,
		Trend:             string(m.Trend),
		PeakScore:         m.PeakScore,
		PeakDay:           m.PeakDay,
		MedianScore:       m.MedianScore,
		FinalDistribution: toDistribution(m.FinalDistribution),
	}
	if m.EstimatedCost != nil {
		out.EstimatedCost = m.EstimatedCost.StringFixed(2)
	}
	return out
}

func toDistribution(d *simulation.Distribution) *DistributionOutput {
	if d == nil {
		return nil
	}
	return &DistributionOutput{Low: d.Low, Moderate: d.Moderate, High: d.High, Critical: d.Critical}
}

// insights turns the metrics into short statements for the assistant.
func insights(res *forecast.Result) []string {
	m := res.Metrics
	var out []string

	switch m.Trend {
	case stats.TrendImproving:
		out = append(out, fmt.Sprintf("Risk is projected to fall %.1f%% from %.1f to %.1f over %d days.", m.DeltaPercent, m.BaselineScore, m.FinalScore, res.HorizonDays))
	case stats.TrendWorsening:
		out = append(out, fmt.Sprintf("Risk is projected to rise %.1f%% from %.1f to %.1f over %d days.", -m.DeltaPercent, m.BaselineScore, m.FinalScore, res.HorizonDays))
	default:
		out = append(out, fmt.Sprintf("Risk is projected to stay at %.1f.", m.FinalScore))
	}

	if m.TimeToImpact != nil {
		out = append(out, fmt.Sprintf("The score first drops below 95%% of the baseline on day %d.", *m.TimeToImpact))
	} else if m.Trend != stats.TrendWorsening {
		out = append(out, "The score never drops below 95% of the baseline within the horizon.")
	}

	if m.PeakDay > 0 && m.PeakScore > m.BaselineScore {
		out = append(out, fmt.Sprintf("Peak risk %.1f (%s) on day %d.", m.PeakScore, simulation.Classify(m.PeakScore), m.PeakDay))
	}
	if m.Volatility > 5 {
		out = append(out, fmt.Sprintf("High day-to-day volatility (%.1f points); treat single-day values with caution.", m.Volatility))
	}
	if res.CheckIns != nil && res.CheckIns.Status == stats.StatusMigrating {
		out = append(out, "WARNING: the check-in history shifted recently; the baseline reflects the latest level, not the long-run one.")
	}
	if res.BaselineDefaulted {
		out = append(out, "WARNING: no population readings were supplied; the default team baseline was used.")
	}
	if d := m.FinalDistribution; d != nil && d.Total() > 0 {
		atRisk := float64(d.High+d.Critical) / float64(d.Total()) * 100
		out = append(out, fmt.Sprintf("%.0f%% of simulated trajectories end in the high or critical bucket.", atRisk))
	}
	if res.CostPopulationAssumed {
		out = append(out, "WARNING: population_size was not given and no member readings were supplied; the cost estimate prices a single person.")
	}
	if m.EstimatedCost != nil && !m.EstimatedCost.IsZero() {
		out = append(out, fmt.Sprintf("Estimated cost of lost working time: %s.", m.EstimatedCost.StringFixed(2)))
	}
	return out
}
