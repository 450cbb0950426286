// Package stats reduces a simulated timeline to the decision-support metrics
// returned to callers.
package stats

import (
	"math"

	"burnsim/internal/simulation"

	"github.com/shopspring/decimal"
)

// Trend labels the direction of the projected score.
type Trend string

const (
	TrendImproving Trend = "Improving"
	TrendWorsening Trend = "Worsening"
	TrendFlat      Trend = "Flat"
)

// ImpactThreshold is the fraction of the baseline score the projection must
// fall below to count as impact.
const ImpactThreshold = 0.95

const flatEpsilon = 1e-9

// SummaryMetrics is the reduced view of a timeline.
type SummaryMetrics struct {
	BaselineScore float64 `json:"baseline_score"`
	FinalScore    float64 `json:"final_score"`
	DeltaPercent  float64 `json:"delta_percent"`
	// TimeToImpact is the first day whose score is below 95% of the
	// baseline; nil if that never happens.
	TimeToImpact      *int                     `json:"time_to_impact"`
	Volatility        float64                  `json:"volatility"`
	Trend             Trend                    `json:"trend"`
	PeakScore         float64                  `json:"peak_score"`
	PeakDay           int                      `json:"peak_day"`
	MedianScore       float64                  `json:"median_score"`
	FinalDistribution *simulation.Distribution `json:"final_distribution,omitempty"`
	EstimatedCost     *decimal.Decimal         `json:"estimated_cost,omitempty"`
}

// Summarize reduces timeline against its baseline score.
func Summarize(timeline simulation.Timeline) SummaryMetrics {
	base := timeline.BaselineScore
	scores := timeline.Scores()

	m := SummaryMetrics{
		BaselineScore: base,
		FinalScore:    base,
		Trend:         TrendFlat,
	}
	if len(scores) == 0 {
		return m
	}

	final := scores[len(scores)-1]
	m.FinalScore = final
	m.DeltaPercent = DeltaPercent(base, final)
	m.TimeToImpact = TimeToImpact(scores, base)
	m.Volatility = Volatility(base, scores)
	m.Trend = ClassifyTrend(base, final)
	m.MedianScore = CalculateMedianContinuous(scores)

	m.PeakScore = math.Inf(-1)
	for i, s := range scores {
		if s > m.PeakScore {
			m.PeakScore = s
			m.PeakDay = timeline.Samples[i].Day
		}
	}

	if last := timeline.Samples[len(timeline.Samples)-1]; last.Distribution != nil {
		d := *last.Distribution
		m.FinalDistribution = &d
	}
	return m
}

// DeltaPercent is (baseline-final)/baseline*100; positive means improvement.
// A zero baseline yields 0.
func DeltaPercent(baseline, final float64) float64 {
	if baseline == 0 {
		return 0
	}
	return (baseline - final) / baseline * 100
}

// TimeToImpact returns the 1-based day of the first score below
// ImpactThreshold*baseline.
func TimeToImpact(scores []float64, baseline float64) *int {
	limit := ImpactThreshold * baseline
	for i, s := range scores {
		if s < limit {
			day := i + 1
			return &day
		}
	}
	return nil
}

// Volatility is the standard deviation of day-over-day score changes, with
// the baseline as day 0.
func Volatility(baseline float64, scores []float64) float64 {
	series := make([]float64, 0, len(scores)+1)
	series = append(series, baseline)
	series = append(series, scores...)
	return CalculateStdDev(Diffs(series))
}

// ClassifyTrend labels the sign of baseline-final.
func ClassifyTrend(baseline, final float64) Trend {
	switch d := baseline - final; {
	case d > flatEpsilon:
		return TrendImproving
	case d < -flatEpsilon:
		return TrendWorsening
	default:
		return TrendFlat
	}
}
