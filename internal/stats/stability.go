package stats

import (
	"fmt"
	"math"
	"sort"

	"burnsim/internal/scoring"
	"burnsim/internal/simulation"
	"burnsim/internal/wellness"
)

// XmRResult represents the output of a Process Behavior Chart analysis.
type XmRResult struct {
	Average     float64   `json:"average"`
	AmR         float64   `json:"average_moving_range"`
	UNPL        float64   `json:"upper_natural_process_limit"`
	LNPL        float64   `json:"lower_natural_process_limit"`
	Values      []float64 `json:"values"`
	MovingRange []float64 `json:"moving_ranges"`
	Signals     []Signal  `json:"signals"`
}

// Signal represents a detected special cause variation.
type Signal struct {
	Index       int    `json:"index"`
	Label       string `json:"label,omitempty"`
	Type        string `json:"type"` // "outlier", "shift"
	Description string `json:"description"`
}

// Chart status values.
const (
	StatusStable    = "stable"
	StatusMigrating = "migrating"
	StatusVolatile  = "volatile"
)

// CalculateXmR performs the math for an Individuals and Moving Range chart.
func CalculateXmR(values []float64) XmRResult {
	return CalculateXmRWithLabels(values, nil)
}

// CalculateXmRWithLabels is CalculateXmR with labels bound to signals.
func CalculateXmRWithLabels(values []float64, labels []string) XmRResult {
	if len(values) == 0 {
		return XmRResult{}
	}

	result := XmRResult{
		Values:  values,
		Average: CalculateMean(values),
	}

	if len(values) > 1 {
		result.MovingRange = make([]float64, len(values)-1)
		for i := 0; i < len(values)-1; i++ {
			result.MovingRange[i] = math.Abs(values[i+1] - values[i])
		}
		result.AmR = CalculateMean(result.MovingRange)
	}

	// Wheeler's scaling constant for Individuals is 2.66
	result.UNPL = result.Average + (2.66 * result.AmR)
	result.LNPL = math.Max(0, result.Average-(2.66*result.AmR))

	result.Signals = detectSignals(values, result.Average, result.UNPL, result.LNPL, labels)
	return result
}

// chartStatus is migrating when the chart shifted and volatile when it only
// has outliers.
func chartStatus(signals []Signal) string {
	status := StatusStable
	for _, s := range signals {
		switch s.Type {
		case "shift":
			return StatusMigrating
		case "outlier":
			status = StatusVolatile
		}
	}
	return status
}

// CheckInStability is a process behavior chart over the scores of a
// check-in history.
type CheckInStability struct {
	XmR    XmRResult `json:"xmr"`
	Status string    `json:"status"`
}

// AnalyzeCheckIns scores each check-in chronologically and charts the series.
// A migrating history means the recent baseline may not represent the
// person's usual state. Fewer than two records yield nil.
func AnalyzeCheckIns(records []wellness.HistoricalRecord, scale wellness.Scale, score scoring.Func) *CheckInStability {
	if len(records) < 2 || score == nil {
		return nil
	}

	sorted := make([]wellness.HistoricalRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	values := make([]float64, len(sorted))
	labels := make([]string, len(sorted))
	for i, r := range sorted {
		values[i] = score(scale.ToCanonical(r.State()).Clamp())
		labels[i] = r.Timestamp.Format("2006-01-02")
	}

	xmr := CalculateXmRWithLabels(values, labels)
	return &CheckInStability{XmR: xmr, Status: chartStatus(xmr.Signals)}
}

// SubgroupStats represents the metrics for a single batch of data (a week of
// the projection).
type SubgroupStats struct {
	Label   string    `json:"label"`
	Average float64   `json:"average"`
	Values  []float64 `json:"values"`
}

// ThreeWayResult represents a Three-Way Process Behavior Chart (System Evolution analysis).
type ThreeWayResult struct {
	Subgroups    []SubgroupStats `json:"subgroups"`
	AverageChart XmRResult       `json:"average_chart"` // XmR chart of the subgroup averages
	Status       string          `json:"status"`
}

// CalculateThreeWayXmR implements Wheeler's Three-Way Chart logic to detect process drift.
func CalculateThreeWayXmR(subgroups []SubgroupStats) ThreeWayResult {
	if len(subgroups) == 0 {
		return ThreeWayResult{}
	}

	averages := make([]float64, len(subgroups))
	labels := make([]string, len(subgroups))
	for i, sg := range subgroups {
		averages[i] = sg.Average
		labels[i] = sg.Label
	}

	avgChart := CalculateXmRWithLabels(averages, labels)
	return ThreeWayResult{
		Subgroups:    subgroups,
		AverageChart: avgChart,
		Status:       chartStatus(avgChart.Signals),
	}
}

// WeeklySubgroups splits a timeline into 7-day subgroups of scores. A
// trailing partial week is excluded so it cannot masquerade as a shift.
func WeeklySubgroups(samples []simulation.DailySample) []SubgroupStats {
	var out []SubgroupStats
	for start := 0; start+7 <= len(samples); start += 7 {
		values := make([]float64, 7)
		for i := range values {
			values[i] = samples[start+i].Score
		}
		out = append(out, SubgroupStats{
			Label:   fmt.Sprintf("W%02d", start/7+1),
			Average: CalculateMean(values),
			Values:  values,
		})
	}
	return out
}

// ProjectionEvolution is the three-way chart of a projection's weekly
// averages. A steadily improving or worsening projection reads as migrating.
func ProjectionEvolution(timeline simulation.Timeline) ThreeWayResult {
	return CalculateThreeWayXmR(WeeklySubgroups(timeline.Samples))
}

func detectSignals(values []float64, avg, unpl, lnpl float64, labels []string) []Signal {
	var signals []Signal

	label := func(i int) string {
		if i < len(labels) {
			return labels[i]
		}
		return ""
	}

	for i, v := range values {
		if v > unpl {
			signals = append(signals, Signal{
				Index:       i,
				Label:       label(i),
				Type:        "outlier",
				Description: "Point above Upper Natural Process Limit (UNPL)",
			})
		} else if v < lnpl {
			signals = append(signals, Signal{
				Index:       i,
				Label:       label(i),
				Type:        "outlier",
				Description: "Point below Lower Natural Process Limit (LNPL)",
			})
		}
	}

	if len(values) >= 8 {
		side := 0
		count := 0
		for i, v := range values {
			currentSide := 0
			if v > avg {
				currentSide = 1
			} else if v < avg {
				currentSide = -1
			}

			if currentSide == side && currentSide != 0 {
				count++
			} else {
				side = currentSide
				count = 1
			}

			if count == 8 {
				signals = append(signals, Signal{
					Index:       i,
					Label:       label(i),
					Type:        "shift",
					Description: "8 consecutive points on one side of the average (process shift)",
				})
			}
		}
	}

	return signals
}
