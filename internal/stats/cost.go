package stats

import (
	"burnsim/internal/intervention"

	"github.com/shopspring/decimal"
)

var decimalSeven = decimal.NewFromInt(7)

// CostInput describes a population-mode cost estimate.
type CostInput struct {
	Interventions  []intervention.Spec
	HorizonDays    int
	HourlyRate     decimal.Decimal
	PopulationSize int
}

// EstimateCost sums hoursLostPerWeek(type, intensity) * weeks * hourlyRate *
// populationSize over the interventions, rounded to cents.
func EstimateCost(registry *intervention.Registry, in CostInput) decimal.Decimal {
	if in.PopulationSize <= 0 || in.HorizonDays <= 0 {
		return decimal.Zero
	}

	weeks := decimal.NewFromInt(int64(in.HorizonDays)).Div(decimalSeven)
	people := decimal.NewFromInt(int64(in.PopulationSize))

	total := decimal.Zero
	for _, spec := range in.Interventions {
		hours := decimal.NewFromFloat(registry.HoursLost(spec))
		total = total.Add(hours.Mul(weeks).Mul(in.HourlyRate).Mul(people))
	}
	return total.Round(2)
}
