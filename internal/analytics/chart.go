package analytics

import "github.com/theirongolddev/energipro/internal/model"

// ForecastLabel labels the appended forecast point.
const ForecastLabel = "Forecast"

// ChartPoint is one bar/point of the consumption and amount series.
type ChartPoint struct {
	Label       string
	Consumption float64
	Amount      float64
	Forecast    bool
}

// Chart returns the bill history in chronological order. When advanced is
// true a forecast point is appended after the history.
func Chart(bills []model.Bill, stats Statistics, advanced bool) []ChartPoint {
	sorted := SortByPeriod(bills)
	points := make([]ChartPoint, 0, len(sorted)+1)
	for _, b := range sorted {
		points = append(points, ChartPoint{
			Label:       b.Period.Label(),
			Consumption: b.ConsumptionKWh,
			Amount:      b.AmountDue,
		})
	}
	if advanced && len(sorted) > 0 {
		points = append(points, ChartPoint{
			Label:       ForecastLabel,
			Consumption: stats.ForecastConsumption,
			Amount:      stats.ForecastAmount,
			Forecast:    true,
		})
	}
	return points
}
