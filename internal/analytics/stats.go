// Package analytics derives bill statistics, forecasts and advisory tips.
// Every function here is pure: results are recomputed from the current
// bills on each call and nothing is cached.
package analytics

import (
	"errors"
	"sort"

	"github.com/theirongolddev/energipro/internal/model"
)

// ForecastUplift is the flat growth factor applied to averages to estimate
// the next period. There is no seasonality or regression behind it.
const ForecastUplift = 1.05

// ErrInsufficientData is returned when statistics are requested over an
// empty bill collection.
var ErrInsufficientData = errors.New("analytics: no bills to analyze")

// Trend is a two-point direction derived from the first and last bills.
type Trend string

// Trend directions. Ties resolve to TrendDown.
const (
	TrendUp   Trend = "up"
	TrendDown Trend = "down"
)

// Statistics holds aggregate, trend and forecast figures for a bill set.
type Statistics struct {
	Bills int

	AvgConsumption float64
	AvgAmount      float64

	TrendConsumption Trend
	TrendAmount      Trend

	ForecastConsumption float64
	ForecastAmount      float64
}

// Compute derives Statistics from bills.
//
// Averages run over every bill regardless of order. Trends compare only the
// chronologically last bill against the first after sorting by period; this
// is a two-point comparison, not a regression, so a dip in the middle of the
// history never changes the result.
func Compute(bills []model.Bill) (Statistics, error) {
	if len(bills) == 0 {
		return Statistics{}, ErrInsufficientData
	}

	var totalKWh, totalAmount float64
	for _, b := range bills {
		totalKWh += b.ConsumptionKWh
		totalAmount += b.AmountDue
	}

	n := float64(len(bills))
	stats := Statistics{
		Bills:          len(bills),
		AvgConsumption: totalKWh / n,
		AvgAmount:      totalAmount / n,
	}

	sorted := SortByPeriod(bills)
	first, last := sorted[0], sorted[len(sorted)-1]
	stats.TrendConsumption = trendOf(first.ConsumptionKWh, last.ConsumptionKWh)
	stats.TrendAmount = trendOf(first.AmountDue, last.AmountDue)

	stats.ForecastConsumption = stats.AvgConsumption * ForecastUplift
	stats.ForecastAmount = stats.AvgAmount * ForecastUplift

	return stats, nil
}

func trendOf(first, last float64) Trend {
	if last > first {
		return TrendUp
	}
	return TrendDown
}

// SortByPeriod returns a copy of bills ordered by period ascending.
// Bills sharing a period keep their insertion order.
func SortByPeriod(bills []model.Bill) []model.Bill {
	sorted := make([]model.Bill, len(bills))
	copy(sorted, bills)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Period < sorted[j].Period
	})
	return sorted
}
