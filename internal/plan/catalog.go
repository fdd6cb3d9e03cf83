package plan

import (
	"fmt"

	"github.com/theirongolddev/energipro/internal/model"
)

// Plan describes one subscription tier as shown on the plans screen.
// MonthlyPrice is in BRL.
type Plan struct {
	Tier         model.Tier
	Name         string
	MonthlyPrice float64
	Popular      bool
	Features     []string
	Limitations  []string
}

// Catalog lists the three plans in display order. The free plan's first
// feature line names p's effective quota.
func Catalog(p Policy) []Plan {
	return []Plan{
		{
			Tier:         model.TierFree,
			Name:         model.TierFree.Title(),
			MonthlyPrice: 0,
			Features: []string{
				quotaLine(p.quota()),
				"Basic consumption charts",
				"Household profile quiz",
				"Simple monthly analysis",
			},
			Limitations: []string{
				"No advanced forecasts",
				"No personalized tips",
				"No priority support",
			},
		},
		{
			Tier:         model.TierPro,
			Name:         model.TierPro.Title(),
			MonthlyPrice: 14.90,
			Popular:      true,
			Features: []string{
				"Unlimited bill uploads",
				"Advanced and comparative charts",
				"Detailed consumption forecasts",
				"Personalized saving tips",
				"Full history",
				"High consumption alerts",
			},
		},
		{
			Tier:         model.TierPremium,
			Name:         model.TierPremium.Title(),
			MonthlyPrice: 29.90,
			Features: []string{
				"Everything in Pro",
				"24/7 priority support",
				"Custom PDF reports",
				"IoT device integration",
				"Real-time monitoring",
				"Monthly energy consulting",
				"Developer API",
			},
		},
	}
}

// Lookup returns the catalog entry for tier.
func Lookup(p Policy, tier model.Tier) (Plan, bool) {
	for _, pl := range Catalog(p) {
		if pl.Tier == tier {
			return pl, true
		}
	}
	return Plan{}, false
}

func quotaLine(q int) string {
	if q == 1 {
		return "Up to 1 bill per month"
	}
	return fmt.Sprintf("Up to %d bills per month", q)
}
