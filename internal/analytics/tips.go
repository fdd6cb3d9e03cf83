package analytics

import "github.com/theirongolddev/energipro/internal/model"

// Thresholds for personalized tips, in kWh per period.
const (
	HighConsumptionKWh = 400
	HighPerOccupantKWh = 150
)

type applianceTip struct {
	tag  string
	text string
}

// applianceTips is checked in order; the output keeps this order.
var applianceTips = []applianceTip{
	{model.ApplianceAC, "Air conditioner: keep it between 23-24°C and clean the filters monthly"},
	{model.ApplianceShower, "Electric shower: cutting 2-3 minutes per shower saves up to 20%"},
	{model.ApplianceFridge, "Refrigerator: keep the door seal in good shape and avoid opening it needlessly"},
	{model.ApplianceWasher, "Washing machine: run full loads and prefer cold water"},
}

var genericTips = []string{
	"Unplug appliances when you are not using them",
	"Switch to LED bulbs to save up to 80% on lighting",
}

// Tips returns advisory strings for the appliances in profile. When none of
// the recognised appliances were selected (or profile is nil) the two
// generic tips are returned instead.
func Tips(profile *model.Profile) []string {
	var tips []string
	for _, at := range applianceTips {
		if profile.HasAppliance(at.tag) {
			tips = append(tips, at.text)
		}
	}
	if len(tips) == 0 {
		tips = append(tips, genericTips...)
	}
	return tips
}

// PersonalizedTips returns history-driven tips. It returns nil unless
// advanced features are enabled for the caller's tier.
func PersonalizedTips(stats Statistics, profile *model.Profile, advanced bool) []string {
	if !advanced {
		return nil
	}

	var tips []string
	if stats.TrendConsumption == TrendUp {
		tips = append(tips, "Your consumption is rising. Review how you use high-draw appliances.")
	}
	if stats.AvgConsumption > HighConsumptionKWh {
		tips = append(tips, "Your consumption is above average. Consider more efficient appliances.")
	}
	if profile != nil && profile.Occupants > 0 &&
		stats.AvgConsumption/float64(profile.Occupants) > HighPerOccupantKWh {
		tips = append(tips, "Per-person consumption is high. Encourage everyone at home to save energy.")
	}
	return tips
}
