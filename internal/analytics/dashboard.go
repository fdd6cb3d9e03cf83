package analytics

import (
	"github.com/theirongolddev/energipro/internal/model"
)

// Dashboard is everything the analytics view renders, derived in one pass.
type Dashboard struct {
	Tier     model.Tier
	Advanced bool
	Empty    bool

	Stats            Statistics
	Chart            []ChartPoint
	Tips             []string
	PersonalizedTips []string
}

// BuildDashboard derives the analytics view for the given state. advanced
// gates the forecast point and personalized tips; forecast figures are
// always present in Stats and the presentation layer decides whether to
// show them.
func BuildDashboard(bills []model.Bill, profile *model.Profile, tier model.Tier, advanced bool) Dashboard {
	d := Dashboard{
		Tier:     tier,
		Advanced: advanced,
		Tips:     Tips(profile),
	}

	stats, err := Compute(bills)
	if err != nil {
		d.Empty = true
		return d
	}

	d.Stats = stats
	d.Chart = Chart(bills, stats, advanced)
	d.PersonalizedTips = PersonalizedTips(stats, profile, advanced)
	return d
}
