// Package plan implements subscription-tier policy: upload quotas, feature
// gating, the plan catalog and the checkout redirect for paid tiers.
package plan

import (
	"time"

	"github.com/theirongolddev/energipro/internal/model"
)

// DefaultFreeMonthlyQuota is the number of bills a free-tier household may
// add per calendar month. Earlier releases allowed 3; the pricing page has
// always advertised 2, which is what we enforce. Override through config.
const DefaultFreeMonthlyQuota = 2

// Unlimited is returned by Remaining for tiers without an upload quota.
const Unlimited = -1

// Policy holds the tunable limits of the plan rules.
type Policy struct {
	FreeMonthlyQuota int
}

// DefaultPolicy returns the policy with the built-in quota.
func DefaultPolicy() Policy {
	return Policy{FreeMonthlyQuota: DefaultFreeMonthlyQuota}
}

func (p Policy) quota() int {
	if p.FreeMonthlyQuota < 0 {
		return 0
	}
	return p.FreeMonthlyQuota
}

// UploadsThisMonth counts bills created in the same calendar month and year
// as now, evaluated in now's location.
func UploadsThisMonth(bills []model.Bill, now time.Time) int {
	y, m, _ := now.Date()
	n := 0
	for _, b := range bills {
		by, bm, _ := b.CreatedAt.In(now.Location()).Date()
		if by == y && bm == m {
			n++
		}
	}
	return n
}

// CanUploadBill reports whether tier may add another bill at now.
// Paid tiers are never limited; the free tier is limited per calendar month
// and the count resets when now crosses into a new month.
func (p Policy) CanUploadBill(tier model.Tier, bills []model.Bill, now time.Time) bool {
	if HasAdvancedFeatures(tier) {
		return true
	}
	return UploadsThisMonth(bills, now) < p.quota()
}

// Remaining returns how many more bills tier may add this month, or
// Unlimited for paid tiers.
func (p Policy) Remaining(tier model.Tier, bills []model.Bill, now time.Time) int {
	if HasAdvancedFeatures(tier) {
		return Unlimited
	}
	left := p.quota() - UploadsThisMonth(bills, now)
	if left < 0 {
		return 0
	}
	return left
}

// HasAdvancedFeatures gates forecasts, personalized tips and the chart's
// forecast point. It is derived from the tier on every call.
func HasAdvancedFeatures(tier model.Tier) bool {
	switch tier {
	case model.TierPro, model.TierPremium:
		return true
	default:
		return false
	}
}
