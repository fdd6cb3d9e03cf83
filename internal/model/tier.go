package model

import (
	"errors"
	"fmt"
	"strings"
)

// Tier is the subscription level controlling quota and feature access.
type Tier string

// Subscription tiers.
const (
	TierFree    Tier = "free"
	TierPro     Tier = "pro"
	TierPremium Tier = "premium"
)

// Tiers lists every tier in ascending order.
var Tiers = []Tier{TierFree, TierPro, TierPremium}

// ErrUnknownTier is returned by ParseTier for unrecognised names.
var ErrUnknownTier = errors.New("unknown tier")

// ParseTier parses a tier name case-insensitively.
func ParseTier(s string) (Tier, error) {
	switch Tier(strings.ToLower(strings.TrimSpace(s))) {
	case TierFree:
		return TierFree, nil
	case TierPro:
		return TierPro, nil
	case TierPremium:
		return TierPremium, nil
	}
	return "", fmt.Errorf("%w %q (want free, pro or premium)", ErrUnknownTier, s)
}

// Title returns the capitalised tier name.
func (t Tier) Title() string {
	if t == "" {
		return ""
	}
	return strings.ToUpper(string(t[:1])) + string(t[1:])
}
