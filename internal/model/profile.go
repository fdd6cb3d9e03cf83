package model

import (
	"fmt"
	"slices"
)

// HomeSize is the household size category chosen during onboarding.
type HomeSize string

// Home size categories.
const (
	HomeSmall  HomeSize = "small"
	HomeMedium HomeSize = "medium"
	HomeLarge  HomeSize = "large"
	HomeXLarge HomeSize = "xlarge"
)

// HomeSizes lists every category in display order.
var HomeSizes = []HomeSize{HomeSmall, HomeMedium, HomeLarge, HomeXLarge}

// Label returns a human-readable description of the size category.
func (h HomeSize) Label() string {
	switch h {
	case HomeSmall:
		return "Small (up to 70m²)"
	case HomeMedium:
		return "Medium (70-150m²)"
	case HomeLarge:
		return "Large (150-300m²)"
	case HomeXLarge:
		return "Extra large (300m²+)"
	default:
		return string(h)
	}
}

// ParseHomeSize validates a size category.
func ParseHomeSize(s string) (HomeSize, error) {
	h := HomeSize(s)
	if !slices.Contains(HomeSizes, h) {
		return "", fmt.Errorf("unknown home size %q", s)
	}
	return h, nil
}

// Appliance tags recognised by the onboarding quiz.
const (
	ApplianceAC         = "ac"
	ApplianceHeater     = "heater"
	ApplianceFridge     = "fridge"
	ApplianceWasher     = "washer"
	ApplianceDryer      = "dryer"
	ApplianceDishwasher = "dishwasher"
	ApplianceOven       = "oven"
	ApplianceMicrowave  = "microwave"
	ApplianceTV         = "tv"
	ApplianceComputer   = "computer"
	ApplianceShower     = "shower"
	AppliancePool       = "pool"
)

// Appliance pairs a tag with its display label.
type Appliance struct {
	Tag   string
	Label string
}

// Appliances lists the quiz options in display order.
var Appliances = []Appliance{
	{ApplianceAC, "Air conditioner"},
	{ApplianceHeater, "Electric heater"},
	{ApplianceFridge, "Refrigerator"},
	{ApplianceWasher, "Washing machine"},
	{ApplianceDryer, "Dryer"},
	{ApplianceDishwasher, "Dishwasher"},
	{ApplianceOven, "Electric oven"},
	{ApplianceMicrowave, "Microwave"},
	{ApplianceTV, "TV"},
	{ApplianceComputer, "Computer"},
	{ApplianceShower, "Electric shower"},
	{AppliancePool, "Pool pump"},
}

// MaxOccupantsOption is the largest occupant count offered by the quiz
// ("5+" is stored as 5).
const MaxOccupantsOption = 5

// Profile holds the household survey answers from onboarding.
type Profile struct {
	Completed  bool     `json:"completed"`
	Appliances []string `json:"appliances"`
	HomeSize   HomeSize `json:"home_size"`
	Occupants  int      `json:"occupants"`
}

// HasAppliance reports whether tag was selected.
func (p *Profile) HasAppliance(tag string) bool {
	if p == nil {
		return false
	}
	return slices.Contains(p.Appliances, tag)
}

// IsAppliance reports whether tag is one of the recognised appliance tags.
func IsAppliance(tag string) bool {
	return slices.ContainsFunc(Appliances, func(a Appliance) bool { return a.Tag == tag })
}
