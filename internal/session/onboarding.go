package session

import (
	"github.com/theirongolddev/energipro/internal/model"
)

// ValidateProfile checks onboarding answers.
func ValidateProfile(p model.Profile) error {
	for _, tag := range p.Appliances {
		if !model.IsAppliance(tag) {
			return invalid("appliances", "Unknown appliance: "+tag)
		}
	}
	if _, err := model.ParseHomeSize(string(p.HomeSize)); err != nil {
		return invalid("home_size", "Please choose your home size")
	}
	if p.Occupants < 1 {
		return invalid("occupants", "Please tell us how many people live with you")
	}
	return nil
}
