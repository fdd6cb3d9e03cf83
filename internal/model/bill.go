// Package model defines domain types for energipro bills and households.
package model

import (
	"fmt"
	"time"
)

// periodLayout is the YYYY-MM layout shared by bill periods.
const periodLayout = "2006-01"

// Period is a calendar year-month in YYYY-MM form. Lexicographic order of
// well-formed periods matches chronological order.
type Period string

// ParsePeriod validates s as YYYY-MM.
func ParsePeriod(s string) (Period, error) {
	if _, err := time.Parse(periodLayout, s); err != nil {
		return "", fmt.Errorf("period %q: want YYYY-MM", s)
	}
	return Period(s), nil
}

// PeriodOf returns the period containing t.
func PeriodOf(t time.Time) Period {
	return Period(t.Format(periodLayout))
}

// Time returns the first instant of the period in UTC, or the zero time if
// the period is malformed.
func (p Period) Time() time.Time {
	t, err := time.Parse(periodLayout, string(p))
	if err != nil {
		return time.Time{}
	}
	return t
}

// Label renders a short chart label, e.g. "Jan 24".
// Malformed periods are returned unchanged.
func (p Period) Label() string {
	t := p.Time()
	if t.IsZero() {
		return string(p)
	}
	return t.Format("Jan 06")
}

// Bill is one month's energy usage and cost entry. Bills are immutable once
// created; the only mutation is deletion.
type Bill struct {
	ID             string    `json:"id"`
	Period         Period    `json:"period"`
	ConsumptionKWh float64   `json:"consumption_kwh"`
	AmountDue      float64   `json:"amount_due"`
	ImageRef       string    `json:"image_ref,omitempty"` // opaque, never decoded
	CreatedAt      time.Time `json:"created_at"`
}

// Identity is the local session identity captured at authentication.
type Identity struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}
