// Package tariff derives the current tariff flag.
//
// There is no data feed behind this package. The flag is a placeholder
// derived from the calendar month so the dashboard has something to show;
// it must not be read as real tariff information.
package tariff

import "time"

// Flag is a tariff surcharge level.
type Flag string

// Tariff flags, cheapest first.
const (
	Green  Flag = "green"
	Yellow Flag = "yellow"
	Red1   Flag = "red-1"
	Red2   Flag = "red-2"
)

// Severity orders flags from 0 (green) to 3 (red-2).
func (f Flag) Severity() int {
	switch f {
	case Yellow:
		return 1
	case Red1:
		return 2
	case Red2:
		return 3
	default:
		return 0
	}
}

// IsRed reports whether f is one of the red levels.
func (f Flag) IsRed() bool { return f == Red1 || f == Red2 }

// FlagFor returns the placeholder flag for the month containing now:
// Dec-Feb red-2, Mar-May red-1, Jun-Aug yellow, Sep-Nov green.
func FlagFor(now time.Time) Flag {
	switch now.Month() {
	case time.December, time.January, time.February:
		return Red2
	case time.March, time.April, time.May:
		return Red1
	case time.June, time.July, time.August:
		return Yellow
	default:
		return Green
	}
}

// Details is the display copy for a flag.
type Details struct {
	Flag           Flag
	Title          string
	Description    string
	AdditionalCost string
	Tips           []string
}

var baseTips = []string{
	"Avoid running high-draw appliances during peak hours (18h-21h)",
	"Switch equipment off instead of leaving it on standby",
	"Use natural light whenever possible",
}

const redTip = "Cut back on air conditioning and the electric shower"

// Info returns the display copy for f. Saving tips are only given for
// surcharged flags, and red flags add one more.
func Info(f Flag) Details {
	d := Details{Flag: f}
	switch f {
	case Yellow:
		d.Title = "Yellow Flag"
		d.Description = "Less favourable generation conditions. The tariff carries a surcharge."
		d.AdditionalCost = "R$ 2.99 per 100 kWh"
	case Red1:
		d.Title = "Red Flag - Level 1"
		d.Description = "Costlier generation conditions. Significant tariff surcharge."
		d.AdditionalCost = "R$ 6.50 per 100 kWh"
	case Red2:
		d.Title = "Red Flag - Level 2"
		d.Description = "Critical generation conditions. Highest tariff surcharge."
		d.AdditionalCost = "R$ 9.79 per 100 kWh"
	default:
		d.Flag = Green
		d.Title = "Green Flag"
		d.Description = "Favourable generation conditions. No tariff surcharge."
		d.AdditionalCost = "R$ 0.00"
		return d
	}

	d.Tips = append(d.Tips, baseTips...)
	if f.IsRed() {
		d.Tips = append(d.Tips, redTip)
	}
	return d
}
