package components

import (
	"fmt"

	"github.com/theirongolddev/energipro/internal/tui/theme"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// ColorForPct returns green/yellow/orange/red based on utilization level.
func ColorForPct(pct float64) string {
	t := theme.Active
	switch {
	case pct >= 0.9:
		return string(t.Red)
	case pct >= 0.7:
		return string(t.Orange)
	case pct >= 0.5:
		return string(t.Yellow)
	default:
		return string(t.Green)
	}
}

// QuotaBar renders the monthly upload allowance as "label [bar] used/quota".
// A negative quota means unlimited and renders without a bar.
func QuotaBar(label string, used, quota, barWidth int) string {
	t := theme.Active

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	if quota < 0 {
		return labelStyle.Render(label) + " " +
			lipgloss.NewStyle().Foreground(t.Premium).Bold(true).Render("unlimited")
	}

	pct := 1.0
	if quota > 0 {
		pct = min(float64(used)/float64(quota), 1)
	}

	bar := progress.New(
		progress.WithSolidFill(ColorForPct(pct)),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	countStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorForPct(pct))).Bold(true)
	return labelStyle.Render(label) + " " + bar.ViewAs(pct) + " " +
		countStyle.Render(fmt.Sprintf("%d/%d", used, quota))
}

// PulseBar renders a short bar that fills as the welcome animation
// advances through its pulses.
func PulseBar(step, total, width int) string {
	t := theme.Active
	pct := 1.0
	if total > 0 {
		pct = min(float64(step)/float64(total), 1)
	}
	bar := progress.New(
		progress.WithGradient(string(t.Accent), string(t.Energy)),
		progress.WithWidth(width),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.Border)
	return bar.ViewAs(pct)
}
