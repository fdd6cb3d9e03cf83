package components

import (
	"strings"

	"github.com/theirongolddev/energipro/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// StatusInfo is what the bottom bar shows on the right-hand side.
type StatusInfo struct {
	User   string
	Plan   string
	Quota  string
	Notice string
}

// RenderStatusBar renders the bottom status bar. A notice, when present,
// replaces the key hints on the left.
func RenderStatusBar(width int, info StatusInfo) string {
	t := theme.Active

	left := " [?]help  [L]ogout  [q]uit"
	leftStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	if info.Notice != "" {
		left = " " + info.Notice
		leftStyle = lipgloss.NewStyle().Foreground(t.Yellow)
	}

	var fields []string
	for _, f := range []string{info.User, info.Plan, info.Quota} {
		if f != "" {
			fields = append(fields, f)
		}
	}
	right := ""
	if len(fields) > 0 {
		right = strings.Join(fields, " · ") + " "
	}

	padding := max(width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	bar := leftStyle.Render(left) + strings.Repeat(" ", padding) +
		lipgloss.NewStyle().Foreground(t.TextDim).Render(right)

	return lipgloss.NewStyle().MaxWidth(width).Render(bar)
}
