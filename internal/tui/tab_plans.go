package tui

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/theirongolddev/energipro/internal/model"
	"github.com/theirongolddev/energipro/internal/plan"
	"github.com/theirongolddev/energipro/internal/tui/components"
	"github.com/theirongolddev/energipro/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// checkoutOpenedMsg reports the result of opening the payment page.
type checkoutOpenedMsg struct {
	checkout plan.Checkout
	err      error
}

var errNoOpener = errors.New("no browser opener configured")

func openCheckoutCmd(ctx context.Context, opener plan.Opener, co plan.Checkout) tea.Cmd {
	return func() tea.Msg {
		if opener == nil {
			return checkoutOpenedMsg{checkout: co, err: errNoOpener}
		}
		return checkoutOpenedMsg{checkout: co, err: opener.Open(ctx, co.URL)}
	}
}

func (a *App) syncPlanCursor() {
	a.planCursor = max(slices.Index(model.Tiers, a.m.Tier()), 0)
}

func (a App) updatePlansKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "j", "down":
		a.planCursor = (a.planCursor + 1) % len(model.Tiers)
	case "k", "up":
		a.planCursor = (a.planCursor - 1 + len(model.Tiers)) % len(model.Tiers)
	case "1", "2", "3":
		a.planCursor = int(key[0] - '1')
	case "enter", " ":
		return a.selectPlan(model.Tiers[a.planCursor])
	}
	return a, nil
}

func (a App) selectPlan(tier model.Tier) (tea.Model, tea.Cmd) {
	co, err := a.m.SelectPlan(a.ctx, tier)
	if err != nil {
		a.notice = err.Error()
		return a, nil
	}
	if co != nil {
		a.notice = "Opening checkout..."
		return a, openCheckoutCmd(a.ctx, a.opts.Opener, *co)
	}
	a.notice = fmt.Sprintf("You're on the %s plan", tier.Title())
	return a, nil
}

func (a App) renderPlansTab(cw int) string {
	t := theme.Active
	f := a.opts.Formatter

	catalog := plan.Catalog(a.m.Policy())
	widths := components.LayoutRow(cw, len(catalog))

	cards := make([]string, len(catalog))
	for i, p := range catalog {
		inner := components.CardInnerWidth(widths[i])
		var b strings.Builder

		badge := ""
		switch {
		case p.Tier == a.m.Tier():
			badge = lipgloss.NewStyle().Foreground(t.Energy).Bold(true).Render("● Current plan")
		case p.Popular:
			badge = lipgloss.NewStyle().Foreground(t.Premium).Bold(true).Render("★ Most popular")
		}
		b.WriteString(badge)
		b.WriteString("\n")

		price := "Free"
		if p.MonthlyPrice > 0 {
			price = f.Money(p.MonthlyPrice) + "/month"
		}
		b.WriteString(lipgloss.NewStyle().Foreground(t.Money).Bold(true).Render(price))
		b.WriteString("\n\n")

		for _, feat := range p.Features {
			b.WriteString(lipgloss.NewStyle().Foreground(t.Green).Render("✓ "))
			b.WriteString(truncStr(feat, inner-2))
			b.WriteString("\n")
		}
		for _, lim := range p.Limitations {
			b.WriteString(lipgloss.NewStyle().Foreground(t.TextDim).Render("✗ " + truncStr(lim, inner-2)))
			b.WriteString("\n")
		}

		b.WriteString("\n")
		action := "Enter to choose"
		if plan.RequiresCheckout(p.Tier) {
			action = "Enter to subscribe"
		}
		actionStyle := lipgloss.NewStyle().Foreground(t.TextDim)
		if i == a.planCursor {
			actionStyle = lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
		}
		b.WriteString(actionStyle.Render(action))

		if i == a.planCursor {
			cards[i] = components.FocusCard(p.Name, b.String(), widths[i], t.BorderAccent)
		} else {
			cards[i] = components.ContentCard(p.Name, b.String(), widths[i])
		}
	}

	intro := lipgloss.NewStyle().Foreground(t.TextMuted).
		Render(" Choose your plan · j/k to move, Enter to select")
	return intro + "\n\n" + components.CardRow(cards)
}
