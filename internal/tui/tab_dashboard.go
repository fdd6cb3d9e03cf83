package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/energipro/internal/analytics"
	"github.com/theirongolddev/energipro/internal/cli"
	"github.com/theirongolddev/energipro/internal/tariff"
	"github.com/theirongolddev/energipro/internal/tui/components"
	"github.com/theirongolddev/energipro/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

const compactWidth = 100

func (a App) renderDashboardTab(cw int) string {
	t := theme.Active
	f := a.opts.Formatter
	d := a.m.Dashboard()

	var rows []string

	if d.Empty {
		msg := lipgloss.NewStyle().Foreground(t.TextMuted).
			Render("No bills yet. Press b then n to add your first bill and see your statistics here.")
		rows = append(rows, components.ContentCard("Dashboard", msg, cw))
	} else {
		s := d.Stats
		forecastKWh, forecastAmount := cli.Locked, cli.Locked
		if d.Advanced {
			forecastKWh, forecastAmount = f.KWh(s.ForecastConsumption), f.Money(s.ForecastAmount)
		}

		metrics := []components.Metric{
			{Label: "Avg consumption", Value: f.KWh(s.AvgConsumption), Delta: cli.FormatTrend(s.TrendConsumption), Color: t.Energy},
			{Label: "Avg amount", Value: f.Money(s.AvgAmount), Delta: cli.FormatTrend(s.TrendAmount), Color: t.Money},
			{Label: "Forecast consumption", Value: forecastKWh, Locked: !d.Advanced, Color: t.Forecast},
			{Label: "Forecast amount", Value: forecastAmount, Locked: !d.Advanced, Color: t.Forecast},
		}
		if cw < compactWidth {
			rows = append(rows,
				components.MetricCardRow(metrics[:2], cw),
				components.MetricCardRow(metrics[2:], cw))
		} else {
			rows = append(rows, components.MetricCardRow(metrics, cw))
		}

		rows = append(rows, a.renderConsumptionChart(d, cw))
	}

	rows = append(rows, a.renderAdviceRow(d, cw))
	return strings.Join(rows, "\n")
}

func (a App) renderConsumptionChart(d analytics.Dashboard, cw int) string {
	t := theme.Active

	bars := make([]components.Bar, len(d.Chart))
	for i, p := range d.Chart {
		label := p.Label
		if p.Forecast {
			label = "Next"
		}
		bars[i] = components.Bar{Label: label, Value: p.Consumption, Forecast: p.Forecast}
	}

	inner := components.CardInnerWidth(cw)
	body := components.BarChart(bars, t.Energy, inner, 8)

	amounts := make([]float64, 0, len(d.Chart))
	for _, p := range d.Chart {
		if !p.Forecast {
			amounts = append(amounts, p.Amount)
		}
	}
	body += "\n\n" + lipgloss.NewStyle().Foreground(t.TextMuted).Render("Amount ") +
		components.Sparkline(amounts, t.Money)

	title := "Consumption (kWh)"
	if !d.Advanced {
		title += " · forecast on Pro"
	}
	return components.ContentCard(title, body, cw)
}

func (a App) renderAdviceRow(d analytics.Dashboard, cw int) string {
	t := theme.Active

	flag := tariff.FlagFor(a.m.Now())
	info := tariff.Info(flag)
	flagColor := t.Green
	switch {
	case flag.IsRed():
		flagColor = t.Red
	case flag == tariff.Yellow:
		flagColor = t.Yellow
	}

	var tb strings.Builder
	tb.WriteString(lipgloss.NewStyle().Foreground(flagColor).Bold(true).Render("● " + info.Title))
	tb.WriteString("\n")
	tb.WriteString(lipgloss.NewStyle().Foreground(t.TextMuted).Render(info.Description))
	if info.AdditionalCost != "" {
		tb.WriteString("\n")
		tb.WriteString(lipgloss.NewStyle().Foreground(t.Money).Render("+ " + info.AdditionalCost))
	}
	for _, tip := range info.Tips {
		tb.WriteString("\n• " + tip)
	}

	var pb strings.Builder
	for _, tip := range d.Tips {
		pb.WriteString("• " + tip + "\n")
	}
	if d.Advanced {
		for _, tip := range d.PersonalizedTips {
			pb.WriteString(lipgloss.NewStyle().Foreground(t.Forecast).Render("★ ") + tip + "\n")
		}
	} else {
		pb.WriteString(lipgloss.NewStyle().Foreground(t.TextDim).
			Render(fmt.Sprintf("%s Personalized tips and forecasts unlock on Pro. Press u to upgrade.", cli.Locked)))
	}

	if cw < compactWidth {
		return components.ContentCard("Tariff flag", tb.String(), cw) + "\n" +
			components.ContentCard("Saving tips", strings.TrimRight(pb.String(), "\n"), cw)
	}
	widths := components.LayoutRow(cw, 2)
	return components.CardRow([]string{
		components.ContentCard("Tariff flag", tb.String(), widths[0]),
		components.ContentCard("Saving tips", strings.TrimRight(pb.String(), "\n"), widths[1]),
	})
}
