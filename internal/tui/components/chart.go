package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/theirongolddev/energipro/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Bar is one column of a BarChart.
type Bar struct {
	Label string
	Value float64
	// Forecast bars are drawn in the theme's forecast color with a
	// lighter fill so they read as estimates.
	Forecast bool
}

var eighths = []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders a unicode sparkline from values.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}

	peak := maxValue(values)
	var buf strings.Builder
	for _, v := range values {
		idx := int(v/peak*7) + 1
		buf.WriteRune(eighths[clamp(idx, 1, 8)])
	}
	return lipgloss.NewStyle().Foreground(color).Render(buf.String())
}

// BarChart renders a vertical bar chart with a labelled y-axis. Charts too
// small to draw fall back to a sparkline.
func BarChart(bars []Bar, color lipgloss.Color, width, height int) string {
	if len(bars) == 0 {
		return ""
	}
	values := make([]float64, len(bars))
	for i, b := range bars {
		values[i] = b.Value
	}
	if width < 15 || height < 3 {
		return Sparkline(values, color)
	}

	t := theme.Active

	step := chartTickStep(maxValue(values))
	intervals := int(math.Ceil(maxValue(values) / step))
	for intervals > max(2, height/2) {
		step *= 2
		intervals = int(math.Ceil(maxValue(values) / step))
	}
	intervals = max(intervals, 1)
	ceiling := step * float64(intervals)

	rowsPerTick := max(height/intervals, 1)
	chartH := rowsPerTick * intervals

	yLabelW := max(len(formatChartLabel(ceiling))+1, 4)
	chartW := max(width-yLabelW-1, 5)

	n := len(bars)
	barW := chartW
	if n > 1 {
		barW = (chartW - (n - 1)) / n
	}
	barW = clamp(barW, 1, 6)

	axisStyle := lipgloss.NewStyle().Foreground(t.TextDim)
	barStyle := lipgloss.NewStyle().Foreground(color)
	forecastStyle := lipgloss.NewStyle().Foreground(t.Forecast)

	var b strings.Builder
	for row := chartH; row >= 1; row-- {
		top := ceiling * float64(row) / float64(chartH)
		bottom := ceiling * float64(row-1) / float64(chartH)

		label := ""
		if row%rowsPerTick == 0 {
			label = formatChartLabel(step * float64(row/rowsPerTick))
		}
		b.WriteString(axisStyle.Render(fmt.Sprintf("%*s│", yLabelW, label)))

		for i, bar := range bars {
			if i > 0 {
				b.WriteString(" ")
			}
			cell := " "
			switch {
			case bar.Value >= top:
				cell = "█"
				if bar.Forecast {
					cell = "▓"
				}
			case bar.Value > bottom:
				cell = string(eighths[clamp(int((bar.Value-bottom)/(top-bottom)*8), 1, 8)])
			}
			style := barStyle
			if bar.Forecast {
				style = forecastStyle
			}
			b.WriteString(style.Render(strings.Repeat(cell, barW)))
		}
		b.WriteString("\n")
	}

	axisLen := n*barW + n - 1
	b.WriteString(axisStyle.Render(fmt.Sprintf("%*s└%s", yLabelW, "0", strings.Repeat("─", axisLen))))
	b.WriteString("\n")
	b.WriteString(strings.Repeat(" ", yLabelW+1))
	b.WriteString(axisStyle.Render(xLabels(bars, barW, axisLen)))

	return b.String()
}

// xLabels places each bar's label under its column, skipping labels that
// would collide with the previous one.
func xLabels(bars []Bar, barW, axisLen int) string {
	buf := []rune(strings.Repeat(" ", axisLen))
	next := 0
	for i, bar := range bars {
		pos := i * (barW + 1)
		lbl := []rune(bar.Label)
		if pos < next || pos+len(lbl) > axisLen {
			continue
		}
		copy(buf[pos:], lbl)
		next = pos + len(lbl) + 1
	}
	return strings.TrimRight(string(buf), " ")
}

// chartTickStep computes a nice tick interval targeting ~5 ticks.
func chartTickStep(maxVal float64) float64 {
	if maxVal <= 0 {
		return 1
	}
	rough := maxVal / 5
	base := math.Pow(10, math.Floor(math.Log10(rough)))

	switch frac := rough / base; {
	case frac < 1.5:
		return base
	case frac < 3.5:
		return 2 * base
	default:
		return 5 * base
	}
}

func formatChartLabel(v float64) string {
	switch {
	case v >= 1e3:
		if v == math.Trunc(v/1e3)*1e3 {
			return fmt.Sprintf("%.0fk", v/1e3)
		}
		return fmt.Sprintf("%.1fk", v/1e3)
	case v >= 1:
		return fmt.Sprintf("%.0f", v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}

func maxValue(values []float64) float64 {
	peak := 0.0
	for _, v := range values {
		peak = max(peak, v)
	}
	if peak == 0 {
		return 1
	}
	return peak
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
