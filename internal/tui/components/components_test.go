package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/theirongolddev/energipro/internal/tui/theme"
)

func init() {
	// Force TrueColor output so ANSI codes are generated in tests
	lipgloss.SetColorProfile(termenv.TrueColor)
}

func TestLayoutRow(t *testing.T) {
	tests := []struct {
		total, n int
		want     []int
	}{
		{10, 3, []int{4, 3, 3}},
		{9, 3, []int{3, 3, 3}},
		{7, 1, []int{7}},
		{5, 0, nil},
	}
	for _, tt := range tests {
		got := LayoutRow(tt.total, tt.n)
		if len(got) != len(tt.want) {
			t.Fatalf("LayoutRow(%d, %d) = %v, want %v", tt.total, tt.n, got, tt.want)
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("LayoutRow(%d, %d) = %v, want %v", tt.total, tt.n, got, tt.want)
				break
			}
		}
	}
}

func TestCardRowHeightMatchesTallest(t *testing.T) {
	theme.SetActive("energipro")

	shortCard := ContentCard("Short", "Content", 22)
	tallCard := ContentCard("Tall", "Line 1\nLine 2\nLine 3\nLine 4\nLine 5", 22)

	shortLines := lipgloss.Height(shortCard)
	tallLines := lipgloss.Height(tallCard)
	if shortLines >= tallLines {
		t.Fatal("short card should be shorter than tall card")
	}

	joined := CardRow([]string{tallCard, shortCard})
	if got := lipgloss.Height(joined); got != tallLines {
		t.Errorf("joined height = %d, want %d", got, tallLines)
	}
	if got := lipgloss.Width(joined); got != 44 {
		t.Errorf("joined width = %d, want 44", got)
	}
}

func TestMetricCardRowFillsWidth(t *testing.T) {
	row := MetricCardRow([]Metric{
		{Label: "Avg consumption", Value: "300 kWh"},
		{Label: "Forecast", Value: "---", Locked: true},
		{Label: "Avg amount", Value: "R$ 250,00", Delta: "+4%"},
	}, 90)

	if got := lipgloss.Width(row); got != 90 {
		t.Errorf("row width = %d, want 90", got)
	}
	if !strings.Contains(row, "---") {
		t.Error("locked value missing from card")
	}
}

func TestTabAtX(t *testing.T) {
	for active := range Tabs {
		pos := 1
		for i, tab := range Tabs {
			w := TabVisualWidth(tab, i == active)
			if got := TabAtX(active, pos+w/2); got != i {
				t.Fatalf("active=%d x=%d -> tab=%d, want %d", active, pos+w/2, got, i)
			}
			pos += w + tabGap
		}
		if got := TabAtX(active, 0); got != -1 {
			t.Errorf("x=0 -> %d, want -1", got)
		}
		if got := TabAtX(active, pos+20); got != -1 {
			t.Errorf("x past last tab -> %d, want -1", got)
		}
	}
}

func TestTabBarWidthMatchesTabWidths(t *testing.T) {
	for active := range Tabs {
		want := 1 + tabGap*(len(Tabs)-1)
		for i, tab := range Tabs {
			want += TabVisualWidth(tab, i == active)
		}
		if got := lipgloss.Width(RenderTabBar(active, 200)); got != want {
			t.Errorf("active=%d: bar width = %d, want %d", active, got, want)
		}
	}
}

func TestTabIdxByKey(t *testing.T) {
	if got := TabIdxByKey('b'); got != 1 {
		t.Errorf("TabIdxByKey('b') = %d, want 1", got)
	}
	if got := TabIdxByKey('z'); got != -1 {
		t.Errorf("TabIdxByKey('z') = %d, want -1", got)
	}
}

func TestBarChartMarksForecast(t *testing.T) {
	theme.SetActive("energipro")
	bars := []Bar{
		{Label: "Jan", Value: 200},
		{Label: "Feb", Value: 300},
		{Label: "Fcst", Value: 310, Forecast: true},
	}
	chart := BarChart(bars, theme.Active.Energy, 40, 8)

	if !strings.Contains(chart, "▓") {
		t.Error("forecast bar not drawn with forecast fill")
	}
	for _, lbl := range []string{"Jan", "Feb", "Fcst"} {
		if !strings.Contains(chart, lbl) {
			t.Errorf("label %q missing", lbl)
		}
	}
}

func TestBarChartSmallFallsBackToSparkline(t *testing.T) {
	chart := BarChart([]Bar{{Value: 1}, {Value: 2}}, theme.Active.Energy, 10, 2)
	if lipgloss.Height(chart) != 1 {
		t.Errorf("small chart should be a single-line sparkline, got %q", chart)
	}
}

func TestChartTickStep(t *testing.T) {
	tests := []struct {
		max, want float64
	}{
		{0, 1},
		{10, 2},
		{100, 20},
		{400, 50},
	}
	for _, tt := range tests {
		if got := chartTickStep(tt.max); got != tt.want {
			t.Errorf("chartTickStep(%v) = %v, want %v", tt.max, got, tt.want)
		}
	}
}

func TestQuotaBar(t *testing.T) {
	if got := QuotaBar("Uploads", 3, -1, 10); !strings.Contains(got, "unlimited") {
		t.Errorf("unlimited quota rendered as %q", got)
	}
	if got := QuotaBar("Uploads", 1, 2, 10); !strings.Contains(got, "1/2") {
		t.Errorf("quota count missing from %q", got)
	}
}

func TestColorForPct(t *testing.T) {
	theme.SetActive("energipro")
	if got := ColorForPct(0.1); got != string(theme.Active.Green) {
		t.Errorf("ColorForPct(0.1) = %s", got)
	}
	if got := ColorForPct(1); got != string(theme.Active.Red) {
		t.Errorf("ColorForPct(1) = %s", got)
	}
}

func TestRenderStatusBarNotice(t *testing.T) {
	bar := RenderStatusBar(80, StatusInfo{User: "Ana", Plan: "Free", Notice: "saved"})
	if !strings.Contains(bar, "saved") || strings.Contains(bar, "[?]help") {
		t.Errorf("notice should replace key hints: %q", bar)
	}
	if !strings.Contains(bar, "Ana · Free") {
		t.Errorf("right-hand fields missing: %q", bar)
	}
}
