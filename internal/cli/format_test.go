package cli

import (
	"strings"
	"testing"

	"github.com/theirongolddev/energipro/internal/analytics"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-4500, "-4,500"},
	}
	for _, tt := range tests {
		if got := FormatNumber(tt.in); got != tt.want {
			t.Errorf("FormatNumber(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatter_English(t *testing.T) {
	f := NewFormatter("en", "$")

	if got := f.Money(1234.5); got != "$ 1,234.50" {
		t.Errorf("Money = %q", got)
	}
	if got := f.Money(-3); got != "-$ 3.00" {
		t.Errorf("Money(-3) = %q", got)
	}
	if got := f.KWh(350); got != "350 kWh" {
		t.Errorf("KWh(350) = %q", got)
	}
	if got := f.KWh(367.5); got != "367.5 kWh" {
		t.Errorf("KWh(367.5) = %q", got)
	}
}

func TestFormatter_Brazilian(t *testing.T) {
	f := NewFormatter("pt-BR", "")

	got := f.Money(1234.5)
	if !strings.HasPrefix(got, "R$ ") || !strings.HasSuffix(got, ",50") {
		t.Errorf("Money = %q, want R$ prefix and comma decimals", got)
	}
}

func TestFormatter_BadLocaleFallsBack(t *testing.T) {
	f := NewFormatter("not a locale!!", "R$")
	if got := f.Money(0); !strings.HasPrefix(got, "R$ 0") {
		t.Errorf("Money = %q", got)
	}
}

func TestFormatTrendAndQuota(t *testing.T) {
	if !strings.Contains(FormatTrend(analytics.TrendUp), "up") {
		t.Error("up trend label")
	}
	if !strings.Contains(FormatTrend(analytics.TrendDown), "down") {
		t.Error("down trend label")
	}
	if FormatQuota(-1) != "unlimited" {
		t.Error("unlimited quota label")
	}
	if FormatQuota(1) != "1 bill left this month" || FormatQuota(0) != "0 bills left this month" {
		t.Error("quota labels")
	}
}
