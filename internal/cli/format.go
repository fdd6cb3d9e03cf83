// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/theirongolddev/energipro/internal/analytics"
)

// DefaultLocale is used when the configured locale cannot be parsed.
var DefaultLocale = language.BrazilianPortuguese

// Formatter renders money and energy figures for one locale.
type Formatter struct {
	p      *message.Printer
	symbol string
}

// NewFormatter returns a Formatter for the BCP 47 locale tag. An empty or
// malformed tag falls back to DefaultLocale.
func NewFormatter(locale, currencySymbol string) Formatter {
	tag, err := language.Parse(locale)
	if err != nil || locale == "" {
		tag = DefaultLocale
	}
	if currencySymbol == "" {
		currencySymbol = "R$"
	}
	return Formatter{p: message.NewPrinter(tag), symbol: currencySymbol}
}

// Money formats an amount with two decimals, e.g. "R$ 1.234,50".
func (f Formatter) Money(v float64) string {
	if v < 0 {
		return "-" + f.symbol + " " + f.p.Sprintf("%.2f", -v)
	}
	return f.symbol + " " + f.p.Sprintf("%.2f", v)
}

// KWh formats an energy figure, e.g. "1.250 kWh". Fractions are kept to
// one decimal and dropped when zero.
func (f Formatter) KWh(v float64) string {
	if v == float64(int64(v)) {
		return f.p.Sprintf("%d kWh", int64(v))
	}
	return f.p.Sprintf("%.1f kWh", v)
}

// Number formats an integer with locale grouping.
func (f Formatter) Number(n int64) string {
	return f.p.Sprintf("%d", n)
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatTrend renders a trend as an arrow and word.
func FormatTrend(t analytics.Trend) string {
	if t == analytics.TrendUp {
		return "↑ up"
	}
	return "↓ down"
}

// FormatQuota renders remaining uploads, where a negative value means
// unlimited.
func FormatQuota(remaining int) string {
	if remaining < 0 {
		return "unlimited"
	}
	if remaining == 1 {
		return "1 bill left this month"
	}
	return fmt.Sprintf("%d bills left this month", remaining)
}

// Locked is shown in place of figures the current tier cannot see.
const Locked = "---"
