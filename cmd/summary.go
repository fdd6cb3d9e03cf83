package cmd

import (
	"fmt"

	"github.com/theirongolddev/energipro/internal/analytics"
	"github.com/theirongolddev/energipro/internal/cli"

	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Consumption and cost statistics with forecast",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, _ []string) error {
	e, err := cliEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()
	if err := e.requireMain(); err != nil {
		return err
	}

	d := e.m.Dashboard()
	if d.Empty {
		fmt.Println("\n  No bills recorded yet.")
		fmt.Println("  Add one with `energipro bills add` or from the TUI.")
		return nil
	}

	s := d.Stats
	f := e.fmt

	forecastKWh, forecastAmount := cli.Locked, cli.Locked
	if d.Advanced {
		forecastKWh, forecastAmount = f.KWh(s.ForecastConsumption), f.Money(s.ForecastAmount)
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("ENERGY SUMMARY  %d bills · %s plan", s.Bills, d.Tier.Title())))
	fmt.Println()

	rows := [][]string{
		{"Avg consumption", f.KWh(s.AvgConsumption)},
		{"Avg amount", f.Money(s.AvgAmount)},
		{"---"},
		{"Consumption trend", cli.FormatTrend(s.TrendConsumption)},
		{"Amount trend", cli.FormatTrend(s.TrendAmount)},
		{"---"},
		{"Forecast consumption", forecastKWh},
		{"Forecast amount", forecastAmount},
	}
	fmt.Print(cli.RenderTable(cli.Table{Rows: rows}))

	printChart(d, f)

	if !d.Advanced {
		fmt.Println()
		fmt.Println(cli.Muted("  Forecasts and personalized tips are available on Pro and Premium: `energipro plan show`"))
	}
	return nil
}

func printChart(d analytics.Dashboard, f cli.Formatter) {
	if len(d.Chart) == 0 {
		return
	}

	peak := 0.0
	for _, p := range d.Chart {
		peak = max(peak, p.Consumption)
	}

	fmt.Println()
	fmt.Println(cli.Muted("  Consumption by month"))
	for _, p := range d.Chart {
		fmt.Println(cli.RenderBar(p.Label, p.Consumption, peak, 40, p.Forecast, f.KWh(p.Consumption)))
	}
}
