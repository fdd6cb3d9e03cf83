package cmd

import (
	"fmt"
	"time"

	"github.com/theirongolddev/energipro/internal/cli"
	"github.com/theirongolddev/energipro/internal/model"
	"github.com/theirongolddev/energipro/internal/tariff"

	"github.com/spf13/cobra"
)

var flagTariffMonth string

var tariffCmd = &cobra.Command{
	Use:   "tariff",
	Short: "Show the tariff flag in effect",
	RunE:  runTariff,
}

func init() {
	tariffCmd.Flags().StringVar(&flagTariffMonth, "month", "", "Month as YYYY-MM (default current month)")
	rootCmd.AddCommand(tariffCmd)
}

func runTariff(_ *cobra.Command, _ []string) error {
	when := time.Now()
	if flagTariffMonth != "" {
		p, err := model.ParsePeriod(flagTariffMonth)
		if err != nil {
			return err
		}
		when = p.Time()
	}

	info := tariff.Info(tariff.FlagFor(when))
	title := cli.Energy(info.Title)
	if info.Flag.IsRed() || info.Flag == tariff.Yellow {
		title = cli.Warn(info.Title)
	}

	fmt.Println()
	fmt.Printf("  %s  %s\n", title, cli.Muted(model.PeriodOf(when).Label()))
	fmt.Printf("  %s\n", info.Description)
	if info.AdditionalCost != "" {
		fmt.Printf("  Surcharge: %s\n", cli.Money(info.AdditionalCost))
	}
	if len(info.Tips) > 0 {
		fmt.Println()
		for _, tip := range info.Tips {
			fmt.Printf("  • %s\n", tip)
		}
	}
	return nil
}
