package cmd

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/energipro/internal/cli"
	"github.com/theirongolddev/energipro/internal/model"
	"github.com/theirongolddev/energipro/internal/plan"

	"github.com/spf13/cobra"
)

var flagNoBrowser bool

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show and change your subscription plan",
	RunE:  runPlanShow,
}

var planShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Compare plans",
	RunE:  runPlanShow,
}

var planSelectCmd = &cobra.Command{
	Use:       "select TIER",
	Short:     "Choose a plan (pro opens the checkout page)",
	Args:      cobra.ExactArgs(1),
	ValidArgs: tierNames(),
	RunE:      runPlanSelect,
}

var planActivateCmd = &cobra.Command{
	Use:       "activate TIER",
	Short:     "Activate a plan after completing checkout",
	Args:      cobra.ExactArgs(1),
	ValidArgs: tierNames(),
	RunE:      runPlanActivate,
}

func init() {
	planSelectCmd.Flags().BoolVar(&flagNoBrowser, "no-browser", false, "Print the checkout URL instead of opening it")
	planCmd.AddCommand(planShowCmd, planSelectCmd, planActivateCmd)
	rootCmd.AddCommand(planCmd)
}

func tierNames() []string {
	names := make([]string, len(model.Tiers))
	for i, t := range model.Tiers {
		names[i] = string(t)
	}
	return names
}

func runPlanShow(cmd *cobra.Command, _ []string) error {
	e, err := cliEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	current := model.Tier("")
	if e.requireMain() == nil {
		current = e.m.Tier()
	}

	fmt.Println()
	for _, p := range plan.Catalog(e.m.Policy()) {
		title := p.Name
		switch {
		case p.Tier == current:
			title += "  (current)"
		case p.Popular:
			title += "  (most popular)"
		}
		price := "free"
		if p.MonthlyPrice > 0 {
			price = e.fmt.Money(p.MonthlyPrice) + "/month"
		}

		fmt.Printf("  %s  %s\n", cli.Energy(title), cli.Money(price))
		for _, f := range p.Features {
			fmt.Printf("    + %s\n", f)
		}
		for _, l := range p.Limitations {
			fmt.Printf("    %s\n", cli.Muted("- "+l))
		}
		fmt.Println()
	}

	if current != "" {
		fmt.Printf("  %s\n", cli.Muted("Uploads: "+cli.FormatQuota(e.m.RemainingUploads())))
	}
	return nil
}

func runPlanSelect(cmd *cobra.Command, args []string) error {
	e, err := cliEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()
	if err := e.requireMain(); err != nil {
		return err
	}

	tier, err := model.ParseTier(strings.ToLower(args[0]))
	if err != nil {
		return err
	}
	co, err := e.m.SelectPlan(cmd.Context(), tier)
	if err != nil {
		return err
	}

	if co == nil {
		fmt.Printf("  You're now on the %s plan.\n", tier.Title())
		return nil
	}

	fmt.Printf("  Complete your %s subscription at:\n    %s\n", co.Tier.Title(), co.URL)
	if !flagNoBrowser {
		if err := (plan.BrowserOpener{}).Open(cmd.Context(), co.URL); err != nil {
			e.log.Warn("opening browser", "err", err)
		}
	}
	fmt.Printf("  %s\n", cli.Muted(fmt.Sprintf("Once paid, run `energipro plan activate %s`.", co.Tier)))
	return nil
}

func runPlanActivate(cmd *cobra.Command, args []string) error {
	e, err := cliEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()
	if err := e.requireMain(); err != nil {
		return err
	}

	tier, err := model.ParseTier(strings.ToLower(args[0]))
	if err != nil {
		return err
	}
	if err := e.m.ActivatePlan(cmd.Context(), tier); err != nil {
		return err
	}
	fmt.Printf("  %s plan active.\n", tier.Title())
	return nil
}
