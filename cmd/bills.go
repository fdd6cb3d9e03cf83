package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/theirongolddev/energipro/internal/analytics"
	"github.com/theirongolddev/energipro/internal/cli"
	"github.com/theirongolddev/energipro/internal/model"
	"github.com/theirongolddev/energipro/internal/plan"
	"github.com/theirongolddev/energipro/internal/session"

	"github.com/spf13/cobra"
)

var (
	flagBillPeriod string
	flagBillKWh    float64
	flagBillAmount float64
	flagBillPhoto  string
	flagPhotoOut   string
)

var billsCmd = &cobra.Command{
	Use:   "bills",
	Short: "List, add and remove energy bills",
	RunE:  runBillsList,
}

var billsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded bills by month",
	RunE:  runBillsList,
}

var billsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a bill",
	Example: `  energipro bills add --period 2026-02 --kwh 310 --amount 255.40
  energipro bills add --kwh 298 --amount 240 --photo ~/bills/feb.jpg`,
	RunE: runBillsAdd,
}

var billsRmCmd = &cobra.Command{
	Use:     "rm ID",
	Aliases: []string{"remove", "delete"},
	Short:   "Delete a bill",
	Args:    cobra.ExactArgs(1),
	RunE:    runBillsRm,
}

var billsPhotoCmd = &cobra.Command{
	Use:   "photo ID",
	Short: "Export the photo attached to a bill",
	Args:  cobra.ExactArgs(1),
	RunE:  runBillsPhoto,
}

func init() {
	billsAddCmd.Flags().StringVar(&flagBillPeriod, "period", "", "Bill month as YYYY-MM (default current month)")
	billsAddCmd.Flags().Float64Var(&flagBillKWh, "kwh", 0, "Consumption in kWh")
	billsAddCmd.Flags().Float64Var(&flagBillAmount, "amount", 0, "Amount due")
	billsAddCmd.Flags().StringVar(&flagBillPhoto, "photo", "", "Path to a photo or PDF of the bill")
	_ = billsAddCmd.MarkFlagRequired("kwh")
	_ = billsAddCmd.MarkFlagRequired("amount")

	billsPhotoCmd.Flags().StringVarP(&flagPhotoOut, "output", "o", "", "File to write the photo to (required)")
	_ = billsPhotoCmd.MarkFlagRequired("output")

	billsCmd.AddCommand(billsListCmd, billsAddCmd, billsRmCmd, billsPhotoCmd)
	rootCmd.AddCommand(billsCmd)
}

func runBillsList(cmd *cobra.Command, _ []string) error {
	e, err := cliEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()
	if err := e.requireMain(); err != nil {
		return err
	}

	bills := analytics.SortByPeriod(e.m.Bills())
	if len(bills) == 0 {
		fmt.Println("\n  No bills recorded yet.")
		return nil
	}

	rows := make([][]string, 0, len(bills))
	for _, b := range bills {
		photo := ""
		if b.ImageRef != "" {
			photo = "yes"
		}
		rows = append(rows, []string{
			b.Period.Label(),
			e.fmt.KWh(b.ConsumptionKWh),
			e.fmt.Money(b.AmountDue),
			photo,
			b.ID,
		})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   fmt.Sprintf("Bills (%d)", len(bills)),
		Headers: []string{"Month", "Consumption", "Amount", "Photo", "ID"},
		Rows:    rows,
	}))
	fmt.Printf("  %s\n", uploadsLine(e))
	return nil
}

func runBillsAdd(cmd *cobra.Command, _ []string) error {
	e, err := cliEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()
	if err := e.requireMain(); err != nil {
		return err
	}

	in := session.BillInput{
		Period:         flagBillPeriod,
		ConsumptionKWh: flagBillKWh,
		AmountDue:      flagBillAmount,
	}
	if in.Period == "" {
		in.Period = string(model.PeriodOf(e.m.Now()))
	}
	if err := in.Validate(); err != nil {
		return err
	}
	if !e.m.CanUploadBill() {
		return quotaError(e)
	}

	if flagBillPhoto != "" {
		data, err := os.ReadFile(flagBillPhoto)
		if err != nil {
			return fmt.Errorf("reading photo: %w", err)
		}
		ref, err := e.store.PutBlob(cmd.Context(), data)
		if err != nil {
			return fmt.Errorf("storing photo: %w", err)
		}
		in.ImageRef = ref
	}

	bill, err := e.m.AddBill(cmd.Context(), in)
	if err != nil && in.ImageRef != "" {
		if derr := e.store.DeleteBlob(cmd.Context(), in.ImageRef); derr != nil {
			e.log.Warn("dropping unused photo", "ref", in.ImageRef, "err", derr)
		}
	}
	if errors.Is(err, session.ErrQuotaExceeded) {
		return quotaError(e)
	}
	if err != nil {
		return err
	}

	fmt.Printf("  Saved %s bill: %s, %s (%s)\n",
		bill.Period.Label(), cli.Energy(e.fmt.KWh(bill.ConsumptionKWh)), cli.Money(e.fmt.Money(bill.AmountDue)), bill.ID)
	fmt.Printf("  %s\n", uploadsLine(e))
	return nil
}

// uploadsLine shows this month's uploads as a quota bar on limited tiers.
func uploadsLine(e *env) string {
	remaining := e.m.RemainingUploads()
	if remaining < 0 {
		return cli.Muted("Uploads: " + cli.FormatQuota(remaining))
	}
	used := plan.UploadsThisMonth(e.m.Bills(), e.m.Now())
	return cli.Muted("Uploads: ") + cli.RenderQuotaBar(used, e.m.Policy().FreeMonthlyQuota, 10) +
		cli.Muted(" · "+cli.FormatQuota(remaining))
}

func quotaError(e *env) error {
	return fmt.Errorf("%w: the %s plan allows %d bills per month; upgrade with `energipro plan select pro`",
		session.ErrQuotaExceeded, e.m.Tier().Title(), e.m.Policy().FreeMonthlyQuota)
}

func runBillsRm(cmd *cobra.Command, args []string) error {
	e, err := cliEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()
	if err := e.requireMain(); err != nil {
		return err
	}

	if err := e.m.RemoveBill(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Printf("  Deleted bill %s\n", args[0])
	return nil
}

func runBillsPhoto(cmd *cobra.Command, args []string) error {
	e, err := cliEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()
	if err := e.requireMain(); err != nil {
		return err
	}

	for _, b := range e.m.Bills() {
		if b.ID != args[0] {
			continue
		}
		if b.ImageRef == "" {
			return fmt.Errorf("bill %s has no photo", b.ID)
		}
		data, err := e.store.GetBlob(cmd.Context(), b.ImageRef)
		if err != nil {
			return fmt.Errorf("loading photo: %w", err)
		}
		if err := os.WriteFile(flagPhotoOut, data, 0o600); err != nil {
			return fmt.Errorf("writing photo: %w", err)
		}
		fmt.Printf("  Wrote %s (%s bytes)\n", flagPhotoOut, e.fmt.Number(int64(len(data))))
		return nil
	}
	return fmt.Errorf("%w: %s", session.ErrBillNotFound, args[0])
}
