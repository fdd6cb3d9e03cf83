package tui

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/theirongolddev/energipro/internal/analytics"
	"github.com/theirongolddev/energipro/internal/model"
	"github.com/theirongolddev/energipro/internal/plan"
	"github.com/theirongolddev/energipro/internal/session"
	"github.com/theirongolddev/energipro/internal/tui/components"
	"github.com/theirongolddev/energipro/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

const quotaExceededNotice = "Free plan limit reached this month. Press p to see plans."

// sortedBills returns the bills in the order the bills tab lists them.
func (a App) sortedBills() []model.Bill {
	return analytics.SortByPeriod(a.m.Bills())
}

func (a App) updateBillsKey(key string) (tea.Model, tea.Cmd) {
	bills := a.sortedBills()

	switch key {
	case "j", "down":
		if a.billCursor < len(bills)-1 {
			a.billCursor++
		}
	case "k", "up":
		if a.billCursor > 0 {
			a.billCursor--
		}
	case "n", "a":
		if !a.m.CanUploadBill() {
			a.notice = quotaExceededNotice
			return a, nil
		}
		next := a.startBillForm()
		return a, next
	case "x", "delete":
		if len(bills) == 0 {
			return a, nil
		}
		a.billCursor = min(a.billCursor, len(bills)-1)
		b := bills[a.billCursor]
		a.confirmDelete = b.ID
		a.notice = fmt.Sprintf("Delete the %s bill? [y/N]", b.Period.Label())
	}
	return a, nil
}

func (a App) resolveDelete(confirmed bool) (tea.Model, tea.Cmd) {
	id := a.confirmDelete
	a.confirmDelete = ""
	if !confirmed {
		return a, nil
	}
	if err := a.m.RemoveBill(a.ctx, id); err != nil {
		a.notice = err.Error()
		return a, nil
	}
	a.billCursor = max(min(a.billCursor, len(a.m.Bills())-1), 0)
	a.notice = "Bill deleted"
	return a, nil
}

func (a *App) startBillForm() tea.Cmd {
	a.billVals = &billValues{period: string(model.PeriodOf(a.m.Now()))}
	a.billForm = a.sized(newBillForm(a.billVals))
	return a.billForm.Init()
}

func (a App) updateBillForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		a.billForm, a.billVals = nil, nil
		return a, nil
	}

	form, cmd := a.billForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.billForm = f
	}

	switch a.billForm.State {
	case huh.StateCompleted:
		a.notice = a.submitBill()
		a.billForm, a.billVals = nil, nil
		return a, nil
	case huh.StateAborted:
		a.billForm, a.billVals = nil, nil
		return a, nil
	}
	return a, cmd
}

// submitBill stores the form's bill and returns the notice to show.
func (a App) submitBill() string {
	in, err := a.billVals.input()
	if err != nil {
		return err.Error()
	}
	if err := in.Validate(); err != nil {
		return err.Error()
	}
	if !a.m.CanUploadBill() {
		return quotaExceededNotice
	}

	if path := strings.TrimSpace(a.billVals.photo); path != "" && a.opts.Blobs != nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Sprintf("Could not read photo: %v", err)
		}
		ref, err := a.opts.Blobs.PutBlob(a.ctx, data)
		if err != nil {
			a.log.Warn("storing bill photo", "err", err)
			return "Could not store the photo"
		}
		in.ImageRef = ref
	}

	bill, err := a.m.AddBill(a.ctx, in)
	if err != nil && in.ImageRef != "" {
		if derr := a.opts.Blobs.DeleteBlob(a.ctx, in.ImageRef); derr != nil {
			a.log.Warn("dropping unused photo", "ref", in.ImageRef, "err", derr)
		}
	}
	switch {
	case errors.Is(err, session.ErrQuotaExceeded):
		return quotaExceededNotice
	case err != nil:
		return err.Error()
	}
	a.log.Info("bill added", "period", bill.Period, "photo", bill.ImageRef != "")
	return fmt.Sprintf("Saved the %s bill", bill.Period.Label())
}

func (a App) renderBillsTab(cw int) string {
	t := theme.Active
	f := a.opts.Formatter

	bills := a.m.Bills()
	used := plan.UploadsThisMonth(bills, a.m.Now())
	quota := plan.Unlimited
	if remaining := a.m.RemainingUploads(); remaining >= 0 {
		quota = used + remaining
	}

	var rows []string

	header := components.QuotaBar("Uploads this month", used, quota, 20)
	if a.m.CanUploadBill() {
		header += lipgloss.NewStyle().Foreground(t.TextDim).Render("   n add bill")
	}
	rows = append(rows, components.ContentCard("", header, cw))

	if !a.m.CanUploadBill() {
		upsell := fmt.Sprintf("You've used all %d free uploads this month.\n", quota) +
			lipgloss.NewStyle().Foreground(t.TextMuted).Render("Upgrade to Pro for unlimited bills, forecasts and personalized tips. Press p to see plans.")
		rows = append(rows, components.FocusCard("Upload limit reached", upsell, cw, t.Premium))
	}

	sorted := analytics.SortByPeriod(bills)
	if len(sorted) == 0 {
		empty := lipgloss.NewStyle().Foreground(t.TextMuted).Render("No bills yet. Press n to add your first one.")
		rows = append(rows, components.ContentCard("Your bills", empty, cw))
		return strings.Join(rows, "\n")
	}

	inner := components.CardInnerWidth(cw)
	headStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	selStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceHover).Bold(true)

	line := func(period, kwh, amount, photo, added string) string {
		return fmt.Sprintf("%-10s %12s %14s %6s  %s", period, kwh, amount, photo, added)
	}

	var b strings.Builder
	b.WriteString(headStyle.Render(line("Month", "Consumption", "Amount", "Photo", "Added")))
	b.WriteString("\n")
	cursor := min(a.billCursor, len(sorted)-1)
	for i, bill := range sorted {
		photo := ""
		if bill.ImageRef != "" {
			photo = "✓"
		}
		text := line(bill.Period.Label(), f.KWh(bill.ConsumptionKWh), f.Money(bill.AmountDue), photo,
			bill.CreatedAt.In(a.m.Now().Location()).Format("02 Jan 2006"))
		text = fmt.Sprintf("%-*s", inner, truncStr(text, inner))
		if i == cursor {
			b.WriteString(selStyle.Render(text))
		} else {
			b.WriteString(rowStyle.Render(text))
		}
		b.WriteString("\n")
	}
	b.WriteString(lipgloss.NewStyle().Foreground(t.TextDim).Render("j/k select · x delete"))

	rows = append(rows, components.ContentCard(fmt.Sprintf("Your bills (%d)", len(sorted)), b.String(), cw))
	return strings.Join(rows, "\n")
}
