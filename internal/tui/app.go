// Package tui provides the interactive Bubble Tea front end for energipro.
package tui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/theirongolddev/energipro/internal/cli"
	"github.com/theirongolddev/energipro/internal/config"
	"github.com/theirongolddev/energipro/internal/plan"
	"github.com/theirongolddev/energipro/internal/session"
	"github.com/theirongolddev/energipro/internal/store"
	"github.com/theirongolddev/energipro/internal/tui/components"
	"github.com/theirongolddev/energipro/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// Options configures an App.
type Options struct {
	// Blobs stores bill photos. Nil disables photo attachments.
	Blobs     store.BlobStore
	Opener    plan.Opener
	Formatter cli.Formatter
	Welcome   config.WelcomeConfig
	Logger    *slog.Logger
}

// App is the root Bubble Tea model. Navigation state lives in the session
// machine; App only holds what is needed to draw it.
type App struct {
	ctx  context.Context
	m    *session.Machine
	opts Options
	log  *slog.Logger

	// UI state
	width    int
	height   int
	showHelp bool
	notice   string

	// Authentication (huh form)
	authForm *huh.Form
	authVals *authValues
	authErr  string

	// Welcome animation
	welcome welcomeState
	spinner spinner.Model

	// Onboarding quiz (huh form)
	quizForm *huh.Form
	quizVals *quizValues

	// Per-tab state
	planCursor    int
	billCursor    int
	billForm      *huh.Form
	billVals      *billValues
	confirmDelete string // bill ID awaiting y/N
}

const (
	minTerminalWidth = 60
	maxContentWidth  = 140
	minContentHeight = 5
	maxFormWidth     = 64
)

// NewApp creates the TUI model around m. m should already be resumed.
func NewApp(ctx context.Context, m *session.Machine, opts Options) App {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Formatter == (cli.Formatter{}) {
		opts.Formatter = cli.NewFormatter("", "")
	}
	if opts.Welcome.Pulses <= 0 {
		opts.Welcome = config.DefaultConfig().Welcome
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent)

	a := App{
		ctx:     ctx,
		m:       m,
		opts:    opts,
		log:     opts.Logger,
		spinner: sp,
	}
	a.syncPlanCursor()
	switch m.Screen() {
	case session.ScreenAuth:
		a.authVals = &authValues{mode: session.ModeLogin}
		a.authForm = newAuthForm(a.authVals)
	case session.ScreenOnboarding:
		a.quizVals = &quizValues{}
		a.quizForm = newQuizForm(a.quizVals)
	}
	return a
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.EnableMouseCellMotion}
	for _, f := range []*huh.Form{a.authForm, a.quizForm} {
		if f != nil {
			cmds = append(cmds, f.Init())
		}
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.resizeForms()
		return a, nil

	case tea.MouseMsg:
		return a.updateMouse(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		return a.updateKey(msg)

	case welcomePulseMsg:
		return a.updateWelcomePulse(msg)

	case welcomeDoneMsg:
		return a.finishWelcome(msg.handle)

	case checkoutOpenedMsg:
		if msg.err != nil {
			a.log.Warn("opening checkout", "err", msg.err)
			a.notice = "Open " + msg.checkout.URL + " to subscribe"
		} else {
			a.notice = fmt.Sprintf("Checkout opened in your browser. Once paid, run `energipro plan activate %s`", msg.checkout.Tier)
		}
		return a, nil

	case spinner.TickMsg:
		if a.m.Screen() == session.ScreenWelcome {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	// Forward unhandled messages to the active form (cursor blinks, group changes).
	return a.forwardToForm(msg)
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.m.Screen() {
	case session.ScreenLanding:
		return a.updateLanding(msg)
	case session.ScreenAuth:
		return a.updateAuth(msg)
	case session.ScreenWelcome:
		switch msg.String() {
		case "enter", " ", "esc":
			return a.finishWelcome(a.welcome.handle)
		}
		return a, nil
	case session.ScreenOnboarding:
		return a.updateQuiz(msg)
	default:
		return a.updateMain(msg)
	}
}

func (a App) forwardToForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch {
	case a.m.Screen() == session.ScreenAuth && a.authForm != nil:
		return a.updateAuth(msg)
	case a.m.Screen() == session.ScreenOnboarding && a.quizForm != nil:
		return a.updateQuiz(msg)
	case a.m.Screen() == session.ScreenMain && a.billForm != nil:
		return a.updateBillForm(msg)
	}
	return a, nil
}

func (a App) updateMain(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.billForm != nil {
		return a.updateBillForm(msg)
	}

	key := msg.String()
	a.notice = ""

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	if a.confirmDelete != "" {
		return a.resolveDelete(key == "y" || key == "Y")
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "L":
		return a.logout()
	case "left":
		a.setTab((a.activeTab() - 1 + len(components.Tabs)) % len(components.Tabs))
		return a, nil
	case "right", "tab":
		a.setTab((a.activeTab() + 1) % len(components.Tabs))
		return a, nil
	}

	if r := []rune(key); len(r) == 1 {
		if idx := components.TabIdxByKey(r[0]); idx >= 0 {
			a.setTab(idx)
			return a, nil
		}
	}

	switch a.m.View() {
	case session.ViewPlans:
		return a.updatePlansKey(key)
	case session.ViewUpload:
		return a.updateBillsKey(key)
	default:
		if key == "u" {
			a.setTab(slices.Index(session.Views, session.ViewPlans))
		}
		return a, nil
	}
}

func (a App) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if a.m.Screen() != session.ScreenMain || a.showHelp || a.billForm != nil {
		return a, nil
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if a.m.View() == session.ViewUpload && a.billCursor > 0 {
			a.billCursor--
		}
	case tea.MouseButtonWheelDown:
		if a.m.View() == session.ViewUpload && a.billCursor < len(a.m.Bills())-1 {
			a.billCursor++
		}
	case tea.MouseButtonLeft:
		if msg.Action == tea.MouseActionPress && msg.Y == 0 {
			if tab := a.tabAtX(msg.X); tab >= 0 {
				a.setTab(tab)
			}
		}
	}
	return a, nil
}

func (a App) logout() (tea.Model, tea.Cmd) {
	a.m.Logout(a.ctx)
	a.billForm, a.billVals = nil, nil
	a.authForm, a.authVals, a.authErr = nil, nil, ""
	a.quizForm, a.quizVals = nil, nil
	a.billCursor, a.confirmDelete = 0, ""
	a.welcome = welcomeState{}
	a.syncPlanCursor()
	a.notice = "Signed out"
	return a, nil
}

func (a App) activeTab() int {
	return slices.Index(session.Views, a.m.View())
}

func (a *App) setTab(idx int) {
	if idx < 0 || idx >= len(session.Views) {
		return
	}
	if err := a.m.SetView(session.Views[idx]); err != nil {
		a.log.Debug("switching tab", "err", err)
	}
}

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
func (a App) tabAtX(x int) int {
	return components.TabAtX(a.activeTab(), x)
}

func (a *App) resizeForms() {
	w := min(a.width-6, maxFormWidth)
	for _, f := range []*huh.Form{a.authForm, a.quizForm, a.billForm} {
		if f != nil {
			f.WithWidth(w)
		}
	}
}

func (a App) sized(f *huh.Form) *huh.Form {
	if a.width > 0 {
		return f.WithWidth(min(a.width-6, maxFormWidth))
	}
	return f
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if a.showHelp {
		return a.viewHelp()
	}

	switch a.m.Screen() {
	case session.ScreenLanding:
		return a.viewLanding()
	case session.ScreenAuth:
		return a.viewAuth()
	case session.ScreenWelcome:
		return a.viewWelcome()
	case session.ScreenOnboarding:
		return a.viewOnboarding()
	default:
		return a.viewMain()
	}
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  energipro needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Energy).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	var b strings.Builder
	b.WriteString(titleStyle.Render("⚡ Keyboard Shortcuts"))
	b.WriteString("\n\n")

	sections := []struct {
		title    string
		bindings []struct{ key, desc string }
	}{
		{"Navigation", []struct{ key, desc string }{
			{"p b d", "Jump to Plans / Bills / Dashboard"},
			{"← →", "Previous / Next tab"},
			{"j k", "Move selection"},
		}},
		{"Actions", []struct{ key, desc string }{
			{"Enter", "Choose the selected plan"},
			{"n", "Add a bill"},
			{"x", "Delete the selected bill"},
			{"u", "See plans from the dashboard"},
			{"L", "Sign out and clear local data"},
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}
	for i, s := range sections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(sectionStyle.Render(s.title))
		b.WriteString("\n")
		for _, bind := range s.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-8s", bind.key)),
				descStyle.Render(bind.desc))
		}
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()))
}

func (a App) viewMain() string {
	w := a.width
	cw := a.contentWidth()

	header := components.RenderTabBar(a.activeTab(), w)

	status := components.StatusInfo{
		Plan:   a.m.Tier().Title(),
		Quota:  cli.FormatQuota(a.m.RemainingUploads()),
		Notice: a.notice,
	}
	if id, ok := a.m.Identity(); ok {
		status.User = id.DisplayName
	}
	statusBar := components.RenderStatusBar(w, status)

	contentH := max(a.height-lipgloss.Height(header)-lipgloss.Height(statusBar), minContentHeight)

	var content string
	switch {
	case a.billForm != nil:
		content = components.FocusCard("New bill", a.billForm.View(), min(cw, maxFormWidth+6), theme.Active.BorderAccent)
	case a.m.View() == session.ViewPlans:
		content = a.renderPlansTab(cw)
	case a.m.View() == session.ViewUpload:
		content = a.renderBillsTab(cw)
	default:
		content = a.renderDashboardTab(cw)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
}

// centerCard draws body inside an accent card centered on screen.
func (a App) centerCard(body string) string {
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Active.BorderAccent).
		Padding(1, 3).
		Render(body)
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card)
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}
