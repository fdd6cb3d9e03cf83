package tui

import (
	"errors"
	"strings"
	"time"

	"github.com/theirongolddev/energipro/internal/session"
	"github.com/theirongolddev/energipro/internal/tui/components"
	"github.com/theirongolddev/energipro/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

const logo = "⚡ Energipro"

// ─── Landing ────────────────────────────────────────────────────

func (a App) updateLanding(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return a, tea.Quit
	case "enter", " ":
		if err := a.m.Start(); err != nil {
			return a, nil
		}
		a.notice = ""
		next := a.startAuth()
		return a, next
	}
	return a, nil
}

func (a App) viewLanding() string {
	t := theme.Active

	logoStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Bold(true)
	taglineStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	checkStyle := lipgloss.NewStyle().Foreground(t.Energy)
	ctaStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)

	var b strings.Builder
	b.WriteString(logoStyle.Render(logo))
	b.WriteString("\n\n")
	b.WriteString(taglineStyle.Render("Understand your electricity bill."))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("Track consumption, spot trends and cut costs."))
	b.WriteString("\n\n")
	for _, feature := range []string{
		"Monthly consumption and cost history",
		"Next-month forecasts",
		"Saving tips tailored to your home",
		"Tariff flag alerts",
	} {
		b.WriteString(checkStyle.Render("✓ "))
		b.WriteString(mutedStyle.Render(feature))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(ctaStyle.Render("Press Enter to get started"))
	if a.notice != "" {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().Foreground(t.TextDim).Render(a.notice))
	}

	return a.centerCard(b.String())
}

// ─── Authentication ─────────────────────────────────────────────

func (a *App) startAuth() tea.Cmd {
	if a.authVals == nil {
		a.authVals = &authValues{mode: session.ModeLogin}
	}
	a.authForm = a.sized(newAuthForm(a.authVals))
	return a.authForm.Init()
}

func (a App) updateAuth(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		return a.leaveAuth()
	}
	if a.authForm == nil {
		next := a.startAuth()
		return a, next
	}

	form, cmd := a.authForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.authForm = f
	}

	switch a.authForm.State {
	case huh.StateCompleted:
		return a.submitAuth()
	case huh.StateAborted:
		return a.leaveAuth()
	}
	return a, cmd
}

func (a App) leaveAuth() (tea.Model, tea.Cmd) {
	if err := a.m.Back(); err != nil {
		a.log.Debug("leaving auth", "err", err)
	}
	a.authForm, a.authVals, a.authErr = nil, nil, ""
	return a, nil
}

func (a App) submitAuth() (tea.Model, tea.Cmd) {
	h, err := a.m.Authenticate(a.ctx, a.authVals.credentials())
	if err != nil {
		var verr *session.ValidationError
		if errors.As(err, &verr) {
			a.authErr = verr.Reason
		} else {
			a.authErr = err.Error()
		}
		a.authVals.password = ""
		next := a.startAuth()
		return a, next
	}

	a.authForm, a.authVals, a.authErr = nil, nil, ""
	a.welcome = welcomeState{handle: h}
	return a, tea.Batch(a.spinner.Tick, pulseCmd(h, 1, a.opts.Welcome.PulseInterval()))
}

func (a App) viewAuth() string {
	var b strings.Builder
	if a.authErr != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Active.Red).Render("✗ " + a.authErr))
		b.WriteString("\n\n")
	}
	if a.authForm != nil {
		b.WriteString(a.authForm.View())
	}
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Active.TextDim).Render("esc back"))
	return a.centerCard(b.String())
}

// ─── Welcome ────────────────────────────────────────────────────

type welcomeState struct {
	handle session.WelcomeHandle
	step   int
}

// welcomePulseMsg advances the welcome animation to step.
type welcomePulseMsg struct {
	handle session.WelcomeHandle
	step   int
}

// welcomeDoneMsg fires after the last pulse has settled.
type welcomeDoneMsg struct {
	handle session.WelcomeHandle
}

func pulseCmd(h session.WelcomeHandle, step int, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return welcomePulseMsg{handle: h, step: step}
	})
}

func settleCmd(h session.WelcomeHandle, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return welcomeDoneMsg{handle: h}
	})
}

func (a App) updateWelcomePulse(msg welcomePulseMsg) (tea.Model, tea.Cmd) {
	if !a.m.WelcomeValid(msg.handle) {
		return a, nil
	}
	a.welcome.step = msg.step
	if msg.step < a.opts.Welcome.Pulses {
		return a, pulseCmd(msg.handle, msg.step+1, a.opts.Welcome.PulseInterval())
	}
	return a, settleCmd(msg.handle, a.opts.Welcome.Settle())
}

func (a App) finishWelcome(h session.WelcomeHandle) (tea.Model, tea.Cmd) {
	ok, err := a.m.FinishWelcome(h)
	if err != nil || !ok {
		return a, nil
	}
	a.welcome = welcomeState{}
	a.syncPlanCursor()
	if a.m.Screen() == session.ScreenOnboarding {
		next := a.startQuiz()
		return a, next
	}
	return a, nil
}

func (a App) viewWelcome() string {
	t := theme.Active

	// Alternate the logo brightness on each pulse.
	logoColor := t.Accent
	if a.welcome.step%2 == 1 {
		logoColor = t.Energy
	}

	name := ""
	if id, ok := a.m.Identity(); ok {
		name = id.DisplayName
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(logoColor).Bold(true).Render(logo))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Foreground(t.TextPrimary).Render("Welcome, " + name + "!"))
	b.WriteString("\n\n")
	b.WriteString(a.spinner.View())
	b.WriteString(lipgloss.NewStyle().Foreground(t.TextMuted).Render(" Preparing your energy dashboard"))
	b.WriteString("\n\n")
	b.WriteString(components.PulseBar(a.welcome.step, a.opts.Welcome.Pulses, 32))

	return a.centerCard(b.String())
}

// ─── Onboarding ─────────────────────────────────────────────────

func (a *App) startQuiz() tea.Cmd {
	if a.quizVals == nil {
		a.quizVals = &quizValues{}
	}
	a.quizForm = a.sized(newQuizForm(a.quizVals))
	return a.quizForm.Init()
}

func (a App) updateQuiz(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.quizForm == nil {
		next := a.startQuiz()
		return a, next
	}

	form, cmd := a.quizForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.quizForm = f
	}

	switch a.quizForm.State {
	case huh.StateCompleted:
		if err := a.m.CompleteOnboarding(a.ctx, a.quizVals.profile()); err != nil {
			a.notice = err.Error()
			next := a.startQuiz()
			return a, next
		}
		a.quizForm, a.quizVals = nil, nil
		a.notice = "All set! Pick the plan that fits you."
		a.syncPlanCursor()
		return a, nil
	case huh.StateAborted:
		next := a.startQuiz()
		return a, next
	}
	return a, cmd
}

func (a App) viewOnboarding() string {
	t := theme.Active

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(t.AccentBright).Bold(true).Render("Tell us about your home"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(t.TextMuted).Render("Three quick questions so tips fit the way you live."))
	b.WriteString("\n\n")
	if a.notice != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(t.Red).Render("✗ " + a.notice))
		b.WriteString("\n\n")
	}
	if a.quizForm != nil {
		b.WriteString(a.quizForm.View())
	}
	return a.centerCard(b.String())
}
