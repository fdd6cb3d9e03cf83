package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/theirongolddev/energipro/internal/logging"
	"github.com/theirongolddev/energipro/internal/plan"
	"github.com/theirongolddev/energipro/internal/tui"
	"github.com/theirongolddev/energipro/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive app",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	theme.SetActive(cfg.Appearance.Theme)

	// The alternate screen owns the terminal, so logs go to a file.
	level := logging.ParseLevel(cfg.Log.Level)
	log, closer, err := logging.SetupFile(cfg.LogPath(), level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "  Warning: %v; logging disabled\n", err)
		log = logging.New(io.Discard, level, false)
	} else {
		defer closer.Close()
	}

	e, err := openEnv(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	defer e.Close()

	// Force TrueColor profile so all background styling produces ANSI codes
	lipgloss.SetColorProfile(termenv.TrueColor)

	app := tui.NewApp(cmd.Context(), e.m, tui.Options{
		Blobs:     e.store,
		Opener:    plan.BrowserOpener{},
		Formatter: e.fmt,
		Welcome:   cfg.Welcome,
		Logger:    log,
	})
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(cmd.Context()))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
