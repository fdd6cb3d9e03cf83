// Package cmd implements the energipro CLI commands.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/theirongolddev/energipro/internal/cli"
	"github.com/theirongolddev/energipro/internal/config"
	"github.com/theirongolddev/energipro/internal/logging"
	"github.com/theirongolddev/energipro/internal/session"
	"github.com/theirongolddev/energipro/internal/store"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	flagDataDir   string
	flagEphemeral bool
	flagVerbose   bool
)

var rootCmd = &cobra.Command{
	Use:          "energipro",
	Short:        "Track and understand your electricity bills",
	Long:         "Record monthly energy bills, follow consumption trends and forecasts, and get saving tips for your home.",
	SilenceUsage: true,
	RunE:         runTUI,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagDataDir, "data-dir", "d", "", "Directory for the session database (default from config)")
	rootCmd.PersistentFlags().BoolVar(&flagEphemeral, "ephemeral", false, "Run the interactive app with an in-memory session; nothing is written to disk")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log at debug level")
}

// loadConfig reads .env, the config file and environment overrides, then
// applies command-line flags on top.
func loadConfig() (config.Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "  Warning: reading .env: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}
	if flagDataDir != "" {
		cfg.General.DataDir = flagDataDir
	}
	if flagVerbose {
		cfg.Log.Level = "debug"
	}
	return cfg, nil
}

// sessionStore is what commands need from a backing store.
type sessionStore interface {
	store.Store
	store.BlobStore
}

// env bundles the resumed session machine with its dependencies.
type env struct {
	cfg   config.Config
	m     *session.Machine
	store sessionStore
	log   *slog.Logger
	fmt   cli.Formatter
}

// openEnv opens the configured store and resumes the persisted session.
// A session that cannot be loaded starts empty; the error is logged.
func openEnv(ctx context.Context, cfg config.Config, log *slog.Logger) (*env, error) {
	var st sessionStore
	if flagEphemeral {
		st = store.NewMemory()
	} else {
		db, err := store.Open(cfg.DBPath())
		if err != nil {
			return nil, fmt.Errorf("opening session store: %w", err)
		}
		st = db
	}

	m := session.New(st,
		session.WithLogger(log),
		session.WithBlobs(st),
		session.WithPolicy(cfg.Policy()),
		session.WithCheckoutURL(cfg.Plans.CheckoutURL),
	)
	if err := m.Resume(ctx); err != nil {
		log.Warn("starting with an empty session", "err", err)
	}

	return &env{
		cfg:   cfg,
		m:     m,
		store: st,
		log:   log,
		fmt:   cli.NewFormatter(cfg.Appearance.Locale, cfg.Appearance.CurrencySymbol),
	}, nil
}

// Close releases the store.
func (e *env) Close() error {
	return e.store.Close()
}

var (
	errEphemeralCLI     = errors.New("--ephemeral only applies to the interactive app: an in-memory session has nothing to sign in with")
	errNotSignedIn      = errors.New("not signed in: run `energipro tui` to sign in")
	errOnboardingNeeded = errors.New("onboarding not finished: run `energipro tui` to complete it")
)

// requireMain fails unless the session is signed in and onboarded.
func (e *env) requireMain() error {
	switch e.m.Screen() {
	case session.ScreenMain:
		return nil
	case session.ScreenOnboarding:
		return errOnboardingNeeded
	default:
		return errNotSignedIn
	}
}

// cliEnv is the shared setup for non-interactive commands: config, a
// stderr logger and the resumed session.
func cliEnv(cmd *cobra.Command) (*env, error) {
	if flagEphemeral {
		return nil, errEphemeralCLI
	}
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	log := logging.Setup(logging.ParseLevel(cfg.Log.Level))
	return openEnv(cmd.Context(), cfg, log)
}
