package cmd

import (
	"fmt"
	"os"

	"github.com/theirongolddev/energipro/internal/config"
	"github.com/theirongolddev/energipro/internal/store"
	"github.com/theirongolddev/energipro/internal/tui/theme"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration file",
	RunE:  runConfigInit,
}

func init() {
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Data directory: %s\n", cfg.DataDir())
	fmt.Printf("    Database:       %s\n", cfg.DBPath())
	if _, err := os.Stat(cfg.DBPath()); err != nil {
		fmt.Println("    Stored:         nothing yet")
	} else if st, err := store.Open(cfg.DBPath()); err == nil {
		if stats, err := st.Stats(cmd.Context()); err == nil {
			fmt.Printf("    Stored:         %d slots, %d photos (%d bytes)\n", stats.Slots, stats.Blobs, stats.BlobBytes)
		}
		_ = st.Close()
	}
	fmt.Println()

	fmt.Println("  [Plans]")
	fmt.Printf("    Free monthly quota: %d\n", cfg.Plans.FreeMonthlyQuota)
	fmt.Printf("    Checkout URL:       %s\n", cfg.Plans.CheckoutURL)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme:    %s (available: %v)\n", cfg.Appearance.Theme, theme.Names())
	fmt.Printf("    Locale:   %s\n", cfg.Appearance.Locale)
	fmt.Printf("    Currency: %s\n", cfg.Appearance.CurrencySymbol)
	fmt.Println()

	fmt.Println("  [Welcome]")
	fmt.Printf("    %d pulses every %s, then %s\n",
		cfg.Welcome.Pulses, cfg.Welcome.PulseInterval(), cfg.Welcome.Settle())
	fmt.Println()

	fmt.Println("  [Log]")
	fmt.Printf("    Level: %s\n", cfg.Log.Level)
	fmt.Printf("    File:  %s\n", cfg.LogPath())
	fmt.Println()

	fmt.Println("  Run `energipro config init` to write a config file you can edit.")
	return nil
}

func runConfigInit(_ *cobra.Command, _ []string) error {
	if config.Exists() {
		return fmt.Errorf("config file already exists: %s", config.ConfigPath())
	}
	if err := config.Save(config.DefaultConfig()); err != nil {
		return err
	}
	fmt.Printf("  Wrote %s\n", config.ConfigPath())
	return nil
}
