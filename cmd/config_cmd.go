// Package cmd implements the cashburn CLI commands.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/cashburn/internal/config"
	"github.com/theirongolddev/cashburn/internal/ledger"
	"github.com/theirongolddev/cashburn/internal/pipeline"
	"github.com/theirongolddev/cashburn/internal/store"
)

var flagConfigRaw bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&flagConfigRaw, "toml", false, "Print the effective config as TOML")
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	if flagConfigRaw {
		return toml.NewEncoder(os.Stdout).Encode(cfg)
	}

	path := config.Path()
	if flagConfigPath != "" {
		path = flagConfigPath
	}
	fmt.Printf("  Config file: %s\n", path)
	if config.Exists() || flagConfigPath != "" {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Current balance:   %s row\n", cfg.General.CurrentBalance)
	fmt.Printf("    Trend column:      %s\n", cfg.General.TrendColumn)
	fmt.Printf("    Smoothing points:  %d\n", cfg.General.SmoothingPoints)
	if len(cfg.General.DateLayouts) > 0 {
		fmt.Printf("    Extra layouts:     %s\n", strings.Join(cfg.General.DateLayouts, ", "))
	}
	fmt.Println()

	s := cfg.Schema
	fmt.Println("  [Schema]")
	fmt.Printf("    Required:          %s\n", strings.Join(s.Required(), ", "))
	fmt.Printf("    Optional:          %s\n", strings.Join(s.Optional(), ", "))
	if len(s.AssumptionColumns) > 0 {
		fmt.Printf("    Assumptions:       %s\n", strings.Join(s.AssumptionColumns, ", "))
	} else {
		fmt.Printf("    Assumptions:       headers containing %q\n", s.AssumptionMatch)
	}
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Server]")
	fmt.Printf("    Address:    %s\n", cfg.Server.Addr)
	fmt.Printf("    Max upload: %d MB\n", cfg.Server.MaxUploadMB)
	fmt.Println()

	fmt.Println("  [Log]")
	fmt.Printf("    Level: %s  Pretty: %v\n", cfg.Log.Level, cfg.Log.Pretty)
	fmt.Println()

	fmt.Println("  [Cache]")
	fmt.Printf("    Path: %s\n", pipeline.CachePath())
	if cache, err := store.Open(pipeline.CachePath()); err == nil {
		if n, err := cache.LedgerCount(); err == nil {
			fmt.Printf("    Ledgers cached: %d  (options %s)\n", n, ledger.OptionsFor(cfg).Fingerprint())
		}
		_ = cache.Close()
	}
	fmt.Println()

	fmt.Println("  Run `cashburn setup` to reconfigure.")
	return nil
}
