package cmd

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/cashburn/internal/config"
	"github.com/theirongolddev/cashburn/internal/tui"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	Args:  cobra.NoArgs,
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	vals := tui.SetupValuesFrom(cfg)
	if err := tui.NewSetupForm(&vals).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("  Setup cancelled, nothing saved.")
			return nil
		}
		return fmt.Errorf("running setup: %w", err)
	}

	vals.Apply(&cfg)

	path := config.Path()
	if flagConfigPath != "" {
		path = flagConfigPath
	}
	if err := config.SaveTo(path, cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", path)
	fmt.Println("  Run `cashburn setup` anytime to reconfigure.")
	fmt.Println()

	return nil
}
