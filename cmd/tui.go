package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/cashburn/internal/logger"
	"github.com/theirongolddev/cashburn/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui <files or directories...>",
	Short: "Launch interactive TUI dashboard",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, args []string) error {
	// Log lines would tear the alternate screen.
	if flagLogLevel == "" {
		logger.SetGlobalLogger(logger.New(logger.Config{Level: "error", Pretty: cfg.Log.Pretty}))
	}

	// Force TrueColor profile so all background styling produces ANSI codes
	lipgloss.SetColorProfile(termenv.TrueColor)

	app := tui.NewApp(args, cfg, !flagNoCache)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
