package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/theirongolddev/cashburn/internal/config"
	"github.com/theirongolddev/cashburn/internal/tui/theme"
)

// SetupValues holds the answers collected by the setup form.
type SetupValues struct {
	Theme           string
	TrendColumn     string
	CurrentBalance  string
	SmoothingPoints string
	AssumptionMatch string
}

// SetupValuesFrom seeds the form with the current configuration.
func SetupValuesFrom(cfg config.Config) SetupValues {
	return SetupValues{
		Theme:           cfg.Appearance.Theme,
		TrendColumn:     cfg.General.TrendColumn,
		CurrentBalance:  cfg.General.CurrentBalance,
		SmoothingPoints: strconv.Itoa(cfg.General.SmoothingPoints),
		AssumptionMatch: cfg.Schema.AssumptionMatch,
	}
}

// Apply copies the answers into cfg. Invalid or empty answers leave the
// existing value alone.
func (v SetupValues) Apply(cfg *config.Config) {
	if v.Theme != "" {
		cfg.Appearance.Theme = v.Theme
	}
	switch v.TrendColumn {
	case config.TrendClosing, config.TrendOpening, config.TrendBurn:
		cfg.General.TrendColumn = v.TrendColumn
	}
	switch v.CurrentBalance {
	case config.BalanceFirst, config.BalanceLatest:
		cfg.General.CurrentBalance = v.CurrentBalance
	}
	if n, err := strconv.Atoi(strings.TrimSpace(v.SmoothingPoints)); err == nil && n >= 2 {
		cfg.General.SmoothingPoints = n
	}
	if m := strings.TrimSpace(v.AssumptionMatch); m != "" {
		cfg.Schema.AssumptionMatch = m
	}
}

// NewSetupForm builds the setup wizard. Answers are written into vals.
func NewSetupForm(vals *SetupValues) *huh.Form {
	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, th := range theme.All {
		themeOpts = append(themeOpts, huh.NewOption(th.Name, th.Name))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to cashburn").
				Description("A few questions about how your ledgers should be read.\nRun `cashburn setup` anytime to change them."),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Which balance is the current one?").
				Description("Months of runway divide this balance by the average burn.").
				Options(
					huh.NewOption("First row's closing balance", config.BalanceFirst),
					huh.NewOption("Latest row's closing balance", config.BalanceLatest),
				).
				Value(&vals.CurrentBalance),
			huh.NewSelect[string]().
				Title("Trendline column").
				Options(
					huh.NewOption("Closing balance", config.TrendClosing),
					huh.NewOption("Opening balance", config.TrendOpening),
					huh.NewOption("Monthly burn", config.TrendBurn),
				).
				Value(&vals.TrendColumn),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Trendline resolution (points)").
				Value(&vals.SmoothingPoints).
				Validate(validatePoints),
			huh.NewInput().
				Title("Assumption column marker").
				Description("Columns whose header contains this text are listed as assumptions.").
				Value(&vals.AssumptionMatch),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&vals.Theme),
		),
	).WithTheme(huh.ThemeDracula())
}

func validatePoints(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("enter a whole number")
	}
	if n < 2 {
		return fmt.Errorf("need at least 2 points")
	}
	return nil
}
