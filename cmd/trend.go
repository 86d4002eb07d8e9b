package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/cashburn/internal/cli"
	"github.com/theirongolddev/cashburn/internal/config"
	"github.com/theirongolddev/cashburn/internal/pipeline"
	"github.com/theirongolddev/cashburn/internal/smooth"
)

var (
	flagTrendColumn string
	flagTrendPoints int
	flagTrendWidth  int
	flagTrendHeight int
)

var trendCmd = &cobra.Command{
	Use:   "trend <files or directories...>",
	Short: "Smoothed trendline with the ledger rows as markers",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTrend,
}

func init() {
	trendCmd.Flags().StringVar(&flagTrendColumn, "column", "", "Column to plot: closing, opening or burn (default from config)")
	trendCmd.Flags().IntVar(&flagTrendPoints, "points", 0, fmt.Sprintf("Resampled curve points (default from config, %d)", smooth.DefaultPoints))
	trendCmd.Flags().IntVar(&flagTrendWidth, "width", 72, "Chart width in columns")
	trendCmd.Flags().IntVar(&flagTrendHeight, "height", 16, "Chart height in rows")
	rootCmd.AddCommand(trendCmd)
}

func runTrend(_ *cobra.Command, args []string) error {
	switch flagTrendColumn {
	case "":
	case config.TrendClosing, config.TrendOpening, config.TrendBurn:
		cfg.General.TrendColumn = flagTrendColumn
	default:
		return fmt.Errorf("unknown --column %q (want closing, opening or burn)", flagTrendColumn)
	}
	if flagTrendPoints != 0 {
		if flagTrendPoints < 2 {
			return fmt.Errorf("--points must be at least 2")
		}
		cfg.General.SmoothingPoints = flagTrendPoints
	}

	set, err := loadReports(args)
	if err != nil {
		return err
	}

	if flagJSON {
		return printJSON(set, func(fr pipeline.FileReport) any { return fr.Report.Trend })
	}

	return eachReport(set, func(fr pipeline.FileReport) {
		rep := fr.Report

		fmt.Println()
		fmt.Println(cli.RenderTitle(fmt.Sprintf("TREND  %s  (%s)", fr.Name, rep.Trend.Column)))
		fmt.Println()

		if rep.SmoothingSkipped {
			fmt.Println(cli.RenderWarning("trendline not smoothed: " + rep.SmoothingReason))
			fmt.Println()
		}
		fmt.Print(cli.RenderLineChart(rep.Trend.Points, rep.Trend.Raw, flagTrendWidth, flagTrendHeight))
	})
}
