package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/cashburn/internal/cli"
	"github.com/theirongolddev/cashburn/internal/pipeline"
)

var runwayCmd = &cobra.Command{
	Use:   "runway <files or directories...>",
	Short: "Runway column per date, as a table and bar chart",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runRunway,
}

func init() {
	rootCmd.AddCommand(runwayCmd)
}

func runRunway(_ *cobra.Command, args []string) error {
	set, err := loadReports(args)
	if err != nil {
		return err
	}

	if flagJSON {
		return printJSON(set, func(fr pipeline.FileReport) any { return fr.Report.Runway })
	}

	return eachReport(set, func(fr pipeline.FileReport) {
		rows := fr.Report.Runway

		fmt.Println()
		fmt.Println(cli.RenderTitle("RUNWAY  " + fr.Name))
		fmt.Println()

		if len(rows) == 0 {
			fmt.Println(cli.RenderWarning(fmt.Sprintf("no %q column in this ledger", cfg.Schema.Runway)))
			return
		}

		tableRows := make([][]string, len(rows))
		maxMonths := 0.0
		for i, r := range rows {
			months := "-"
			if r.Months != nil {
				months = fmt.Sprintf("%.2f", *r.Months)
				maxMonths = max(maxMonths, *r.Months)
			}
			tableRows[i] = []string{cli.FormatDate(r.Date), r.Raw, months, r.BurnRate}
		}
		fmt.Print(cli.RenderTable(cli.Table{
			Headers: []string{"Date", cfg.Schema.Runway, "Months", cfg.Schema.BurnRate},
			Rows:    tableRows,
		}))
		fmt.Println()

		for _, r := range rows {
			value, text := 0.0, r.Raw
			if r.Months != nil {
				value = *r.Months
			}
			fmt.Println(cli.RenderHorizontalBar(cli.FormatDate(r.Date), value, maxMonths, 40, text))
		}
	})
}
