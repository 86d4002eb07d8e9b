package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/cashburn/internal/cli"
	"github.com/theirongolddev/cashburn/internal/pipeline"
)

var assumptionsCmd = &cobra.Command{
	Use:   "assumptions <files or directories...>",
	Short: "Assumption columns per date",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAssumptions,
}

func init() {
	rootCmd.AddCommand(assumptionsCmd)
}

func runAssumptions(_ *cobra.Command, args []string) error {
	set, err := loadReports(args)
	if err != nil {
		return err
	}

	if flagJSON {
		return printJSON(set, func(fr pipeline.FileReport) any { return fr.Report.Assumptions })
	}

	return eachReport(set, func(fr pipeline.FileReport) {
		cols := fr.Report.Assumptions

		fmt.Println()
		fmt.Println(cli.RenderTitle("ASSUMPTIONS  " + fr.Name))
		fmt.Println()

		if len(cols) == 0 {
			fmt.Println(cli.RenderWarning(fmt.Sprintf("no assumption columns (headers containing %q)",
				cfg.Schema.AssumptionMatch)))
			return
		}

		headers := []string{"Date"}
		for _, c := range cols {
			headers = append(headers, c.Name)
		}

		rows := make([][]string, len(cols[0].Values))
		for i := range rows {
			row := []string{cli.FormatDate(cols[0].Values[i].Date)}
			for _, c := range cols {
				row = append(row, c.Values[i].Text)
			}
			rows[i] = row
		}

		fmt.Print(cli.RenderTable(cli.Table{Headers: headers, Rows: rows}))
	})
}
