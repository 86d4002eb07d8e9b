package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/cashburn/internal/cli"
	"github.com/theirongolddev/cashburn/internal/pipeline"
)

var reportCmd = &cobra.Command{
	Use:   "report <files or directories...>",
	Short: "Burn, runway and zero-cash date per ledger",
	RunE:  runReport,
}

func init() {
	rootCmd.RunE = runReport
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && !cmd.HasParent() {
		return cmd.Help()
	}

	set, err := loadReports(args)
	if err != nil {
		return err
	}

	if flagJSON {
		return printJSON(set, func(fr pipeline.FileReport) any { return fr.Report })
	}

	return eachReport(set, func(fr pipeline.FileReport) {
		rep := fr.Report

		fmt.Println()
		fmt.Println(cli.RenderTitle("CASH BURN  " + fr.Name))
		fmt.Println()
		fmt.Print(cli.RenderMetrics(rep.Metrics))
		fmt.Println()

		rows := [][]string{
			{"Rows analysed", cli.FormatNumber(int64(rep.Metrics.Rows))},
			{"Rows skipped", cli.FormatNumber(int64(rep.DroppedRows))},
			{"Months to zero", fmt.Sprintf("%.4f", rep.Metrics.MonthsToZero)},
		}
		if tr := rep.Trend; tr != nil && len(tr.Raw) > 0 {
			vals := make([]float64, len(tr.Raw))
			for i, p := range tr.Raw {
				vals[i] = p.Value
			}
			rows = append(rows, []string{"---"}, []string{"Trend (" + tr.Column + ")", cli.RenderSparkline(vals)})
		}
		fmt.Print(cli.RenderTable(cli.Table{Headers: []string{"Ledger", "Value"}, Rows: rows}))

		if rep.DroppedRows > 0 {
			fmt.Println(cli.RenderWarning(fmt.Sprintf("%d of %d rows skipped: unparseable date",
				rep.DroppedRows, rep.TotalRows)))
		}
		if rep.Metrics.MonthsToZero < 0 {
			fmt.Println(cli.RenderWarning("cash grew on average; the zero-cash date lies before the first row"))
		}
	})
}
