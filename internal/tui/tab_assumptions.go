package tui

import (
	"github.com/charmbracelet/bubbles/table"

	"github.com/theirongolddev/cashburn/internal/cli"
	"github.com/theirongolddev/cashburn/internal/model"
	"github.com/theirongolddev/cashburn/internal/pipeline"
	"github.com/theirongolddev/cashburn/internal/tui/components"
)

func (a App) renderAssumptionsTab(fr *pipeline.FileReport, cw int) string {
	if len(fr.Report.Assumptions) == 0 {
		return a.renderMessage("Assumptions",
			"No assumption columns in this ledger (headers containing \""+a.cfg.Schema.AssumptionMatch+"\")", cw)
	}
	return components.ContentCard("Assumptions by Date", a.assumeTbl.View(), cw)
}

// newAssumptionsTable lays assumption columns side by side against the
// ledger dates. Column widths split the space left after the date evenly.
func newAssumptionsTable(cols []model.AssumptionColumn, cw, height int) table.Model {
	if len(cols) == 0 {
		return table.Model{}
	}
	inner := components.CardInnerWidth(cw)
	dateW := 12
	colW := max((inner-dateW)/len(cols)-2, 8)

	tcols := make([]table.Column, 0, len(cols)+1)
	tcols = append(tcols, table.Column{Title: "Date", Width: dateW})
	for _, c := range cols {
		tcols = append(tcols, table.Column{Title: truncStr(c.Name, colW), Width: colW})
	}

	n := len(cols[0].Values)
	rows := make([]table.Row, n)
	for i := range n {
		row := make(table.Row, 0, len(cols)+1)
		row = append(row, cli.FormatDate(cols[0].Values[i].Date))
		for _, c := range cols {
			row = append(row, truncStr(c.Values[i].Text, colW))
		}
		rows[i] = row
	}

	return styledTable(tcols, rows, height)
}
