package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/cashburn/internal/cli"
	"github.com/theirongolddev/cashburn/internal/model"
	"github.com/theirongolddev/cashburn/internal/pipeline"
	"github.com/theirongolddev/cashburn/internal/tui/components"
	"github.com/theirongolddev/cashburn/internal/tui/theme"
)

const runwayChartHeight = 8

func (a App) renderRunwayTab(fr *pipeline.FileReport, cw int) string {
	t := theme.Active
	rows := fr.Report.Runway
	if len(rows) == 0 {
		return a.renderMessage("Runway",
			fmt.Sprintf("No %q column in this ledger", a.cfg.Schema.Runway), cw)
	}

	vals := make([]float64, len(rows))
	points := make([]model.Point, len(rows))
	skipped := 0
	for i, r := range rows {
		points[i] = model.Point{Date: r.Date}
		if r.Months != nil {
			vals[i] = *r.Months
		} else {
			skipped++
		}
	}

	var b strings.Builder
	chart := components.BarChart(vals, monthLabels(points), t.Cash, components.CardInnerWidth(cw), runwayChartHeight)
	if skipped > 0 {
		chart += "\n" + lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).
			Render(fmt.Sprintf("%d non-numeric values shown as empty bars", skipped))
	}
	b.WriteString(components.ContentCard("Cash Runway (Months)", chart, cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("Runway by Date", a.runwayTbl.View(), cw))

	return b.String()
}

func newRunwayTable(rows []model.RunwayRow, cw, height int) table.Model {
	inner := components.CardInnerWidth(cw)
	dateW := 12
	numW := 12
	rawW := max((inner-dateW-numW-6)/2, 10)

	cols := []table.Column{
		{Title: "Date", Width: dateW},
		{Title: "Runway", Width: rawW},
		{Title: "Months", Width: numW},
		{Title: "Burn Rate", Width: rawW},
	}

	trows := make([]table.Row, len(rows))
	for i, r := range rows {
		months := "-"
		if r.Months != nil {
			months = fmt.Sprintf("%.2f", *r.Months)
		}
		trows[i] = table.Row{cli.FormatDate(r.Date), truncStr(r.Raw, rawW), months, truncStr(r.BurnRate, rawW)}
	}

	return styledTable(cols, trows, height)
}

// styledTable builds a focused bubbles table in the active theme.
func styledTable(cols []table.Column, rows []table.Row, height int) table.Model {
	t := theme.Active

	tbl := table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithHeight(height),
		table.WithFocused(true),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(t.Border).
		BorderBottom(true).
		Foreground(t.Accent).
		Bold(true)
	s.Cell = s.Cell.Foreground(t.TextPrimary)
	s.Selected = s.Selected.
		Foreground(t.AccentBright).
		Background(t.SurfaceHover).
		Bold(false)
	tbl.SetStyles(s)

	return tbl
}
