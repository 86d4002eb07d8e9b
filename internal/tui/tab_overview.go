package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/cashburn/internal/cli"
	"github.com/theirongolddev/cashburn/internal/config"
	"github.com/theirongolddev/cashburn/internal/model"
	"github.com/theirongolddev/cashburn/internal/pipeline"
	"github.com/theirongolddev/cashburn/internal/tui/components"
	"github.com/theirongolddev/cashburn/internal/tui/theme"
)

func (a App) renderOverviewTab(fr *pipeline.FileReport, cw int) string {
	t := theme.Active
	rep := fr.Report
	m := rep.Metrics
	var b strings.Builder

	// Row 1: headline figures
	balanceNote := "first row"
	if a.cfg.General.CurrentBalance == config.BalanceLatest {
		balanceNote = "latest row"
	}
	zeroNote := "no additional cash inflows"
	if m.NoBurn() {
		zeroNote = "no net burn"
	}

	cards := []components.Metric{
		{Label: "Avg Monthly Burn", Value: cli.FormatMoney(m.AverageMonthlyBurn), Note: fmt.Sprintf("over %d rows", m.Rows), Color: t.Burn},
		{Label: "Current Balance", Value: cli.FormatMoney(m.CurrentBalance), Note: balanceNote, Color: t.Cash},
		{Label: "Cash Burn Rate", Value: cli.FormatMonths(m.CashBurnRateMonths), Note: "of runway", Color: t.Accent},
		{Label: "Zero Cash Date", Value: cli.FormatDate(m.ZeroCashDate), Note: zeroNote, Color: t.Burn},
	}
	if a.isCompactLayout() {
		b.WriteString(components.MetricCardRow(cards[:2], cw))
		b.WriteString("\n")
		b.WriteString(components.MetricCardRow(cards[2:], cw))
	} else {
		b.WriteString(components.MetricCardRow(cards, cw))
	}
	b.WriteString("\n")

	// Row 2: the trend column per ledger row
	if tr := rep.Trend; tr != nil && len(tr.Raw) > 0 {
		vals := make([]float64, len(tr.Raw))
		for i, p := range tr.Raw {
			vals[i] = p.Value
		}
		chartH := 10
		if a.isCompactLayout() {
			chartH = 7
		}
		b.WriteString(components.ContentCard(
			fmt.Sprintf("%s by Row", trendTitle(tr.Column)),
			components.BarChart(vals, monthLabels(tr.Raw), t.Cash, components.CardInnerWidth(cw), chartH),
			cw,
		))
		b.WriteString("\n")
	}

	// Row 3: data quality notes
	if notes := reportNotes(rep); len(notes) > 0 {
		warnStyle := lipgloss.NewStyle().Foreground(t.Warn).Background(t.Surface)
		lines := make([]string, len(notes))
		for i, n := range notes {
			lines[i] = warnStyle.Render("! " + n)
		}
		b.WriteString(components.ContentCard("Notes", strings.Join(lines, "\n"), cw))
	}

	return b.String()
}

// reportNotes lists what the reader should know about how the figures were
// derived.
func reportNotes(rep *model.Report) []string {
	var notes []string
	if rep.DroppedRows > 0 {
		notes = append(notes, fmt.Sprintf("%d of %d rows skipped: unparseable date", rep.DroppedRows, rep.TotalRows))
	}
	if rep.SmoothingSkipped {
		notes = append(notes, "Trendline not smoothed: "+rep.SmoothingReason)
	}
	if rep.Metrics.NoBurn() {
		notes = append(notes, "Average burn is zero, so no zero-cash projection was made")
	}
	if rep.Metrics.MonthsToZero < 0 {
		notes = append(notes, "Cash is growing on average; the zero-cash date lies in the past")
	}
	return notes
}

func trendTitle(column string) string {
	switch column {
	case config.TrendOpening:
		return "Opening Balance"
	case config.TrendBurn:
		return "Monthly Burn"
	default:
		return "Closing Balance"
	}
}

// monthLabels builds compact x-axis labels: the year is shown on the first
// point and whenever it changes, otherwise just the month.
func monthLabels(points []model.Point) []string {
	labels := make([]string, len(points))
	prevYear := 0
	for i, p := range points {
		if y := p.Date.Year(); i == 0 || y != prevYear {
			labels[i] = p.Date.Format("Jan'06")
			prevYear = y
		} else {
			labels[i] = p.Date.Format("Jan")
		}
	}
	return labels
}
