package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/cashburn/internal/pipeline"
	"github.com/theirongolddev/cashburn/internal/tui/components"
	"github.com/theirongolddev/cashburn/internal/tui/theme"
)

func (a App) renderTrendTab(fr *pipeline.FileReport, cw, contentH int) string {
	t := theme.Active
	tr := fr.Report.Trend
	if tr == nil || len(tr.Raw) == 0 {
		return a.renderMessage("Trendline", "No trend points in this ledger", cw)
	}

	title := fmt.Sprintf("%s Trendline (%d points)", trendTitle(tr.Column), len(tr.Points))
	chartH := max(contentH-6, 5)
	var footer string
	if fr.Report.SmoothingSkipped {
		title = trendTitle(tr.Column) + " (raw points only)"
		chartH--
		footer = lipgloss.NewStyle().Foreground(t.Warn).Background(t.Surface).
			Render("! " + fr.Report.SmoothingReason)
	}

	legend := lipgloss.NewStyle().Foreground(t.Curve).Background(t.Surface).Render("• smoothed") +
		lipgloss.NewStyle().Background(t.Surface).Render("  ") +
		lipgloss.NewStyle().Foreground(t.Marker).Background(t.Surface).Render("● ledger row")

	var body strings.Builder
	body.WriteString(components.LineChart(tr.Points, tr.Raw, components.CardInnerWidth(cw), chartH))
	body.WriteString("\n")
	body.WriteString(legend)
	if footer != "" {
		body.WriteString("\n")
		body.WriteString(footer)
	}

	return components.ContentCard(title, body.String(), cw)
}
