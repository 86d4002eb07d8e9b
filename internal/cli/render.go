package cli

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/cashburn/internal/model"
)

// Theme colors (Flexoki Dark)
var (
	ColorBorder    = lipgloss.Color("#282726")
	ColorTextDim   = lipgloss.Color("#575653")
	ColorTextMuted = lipgloss.Color("#6F6E69")
	ColorText      = lipgloss.Color("#FFFCF0")
	ColorAccent    = lipgloss.Color("#3AA99F")
	ColorGreen     = lipgloss.Color("#879A39")
	ColorOrange    = lipgloss.Color("#DA702C")
	ColorRed       = lipgloss.Color("#D14D41")
	ColorBlue      = lipgloss.Color("#4385BE")
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText).
			Align(lipgloss.Center)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	valueStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	mutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	moneyStyle = lipgloss.NewStyle().
			Foreground(ColorGreen)

	curveStyle = lipgloss.NewStyle().
			Foreground(ColorBlue)

	markerStyle = lipgloss.NewStyle().
			Foreground(ColorOrange).
			Bold(true)

	alertStyle = lipgloss.NewStyle().
			Foreground(ColorRed).
			Bold(true)

	warnStyle = lipgloss.NewStyle().
			Foreground(ColorOrange)

	dimStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim)
)

// Table represents a bordered text table for CLI output.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
	Widths  []int // optional column widths, auto-calculated if nil
}

// RenderTitle renders a centered title bar in a bordered box.
func RenderTitle(title string) string {
	width := 55
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Width(width).
		Align(lipgloss.Center).
		Padding(0, 1)

	return border.Render(titleStyle.Render(title))
}

// RenderTable renders a bordered table with headers and rows.
func RenderTable(t Table) string {
	if len(t.Rows) == 0 && len(t.Headers) == 0 {
		return ""
	}

	// Calculate column widths
	numCols := len(t.Headers)
	if numCols == 0 && len(t.Rows) > 0 {
		numCols = len(t.Rows[0])
	}

	widths := make([]int, numCols)
	if t.Widths != nil {
		copy(widths, t.Widths)
	} else {
		for i, h := range t.Headers {
			if len(h) > widths[i] {
				widths[i] = len(h)
			}
		}
		for _, row := range t.Rows {
			for i, cell := range row {
				if i < numCols && len(cell) > widths[i] {
					widths[i] = len(cell)
				}
			}
		}
	}

	var b strings.Builder

	// Title above table if present
	if t.Title != "" {
		b.WriteString("  ")
		b.WriteString(headerStyle.Render(t.Title))
		b.WriteString("\n")
	}

	// Top border
	b.WriteString(dimStyle.Render("╭"))
	for i, w := range widths {
		b.WriteString(dimStyle.Render(strings.Repeat("─", w+2)))
		if i < numCols-1 {
			b.WriteString(dimStyle.Render("┬"))
		}
	}
	b.WriteString(dimStyle.Render("╮"))
	b.WriteString("\n")

	// Header row
	if len(t.Headers) > 0 {
		b.WriteString(dimStyle.Render("│"))
		for i, h := range t.Headers {
			w := widths[i]
			padded := fmt.Sprintf(" %-*s ", w, h)
			b.WriteString(headerStyle.Render(padded))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render("│"))
			}
		}
		b.WriteString(dimStyle.Render("│"))
		b.WriteString("\n")

		// Header separator
		b.WriteString(dimStyle.Render("├"))
		for i, w := range widths {
			b.WriteString(dimStyle.Render(strings.Repeat("─", w+2)))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render("┼"))
			}
		}
		b.WriteString(dimStyle.Render("┤"))
		b.WriteString("\n")
	}

	// Data rows
	for _, row := range t.Rows {
		if len(row) == 1 && row[0] == "---" {
			// Separator row
			b.WriteString(dimStyle.Render("├"))
			for i, w := range widths {
				b.WriteString(dimStyle.Render(strings.Repeat("─", w+2)))
				if i < numCols-1 {
					b.WriteString(dimStyle.Render("┼"))
				}
			}
			b.WriteString(dimStyle.Render("┤"))
			b.WriteString("\n")
			continue
		}

		b.WriteString(dimStyle.Render("│"))
		for i := 0; i < numCols; i++ {
			w := widths[i]
			cell := ""
			if i < len(row) {
				cell = row[i]
			}

			// Right-align numeric columns (all except first)
			var padded string
			if i == 0 {
				padded = fmt.Sprintf(" %-*s ", w, cell)
			} else {
				padded = fmt.Sprintf(" %*s ", w, cell)
			}
			b.WriteString(valueStyle.Render(padded))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render("│"))
			}
		}
		b.WriteString(dimStyle.Render("│"))
		b.WriteString("\n")
	}

	// Bottom border
	b.WriteString(dimStyle.Render("╰"))
	for i, w := range widths {
		b.WriteString(dimStyle.Render(strings.Repeat("─", w+2)))
		if i < numCols-1 {
			b.WriteString(dimStyle.Render("┴"))
		}
	}
	b.WriteString(dimStyle.Render("╯"))
	b.WriteString("\n")

	return b.String()
}

// RenderProgressBar renders a simple text progress bar.
func RenderProgressBar(current, total int, width int) string {
	if total <= 0 {
		return ""
	}

	pct := float64(current) / float64(total)
	if pct > 1 {
		pct = 1
	}

	filled := int(pct * float64(width))
	if filled > width {
		filled = width
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return fmt.Sprintf("[%s] %s/%s",
		mutedStyle.Render(bar),
		FormatNumber(int64(current)),
		FormatNumber(int64(total)),
	)
}

// RenderSparkline generates a unicode block sparkline from a series of
// values, scaled between the series minimum and maximum.
func RenderSparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}

	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	lo, hi := bounds(values)
	span := hi - lo
	if span == 0 {
		span = 1
	}

	var b strings.Builder
	for _, v := range values {
		idx := int((v - lo) / span * float64(len(blocks)-1))
		idx = max(0, min(idx, len(blocks)-1))
		b.WriteRune(blocks[idx])
	}

	return b.String()
}

// RenderHorizontalBar renders one labelled bar of a horizontal bar chart.
// Negative values render as an empty bar.
func RenderHorizontalBar(label string, value, maxValue float64, maxWidth int, valueText string) string {
	barLen := 0
	if maxValue > 0 {
		barLen = int(value / maxValue * float64(maxWidth))
	}
	barLen = max(0, min(barLen, maxWidth))

	bar := strings.Repeat("█", barLen)
	return fmt.Sprintf("  %s %s %s",
		mutedStyle.Render(label),
		moneyStyle.Render(fmt.Sprintf("%-*s", maxWidth, bar)),
		valueStyle.Render(valueText))
}

// RenderMetrics renders the headline figures of a report: average burn,
// runway and the projected zero-cash date.
func RenderMetrics(m model.Metrics) string {
	var b strings.Builder

	row := func(label, value string) {
		b.WriteString("  ")
		b.WriteString(mutedStyle.Render(fmt.Sprintf("%-22s", label)))
		b.WriteString(value)
		b.WriteString("\n")
	}

	row("Average Monthly Burn", moneyStyle.Render(FormatMoney(m.AverageMonthlyBurn)))
	row("Current Balance", valueStyle.Render(FormatMoney(m.CurrentBalance)))
	row("Cash Burn Rate", valueStyle.Render(FormatMonths(m.CashBurnRateMonths)))

	b.WriteString("\n  ")
	b.WriteString(headerStyle.Render("Zero Cash Date (Assumption: No Additional Cash Inflows)"))
	b.WriteString("\n  ")
	if m.NoBurn() {
		b.WriteString(mutedStyle.Render(FormatDate(m.ZeroCashDate) + "  (no net burn, no projection)"))
	} else {
		b.WriteString(alertStyle.Render(FormatDate(m.ZeroCashDate)))
	}
	b.WriteString("\n")

	return b.String()
}

// RenderLineChart plots a smoothed curve with the raw points overlaid as
// markers. Either series may be empty; when curve is empty only the markers
// are drawn.
func RenderLineChart(curve, raw []model.Point, width, height int) string {
	all := make([]model.Point, 0, len(curve)+len(raw))
	all = append(all, curve...)
	all = append(all, raw...)
	if len(all) == 0 || width < 10 || height < 3 {
		return ""
	}

	values := make([]float64, len(all))
	start, end := all[0].Date, all[0].Date
	for i, p := range all {
		values[i] = p.Value
		if p.Date.Before(start) {
			start = p.Date
		}
		if p.Date.After(end) {
			end = p.Date
		}
	}
	lo, hi := bounds(values)
	if hi == lo {
		hi = lo + 1
	}

	span := end.Sub(start).Seconds()
	col := func(p model.Point) int {
		if span == 0 {
			return 0
		}
		c := int(math.Round(p.Date.Sub(start).Seconds() / span * float64(width-1)))
		return max(0, min(c, width-1))
	}
	line := func(v float64) int {
		r := int(math.Round((hi - v) / (hi - lo) * float64(height-1)))
		return max(0, min(r, height-1))
	}

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", width))
	}
	for _, p := range curve {
		grid[line(p.Value)][col(p)] = '·'
	}
	for _, p := range raw {
		grid[line(p.Value)][col(p)] = '●'
	}

	hiLabel, loLabel := FormatCompactMoney(hi), FormatCompactMoney(lo)
	labelW := max(len(hiLabel), len(loLabel))

	var b strings.Builder
	for r, cells := range grid {
		label := ""
		switch r {
		case 0:
			label = hiLabel
		case height - 1:
			label = loLabel
		}
		b.WriteString(dimStyle.Render(fmt.Sprintf("%*s │", labelW, label)))
		for _, c := range cells {
			switch c {
			case '●':
				b.WriteString(markerStyle.Render(string(c)))
			case '·':
				b.WriteString(curveStyle.Render(string(c)))
			default:
				b.WriteRune(c)
			}
		}
		b.WriteString("\n")
	}

	b.WriteString(dimStyle.Render(strings.Repeat(" ", labelW+1) + "└" + strings.Repeat("─", width)))
	b.WriteString("\n")

	first, last := FormatDate(start), FormatDate(end)
	gap := max(1, width-len(first)-len(last))
	b.WriteString(strings.Repeat(" ", labelW+2))
	b.WriteString(mutedStyle.Render(first + strings.Repeat(" ", gap) + last))
	b.WriteString("\n")

	return b.String()
}

// RenderWarning renders a one-line warning message.
func RenderWarning(msg string) string {
	return warnStyle.Render("  ! " + msg)
}

func bounds(values []float64) (lo, hi float64) {
	lo, hi = values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}
