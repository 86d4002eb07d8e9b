package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/cashburn/internal/cli"
	"github.com/theirongolddev/cashburn/internal/model"
	"github.com/theirongolddev/cashburn/internal/tui/theme"
)

// Sparkline renders a unicode sparkline scaled between the series minimum
// and maximum.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	t := theme.Active

	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	style := lipgloss.NewStyle().Foreground(color).Background(t.Surface)

	var buf strings.Builder
	buf.Grow(len(values) * 3)
	for _, v := range values {
		idx := int((v - lo) / span * float64(len(blocks)-1))
		idx = max(0, min(idx, len(blocks)-1))
		buf.WriteRune(blocks[idx])
	}

	return style.Render(buf.String())
}

// BarChart renders a vertical bar chart with a labelled y-axis. Negative
// values are drawn as empty bars.
func BarChart(values []float64, labels []string, color lipgloss.Color, width, height int) string {
	if len(values) == 0 {
		return ""
	}
	if width < 15 || height < 3 {
		return Sparkline(values, color)
	}

	t := theme.Active

	maxVal := 0.0
	for _, v := range values {
		maxVal = math.Max(maxVal, v)
	}
	if maxVal == 0 {
		maxVal = 1
	}

	// Y-axis: compute tick step and ceiling
	tickStep := chartTickStep(maxVal)
	maxIntervals := max(height/2, 2)
	for int(math.Ceil(maxVal/tickStep)) > maxIntervals {
		tickStep *= 2
	}
	ceiling := math.Ceil(maxVal/tickStep) * tickStep
	numIntervals := max(int(math.Round(ceiling/tickStep)), 1)

	rowsPerTick := max(height/numIntervals, 2)
	chartH := rowsPerTick * numIntervals

	yLabelW := max(len(formatChartLabel(ceiling))+1, 4)
	tickLabels := make(map[int]string)
	for i := 1; i <= numIntervals; i++ {
		tickLabels[i*rowsPerTick] = formatChartLabel(tickStep * float64(i))
	}

	chartW := max(width-yLabelW-1, 5)
	n := len(values)

	// Bar sizing; too many bars are sampled down to fit.
	gap := 1
	if n <= 1 {
		gap = 0
	}
	barW := chartW
	if n > 1 {
		barW = (chartW - (n - 1)) / n
	}
	if barW < 2 && n > 1 {
		maxN := max((chartW+1)/3, 2)
		sampled := make([]float64, maxN)
		var sampledLabels []string
		if len(labels) == n {
			sampledLabels = make([]string, maxN)
		}
		for i := range sampled {
			src := i * (n - 1) / (maxN - 1)
			sampled[i] = values[src]
			if sampledLabels != nil {
				sampledLabels[i] = labels[src]
			}
		}
		values, labels, n, barW = sampled, sampledLabels, maxN, 2
	}
	barW = min(barW, 6)
	axisLen := n*barW + max(0, n-1)*gap

	blocks := []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	axisStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	barStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface)
	blankStyle := lipgloss.NewStyle().Background(t.Surface)

	var b strings.Builder
	for row := chartH; row >= 1; row-- {
		rowTop := ceiling * float64(row) / float64(chartH)
		rowBottom := ceiling * float64(row-1) / float64(chartH)

		b.WriteString(axisStyle.Render(fmt.Sprintf("%*s", yLabelW, tickLabels[row])))
		b.WriteString(axisStyle.Render("│"))

		for i, v := range values {
			if i > 0 && gap > 0 {
				b.WriteString(blankStyle.Render(strings.Repeat(" ", gap)))
			}
			switch {
			case v >= rowTop:
				b.WriteString(barStyle.Render(strings.Repeat("█", barW)))
			case v > rowBottom:
				idx := int((v - rowBottom) / (rowTop - rowBottom) * 8)
				idx = max(1, min(idx, 8))
				b.WriteString(barStyle.Render(strings.Repeat(string(blocks[idx]), barW)))
			default:
				b.WriteString(blankStyle.Render(strings.Repeat(" ", barW)))
			}
		}
		b.WriteString("\n")
	}

	b.WriteString(axisStyle.Render(fmt.Sprintf("%*s", yLabelW, "0")))
	b.WriteString(axisStyle.Render("└" + strings.Repeat("─", axisLen)))

	if len(labels) == n && n > 0 {
		b.WriteString("\n")
		b.WriteString(blankStyle.Render(strings.Repeat(" ", yLabelW+1)))
		b.WriteString(axisStyle.Render(placeLabels(labels, barW, gap, axisLen)))
	}

	return b.String()
}

// LineChart plots a smoothed curve with raw points overlaid as markers.
// When curve is empty only the markers are drawn.
func LineChart(curve, raw []model.Point, width, height int) string {
	if len(curve)+len(raw) == 0 || width < 20 || height < 3 {
		return ""
	}
	t := theme.Active

	all := append(append([]model.Point(nil), curve...), raw...)
	lo, hi := all[0].Value, all[0].Value
	start, end := all[0].Date, all[0].Date
	for _, p := range all[1:] {
		lo = math.Min(lo, p.Value)
		hi = math.Max(hi, p.Value)
		if p.Date.Before(start) {
			start = p.Date
		}
		if p.Date.After(end) {
			end = p.Date
		}
	}
	if hi == lo {
		hi = lo + 1
	}

	hiLabel, loLabel := cli.FormatCompactMoney(hi), cli.FormatCompactMoney(lo)
	yLabelW := max(len(hiLabel), len(loLabel)) + 1
	plotW := max(width-yLabelW-1, 10)

	span := end.Sub(start).Seconds()
	col := func(p model.Point) int {
		if span == 0 {
			return 0
		}
		c := int(math.Round(p.Date.Sub(start).Seconds() / span * float64(plotW-1)))
		return max(0, min(c, plotW-1))
	}
	row := func(v float64) int {
		r := int(math.Round((hi - v) / (hi - lo) * float64(height-1)))
		return max(0, min(r, height-1))
	}

	const (
		empty = iota
		curveCell
		markerCell
	)
	grid := make([][]int, height)
	for i := range grid {
		grid[i] = make([]int, plotW)
	}
	for _, p := range curve {
		grid[row(p.Value)][col(p)] = curveCell
	}
	for _, p := range raw {
		grid[row(p.Value)][col(p)] = markerCell
	}

	axisStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	curveStyle := lipgloss.NewStyle().Foreground(t.Curve).Background(t.Surface)
	markerStyle := lipgloss.NewStyle().Foreground(t.Marker).Background(t.Surface).Bold(true)
	blankStyle := lipgloss.NewStyle().Background(t.Surface)

	var b strings.Builder
	for r, cells := range grid {
		label := ""
		switch r {
		case 0:
			label = hiLabel
		case height - 1:
			label = loLabel
		}
		b.WriteString(axisStyle.Render(fmt.Sprintf("%*s│", yLabelW, label)))
		for _, c := range cells {
			switch c {
			case markerCell:
				b.WriteString(markerStyle.Render("●"))
			case curveCell:
				b.WriteString(curveStyle.Render("•"))
			default:
				b.WriteString(blankStyle.Render(" "))
			}
		}
		b.WriteString("\n")
	}
	b.WriteString(axisStyle.Render(strings.Repeat(" ", yLabelW) + "└" + strings.Repeat("─", plotW)))
	b.WriteString("\n")

	first, last := cli.FormatDate(start), cli.FormatDate(end)
	gap := max(1, plotW-len(first)-len(last))
	b.WriteString(axisStyle.Render(strings.Repeat(" ", yLabelW+1) + first + strings.Repeat(" ", gap) + last))

	return b.String()
}

// placeLabels lays x-axis labels under their bars, skipping any that would
// overlap the previous one. The last label is always attempted.
func placeLabels(labels []string, barW, gap, axisLen int) string {
	n := len(labels)
	buf := []byte(strings.Repeat(" ", axisLen))

	lastEnd := -1
	put := func(i int) {
		pos := i * (barW + gap)
		lbl := labels[i]
		if pos+len(lbl) > axisLen {
			pos = axisLen - len(lbl)
		}
		if pos < 0 || pos <= lastEnd {
			return
		}
		copy(buf[pos:], lbl)
		lastEnd = pos + len(lbl)
	}

	step := max(1, (n*10)/(axisLen+1))
	for i := 0; i < n-1; i += step {
		put(i)
	}
	put(n - 1)

	return strings.TrimRight(string(buf), " ")
}

// chartTickStep computes a nice tick interval targeting ~5 ticks.
func chartTickStep(maxVal float64) float64 {
	if maxVal <= 0 {
		return 1
	}
	rough := maxVal / 5
	exp := math.Floor(math.Log10(rough))
	base := math.Pow(10, exp)
	frac := rough / base

	switch {
	case frac < 1.5:
		return base
	case frac < 3.5:
		return 2 * base
	default:
		return 5 * base
	}
}

func formatChartLabel(v float64) string {
	switch {
	case v >= 1e6:
		return trimZero(fmt.Sprintf("%.1f", v/1e6)) + "M"
	case v >= 1e3:
		return trimZero(fmt.Sprintf("%.1f", v/1e3)) + "k"
	case v >= 1:
		return fmt.Sprintf("%.0f", v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}

func trimZero(s string) string {
	return strings.TrimSuffix(s, ".0")
}
