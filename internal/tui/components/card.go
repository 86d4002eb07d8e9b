// Package components provides reusable TUI widgets for the cashburn dashboard.
package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/cashburn/internal/tui/theme"
)

// Metric is one headline figure shown in a MetricCard.
type Metric struct {
	Label string
	Value string
	Note  string         // optional second line under the value
	Color lipgloss.Color // value color; TextPrimary when empty
}

// LayoutRow distributes totalWidth into n widths that sum to exactly totalWidth.
// First items absorb the remainder from integer division.
func LayoutRow(totalWidth, n int) []int {
	if n <= 0 {
		return nil
	}
	base := totalWidth / n
	remainder := totalWidth % n
	widths := make([]int, n)
	for i := range widths {
		widths[i] = base
		if i < remainder {
			widths[i]++
		}
	}
	return widths
}

// MetricCard renders a small card with a label, a value and an optional note.
// outerWidth is the total rendered width including border.
func MetricCard(m Metric, outerWidth int) string {
	t := theme.Active

	contentWidth := max(outerWidth-2, 10)

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		BorderBackground(t.Background).
		Background(t.Surface).
		Width(contentWidth).
		Padding(0, 1)

	color := m.Color
	if color == "" {
		color = t.TextPrimary
	}

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Bold(true)
	noteStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	content := labelStyle.Render(m.Label) + "\n" + valueStyle.Render(m.Value)
	if m.Note != "" {
		content += "\n" + noteStyle.Render(m.Note)
	}

	return cardStyle.Render(content)
}

// MetricCardRow renders metric cards side by side; their widths sum to
// exactly totalWidth.
func MetricCardRow(metrics []Metric, totalWidth int) string {
	if len(metrics) == 0 {
		return ""
	}

	widths := LayoutRow(totalWidth, len(metrics))
	rendered := make([]string, len(metrics))
	for i, m := range metrics {
		rendered[i] = MetricCard(m, widths[i])
	}
	return CardRow(rendered)
}

// ContentCard renders a bordered content card with an optional title.
// outerWidth controls the total rendered width including border.
func ContentCard(title, body string, outerWidth int) string {
	t := theme.Active

	contentWidth := max(outerWidth-2, 10)

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		BorderBackground(t.Background).
		Background(t.Surface).
		Width(contentWidth).
		Padding(0, 1)

	titleStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface).
		Bold(true)

	content := ""
	if title != "" {
		content = titleStyle.Render(title) + "\n"
	}
	content += body

	return cardStyle.Render(content)
}

// CardRow joins pre-rendered cards horizontally. Shorter cards are padded
// with the background color so the row has no unstyled gaps.
func CardRow(cards []string) string {
	if len(cards) == 0 {
		return ""
	}

	tallest := 0
	for _, c := range cards {
		tallest = max(tallest, lipgloss.Height(c))
	}

	bg := lipgloss.NewStyle().Background(theme.Active.Background)
	padded := make([]string, len(cards))
	for i, c := range cards {
		w := lipgloss.Width(c)
		for h := lipgloss.Height(c); h < tallest; h++ {
			c += "\n" + bg.Render(spaces(w))
		}
		padded[i] = c
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, padded...)
}

// CardInnerWidth returns the usable text width inside a ContentCard
// given its outer width (subtracts border + padding).
func CardInnerWidth(outerWidth int) int {
	return max(outerWidth-4, 10)
}

func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}
