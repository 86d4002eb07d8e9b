package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/theirongolddev/cashburn/internal/tui/theme"
)

func init() {
	// Force TrueColor output so ANSI codes are generated in tests
	lipgloss.SetColorProfile(termenv.TrueColor)
}

func TestCardRowBackgroundFill(t *testing.T) {
	theme.SetActive("flexoki-dark")

	shortCard := ContentCard("Short", "Content", 22)
	tallCard := ContentCard("Tall", "Line 1\nLine 2\nLine 3\nLine 4\nLine 5", 22)

	shortLines := len(strings.Split(shortCard, "\n"))
	tallLines := len(strings.Split(tallCard, "\n"))
	if shortLines >= tallLines {
		t.Fatal("Test setup error: short card should be shorter than tall card")
	}

	joined := CardRow([]string{tallCard, shortCard})
	lines := strings.Split(joined, "\n")

	if len(lines) != tallLines {
		t.Errorf("Joined height should match tallest card: got %d, want %d", len(lines), tallLines)
	}

	// Padding below the short card must still carry background styling.
	for i := shortLines; i < len(lines); i++ {
		if !strings.Contains(lines[i], "\x1b[") {
			t.Errorf("Line %d has no ANSI codes: %q", i, lines[i])
		}
	}
}

func TestCardRowWidthConsistency(t *testing.T) {
	theme.SetActive("flexoki-dark")

	shortCard := ContentCard("Short", "A", 30)
	tallCard := ContentCard("Tall", "A\nB\nC\nD\nE\nF", 20)

	joined := CardRow([]string{tallCard, shortCard})
	lines := strings.Split(joined, "\n")

	want := lipgloss.Width(lines[0])
	for i, line := range lines {
		if w := lipgloss.Width(line); w != want {
			t.Errorf("Line %d width = %d, want %d", i, w, want)
		}
	}
}

func TestMetricCardRowSumsToWidth(t *testing.T) {
	theme.SetActive("flexoki-dark")

	row := MetricCardRow([]Metric{
		{Label: "Average Monthly Burn", Value: "$116.67"},
		{Label: "Runway", Value: "7.71 Months"},
		{Label: "Zero Cash Date", Value: "08/23/2024", Color: theme.Active.Burn},
	}, 90)

	for i, line := range strings.Split(row, "\n") {
		if w := lipgloss.Width(line); w != 90 {
			t.Errorf("line %d width = %d, want 90", i, w)
		}
	}
	if !strings.Contains(row, "08/23/2024") {
		t.Error("missing zero cash date value")
	}
}

func TestLayoutRow(t *testing.T) {
	got := LayoutRow(10, 3)
	if len(got) != 3 || got[0] != 4 || got[1] != 3 || got[2] != 3 {
		t.Errorf("LayoutRow(10, 3) = %v", got)
	}
	if LayoutRow(10, 0) != nil {
		t.Error("LayoutRow with n=0 should be nil")
	}
}
