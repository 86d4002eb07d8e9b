package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/cashburn/internal/tui/theme"
)

// Tab represents a single tab in the tab bar.
type Tab struct {
	Name   string
	Key    rune
	KeyPos int // position of the shortcut letter in the name (-1 if not in name)
}

// Tabs defines all available tabs.
var Tabs = []Tab{
	{Name: "Overview", Key: 'o', KeyPos: 0},
	{Name: "Trend", Key: 't', KeyPos: 0},
	{Name: "Runway", Key: 'r', KeyPos: 0},
	{Name: "Assumptions", Key: 'a', KeyPos: 0},
}

const tabSep = "  "

// TabVisualWidth returns the rendered width of tab idx. Inactive tabs carry
// a bracketed shortcut that adds two cells.
func TabVisualWidth(idx, activeIdx int) int {
	tab := Tabs[idx]
	w := lipgloss.Width(tab.Name)
	if idx == activeIdx {
		return w
	}
	if tab.KeyPos < 0 || tab.KeyPos >= len(tab.Name) {
		return w + 3
	}
	return w + 2
}

// TabAtX returns the tab under column x of the tab bar, or -1.
func TabAtX(x, activeIdx int) int {
	pos := 1 // leading space
	for i := range Tabs {
		w := TabVisualWidth(i, activeIdx)
		if x >= pos && x < pos+w {
			return i
		}
		pos += w + len(tabSep)
	}
	return -1
}

// RenderTabBar renders the tab bar with the given active index.
func RenderTabBar(activeIdx int, width int) string {
	t := theme.Active

	activeStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Bold(true)

	inactiveStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted)

	keyStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Bold(true)

	dimKeyStyle := lipgloss.NewStyle().
		Foreground(t.TextDim)

	parts := make([]string, 0, len(Tabs))
	for i, tab := range Tabs {
		var rendered string
		switch {
		case i == activeIdx:
			rendered = activeStyle.Render(tab.Name)
		case tab.KeyPos >= 0 && tab.KeyPos < len(tab.Name):
			before := tab.Name[:tab.KeyPos]
			key := string(tab.Name[tab.KeyPos])
			after := tab.Name[tab.KeyPos+1:]
			rendered = inactiveStyle.Render(before) +
				dimKeyStyle.Render("[") + keyStyle.Render(key) + dimKeyStyle.Render("]") +
				inactiveStyle.Render(after)
		default:
			rendered = inactiveStyle.Render(tab.Name) +
				dimKeyStyle.Render("[") + keyStyle.Render(string(tab.Key)) + dimKeyStyle.Render("]")
		}
		parts = append(parts, rendered)
	}

	bar := " " + strings.Join(parts, tabSep)
	if width > 0 {
		bar = lipgloss.NewStyle().MaxWidth(width).Render(bar)
	}
	return bar
}

// TabIdxByKey returns the tab index for a given key press, or -1.
func TabIdxByKey(key rune) int {
	for i, tab := range Tabs {
		if tab.Key == key {
			return i
		}
	}
	return -1
}
