package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/cashburn/internal/tui/theme"
)

// StatusBar holds what the bottom bar shows besides the key hints.
type StatusBar struct {
	FileName  string
	FileIdx   int // zero-based
	FileCount int
	DataAge   string
	Flash     string // transient message, e.g. "Reloaded"
}

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, s StatusBar) string {
	t := theme.Active

	style := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface).
		Width(width)

	left := " [?]help  [q]uit"
	if s.FileCount > 1 {
		left += "  [n/p]file"
	}

	var right []string
	if s.Flash != "" {
		right = append(right, lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Render(s.Flash))
	}
	if s.FileName != "" {
		name := s.FileName
		if s.FileCount > 1 {
			name = fmt.Sprintf("%s (%d/%d)", name, s.FileIdx+1, s.FileCount)
		}
		right = append(right, name)
	}
	if s.DataAge != "" {
		right = append(right, "Data: "+s.DataAge)
	}
	rightText := strings.Join(right, "  ")
	if rightText != "" {
		rightText += " "
	}

	padding := max(0, width-lipgloss.Width(left)-lipgloss.Width(rightText))

	return style.Render(left + strings.Repeat(" ", padding) + rightText)
}
