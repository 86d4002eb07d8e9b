package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/theirongolddev/cashburn/internal/tui/components"
)

func TestTabAtXMatchesTabWidths(t *testing.T) {
	for active := range components.Tabs {
		a := App{activeTab: active}
		pos := 1 // leading space

		for i := range components.Tabs {
			w := components.TabVisualWidth(i, active)
			x := pos + w/2 // midpoint inside this tab
			if got := a.tabAtX(x); got != i {
				t.Fatalf("active=%d x=%d -> tab=%d, want %d", active, x, got, i)
			}
			pos += w + 2 // separator
		}
	}
}

func TestMouseClickSelectsTab(t *testing.T) {
	a := App{loaded: true}
	x := 1 + components.TabVisualWidth(0, 0) + 2 // first cell of "[T]rend"

	m, _ := a.Update(tea.MouseMsg{X: x, Y: 0, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	if got := m.(App).activeTab; got != tabTrend {
		t.Errorf("activeTab = %d, want %d", got, tabTrend)
	}

	// Clicks below the tab bar are ignored.
	m, _ = m.(App).Update(tea.MouseMsg{X: 2, Y: 3, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	if got := m.(App).activeTab; got != tabTrend {
		t.Errorf("activeTab after content click = %d, want %d", got, tabTrend)
	}
}

func TestMouseIgnoredWhileLoading(t *testing.T) {
	a := App{}
	m, _ := a.Update(tea.MouseMsg{X: 12, Y: 0, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	if got := m.(App).activeTab; got != 0 {
		t.Errorf("activeTab = %d, want 0", got)
	}
}
