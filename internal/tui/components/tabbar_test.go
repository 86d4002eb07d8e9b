package components

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestTabVisualWidth_MatchesRender(t *testing.T) {
	for active := range Tabs {
		want := lipgloss.Width(RenderTabBar(active, 0))
		got := 1
		for i := range Tabs {
			got += TabVisualWidth(i, active)
		}
		got += (len(Tabs) - 1) * len(tabSep)
		if got != want {
			t.Errorf("active=%d: summed width %d, rendered %d", active, got, want)
		}
	}
}

func TestTabAtX(t *testing.T) {
	// Active tab 0: " Overview  [T]rend  ..."
	if got := TabAtX(1, 0); got != 0 {
		t.Errorf("TabAtX(1) = %d, want 0", got)
	}
	if got := TabAtX(0, 0); got != -1 {
		t.Errorf("TabAtX(0) = %d, want -1", got)
	}
	trendStart := 1 + TabVisualWidth(0, 0) + len(tabSep)
	if got := TabAtX(trendStart, 0); got != 1 {
		t.Errorf("TabAtX(%d) = %d, want 1", trendStart, got)
	}
	if got := TabAtX(trendStart-1, 0); got != -1 {
		t.Errorf("gap should not hit a tab, got %d", got)
	}
	if got := TabAtX(500, 0); got != -1 {
		t.Errorf("TabAtX(500) = %d, want -1", got)
	}
}

func TestTabIdxByKey(t *testing.T) {
	tests := map[rune]int{'o': 0, 't': 1, 'r': 2, 'a': 3, 'z': -1}
	for k, want := range tests {
		if got := TabIdxByKey(k); got != want {
			t.Errorf("TabIdxByKey(%q) = %d, want %d", k, got, want)
		}
	}
}
