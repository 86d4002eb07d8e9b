// Package tui provides the interactive Bubble Tea dashboard for cashburn.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"

	"github.com/theirongolddev/cashburn/internal/cli"
	"github.com/theirongolddev/cashburn/internal/config"
	"github.com/theirongolddev/cashburn/internal/pipeline"
	"github.com/theirongolddev/cashburn/internal/tui/components"
	"github.com/theirongolddev/cashburn/internal/tui/theme"
)

// DataLoadedMsg is sent when the report pipeline finishes.
type DataLoadedMsg struct {
	Set    *pipeline.ReportSet
	Err    error
	Reload bool
}

// ProgressMsg reports file parsing progress.
type ProgressMsg struct {
	Current int
	Total   int
}

type clearFlashMsg struct{}

const (
	tabOverview = iota
	tabTrend
	tabRunway
	tabAssumptions
)

// App is the root Bubble Tea model.
type App struct {
	// Data
	files    []pipeline.FileReport
	loaded   bool
	loadErr  error
	loadTime time.Duration
	lastLoad time.Time

	reloading bool
	flash     string

	// UI state
	width     int
	height    int
	activeTab int
	fileIdx   int
	showHelp  bool

	// Per-file tables, rebuilt on file change and resize
	runwayTbl table.Model
	assumeTbl table.Model

	// First-run setup (huh form)
	setupForm *huh.Form
	setupVals SetupValues
	needSetup bool

	// Loading: channel-based progress subscription
	spinner     spinner.Model
	bar         progress.Model
	progress    int
	progressMax int
	loadSub     chan tea.Msg // progress + completion messages from loader goroutine

	paths    []string
	cfg      config.Config
	useCache bool
}

const (
	minTerminalWidth = 80
	compactWidth     = 120
	maxContentWidth  = 180
	minContentHeight = 5
)

// NewApp creates a new TUI app model for the ledger files under paths.
func NewApp(paths []string, cfg config.Config, useCache bool) App {
	theme.SetActive(cfg.Appearance.Theme)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	bar := progress.New(
		progress.WithGradient(string(theme.Active.Accent), string(theme.Active.AccentBright)),
		progress.WithoutPercentage(),
	)

	return App{
		paths:     paths,
		cfg:       cfg,
		useCache:  useCache,
		needSetup: !config.Exists(),
		spinner:   sp,
		bar:       bar,
		loadSub:   make(chan tea.Msg, 1),
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		loadDataCmd(a.paths, a.cfg, a.useCache, a.loadSub),
		a.spinner.Tick,
	)
}

// current returns the report for the selected file, or nil before loading.
func (a App) current() *pipeline.FileReport {
	if a.fileIdx < 0 || a.fileIdx >= len(a.files) {
		return nil
	}
	return &a.files[a.fileIdx]
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		a.rebuildTables()
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.showHelp || (a.needSetup && a.setupForm != nil) {
			return a, nil
		}

		switch msg.Button {
		case tea.MouseButtonWheelUp:
			a.scrollTable(-1)
		case tea.MouseButtonWheelDown:
			a.scrollTable(1)
		case tea.MouseButtonLeft:
			// Tab bar is the first line
			if msg.Y == 0 && msg.Action == tea.MouseActionPress {
				if tab := a.tabAtX(msg.X); tab >= 0 {
					a.activeTab = tab
				}
			}
		}
		return a, nil

	case tea.KeyMsg:
		key := msg.String()

		if key == "ctrl+c" {
			return a, tea.Quit
		}

		if !a.loaded {
			return a, nil
		}

		// First-run setup wizard intercepts all keys
		if a.needSetup && a.setupForm != nil {
			return a.updateSetupForm(msg)
		}

		if key == "?" {
			a.showHelp = !a.showHelp
			return a, nil
		}
		if a.showHelp {
			a.showHelp = false
			return a, nil
		}

		switch key {
		case "q":
			return a, tea.Quit
		case "ctrl+r":
			if !a.reloading {
				a.reloading = true
				return a, reloadDataCmd(a.paths, a.cfg, a.useCache)
			}
			return a, nil
		case "n", "]":
			a.selectFile(a.fileIdx + 1)
			return a, nil
		case "p", "[":
			a.selectFile(a.fileIdx - 1)
			return a, nil
		case "left", "h":
			a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
			return a, nil
		case "right", "l":
			a.activeTab = (a.activeTab + 1) % len(components.Tabs)
			return a, nil
		case "j", "down":
			a.scrollTable(1)
			return a, nil
		case "k", "up":
			a.scrollTable(-1)
			return a, nil
		case "g":
			a.tableFor(a.activeTab, func(t *table.Model) { t.GotoTop() })
			return a, nil
		case "G":
			a.tableFor(a.activeTab, func(t *table.Model) { t.GotoBottom() })
			return a, nil
		}

		if msg.Type == tea.KeyRunes && len(msg.Runes) == 1 {
			if idx := components.TabIdxByKey(msg.Runes[0]); idx >= 0 {
				a.activeTab = idx
			}
		}
		return a, nil

	case DataLoadedMsg:
		a.loaded = true
		a.reloading = false
		a.lastLoad = time.Now()
		a.loadErr = msg.Err
		if msg.Set != nil {
			a.files = msg.Set.Files
			a.loadTime = msg.Set.LoadTime
		}
		a.selectFile(a.fileIdx)

		var cmds []tea.Cmd
		if msg.Reload {
			a.flash = "Reloaded"
			if msg.Err != nil {
				a.flash = "Reload failed"
			}
			cmds = append(cmds, clearFlashCmd())
		}

		// Activate first-run setup after data loads
		if a.needSetup && a.setupForm == nil && !msg.Reload {
			a.setupVals = SetupValuesFrom(a.cfg)
			a.setupForm = NewSetupForm(&a.setupVals)
			if a.width > 0 {
				a.setupForm = a.setupForm.WithWidth(a.width).WithHeight(a.height)
			}
			cmds = append(cmds, a.setupForm.Init())
		}
		return a, tea.Batch(cmds...)

	case ProgressMsg:
		a.progress = msg.Current
		a.progressMax = msg.Total
		return a, waitForLoadMsg(a.loadSub)

	case spinner.TickMsg:
		if !a.loaded || a.reloading {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil

	case clearFlashMsg:
		a.flash = ""
		return a, nil
	}

	// Forward unhandled messages to the setup form (cursor blinks, etc.)
	if a.needSetup && a.setupForm != nil {
		return a.updateSetupForm(msg)
	}

	return a, nil
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		a.setupVals.Apply(&a.cfg)
		theme.SetActive(a.cfg.Appearance.Theme)
		if err := config.Save(a.cfg); err != nil {
			log.Warn().Err(err).Msg("saving config failed")
		}
		a.needSetup = false
		a.setupForm = nil
		a.reloading = true
		return a, tea.Batch(reloadDataCmd(a.paths, a.cfg, a.useCache), a.spinner.Tick)

	case huh.StateAborted:
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	}

	return a, cmd
}

// selectFile switches to file idx, clamped to the loaded files.
func (a *App) selectFile(idx int) {
	if n := len(a.files); n > 0 {
		a.fileIdx = max(0, min(idx, n-1))
	} else {
		a.fileIdx = 0
	}
	a.rebuildTables()
}

func (a *App) tableFor(tab int, fn func(*table.Model)) {
	switch tab {
	case tabRunway:
		fn(&a.runwayTbl)
	case tabAssumptions:
		fn(&a.assumeTbl)
	}
}

func (a *App) scrollTable(delta int) {
	a.tableFor(a.activeTab, func(t *table.Model) {
		if delta < 0 {
			t.MoveUp(-delta)
		} else {
			t.MoveDown(delta)
		}
	})
}

func (a *App) rebuildTables() {
	fr := a.current()
	if fr == nil || fr.Report == nil || a.width == 0 {
		a.runwayTbl, a.assumeTbl = table.Model{}, table.Model{}
		return
	}
	cw := a.contentWidth()
	h := a.contentHeight()
	a.runwayTbl = newRunwayTable(fr.Report.Runway, cw, max(h-runwayChartHeight-6, 3))
	a.assumeTbl = newAssumptionsTable(fr.Report.Assumptions, cw, max(h-4, 3))
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// contentHeight is the height left between the header and the status bar.
func (a App) contentHeight() int {
	return max(a.height-3, minContentHeight)
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}

	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}

	if !a.loaded {
		return a.viewLoading()
	}

	// First-run setup wizard
	if a.needSetup && a.setupForm != nil {
		return a.setupForm.View()
	}

	if a.showHelp {
		return a.viewHelp()
	}

	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)

	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  cashburn needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)

	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active
	w := a.width
	h := a.height

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)

	logoStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.Surface).
		Bold(true)

	subtitleStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)

	countStyle := lipgloss.NewStyle().
		Foreground(t.TextPrimary).
		Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ cashburn"))
	b.WriteString(subtitleStyle.Render(" · Cash Burn & Runway"))
	b.WriteString("\n\n")

	b.WriteString(a.spinner.View())
	if a.progressMax > 0 {
		b.WriteString(subtitleStyle.Render(" Parsing ledgers"))
		b.WriteString("\n\n")
		bar := a.bar
		bar.Width = max(20, min(40, w-30))
		b.WriteString(bar.ViewAs(float64(a.progress) / float64(a.progressMax)))
		b.WriteString("\n")
		b.WriteString(countStyle.Render(cli.FormatNumber(int64(a.progress))))
		b.WriteString(subtitleStyle.Render(" / "))
		b.WriteString(countStyle.Render(cli.FormatNumber(int64(a.progressMax))))
	} else {
		b.WriteString(subtitleStyle.Render(" Discovering ledgers..."))
	}

	card := cardStyle.Render(b.String())

	return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)

	titleStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.Surface).
		Bold(true)

	sectionStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Background(t.Surface).
		Bold(true)

	keyStyle := lipgloss.NewStyle().
		Foreground(t.Curve).
		Background(t.Surface).
		Bold(true)

	descStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)

	dimStyle := lipgloss.NewStyle().
		Foreground(t.TextDim).
		Background(t.Surface)

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")

	section := func(title string, binds []struct{ key, desc string }) {
		b.WriteString(sectionStyle.Render(title))
		b.WriteString("\n")
		for _, bind := range binds {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
				descStyle.Render(bind.desc))
		}
	}

	section("Navigation", []struct{ key, desc string }{
		{"o t r a", "Jump to tab"},
		{"← →", "Previous / Next tab"},
		{"n p", "Next / Previous file"},
		{"j k", "Move through tables"},
		{"g G", "Top / Bottom of table"},
	})
	b.WriteString("\n")
	section("Actions", []struct{ key, desc string }{
		{"^r", "Reload ledgers"},
		{"?", "Toggle help"},
		{"q", "Quit"},
	})

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	card := cardStyle.Render(b.String())

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	header := components.RenderTabBar(a.activeTab, w) + "\n" + a.renderInfoRow(w)

	status := components.StatusBar{
		FileCount: len(a.files),
		FileIdx:   a.fileIdx,
		Flash:     a.flash,
	}
	if fr := a.current(); fr != nil {
		status.FileName = fr.Name
	}
	if !a.lastLoad.IsZero() {
		status.DataAge = fmt.Sprintf("%s (%.1fs)", cli.FormatAge(a.lastLoad), a.loadTime.Seconds())
	}
	if a.reloading {
		status.Flash = a.spinner.View() + " reloading"
	}
	statusBar := components.RenderStatusBar(w, status)

	contentH := max(h-lipgloss.Height(header)-lipgloss.Height(statusBar), minContentHeight)

	var content string
	fr := a.current()
	switch {
	case a.loadErr != nil:
		content = a.renderMessage("Could not load ledgers", a.loadErr.Error(), cw)
	case fr == nil:
		content = a.renderMessage("No ledgers found", "No .csv files under "+strings.Join(a.paths, ", "), cw)
	case fr.Err != nil:
		content = a.renderMessage("Could not analyse "+fr.Name, fr.Err.Error(), cw)
	default:
		switch a.activeTab {
		case tabOverview:
			content = a.renderOverviewTab(fr, cw)
		case tabTrend:
			content = a.renderTrendTab(fr, cw, contentH)
		case tabRunway:
			content = a.renderRunwayTab(fr, cw)
		case tabAssumptions:
			content = a.renderAssumptionsTab(fr, cw)
		}
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)

	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// renderInfoRow shows the analysis settings that shaped the current view.
func (a App) renderInfoRow(w int) string {
	t := theme.Active

	pillStyle := lipgloss.NewStyle().
		Foreground(t.TextDim).
		Background(t.Surface)

	accentStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Background(t.Surface).
		Bold(true)

	balance := a.cfg.General.CurrentBalance
	if balance == "" {
		balance = config.BalanceFirst
	}
	trend := a.cfg.General.TrendColumn
	if trend == "" {
		trend = config.TrendClosing
	}

	s := pillStyle.Render(" balance ") + accentStyle.Render(balance) +
		pillStyle.Render(" │ trend ") + accentStyle.Render(trend) +
		pillStyle.Render(" │ points ") + accentStyle.Render(fmt.Sprint(a.cfg.General.SmoothingPoints)) +
		pillStyle.Render(" ")

	return lipgloss.NewStyle().Background(t.Surface).Width(w).Render(s)
}

func (a App) renderMessage(title, body string, cw int) string {
	t := theme.Active
	style := lipgloss.NewStyle().Foreground(t.Warn).Background(t.Surface)
	return components.ContentCard(title, style.Render(body), cw)
}

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
func (a App) tabAtX(x int) int {
	return components.TabAtX(x, a.activeTab)
}

// ─── Commands ───────────────────────────────────────────────────

// loadDataCmd starts the report pipeline in a background goroutine.
// It streams ProgressMsg updates and a final DataLoadedMsg through sub.
func loadDataCmd(paths []string, cfg config.Config, useCache bool, sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		go func() {
			// Non-blocking send so workers aren't stalled; the next update catches up.
			progressFn := func(current, total int) {
				select {
				case sub <- ProgressMsg{Current: current, Total: total}:
				default:
				}
			}

			set, err := pipeline.BuildReports(paths, cfg, useCache, progressFn)
			sub <- DataLoadedMsg{Set: set, Err: err}
		}()

		// Block until the first message (either ProgressMsg or DataLoadedMsg)
		return <-sub
	}
}

// waitForLoadMsg blocks until the next message arrives from the loader goroutine.
func waitForLoadMsg(sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-sub
	}
}

// reloadDataCmd reruns the pipeline in the background (no progress UI).
func reloadDataCmd(paths []string, cfg config.Config, useCache bool) tea.Cmd {
	return func() tea.Msg {
		set, err := pipeline.BuildReports(paths, cfg, useCache, nil)
		return DataLoadedMsg{Set: set, Err: err, Reload: true}
	}
}

func clearFlashCmd() tea.Cmd {
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return clearFlashMsg{}
	})
}

// ─── Helpers ────────────────────────────────────────────────────

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")

	var result strings.Builder
	for i, line := range lines {
		placed := lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
		result.WriteString(placed)
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}
