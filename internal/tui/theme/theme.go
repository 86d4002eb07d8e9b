// Package theme defines color themes for the cashburn TUI dashboard.
package theme

import "github.com/charmbracelet/lipgloss"

// Theme defines the color roles used throughout the TUI.
type Theme struct {
	Name         string
	Background   lipgloss.Color // Main app background
	Surface      lipgloss.Color // Card/panel backgrounds
	SurfaceHover lipgloss.Color // Highlighted surface (active tab, selected row)
	Border       lipgloss.Color // Subtle borders
	BorderAccent lipgloss.Color // Accent-colored borders for focus states
	TextDim      lipgloss.Color // Lowest contrast text (hints, disabled)
	TextMuted    lipgloss.Color // Secondary text (labels, metadata)
	TextPrimary  lipgloss.Color // Primary content text
	Accent       lipgloss.Color // Primary accent (links, active states)
	AccentBright lipgloss.Color // Brighter accent for emphasis

	// Domain roles
	Cash   lipgloss.Color // balances and runway bars
	Burn   lipgloss.Color // burn figures and the zero-cash date
	Curve  lipgloss.Color // smoothed trendline
	Marker lipgloss.Color // raw ledger points on the trendline
	Warn   lipgloss.Color // dropped rows, skipped smoothing
}

// Active is the currently selected theme.
var Active = FlexokiDark

// FlexokiDark is the default theme - warm, paper-inspired dark theme.
var FlexokiDark = Theme{
	Name:         "flexoki-dark",
	Background:   lipgloss.Color("#100F0F"),
	Surface:      lipgloss.Color("#1C1B1A"),
	SurfaceHover: lipgloss.Color("#282726"),
	Border:       lipgloss.Color("#403E3C"),
	BorderAccent: lipgloss.Color("#3AA99F"),
	TextDim:      lipgloss.Color("#575653"),
	TextMuted:    lipgloss.Color("#878580"),
	TextPrimary:  lipgloss.Color("#FFFCF0"),
	Accent:       lipgloss.Color("#3AA99F"),
	AccentBright: lipgloss.Color("#5BC8BE"),
	Cash:         lipgloss.Color("#879A39"),
	Burn:         lipgloss.Color("#D14D41"),
	Curve:        lipgloss.Color("#4385BE"),
	Marker:       lipgloss.Color("#DA702C"),
	Warn:         lipgloss.Color("#D0A215"),
}

// CatppuccinMocha is a warm pastel theme with soft, soothing colors.
var CatppuccinMocha = Theme{
	Name:         "catppuccin-mocha",
	Background:   lipgloss.Color("#1E1E2E"),
	Surface:      lipgloss.Color("#313244"),
	SurfaceHover: lipgloss.Color("#45475A"),
	Border:       lipgloss.Color("#585B70"),
	BorderAccent: lipgloss.Color("#89B4FA"),
	TextDim:      lipgloss.Color("#6C7086"),
	TextMuted:    lipgloss.Color("#A6ADC8"),
	TextPrimary:  lipgloss.Color("#CDD6F4"),
	Accent:       lipgloss.Color("#89B4FA"),
	AccentBright: lipgloss.Color("#B4D0FB"),
	Cash:         lipgloss.Color("#A6E3A1"),
	Burn:         lipgloss.Color("#F38BA8"),
	Curve:        lipgloss.Color("#94E2D5"),
	Marker:       lipgloss.Color("#FAB387"),
	Warn:         lipgloss.Color("#F9E2AF"),
}

// TokyoNight is a cool blue/purple theme inspired by Tokyo city lights.
var TokyoNight = Theme{
	Name:         "tokyo-night",
	Background:   lipgloss.Color("#1A1B26"),
	Surface:      lipgloss.Color("#24283B"),
	SurfaceHover: lipgloss.Color("#343A52"),
	Border:       lipgloss.Color("#565F89"),
	BorderAccent: lipgloss.Color("#7AA2F7"),
	TextDim:      lipgloss.Color("#565F89"),
	TextMuted:    lipgloss.Color("#A9B1D6"),
	TextPrimary:  lipgloss.Color("#C0CAF5"),
	Accent:       lipgloss.Color("#7AA2F7"),
	AccentBright: lipgloss.Color("#A9C1FF"),
	Cash:         lipgloss.Color("#9ECE6A"),
	Burn:         lipgloss.Color("#F7768E"),
	Curve:        lipgloss.Color("#7DCFFF"),
	Marker:       lipgloss.Color("#FF9E64"),
	Warn:         lipgloss.Color("#E0AF68"),
}

// Terminal uses ANSI 16 colors only - maximum compatibility.
var Terminal = Theme{
	Name:         "terminal",
	Background:   lipgloss.Color("0"),
	Surface:      lipgloss.Color("0"),
	SurfaceHover: lipgloss.Color("8"),
	Border:       lipgloss.Color("8"),
	BorderAccent: lipgloss.Color("6"),
	TextDim:      lipgloss.Color("8"),
	TextMuted:    lipgloss.Color("7"),
	TextPrimary:  lipgloss.Color("15"),
	Accent:       lipgloss.Color("6"),
	AccentBright: lipgloss.Color("14"),
	Cash:         lipgloss.Color("2"),
	Burn:         lipgloss.Color("1"),
	Curve:        lipgloss.Color("4"),
	Marker:       lipgloss.Color("3"),
	Warn:         lipgloss.Color("11"),
}

// All available themes.
var All = []Theme{FlexokiDark, CatppuccinMocha, TokyoNight, Terminal}

// Names returns the names of all themes in display order.
func Names() []string {
	out := make([]string, len(All))
	for i, t := range All {
		out[i] = t.Name
	}
	return out
}

// ByName returns a theme by its name, defaulting to FlexokiDark.
func ByName(name string) Theme {
	for _, t := range All {
		if t.Name == name {
			return t
		}
	}
	return FlexokiDark
}

// SetActive sets the active theme by name.
func SetActive(name string) {
	Active = ByName(name)
}
