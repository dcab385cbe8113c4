package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme is a named palette. Colors are hex strings.
type Theme struct {
	Name string

	Background string
	Surface    string // panels and the header
	SurfaceAlt string // unfocused boxes
	FocusBg    string // focused box

	SelectionBg   string
	SelectionText string

	Border      string
	BorderFocus string

	Text    string
	Muted   string
	Faint   string
	Accent  string
	Success string
	Warning string
	Danger  string
	Info    string

	// StatusColors maps box-router and download states to badge colors.
	StatusColors map[string]string
}

// Styles contains pre-built Lipgloss styles for the theme.
type Styles struct {
	Text        lipgloss.Style
	MutedText   lipgloss.Style
	FaintText   lipgloss.Style
	AccentText  lipgloss.Style
	SuccessText lipgloss.Style
	WarningText lipgloss.Style
	DangerText  lipgloss.Style
	InfoText    lipgloss.Style

	Header lipgloss.Style
	Logo   lipgloss.Style

	statusColors map[string]string
	background   string
	muted        string
}

// Styles returns Lipgloss styles for this theme.
func (t Theme) Styles() Styles {
	fg := func(color string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
	}
	return Styles{
		Text:        fg(t.Text),
		MutedText:   fg(t.Muted),
		FaintText:   fg(t.Faint),
		AccentText:  fg(t.Accent),
		SuccessText: fg(t.Success).Bold(true),
		WarningText: fg(t.Warning),
		DangerText:  fg(t.Danger).Bold(true),
		InfoText:    fg(t.Info),

		Header: fg(t.Text).Background(lipgloss.Color(t.Surface)).Padding(0, 1),
		Logo:   fg(t.Accent).Bold(true),

		statusColors: t.StatusColors,
		background:   t.Background,
		muted:        t.Muted,
	}
}

// WithBackground returns a copy of Styles painted on bgColor.
func (s Styles) WithBackground(bgColor string) Styles {
	bg := lipgloss.Color(bgColor)
	out := s
	for _, st := range []*lipgloss.Style{
		&out.Text, &out.MutedText, &out.FaintText, &out.AccentText,
		&out.SuccessText, &out.WarningText, &out.DangerText, &out.InfoText,
		&out.Header, &out.Logo,
	} {
		*st = st.Background(bg)
	}
	return out
}

// StatusStyle returns a badge style for a box-router or download state.
func (s Styles) StatusStyle(status string) lipgloss.Style {
	color := s.statusColors[normalizeStatus(status)]
	if color == "" {
		color = s.muted
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(s.background)).
		Background(lipgloss.Color(color)).
		Padding(0, 1)
}

// StatusColor returns the color for a box-router or download state,
// falling back to the muted text color.
func (t Theme) StatusColor(status string) string {
	if color, ok := t.StatusColors[normalizeStatus(status)]; ok {
		return color
	}
	return t.Muted
}

func normalizeStatus(status string) string {
	return strings.ToLower(strings.TrimSpace(status))
}

// statusColors derives the badge colors from a palette. Printing gets its
// own hue so it never reads as a plain success.
func statusColors(t Theme, printing string) map[string]string {
	return map[string]string{
		"connected":    t.Success,
		"done":         t.Success,
		"connecting":   t.Warning,
		"disconnected": t.Faint,
		"error":        t.Danger,
		"failed":       t.Danger,
		"downloading":  t.Accent,
		"printing":     printing,
	}
}

var themeOrder = []string{"Orbit", "Kanagawa", "Daylight"}

var themes = map[string]Theme{
	"Orbit":    orbitTheme(),
	"Kanagawa": kanagawaTheme(),
	"Daylight": daylightTheme(),
}

// GetTheme returns a theme by name, defaulting to Orbit.
func GetTheme(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return themes[themeOrder[0]]
}

// NextTheme returns the next theme name in the cycle.
func NextTheme(current string) string {
	for i, name := range themeOrder {
		if name == current {
			return themeOrder[(i+1)%len(themeOrder)]
		}
	}
	return themeOrder[0]
}

// ThemeNames returns available theme names.
func ThemeNames() []string {
	return themeOrder
}

// orbitTheme is a deep navy palette around the AstroPrint blue.
func orbitTheme() Theme {
	t := Theme{
		Name:          "Orbit",
		Background:    "#0b1220",
		Surface:       "#111a2e",
		SurfaceAlt:    "#16223a",
		FocusBg:       "#1c2b48",
		SelectionBg:   "#1f4f8f",
		SelectionText: "#eef3fb",
		Border:        "#2c3f63",
		BorderFocus:   "#3d8bfd",
		Text:          "#dfe7f5",
		Muted:         "#8a9bb8",
		Faint:         "#5f7090",
		Accent:        "#3d8bfd",
		Success:       "#4cc38a",
		Warning:       "#f2b84b",
		Danger:        "#ef5b6b",
		Info:          "#52c7e8",
	}
	t.StatusColors = statusColors(t, "#a47cf3")
	return t
}

func kanagawaTheme() Theme {
	// https://github.com/rebelot/kanagawa.nvim
	t := Theme{
		Name:          "Kanagawa",
		Background:    "#16161D",
		Surface:       "#1F1F28",
		SurfaceAlt:    "#2A2A37",
		FocusBg:       "#363646",
		SelectionBg:   "#2D4F67",
		SelectionText: "#DCD7BA",
		Border:        "#54546D",
		BorderFocus:   "#7E9CD8",
		Text:          "#DCD7BA",
		Muted:         "#C8C093",
		Faint:         "#727169",
		Accent:        "#7E9CD8",
		Success:       "#98BB6C",
		Warning:       "#E6C384",
		Danger:        "#E46876",
		Info:          "#7FB4CA",
	}
	t.StatusColors = statusColors(t, "#957FB8")
	return t
}

// daylightTheme is for light terminals.
func daylightTheme() Theme {
	t := Theme{
		Name:          "Daylight",
		Background:    "#f7f8fa",
		Surface:       "#eceff4",
		SurfaceAlt:    "#ffffff",
		FocusBg:       "#e3ebf8",
		SelectionBg:   "#1d5fc2",
		SelectionText: "#ffffff",
		Border:        "#c3cad6",
		BorderFocus:   "#1d5fc2",
		Text:          "#1f2430",
		Muted:         "#5b6476",
		Faint:         "#8a93a5",
		Accent:        "#1d5fc2",
		Success:       "#1f8a4c",
		Warning:       "#b7791f",
		Danger:        "#c53030",
		Info:          "#0b7a95",
	}
	t.StatusColors = statusColors(t, "#6b46c1")
	return t
}
