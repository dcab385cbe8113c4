package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type helpSection struct {
	title string
	items []helpItem
}

type helpItem struct {
	key  string
	desc string
}

var helpSections = []helpSection{
	{
		title: "Views",
		items: []helpItem{
			{"tab", "Cycle views"},
			{"d/s/l", "Designs/Settings/Logs"},
			{"esc", "Back to designs"},
		},
	},
	{
		title: "Lists",
		items: []helpItem{
			{"j/k", "Move up/down"},
			{"←/→ p/n", "Previous/next page"},
			{"g/G", "First/last page"},
			{"1-9", "Pick the Nth page link shown"},
			{"/", "Filter by name"},
			{"r", "Refresh"},
		},
	},
	{
		title: "AstroPrint",
		items: []helpItem{
			{"enter", "Print files / print"},
			{"D", "Add design to box"},
			{"c", "Cancel download"},
			{"L/O", "Link/unlink account"},
		},
	},
	{
		title: "Box",
		items: []helpItem{
			{"b", "Rename box"},
			{"m", "Printer model"},
			{"f", "Loaded filament"},
			{"C", "Check camera"},
			{"B", "Connect boxrouter"},
		},
	},
	{
		title: "General",
		items: []helpItem{
			{"T", "Cycle theme"},
			{"h/?", "Toggle help"},
			{"q/ctrl+c", "Quit"},
		},
	},
}

// renderHelp renders the help overlay.
func (m Model) renderHelp() string {
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Keyboard Shortcuts"))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 30)))
	b.WriteString("\n\n")

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.theme.Warning)).
		Width(12)
	for i, section := range helpSections {
		b.WriteString(styles.AccentText.Bold(true).Render(section.title))
		b.WriteString("\n")
		for _, item := range section.items {
			b.WriteString(keyStyle.Render(item.key))
			b.WriteString(styles.Text.Render(item.desc))
			b.WriteString("\n")
		}
		if i < len(helpSections)-1 {
			b.WriteString("\n")
		}
	}

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Accent)).
		Padding(1, 2).
		Width(44)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		modal.Render(b.String()),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)),
	)
}
