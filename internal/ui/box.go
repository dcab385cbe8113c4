package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderTitledBox renders content in a frame with the title set into the
// top border: ┌─── Title ───┐. Focused boxes use the focus border and
// background colors. Content is padded or cut to fill height.
func (m Model) renderTitledBox(title, content string, width, height int, focused bool) string {
	borderColor, bgColor := m.theme.Border, m.theme.SurfaceAlt
	if focused {
		borderColor, bgColor = m.theme.BorderFocus, m.theme.FocusBg
	}
	bg := NewBgStyle(bgColor)
	borderStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(borderColor))
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.Text))

	inner := max(width-2, 0)
	title = truncate(title, max(inner-4, 1))
	titleLen := len([]rune(title))
	left := max((inner-titleLen-2)/2, 0)
	right := max(inner-titleLen-2-left, 0)

	top := bg.Render("┌", borderStyle) +
		bg.Render(strings.Repeat("─", left), borderStyle) +
		bg.Render(" "+title+" ", titleStyle) +
		bg.Render(strings.Repeat("─", right), borderStyle) +
		bg.Render("┐", borderStyle)
	bottom := bg.Render("└"+strings.Repeat("─", inner)+"┘", borderStyle)

	body := lipgloss.NewStyle().Width(inner).MaxWidth(inner).Background(lipgloss.Color(bgColor))
	lines := strings.Split(content, "\n")
	rows := make([]string, 0, max(height-2, 0))
	for i := 0; i < height-2; i++ {
		var line string
		if i < len(lines) {
			line = lines[i]
		}
		rows = append(rows, bg.Render("│", borderStyle)+body.Render(line)+bg.Render("│", borderStyle))
	}

	return top + "\n" + strings.Join(rows, "\n") + "\n" + bottom
}

// splitWidths divides the width between a list and a detail pane.
func (m Model) splitWidths() (list, detail int) {
	switch {
	case m.width < LayoutSplitWidth:
		return m.width, 0
	case m.width >= LayoutExtraWideWidth:
		list = m.width * 35 / 100
	default:
		list = m.width * 50 / 100
	}
	return list, m.width - list
}

// renderEmpty centers a muted message in the content area.
func (m Model) renderEmpty(msg string) string {
	styles := m.theme.Styles()
	return lipgloss.Place(m.width, m.contentHeight(), lipgloss.Center, lipgloss.Center, styles.MutedText.Render(msg))
}

// renderStarting is shown until the first initial state arrives.
func (m Model) renderStarting() string {
	styles := m.theme.Styles()
	msg := m.spinner.View() + " " + styles.WarningText.Render("Starting AstroPrint plugin...")
	return lipgloss.Place(m.width, m.contentHeight(), lipgloss.Center, lipgloss.Center, msg)
}
