package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/astroprint/astrodeck/internal/paging"
)

// windowLimit is the number of page links shown in the pager bar.
func (m Model) windowLimit() int {
	if m.cfg.PageWindow > 0 {
		return m.cfg.PageWindow
	}
	return paging.DefaultWindowLimit
}

// navigate applies the list keys shared by every paginated view. It
// returns false when msg is not a list key.
func navigate[T paging.Named](p *paging.Paginator[T], cursor *int, limit int, keys keyMap, msg tea.KeyMsg) bool {
	page := p.Page()
	switch {
	case key.Matches(msg, keys.Up):
		if *cursor > 0 {
			*cursor--
		}
		return true
	case key.Matches(msg, keys.Down):
		if *cursor < len(p.Items())-1 {
			*cursor++
		}
		return true
	case key.Matches(msg, keys.PrevPage):
		p.Prev()
	case key.Matches(msg, keys.NextPage):
		p.Next()
	case key.Matches(msg, keys.FirstPage):
		p.First()
	case key.Matches(msg, keys.LastPage):
		p.Last()
	case key.Matches(msg, keys.GoToPage):
		n, ok := windowSlot(p.Window(limit), msg.String())
		if !ok {
			return true
		}
		p.GoTo(n)
	default:
		return false
	}
	if p.Page() != page {
		*cursor = 0
	}
	return true
}

// windowSlot maps a digit key to the page link at that position in the
// window: "1" picks the first link shown, whatever its page number.
func windowSlot(window []int, digit string) (int, bool) {
	slot, err := strconv.Atoi(digit)
	if err != nil || slot < 1 || slot > len(window) {
		return 0, false
	}
	return window[slot-1], true
}

// slotsShifted reports whether the window no longer starts at page 1, so
// link positions and page numbers differ.
func slotsShifted(window []int) bool {
	return len(window) > 0 && window[0] != 1
}

// clampCursor keeps a row cursor inside the current page.
func clampCursor(cursor, rows int) int {
	if cursor >= rows {
		cursor = rows - 1
	}
	return max(cursor, 0)
}

// handleFilterKey edits the live filter of the current list.
func (m Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.filtering = false
		m.filter.Blur()
		return m, nil
	case tea.KeyEsc:
		m.filtering = false
		m.filter.Blur()
		m.filter.SetValue("")
		m.applyFilter()
		return m, nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.applyFilter()
	return m, cmd
}

// startFilter focuses the filter box.
func (m *Model) startFilter() tea.Cmd {
	m.filtering = true
	return m.filter.Focus()
}

// applyFilter pushes the filter text into the visible list.
func (m *Model) applyFilter() {
	switch m.currentView {
	case ViewDesigns:
		m.designs.SetQuery(m.filter.Value())
		m.designCursor = 0
	case ViewPrintFiles:
		m.printFiles.SetQuery(m.filter.Value())
		m.printFileCursor = 0
	}
}

// renderPager renders the page-window bar: first/prev arrows, the window
// of page numbers with the current one highlighted, and next/last arrows.
func renderPager[T paging.Named](theme Theme, p *paging.Paginator[T], limit int, bgColor string) string {
	styles := theme.Styles()
	bg := NewBgStyle(bgColor)

	total := p.TotalPages()
	if total == 0 {
		return bg.Render("no pages", styles.FaintText)
	}
	current := p.Page() + 1

	arrow := func(label string, enabled bool) string {
		if enabled {
			return bg.Render(label, styles.AccentText)
		}
		return bg.Render(label, styles.FaintText)
	}

	parts := []string{
		arrow("«", current > 1),
		arrow("‹", current > 1),
	}
	window := p.Window(limit)
	shifted := slotsShifted(window)
	for i, n := range window {
		label := strconv.Itoa(n)
		var slot string
		if shifted && i < 9 {
			slot = bg.Render(strconv.Itoa(i+1)+":", styles.FaintText)
		}
		if n == current {
			parts = append(parts, slot+lipgloss.NewStyle().
				Background(lipgloss.Color(theme.SelectionBg)).
				Foreground(lipgloss.Color(theme.SelectionText)).
				Bold(true).
				Render(" "+label+" "))
			continue
		}
		parts = append(parts, slot+bg.Render(label, styles.Text))
	}
	parts = append(parts,
		arrow("›", current < total),
		arrow("»", current < total),
	)

	summary := fmt.Sprintf("page %d/%d · %d of %d", current, total, len(p.Filtered()), len(p.All()))
	return bg.Join(parts, " ") + bg.Spaces(2) + bg.Render(summary, styles.MutedText)
}

// renderFilterLine renders the filter box, or the active query when it is
// not being edited.
func (m Model) renderFilterLine(query, bgColor string) string {
	styles := m.theme.Styles()
	bg := NewBgStyle(bgColor)
	if m.filtering {
		return m.filter.View()
	}
	if strings.TrimSpace(query) == "" {
		return bg.Render("/ to filter", styles.FaintText)
	}
	return bg.Render("filter:", styles.MutedText) + bg.Space() + bg.Render(query, styles.AccentText)
}

// renderRows renders list rows, highlighting the cursor row.
func renderRows(theme Theme, rows []string, cursor, width int, bgColor string) string {
	lines := make([]string, 0, len(rows))
	for i, row := range rows {
		if i == cursor {
			lines = append(lines, lipgloss.NewStyle().
				Background(lipgloss.Color(theme.SelectionBg)).
				Foreground(lipgloss.Color(theme.SelectionText)).
				Width(width).
				Render(truncate(row, width)))
			continue
		}
		lines = append(lines, lipgloss.NewStyle().
			Background(lipgloss.Color(bgColor)).
			Foreground(lipgloss.Color(theme.Text)).
			Width(width).
			Render(truncate(row, width)))
	}
	return strings.Join(lines, "\n")
}
