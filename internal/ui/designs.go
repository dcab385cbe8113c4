package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/astroprint/astrodeck/internal/astroprint"
)

// handleDesignsKey processes keyboard input for the designs list.
func (m Model) handleDesignsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !m.box.User.LoggedIn() {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Filter):
		cmd := m.startFilter()
		return m, cmd
	case key.Matches(msg, m.keys.Refresh):
		cmd := m.fetchDesigns(true)
		return m, cmd
	case key.Matches(msg, m.keys.Open):
		design, ok := m.selectedDesign()
		if !ok || design.PrintFileCount == 0 {
			return m, nil
		}
		cmd := m.openPrintFiles(design)
		return m, cmd
	case key.Matches(msg, m.keys.DownloadDesign):
		design, ok := m.selectedDesign()
		if !ok || !design.AllowDownload || !m.canDownload("designs") {
			return m, nil
		}
		cmd := m.downloadDesignCmd(design)
		return m, cmd
	}

	navigate(m.designs, &m.designCursor, m.windowLimit(), m.keys, msg)
	return m, nil
}

// selectedDesign returns the design under the cursor.
func (m Model) selectedDesign() (astroprint.Design, bool) {
	items := m.designs.Items()
	if len(items) == 0 {
		return astroprint.Design{}, false
	}
	return items[clampCursor(m.designCursor, len(items))], true
}

// openPrintFiles switches to the print files of design.
func (m *Model) openPrintFiles(design astroprint.Design) tea.Cmd {
	if design.ID != m.design.ID {
		m.printFiles.SetItems(nil)
		m.printFiles.SetQuery("")
		m.printFileCursor = 0
	}
	m.design = design
	m.switchView(ViewPrintFiles)
	if len(m.printFiles.All()) > 0 {
		return nil
	}
	return m.loadPrintFilesCmd(design)
}

// canDownload checks that a download may start, telling the user why not.
func (m *Model) canDownload(what string) bool {
	if !m.session.Admin() {
		m.notify(levelInfo, "Please log in", "You must be logged onto your OctoPrint Account to be able to download "+what+".")
		return false
	}
	return m.downloads.CanStart()
}

// renderDesigns renders the designs view.
func (m Model) renderDesigns() string {
	if !m.box.User.LoggedIn() {
		return m.renderLinkPrompt()
	}
	if m.designsLoading && len(m.designs.All()) == 0 {
		return m.renderEmpty(m.spinner.View() + " Retrieving designs...")
	}
	if len(m.designs.All()) == 0 {
		return m.renderEmpty("No designs in your AstroPrint account")
	}

	height := m.contentHeight()
	listWidth, detailWidth := m.splitWidths()

	title := "Designs"
	if m.designsLoading {
		title = "Designs " + m.spinner.View()
	}
	list := m.renderTitledBox(title, m.designListContent(listWidth-2), listWidth, height, true)
	if detailWidth == 0 {
		return list
	}

	var detail string
	if design, ok := m.selectedDesign(); ok {
		detail = m.designDetail(design)
	} else {
		detail = m.theme.Styles().MutedText.Render("No design matches the filter")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, list, m.renderTitledBox("Details", detail, detailWidth, height, false))
}

func (m Model) designListContent(width int) string {
	items := m.designs.Items()
	rows := make([]string, 0, len(items))
	for _, d := range items {
		files := fmt.Sprintf("%d print files", d.PrintFileCount)
		if d.PrintFileCount == 1 {
			files = "1 print file"
		}
		nameWidth := max(width-len(files)-3, 10)
		rows = append(rows, padRight(truncate(d.Name, nameWidth), nameWidth)+" · "+files)
	}

	var b strings.Builder
	b.WriteString(m.renderFilterLine(m.designs.Query(), m.theme.FocusBg))
	b.WriteString("\n\n")
	b.WriteString(renderRows(m.theme, rows, clampCursor(m.designCursor, len(rows)), width, m.theme.FocusBg))
	b.WriteString("\n\n")
	b.WriteString(renderPager(m.theme, m.designs, m.windowLimit(), m.theme.FocusBg))
	return b.String()
}

func (m Model) designDetail(d astroprint.Design) string {
	styles := m.theme.Styles()
	rows := [][2]string{
		{"Name", d.Name},
		{"ID", d.ID},
		{"Print files", fmt.Sprintf("%d", d.PrintFileCount)},
		{"Download", ternary(d.AllowDownload, "allowed", "not allowed")},
		{"Saved as", d.DownloadName()},
		{"Image", d.ImageURL()},
	}

	var b strings.Builder
	for _, r := range rows {
		b.WriteString(styles.MutedText.Render(padRight(r[0], 12)))
		b.WriteString(styles.Text.Render(r[1]))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	if d.PrintFileCount > 0 {
		b.WriteString(styles.FaintText.Render("enter: print files"))
		b.WriteString("\n")
	}
	if d.AllowDownload {
		b.WriteString(styles.FaintText.Render("D: add to box files"))
	}
	return b.String()
}

// renderLinkPrompt is shown while no AstroPrint account is linked.
func (m Model) renderLinkPrompt() string {
	styles := m.theme.Styles()
	lines := []string{styles.Text.Bold(true).Render("No AstroPrint account linked")}
	if m.session.Admin() {
		lines = append(lines, styles.MutedText.Render("Press L to link your AstroPrint account"))
	} else {
		lines = append(lines, styles.WarningText.Render("An OctoPrint admin must be logged in to link an account"))
	}
	return lipgloss.Place(m.width, m.contentHeight(), lipgloss.Center, lipgloss.Center, strings.Join(lines, "\n"))
}
