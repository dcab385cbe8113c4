package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/astroprint/astrodeck/internal/astroprint"
)

// handlePrintFilesKey processes keyboard input for the print files list.
func (m Model) handlePrintFilesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Filter):
		cmd := m.startFilter()
		return m, cmd
	case key.Matches(msg, m.keys.Refresh):
		cmd := m.loadPrintFilesCmd(m.design)
		return m, cmd
	case key.Matches(msg, m.keys.Open):
		file, ok := m.selectedPrintFile()
		if !ok || !m.canDownload("print files") {
			return m, nil
		}
		if !m.box.CanPrint {
			m.notify(levelInfo, "Printer busy", "The printer cannot start a new print right now.")
			return m, nil
		}
		cmd := m.downloadPrintFileCmd(file)
		return m, cmd
	}

	navigate(m.printFiles, &m.printFileCursor, m.windowLimit(), m.keys, msg)
	return m, nil
}

// selectedPrintFile returns the print file under the cursor.
func (m Model) selectedPrintFile() (astroprint.PrintFile, bool) {
	items := m.printFiles.Items()
	if len(items) == 0 {
		return astroprint.PrintFile{}, false
	}
	return items[clampCursor(m.printFileCursor, len(items))], true
}

// renderPrintFiles renders the print files of the opened design.
func (m Model) renderPrintFiles() string {
	if m.printFilesLoading && len(m.printFiles.All()) == 0 {
		return m.renderEmpty(m.spinner.View() + " Retrieving print files...")
	}
	if len(m.printFiles.All()) == 0 {
		return m.renderEmpty("No print files for " + m.design.Name)
	}

	height := m.contentHeight()
	listWidth, detailWidth := m.splitWidths()

	title := m.design.Name
	if m.printFilesLoading {
		title += " " + m.spinner.View()
	}
	list := m.renderTitledBox(title, m.printFileListContent(listWidth-2), listWidth, height, true)
	if detailWidth == 0 {
		return list
	}

	var detail string
	if file, ok := m.selectedPrintFile(); ok {
		detail = m.printFileDetail(file)
	} else {
		detail = m.theme.Styles().MutedText.Render("No print file matches the filter")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, list, m.renderTitledBox("Print file", detail, detailWidth, height, false))
}

func (m Model) printFileListContent(width int) string {
	items := m.printFiles.Items()
	rows := make([]string, 0, len(items))
	for _, f := range items {
		meta := strings.Join(nonEmpty(f.Printer.Name, f.Material.Name, f.Quality), " · ")
		nameWidth := max(width-len([]rune(meta))-3, 10)
		row := padRight(truncate(f.Filename, nameWidth), nameWidth)
		if meta != "" {
			row += " · " + meta
		}
		rows = append(rows, row)
	}

	var b strings.Builder
	b.WriteString(m.renderFilterLine(m.printFiles.Query(), m.theme.FocusBg))
	b.WriteString("\n\n")
	b.WriteString(renderRows(m.theme, rows, clampCursor(m.printFileCursor, len(rows)), width, m.theme.FocusBg))
	b.WriteString("\n\n")
	b.WriteString(renderPager(m.theme, m.printFiles, m.windowLimit(), m.theme.FocusBg))
	return b.String()
}

func (m Model) printFileDetail(f astroprint.PrintFile) string {
	styles := m.theme.Styles()
	info := f.Info
	rows := [][2]string{
		{"File", f.Filename},
		{"Created", astroprint.FormatCreated(f.CreatedAt())},
		{"Size", astroprint.FormatDimensions(info.Size)},
		{"Print time", astroprint.FormatPrintTime(info.PrintTime)},
		{"Layers", fmt.Sprintf("%d × %gmm", info.LayerCount, astroprint.Round2(info.LayerHeight))},
		{"Filament", fmt.Sprintf("%gcm · %gcm³ · %gg", astroprint.FilamentLengthCM(info), astroprint.FilamentVolumeCM3(info), astroprint.Round2(info.FilamentWeight))},
		{"Total", fmt.Sprintf("%gmm", astroprint.Round2(info.TotalFilament))},
		{"Format", f.Format},
		{"Printer", f.Printer.Name},
		{"Material", f.Material.Name},
		{"Quality", f.Quality},
	}

	var b strings.Builder
	for _, r := range rows {
		if strings.TrimSpace(r[1]) == "" {
			continue
		}
		b.WriteString(styles.MutedText.Render(padRight(r[0], 12)))
		b.WriteString(styles.Text.Render(r[1]))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	if m.box.CanPrint {
		b.WriteString(styles.FaintText.Render("enter: download and print"))
	} else {
		b.WriteString(styles.WarningText.Render("printer busy"))
	}
	return b.String()
}

func nonEmpty(values ...string) []string {
	out := values[:0]
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}
