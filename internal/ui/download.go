package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const downloadDialogWidth = 56

// handleDownloadKey processes keys while the download dialog is open.
func (m Model) handleDownloadKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		return m, tea.Quit
	case key.Matches(msg, m.keys.CancelDownload):
		id, ok := m.downloads.CancelTarget()
		if !ok {
			return m, nil
		}
		cmd := m.cancelDownloadCmd(id)
		return m, cmd
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Confirm):
		m.downloads.Close()
	}
	return m, nil
}

// renderDownloadDialog renders the download progress overlay.
func (m Model) renderDownloadDialog() string {
	styles := m.theme.Styles()
	snap := m.downloads.Snapshot()

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Downloading " + snap.Kind.String()))
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render(truncate(snap.Name, downloadDialogWidth-6)))
	b.WriteString("\n\n")

	if snap.Failed != "" {
		b.WriteString(styles.DangerText.Render("Download failed"))
		b.WriteString("\n")
		b.WriteString(styles.Text.Render(snap.Failed))
		b.WriteString("\n\n")
		b.WriteString(styles.FaintText.Render("esc: close"))
	} else {
		barWidth := downloadDialogWidth - 12
		b.WriteString(progressBar(snap.Progress, barWidth, styles.AccentText))
		b.WriteString(" ")
		b.WriteString(styles.Text.Render(fmt.Sprintf("%3.0f%%", snap.Progress)))
		b.WriteString("\n\n")
		b.WriteString(styles.FaintText.Render("c: cancel · esc: close"))
	}

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.StatusColor(ternary(snap.Failed != "", "failed", "downloading")))).
		Padding(1, 2).
		Width(downloadDialogWidth)

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

// progressBar renders a text progress bar without a percentage label.
func progressBar(percent float64, width int, style lipgloss.Style) string {
	percent = min(max(percent, 0), 100)
	filled := min(int(float64(width)*percent/100), width)
	return style.Render(strings.Repeat("█", filled) + strings.Repeat("░", width-filled))
}
