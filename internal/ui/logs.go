package ui

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/astroprint/astrodeck/internal/logtail"
)

type logsMsg struct {
	entries []logtail.Entry
	err     error
}

// refreshLogsCmd reads the tail of our own log file.
func (m Model) refreshLogsCmd() tea.Cmd {
	path := m.cfg.LogFile
	return func() tea.Msg {
		if path == "" {
			return logsMsg{err: errors.New("logging to console only")}
		}
		entries, err := logtail.Tail(path, LogTailLines)
		return logsMsg{entries: entries, err: err}
	}
}

func (m *Model) applyLogs(msg logsMsg) {
	switch {
	case errors.Is(msg.err, fs.ErrNotExist):
		m.logErr = "no log file yet"
		m.logEntries = nil
	case msg.err != nil:
		m.logErr = msg.err.Error()
	default:
		m.logErr = ""
		m.logEntries = msg.entries
	}
	m.updateLogViewport()
}

func (m *Model) initLogViewport() {
	m.logViewport = viewport.New(max(m.width-4, 1), max(m.contentHeight()-3, 1))
	m.logViewport.Style = lipgloss.NewStyle()
}

// updateLogViewport resizes the viewport and re-renders its lines.
func (m *Model) updateLogViewport() {
	if m.logViewport.Width == 0 {
		m.initLogViewport()
	}
	m.logViewport.Width = max(m.width-4, 1)
	m.logViewport.Height = max(m.contentHeight()-3, 1)
	m.logViewport.Style = lipgloss.NewStyle().Background(lipgloss.Color(m.theme.FocusBg))
	m.logViewport.SetContent(m.renderLogLines())
	if m.logFollow {
		m.logViewport.GotoBottom()
	}
}

func (m Model) renderLogLines() string {
	styles := m.theme.Styles()
	lines := make([]string, 0, len(m.logEntries))
	for _, e := range m.logEntries {
		lines = append(lines, levelStyle(styles, e.Level).Render(truncate(logtail.Format(e), max(m.width-4, 10))))
	}
	return strings.Join(lines, "\n")
}

func levelStyle(styles Styles, level zerolog.Level) lipgloss.Style {
	switch level {
	case zerolog.ErrorLevel, zerolog.FatalLevel, zerolog.PanicLevel:
		return styles.DangerText
	case zerolog.WarnLevel:
		return styles.WarningText
	case zerolog.DebugLevel, zerolog.TraceLevel:
		return styles.FaintText
	default:
		return styles.Text
	}
}

func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ToggleFollow):
		m.logFollow = !m.logFollow
		if m.logFollow {
			m.logViewport.GotoBottom()
		}
		return m, nil
	case key.Matches(msg, m.keys.Refresh):
		return m, m.refreshLogsCmd()
	case key.Matches(msg, m.keys.FirstPage):
		m.logFollow = false
		m.logViewport.GotoTop()
		return m, nil
	case key.Matches(msg, m.keys.LastPage):
		m.logViewport.GotoBottom()
		return m, nil
	}

	// Any manual scroll stops following.
	var cmd tea.Cmd
	before := m.logViewport.YOffset
	m.logViewport, cmd = m.logViewport.Update(msg)
	if m.logViewport.YOffset < before {
		m.logFollow = false
	}
	return m, cmd
}

// renderLogs renders the log view.
func (m Model) renderLogs() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.FocusBg)

	content := m.logViewport.View()
	if m.logErr != "" && len(m.logEntries) == 0 {
		content = styles.MutedText.Render(m.logErr)
	}
	box := m.renderTitledBox("Log", content, m.width, m.contentHeight()-1, true)

	follow := ternary(m.logFollow, "on", "off")
	status := fmt.Sprintf("%s  %d lines  auto-tail %s", truncate(m.cfg.LogFile, 60), len(m.logEntries), follow)
	if m.logErr != "" && len(m.logEntries) > 0 {
		status += "  " + m.logErr
	}
	return box + "\n" + bg.Render(status, styles.FaintText)
}
