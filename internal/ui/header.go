package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/astroprint/astrodeck/internal/session"
)

const logo = "astrodeck"

// renderHeader renders the status bar.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	if !m.started && m.snapshot.LastError != nil {
		return m.renderOfflineHeader(styles, bg)
	}

	compact := m.width < LayoutCompactWidth
	parts := []string{bg.Render(logo, styles.Logo)}

	if m.snapshot.IsOffline() {
		parts = append(parts, bg.Render("OctoPrint "+classifyConnectionError(m.snapshot.LastError), styles.DangerText.Bold(true)))
	}

	if m.box.User.LoggedIn() {
		who := m.box.User.Email
		if who == "" {
			who = m.box.User.Name
		}
		parts = append(parts, bg.Render("●", styles.SuccessText)+bg.Space()+bg.Render(truncate(who, 30), styles.Text))
	} else {
		parts = append(parts, bg.Render("○ not linked", styles.MutedText))
	}

	if !m.session.Admin() && m.session.State() == session.Settled {
		parts = append(parts, bg.Render("guest", styles.WarningText))
	}

	if status := m.box.BoxrouterStatus; status != "" {
		parts = append(parts,
			bg.Render("Router:", styles.MutedText)+bg.Space()+
				bg.Render(status, styles.StatusStyle(status)))
	}

	camera := bg.Render("Cam:", styles.MutedText) + bg.Space()
	if m.cameraChecking {
		camera += bg.Render(m.spinner.View(), styles.AccentText)
	} else if m.box.CameraConnected {
		camera += bg.Render("on", styles.SuccessText)
	} else {
		camera += bg.Render("off", styles.FaintText)
	}
	parts = append(parts, camera)

	if !m.box.CanPrint {
		parts = append(parts, bg.Render("printer busy", styles.WarningText))
	}

	if m.socket.HeatingUp {
		parts = append(parts, bg.Render("heating", styles.WarningText.Bold(true)))
	}
	if layer := m.socket.CurrentLayer; layer != nil && !compact {
		parts = append(parts, bg.Render(fmt.Sprintf("Layer: %d", *layer), styles.InfoText))
	}

	if ts := m.formatTimestamp(); ts != "" && !compact {
		parts = append(parts, bg.Render(ts, styles.MutedText))
	}

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Foreground(lipgloss.Color(m.theme.Text)).
		Width(m.width).
		Render(bg.Join(parts, "  "))
}

// renderOfflineHeader is shown while OctoPrint has never answered.
func (m Model) renderOfflineHeader(styles Styles, bg BgStyle) string {
	parts := []string{
		bg.Render(logo, styles.Logo),
		bg.Render("OctoPrint "+classifyConnectionError(m.snapshot.LastError), styles.DangerText.Bold(true)),
		bg.Render("Retrying...", styles.WarningText.Bold(true)),
		bg.Render(truncateMiddle(m.cfg.OctoPrintURL, 40), styles.MutedText),
	}
	return styles.Header.Width(m.width).Render(bg.Join(parts, "  "))
}

// formatTimestamp formats the last update time with a relative hint.
func (m Model) formatTimestamp() string {
	if m.lastUpdated.IsZero() {
		return ""
	}

	since := time.Since(m.lastUpdated)
	ts := m.lastUpdated.Format("15:04:05")
	switch {
	case since < time.Minute:
		ts += " (now)"
	case since < time.Hour:
		ts += fmt.Sprintf(" (%dm ago)", int(since.Minutes()))
	case since < 24*time.Hour:
		ts += fmt.Sprintf(" (%dh ago)", int(since.Hours()))
	}
	return ts
}

// classifyConnectionError returns a short description of the connection error.
func classifyConnectionError(err error) string {
	if err == nil {
		return "OFFLINE"
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "connection refused"):
		return "OFFLINE"
	case strings.Contains(msg, "no such host"):
		return "HOST NOT FOUND"
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "deadline exceeded"):
		return "TIMEOUT"
	case strings.Contains(msg, "circuit breaker"):
		return "UNREACHABLE"
	default:
		return "ERROR"
	}
}

// truncateMiddle truncates a string in the middle, keeping more of the end.
func truncateMiddle(s string, limit int) string {
	r := []rune(s)
	if limit <= 0 {
		return ""
	}
	if len(r) <= limit {
		return s
	}
	if limit <= 5 {
		return string(r[:limit])
	}
	endLen := (limit - 3) * 2 / 3
	startLen := limit - 3 - endLen
	return string(r[:startLen]) + "..." + string(r[len(r)-endLen:])
}

// renderCommandBar renders the key hints for the current view.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch m.currentView {
	case ViewDesigns:
		commands = []cmd{
			{"j/k", "Move"},
			{"←/→", "Page"},
			{"/", "Filter"},
			{"enter", "Print files"},
			{"D", "Download"},
			{"r", "Refresh"},
		}
	case ViewPrintFiles:
		commands = []cmd{
			{"j/k", "Move"},
			{"←/→", "Page"},
			{"/", "Filter"},
			{"enter", "Print"},
			{"esc", "Designs"},
		}
	case ViewSettings:
		commands = []cmd{
			{"b", "Rename"},
			{"m", "Printer"},
			{"f", "Filament"},
			{"C", "Camera"},
			{"B", "Boxrouter"},
		}
	case ViewLogs:
		commands = []cmd{
			{"space", ternary(m.logFollow, "Pause", "Follow")},
			{"j/k", "Scroll"},
			{"r", "Reload"},
		}
	}

	if m.box.User.LoggedIn() {
		commands = append(commands, cmd{"O", "Logout"})
	} else {
		commands = append(commands, cmd{"L", "Login"})
	}
	commands = append(commands, cmd{"tab", "View"}, cmd{"?", "More"})

	colon := bg.Render(":", styles.FaintText)
	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments, bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}
	segments = append(segments, bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(bg.Join(segments, "  "))
}
