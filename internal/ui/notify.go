package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/astroprint/astrodeck/internal/download"
)

type noticeLevel int

const (
	levelInfo noticeLevel = iota
	levelSuccess
	levelError
)

// notice is a transient notification shown under the content.
type notice struct {
	level noticeLevel
	title string
	text  string
	at    time.Time
}

// notify pushes a notification, dropping the oldest beyond MaxNotices.
func (m *Model) notify(level noticeLevel, title, text string) {
	m.notices = append(m.notices, notice{level: level, title: title, text: text, at: time.Now()})
	if len(m.notices) > MaxNotices {
		m.notices = m.notices[len(m.notices)-MaxNotices:]
	}
	ev := m.log.Info()
	if level == levelError {
		ev = m.log.Warn()
	}
	ev.Str("title", title).Msg(text)
}

// expireNotices drops notifications older than NoticeLifetime.
func (m *Model) expireNotices(now time.Time) {
	kept := m.notices[:0]
	for _, n := range m.notices {
		if now.Sub(n.at) < NoticeLifetime {
			kept = append(kept, n)
		}
	}
	m.notices = kept
}

func (m *Model) notifyCamera(connected bool) {
	if connected {
		m.notify(levelSuccess, "Camera detected", "Your Octoprint camera is connected with AstroPrint")
		return
	}
	m.notify(levelError, "Lost camera connection", "AstroPrint has lost connection with the camera")
}

func (m *Model) notifyDownload(n download.Notice) {
	m.notify(ternaryLevel(n.Success), n.Title, n.Text)
}

func ternaryLevel(success bool) noticeLevel {
	if success {
		return levelSuccess
	}
	return levelError
}

// renderNotices renders the notification stack, newest last.
func (m Model) renderNotices() string {
	bg := NewBgStyle(m.theme.Surface)
	styles := m.theme.Styles()

	lines := make([]string, 0, len(m.notices))
	for _, n := range m.notices {
		var marker string
		var style lipgloss.Style
		switch n.level {
		case levelSuccess:
			marker, style = "✔", styles.SuccessText
		case levelError:
			marker, style = "✘", styles.DangerText
		default:
			marker, style = "•", styles.InfoText
		}
		text := strings.TrimSpace(n.text)
		width := max(m.width-len([]rune(n.title))-6, 10)
		line := bg.Render(marker, style) + bg.Space() +
			bg.Render(n.title, style) + bg.Space() +
			bg.Render(truncate(text, width), styles.MutedText)
		lines = append(lines, bg.FillLine(line, m.width))
	}
	return strings.Join(lines, "\n")
}
