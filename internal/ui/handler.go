package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/astroprint/astrodeck/internal/events"
)

// eventHandler applies push events to the model. Handler methods cannot
// return commands, so follow-up calls are collected in cmds.
type eventHandler struct {
	m    *Model
	cmds []tea.Cmd
}

var _ events.Handler = (*eventHandler)(nil)

// handleEvent dispatches one push event.
func (m Model) handleEvent(ev events.Event) (tea.Model, tea.Cmd) {
	h := &eventHandler{m: &m}
	if err := events.Dispatch(ev, h); err != nil {
		m.log.Warn().Err(err).Str("event", ev.Name).Msg("bad push event")
		return m, nil
	}
	return m, tea.Batch(h.cmds...)
}

func (h *eventHandler) CameraStatus(connected bool) {
	h.m.box.CameraConnected = connected
	h.m.notifyCamera(connected)
}

// LogOut means the plugin wants the client to unlink the user.
func (h *eventHandler) LogOut() {
	h.cmds = append(h.cmds, h.m.logoutCmd())
}

func (h *eventHandler) CanPrint(canPrint bool) {
	h.m.box.CanPrint = canPrint
}

// Download applies progress, failure and cancellation in that order; a
// payload may carry more than one.
func (h *eventHandler) Download(update events.DownloadUpdate) {
	if update.Progress > 0 {
		if n, done := h.m.downloads.Progress(update.ID, update.Progress); done {
			h.m.notifyDownload(n)
		}
	}
	if update.Failed != "" {
		h.m.downloads.Fail(update.ID, update.Failed)
	}
	if update.Canceled {
		h.m.downloads.Canceled(update.ID)
		h.m.downloads.Close()
	}
}

func (h *eventHandler) UserLogged() {
	if h.m.api != nil && h.m.session.LoggedIn() {
		h.cmds = append(h.cmds, h.m.probeCmd(h.m.session.Generation()))
	}
}

func (h *eventHandler) UserLoggedOut() {
	if h.m.api != nil && h.m.session.LoggedOut() {
		h.cmds = append(h.cmds, h.m.probeCmd(h.m.session.Generation()))
	}
}

// AstroPrintUserLoggedOut means the cloud revoked the link. The plugin has
// already removed the user.
func (h *eventHandler) AstroPrintUserLoggedOut() {
	if h.m.box.User.LoggedIn() {
		h.m.dropUser()
	}
}

func (h *eventHandler) BoxrouterStatus(status string) {
	h.m.box.BoxrouterStatus = status
	switch status {
	case "error":
		h.m.notify(levelError, "Boxrouter error", "There was an error connecting your boxrouter to AstroPrint, please try again later.")
	case "connected":
		h.m.notify(levelSuccess, "AstroPrint Boxrouter Connected", "Your octopi is connected to Astroprint cloud")
	}
}

func (h *eventHandler) SocketUpdate(update events.SocketUpdateData) {
	h.m.socket = update
	if update.Camera != nil {
		h.m.box.CameraConnected = *update.Camera
	}
}

func (h *eventHandler) Unknown(name string) {
	h.m.log.Debug().Str("event", name).Msg("ignoring unknown push event")
}
