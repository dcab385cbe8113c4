package ui

import (
	"context"
	"errors"
	"net/url"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/astroprint/astrodeck/internal/astroprint"
	"github.com/astroprint/astrodeck/internal/download"
	"github.com/astroprint/astrodeck/internal/session"
)

// Results of plugin calls. Each carries what the update loop needs to apply
// it without looking at the model that issued the call.

type initialStateMsg struct {
	box astroprint.InitialState
	err error
}

type adminMsg struct {
	admin bool
	err   error
}

type probeMsg struct {
	gen   int
	admin bool
	err   error
}

type designsMsg struct {
	designs []astroprint.Design
	notify  bool
	err     error
}

type printFilesMsg struct {
	designID string
	files    []astroprint.PrintFile
	err      error
}

type downloadMsg struct {
	id    string
	name  string
	kind  download.Kind
	state astroprint.DownloadState
	err   error
}

type cancelMsg struct {
	id  string
	err error
}

type cameraMsg struct {
	connected bool
	err       error
}

type loginMsg struct {
	user astroprint.User
	err  error
}

type logoutMsg struct {
	err error
}

type boxNameMsg struct {
	name string
	err  error
}

type printerModelMsg struct {
	model astroprint.PrinterModel
	err   error
}

type filamentMsg struct {
	filament astroprint.Filament
	err      error
}

type boxrouterMsg struct {
	err error
}

// call runs fn with a per-request timeout.
func (m Model) call(fn func(ctx context.Context) tea.Msg) tea.Cmd {
	parent := m.ctx
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, RequestTimeout)
		defer cancel()
		return fn(ctx)
	}
}

// holdUntil sleeps until at least floor has passed since start.
func holdUntil(start time.Time, floor time.Duration) {
	if wait := floor - time.Since(start); wait > 0 {
		time.Sleep(wait)
	}
}

func (m Model) loadInitialStateCmd() tea.Cmd {
	if m.api == nil {
		return nil
	}
	api := m.api
	return m.call(func(ctx context.Context) tea.Msg {
		box, err := api.InitialState(ctx)
		return initialStateMsg{box: box, err: err}
	})
}

func (m Model) checkAdminCmd() tea.Cmd {
	if m.api == nil {
		return nil
	}
	api := m.api
	return m.call(func(ctx context.Context) tea.Msg {
		sess, err := api.PassiveLogin(ctx)
		return adminMsg{admin: err == nil && sess.IsAdmin(), err: err}
	})
}

// probeCmd re-checks the admin flag after session.ProbeInterval.
func (m Model) probeCmd(gen int) tea.Cmd {
	api := m.api
	parent := m.ctx
	return tea.Tick(session.ProbeInterval, func(time.Time) tea.Msg {
		ctx, cancel := context.WithTimeout(parent, RequestTimeout)
		defer cancel()
		sess, err := api.PassiveLogin(ctx)
		return probeMsg{gen: gen, admin: err == nil && sess.IsAdmin(), err: err}
	})
}

// loadDesignsCmd fetches the designs list. notify raises a "refreshed"
// notice, as for a user-requested refresh.
func (m *Model) loadDesignsCmd() tea.Cmd {
	return m.fetchDesigns(false)
}

func (m *Model) fetchDesigns(notify bool) tea.Cmd {
	if m.api == nil || m.designsLoading {
		return nil
	}
	m.designsLoading = true
	api := m.api
	return tea.Batch(m.spinner.Tick, m.call(func(ctx context.Context) tea.Msg {
		start := time.Now()
		designs, err := api.Designs(ctx)
		if err == nil {
			holdUntil(start, MinDesignsLoading)
		}
		return designsMsg{designs: designs, notify: notify, err: err}
	}))
}

func (m *Model) loadPrintFilesCmd(design astroprint.Design) tea.Cmd {
	m.printFilesLoading = true
	api := m.api
	return tea.Batch(m.spinner.Tick, m.call(func(ctx context.Context) tea.Msg {
		files, err := api.PrintFiles(ctx, design.ID)
		return printFilesMsg{designID: design.ID, files: files, err: err}
	}))
}

func (m Model) downloadDesignCmd(design astroprint.Design) tea.Cmd {
	api := m.api
	return m.call(func(ctx context.Context) tea.Msg {
		err := api.DownloadDesign(ctx, design)
		return downloadMsg{id: design.ID, name: design.Name, kind: download.KindDesign, state: astroprint.DownloadStateDownloading, err: err}
	})
}

func (m Model) downloadPrintFileCmd(file astroprint.PrintFile) tea.Cmd {
	api := m.api
	return m.call(func(ctx context.Context) tea.Msg {
		st, err := api.DownloadPrintFile(ctx, file)
		return downloadMsg{id: file.ID, name: file.Filename, kind: download.KindPrintFile, state: st, err: err}
	})
}

func (m Model) cancelDownloadCmd(id string) tea.Cmd {
	api := m.api
	return m.call(func(ctx context.Context) tea.Msg {
		return cancelMsg{id: id, err: api.CancelDownload(ctx, id)}
	})
}

func (m *Model) checkCameraCmd() tea.Cmd {
	if m.cameraChecking {
		return nil
	}
	m.cameraChecking = true
	api := m.api
	return tea.Batch(m.spinner.Tick, m.call(func(ctx context.Context) tea.Msg {
		start := time.Now()
		connected, err := api.CheckCamera(ctx)
		if err == nil {
			holdUntil(start, MinCameraCheck)
		}
		return cameraMsg{connected: connected, err: err}
	}))
}

func (m Model) loginCmd(code, accessKey string) tea.Cmd {
	api := m.api
	redirect := m.redirectURI()
	return m.call(func(ctx context.Context) tea.Msg {
		user, err := api.Login(ctx, astroprint.LoginRequest{Code: code, URL: redirect, APAccessKey: accessKey})
		return loginMsg{user: user, err: err}
	})
}

func (m Model) saveAccessKeyCmd(accessKey string) tea.Cmd {
	api := m.api
	log := m.log
	return m.call(func(ctx context.Context) tea.Msg {
		if err := api.SaveAccessKey(ctx, accessKey); err != nil {
			log.Warn().Err(err).Msg("save access key")
		}
		return nil
	})
}

func (m Model) logoutCmd() tea.Cmd {
	api := m.api
	return m.call(func(ctx context.Context) tea.Msg {
		return logoutMsg{err: api.Logout(ctx)}
	})
}

func (m Model) changeBoxNameCmd(name string) tea.Cmd {
	api := m.api
	return m.call(func(ctx context.Context) tea.Msg {
		return boxNameMsg{name: name, err: api.ChangeBoxName(ctx, name)}
	})
}

func (m Model) changePrinterModelCmd(model astroprint.PrinterModel) tea.Cmd {
	api := m.api
	return m.call(func(ctx context.Context) tea.Msg {
		return printerModelMsg{model: model, err: api.ChangePrinterModel(ctx, model)}
	})
}

func (m Model) changeFilamentCmd(filament astroprint.Filament) tea.Cmd {
	api := m.api
	return m.call(func(ctx context.Context) tea.Msg {
		return filamentMsg{filament: filament, err: api.ChangeFilament(ctx, filament)}
	})
}

func (m Model) connectBoxrouterCmd() tea.Cmd {
	api := m.api
	return m.call(func(ctx context.Context) tea.Msg {
		return boxrouterMsg{err: api.ConnectBoxrouter(ctx)}
	})
}

// redirectURI is the page the cloud sends the OAuth code back to. A
// terminal has no page of its own, so it is the OctoPrint root.
func (m Model) redirectURI() string {
	if c, ok := m.api.(interface{ BaseURL() *url.URL }); ok {
		return c.BaseURL().String()
	}
	return m.cfg.OctoPrintURL
}

// handleResult applies the result of a plugin call.
func (m Model) handleResult(msg tea.Msg) (tea.Model, tea.Cmd, bool) {
	switch msg := msg.(type) {
	case initialStateMsg:
		cmd := m.applyInitialState(msg)
		return m, cmd, true

	case adminMsg:
		if msg.err != nil {
			m.log.Warn().Err(msg.err).Msg("passive login failed")
		}
		m.session.Settle(msg.admin)
		return m, nil, true

	case probeMsg:
		cmd := m.applyProbe(msg)
		return m, cmd, true

	case designsMsg:
		m.designsLoading = false
		if msg.err != nil {
			cmd := m.failure("Error retrieving designs", "There was an error retrieving AstroPrint designs, please try again later.", msg.err)
			return m, cmd, true
		}
		m.designs.SetItems(msg.designs)
		m.designCursor = 0
		if msg.notify {
			m.notify(levelSuccess, "AstroPrint Designs Retrieved", "Your designs and print files from AstroPrint have been refreshed")
		}
		return m, nil, true

	case printFilesMsg:
		if msg.designID != m.design.ID {
			return m, nil, true
		}
		m.printFilesLoading = false
		if msg.err != nil {
			cmd := m.failure("Error retrieving Print Files", "There was an error retrieving print files, please try again later.", msg.err)
			return m, cmd, true
		}
		m.printFiles.SetItems(msg.files)
		m.printFileCursor = 0
		return m, nil, true

	case downloadMsg:
		cmd := m.applyDownloadStarted(msg)
		return m, cmd, true

	case cancelMsg:
		if msg.err != nil {
			cmd := m.failure("Cancel failed", "The download could not be canceled.", msg.err)
			return m, cmd, true
		}
		m.downloads.Canceled(msg.id)
		m.downloads.Close()
		return m, nil, true

	case cameraMsg:
		m.cameraChecking = false
		if msg.err != nil {
			m.box.CameraConnected = false
			cmd := m.failure("Camera check failed", "There was an error looking for a camera.", msg.err)
			return m, cmd, true
		}
		m.box.CameraConnected = msg.connected
		m.notifyCamera(msg.connected)
		return m, nil, true

	case loginMsg:
		cmd := m.applyLogin(msg)
		return m, cmd, true

	case logoutMsg:
		if msg.err != nil {
			m.log.Warn().Err(msg.err).Msg("logout failed")
			m.notify(levelError, "AstroPrint Logout failed", "There was an error logging out of AstroPrint.")
			return m, nil, true
		}
		m.dropUser()
		m.notify(levelSuccess, "AstroPrint Logout successful", "You are now logged out of AstroPrint")
		return m, nil, true

	case boxNameMsg:
		if msg.err != nil {
			cmd := m.failure("Rename failed", "The box could not be renamed.", msg.err)
			return m, cmd, true
		}
		m.boxName = msg.name
		m.notify(levelSuccess, "Box renamed", "Your box is now called "+msg.name)
		return m, nil, true

	case printerModelMsg:
		if msg.err != nil {
			cmd := m.failure("Printer model not changed", "There was an error saving the printer model.", msg.err)
			return m, cmd, true
		}
		m.printerModel = msg.model.Name
		m.notify(levelSuccess, "Printer model changed", "Printer model set to "+msg.model.Name)
		return m, nil, true

	case filamentMsg:
		if msg.err != nil {
			cmd := m.failure("Filament not changed", "There was an error saving the filament.", msg.err)
			return m, cmd, true
		}
		m.filament = msg.filament
		m.notify(levelSuccess, "Filament changed", "Loaded filament set to "+msg.filament.Name)
		return m, nil, true

	case boxrouterMsg:
		if msg.err != nil {
			cmd := m.failure("Boxrouter error", "There was an error connecting your boxrouter to AstroPrint, please try again later.", msg.err)
			return m, cmd, true
		}
		m.box.BoxrouterStatus = "connecting"
		return m, nil, true

	case logsMsg:
		m.applyLogs(msg)
		return m, nil, true

	case pickerItemsMsg:
		if p, ok := m.modal.(*printerPicker); ok {
			m.modal = p.receive(msg)
		}
		if msg.err != nil {
			cmd := m.failure("Error retrieving printers", "There was an error retrieving printer models, please try again later.", msg.err)
			return m, cmd, true
		}
		return m, nil, true
	}
	return m, nil, false
}

// applyInitialState takes over a direct initialstate result. Failures
// still reveal the plugin views, with the user unlinked and printing
// allowed.
func (m *Model) applyInitialState(msg initialStateMsg) tea.Cmd {
	m.started = true
	if msg.err != nil {
		m.log.Warn().Err(msg.err).Msg("initial state failed")
		box := m.box
		box.User = astroprint.OptionalUser{}
		box.CameraConnected = false
		box.CanPrint = true
		m.applyBox(box)
		if errors.Is(msg.err, astroprint.ErrUnauthorized) {
			return m.failure("", "", msg.err)
		}
		return nil
	}
	if m.store != nil {
		box := msg.box
		m.store.Update(&box, nil)
	}
	wasLogged := m.box.User.LoggedIn()
	cmd := m.applyBox(msg.box)
	if wasLogged && msg.box.User.LoggedIn() && len(m.designs.All()) == 0 {
		return m.loadDesignsCmd()
	}
	return cmd
}

// applyProbe feeds one admin probe into the session machine.
func (m *Model) applyProbe(msg probeMsg) tea.Cmd {
	var outcome session.Outcome
	if msg.err != nil {
		outcome = m.session.ObserveError(msg.gen)
	} else {
		outcome = m.session.Observe(msg.gen, msg.admin)
	}
	switch outcome {
	case session.Retry:
		return m.probeCmd(msg.gen)
	case session.BecameAdmin:
		m.started = false
		return m.loadInitialStateCmd()
	case session.LostAdmin:
		m.dropUser()
	case session.GaveUp:
		m.log.Debug().Int("probes", session.MaxProbes).Msg("admin state did not change")
	}
	return nil
}

// applyDownloadStarted reacts to the plugin accepting or refusing a download.
func (m *Model) applyDownloadStarted(msg downloadMsg) tea.Cmd {
	if msg.err != nil {
		if astroprint.IsBadRequest(msg.err) {
			var apiErr *astroprint.APIError
			errors.As(msg.err, &apiErr)
			return m.failure("Error adding Design", apiErr.Message(), msg.err)
		}
		return m.failure("Error retrieving Design", "There was an error retrieving design, please try again later.", msg.err)
	}
	m.downloads.Start(msg.id, msg.name, msg.kind)
	if msg.state == astroprint.DownloadStatePrinting {
		if n, done := m.downloads.Progress(msg.id, 100); done {
			m.notifyDownload(n)
		}
	}
	return nil
}

// applyLogin links the AstroPrint user returned by the plugin.
func (m *Model) applyLogin(msg loginMsg) tea.Cmd {
	if msg.err != nil {
		switch {
		case errors.Is(msg.err, astroprint.ErrForbidden):
			m.notify(levelError, "Login failed: Forbidden", "Octoprint admin user must be logged to link Astroprint account.")
		default:
			var apiErr *astroprint.APIError
			if errors.As(msg.err, &apiErr) && apiErr.Code != "" {
				m.notify(levelError, "Login failed: "+apiErr.Code, apiErr.Description)
			} else {
				m.notify(levelError, "Login failed", "There was an error linking your Astroprint account, please try again later.")
			}
		}
		m.log.Warn().Err(msg.err).Msg("login failed")
		return nil
	}
	user := msg.user
	box := m.box
	box.User = astroprint.OptionalUser{User: &user}
	m.box = box
	m.notify(levelSuccess, "AstroPrint Login successful", "You are now logged to Astroprint as "+user.Email)
	return m.loadDesignsCmd()
}

// dropUser forgets the linked AstroPrint user and everything fetched for it.
func (m *Model) dropUser() {
	if m.store != nil {
		m.store.ClearUser()
	}
	m.box.User = astroprint.OptionalUser{}
	m.clearLists()
}

// failure reports a failed plugin call. A 401 means the AstroPrint session
// is gone: the user is unlinked instead of showing the call's own error.
func (m *Model) failure(title, text string, err error) tea.Cmd {
	if astroprint.IsUnauthorized(err) {
		m.dropUser()
		m.notify(levelError, "AstroPrint session expired", "Your AstroPrint session has expired, please log again.")
		return nil
	}
	m.log.Warn().Err(err).Str("action", title).Msg("plugin call failed")
	m.notify(levelError, title, text)
	return nil
}
