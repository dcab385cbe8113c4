package ui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/astroprint/astrodeck/internal/astroprint"
	"github.com/astroprint/astrodeck/internal/session"
)

var (
	errInvalidBoxName = errors.New("invalid box name: use letters, digits and hyphens")
	errNoAccessKey    = errors.New("access key is missing, please provide a valid one")
	errNoCode         = errors.New("paste the code AstroPrint showed after authorizing")
	errNoFilament     = errors.New("filament name is required")
)

// handleSettingsKey processes keyboard input for the box settings view.
func (m Model) handleSettingsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.RenameBox):
		form := newFormModal("Rename box", newField("Name", "my-astrobox", m.boxName))
		form.validate = func(values []string) error {
			if !astroprint.ValidBoxName(values[0]) {
				return errInvalidBoxName
			}
			return nil
		}
		form.submit = func(values []string) tea.Cmd {
			return m.changeBoxNameCmd(values[0])
		}
		m.modal = form
		return m, nil

	case key.Matches(msg, m.keys.PrinterModel):
		return m.openPrinterPicker()

	case key.Matches(msg, m.keys.Filament):
		form := newFormModal("Loaded filament",
			newField("Name", "PLA", m.filament.Name),
			newField("Color", "#ff6600", m.filament.Color),
		)
		form.validate = func(values []string) error {
			if values[0] == "" {
				return errNoFilament
			}
			return nil
		}
		form.submit = func(values []string) tea.Cmd {
			return m.changeFilamentCmd(astroprint.Filament{Name: values[0], Color: values[1]})
		}
		m.modal = form
		return m, nil

	case key.Matches(msg, m.keys.CheckCamera):
		cmd := m.checkCameraCmd()
		return m, cmd

	case key.Matches(msg, m.keys.ConnectBoxrouter):
		return m, m.connectBoxrouterCmd()
	}
	return m, nil
}

// openLoginModal asks for the access key and the code AstroPrint returns
// after the user authorizes this box in a browser.
func (m Model) openLoginModal() (tea.Model, tea.Cmd) {
	if !m.session.Admin() {
		m.notify(levelInfo, "Please log in", "You must be logged onto your OctoPrint Account to link AstroPrint.")
		return m, nil
	}
	if m.box.User.LoggedIn() {
		m.notify(levelInfo, "Already linked", "Log out of AstroPrint first to link another account.")
		return m, nil
	}

	appSite, appID, redirect := m.cfg.AppSite, m.cfg.AppID, m.redirectURI()
	form := newFormModal("Link AstroPrint account",
		newField("Access key", "AstroPrint access key", ""),
		newField("Code", "code from AstroPrint", ""),
	)
	form.describe = func(values []string) []string {
		if values[0] == "" {
			return []string{"Enter the access key of your AstroPrint developer app, then open the address shown here."}
		}
		u, err := astroprint.AuthorizeURL(appSite, appID, redirect, values[0])
		if err != nil {
			return []string{err.Error()}
		}
		return []string{"Open this address, authorize the box and paste the code:", u}
	}
	form.validate = func(values []string) error {
		switch {
		case values[0] == "":
			return errNoAccessKey
		case values[1] == "":
			return errNoCode
		}
		return nil
	}
	form.submit = func(values []string) tea.Cmd {
		return tea.Sequence(m.saveAccessKeyCmd(values[0]), m.loginCmd(values[1], values[0]))
	}
	m.modal = form
	return m, nil
}

// renderSettings renders the box settings view.
func (m Model) renderSettings() string {
	styles := m.theme.Styles()

	value := func(v, fallback string) string {
		if strings.TrimSpace(v) == "" {
			return styles.FaintText.Render(fallback)
		}
		return styles.Text.Render(v)
	}

	account := styles.FaintText.Render("not linked")
	if u := m.box.User.User; u != nil {
		account = styles.Text.Render(strings.Join(nonEmpty(u.Name, u.Email), " · "))
	}

	octoprint := styles.WarningText.Render("guest")
	switch {
	case m.session.State() == session.Checking:
		octoprint = styles.MutedText.Render("checking " + m.spinner.View())
	case m.session.Admin():
		octoprint = styles.SuccessText.Render("admin")
	}

	camera := ternary(m.box.CameraConnected, "connected", "not detected")
	cameraStyle := ternary(m.box.CameraConnected, "connected", "disconnected")
	if m.cameraChecking {
		camera, cameraStyle = "checking "+m.spinner.View(), "connecting"
	}

	router := m.box.BoxrouterStatus
	if router == "" {
		router = "unknown"
	}

	rows := [][2]string{
		{"Box name", value(m.boxName, "unchanged this session")},
		{"Account", account},
		{"OctoPrint", octoprint},
		{"Boxrouter", styles.StatusStyle(router).Render(titleCase(router))},
		{"Camera", styles.StatusStyle(cameraStyle).Render(camera)},
		{"Can print", ternary(m.box.CanPrint, styles.SuccessText.Render("yes"), styles.WarningText.Render("no"))},
		{"Printer", value(m.printerModel, "not set")},
		{"Filament", value(strings.Join(nonEmpty(m.filament.Name, m.filament.Color), " "), "not set")},
	}
	if u := m.socket.UserLogged; u != nil {
		rows = append(rows, [2]string{"Socket user", styles.Text.Render(*u)})
	}
	if len(m.socket.Job) > 0 && string(m.socket.Job) != "null" {
		rows = append(rows, [2]string{"Job", styles.Text.Render(truncate(string(m.socket.Job), max(m.width-20, 10)))})
	}

	var b strings.Builder
	for _, r := range rows {
		b.WriteString(styles.MutedText.Render(padRight(r[0], 14)))
		b.WriteString(r[1])
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render("b: rename · m: printer model · f: filament · C: check camera · B: connect boxrouter"))

	return m.renderTitledBox("Box", b.String(), m.width, m.contentHeight(), true)
}
